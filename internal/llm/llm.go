// File path: internal/llm/llm.go
package llm

import (
	"strings"

	openai "github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"

	"github.com/nicodishanthj/docgen/internal/common"
	"github.com/nicodishanthj/docgen/internal/llm/providers"
)

type Message = providers.Message

type Provider = providers.Provider

const (
	RoleSystem    = providers.RoleSystem
	RoleUser      = providers.RoleUser
	RoleAssistant = providers.RoleAssistant
)

// NewProvider picks the OpenAI compatible client when a key is configured
// and the local stub otherwise.
func NewProvider(cfg Config) (Provider, error) {
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	logger := common.Logger()
	if cfg.Provider == ProviderLocal || (cfg.Provider == ProviderAuto && cfg.APIKey == "") {
		if cfg.Provider == ProviderAuto {
			logger.Warn("llm: no API key set; falling back to local provider")
		}
		return providers.NewLocalProvider(), nil
	}
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithBaseURL(cfg.Endpoint),
		option.WithMaxRetries(0),
	}
	if cfg.HTTPTimeout > 0 {
		opts = append(opts, option.WithRequestTimeout(cfg.HTTPTimeout))
	}
	logger.Info("llm: configuring OpenAI compatible client", "endpoint", cfg.Endpoint, "model", cfg.Model)
	client := openai.NewClient(opts...)
	return providers.NewOpenAIProvider(&client, providers.OpenAIOptions{
		Model:       cfg.Model,
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxTokens,
	}), nil
}

// NormalizeMessages lower-cases roles and drops messages without content.
func NormalizeMessages(messages []Message) []Message {
	out := make([]Message, 0, len(messages))
	for _, msg := range messages {
		if strings.TrimSpace(msg.Content) == "" {
			continue
		}
		msg.Role = strings.ToLower(strings.TrimSpace(msg.Role))
		out = append(out, msg)
	}
	return out
}
