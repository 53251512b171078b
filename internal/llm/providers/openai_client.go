// File path: internal/llm/providers/openai_client.go
package providers

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/openai/openai-go/v2"

	"github.com/nicodishanthj/docgen/internal/common"
)

// OpenAIOptions tunes a chat completion request.
type OpenAIOptions struct {
	Model       string
	Temperature float64
	MaxTokens   int64
}

// OpenAIProvider talks to any OpenAI compatible chat completion endpoint,
// Groq included.
type OpenAIProvider struct {
	client *openai.Client
	opts   OpenAIOptions
}

func NewOpenAIProvider(client *openai.Client, opts OpenAIOptions) *OpenAIProvider {
	common.Logger().Info("llm: OpenAI compatible provider configured", "model", opts.Model, "max_tokens", opts.MaxTokens)
	return &OpenAIProvider{client: client, opts: opts}
}

func (o *OpenAIProvider) Chat(ctx context.Context, messages []Message) (string, error) {
	if o.client == nil {
		return "", fmt.Errorf("nil openai client")
	}
	logger := common.Logger()
	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(o.opts.Model),
		Messages: make([]openai.ChatCompletionMessageParamUnion, 0, len(messages)),
	}
	if o.opts.Temperature > 0 {
		params.Temperature = openai.Float(o.opts.Temperature)
	}
	if o.opts.MaxTokens > 0 {
		params.MaxTokens = openai.Int(o.opts.MaxTokens)
	}
	for _, msg := range messages {
		switch msg.Role {
		case RoleSystem:
			params.Messages = append(params.Messages, openai.SystemMessage(msg.Content))
		case RoleAssistant:
			params.Messages = append(params.Messages, openai.AssistantMessage(msg.Content))
		default:
			params.Messages = append(params.Messages, openai.UserMessage(msg.Content))
		}
	}
	logger.Debug("llm: sending chat completion request", "model", o.opts.Model, "messages", len(messages))
	resp, err := o.client.Chat.Completions.New(ctx, params)
	if err != nil {
		logger.Error("llm: chat completion failed", "error", err)
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices returned", ErrEmptyResponse)
	}
	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return "", fmt.Errorf("%w: blank message content", ErrEmptyResponse)
	}
	logger.Debug("llm: chat completion succeeded", "chars", len(content))
	return content, nil
}

func (o *OpenAIProvider) Name() string {
	return "openai"
}
