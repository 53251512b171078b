// File path: internal/llm/config.go
package llm

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	ProviderAuto   = "auto"
	ProviderOpenAI = "openai"
	ProviderLocal  = "local"

	DefaultEndpoint = "https://api.groq.com/openai/v1"
	DefaultModel    = "llama3-70b-8192"
)

// Config selects and tunes the generation provider.
type Config struct {
	Provider    string
	APIKey      string
	Endpoint    string
	Model       string
	Temperature float64
	MaxTokens   int64
	HTTPTimeout time.Duration
}

// DefaultConfig mirrors the Groq settings the service was built against.
func DefaultConfig() Config {
	return Config{
		Provider:    ProviderAuto,
		Endpoint:    DefaultEndpoint,
		Model:       DefaultModel,
		Temperature: 0.3,
		MaxTokens:   2000,
		HTTPTimeout: 60 * time.Second,
	}
}

// LoadConfig reads DOCGEN_LLM_* variables on top of DefaultConfig. The key is
// taken from GROQ_API_KEY, falling back to OPENAI_API_KEY.
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()
	env := Config{
		Provider: strings.ToLower(strings.TrimSpace(os.Getenv("DOCGEN_LLM_PROVIDER"))),
		Endpoint: strings.TrimSpace(os.Getenv("DOCGEN_LLM_ENDPOINT")),
		Model:    strings.TrimSpace(os.Getenv("DOCGEN_LLM_MODEL")),
	}
	for _, key := range []string{"GROQ_API_KEY", "OPENAI_API_KEY"} {
		if value := strings.TrimSpace(os.Getenv(key)); value != "" {
			env.APIKey = value
			break
		}
	}
	if raw := strings.TrimSpace(os.Getenv("DOCGEN_LLM_TEMPERATURE")); raw != "" {
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return Config{}, fmt.Errorf("parse DOCGEN_LLM_TEMPERATURE: %w", err)
		}
		env.Temperature = value
	}
	if raw := strings.TrimSpace(os.Getenv("DOCGEN_LLM_MAX_TOKENS")); raw != "" {
		value, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return Config{}, fmt.Errorf("parse DOCGEN_LLM_MAX_TOKENS: %w", err)
		}
		env.MaxTokens = value
	}
	if raw := strings.TrimSpace(os.Getenv("DOCGEN_LLM_HTTP_TIMEOUT")); raw != "" {
		value, err := time.ParseDuration(raw)
		if err != nil {
			return Config{}, fmt.Errorf("parse DOCGEN_LLM_HTTP_TIMEOUT: %w", err)
		}
		env.HTTPTimeout = value
	}
	cfg = cfg.Merge(env)
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Merge returns c with every non-zero field of override applied.
func (c Config) Merge(override Config) Config {
	result := c
	if v := strings.TrimSpace(override.Provider); v != "" {
		result.Provider = strings.ToLower(v)
	}
	if v := strings.TrimSpace(override.APIKey); v != "" {
		result.APIKey = v
	}
	if v := strings.TrimSpace(override.Endpoint); v != "" {
		result.Endpoint = v
	}
	if v := strings.TrimSpace(override.Model); v != "" {
		result.Model = v
	}
	if override.Temperature > 0 {
		result.Temperature = override.Temperature
	}
	if override.MaxTokens > 0 {
		result.MaxTokens = override.MaxTokens
	}
	if override.HTTPTimeout > 0 {
		result.HTTPTimeout = override.HTTPTimeout
	}
	return result
}

func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.Provider == "" {
		c.Provider = defaults.Provider
	}
	if c.Endpoint == "" {
		c.Endpoint = defaults.Endpoint
	}
	if c.Model == "" {
		c.Model = defaults.Model
	}
	if c.MaxTokens <= 0 {
		c.MaxTokens = defaults.MaxTokens
	}
	if c.HTTPTimeout <= 0 {
		c.HTTPTimeout = defaults.HTTPTimeout
	}
}

func (c Config) validate() error {
	switch c.Provider {
	case ProviderAuto, ProviderLocal:
	case ProviderOpenAI:
		if c.APIKey == "" {
			return errors.New("llm: provider openai requires GROQ_API_KEY or OPENAI_API_KEY")
		}
	default:
		return fmt.Errorf("llm: unknown provider %q", c.Provider)
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("llm: temperature %.2f out of range", c.Temperature)
	}
	return nil
}
