// File path: internal/workflow/config.go
package workflow

import (
	"fmt"
	"os"
	"strings"
	"time"
)

const DefaultGenerationTimeout = 60 * time.Second

// Config tunes request orchestration.
type Config struct {
	// GenerationTimeout bounds the call to the generation service only.
	GenerationTimeout time.Duration
	// ArtifactRoot confines served artifacts to one directory.
	ArtifactRoot string
}

func DefaultConfig() Config {
	return Config{GenerationTimeout: DefaultGenerationTimeout}
}

func (c Config) Merge(override Config) Config {
	result := c
	if override.GenerationTimeout > 0 {
		result.GenerationTimeout = override.GenerationTimeout
	}
	if root := strings.TrimSpace(override.ArtifactRoot); root != "" {
		result.ArtifactRoot = root
	}
	return result
}

// LoadConfig reads DOCGEN_GENERATION_TIMEOUT and DOCGEN_ARTIFACT_DIR.
func LoadConfig() (Config, error) {
	env := Config{ArtifactRoot: os.Getenv("DOCGEN_ARTIFACT_DIR")}
	if raw := strings.TrimSpace(os.Getenv("DOCGEN_GENERATION_TIMEOUT")); raw != "" {
		value, err := time.ParseDuration(raw)
		if err != nil {
			return Config{}, fmt.Errorf("parse DOCGEN_GENERATION_TIMEOUT: %w", err)
		}
		env.GenerationTimeout = value
	}
	return DefaultConfig().Merge(env), nil
}
