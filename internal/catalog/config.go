// File path: internal/catalog/config.go
package catalog

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Path string

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	BusyTimeout     time.Duration
}

func DefaultConfig() Config {
	return Config{
		Path:            filepath.Join("data", "docgen.db"),
		MaxOpenConns:    4,
		ConnMaxLifetime: 15 * time.Minute,
		BusyTimeout:     5 * time.Second,
	}
}

func (c Config) Merge(override Config) Config {
	result := c
	if path := strings.TrimSpace(override.Path); path != "" {
		result.Path = path
	}
	if override.MaxOpenConns > 0 {
		result.MaxOpenConns = override.MaxOpenConns
	}
	if override.MaxIdleConns > 0 {
		result.MaxIdleConns = override.MaxIdleConns
	}
	if override.ConnMaxLifetime > 0 {
		result.ConnMaxLifetime = override.ConnMaxLifetime
	}
	if override.BusyTimeout > 0 {
		result.BusyTimeout = override.BusyTimeout
	}
	return result
}

// LoadConfig reads DOCGEN_CATALOG_* variables on top of DefaultConfig.
func LoadConfig() (Config, error) {
	env := Config{Path: os.Getenv("DOCGEN_CATALOG_PATH")}
	if raw := strings.TrimSpace(os.Getenv("DOCGEN_CATALOG_MAX_OPEN_CONNS")); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil {
			return Config{}, fmt.Errorf("parse DOCGEN_CATALOG_MAX_OPEN_CONNS: %w", err)
		}
		env.MaxOpenConns = value
	}
	if raw := strings.TrimSpace(os.Getenv("DOCGEN_CATALOG_BUSY_TIMEOUT")); raw != "" {
		value, err := time.ParseDuration(raw)
		if err != nil {
			return Config{}, fmt.Errorf("parse DOCGEN_CATALOG_BUSY_TIMEOUT: %w", err)
		}
		env.BusyTimeout = value
	}
	cfg := DefaultConfig().Merge(env)
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.MaxOpenConns <= 0 {
		c.MaxOpenConns = defaults.MaxOpenConns
	}
	if c.MaxIdleConns <= 0 {
		c.MaxIdleConns = c.MaxOpenConns
	}
	if c.ConnMaxLifetime <= 0 {
		c.ConnMaxLifetime = defaults.ConnMaxLifetime
	}
	if c.BusyTimeout <= 0 {
		c.BusyTimeout = defaults.BusyTimeout
	}
}

func (c Config) validate() error {
	if strings.TrimSpace(c.Path) == "" {
		return errors.New("catalog path required")
	}
	return nil
}
