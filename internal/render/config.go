// File path: internal/render/config.go
package render

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// Config controls where and how PDFs are written.
type Config struct {
	// OutputDir receives rendered artifacts. Created on demand.
	OutputDir string
	// FontPath is an optional UTF-8 TrueType font; without it text is
	// painted with core Helvetica translated to cp1252.
	FontPath string
	Author   string
	Creator  string
}

func DefaultConfig() Config {
	return Config{
		OutputDir: filepath.Join(os.TempDir(), "docgen"),
		Creator:   "docgen",
	}
}

// LoadConfig reads DOCGEN_ARTIFACT_DIR, DOCGEN_UNICODE_FONT and
// DOCGEN_PDF_AUTHOR on top of DefaultConfig.
func LoadConfig() (Config, error) {
	cfg := DefaultConfig().Merge(Config{
		OutputDir: os.Getenv("DOCGEN_ARTIFACT_DIR"),
		FontPath:  os.Getenv("DOCGEN_UNICODE_FONT"),
		Author:    os.Getenv("DOCGEN_PDF_AUTHOR"),
	})
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Merge(override Config) Config {
	result := c
	if v := strings.TrimSpace(override.OutputDir); v != "" {
		result.OutputDir = v
	}
	if v := strings.TrimSpace(override.FontPath); v != "" {
		result.FontPath = v
	}
	if v := strings.TrimSpace(override.Author); v != "" {
		result.Author = v
	}
	if v := strings.TrimSpace(override.Creator); v != "" {
		result.Creator = v
	}
	return result
}

func (c Config) validate() error {
	if strings.TrimSpace(c.OutputDir) == "" {
		return errors.New("render: output directory required")
	}
	return nil
}
