// File path: internal/sweeper/sweeper.go
package sweeper

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/nicodishanthj/docgen/internal/common"
	"github.com/nicodishanthj/docgen/internal/common/telemetry"
)

const (
	DefaultInterval  = 10 * time.Minute
	DefaultRetention = time.Hour
)

// Config controls which files are swept and how often.
type Config struct {
	Dir       string
	Interval  time.Duration
	Retention time.Duration
}

func DefaultConfig() Config {
	return Config{Interval: DefaultInterval, Retention: DefaultRetention}
}

func (c Config) Merge(override Config) Config {
	result := c
	if dir := strings.TrimSpace(override.Dir); dir != "" {
		result.Dir = dir
	}
	if override.Interval > 0 {
		result.Interval = override.Interval
	}
	if override.Retention > 0 {
		result.Retention = override.Retention
	}
	return result
}

// LoadConfig reads DOCGEN_ARTIFACT_DIR, DOCGEN_SWEEP_INTERVAL and
// DOCGEN_ARTIFACT_RETENTION on top of DefaultConfig.
func LoadConfig() (Config, error) {
	env := Config{Dir: os.Getenv("DOCGEN_ARTIFACT_DIR")}
	for key, target := range map[string]*time.Duration{
		"DOCGEN_SWEEP_INTERVAL":     &env.Interval,
		"DOCGEN_ARTIFACT_RETENTION": &env.Retention,
	} {
		raw := strings.TrimSpace(os.Getenv(key))
		if raw == "" {
			continue
		}
		value, err := time.ParseDuration(raw)
		if err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", key, err)
		}
		*target = value
	}
	return DefaultConfig().Merge(env), nil
}

// Forgetter drops catalog rows for files that were swept.
type Forgetter interface {
	ForgetFile(ctx context.Context, filename, reason string) (bool, error)
}

// Result summarises one sweep pass.
type Result struct {
	Scanned int
	Removed int
	// Vanished counts files that disappeared between listing and removal.
	Vanished int
}

// Sweeper deletes rendered artifacts older than the retention window.
type Sweeper struct {
	cfg       Config
	forgetter Forgetter
	now       func() time.Time
	remove    func(string) error
}

// New returns a Sweeper over cfg.Dir. forgetter may be nil.
func New(cfg Config, forgetter Forgetter) *Sweeper {
	cfg = DefaultConfig().Merge(cfg)
	return &Sweeper{cfg: cfg, forgetter: forgetter, now: time.Now, remove: os.Remove}
}

// Run sweeps once immediately and then on every interval until ctx is done.
func (s *Sweeper) Run(ctx context.Context) error {
	logger := common.Logger()
	logger.Info("sweeper: started", "dir", s.cfg.Dir, "interval", s.cfg.Interval, "retention", s.cfg.Retention)
	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()
	for {
		if _, err := s.SweepOnce(ctx); err != nil && ctx.Err() == nil {
			logger.Warn("sweeper: pass finished with errors", "error", err)
		}
		select {
		case <-ctx.Done():
			logger.Info("sweeper: stopped")
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// SweepOnce removes every expired PDF (and stale render temp file) in the
// directory. Files that vanish mid-sweep are skipped, not failures.
func (s *Sweeper) SweepOnce(ctx context.Context) (Result, error) {
	var result Result
	if strings.TrimSpace(s.cfg.Dir) == "" {
		return result, errors.New("sweeper: directory required")
	}
	entries, err := os.ReadDir(s.cfg.Dir)
	if errors.Is(err, fs.ErrNotExist) {
		return result, nil
	}
	if err != nil {
		return result, fmt.Errorf("list artifact dir: %w", err)
	}
	cutoff := s.now().Add(-s.cfg.Retention)
	logger := common.Logger()
	var errs []error
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".pdf") {
			continue
		}
		result.Scanned++
		info, err := entry.Info()
		if errors.Is(err, fs.ErrNotExist) {
			result.Vanished++
			continue
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("stat %s: %w", entry.Name(), err))
			continue
		}
		if !info.ModTime().Before(cutoff) {
			continue
		}
		path := filepath.Join(s.cfg.Dir, entry.Name())
		switch err := s.remove(path); {
		case errors.Is(err, fs.ErrNotExist):
			result.Vanished++
		case err != nil:
			errs = append(errs, fmt.Errorf("remove %s: %w", entry.Name(), err))
			continue
		default:
			result.Removed++
			logger.Debug("sweeper: removed artifact", "file", entry.Name(), "age", s.now().Sub(info.ModTime()))
		}
		if s.forgetter != nil && !strings.HasPrefix(entry.Name(), ".") {
			if _, err := s.forgetter.ForgetFile(ctx, entry.Name(), "expired"); err != nil {
				errs = append(errs, fmt.Errorf("forget %s: %w", entry.Name(), err))
			}
		}
	}
	telemetry.RecordSweep(result.Removed)
	if result.Removed > 0 || result.Vanished > 0 {
		logger.Info("sweeper: pass complete", "scanned", result.Scanned, "removed", result.Removed, "vanished", result.Vanished)
	}
	return result, errors.Join(errs...)
}
