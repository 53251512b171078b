// File path: internal/common/log.go
package common

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"
)

const defaultLogHistory = 1000

var (
	logger     *slog.Logger
	loggerOnce sync.Once
	history    = newLogRing(defaultLogHistory)
)

// LogEntry is one record kept for the /v1/logs endpoint.
type LogEntry struct {
	Time       time.Time      `json:"time"`
	Level      string         `json:"level"`
	Message    string         `json:"message"`
	Component  string         `json:"component,omitempty"`
	Attributes map[string]any `json:"attributes,omitempty"`
}

// LogQuery filters captured entries. Zero values match everything.
type LogQuery struct {
	Level     string
	Component string
	Limit     int
}

// Logger returns the process-wide logger. The level comes from
// DOCGEN_LOG_LEVEL (or LOG_LEVEL) and DOCGEN_LOG_FORMAT=json switches the
// stdout handler to JSON.
func Logger() *slog.Logger {
	loggerOnce.Do(func() {
		level := ParseLevel(firstEnv("DOCGEN_LOG_LEVEL", "LOG_LEVEL"))
		logger = slog.New(newCapturingHandler(os.Stdout, strings.ToLower(os.Getenv("DOCGEN_LOG_FORMAT")), level))
	})
	return logger
}

// Component returns Logger tagged with a component attribute.
func Component(name string) *slog.Logger {
	return Logger().With("component", name)
}

// ParseLevel maps a level name onto slog; unknown names mean info.
func ParseLevel(value string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// LogEntries returns the newest captured entries matching query, oldest first.
func LogEntries(query LogQuery) []LogEntry {
	return history.snapshot(query)
}

func firstEnv(keys ...string) string {
	for _, key := range keys {
		if value := strings.TrimSpace(os.Getenv(key)); value != "" {
			return value
		}
	}
	return ""
}

func newCapturingHandler(w io.Writer, format string, level slog.Level) slog.Handler {
	opts := &slog.HandlerOptions{Level: level}
	var base slog.Handler
	if format == "json" {
		base = slog.NewJSONHandler(w, opts)
	} else {
		base = slog.NewTextHandler(w, opts)
	}
	return &capturingHandler{next: base, ring: history}
}

// capturingHandler forwards to next and keeps a copy of every record. Attrs
// bound through WithAttrs are remembered so captured entries see them too.
type capturingHandler struct {
	next  slog.Handler
	ring  *logRing
	bound []slog.Attr
}

func (h *capturingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *capturingHandler) Handle(ctx context.Context, record slog.Record) error {
	err := h.next.Handle(ctx, record)
	if h.ring != nil {
		h.ring.add(toLogEntry(record, h.bound))
	}
	return err
}

func (h *capturingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	bound := make([]slog.Attr, 0, len(h.bound)+len(attrs))
	bound = append(bound, h.bound...)
	bound = append(bound, attrs...)
	return &capturingHandler{next: h.next.WithAttrs(attrs), ring: h.ring, bound: bound}
}

func (h *capturingHandler) WithGroup(name string) slog.Handler {
	return &capturingHandler{next: h.next.WithGroup(name), ring: h.ring, bound: h.bound}
}

type logRing struct {
	mu      sync.RWMutex
	limit   int
	entries []LogEntry
}

func newLogRing(limit int) *logRing {
	if limit <= 0 {
		limit = defaultLogHistory
	}
	return &logRing{limit: limit}
}

func (r *logRing) add(entry LogEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entry)
	if overflow := len(r.entries) - r.limit; overflow > 0 {
		r.entries = append(r.entries[:0:0], r.entries[overflow:]...)
	}
}

func (r *logRing) snapshot(query LogQuery) []LogEntry {
	level := strings.ToLower(strings.TrimSpace(query.Level))
	component := strings.ToLower(strings.TrimSpace(query.Component))
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []LogEntry
	for _, entry := range r.entries {
		if level != "" && entry.Level != level {
			continue
		}
		if component != "" && strings.ToLower(entry.Component) != component {
			continue
		}
		out = append(out, entry)
	}
	if query.Limit > 0 && len(out) > query.Limit {
		out = out[len(out)-query.Limit:]
	}
	return out
}

func toLogEntry(record slog.Record, bound []slog.Attr) LogEntry {
	entry := LogEntry{
		Time:    record.Time.UTC(),
		Level:   strings.ToLower(record.Level.String()),
		Message: record.Message,
	}
	if record.Time.IsZero() {
		entry.Time = time.Now().UTC()
	}
	collect := func(attr slog.Attr) bool {
		value := attrValue(attr.Value)
		if attr.Key == "component" {
			entry.Component = strings.TrimSpace(fmt.Sprint(value))
			return true
		}
		if entry.Attributes == nil {
			entry.Attributes = make(map[string]any)
		}
		entry.Attributes[attr.Key] = value
		return true
	}
	for _, attr := range bound {
		collect(attr)
	}
	record.Attrs(collect)
	// Messages follow the "component: text" convention.
	if entry.Component == "" {
		if prefix, _, ok := strings.Cut(entry.Message, ":"); ok && !strings.ContainsAny(prefix, " \t") {
			entry.Component = prefix
		}
	}
	return entry
}

func attrValue(v slog.Value) any {
	v = v.Resolve()
	switch v.Kind() {
	case slog.KindDuration:
		return v.Duration().String()
	case slog.KindTime:
		return v.Time().UTC()
	case slog.KindGroup:
		group := make(map[string]any, len(v.Group()))
		for _, attr := range v.Group() {
			group[attr.Key] = attrValue(attr.Value)
		}
		return group
	case slog.KindAny:
		if err, ok := v.Any().(error); ok {
			return err.Error()
		}
		return v.Any()
	default:
		return v.Any()
	}
}
