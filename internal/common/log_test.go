// File path: internal/common/log_test.go
package common

import (
	"errors"
	"io"
	"log/slog"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"":        slog.LevelInfo,
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"verbose": slog.LevelInfo,
	}
	for input, want := range cases {
		if got := ParseLevel(input); got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", input, got, want)
		}
	}
}

func TestComponentLoggerIsCaptured(t *testing.T) {
	Component("logtest").Info("captured entry", "id", 7, "error", errors.New("boom"))
	entries := LogEntries(LogQuery{Component: "logtest"})
	if len(entries) == 0 {
		t.Fatalf("expected captured entry")
	}
	entry := entries[len(entries)-1]
	if entry.Message != "captured entry" || entry.Level != "info" {
		t.Fatalf("unexpected entry: %#v", entry)
	}
	if entry.Attributes["id"] != int64(7) {
		t.Fatalf("id attribute = %#v", entry.Attributes["id"])
	}
	if entry.Attributes["error"] != "boom" {
		t.Fatalf("error attribute = %#v", entry.Attributes["error"])
	}
}

func TestComponentFromMessagePrefix(t *testing.T) {
	Logger().Warn("prefixtest: something happened")
	entries := LogEntries(LogQuery{Component: "prefixtest", Level: "warn"})
	if len(entries) != 1 {
		t.Fatalf("expected one entry, got %d", len(entries))
	}
}

func TestLogRingKeepsNewest(t *testing.T) {
	ring := newLogRing(3)
	handler := &capturingHandler{next: slog.NewTextHandler(io.Discard, nil), ring: ring}
	log := slog.New(handler)
	for _, msg := range []string{"one", "two", "three", "four"} {
		log.Info(msg)
	}
	entries := ring.snapshot(LogQuery{})
	if len(entries) != 3 || entries[0].Message != "two" || entries[2].Message != "four" {
		t.Fatalf("unexpected ring contents: %#v", entries)
	}
	if limited := ring.snapshot(LogQuery{Limit: 1}); len(limited) != 1 || limited[0].Message != "four" {
		t.Fatalf("limit should keep newest entry: %#v", limited)
	}
}
