// File path: internal/workflow/generator_test.go
package workflow

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/nicodishanthj/docgen/internal/catalog"
	"github.com/nicodishanthj/docgen/internal/document"
	"github.com/nicodishanthj/docgen/internal/llm"
	"github.com/nicodishanthj/docgen/internal/render"
)

type mockProvider struct {
	mu       sync.Mutex
	response string
	err      error
	block    bool
	calls    [][]llm.Message
}

func (m *mockProvider) Chat(ctx context.Context, messages []llm.Message) (string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, messages)
	m.mu.Unlock()
	if m.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return m.response, m.err
}

func (m *mockProvider) Name() string { return "mock" }

const affidavitResponse = `AFFIDAVIT

I, Ravi Kumar, s/o Mohan Kumar, r/o 12 Park Street, New Delhi 110001, do hereby solemnly affirm:

1. That I am a citizen of India.
2. That my name has been recorded correctly.`

type fixture struct {
	generator *Generator
	provider  *mockProvider
	store     *catalog.Store
	dir       string
}

func newFixture(t *testing.T, provider *mockProvider, cfg Config) fixture {
	t.Helper()
	dir := t.TempDir()
	renderer, err := render.New(render.Config{OutputDir: dir})
	if err != nil {
		t.Fatalf("render.New: %v", err)
	}
	store, err := catalog.Open(context.Background(), catalog.Config{Path: filepath.Join(t.TempDir(), "catalog.db")})
	if err != nil {
		t.Fatalf("catalog.Open: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	cfg.ArtifactRoot = dir
	pipeline := document.NewPipeline(renderer)
	return fixture{generator: NewGenerator(provider, pipeline, store, cfg), provider: provider, store: store, dir: dir}
}

func TestGenerateRendersAndCatalogues(t *testing.T) {
	fx := newFixture(t, &mockProvider{response: affidavitResponse}, Config{})
	ctx := context.Background()
	result, err := fx.generator.Generate(ctx, "My name is Ravi Kumar and I live at 12 Park Street, New Delhi 110001. I need a name change affidavit.", document.TypeAffidavit)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if result.Response != affidavitResponse {
		t.Fatalf("unexpected response %q", result.Response)
	}
	if result.Fields["full_name"] != "Ravi Kumar" || result.Fields["address"] == "" {
		t.Fatalf("fields not extracted: %#v", result.Fields)
	}
	if result.Locale != document.LocaleDefault || result.DocumentType != document.TypeAffidavit {
		t.Fatalf("unexpected result metadata: %#v", result)
	}
	if filepath.Dir(result.Artifact.Path) != fx.dir {
		t.Fatalf("artifact written outside output dir: %s", result.Artifact.Path)
	}
	stored, err := fx.store.Get(ctx, result.Artifact.ID)
	if err != nil {
		t.Fatalf("catalog Get: %v", err)
	}
	if stored.Filename != result.Artifact.Filename {
		t.Fatalf("catalog filename %q, want %q", stored.Filename, result.Artifact.Filename)
	}
	calls := fx.provider.calls
	if len(calls) != 1 || len(calls[0]) != 2 {
		t.Fatalf("unexpected provider calls: %#v", calls)
	}
	if !strings.Contains(calls[0][0].Content, "affidavit") || !strings.Contains(calls[0][0].Content, "Ravi Kumar") {
		t.Fatalf("system prompt missing type or details: %q", calls[0][0].Content)
	}
}

func TestArtifactLookup(t *testing.T) {
	fx := newFixture(t, &mockProvider{response: "Dear Sir,\n\nPlease grant me leave."}, Config{})
	ctx := context.Background()
	result, err := fx.generator.Generate(ctx, "leave letter for two days", document.TypeLetter)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	artifact, err := fx.generator.Artifact(ctx, result.Artifact.ID)
	if err != nil {
		t.Fatalf("Artifact: %v", err)
	}
	if artifact.Path != result.Artifact.Path {
		t.Fatalf("resolved path %q, want %q", artifact.Path, result.Artifact.Path)
	}
	if _, err := fx.generator.Artifact(ctx, "unknown"); !errors.Is(err, ErrArtifactNotFound) {
		t.Fatalf("expected ErrArtifactNotFound, got %v", err)
	}

	if err := os.Remove(result.Artifact.Path); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, err := fx.generator.Artifact(ctx, result.Artifact.ID); !errors.Is(err, ErrArtifactNotFound) {
		t.Fatalf("swept artifact should be not found, got %v", err)
	}
	if _, err := fx.store.Get(ctx, result.Artifact.ID); !errors.Is(err, catalog.ErrNotFound) {
		t.Fatalf("swept artifact should be forgotten, got %v", err)
	}
}

func TestArtifactOutsideRootIsInvalid(t *testing.T) {
	fx := newFixture(t, &mockProvider{}, Config{})
	outside := filepath.Join(t.TempDir(), "general_deadbeef.pdf")
	if err := os.WriteFile(outside, []byte("%PDF"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	ctx := context.Background()
	if err := fx.store.Record(ctx, document.Artifact{ID: "x1", Filename: "general_deadbeef.pdf", Path: outside, Size: 4}); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if _, err := fx.generator.Artifact(ctx, "x1"); !errors.Is(err, ErrArtifactInvalid) {
		t.Fatalf("expected ErrArtifactInvalid, got %v", err)
	}
}

func TestGenerateErrors(t *testing.T) {
	cases := []struct {
		name     string
		provider *mockProvider
		message  string
		cfg      Config
		kind     string
		advice   Advice
	}{
		{name: "empty message", provider: &mockProvider{response: "x"}, message: "  ", kind: "empty_message", advice: AdviceInput},
		{name: "rate limited", provider: &mockProvider{err: errors.New("Rate limit reached for model")}, message: "letter", kind: "rate_limited", advice: AdviceRetry},
		{name: "unauthorized", provider: &mockProvider{err: errors.New("401 Unauthorized")}, message: "letter", kind: "unauthorized", advice: AdviceConfiguration},
		{name: "blank response", provider: &mockProvider{response: "   "}, message: "letter", kind: "malformed_response", advice: AdviceRetry},
		{name: "markup only response", provider: &mockProvider{response: "<div><br/></div>"}, message: "letter", kind: "empty_after_normalization", advice: AdviceInput},
		{name: "timeout", provider: &mockProvider{block: true}, message: "letter", cfg: Config{GenerationTimeout: 20 * time.Millisecond}, kind: "timeout", advice: AdviceRetry},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fx := newFixture(t, tc.provider, tc.cfg)
			_, err := fx.generator.Generate(context.Background(), tc.message, document.TypeLetter)
			if err == nil {
				t.Fatalf("expected error")
			}
			if got := ErrorKind(err); got != tc.kind {
				t.Fatalf("ErrorKind = %q, want %q (err %v)", got, tc.kind, err)
			}
			if got := Hint(err); got != tc.advice {
				t.Fatalf("Hint = %q, want %q", got, tc.advice)
			}
			entries, _ := os.ReadDir(fx.dir)
			if len(entries) != 0 {
				t.Fatalf("no artifact should be written on failure, found %d", len(entries))
			}
		})
	}
}

func TestChatUsesRegionalPrompt(t *testing.T) {
	provider := &mockProvider{response: "नमस्ते"}
	fx := newFixture(t, provider, Config{})
	out, err := fx.generator.Chat(context.Background(), "मुझे छुट्टी के लिए एक आवेदन पत्र चाहिए", document.TypeApplication)
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if out != "नमस्ते" {
		t.Fatalf("unexpected output %q", out)
	}
	if !strings.Contains(provider.calls[0][0].Content, "Devanagari") {
		t.Fatalf("regional request should ask for Devanagari: %q", provider.calls[0][0].Content)
	}
}

func TestAdviceMessages(t *testing.T) {
	if AdviceRetry.Message() != "try again" || AdviceConfiguration.Message() != "check configuration" || AdviceInput.Message() != "provide more input" {
		t.Fatalf("unexpected advice messages")
	}
	if ErrorKind(nil) != "" {
		t.Fatalf("nil error has no kind")
	}
	if Hint(document.ErrRenderFailure) != AdviceRetry {
		t.Fatalf("render failures should be retried")
	}
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("DOCGEN_GENERATION_TIMEOUT", "90s")
	t.Setenv("DOCGEN_ARTIFACT_DIR", "/srv/docgen")
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.GenerationTimeout != 90*time.Second || cfg.ArtifactRoot != "/srv/docgen" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	t.Setenv("DOCGEN_GENERATION_TIMEOUT", "")
	cfg, err = LoadConfig()
	if err != nil || cfg.GenerationTimeout != DefaultGenerationTimeout {
		t.Fatalf("expected default timeout, got %+v, %v", cfg, err)
	}
}
