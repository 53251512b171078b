// File path: internal/workflow/generator.go
package workflow

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/nicodishanthj/docgen/internal/catalog"
	"github.com/nicodishanthj/docgen/internal/common"
	"github.com/nicodishanthj/docgen/internal/common/telemetry"
	"github.com/nicodishanthj/docgen/internal/document"
	"github.com/nicodishanthj/docgen/internal/extract"
	"github.com/nicodishanthj/docgen/internal/llm"
	"github.com/nicodishanthj/docgen/internal/prompt"
)

var (
	ErrEmptyMessage     = errors.New("message is required")
	ErrArtifactNotFound = errors.New("artifact not available")
	ErrArtifactInvalid  = errors.New("artifact invalid")
)

// Catalog is the artifact bookkeeping the generator needs.
type Catalog interface {
	Record(ctx context.Context, artifact document.Artifact) error
	Get(ctx context.Context, id string) (document.Artifact, error)
	Forget(ctx context.Context, id, reason string) error
}

// Result is the outcome of one Generate call.
type Result struct {
	Response     string
	Artifact     document.Artifact
	DocumentType document.DocumentType
	Locale       document.Locale
	Fields       map[string]string
}

// Generator runs a request through extraction, prompting, generation and
// the document pipeline.
type Generator struct {
	provider llm.Provider
	pipeline *document.Pipeline
	catalog  Catalog
	cfg      Config
}

// NewGenerator wires a Generator. store may be nil, in which case artifacts
// are rendered but cannot be looked up by id.
func NewGenerator(provider llm.Provider, pipeline *document.Pipeline, store Catalog, cfg Config) *Generator {
	return &Generator{provider: provider, pipeline: pipeline, catalog: store, cfg: DefaultConfig().Merge(cfg)}
}

// ProviderName reports which generation backend is in use.
func (g *Generator) ProviderName() string {
	if g.provider == nil {
		return ""
	}
	return g.provider.Name()
}

// Chat returns generated prose for message without rendering it.
func (g *Generator) Chat(ctx context.Context, message string, docType document.DocumentType) (string, error) {
	draft, err := g.draft(ctx, message, docType)
	if err != nil {
		return "", err
	}
	return draft.text, nil
}

// Generate produces prose for message and renders it into a catalogued PDF.
func (g *Generator) Generate(ctx context.Context, message string, docType document.DocumentType) (Result, error) {
	if docType == "" {
		docType = document.TypeGeneral
	}
	draft, err := g.draft(ctx, message, docType)
	if err != nil {
		return Result{}, err
	}
	start := time.Now()
	artifact, err := g.pipeline.Render(document.DocumentRequest{
		DocumentType:    docType,
		Locale:          draft.locale,
		RawText:         draft.text,
		ExtractedFields: draft.fields,
	})
	if err != nil {
		telemetry.RecordRenderFailure(ErrorKind(err))
		return Result{}, err
	}
	if g.catalog != nil {
		if err := g.catalog.Record(ctx, artifact); err != nil {
			if rmErr := os.Remove(artifact.Path); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
				common.Logger().Warn("workflow: failed to remove uncatalogued artifact", "path", artifact.Path, "error", rmErr)
			}
			return Result{}, fmt.Errorf("record artifact: %w", err)
		}
	}
	common.Logger().Info("workflow: document generated",
		"type", docType, "locale", artifact.Locale, "artifact", artifact.ID, "render", time.Since(start))
	return Result{
		Response:     draft.text,
		Artifact:     artifact,
		DocumentType: docType,
		Locale:       artifact.Locale,
		Fields:       draft.fields,
	}, nil
}

// Artifact resolves id to a servable file inside the artifact root. Rows
// whose file has been swept are forgotten and reported as not found.
func (g *Generator) Artifact(ctx context.Context, id string) (document.Artifact, error) {
	id = strings.TrimSpace(id)
	if id == "" || g.catalog == nil {
		return document.Artifact{}, ErrArtifactNotFound
	}
	artifact, err := g.catalog.Get(ctx, id)
	if errors.Is(err, catalog.ErrNotFound) {
		return document.Artifact{}, ErrArtifactNotFound
	}
	if err != nil {
		return document.Artifact{}, fmt.Errorf("lookup artifact: %w", err)
	}
	path, err := g.validateArtifactPath(artifact.Path)
	if errors.Is(err, os.ErrNotExist) {
		if forgetErr := g.catalog.Forget(ctx, id, "missing on disk"); forgetErr != nil {
			common.Logger().Warn("workflow: failed to forget missing artifact", "id", id, "error", forgetErr)
		}
		return document.Artifact{}, ErrArtifactNotFound
	}
	if err != nil {
		return document.Artifact{}, err
	}
	artifact.Path = path
	return artifact, nil
}

type draft struct {
	text   string
	locale document.Locale
	fields map[string]string
}

func (g *Generator) draft(ctx context.Context, message string, docType document.DocumentType) (draft, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return draft{}, ErrEmptyMessage
	}
	if g.provider == nil {
		return draft{}, &llm.UpstreamError{Kind: llm.KindUnauthorized, Err: errors.New("no generation provider configured")}
	}
	fields := extract.Fields(message)
	locale := g.pipeline.DetectLocale(message)
	messages, err := prompt.Build(docType, locale, message, fields)
	if err != nil {
		return draft{}, err
	}

	callCtx, cancel := context.WithTimeout(ctx, g.cfg.GenerationTimeout)
	defer cancel()
	callCtx, end := telemetry.StartSpan(callCtx, "generate")
	start := time.Now()
	text, err := g.provider.Chat(callCtx, llm.NormalizeMessages(messages))
	end("provider", g.provider.Name())
	telemetry.RecordGeneration(g.provider.Name(), time.Since(start))
	if err != nil {
		upstream := llm.Classify(err)
		telemetry.RecordGenerationError(string(upstream.Kind))
		common.Logger().Warn("workflow: generation failed", "provider", g.provider.Name(), "kind", upstream.Kind, "error", err)
		return draft{}, upstream
	}
	if strings.TrimSpace(text) == "" {
		telemetry.RecordGenerationError(string(llm.KindMalformedResponse))
		return draft{}, llm.Classify(llm.ErrEmptyResponse)
	}
	return draft{text: text, locale: locale, fields: fields}, nil
}

func (g *Generator) validateArtifactPath(path string) (string, error) {
	absPath, err := filepath.Abs(strings.TrimSpace(path))
	if err != nil {
		return "", fmt.Errorf("resolve artifact path: %w", err)
	}
	if root := strings.TrimSpace(g.cfg.ArtifactRoot); root != "" {
		rootAbs, err := filepath.Abs(root)
		if err != nil {
			return "", fmt.Errorf("resolve artifact root: %w", err)
		}
		rel, err := filepath.Rel(rootAbs, absPath)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(os.PathSeparator)) {
			return "", ErrArtifactInvalid
		}
	}
	info, err := os.Stat(absPath)
	if err != nil {
		return "", fmt.Errorf("stat artifact: %w", err)
	}
	if info.IsDir() {
		return "", ErrArtifactInvalid
	}
	return absPath, nil
}
