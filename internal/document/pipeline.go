// File path: internal/document/pipeline.go
package document

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/nicodishanthj/docgen/internal/common"
)

// Pipeline runs normalize → classify → validate → compose and hands the
// result to a Renderer. It holds no per-request state.
type Pipeline struct {
	normalizer *Normalizer
	classifier *Classifier
	validator  *Validator
	composer   *Composer
	renderer   Renderer
	now        func() time.Time
}

// PipelineOption customises a Pipeline.
type PipelineOption func(*Pipeline)

// WithClock overrides the clock used for the date header.
func WithClock(now func() time.Time) PipelineOption {
	return func(p *Pipeline) {
		if now != nil {
			p.now = now
		}
	}
}

// WithValidator replaces the default Validator.
func WithValidator(validator *Validator) PipelineOption {
	return func(p *Pipeline) {
		if validator != nil {
			p.validator = validator
		}
	}
}

// WithPipelineClassifier replaces the default Classifier.
func WithPipelineClassifier(classifier *Classifier) PipelineOption {
	return func(p *Pipeline) {
		if classifier != nil {
			p.classifier = classifier
		}
	}
}

// NewPipeline builds a pipeline that renders through renderer.
func NewPipeline(renderer Renderer, opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		normalizer: NewNormalizer(),
		classifier: NewClassifier(),
		composer:   NewComposer(),
		renderer:   renderer,
		now:        time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	if p.validator == nil {
		p.validator = NewValidator(WithClassifier(p.classifier))
	}
	return p
}

// DetectLocale exposes the validator's locale detector.
func (p *Pipeline) DetectLocale(text string) Locale {
	return p.validator.DetectLocale(text)
}

// Build turns a request into the block sequence a Renderer paints. The
// detected locale wins over the request hint.
func (p *Pipeline) Build(req DocumentRequest) (RenderedDocument, error) {
	if strings.TrimSpace(req.RawText) == "" {
		return RenderedDocument{}, ErrEmptyInput
	}
	normalized := p.normalizer.Normalize(req.RawText)
	if normalized == "" {
		return RenderedDocument{}, ErrEmptyAfterNormalization
	}
	docType := req.DocumentType
	if docType == "" {
		docType = TypeGeneral
	}
	blocks := p.classifier.Classify(normalized)
	blocks, locale := p.validator.ValidateBlocks(blocks, docType)
	if req.Locale != "" && req.Locale != locale {
		common.Logger().Debug("document: detected locale differs from hint", "hint", req.Locale, "detected", locale)
	}
	doc := p.composer.Compose(blocks, docType.Title(), DateLabel(p.now()))
	doc.DocumentType = docType
	doc.Locale = locale
	doc.Fields = copyFields(req.ExtractedFields)
	return doc, nil
}

// RenderDocument renders raw generated text as a document of docType.
func (p *Pipeline) RenderDocument(rawText string, docType DocumentType) (Artifact, error) {
	return p.Render(DocumentRequest{DocumentType: docType, RawText: rawText})
}

// Render builds and renders req. Empty input never reaches the renderer.
func (p *Pipeline) Render(req DocumentRequest) (Artifact, error) {
	logger := common.Logger()
	doc, err := p.Build(req)
	if err != nil {
		logger.Warn("document: pipeline rejected input", "type", req.DocumentType, "error", err)
		return Artifact{}, err
	}
	if p.renderer == nil {
		return Artifact{}, fmt.Errorf("%w: no renderer configured", ErrRenderFailure)
	}
	artifact, err := p.renderer.Render(doc)
	if err != nil {
		logger.Error("document: renderer failed", "type", doc.DocumentType, "error", err)
		return Artifact{}, fmt.Errorf("%w: %w", ErrRenderFailure, err)
	}
	if artifact.Size <= 0 && artifact.Path != "" {
		if info, statErr := os.Stat(artifact.Path); statErr == nil {
			artifact.Size = info.Size()
		}
	}
	if artifact.Size <= 0 {
		if artifact.Path != "" {
			if rmErr := os.Remove(artifact.Path); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
				logger.Warn("document: failed to remove empty artifact", "path", artifact.Path, "error", rmErr)
			}
		}
		return Artifact{}, fmt.Errorf("%w: zero-byte artifact", ErrRenderFailure)
	}
	if artifact.DocumentType == "" {
		artifact.DocumentType = doc.DocumentType
	}
	if artifact.Locale == "" {
		artifact.Locale = doc.Locale
	}
	logger.Info("document: rendered", "type", doc.DocumentType, "locale", doc.Locale, "blocks", len(doc.Blocks), "bytes", artifact.Size)
	return artifact, nil
}

func copyFields(fields map[string]string) map[string]string {
	if len(fields) == 0 {
		return nil
	}
	out := make(map[string]string, len(fields))
	for key, value := range fields {
		if strings.TrimSpace(key) == "" {
			continue
		}
		out[key] = value
	}
	return out
}
