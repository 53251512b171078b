// File path: internal/workflow/diagnose.go
package workflow

import (
	"errors"

	"github.com/nicodishanthj/docgen/internal/document"
	"github.com/nicodishanthj/docgen/internal/llm"
	"github.com/nicodishanthj/docgen/internal/prompt"
)

// Advice tells the user what to do about a failed request.
type Advice string

const (
	AdviceRetry         Advice = "retry"
	AdviceConfiguration Advice = "configuration"
	AdviceInput         Advice = "input"
)

func (a Advice) Message() string {
	switch a {
	case AdviceConfiguration:
		return "check configuration"
	case AdviceInput:
		return "provide more input"
	default:
		return "try again"
	}
}

// ErrorKind names the failure class of err for responses and metrics.
func ErrorKind(err error) string {
	var upstream *llm.UpstreamError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrEmptyMessage), errors.Is(err, prompt.ErrEmptyRequest):
		return "empty_message"
	case errors.Is(err, document.ErrEmptyInput):
		return "empty_input"
	case errors.Is(err, document.ErrEmptyAfterNormalization):
		return "empty_after_normalization"
	case errors.Is(err, document.ErrRenderFailure):
		return "render_failure"
	case errors.Is(err, ErrArtifactNotFound):
		return "artifact_not_found"
	case errors.Is(err, ErrArtifactInvalid):
		return "artifact_invalid"
	case errors.As(err, &upstream):
		return string(upstream.Kind)
	default:
		return string(llm.KindUnknown)
	}
}

// Hint maps every error kind onto one piece of advice.
func Hint(err error) Advice {
	switch ErrorKind(err) {
	case "empty_message", "empty_input", "empty_after_normalization":
		return AdviceInput
	case string(llm.KindUnauthorized), "artifact_invalid":
		return AdviceConfiguration
	default:
		return AdviceRetry
	}
}
