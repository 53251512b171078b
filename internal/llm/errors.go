// File path: internal/llm/errors.go
package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	openai "github.com/openai/openai-go/v2"

	"github.com/nicodishanthj/docgen/internal/llm/providers"
)

// ErrorKind groups generation failures by what the caller can do about them.
type ErrorKind string

const (
	KindUnauthorized      ErrorKind = "unauthorized"
	KindRateLimited       ErrorKind = "rate_limited"
	KindTimeout           ErrorKind = "timeout"
	KindMalformedResponse ErrorKind = "malformed_response"
	KindUnknown           ErrorKind = "unknown"
)

// ErrEmptyResponse is returned by providers that answered without content.
var ErrEmptyResponse = providers.ErrEmptyResponse

// UpstreamError is a classified failure of the generation service.
type UpstreamError struct {
	Kind   ErrorKind
	Status int
	Err    error
}

func (e *UpstreamError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("generation %s (status %d): %v", e.Kind, e.Status, e.Err)
	}
	return fmt.Sprintf("generation %s: %v", e.Kind, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

var kindSubstrings = []struct {
	kind    ErrorKind
	needles []string
}{
	{KindUnauthorized, []string{"unauthorized", "invalid api key", "invalid_api_key", "authentication", "permission denied"}},
	{KindRateLimited, []string{"rate limit", "rate_limit", "too many requests", "quota"}},
	{KindTimeout, []string{"timeout", "timed out", "deadline exceeded"}},
	{KindMalformedResponse, []string{"unexpected end of json", "invalid character", "cannot unmarshal", "no choices"}},
}

// Classify wraps err in an UpstreamError. Nil stays nil and an existing
// UpstreamError is returned as is.
func Classify(err error) *UpstreamError {
	if err == nil {
		return nil
	}
	var upstream *UpstreamError
	if errors.As(err, &upstream) {
		return upstream
	}
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return &UpstreamError{Kind: kindForStatus(apiErr.StatusCode), Status: apiErr.StatusCode, Err: err}
	}
	switch {
	case errors.Is(err, ErrEmptyResponse):
		return &UpstreamError{Kind: KindMalformedResponse, Err: err}
	case errors.Is(err, context.DeadlineExceeded):
		return &UpstreamError{Kind: KindTimeout, Err: err}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &UpstreamError{Kind: KindTimeout, Err: err}
	}
	message := strings.ToLower(err.Error())
	for _, entry := range kindSubstrings {
		for _, needle := range entry.needles {
			if strings.Contains(message, needle) {
				return &UpstreamError{Kind: entry.kind, Err: err}
			}
		}
	}
	return &UpstreamError{Kind: KindUnknown, Err: err}
}

func kindForStatus(status int) ErrorKind {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return KindUnauthorized
	case status == http.StatusTooManyRequests:
		return KindRateLimited
	case status == http.StatusRequestTimeout || status == http.StatusGatewayTimeout:
		return KindTimeout
	default:
		return KindUnknown
	}
}
