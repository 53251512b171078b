// File path: internal/llm/providers/provider.go
package providers

import (
	"context"
	"errors"
)

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ErrEmptyResponse is returned when the service answers without usable content.
var ErrEmptyResponse = errors.New("empty completion response")

type Message struct {
	Role    string
	Content string
}

// Provider produces generated prose for a conversation.
type Provider interface {
	Chat(ctx context.Context, messages []Message) (string, error)
	Name() string
}
