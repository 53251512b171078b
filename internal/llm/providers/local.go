// File path: internal/llm/providers/local.go
package providers

import (
	"context"
	"fmt"
	"strings"
)

// LocalProvider answers without a network call. It is selected when no API
// key is configured so the rendering path stays usable offline.
type LocalProvider struct{}

func NewLocalProvider() *LocalProvider {
	return &LocalProvider{}
}

func (l *LocalProvider) Chat(ctx context.Context, messages []Message) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	var request string
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == RoleUser {
			request = strings.TrimSpace(messages[i].Content)
			break
		}
	}
	if request == "" {
		return "", fmt.Errorf("no user message provided")
	}
	return "[local-stub]\n\n" + request, nil
}

func (l *LocalProvider) Name() string {
	return "local"
}
