package ai

import (
	"context"
	"errors"
)

var (
	ErrProviderNotFound = errors.New("provider not found")
	ErrEmptyAnswer      = errors.New("empty answer")
)

// Asker answers a single prompt without conversation history.
type Asker interface {
	Name() string
	Ask(ctx context.Context, prompt string) (string, error)
}
