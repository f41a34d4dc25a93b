package ai

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/muratoffalex/tgchecker/internal/logger"
)

type Registry struct {
	providers      map[string]Asker
	providersMutex sync.RWMutex
	logger         logger.Logger
}

func NewRegistry(log logger.Logger) *Registry {
	return &Registry{
		providers: make(map[string]Asker),
		logger:    log,
	}
}

func (r *Registry) Register(provider Asker) {
	r.providersMutex.Lock()
	defer r.providersMutex.Unlock()
	r.providers[provider.Name()] = provider
}

func (r *Registry) Get(name string) (Asker, error) {
	r.providersMutex.RLock()
	defer r.providersMutex.RUnlock()

	if provider, ok := r.providers[name]; ok {
		return provider, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrProviderNotFound, name)
}

func (r *Registry) Providers() []string {
	r.providersMutex.RLock()
	defer r.providersMutex.RUnlock()

	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Ask sends prompt to the named provider and returns the cleaned answer.
func (r *Registry) Ask(ctx context.Context, name, prompt string) (string, error) {
	provider, err := r.Get(name)
	if err != nil {
		return "", err
	}

	r.logger.WithFields(logger.Fields{
		"provider":      name,
		"prompt_length": len(prompt),
	}).Debug("Asking provider")

	answer, err := provider.Ask(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("%s: %w", name, err)
	}

	answer, reasoning := HandleContentReasoning(answer)
	if reasoning != "" {
		r.logger.WithField("provider", name).Debug("Reasoning stripped from answer")
	}
	if answer == "" {
		return "", ErrEmptyAnswer
	}
	return truncate(answer, maxAnswerLength), nil
}
