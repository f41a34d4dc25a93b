package ai

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/muratoffalex/tgchecker/internal/logger"
)

func newRegistryWith(t *testing.T, name string) (*Registry, *MockAsker) {
	asker := NewMockAsker(t)
	asker.EXPECT().Name().Return(name)
	r := NewRegistry(logger.NewTestLogger())
	r.Register(asker)
	return r, asker
}

func TestRegistry_Ask(t *testing.T) {
	r, asker := newRegistryWith(t, ProviderOpenAI)
	asker.EXPECT().Ask(mock.Anything, "what is go?").Return("<think>hmm</think> A language.", nil)

	answer, err := r.Ask(context.Background(), ProviderOpenAI, "what is go?")
	require.NoError(t, err)
	assert.Equal(t, "A language.", answer)
}

func TestRegistry_UnknownProvider(t *testing.T) {
	r := NewRegistry(logger.NewTestLogger())

	_, err := r.Ask(context.Background(), ProviderGemini, "hi")
	assert.ErrorIs(t, err, ErrProviderNotFound)
	assert.Empty(t, r.Providers())
}

func TestRegistry_ProviderError(t *testing.T) {
	r, asker := newRegistryWith(t, ProviderGemini)
	asker.EXPECT().Ask(mock.Anything, "hi").Return("", errors.New("quota exceeded"))

	_, err := r.Ask(context.Background(), ProviderGemini, "hi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gemini: quota exceeded")
}

func TestRegistry_EmptyAnswer(t *testing.T) {
	r, asker := newRegistryWith(t, ProviderGemini)
	asker.EXPECT().Ask(mock.Anything, "hi").Return("  ", nil)

	_, err := r.Ask(context.Background(), ProviderGemini, "hi")
	assert.ErrorIs(t, err, ErrEmptyAnswer)
}

func TestRegistry_TruncatesLongAnswers(t *testing.T) {
	r, asker := newRegistryWith(t, ProviderOpenAI)
	asker.EXPECT().Ask(mock.Anything, "long").Return(strings.Repeat("я", maxAnswerLength+10), nil)

	answer, err := r.Ask(context.Background(), ProviderOpenAI, "long")
	require.NoError(t, err)
	assert.Len(t, []rune(answer), maxAnswerLength)
	assert.True(t, strings.HasSuffix(answer, "..."))
}

func TestHandleContentReasoning(t *testing.T) {
	tests := []struct {
		name          string
		in            string
		wantContent   string
		wantReasoning string
	}{
		{"plain", "  answer  ", "answer", ""},
		{"think tag", "<think>step 1</think>\nanswer", "answer", "step 1"},
		{"reasoning tag", "before <reasoning>why</reasoning> after", "before  after", "why"},
		{"fenced", "```reasoning\nwhy\n```\nanswer", "answer", "why"},
		{"unclosed", "<think>never ends", "<think>never ends", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			content, reasoning := HandleContentReasoning(tt.in)
			assert.Equal(t, tt.wantContent, content)
			assert.Equal(t, tt.wantReasoning, reasoning)
		})
	}
}
