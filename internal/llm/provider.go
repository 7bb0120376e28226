// Package llm wraps the language-model providers used by the genai and
// alerts services behind one Provider interface, and chains them in a fixed
// order of preference.
package llm

import (
	"context"
	"errors"
)

// Prompt is a single-turn request.
type Prompt struct {
	System      string
	User        string
	MaxTokens   int
	Temperature float32
}

// Completion is the text produced for a Prompt.
type Completion struct {
	Text     string
	Tokens   int
	Model    string
	Provider string
}

// Provider generates text for a prompt.
type Provider interface {
	Name() string
	Model() string
	Generate(ctx context.Context, p Prompt) (Completion, error)
}

var (
	// ErrNotConfigured means the chain holds no provider at all.
	ErrNotConfigured = errors.New("no LLM provider configured")
	// ErrEmptyCompletion is returned when a provider answers with no text.
	ErrEmptyCompletion = errors.New("empty completion")
)
