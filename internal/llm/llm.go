// Package llm defines the structured-completion boundary and the resume extraction
// prompt and schema that travel across it.
package llm

import (
	"context"
	"errors"
)

// Request is one JSON-constrained completion.
type Request struct {
	System      string
	User        string
	Temperature float32
}

// Completer performs exactly one upstream call per invocation and returns the raw
// message content. Providers never retry.
type Completer interface {
	CompleteJSON(ctx context.Context, req Request) (string, error)
}

// ErrEmptyContent is returned when the provider answered without any content.
var ErrEmptyContent = errors.New("llm response has empty content")

// CompleterFunc adapts a function to Completer.
type CompleterFunc func(ctx context.Context, req Request) (string, error)

func (f CompleterFunc) CompleteJSON(ctx context.Context, req Request) (string, error) {
	return f(ctx, req)
}
