// Package generation defines the text generation capability used by chat and
// the tool forms, plus its backends.
package generation

import (
	"context"
	"fmt"
	"strings"
	"time"
)

const (
	BackendEcho   = "echo"
	BackendGemini = "gemini"

	DefaultModel = "gemini-2.5-flash"
)

// Generator produces a reply for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Func adapts a function to the Generator interface.
type Func func(ctx context.Context, prompt string) (string, error)

func (f Func) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

// Options selects and configures a backend.
type Options struct {
	Backend string
	Model   string
	Delay   time.Duration
	Timeout time.Duration
	// APIKey is consulted on every call so a credential change takes effect
	// without rebuilding the generator.
	APIKey func() string
}

// New builds the configured backend, wrapped with the timeout when set.
func New(opts Options) (Generator, error) {
	var gen Generator
	switch strings.ToLower(strings.TrimSpace(opts.Backend)) {
	case "", BackendEcho:
		gen = &EchoGenerator{Delay: max(opts.Delay, 0)}
	case BackendGemini:
		gen = NewGenAIGenerator(opts.Model, opts.APIKey)
	default:
		return nil, fmt.Errorf("unknown generation backend %q", opts.Backend)
	}
	return WithTimeout(gen, opts.Timeout), nil
}

type timeoutGenerator struct {
	next    Generator
	timeout time.Duration
}

// WithTimeout bounds every Generate call on next by d. A non-positive d
// returns next unchanged.
func WithTimeout(next Generator, d time.Duration) Generator {
	if d <= 0 {
		return next
	}
	return &timeoutGenerator{next: next, timeout: d}
}

func (g *timeoutGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()
	return g.next.Generate(ctx, prompt)
}
