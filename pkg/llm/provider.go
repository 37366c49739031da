package llm

import "context"

// Message is one turn of a chat exchange in a provider-agnostic shape.
// Role is "user", "assistant" or "system"; providers translate to their
// own vocabulary.
type Message struct {
	Role    string
	Content string
}

// Options holds per-call generation parameters. Zero values mean
// "use the provider default".
type Options struct {
	Temperature float64
	MaxTokens   int
	Model       string // override the provider's configured model
}

type Option func(*Options)

func WithTemperature(temp float64) Option {
	return func(o *Options) {
		o.Temperature = temp
	}
}

func WithMaxTokens(n int) Option {
	return func(o *Options) {
		o.MaxTokens = n
	}
}

func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

// LLMProvider is the contract for any chat-completion backend. Both
// metadata extraction and answer generation go through it.
type LLMProvider interface {
	Chat(ctx context.Context, history []Message, options ...Option) (string, error)

	// Generate is a convenience wrapper for single-prompt calls.
	Generate(ctx context.Context, prompt string, options ...Option) (string, error)
}
