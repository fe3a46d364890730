package llm

import (
	"context"
)

// Message represents a chat message in a provider-agnostic format
type Message struct {
	Role    string // "user", "assistant", "system"
	Content string
}

// Option allows for optional parameters like Temperature, MaxTokens, etc.
type Option func(*Options)

type Options struct {
	Temperature float64
	MaxTokens   int
	Model       string // Override default model
}

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

// Apply folds a list of options over a defaults struct.
func Apply(defaults Options, options ...Option) *Options {
	opts := defaults
	for _, o := range options {
		o(&opts)
	}
	return &opts
}

// Provider defines the contract for any completion backend.
//
// A call is a single request/response exchange. Providers never retry; a
// failed call is returned to the caller classified via the sentinel errors in
// errors.go so the caller can decide how to degrade.
type Provider interface {
	// Chat sends a chat history to the model and returns the response text.
	Chat(ctx context.Context, history []Message, options ...Option) (string, error)

	// Complete is the single-exchange form: one system instruction plus one
	// user prompt.
	Complete(ctx context.Context, systemPrompt, userPrompt string, options ...Option) (string, error)
}
