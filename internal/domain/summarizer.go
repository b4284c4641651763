package domain

import "context"

// Summarizer turns a prompt built from a list of events into narrative text.
type Summarizer interface {
	// Summarize submits the prompt and returns the model's notes verbatim.
	Summarize(ctx context.Context, prompt string) (string, error)
}
