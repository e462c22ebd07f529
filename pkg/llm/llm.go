// Package llm abstracts the generative text backend used by the planner
// and the generation engine. Providers are pluggable through a factory
// registry; the default provider speaks the OpenAI-compatible chat
// completions protocol.
package llm

import (
	"context"
	"strings"
)

// Client is the interface the rest of the system consumes. A provider
// turns a prompt into generated text or an error; it holds no state
// between calls.
type Client interface {
	// Generate produces text for the given model and prompt.
	Generate(ctx context.Context, model, prompt string) (string, error)
}

// StripFence removes a single markdown fenced-code-block wrapper from a
// model response, if present. Models frequently wrap whole documents in
// ```html ... ``` fences even when asked not to.
func StripFence(text string) string {
	trimmed := strings.TrimSpace(text)

	start := strings.Index(trimmed, "```")
	if start < 0 {
		return trimmed
	}

	rest := trimmed[start+3:]
	// Drop the language tag on the opening fence line.
	if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
		rest = rest[nl+1:]
	}

	if end := strings.LastIndex(rest, "```"); end >= 0 {
		rest = rest[:end]
	}

	return strings.TrimSpace(rest)
}
