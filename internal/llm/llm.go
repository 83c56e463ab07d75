// Package llm defines the collaborator contracts for language-model calls:
// a Judge that produces structured JSON verdicts and a Generator that
// produces free-form completions with provider-reported usage. The OpenAI
// implementation lives here too; everything above this package depends only
// on the interfaces.
package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Error taxonomy for collaborator failures. Callers classify with errors.Is;
// both classes are recovered locally at the evaluator boundary.
var (
	// ErrTransport indicates the underlying call failed: network error,
	// provider error status, or timeout.
	ErrTransport = errors.New("llm transport failure")

	// ErrMalformedOutput indicates the provider responded but the payload
	// could not be used: empty content or undecodable JSON.
	ErrMalformedOutput = errors.New("llm malformed output")
)

// TransportErr wraps err as a transport failure.
func TransportErr(err error) error {
	return fmt.Errorf("%w: %w", ErrTransport, err)
}

// MalformedErr wraps err as a malformed-output failure.
func MalformedErr(err error) error {
	return fmt.Errorf("%w: %w", ErrMalformedOutput, err)
}

// JudgeRequest describes one structured judgment call.
type JudgeRequest struct {
	// System is the judge's instruction prompt.
	System string
	// User is the content to be judged.
	User string
	// Model is the judge model identifier.
	Model string
	// MaxTokens bounds the completion length.
	MaxTokens int
}

// Judge produces a raw structured payload for a judgment request. The
// payload is strict JSON; decode failures at the caller are treated the
// same as ErrMalformedOutput here.
type Judge interface {
	Judge(ctx context.Context, req JudgeRequest) (json.RawMessage, error)
}

// Usage is the provider-reported token accounting for one generation.
type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// Generation is the result of one completion call.
type Generation struct {
	Text  string `json:"text"`
	Usage Usage  `json:"usage"`
}

// Generator produces a completion for a prompt against a named model.
// Used by the comparison engine; token counts come from the provider's own
// usage report, not the local tokenizer.
type Generator interface {
	Generate(ctx context.Context, prompt, model string) (*Generation, error)
}
