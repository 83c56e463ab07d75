// Package evaluator implements the five conversation evaluators and the
// prompt refiner. Each evaluator satisfies one contract: given a
// conversation, produce a bounded, typed result, or that evaluator's
// documented neutral default when the backing judgment fails. A single
// evaluator's failure never aborts a pipeline run.
package evaluator

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/agentops/agentops/internal/domain"
	"github.com/agentops/agentops/internal/llm"
)

// Evaluator is the contract the pipeline depends on. Evaluate never
// returns an error; failure handling happens inside the boundary.
type Evaluator interface {
	// Kind identifies the evaluator; joined results are slotted by it.
	Kind() domain.EvaluatorKind

	// Evaluate produces this evaluator's typed result for the conversation.
	Evaluate(ctx context.Context, conv domain.Conversation) domain.Result
}

// Default completion budgets per judgment call.
const (
	defaultJudgeMaxTokens    = 500
	complianceJudgeMaxTokens = 800
	factualityJudgeMaxTokens = 600
	refinementJudgeMaxTokens = 1500
)

// Options carries the shared collaborator wiring for one evaluator.
type Options struct {
	// Judge is the backing judgment procedure.
	Judge llm.Judge

	// Model is the judge model identifier for this evaluator.
	Model string

	// Timeout bounds each judge call; expiry takes the same
	// default-substitution path as any other failure. Zero disables it.
	Timeout time.Duration

	// Logger receives evaluator lifecycle events. Nil uses slog.Default.
	Logger *slog.Logger
}

func (o Options) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.Default()
	}
	return o.Logger
}

// judgeInto runs one judgment call and strictly decodes the payload into
// out. Transport failures, timeouts, and undecodable payloads are all
// reported as a single error for the caller to convert into its default.
func judgeInto(ctx context.Context, o Options, system, user string, maxTokens int, out any) error {
	if o.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.Timeout)
		defer cancel()
	}

	payload, err := o.Judge.Judge(ctx, llm.JudgeRequest{
		System:    system,
		User:      user,
		Model:     o.Model,
		MaxTokens: maxTokens,
	})
	if err != nil {
		return err
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return llm.MalformedErr(err)
	}
	return nil
}
