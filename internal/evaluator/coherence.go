package evaluator

import (
	"context"

	"github.com/agentops/agentops/internal/domain"
)

// Coherence scores clarity and logical flow of the full conversation.
type Coherence struct {
	opts Options
}

// NewCoherence builds the coherence evaluator.
func NewCoherence(opts Options) *Coherence { return &Coherence{opts: opts} }

// Kind implements Evaluator.
func (*Coherence) Kind() domain.EvaluatorKind { return domain.KindCoherence }

// Evaluate implements Evaluator.
func (e *Coherence) Evaluate(ctx context.Context, conv domain.Conversation) domain.Result {
	var payload struct {
		Score       float64 `json:"score"`
		Explanation string  `json:"explanation"`
	}
	user := "Evaluate the coherence of this conversation:\n\n" + conv.Transcript()
	if err := judgeInto(ctx, e.opts, coherenceSystemPrompt, user, defaultJudgeMaxTokens, &payload); err != nil {
		e.opts.logger().WarnContext(ctx, "coherence judgment failed, substituting default", "error", err)
		return domain.FallbackCoherence(err.Error())
	}
	return domain.NewCoherenceResult(payload.Score, payload.Explanation)
}
