package evaluator

import (
	"context"

	"github.com/agentops/agentops/internal/domain"
)

// Factuality scores the factual accuracy of the last assistant response.
// Claim extraction and verification happen inside the backing judge.
type Factuality struct {
	opts Options
}

// NewFactuality builds the factuality evaluator.
func NewFactuality(opts Options) *Factuality { return &Factuality{opts: opts} }

// Kind implements Evaluator.
func (*Factuality) Kind() domain.EvaluatorKind { return domain.KindFactuality }

// Evaluate implements Evaluator. A conversation with no assistant message
// has nothing to verify and yields the maximally permissive result without
// a judge call.
func (e *Factuality) Evaluate(ctx context.Context, conv domain.Conversation) domain.Result {
	if _, ok := conv.LastAssistant(); !ok {
		return domain.PermissiveFactuality()
	}

	var payload struct {
		Score                   float64  `json:"score"`
		HallucinationLikelihood float64  `json:"hallucination_likelihood"`
		CorrectedFacts          []string `json:"corrected_facts"`
		SourcesChecked          []string `json:"sources_checked"`
	}
	user := "Conversation:\n" + conv.Transcript()
	if err := judgeInto(ctx, e.opts, factualitySystemPrompt, user, factualityJudgeMaxTokens, &payload); err != nil {
		e.opts.logger().WarnContext(ctx, "factuality judgment failed, substituting default", "error", err)
		return domain.FallbackFactuality(err.Error())
	}
	return domain.NewFactualityResult(
		payload.Score,
		payload.HallucinationLikelihood,
		payload.CorrectedFacts,
		payload.SourcesChecked,
	)
}
