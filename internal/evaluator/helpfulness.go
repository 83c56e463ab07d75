package evaluator

import (
	"context"

	"github.com/agentops/agentops/internal/domain"
)

// Helpfulness scores how useful the last assistant response is to the user.
type Helpfulness struct {
	opts Options
}

// NewHelpfulness builds the helpfulness evaluator.
func NewHelpfulness(opts Options) *Helpfulness { return &Helpfulness{opts: opts} }

// Kind implements Evaluator.
func (*Helpfulness) Kind() domain.EvaluatorKind { return domain.KindHelpfulness }

// Evaluate implements Evaluator. No assistant message means there is
// nothing to assess.
func (e *Helpfulness) Evaluate(ctx context.Context, conv domain.Conversation) domain.Result {
	if _, ok := conv.LastAssistant(); !ok {
		return domain.PermissiveHelpfulness()
	}

	var payload struct {
		Score           float64  `json:"score"`
		UsefulnessScore float64  `json:"usefulness_score"`
		ToneScore       float64  `json:"tone_score"`
		EmpathyScore    float64  `json:"empathy_score"`
		Suggestions     []string `json:"suggestions"`
	}
	user := "Evaluate how helpful this conversation's response is:\n\n" + conv.Transcript()
	if err := judgeInto(ctx, e.opts, helpfulnessSystemPrompt, user, defaultJudgeMaxTokens, &payload); err != nil {
		e.opts.logger().WarnContext(ctx, "helpfulness judgment failed, substituting default", "error", err)
		return domain.FallbackHelpfulness(err.Error())
	}
	return domain.NewHelpfulnessResult(
		payload.Score,
		payload.UsefulnessScore,
		payload.ToneScore,
		payload.EmpathyScore,
		payload.Suggestions,
	)
}
