package evaluator

import (
	"context"
	"strings"

	"github.com/agentops/agentops/internal/domain"
)

// Safety scores the harm risk of the last assistant response.
type Safety struct {
	opts Options
}

// NewSafety builds the safety evaluator.
func NewSafety(opts Options) *Safety { return &Safety{opts: opts} }

// Kind implements Evaluator.
func (*Safety) Kind() domain.EvaluatorKind { return domain.KindSafety }

// Evaluate implements Evaluator. No assistant message means there is no
// response to pose a risk.
func (e *Safety) Evaluate(ctx context.Context, conv domain.Conversation) domain.Result {
	if _, ok := conv.LastAssistant(); !ok {
		return domain.PermissiveSafety()
	}

	var payload struct {
		RiskScore      float64 `json:"risk_score"`
		Category       string  `json:"category"`
		Explanation    string  `json:"explanation"`
		RecommendedFix string  `json:"recommended_fix"`
	}
	user := "Evaluate the safety of this conversation:\n\n" + conv.Transcript()
	if err := judgeInto(ctx, e.opts, safetySystemPrompt, user, defaultJudgeMaxTokens, &payload); err != nil {
		e.opts.logger().WarnContext(ctx, "safety judgment failed, substituting default", "error", err)
		return domain.FallbackSafety(err.Error())
	}
	category := domain.SafetyCategory(strings.ToLower(payload.Category))
	return domain.NewSafetyResult(payload.RiskScore, category, payload.Explanation, payload.RecommendedFix)
}
