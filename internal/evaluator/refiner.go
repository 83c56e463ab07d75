package evaluator

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/agentops/agentops/internal/domain"
)

// Refiner synthesizes the joined evaluation results into a suggested
// improvement of the original prompt. It runs unconditionally after the
// join; the aggregate quality average is surfaced to the judge as context
// but does not gate whether refinement runs.
type Refiner struct {
	opts Options
}

// NewRefiner builds the prompt refiner.
func NewRefiner(opts Options) *Refiner { return &Refiner{opts: opts} }

// Refine produces a prompt improvement, or nil when the conversation has no
// user prompt or the regenerated prompt does not differ textually from the
// original. On judge failure a pass-through suggestion is returned carrying
// the original prompt and the failure reason; refinement never fails a run.
func (r *Refiner) Refine(ctx context.Context, conv domain.Conversation, joined domain.JoinedResults) *domain.PromptImprovement {
	original, ok := conv.LastUser()
	if !ok {
		return nil
	}
	response, ok := conv.LastAssistant()
	if !ok {
		response = "No response"
	}

	summary, err := json.MarshalIndent(evaluationSummary(joined), "", "  ")
	if err != nil {
		return passThrough(original, err)
	}

	user := fmt.Sprintf(`Original prompt: %s

AI Response: %s

Aggregate quality average: %.2f

Evaluation Results:
%s

Please suggest an improved prompt.`, original, response, joined.AverageScore(), summary)

	var payload struct {
		ImprovedPrompt string   `json:"improved_prompt"`
		Reasoning      string   `json:"reasoning"`
		ChangesMade    []string `json:"changes_made"`
	}
	if err := judgeInto(ctx, r.opts, refinerSystemPrompt, user, refinementJudgeMaxTokens, &payload); err != nil {
		r.opts.logger().WarnContext(ctx, "refinement failed, passing through original prompt", "error", err)
		return passThrough(original, err)
	}

	// No suggestion when the regenerated prompt is empty or textually
	// identical to the original.
	if payload.ImprovedPrompt == "" || payload.ImprovedPrompt == original {
		return nil
	}
	if payload.Reasoning == "" {
		payload.Reasoning = "Improvements based on evaluation feedback"
	}
	if payload.ChangesMade == nil {
		payload.ChangesMade = []string{}
	}
	return &domain.PromptImprovement{
		ImprovedPrompt: payload.ImprovedPrompt,
		Reasoning:      payload.Reasoning,
		ChangesMade:    payload.ChangesMade,
	}
}

func passThrough(original string, err error) *domain.PromptImprovement {
	return &domain.PromptImprovement{
		ImprovedPrompt: original,
		Reasoning:      fmt.Sprintf("Could not generate improvement: %s", err),
		ChangesMade:    []string{},
	}
}

// evaluationSummary compiles the per-evaluator detail fed to the refiner
// judge.
func evaluationSummary(j domain.JoinedResults) map[string]any {
	violations := make([]map[string]any, 0, len(j.Compliance.Violations))
	for _, v := range j.Compliance.Violations {
		violations = append(violations, map[string]any{
			"rule":        v.RuleName,
			"severity":    v.Severity,
			"description": v.Description,
		})
	}
	return map[string]any{
		"coherence": map[string]any{
			"score":       j.Coherence.Score,
			"explanation": j.Coherence.Explanation,
		},
		"factuality": map[string]any{
			"score":                    j.Factuality.Score,
			"hallucination_likelihood": j.Factuality.HallucinationLikelihood,
			"corrected_facts":          j.Factuality.CorrectedFacts,
		},
		"safety": map[string]any{
			"risk_score":      j.Safety.RiskScore,
			"category":        j.Safety.Category,
			"recommended_fix": j.Safety.RecommendedFix,
		},
		"helpfulness": map[string]any{
			"score":       j.Helpfulness.Score,
			"suggestions": j.Helpfulness.Suggestions,
		},
		"sop_compliance": map[string]any{
			"compliant":  j.Compliance.Compliant,
			"violations": violations,
		},
	}
}
