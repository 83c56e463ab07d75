package domain

import "errors"

// Aggregate-level errors.
var (
	// ErrIncompleteJoin indicates that not every evaluator slot was filled
	// before aggregation. This should be unreachable when evaluators honor
	// their default-substitution contract.
	ErrIncompleteJoin = errors.New("join produced an incomplete result set")
)

// Telemetry is the derived cost and token accounting attached to one
// evaluation run. Token counts come from the local tokenizer, not from any
// count an external judge may have reported.
type Telemetry struct {
	InputTokens  int     `json:"input_tokens" validate:"min=0"`
	OutputTokens int     `json:"output_tokens" validate:"min=0"`
	CostUSD      float64 `json:"cost_usd" validate:"min=0"`
	LatencyMs    int64   `json:"latency_ms" validate:"min=0"`
	ModelUsed    string  `json:"model_used" validate:"required"`
}

// PromptImprovement is a derived suggestion for a better input prompt,
// conditioned on the joined evaluation results.
type PromptImprovement struct {
	ImprovedPrompt string   `json:"improved_prompt" validate:"required"`
	Reasoning      string   `json:"reasoning"`
	ChangesMade    []string `json:"changes_made"`
}

// JoinedResults holds the output of the fan-out/join stage: exactly one
// result per evaluator, slotted by identity.
type JoinedResults struct {
	Coherence   CoherenceResult
	Factuality  FactualityResult
	Safety      SafetyResult
	Helpfulness HelpfulnessResult
	Compliance  ComplianceResult
}

// AverageScore computes the aggregate quality average over the four numeric
// evaluator scores, with safety risk inverted so higher is better. The
// refinement stage surfaces this value in its context but does not gate on it.
func (j JoinedResults) AverageScore() float64 {
	return (j.Coherence.Score + j.Factuality.Score + j.Helpfulness.Score + (1 - j.Safety.RiskScore)) / 4
}

// AggregateEvaluation is the final record of one pipeline run. It owns one
// result per evaluator (defaults substituted for failed evaluators), an
// optional prompt improvement, and the telemetry block. It is immutable
// after the pipeline returns it and is never partially populated.
type AggregateEvaluation struct {
	Coherence   CoherenceResult    `json:"coherence"`
	Factuality  FactualityResult   `json:"factuality"`
	Safety      SafetyResult       `json:"safety"`
	Helpfulness HelpfulnessResult  `json:"helpfulness"`
	Compliance  ComplianceResult   `json:"sop_compliance"`
	Improvement *PromptImprovement `json:"prompt_improvement,omitempty"`
	Telemetry   Telemetry          `json:"telemetry"`
}

// Validate checks the aggregate for range and completeness invariants.
func (a *AggregateEvaluation) Validate() error {
	return validate.Struct(a)
}
