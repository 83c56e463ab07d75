package domain

import "fmt"

// EvaluatorKind identifies one of the five evaluators. Joined results are
// keyed by kind, never by completion order.
type EvaluatorKind string

const (
	// KindCoherence scores logical flow and clarity of the response.
	KindCoherence EvaluatorKind = "coherence"

	// KindFactuality scores factual accuracy and hallucination likelihood.
	KindFactuality EvaluatorKind = "factuality"

	// KindSafety scores safety risk of the response.
	KindSafety EvaluatorKind = "safety"

	// KindHelpfulness scores usefulness, tone, and empathy of the response.
	KindHelpfulness EvaluatorKind = "helpfulness"

	// KindCompliance checks the response against operating-procedure rules.
	KindCompliance EvaluatorKind = "compliance"
)

// EvaluatorKinds lists all evaluator identities in canonical order.
func EvaluatorKinds() []EvaluatorKind {
	return []EvaluatorKind{KindCoherence, KindFactuality, KindSafety, KindHelpfulness, KindCompliance}
}

// Result is the closed set of per-evaluator result shapes. Each concrete
// result reports the kind it was produced for, which the join stage uses to
// slot results by evaluator identity.
type Result interface {
	Kind() EvaluatorKind
}

// Clamp01 constrains a value to [0, 1]. Every numeric score passes through
// this before leaving a constructor so out-of-range judge output (e.g. 1.4)
// is normalized rather than propagated.
func Clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

// SafetyCategory classifies the kind of safety risk detected.
type SafetyCategory string

const (
	SafetyToxicity      SafetyCategory = "toxicity"
	SafetyBias          SafetyCategory = "bias"
	SafetyIllegal       SafetyCategory = "illegal"
	SafetyHarmfulAdvice SafetyCategory = "harmful_advice"
	SafetyNone          SafetyCategory = "none"
)

// Valid reports whether the category is one of the known constants.
func (c SafetyCategory) Valid() bool {
	switch c {
	case SafetyToxicity, SafetyBias, SafetyIllegal, SafetyHarmfulAdvice, SafetyNone:
		return true
	}
	return false
}

// Severity ranks compliance violations.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Valid reports whether the severity is one of the known constants.
func (s Severity) Valid() bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return true
	}
	return false
}

// CoherenceResult reports how logically consistent and well structured the
// assistant response is.
type CoherenceResult struct {
	Score       float64 `json:"score" validate:"min=0,max=1"`
	Explanation string  `json:"explanation"`
}

// Kind implements Result.
func (CoherenceResult) Kind() EvaluatorKind { return KindCoherence }

// NewCoherenceResult constructs a coherence result with the score clamped.
func NewCoherenceResult(score float64, explanation string) CoherenceResult {
	return CoherenceResult{Score: Clamp01(score), Explanation: explanation}
}

// FallbackCoherence is the neutral default substituted when the coherence
// judgment fails for any reason.
func FallbackCoherence(reason string) CoherenceResult {
	return CoherenceResult{
		Score:       0.5,
		Explanation: fmt.Sprintf("Evaluation failed: %s", reason),
	}
}

// FactualityResult reports factual accuracy of the assistant response.
type FactualityResult struct {
	Score                   float64  `json:"score" validate:"min=0,max=1"`
	HallucinationLikelihood float64  `json:"hallucination_likelihood" validate:"min=0,max=1"`
	CorrectedFacts          []string `json:"corrected_facts"`
	SourcesChecked          []string `json:"sources_checked"`
}

// Kind implements Result.
func (FactualityResult) Kind() EvaluatorKind { return KindFactuality }

// NewFactualityResult constructs a factuality result with both numeric
// fields clamped and nil slices normalized to empty.
func NewFactualityResult(score, hallucination float64, corrected, sources []string) FactualityResult {
	if corrected == nil {
		corrected = []string{}
	}
	if sources == nil {
		sources = []string{}
	}
	return FactualityResult{
		Score:                   Clamp01(score),
		HallucinationLikelihood: Clamp01(hallucination),
		CorrectedFacts:          corrected,
		SourcesChecked:          sources,
	}
}

// PermissiveFactuality is the degenerate-case result for conversations with
// no assistant message: nothing to verify, so nothing can be wrong.
func PermissiveFactuality() FactualityResult {
	return NewFactualityResult(1.0, 0.0, nil, nil)
}

// FallbackFactuality is the neutral default substituted when the factuality
// judgment fails for any reason.
func FallbackFactuality(reason string) FactualityResult {
	return NewFactualityResult(0.5, 0.5, []string{fmt.Sprintf("Evaluation error: %s", reason)}, nil)
}

// SafetyResult reports the safety risk detected in the assistant response.
type SafetyResult struct {
	RiskScore      float64        `json:"risk_score" validate:"min=0,max=1"`
	Category       SafetyCategory `json:"category" validate:"required"`
	Explanation    string         `json:"explanation"`
	RecommendedFix string         `json:"recommended_fix,omitempty"`
}

// Kind implements Result.
func (SafetyResult) Kind() EvaluatorKind { return KindSafety }

// NewSafetyResult constructs a safety result with the risk clamped and an
// unknown category normalized to none.
func NewSafetyResult(risk float64, category SafetyCategory, explanation, fix string) SafetyResult {
	if !category.Valid() {
		category = SafetyNone
	}
	return SafetyResult{
		RiskScore:      Clamp01(risk),
		Category:       category,
		Explanation:    explanation,
		RecommendedFix: fix,
	}
}

// PermissiveSafety is the degenerate-case result for conversations with no
// assistant message to assess.
func PermissiveSafety() SafetyResult {
	return NewSafetyResult(0.0, SafetyNone, "No assistant response to assess", "")
}

// FallbackSafety is the neutral default substituted when the safety
// judgment fails for any reason.
func FallbackSafety(reason string) SafetyResult {
	return NewSafetyResult(0.5, SafetyNone, fmt.Sprintf("Evaluation failed: %s", reason), "")
}

// HelpfulnessResult reports how useful the assistant response is to the user.
type HelpfulnessResult struct {
	Score           float64  `json:"score" validate:"min=0,max=1"`
	UsefulnessScore float64  `json:"usefulness_score" validate:"min=0,max=1"`
	ToneScore       float64  `json:"tone_score" validate:"min=0,max=1"`
	EmpathyScore    float64  `json:"empathy_score" validate:"min=0,max=1"`
	Suggestions     []string `json:"suggestions"`
}

// Kind implements Result.
func (HelpfulnessResult) Kind() EvaluatorKind { return KindHelpfulness }

// NewHelpfulnessResult constructs a helpfulness result with all four
// sub-scores clamped.
func NewHelpfulnessResult(score, usefulness, tone, empathy float64, suggestions []string) HelpfulnessResult {
	if suggestions == nil {
		suggestions = []string{}
	}
	return HelpfulnessResult{
		Score:           Clamp01(score),
		UsefulnessScore: Clamp01(usefulness),
		ToneScore:       Clamp01(tone),
		EmpathyScore:    Clamp01(empathy),
		Suggestions:     suggestions,
	}
}

// PermissiveHelpfulness is the degenerate-case result for conversations with
// no assistant message to assess.
func PermissiveHelpfulness() HelpfulnessResult {
	return NewHelpfulnessResult(1.0, 1.0, 1.0, 1.0, nil)
}

// FallbackHelpfulness is the neutral default substituted when the
// helpfulness judgment fails for any reason.
func FallbackHelpfulness(reason string) HelpfulnessResult {
	return NewHelpfulnessResult(0.5, 0.5, 0.5, 0.5, []string{fmt.Sprintf("Evaluation failed: %s", reason)})
}

// Violation records a single compliance rule violation.
type Violation struct {
	RuleID      string   `json:"rule_id"`
	RuleName    string   `json:"rule_name"`
	Severity    Severity `json:"severity"`
	Description string   `json:"description"`
}

// ComplianceResult reports whether the response follows the configured
// operating-procedure rules.
type ComplianceResult struct {
	Compliant       bool             `json:"compliant"`
	Violations      []Violation      `json:"violations"`
	SeveritySummary map[Severity]int `json:"severity_summary"`
}

// Kind implements Result.
func (ComplianceResult) Kind() EvaluatorKind { return KindCompliance }

// NewComplianceResult constructs a compliance result, normalizing unknown
// severities to low and computing the per-severity tally.
func NewComplianceResult(compliant bool, violations []Violation) ComplianceResult {
	if violations == nil {
		violations = []Violation{}
	}
	summary := map[Severity]int{SeverityLow: 0, SeverityMedium: 0, SeverityHigh: 0, SeverityCritical: 0}
	for i := range violations {
		if !violations[i].Severity.Valid() {
			violations[i].Severity = SeverityLow
		}
		summary[violations[i].Severity]++
	}
	return ComplianceResult{Compliant: compliant, Violations: violations, SeveritySummary: summary}
}

// CompliantResult is the result for runs where no rules are configured or
// no violations were found.
func CompliantResult() ComplianceResult {
	return NewComplianceResult(true, nil)
}

// FallbackCompliance is the default substituted when the compliance judgment
// fails: compliant, with a single synthetic low-severity violation recording
// why the check could not run.
func FallbackCompliance(reason string) ComplianceResult {
	return NewComplianceResult(true, []Violation{{
		RuleID:      "ERROR",
		RuleName:    "Evaluation Error",
		Severity:    SeverityLow,
		Description: fmt.Sprintf("Compliance evaluation failed: %s", reason),
	}})
}
