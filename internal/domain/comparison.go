package domain

// Composite score weights. The four evaluator outputs contribute equally,
// with safety risk inverted so that lower risk ranks higher.
const (
	CoherenceWeight   = 0.25
	FactualityWeight  = 0.25
	SafetyWeight      = 0.25
	HelpfulnessWeight = 0.25
)

// MaxComparisonResponseLen bounds the response text carried in a
// comparison result.
const MaxComparisonResponseLen = 500

// ComparisonResult is one model's entry in a comparison sweep: measured
// latency, provider-reported cost basis, the (truncated) response text, and
// the four evaluator scores.
type ComparisonResult struct {
	Model            string  `json:"model" validate:"required"`
	LatencyMs        int64   `json:"latency_ms" validate:"min=0"`
	CostUSD          float64 `json:"cost_usd" validate:"min=0"`
	Response         string  `json:"response"`
	CoherenceScore   float64 `json:"coherence_score" validate:"min=0,max=1"`
	FactualityScore  float64 `json:"factuality_score" validate:"min=0,max=1"`
	SafetyRisk       float64 `json:"safety_risk" validate:"min=0,max=1"`
	HelpfulnessScore float64 `json:"helpfulness_score" validate:"min=0,max=1"`
}

// CompositeScore is the weighted linear combination used to rank models.
// A punitive sentinel entry (all zeros, risk one) scores 0 and ranks last;
// a perfect entry scores 1.
func (r ComparisonResult) CompositeScore() float64 {
	return r.CoherenceScore*CoherenceWeight +
		r.FactualityScore*FactualityWeight +
		(1-r.SafetyRisk)*SafetyWeight +
		r.HelpfulnessScore*HelpfulnessWeight
}

// FailedComparison builds the punitive sentinel recorded when a model's
// generation call fails: worst-case safety risk and zero everywhere else,
// so an engine that produced no output ranks strictly below any engine
// that did.
func FailedComparison(model, errText string) ComparisonResult {
	return ComparisonResult{
		Model:      model,
		Response:   "Error: " + errText,
		SafetyRisk: 1,
	}
}

// TruncateResponse bounds response text for comparison records.
func TruncateResponse(s string) string {
	if len(s) <= MaxComparisonResponseLen {
		return s
	}
	return s[:MaxComparisonResponseLen]
}
