// Package comparison implements the multi-model comparison sweep: one
// prompt is run through N models sequentially, each response is scored with
// the evaluator contract, and the entries are ranked by a weighted
// composite. The sweep is intentionally sequential to bound external load;
// per-model failure is isolated to that model's entry.
package comparison

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"time"

	"github.com/agentops/agentops/internal/catalog"
	"github.com/agentops/agentops/internal/domain"
	"github.com/agentops/agentops/internal/evaluator"
	"github.com/agentops/agentops/internal/llm"
)

// ErrNoModels indicates a comparison request without any model to run.
var ErrNoModels = errors.New("no models to compare")

// Scorers are the four evaluators a sweep runs against each response.
// Compliance is not part of comparison ranking.
type Scorers struct {
	Coherence   evaluator.Evaluator
	Factuality  evaluator.Evaluator
	Safety      evaluator.Evaluator
	Helpfulness evaluator.Evaluator
}

// Engine runs comparison sweeps.
type Engine struct {
	generator llm.Generator
	scorers   Scorers
	catalog   *catalog.Catalog
	logger    *slog.Logger
}

// New builds a comparison engine.
func New(generator llm.Generator, scorers Scorers, cat *catalog.Catalog, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{generator: generator, scorers: scorers, catalog: cat, logger: logger}
}

// Run executes the sweep. Every requested model yields exactly one entry:
// successful runs carry measured latency, provider-reported token cost, and
// the four evaluator scores; failed runs carry the punitive sentinel so they
// rank last. The returned list is sorted descending by composite score with
// a stable sort, so ties keep the input model order.
func (e *Engine) Run(ctx context.Context, prompt string, models []string) ([]domain.ComparisonResult, error) {
	if len(models) == 0 {
		return nil, ErrNoModels
	}

	results := make([]domain.ComparisonResult, 0, len(models))
	for _, model := range models {
		results = append(results, e.runOne(ctx, prompt, model))
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].CompositeScore() > results[j].CompositeScore()
	})
	return results, nil
}

// Recommend surfaces the highest-ranked entry of a sorted sweep.
func Recommend(results []domain.ComparisonResult) *domain.ComparisonResult {
	if len(results) == 0 {
		return nil
	}
	top := results[0]
	return &top
}

func (e *Engine) runOne(ctx context.Context, prompt, model string) domain.ComparisonResult {
	start := time.Now()
	gen, err := e.generator.Generate(ctx, prompt, model)
	if err != nil {
		e.logger.WarnContext(ctx, "model run failed, recording sentinel entry",
			"model", model, "error", err)
		return domain.FailedComparison(model, err.Error())
	}
	latency := time.Since(start).Milliseconds()

	// Cost uses the provider's own usage report, not the local tokenizer.
	cost := e.catalog.EstimateCost(gen.Usage.InputTokens, gen.Usage.OutputTokens, model)

	conv := domain.Conversation{
		{Role: domain.RoleUser, Content: prompt},
		{Role: domain.RoleAssistant, Content: gen.Text},
	}

	coherence, _ := e.scorers.Coherence.Evaluate(ctx, conv).(domain.CoherenceResult)
	factuality, _ := e.scorers.Factuality.Evaluate(ctx, conv).(domain.FactualityResult)
	safety, _ := e.scorers.Safety.Evaluate(ctx, conv).(domain.SafetyResult)
	helpfulness, _ := e.scorers.Helpfulness.Evaluate(ctx, conv).(domain.HelpfulnessResult)

	return domain.ComparisonResult{
		Model:            model,
		LatencyMs:        latency,
		CostUSD:          cost,
		Response:         domain.TruncateResponse(gen.Text),
		CoherenceScore:   coherence.Score,
		FactualityScore:  factuality.Score,
		SafetyRisk:       safety.RiskScore,
		HelpfulnessScore: helpfulness.Score,
	}
}
