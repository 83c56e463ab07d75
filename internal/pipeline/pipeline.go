// Package pipeline implements the evaluation orchestration: a fixed-topology
// stage graph that fans a conversation out to five evaluators, joins their
// results by evaluator identity, runs the dependent refinement stage, and
// produces one aggregate record with deterministic telemetry.
//
// The stage graph is linear with one parallel region:
//
//	Start → FanOutJoin → ConditionalRefine → Aggregate → Done
//
// Evaluators self-recover into per-variant defaults, so the only failures a
// caller can observe are input validation and persistence errors.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/agentops/agentops/internal/catalog"
	"github.com/agentops/agentops/internal/domain"
	"github.com/agentops/agentops/internal/evaluator"
	"github.com/agentops/agentops/internal/store"
	"github.com/agentops/agentops/internal/tokens"
)

// ErrPersistence marks record-store failures, the one fatal error class:
// there is no safe default for "could not persist the result".
var ErrPersistence = errors.New("evaluation persistence failed")

// RunMeta attributes a pipeline run for persistence. A zero ConversationID
// lets the store assign one; callers that need the id up front (e.g. to
// echo it in an HTTP response) may pre-generate it.
type RunMeta struct {
	ConversationID uuid.UUID
	UserID         string
	SessionID      string
}

// Executor runs the evaluation pipeline. It is safe for concurrent use;
// each run owns its own state exclusively until returned.
type Executor struct {
	evaluators []evaluator.Evaluator
	refiner    *evaluator.Refiner
	counter    tokens.Counter
	catalog    *catalog.Catalog
	records    store.RecordStore
	logger     *slog.Logger
}

// New builds an executor. The evaluator slice must cover every evaluator
// kind exactly once. A nil record store disables persistence (CLI and test
// use); a nil logger uses slog.Default.
func New(
	evaluators []evaluator.Evaluator,
	refiner *evaluator.Refiner,
	counter tokens.Counter,
	cat *catalog.Catalog,
	records store.RecordStore,
	logger *slog.Logger,
) (*Executor, error) {
	seen := map[domain.EvaluatorKind]bool{}
	for _, ev := range evaluators {
		if seen[ev.Kind()] {
			return nil, fmt.Errorf("duplicate evaluator for kind %q", ev.Kind())
		}
		seen[ev.Kind()] = true
	}
	for _, kind := range domain.EvaluatorKinds() {
		if !seen[kind] {
			return nil, fmt.Errorf("missing evaluator for kind %q", kind)
		}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Executor{
		evaluators: evaluators,
		refiner:    refiner,
		counter:    counter,
		catalog:    cat,
		records:    records,
		logger:     logger,
	}, nil
}

// Run executes the full pipeline for one conversation. declaredModel is the
// model said to have produced the conversation; it is used for telemetry
// attribution only and is sanitized against the catalog. The returned
// aggregate is always fully populated: failed evaluators contribute their
// neutral defaults instead of aborting the run.
func (e *Executor) Run(ctx context.Context, conv domain.Conversation, declaredModel string, meta RunMeta) (*domain.AggregateEvaluation, error) {
	if err := conv.Validate(); err != nil {
		return nil, err
	}
	start := time.Now()

	joined, err := e.fanOutJoin(ctx, conv)
	if err != nil {
		return nil, err
	}

	// Refinement runs unconditionally after the join. The refiner computes
	// the aggregate quality average internally but does not gate on it;
	// suggestions are suppressed only on no textual change.
	var improvement *domain.PromptImprovement
	if e.refiner != nil {
		improvement = e.refiner.Refine(ctx, conv, joined)
	}

	agg := e.aggregate(conv, declaredModel, joined, improvement, time.Since(start))

	if e.records != nil {
		if err := e.persist(ctx, conv, agg, meta); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
		}
	}

	e.logger.InfoContext(ctx, "evaluation pipeline completed",
		"model", agg.Telemetry.ModelUsed,
		"input_tokens", agg.Telemetry.InputTokens,
		"output_tokens", agg.Telemetry.OutputTokens,
		"cost_usd", agg.Telemetry.CostUSD,
		"avg_score", joined.AverageScore(),
		"refined", improvement != nil)
	return agg, nil
}

// fanOutJoin dispatches every evaluator concurrently against the same
// conversation and waits for all of them. Results are slotted by evaluator
// identity, never by completion order. Individual evaluator failures never
// surface here: each evaluator substitutes its own default, so the group
// only fails if a result slot would be left empty.
func (e *Executor) fanOutJoin(ctx context.Context, conv domain.Conversation) (domain.JoinedResults, error) {
	results := make([]domain.Result, len(e.evaluators))

	g, gctx := errgroup.WithContext(ctx)
	for i, ev := range e.evaluators {
		i, ev := i, ev
		g.Go(func() error {
			results[i] = ev.Evaluate(gctx, conv)
			return nil
		})
	}
	// Evaluators never return errors; Wait is the join barrier.
	if err := g.Wait(); err != nil {
		return domain.JoinedResults{}, err
	}

	var joined domain.JoinedResults
	filled := map[domain.EvaluatorKind]bool{}
	for _, res := range results {
		switch r := res.(type) {
		case domain.CoherenceResult:
			joined.Coherence = r
		case domain.FactualityResult:
			joined.Factuality = r
		case domain.SafetyResult:
			joined.Safety = r
		case domain.HelpfulnessResult:
			joined.Helpfulness = r
		case domain.ComplianceResult:
			joined.Compliance = r
		default:
			return domain.JoinedResults{}, domain.ErrIncompleteJoin
		}
		filled[res.Kind()] = true
	}
	for _, kind := range domain.EvaluatorKinds() {
		if !filled[kind] {
			return domain.JoinedResults{}, domain.ErrIncompleteJoin
		}
	}
	return joined, nil
}

// aggregate is the pure, deterministic final stage: token counts come from
// the local tokenizer over the conversation text and the last assistant
// message, independent of whatever any judge reported, and cost comes from
// the catalog for the declared model.
func (e *Executor) aggregate(
	conv domain.Conversation,
	declaredModel string,
	joined domain.JoinedResults,
	improvement *domain.PromptImprovement,
	elapsed time.Duration,
) *domain.AggregateEvaluation {
	inputTokens := e.counter.Count(conv.Text())

	outputText, _ := conv.LastAssistant()
	outputTokens := e.counter.Count(outputText)

	model := e.catalog.ValidModel(declaredModel)
	return &domain.AggregateEvaluation{
		Coherence:   joined.Coherence,
		Factuality:  joined.Factuality,
		Safety:      joined.Safety,
		Helpfulness: joined.Helpfulness,
		Compliance:  joined.Compliance,
		Improvement: improvement,
		Telemetry: domain.Telemetry{
			InputTokens:  inputTokens,
			OutputTokens: outputTokens,
			CostUSD:      e.catalog.EstimateCost(inputTokens, outputTokens, model),
			LatencyMs:    elapsed.Milliseconds(),
			ModelUsed:    model,
		},
	}
}

// persist writes the conversation, evaluation, and optional refinement as
// three related records.
func (e *Executor) persist(ctx context.Context, conv domain.Conversation, agg *domain.AggregateEvaluation, meta RunMeta) error {
	userInput, _ := conv.LastUser()
	modelOutput, _ := conv.LastAssistant()

	convID, err := e.records.InsertConversation(ctx, store.ConversationRecord{
		ID:           meta.ConversationID,
		UserID:       meta.UserID,
		SessionID:    meta.SessionID,
		UserInput:    userInput,
		ModelOutput:  modelOutput,
		Model:        agg.Telemetry.ModelUsed,
		LatencyMs:    agg.Telemetry.LatencyMs,
		InputTokens:  agg.Telemetry.InputTokens,
		OutputTokens: agg.Telemetry.OutputTokens,
		CostUSD:      agg.Telemetry.CostUSD,
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("insert conversation: %w", err)
	}

	evalRec, err := store.NewEvaluationRecord(convID, agg)
	if err != nil {
		return fmt.Errorf("build evaluation record: %w", err)
	}
	if _, err := e.records.InsertEvaluation(ctx, evalRec); err != nil {
		return fmt.Errorf("insert evaluation: %w", err)
	}

	if agg.Improvement != nil {
		_, err := e.records.InsertRefinement(ctx, store.RefinementRecord{
			ID:             uuid.New(),
			ConversationID: convID,
			ImprovedPrompt: agg.Improvement.ImprovedPrompt,
			Reasoning:      agg.Improvement.Reasoning,
			CreatedAt:      time.Now().UTC(),
		})
		if err != nil {
			return fmt.Errorf("insert refinement: %w", err)
		}
	}
	return nil
}
