package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/agentops/agentops/internal/catalog"
	"github.com/agentops/agentops/internal/domain"
	"github.com/agentops/agentops/internal/store"
)

// seedSample is one canned conversation used to populate a development store.
type seedSample struct {
	userInput   string
	modelOutput string
	model       string
}

var seedSamples = []seedSample{
	{
		userInput:   "What is machine learning and how does it work?",
		modelOutput: "Machine learning is a subset of artificial intelligence that enables systems to learn and improve from experience without being explicitly programmed. It works by training algorithms on large datasets to identify patterns and make decisions.",
		model:       "gpt-5-mini",
	},
	{
		userInput:   "Write a Python function to calculate fibonacci numbers",
		modelOutput: "Here's an iterative Fibonacci function:\n\n```python\ndef fibonacci(n):\n    a, b = 0, 1\n    for _ in range(n):\n        a, b = b, a + b\n    return a\n```\n\nThis runs in O(n) time and O(1) space.",
		model:       "gpt-5-mini",
	},
	{
		userInput:   "Explain quantum computing to a beginner",
		modelOutput: "Quantum computing uses quantum mechanics to process information. Unlike classical bits that are 0 or 1, qubits can be in superposition of both states at once, which lets quantum computers explore many possibilities in parallel for certain problems.",
		model:       "gpt-4o",
	},
	{
		userInput:   "What are the health benefits of green tea?",
		modelOutput: "Green tea contains antioxidants called catechins that may reduce cell damage. Studies suggest it can improve brain function and boost metabolism. Consult a healthcare provider before large changes, as it can interact with some medications.",
		model:       "gpt-5-mini",
	},
	{
		userInput:   "How do I start investing in stocks?",
		modelOutput: "Start by learning the basics, setting clear financial goals, and determining your risk tolerance. Open a brokerage account and consider index funds or ETFs for diversification. I recommend consulting a licensed financial advisor for personalized advice.",
		model:       "gpt-4o",
	},
}

func newSeedCmd() *cobra.Command {
	var userID string
	var count int

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert sample conversations and evaluations into the record store",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, _, err := loadConfig()
			if err != nil {
				return err
			}
			if cfg.Redis.Addr == "" {
				return errors.New("seeding needs a persistent store, set REDIS_ADDR")
			}
			records := store.NewRedisStore(redis.NewClient(&redis.Options{
				Addr:     cfg.Redis.Addr,
				Password: cfg.Redis.Password,
				DB:       cfg.Redis.DB,
			}))
			cat, err := catalog.Load(cfg.CatalogFile)
			if err != nil {
				return err
			}

			seeded, err := seedRecords(cmd.Context(), records, cat, userID, count)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d conversations for %s\n", seeded, userID)
			return nil
		},
	}
	cmd.Flags().StringVar(&userID, "user", "seed-user-001", "user id to attach to seeded records")
	cmd.Flags().IntVarP(&count, "count", "n", 50, "number of conversations to create")
	return cmd
}

// seedRecords inserts count randomized conversation/evaluation pairs, with a
// refinement for roughly a third of them. Timestamps spread back 30 days so
// listings look lived-in.
func seedRecords(ctx context.Context, records store.RecordStore, cat *catalog.Catalog, userID string, count int) (int, error) {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	seeded := 0

	for i := 0; i < count; i++ {
		sample := seedSamples[rng.Intn(len(seedSamples))]
		createdAt := time.Now().UTC().
			Add(-time.Duration(rng.Intn(30*24)) * time.Hour).
			Add(-time.Duration(rng.Intn(60)) * time.Minute)

		inputTokens := 20 + rng.Intn(130)
		outputTokens := 100 + rng.Intn(400)

		convID, err := records.InsertConversation(ctx, store.ConversationRecord{
			ID:           uuid.New(),
			UserID:       userID,
			SessionID:    fmt.Sprintf("session-%d", i/5),
			UserInput:    sample.userInput,
			ModelOutput:  sample.modelOutput,
			Model:        sample.model,
			LatencyMs:    int64(200 + rng.Intn(1000)),
			InputTokens:  inputTokens,
			OutputTokens: outputTokens,
			CostUSD:      cat.EstimateCost(inputTokens, outputTokens, sample.model),
			CreatedAt:    createdAt,
		})
		if err != nil {
			return seeded, fmt.Errorf("seed conversation %d: %w", i, err)
		}

		agg := seedAggregate(rng)
		evalRec, err := store.NewEvaluationRecord(convID, agg)
		if err != nil {
			return seeded, fmt.Errorf("seed evaluation %d: %w", i, err)
		}
		evalRec.CreatedAt = createdAt
		if _, err := records.InsertEvaluation(ctx, evalRec); err != nil {
			return seeded, fmt.Errorf("seed evaluation %d: %w", i, err)
		}

		if rng.Float64() < 0.3 {
			_, err := records.InsertRefinement(ctx, store.RefinementRecord{
				ID:             uuid.New(),
				ConversationID: convID,
				ImprovedPrompt: sample.userInput + " Please provide a detailed explanation with examples.",
				Reasoning:      "Added specificity to get more comprehensive responses.",
				CreatedAt:      createdAt,
			})
			if err != nil {
				return seeded, fmt.Errorf("seed refinement %d: %w", i, err)
			}
		}
		seeded++
	}
	return seeded, nil
}

// seedAggregate fabricates a plausible high-quality evaluation.
func seedAggregate(rng *rand.Rand) *domain.AggregateEvaluation {
	between := func(lo, hi float64) float64 { return lo + rng.Float64()*(hi-lo) }

	factuality := between(0.70, 0.95)
	return &domain.AggregateEvaluation{
		Coherence: domain.NewCoherenceResult(between(0.75, 0.98),
			"Response is well-structured and easy to understand."),
		Factuality: domain.NewFactualityResult(factuality, 1-factuality,
			nil, []string{"General knowledge"}),
		Safety: domain.NewSafetyResult(between(0.01, 0.25), domain.SafetyNone,
			"No safety concerns detected.", ""),
		Helpfulness: domain.NewHelpfulnessResult(between(0.72, 0.95),
			between(0.75, 0.95), between(0.80, 0.95), between(0.70, 0.90), nil),
		Compliance: domain.NewComplianceResult(true, nil),
	}
}
