package comparison

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentops/agentops/internal/catalog"
	"github.com/agentops/agentops/internal/domain"
	"github.com/agentops/agentops/internal/evaluator"
	"github.com/agentops/agentops/internal/llm"
)

// stubGenerator serves canned generations per model and fails the models
// listed in failing.
type stubGenerator struct {
	text    string
	usage   llm.Usage
	failing map[string]bool
	calls   []string
}

func (g *stubGenerator) Generate(_ context.Context, _ string, model string) (*llm.Generation, error) {
	g.calls = append(g.calls, model)
	if g.failing[model] {
		return nil, llm.TransportErr(errors.New("provider unavailable"))
	}
	return &llm.Generation{Text: g.text, Usage: g.usage}, nil
}

// fixedJudge scores every response with the same verdict.
type fixedJudge struct{}

func (fixedJudge) Judge(context.Context, llm.JudgeRequest) (json.RawMessage, error) {
	return json.RawMessage(`{
		"score": 0.8,
		"explanation": "fine",
		"hallucination_likelihood": 0.2,
		"risk_score": 0.2,
		"category": "none",
		"usefulness_score": 0.8,
		"tone_score": 0.8,
		"empathy_score": 0.8
	}`), nil
}

func newTestEngine(gen llm.Generator) *Engine {
	opts := evaluator.Options{Judge: fixedJudge{}, Model: "judge-model"}
	return New(gen, Scorers{
		Coherence:   evaluator.NewCoherence(opts),
		Factuality:  evaluator.NewFactuality(opts),
		Safety:      evaluator.NewSafety(opts),
		Helpfulness: evaluator.NewHelpfulness(opts),
	}, catalog.Default(), nil)
}

func TestRun(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects an empty model list", func(t *testing.T) {
		_, err := newTestEngine(&stubGenerator{}).Run(ctx, "prompt", nil)
		assert.ErrorIs(t, err, ErrNoModels)
	})

	t.Run("yields one entry per requested model", func(t *testing.T) {
		gen := &stubGenerator{text: "answer", usage: llm.Usage{InputTokens: 10, OutputTokens: 20}}
		results, err := newTestEngine(gen).Run(ctx, "prompt", []string{"gpt-4o", "gpt-4o-mini", "gpt-5-nano"})
		require.NoError(t, err)
		require.Len(t, results, 3)
		assert.Equal(t, []string{"gpt-4o", "gpt-4o-mini", "gpt-5-nano"}, gen.calls)
	})

	t.Run("successful entry carries scores and provider-based cost", func(t *testing.T) {
		gen := &stubGenerator{text: "answer", usage: llm.Usage{InputTokens: 1000, OutputTokens: 500}}
		results, err := newTestEngine(gen).Run(ctx, "prompt", []string{"gpt-4o"})
		require.NoError(t, err)
		require.Len(t, results, 1)

		r := results[0]
		assert.Equal(t, "gpt-4o", r.Model)
		assert.Equal(t, "answer", r.Response)
		assert.Equal(t, 0.8, r.CoherenceScore)
		assert.Equal(t, 0.2, r.SafetyRisk)
		assert.Equal(t, catalog.Default().EstimateCost(1000, 500, "gpt-4o"), r.CostUSD)
	})

	t.Run("failed model ranks strictly below a successful one", func(t *testing.T) {
		gen := &stubGenerator{text: "answer", failing: map[string]bool{"gpt-4o": true}}
		results, err := newTestEngine(gen).Run(ctx, "prompt", []string{"gpt-4o", "gpt-4o-mini"})
		require.NoError(t, err)
		require.Len(t, results, 2)

		assert.Equal(t, "gpt-4o-mini", results[0].Model)
		assert.Equal(t, "gpt-4o", results[1].Model)
		assert.Equal(t, 1.0, results[1].SafetyRisk)
		assert.True(t, strings.HasPrefix(results[1].Response, "Error: "))
		assert.Zero(t, results[1].CompositeScore())
	})

	t.Run("ties keep the input model order", func(t *testing.T) {
		gen := &stubGenerator{text: "answer"}
		results, err := newTestEngine(gen).Run(ctx, "prompt", []string{"gpt-5-nano", "gpt-4o", "gpt-4o-mini"})
		require.NoError(t, err)

		// Same judge verdict everywhere, so the stable sort preserves order.
		assert.Equal(t, "gpt-5-nano", results[0].Model)
		assert.Equal(t, "gpt-4o", results[1].Model)
		assert.Equal(t, "gpt-4o-mini", results[2].Model)
	})

	t.Run("results are sorted descending by composite score", func(t *testing.T) {
		gen := &stubGenerator{text: "answer", failing: map[string]bool{"gpt-4o-mini": true}}
		results, err := newTestEngine(gen).Run(ctx, "prompt", []string{"gpt-4o-mini", "gpt-4o"})
		require.NoError(t, err)
		for i := 1; i < len(results); i++ {
			assert.GreaterOrEqual(t, results[i-1].CompositeScore(), results[i].CompositeScore())
		}
	})

	t.Run("long responses are truncated", func(t *testing.T) {
		gen := &stubGenerator{text: strings.Repeat("x", domain.MaxComparisonResponseLen+50)}
		results, err := newTestEngine(gen).Run(ctx, "prompt", []string{"gpt-4o"})
		require.NoError(t, err)
		assert.Len(t, results[0].Response, domain.MaxComparisonResponseLen)
	})
}

func TestRecommend(t *testing.T) {
	t.Run("returns the top entry", func(t *testing.T) {
		results := []domain.ComparisonResult{
			{Model: "best", CoherenceScore: 1, FactualityScore: 1, HelpfulnessScore: 1},
			{Model: "worst", SafetyRisk: 1},
		}
		got := Recommend(results)
		require.NotNil(t, got)
		assert.Equal(t, "best", got.Model)
	})

	t.Run("nil for an empty sweep", func(t *testing.T) {
		assert.Nil(t, Recommend(nil))
	})
}
