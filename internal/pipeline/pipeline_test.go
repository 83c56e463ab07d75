package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentops/agentops/internal/catalog"
	"github.com/agentops/agentops/internal/domain"
	"github.com/agentops/agentops/internal/evaluator"
	"github.com/agentops/agentops/internal/llm"
	"github.com/agentops/agentops/internal/store"
)

// omniJudge answers every evaluator with one payload carrying the union of
// all result fields; each evaluator decodes only the fields it knows.
type omniJudge struct {
	err error
}

func (j *omniJudge) Judge(context.Context, llm.JudgeRequest) (json.RawMessage, error) {
	if j.err != nil {
		return nil, j.err
	}
	return json.RawMessage(`{
		"score": 0.9,
		"explanation": "clear and accurate",
		"hallucination_likelihood": 0.1,
		"corrected_facts": [],
		"sources_checked": ["General knowledge"],
		"risk_score": 0.1,
		"category": "none",
		"recommended_fix": "",
		"usefulness_score": 0.9,
		"tone_score": 0.9,
		"empathy_score": 0.9,
		"suggestions": [],
		"compliant": true,
		"violations": [],
		"improved_prompt": "What is the capital city of France?",
		"reasoning": "added specificity",
		"changes_made": ["specific noun"]
	}`), nil
}

// byteCounter counts one token per byte to make telemetry assertions exact.
type byteCounter struct{}

func (byteCounter) Count(text string) int { return len(text) }

// failingStore errors on the first insert.
type failingStore struct {
	store.RecordStore
}

func (failingStore) InsertConversation(context.Context, store.ConversationRecord) (uuid.UUID, error) {
	return uuid.Nil, errors.New("store unavailable")
}

func allEvaluators(judge llm.Judge) []evaluator.Evaluator {
	opts := evaluator.Options{Judge: judge, Model: "judge-model"}
	return []evaluator.Evaluator{
		evaluator.NewCoherence(opts),
		evaluator.NewFactuality(opts),
		evaluator.NewSafety(opts),
		evaluator.NewHelpfulness(opts),
		evaluator.NewCompliance(opts, nil),
	}
}

func newTestExecutor(t *testing.T, judge llm.Judge, records store.RecordStore) *Executor {
	t.Helper()
	refiner := evaluator.NewRefiner(evaluator.Options{Judge: judge, Model: "judge-model"})
	exec, err := New(allEvaluators(judge), refiner, byteCounter{}, catalog.Default(), records, nil)
	require.NoError(t, err)
	return exec
}

func parisConversation() domain.Conversation {
	return domain.Conversation{
		{Role: domain.RoleUser, Content: "What is the capital of France?"},
		{Role: domain.RoleAssistant, Content: "The capital of France is Paris."},
	}
}

func TestNew(t *testing.T) {
	t.Run("rejects a missing evaluator kind", func(t *testing.T) {
		evals := allEvaluators(&omniJudge{})[:4]
		_, err := New(evals, nil, byteCounter{}, catalog.Default(), nil, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "missing evaluator")
	})

	t.Run("rejects a duplicate evaluator kind", func(t *testing.T) {
		evals := allEvaluators(&omniJudge{})
		evals[4] = evals[0]
		_, err := New(evals, nil, byteCounter{}, catalog.Default(), nil, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "duplicate evaluator")
	})
}

func TestRun(t *testing.T) {
	ctx := context.Background()

	t.Run("joins every evaluator by identity", func(t *testing.T) {
		exec := newTestExecutor(t, &omniJudge{}, nil)
		agg, err := exec.Run(ctx, parisConversation(), "gpt-4o", RunMeta{})
		require.NoError(t, err)

		assert.Equal(t, 0.9, agg.Coherence.Score)
		assert.Equal(t, 0.9, agg.Factuality.Score)
		assert.Equal(t, 0.1, agg.Safety.RiskScore)
		assert.Equal(t, 0.9, agg.Helpfulness.Score)
		assert.True(t, agg.Compliance.Compliant)
	})

	t.Run("telemetry comes from the local counter and catalog", func(t *testing.T) {
		exec := newTestExecutor(t, &omniJudge{}, nil)
		conv := parisConversation()
		agg, err := exec.Run(ctx, conv, "gpt-4o", RunMeta{})
		require.NoError(t, err)

		wantIn := len(conv.Text())
		wantOut := len("The capital of France is Paris.")
		assert.Equal(t, wantIn, agg.Telemetry.InputTokens)
		assert.Equal(t, wantOut, agg.Telemetry.OutputTokens)
		assert.Equal(t, "gpt-4o", agg.Telemetry.ModelUsed)
		assert.Equal(t, catalog.Default().EstimateCost(wantIn, wantOut, "gpt-4o"), agg.Telemetry.CostUSD)
	})

	t.Run("unknown declared model falls back for attribution", func(t *testing.T) {
		exec := newTestExecutor(t, &omniJudge{}, nil)
		agg, err := exec.Run(ctx, parisConversation(), "made-up-model", RunMeta{})
		require.NoError(t, err)
		assert.Equal(t, catalog.Default().Fallback(), agg.Telemetry.ModelUsed)
	})

	t.Run("carries the refinement suggestion", func(t *testing.T) {
		exec := newTestExecutor(t, &omniJudge{}, nil)
		agg, err := exec.Run(ctx, parisConversation(), "gpt-4o", RunMeta{})
		require.NoError(t, err)

		require.NotNil(t, agg.Improvement)
		assert.Equal(t, "What is the capital city of France?", agg.Improvement.ImprovedPrompt)
	})

	t.Run("all evaluators failing still yields a complete aggregate", func(t *testing.T) {
		exec := newTestExecutor(t, &omniJudge{err: errors.New("provider down")}, nil)
		agg, err := exec.Run(ctx, parisConversation(), "gpt-4o", RunMeta{})
		require.NoError(t, err)

		assert.Equal(t, 0.5, agg.Coherence.Score)
		assert.Equal(t, 0.5, agg.Factuality.Score)
		assert.Equal(t, 0.5, agg.Safety.RiskScore)
		assert.Equal(t, 0.5, agg.Helpfulness.Score)
		assert.True(t, agg.Compliance.Compliant)
		require.Len(t, agg.Compliance.Violations, 1)
		assert.Equal(t, "ERROR", agg.Compliance.Violations[0].RuleID)

		// Refinement failure passes the original prompt through.
		require.NotNil(t, agg.Improvement)
		assert.Equal(t, "What is the capital of France?", agg.Improvement.ImprovedPrompt)
	})

	t.Run("rejects an empty conversation", func(t *testing.T) {
		exec := newTestExecutor(t, &omniJudge{}, nil)
		_, err := exec.Run(ctx, domain.Conversation{}, "gpt-4o", RunMeta{})
		assert.ErrorIs(t, err, domain.ErrEmptyConversation)
	})

	t.Run("nil refiner skips refinement", func(t *testing.T) {
		exec, err := New(allEvaluators(&omniJudge{}), nil, byteCounter{}, catalog.Default(), nil, nil)
		require.NoError(t, err)

		agg, err := exec.Run(ctx, parisConversation(), "gpt-4o", RunMeta{})
		require.NoError(t, err)
		assert.Nil(t, agg.Improvement)
	})
}

func TestRunPersistence(t *testing.T) {
	ctx := context.Background()

	t.Run("writes conversation, evaluation, and refinement records", func(t *testing.T) {
		records := store.NewMemoryStore()
		exec := newTestExecutor(t, &omniJudge{}, records)

		meta := RunMeta{ConversationID: uuid.New(), UserID: "test-user", SessionID: "s1"}
		agg, err := exec.Run(ctx, parisConversation(), "gpt-4o", meta)
		require.NoError(t, err)

		detail, err := records.GetConversation(ctx, meta.ConversationID)
		require.NoError(t, err)

		assert.Equal(t, "test-user", detail.Conversation.UserID)
		assert.Equal(t, "What is the capital of France?", detail.Conversation.UserInput)
		assert.Equal(t, "The capital of France is Paris.", detail.Conversation.ModelOutput)
		assert.Equal(t, agg.Telemetry.CostUSD, detail.Conversation.CostUSD)

		require.NotNil(t, detail.Evaluation)
		assert.Equal(t, 0.9, detail.Evaluation.CoherenceScore)
		assert.True(t, detail.Evaluation.Compliant)

		require.NotNil(t, detail.Refinement)
		assert.Equal(t, "What is the capital city of France?", detail.Refinement.ImprovedPrompt)
	})

	t.Run("store failure surfaces as a persistence error", func(t *testing.T) {
		exec := newTestExecutor(t, &omniJudge{}, failingStore{})
		_, err := exec.Run(ctx, parisConversation(), "gpt-4o", RunMeta{})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrPersistence)
	})
}
