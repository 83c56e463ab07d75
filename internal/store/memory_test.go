package store

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentops/agentops/internal/domain"
)

func insertConversationAt(t *testing.T, s RecordStore, userID string, at time.Time) uuid.UUID {
	t.Helper()
	id, err := s.InsertConversation(context.Background(), ConversationRecord{
		UserID:      userID,
		UserInput:   "question",
		ModelOutput: "answer",
		Model:       "gpt-4o",
		CreatedAt:   at,
	})
	require.NoError(t, err)
	return id
}

func TestMemoryStoreRoundtrip(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	convID, err := s.InsertConversation(ctx, ConversationRecord{
		ID:          uuid.New(),
		UserID:      "u1",
		UserInput:   "question",
		ModelOutput: "answer",
		Model:       "gpt-4o",
		CostUSD:     0.0075,
		CreatedAt:   time.Now().UTC(),
	})
	require.NoError(t, err)

	_, err = s.InsertEvaluation(ctx, EvaluationRecord{
		ConversationID: convID,
		CoherenceScore: 0.9,
		Compliant:      true,
		CreatedAt:      time.Now().UTC(),
	})
	require.NoError(t, err)

	_, err = s.InsertRefinement(ctx, RefinementRecord{
		ConversationID: convID,
		ImprovedPrompt: "a better question",
		CreatedAt:      time.Now().UTC(),
	})
	require.NoError(t, err)

	detail, err := s.GetConversation(ctx, convID)
	require.NoError(t, err)
	assert.Equal(t, "u1", detail.Conversation.UserID)
	assert.Equal(t, 0.0075, detail.Conversation.CostUSD)
	require.NotNil(t, detail.Evaluation)
	assert.Equal(t, 0.9, detail.Evaluation.CoherenceScore)
	require.NotNil(t, detail.Refinement)
	assert.Equal(t, "a better question", detail.Refinement.ImprovedPrompt)
}

func TestMemoryStoreAssignsIDs(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	id, err := s.InsertConversation(ctx, ConversationRecord{UserID: "u1"})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, id)
}

func TestMemoryStoreGetConversation(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	t.Run("unknown id reports not found", func(t *testing.T) {
		_, err := s.GetConversation(ctx, uuid.New())
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("missing evaluation and refinement stay nil", func(t *testing.T) {
		id := insertConversationAt(t, s, "u1", time.Now().UTC())
		detail, err := s.GetConversation(ctx, id)
		require.NoError(t, err)
		assert.Nil(t, detail.Evaluation)
		assert.Nil(t, detail.Refinement)
	})
}

func TestMemoryStoreListConversations(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	base := time.Now().UTC()
	oldest := insertConversationAt(t, s, "u1", base.Add(-3*time.Hour))
	middle := insertConversationAt(t, s, "u1", base.Add(-2*time.Hour))
	newest := insertConversationAt(t, s, "u1", base.Add(-1*time.Hour))
	insertConversationAt(t, s, "other-user", base)

	t.Run("filters by user and orders newest first", func(t *testing.T) {
		records, total, err := s.ListConversations(ctx, "u1", 0, 10)
		require.NoError(t, err)
		assert.Equal(t, 3, total)
		require.Len(t, records, 3)
		assert.Equal(t, newest, records[0].ID)
		assert.Equal(t, middle, records[1].ID)
		assert.Equal(t, oldest, records[2].ID)
	})

	t.Run("paginates with offset and limit", func(t *testing.T) {
		records, total, err := s.ListConversations(ctx, "u1", 1, 1)
		require.NoError(t, err)
		assert.Equal(t, 3, total)
		require.Len(t, records, 1)
		assert.Equal(t, middle, records[0].ID)
	})

	t.Run("offset past the end returns an empty page with the total", func(t *testing.T) {
		records, total, err := s.ListConversations(ctx, "u1", 10, 5)
		require.NoError(t, err)
		assert.Equal(t, 3, total)
		assert.Empty(t, records)
	})

	t.Run("unknown user returns an empty page", func(t *testing.T) {
		records, total, err := s.ListConversations(ctx, "nobody", 0, 10)
		require.NoError(t, err)
		assert.Zero(t, total)
		assert.Empty(t, records)
	})
}

func TestNewEvaluationRecordDetail(t *testing.T) {
	// The detail blob must carry the full per-evaluator payloads so read
	// paths can reconstruct the aggregate without re-running anything.
	convID := uuid.New()
	agg := &domain.AggregateEvaluation{
		Coherence:   domain.NewCoherenceResult(0.9, "clear"),
		Factuality:  domain.NewFactualityResult(0.8, 0.2, nil, nil),
		Safety:      domain.NewSafetyResult(0.1, domain.SafetyNone, "fine", ""),
		Helpfulness: domain.NewHelpfulnessResult(0.7, 0.7, 0.7, 0.7, nil),
		Compliance:  domain.CompliantResult(),
	}
	rec, err := NewEvaluationRecord(convID, agg)
	require.NoError(t, err)

	assert.Equal(t, convID, rec.ConversationID)
	assert.NotEqual(t, uuid.Nil, rec.ID)
	assert.Equal(t, 0.9, rec.CoherenceScore)
	assert.Equal(t, 0.8, rec.FactualityScore)
	assert.Equal(t, 0.1, rec.SafetyRisk)
	assert.Equal(t, 0.7, rec.Helpfulness)
	assert.True(t, rec.Compliant)

	var detail map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Detail, &detail))
	for _, key := range []string{"coherence", "factuality", "safety", "helpfulness", "sop_compliance"} {
		assert.Contains(t, detail, key)
	}
}
