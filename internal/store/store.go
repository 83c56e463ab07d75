// Package store persists evaluation runs as three related records:
// a conversation record, an evaluation record, and an optional refinement
// record. The store is a simple insert/select key-value collaborator; the
// pipeline treats any store failure as fatal since there is no safe default
// for "could not persist the result".
package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/agentops/agentops/internal/domain"
)

// Store errors.
var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("record not found")
)

// ConversationRecord captures the evaluated conversation and its telemetry.
type ConversationRecord struct {
	ID           uuid.UUID `json:"id"`
	UserID       string    `json:"user_id"`
	SessionID    string    `json:"session_id,omitempty"`
	UserInput    string    `json:"user_input"`
	ModelOutput  string    `json:"model_output"`
	Model        string    `json:"model"`
	LatencyMs    int64     `json:"latency_ms"`
	InputTokens  int       `json:"input_tokens"`
	OutputTokens int       `json:"output_tokens"`
	CostUSD      float64   `json:"cost_usd"`
	CreatedAt    time.Time `json:"created_at"`
}

// EvaluationRecord carries the five headline scores plus the full
// per-evaluator detail as a JSON blob, one-to-one with a conversation.
type EvaluationRecord struct {
	ID              uuid.UUID       `json:"id"`
	ConversationID  uuid.UUID       `json:"conversation_id"`
	CoherenceScore  float64         `json:"coherence_score"`
	FactualityScore float64         `json:"factuality_score"`
	SafetyRisk      float64         `json:"safety_risk"`
	Helpfulness     float64         `json:"helpfulness_score"`
	Compliant       bool            `json:"compliant"`
	Detail          json.RawMessage `json:"detail"`
	CreatedAt       time.Time       `json:"created_at"`
}

// RefinementRecord carries a suggested prompt improvement, one-to-one with
// a conversation when present.
type RefinementRecord struct {
	ID             uuid.UUID `json:"id"`
	ConversationID uuid.UUID `json:"conversation_id"`
	ImprovedPrompt string    `json:"improved_prompt"`
	Reasoning      string    `json:"reasoning"`
	CreatedAt      time.Time `json:"created_at"`
}

// ConversationDetail is a conversation joined with its evaluation and
// optional refinement for read paths.
type ConversationDetail struct {
	Conversation ConversationRecord `json:"conversation"`
	Evaluation   *EvaluationRecord  `json:"evaluation,omitempty"`
	Refinement   *RefinementRecord  `json:"refinement,omitempty"`
}

// RecordStore is the persistence collaborator contract.
type RecordStore interface {
	// InsertConversation persists a conversation record and returns its id.
	InsertConversation(ctx context.Context, rec ConversationRecord) (uuid.UUID, error)

	// InsertEvaluation persists an evaluation record linked to a conversation.
	InsertEvaluation(ctx context.Context, rec EvaluationRecord) (uuid.UUID, error)

	// InsertRefinement persists a refinement record linked to a conversation.
	InsertRefinement(ctx context.Context, rec RefinementRecord) (uuid.UUID, error)

	// GetConversation returns one conversation with its related records.
	GetConversation(ctx context.Context, id uuid.UUID) (*ConversationDetail, error)

	// ListConversations returns records for a user, newest first, with the
	// total count for pagination.
	ListConversations(ctx context.Context, userID string, offset, limit int) ([]ConversationRecord, int, error)
}

// NewEvaluationRecord builds the evaluation record for one aggregate,
// serializing the full per-evaluator detail into the JSON blob.
func NewEvaluationRecord(conversationID uuid.UUID, agg *domain.AggregateEvaluation) (EvaluationRecord, error) {
	detail, err := json.Marshal(map[string]any{
		"coherence":      agg.Coherence,
		"factuality":     agg.Factuality,
		"safety":         agg.Safety,
		"helpfulness":    agg.Helpfulness,
		"sop_compliance": agg.Compliance,
	})
	if err != nil {
		return EvaluationRecord{}, err
	}
	return EvaluationRecord{
		ID:              uuid.New(),
		ConversationID:  conversationID,
		CoherenceScore:  agg.Coherence.Score,
		FactualityScore: agg.Factuality.Score,
		SafetyRisk:      agg.Safety.RiskScore,
		Helpfulness:     agg.Helpfulness.Score,
		Compliant:       agg.Compliance.Compliant,
		Detail:          detail,
		CreatedAt:       time.Now().UTC(),
	}, nil
}
