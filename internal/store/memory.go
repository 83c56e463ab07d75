package store

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore is an in-memory RecordStore for development and tests.
// Production deployments should use the Redis-backed store.
type MemoryStore struct {
	mu            sync.RWMutex
	conversations map[uuid.UUID]ConversationRecord
	evaluations   map[uuid.UUID]EvaluationRecord
	refinements   map[uuid.UUID]RefinementRecord
}

var _ RecordStore = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory record store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		conversations: make(map[uuid.UUID]ConversationRecord),
		evaluations:   make(map[uuid.UUID]EvaluationRecord),
		refinements:   make(map[uuid.UUID]RefinementRecord),
	}
}

// InsertConversation implements RecordStore.
func (s *MemoryStore) InsertConversation(_ context.Context, rec ConversationRecord) (uuid.UUID, error) {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conversations[rec.ID] = rec
	return rec.ID, nil
}

// InsertEvaluation implements RecordStore.
func (s *MemoryStore) InsertEvaluation(_ context.Context, rec EvaluationRecord) (uuid.UUID, error) {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.evaluations[rec.ID] = rec
	return rec.ID, nil
}

// InsertRefinement implements RecordStore.
func (s *MemoryStore) InsertRefinement(_ context.Context, rec RefinementRecord) (uuid.UUID, error) {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refinements[rec.ID] = rec
	return rec.ID, nil
}

// GetConversation implements RecordStore.
func (s *MemoryStore) GetConversation(_ context.Context, id uuid.UUID) (*ConversationDetail, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	conv, ok := s.conversations[id]
	if !ok {
		return nil, ErrNotFound
	}
	detail := &ConversationDetail{Conversation: conv}
	for _, ev := range s.evaluations {
		if ev.ConversationID == id {
			evCopy := ev
			detail.Evaluation = &evCopy
			break
		}
	}
	for _, ref := range s.refinements {
		if ref.ConversationID == id {
			refCopy := ref
			detail.Refinement = &refCopy
			break
		}
	}
	return detail, nil
}

// ListConversations implements RecordStore.
func (s *MemoryStore) ListConversations(_ context.Context, userID string, offset, limit int) ([]ConversationRecord, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var all []ConversationRecord
	for _, rec := range s.conversations {
		if rec.UserID == userID {
			all = append(all, rec)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })

	total := len(all)
	if offset >= total {
		return []ConversationRecord{}, total, nil
	}
	end := offset + limit
	if limit <= 0 || end > total {
		end = total
	}
	return all[offset:end], total, nil
}
