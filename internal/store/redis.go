package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Key layout:
//
//	agentops:conversation:<id>   JSON-encoded ConversationRecord
//	agentops:evaluation:<id>     JSON-encoded EvaluationRecord
//	agentops:refinement:<id>     JSON-encoded RefinementRecord
//	agentops:conv_eval:<conv-id> evaluation id for the conversation
//	agentops:conv_ref:<conv-id>  refinement id for the conversation
//	agentops:user:<user-id>      list of conversation ids, newest first
const (
	keyPrefix       = "agentops"
	conversationKey = keyPrefix + ":conversation:%s"
	evaluationKey   = keyPrefix + ":evaluation:%s"
	refinementKey   = keyPrefix + ":refinement:%s"
	convEvalKey     = keyPrefix + ":conv_eval:%s"
	convRefKey      = keyPrefix + ":conv_ref:%s"
	userIndexKey    = keyPrefix + ":user:%s"
)

// RedisStore is a Redis-backed RecordStore. Records are stored as JSON
// values with a per-user index list for pagination.
type RedisStore struct {
	client *redis.Client
}

var _ RecordStore = (*RedisStore)(nil)

// NewRedisStore creates a record store over the given Redis client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) putJSON(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}
	if err := s.client.Set(ctx, key, raw, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (s *RedisStore) getJSON(ctx context.Context, key string, v any) error {
	raw, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("redis get %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decode record %s: %w", key, err)
	}
	return nil
}

// InsertConversation implements RecordStore.
func (s *RedisStore) InsertConversation(ctx context.Context, rec ConversationRecord) (uuid.UUID, error) {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	if err := s.putJSON(ctx, fmt.Sprintf(conversationKey, rec.ID), rec); err != nil {
		return uuid.Nil, err
	}
	if err := s.client.LPush(ctx, fmt.Sprintf(userIndexKey, rec.UserID), rec.ID.String()).Err(); err != nil {
		return uuid.Nil, fmt.Errorf("redis index push: %w", err)
	}
	return rec.ID, nil
}

// InsertEvaluation implements RecordStore.
func (s *RedisStore) InsertEvaluation(ctx context.Context, rec EvaluationRecord) (uuid.UUID, error) {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	if err := s.putJSON(ctx, fmt.Sprintf(evaluationKey, rec.ID), rec); err != nil {
		return uuid.Nil, err
	}
	if err := s.client.Set(ctx, fmt.Sprintf(convEvalKey, rec.ConversationID), rec.ID.String(), 0).Err(); err != nil {
		return uuid.Nil, fmt.Errorf("redis link evaluation: %w", err)
	}
	return rec.ID, nil
}

// InsertRefinement implements RecordStore.
func (s *RedisStore) InsertRefinement(ctx context.Context, rec RefinementRecord) (uuid.UUID, error) {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	if err := s.putJSON(ctx, fmt.Sprintf(refinementKey, rec.ID), rec); err != nil {
		return uuid.Nil, err
	}
	if err := s.client.Set(ctx, fmt.Sprintf(convRefKey, rec.ConversationID), rec.ID.String(), 0).Err(); err != nil {
		return uuid.Nil, fmt.Errorf("redis link refinement: %w", err)
	}
	return rec.ID, nil
}

// GetConversation implements RecordStore.
func (s *RedisStore) GetConversation(ctx context.Context, id uuid.UUID) (*ConversationDetail, error) {
	var conv ConversationRecord
	if err := s.getJSON(ctx, fmt.Sprintf(conversationKey, id), &conv); err != nil {
		return nil, err
	}
	detail := &ConversationDetail{Conversation: conv}

	if evalID, err := s.client.Get(ctx, fmt.Sprintf(convEvalKey, id)).Result(); err == nil {
		var ev EvaluationRecord
		if err := s.getJSON(ctx, fmt.Sprintf(evaluationKey, evalID), &ev); err == nil {
			detail.Evaluation = &ev
		}
	}
	if refID, err := s.client.Get(ctx, fmt.Sprintf(convRefKey, id)).Result(); err == nil {
		var ref RefinementRecord
		if err := s.getJSON(ctx, fmt.Sprintf(refinementKey, refID), &ref); err == nil {
			detail.Refinement = &ref
		}
	}
	return detail, nil
}

// ListConversations implements RecordStore.
func (s *RedisStore) ListConversations(ctx context.Context, userID string, offset, limit int) ([]ConversationRecord, int, error) {
	indexKey := fmt.Sprintf(userIndexKey, userID)

	total, err := s.client.LLen(ctx, indexKey).Result()
	if err != nil {
		return nil, 0, fmt.Errorf("redis index length: %w", err)
	}
	if limit <= 0 {
		limit = int(total)
	}
	ids, err := s.client.LRange(ctx, indexKey, int64(offset), int64(offset+limit-1)).Result()
	if err != nil {
		return nil, 0, fmt.Errorf("redis index range: %w", err)
	}

	records := make([]ConversationRecord, 0, len(ids))
	for _, id := range ids {
		var conv ConversationRecord
		if err := s.getJSON(ctx, fmt.Sprintf(conversationKey, id), &conv); err != nil {
			if errors.Is(err, ErrNotFound) {
				continue
			}
			return nil, 0, err
		}
		records = append(records, conv)
	}
	return records, int(total), nil
}
