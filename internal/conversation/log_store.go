package conversation

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// LogStore persists per-session conversation history.
type LogStore interface {
	Append(ctx context.Context, sessionID string, msg Message) error
	GetRecent(ctx context.Context, sessionID string, limit int) ([]Message, error)
}

type redisLogStore struct {
	redis *redis.Client
	ttl   time.Duration
}

// NewRedisLogStore creates a session log backed by a Redis list. Each append
// refreshes the session TTL, so a session expires only after going quiet.
func NewRedisLogStore(client *redis.Client, ttl time.Duration) LogStore {
	if client == nil {
		panic("conversation: redis client cannot be nil")
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &redisLogStore{redis: client, ttl: ttl}
}

func (s *redisLogStore) Append(ctx context.Context, sessionID string, msg Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("conversation: failed to marshal message: %w", err)
	}

	key := sessionKey(sessionID)
	if err := s.redis.RPush(ctx, key, data).Err(); err != nil {
		return fmt.Errorf("conversation: failed to append message: %w", err)
	}
	if err := s.redis.Expire(ctx, key, s.ttl).Err(); err != nil {
		return fmt.Errorf("conversation: failed to refresh session ttl: %w", err)
	}
	return nil
}

func (s *redisLogStore) GetRecent(ctx context.Context, sessionID string, limit int) ([]Message, error) {
	if limit <= 0 {
		limit = 10
	}

	raw, err := s.redis.LRange(ctx, sessionKey(sessionID), int64(-limit), -1).Result()
	if err != nil {
		return nil, fmt.Errorf("conversation: failed to load session history: %w", err)
	}

	messages := make([]Message, 0, len(raw))
	for _, item := range raw {
		var msg Message
		if err := json.Unmarshal([]byte(item), &msg); err != nil {
			return nil, fmt.Errorf("conversation: failed to decode message: %w", err)
		}
		messages = append(messages, msg)
	}
	return messages, nil
}

func sessionKey(id string) string {
	return fmt.Sprintf("session:%s:messages", id)
}
