package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"ragchat/internal/domain"
)

// Store keeps a conversation log in a Redis list, one JSON-encoded message
// per element. The full log is kept; the working window is derived by the
// caller. An optional TTL lets idle conversations expire.
type Store struct {
	client *goredis.Client
	key    string
	ttl    time.Duration
}

// NewStore creates a log for the given conversation ID.
func NewStore(client *goredis.Client, conversationID uuid.UUID, ttl time.Duration) *Store {
	return &Store{
		client: client,
		key:    "conv:" + conversationID.String(),
		ttl:    ttl,
	}
}

// Append adds messages to the end of the log. The messages of one call are
// pushed in a single pipeline so a completed turn's user/assistant pair lands
// together.
func (s *Store) Append(ctx context.Context, msgs ...domain.Message) error {
	if len(msgs) == 0 {
		return nil
	}
	pipe := s.client.Pipeline()
	for _, m := range msgs {
		data, err := json.Marshal(m)
		if err != nil {
			return fmt.Errorf("marshaling message: %w", err)
		}
		pipe.RPush(ctx, s.key, string(data))
	}
	if s.ttl > 0 {
		pipe.Expire(ctx, s.key, s.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("pipeline exec for %s: %w", s.key, err)
	}
	return nil
}

// Messages returns the full log in order. Malformed entries are skipped.
func (s *Store) Messages(ctx context.Context) ([]domain.Message, error) {
	vals, err := s.client.LRange(ctx, s.key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("lrange %s: %w", s.key, err)
	}
	msgs := make([]domain.Message, 0, len(vals))
	for _, v := range vals {
		var m domain.Message
		if err := json.Unmarshal([]byte(v), &m); err != nil {
			continue // skip malformed entries
		}
		msgs = append(msgs, m)
	}
	return msgs, nil
}

// Reset deletes the log and re-seeds it with the given system message.
func (s *Store) Reset(ctx context.Context, system domain.Message) error {
	data, err := json.Marshal(system)
	if err != nil {
		return fmt.Errorf("marshaling message: %w", err)
	}
	pipe := s.client.Pipeline()
	pipe.Del(ctx, s.key)
	pipe.RPush(ctx, s.key, string(data))
	if s.ttl > 0 {
		pipe.Expire(ctx, s.key, s.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("pipeline exec for %s: %w", s.key, err)
	}
	return nil
}
