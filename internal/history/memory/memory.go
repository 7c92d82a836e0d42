package memory

import (
	"context"

	"ragchat/internal/domain"
)

// Store is an append-only in-memory conversation log. It is owned by a single
// conversation and processed strictly sequentially, so it carries no locking.
type Store struct {
	msgs []domain.Message
}

// NewStore creates a log seeded with the given messages, typically the
// conversation's default system message.
func NewStore(seed ...domain.Message) *Store {
	s := &Store{}
	s.msgs = append(s.msgs, seed...)
	return s
}

// Append adds messages to the end of the log.
func (s *Store) Append(ctx context.Context, msgs ...domain.Message) error {
	s.msgs = append(s.msgs, msgs...)
	return nil
}

// Messages returns a snapshot copy of the log.
func (s *Store) Messages(ctx context.Context) ([]domain.Message, error) {
	out := make([]domain.Message, len(s.msgs))
	copy(out, s.msgs)
	return out, nil
}

// Reset discards the log and re-seeds it with the given system message.
func (s *Store) Reset(ctx context.Context, system domain.Message) error {
	s.msgs = []domain.Message{system}
	return nil
}
