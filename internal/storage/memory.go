package storage

import (
	"context"
	"sync"

	"finledger/internal/core"
)

// MemoryStore is an in-memory Store for tests and ephemeral sessions.
type MemoryStore struct {
	mu      sync.Mutex
	ledgers map[string][]core.Record
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{ledgers: make(map[string][]core.Record)}
}

func (s *MemoryStore) Load(_ context.Context, user string) ([]core.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Record, len(s.ledgers[user]))
	copy(out, s.ledgers[user])
	return out, nil
}

func (s *MemoryStore) Save(_ context.Context, user string, records []core.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := make([]core.Record, len(records))
	copy(kept, records)
	s.ledgers[user] = kept
	return nil
}
