// Package services orchestrates ledger mutations over the record
// store and the change-event stream.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"finledger/internal/core"
	"finledger/internal/storage"
)

var (
	// ErrNotInitialized means a mutation was attempted before Load.
	// Mutating an unloaded ledger would persist an empty snapshot over
	// the user's real history, so this fails fast instead.
	ErrNotInitialized = errors.New("ledger not loaded")

	// ErrIndexOutOfRange means an update or delete index was outside
	// the current ledger bounds. No mutation and no persist happen.
	ErrIndexOutOfRange = errors.New("record index out of range")
)

// ChangePublisher emits ledger-change events after successful
// persists. Publish failures are never surfaced to the caller; local
// durability is already achieved by then.
type ChangePublisher interface {
	PublishLedgerChanged(ctx context.Context, user, op string, count int) error
}

// LedgerService holds one user's in-memory ledger and keeps it in
// sync with the record store: every successful mutation rewrites the
// user's persisted snapshot in full. Not safe for concurrent use.
type LedgerService struct {
	user      string
	store     storage.Store
	publisher ChangePublisher // nil tolerated
	records   []core.Record
	loaded    bool
}

func NewLedgerService(user string, store storage.Store, publisher ChangePublisher) *LedgerService {
	return &LedgerService{
		user:      user,
		store:     store,
		publisher: publisher,
	}
}

// User returns the owning user identifier.
func (s *LedgerService) User() string {
	return s.user
}

// Load populates the in-memory ledger from the store. It must be
// called once per session before any mutation or read.
func (s *LedgerService) Load(ctx context.Context) error {
	records, err := s.store.Load(ctx, s.user)
	if err != nil {
		return fmt.Errorf("load ledger: %w", err)
	}
	s.records = records
	s.loaded = true
	slog.DebugContext(ctx, "Ledger session loaded", "user", s.user, "records", len(records))
	return nil
}

// Add appends a record and persists the ledger. On persist failure
// the append stays in memory and the error surfaces: the caller must
// treat the record as not yet durable.
func (s *LedgerService) Add(ctx context.Context, rec core.Record) error {
	if !s.loaded {
		return ErrNotInitialized
	}
	if err := rec.Validate(); err != nil {
		return fmt.Errorf("validate record: %w", err)
	}
	s.records = append(s.records, rec)
	if err := s.persist(ctx, "add"); err != nil {
		return err
	}
	return nil
}

// Update replaces the record at index wholesale and persists. An
// out-of-range index aborts before any mutation.
func (s *LedgerService) Update(ctx context.Context, index int, rec core.Record) error {
	if !s.loaded {
		return ErrNotInitialized
	}
	if index < 0 || index >= len(s.records) {
		return fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, index, len(s.records))
	}
	if err := rec.Validate(); err != nil {
		return fmt.Errorf("validate record: %w", err)
	}
	s.records[index] = rec
	return s.persist(ctx, "update")
}

// Delete removes the record at index and persists. An out-of-range
// index aborts before any mutation.
func (s *LedgerService) Delete(ctx context.Context, index int) error {
	if !s.loaded {
		return ErrNotInitialized
	}
	if index < 0 || index >= len(s.records) {
		return fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, index, len(s.records))
	}
	s.records = append(s.records[:index], s.records[index+1:]...)
	return s.persist(ctx, "delete")
}

// Records returns a copy of the ledger in insertion order.
func (s *LedgerService) Records() []core.Record {
	out := make([]core.Record, len(s.records))
	copy(out, s.records)
	return out
}

// Totals computes the income/expense/balance overview of the ledger.
func (s *LedgerService) Totals() (core.Totals, error) {
	return core.ComputeTotals(s.records)
}

// Distribution computes the per-category sums of the ledger.
func (s *LedgerService) Distribution() ([]core.CategoryAmount, error) {
	return core.Distribution(s.records)
}

// MonthlyTrends computes the month-by-category pivot of the ledger.
func (s *LedgerService) MonthlyTrends() (core.TrendTable, error) {
	return core.MonthlyTrends(s.records)
}

// Describe summarizes the ledger amounts.
func (s *LedgerService) Describe() (core.Stats, error) {
	return core.Describe(s.records)
}

func (s *LedgerService) persist(ctx context.Context, op string) error {
	if err := s.store.Save(ctx, s.user, s.records); err != nil {
		return fmt.Errorf("persist ledger: %w", err)
	}
	if s.publisher == nil {
		return nil
	}
	if err := s.publisher.PublishLedgerChanged(ctx, s.user, op, len(s.records)); err != nil {
		// Event stream is best effort; the snapshot is already durable
		slog.ErrorContext(ctx, "Failed to publish ledger change",
			"user", s.user, "op", op, "error", err)
	}
	return nil
}
