package services

import (
	"context"
	"errors"
	"testing"

	"finledger/internal/core"
	"finledger/internal/storage"
)

type recordedEvent struct {
	user  string
	op    string
	count int
}

type fakePublisher struct {
	events []recordedEvent
	fail   bool
}

func (p *fakePublisher) PublishLedgerChanged(_ context.Context, user, op string, count int) error {
	if p.fail {
		return errors.New("broker down")
	}
	p.events = append(p.events, recordedEvent{user: user, op: op, count: count})
	return nil
}

// failingStore loads normally but refuses every save.
type failingStore struct {
	*storage.MemoryStore
}

func (s failingStore) Save(context.Context, string, []core.Record) error {
	return storage.ErrWriteFailed
}

func newLoadedService(t *testing.T) (*LedgerService, *storage.MemoryStore) {
	t.Helper()
	store := storage.NewMemoryStore()
	svc := NewLedgerService("alice", store, nil)
	if err := svc.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	return svc, store
}

func incomeRecord(desc string, cents int64) core.Record {
	return core.Record{
		Description: desc,
		Amount:      core.Money{Cents: cents},
		Category:    core.Income,
		Date:        core.NewDate(2024, 1, 5),
	}
}

func TestMutationBeforeLoad(t *testing.T) {
	svc := NewLedgerService("alice", storage.NewMemoryStore(), nil)
	ctx := context.Background()

	if err := svc.Add(ctx, incomeRecord("Salary", 100)); !errors.Is(err, ErrNotInitialized) {
		t.Fatalf("add: expected ErrNotInitialized, got %v", err)
	}
	if err := svc.Update(ctx, 0, incomeRecord("Salary", 100)); !errors.Is(err, ErrNotInitialized) {
		t.Fatalf("update: expected ErrNotInitialized, got %v", err)
	}
	if err := svc.Delete(ctx, 0); !errors.Is(err, ErrNotInitialized) {
		t.Fatalf("delete: expected ErrNotInitialized, got %v", err)
	}
}

func TestAddPersists(t *testing.T) {
	svc, store := newLoadedService(t)
	ctx := context.Background()

	rec := incomeRecord("Salary", 200000)
	if err := svc.Add(ctx, rec); err != nil {
		t.Fatalf("add: %v", err)
	}

	got := svc.Records()
	if len(got) != 1 || got[0] != rec {
		t.Fatalf("in-memory ledger wrong: %+v", got)
	}
	persisted, err := store.Load(ctx, "alice")
	if err != nil {
		t.Fatalf("store load: %v", err)
	}
	if len(persisted) != 1 || persisted[0] != rec {
		t.Fatalf("persisted ledger wrong: %+v", persisted)
	}
}

func TestAddRejectsUnknownCategory(t *testing.T) {
	svc, store := newLoadedService(t)
	ctx := context.Background()

	rec, _ := core.NewRecord("Mystery", core.Money{Cents: 100}, "9", core.NewDate(2024, 1, 1).Time)
	if err := svc.Add(ctx, rec); err == nil {
		t.Fatal("expected error adding Unknown-category record")
	}
	if len(svc.Records()) != 0 {
		t.Fatal("in-memory ledger should be unchanged")
	}
	persisted, _ := store.Load(ctx, "alice")
	if len(persisted) != 0 {
		t.Fatal("store should be unchanged")
	}
}

func TestAddSurvivesPersistFailure(t *testing.T) {
	svc := NewLedgerService("alice", failingStore{storage.NewMemoryStore()}, nil)
	ctx := context.Background()
	if err := svc.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}

	err := svc.Add(ctx, incomeRecord("Salary", 100))
	if !errors.Is(err, storage.ErrWriteFailed) {
		t.Fatalf("expected surfaced write failure, got %v", err)
	}
	// The append stays in memory; the caller knows it is not durable
	if len(svc.Records()) != 1 {
		t.Fatalf("expected in-memory append to survive, got %d records", len(svc.Records()))
	}
}

func TestUpdateReplacesWholesale(t *testing.T) {
	svc, store := newLoadedService(t)
	ctx := context.Background()

	if err := svc.Add(ctx, incomeRecord("Salary", 100)); err != nil {
		t.Fatalf("add: %v", err)
	}
	repl := incomeRecord("Corrected salary", 250)
	if err := svc.Update(ctx, 0, repl); err != nil {
		t.Fatalf("update: %v", err)
	}
	persisted, _ := store.Load(ctx, "alice")
	if len(persisted) != 1 || persisted[0] != repl {
		t.Fatalf("persisted ledger wrong: %+v", persisted)
	}
}

func TestDeleteRemovesAndPersists(t *testing.T) {
	svc, store := newLoadedService(t)
	ctx := context.Background()

	first := incomeRecord("First", 100)
	second := incomeRecord("Second", 200)
	if err := svc.Add(ctx, first); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := svc.Add(ctx, second); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := svc.Delete(ctx, 0); err != nil {
		t.Fatalf("delete: %v", err)
	}
	got := svc.Records()
	if len(got) != 1 || got[0] != second {
		t.Fatalf("in-memory ledger wrong after delete: %+v", got)
	}
	persisted, _ := store.Load(ctx, "alice")
	if len(persisted) != 1 || persisted[0] != second {
		t.Fatalf("persisted ledger wrong after delete: %+v", persisted)
	}
}

func TestIndexBounds(t *testing.T) {
	svc, store := newLoadedService(t)
	ctx := context.Background()
	if err := svc.Add(ctx, incomeRecord("Only", 100)); err != nil {
		t.Fatalf("add: %v", err)
	}

	for _, index := range []int{-1, 1} {
		if err := svc.Update(ctx, index, incomeRecord("x", 1)); !errors.Is(err, ErrIndexOutOfRange) {
			t.Fatalf("update index %d: expected ErrIndexOutOfRange, got %v", index, err)
		}
		if err := svc.Delete(ctx, index); !errors.Is(err, ErrIndexOutOfRange) {
			t.Fatalf("delete index %d: expected ErrIndexOutOfRange, got %v", index, err)
		}
	}

	// No mutation, no persist
	got := svc.Records()
	if len(got) != 1 || got[0].Description != "Only" {
		t.Fatalf("ledger changed by failed mutation: %+v", got)
	}
	persisted, _ := store.Load(ctx, "alice")
	if len(persisted) != 1 {
		t.Fatalf("store changed by failed mutation: %+v", persisted)
	}
}

func TestPublishesChangeEvents(t *testing.T) {
	store := storage.NewMemoryStore()
	pub := &fakePublisher{}
	svc := NewLedgerService("alice", store, pub)
	ctx := context.Background()
	if err := svc.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}

	if err := svc.Add(ctx, incomeRecord("Salary", 100)); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := svc.Delete(ctx, 0); err != nil {
		t.Fatalf("delete: %v", err)
	}

	want := []recordedEvent{
		{user: "alice", op: "add", count: 1},
		{user: "alice", op: "delete", count: 0},
	}
	if len(pub.events) != len(want) {
		t.Fatalf("expected %d events, got %d", len(want), len(pub.events))
	}
	for i := range want {
		if pub.events[i] != want[i] {
			t.Fatalf("event %d: expected %+v, got %+v", i, want[i], pub.events[i])
		}
	}
}

func TestPublishFailureIsNotSurfaced(t *testing.T) {
	store := storage.NewMemoryStore()
	svc := NewLedgerService("alice", store, &fakePublisher{fail: true})
	ctx := context.Background()
	if err := svc.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := svc.Add(ctx, incomeRecord("Salary", 100)); err != nil {
		t.Fatalf("broker failure must not fail the mutation: %v", err)
	}
	persisted, _ := store.Load(ctx, "alice")
	if len(persisted) != 1 {
		t.Fatal("record should still be durable")
	}
}

func TestAggregationsOverSession(t *testing.T) {
	svc, _ := newLoadedService(t)
	ctx := context.Background()

	if _, err := svc.Totals(); !errors.Is(err, core.ErrNoRecords) {
		t.Fatalf("empty totals: expected ErrNoRecords, got %v", err)
	}

	if err := svc.Add(ctx, incomeRecord("Salary", 200000)); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := svc.Add(ctx, core.Record{
		Description: "Rent",
		Amount:      core.Money{Cents: -80000},
		Category:    core.Expense,
		Date:        core.NewDate(2024, 1, 10),
	}); err != nil {
		t.Fatalf("add: %v", err)
	}

	totals, err := svc.Totals()
	if err != nil {
		t.Fatalf("totals: %v", err)
	}
	if totals.Balance.Cents != 120000 {
		t.Fatalf("balance expected 120000, got %d", totals.Balance.Cents)
	}
	dist, err := svc.Distribution()
	if err != nil {
		t.Fatalf("distribution: %v", err)
	}
	if len(dist) != 2 || dist[0].Name != "Expense" || dist[1].Name != "Income" {
		t.Fatalf("distribution order wrong: %+v", dist)
	}
}
