package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"finledger/internal/core"
)

func newTestStore(t *testing.T) *JSONStore {
	t.Helper()
	store, err := NewJSONStore(filepath.Join(t.TempDir(), "finances.json"))
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return store
}

func testRecords() []core.Record {
	return []core.Record{
		{Description: "Salary", Amount: core.Money{Cents: 200000}, Category: core.Income, Date: core.NewDate(2024, 1, 5)},
		{Description: "Rent", Amount: core.Money{Cents: -80000}, Category: core.Expense, Date: core.NewDate(2024, 1, 10)},
		{Description: "Food", Amount: core.Money{Cents: -15000}, Category: core.Expense, Date: core.NewDate(2024, 2, 1)},
	}
}

func TestLoadAbsentDocument(t *testing.T) {
	store := newTestStore(t)
	records, err := store.Load(context.Background(), "alice")
	if err != nil {
		t.Fatalf("absent document should not error: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("expected empty ledger, got %d records", len(records))
	}
}

func TestLoadAbsentUser(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	if err := store.Save(ctx, "alice", testRecords()); err != nil {
		t.Fatalf("save: %v", err)
	}
	records, err := store.Load(ctx, "bob")
	if err != nil {
		t.Fatalf("absent user should not error: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("expected empty ledger, got %d records", len(records))
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	want := testRecords()

	if err := store.Save(ctx, "alice", want); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := store.Load(ctx, "alice")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d records, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("record %d: expected %+v, got %+v", i, want[i], got[i])
		}
	}
}

func TestPerUserIsolation(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	aliceLedger := testRecords()
	bobLedger := []core.Record{
		{Description: "Bonus", Amount: core.Money{Cents: 50000}, Category: core.Income, Date: core.NewDate(2024, 3, 1)},
	}

	// Interleave saves for the two users
	if err := store.Save(ctx, "alice", aliceLedger[:1]); err != nil {
		t.Fatalf("save alice: %v", err)
	}
	if err := store.Save(ctx, "bob", bobLedger); err != nil {
		t.Fatalf("save bob: %v", err)
	}
	if err := store.Save(ctx, "alice", aliceLedger); err != nil {
		t.Fatalf("save alice again: %v", err)
	}

	gotBob, err := store.Load(ctx, "bob")
	if err != nil {
		t.Fatalf("load bob: %v", err)
	}
	if len(gotBob) != 1 || gotBob[0] != bobLedger[0] {
		t.Fatalf("bob's ledger disturbed: %+v", gotBob)
	}
	gotAlice, err := store.Load(ctx, "alice")
	if err != nil {
		t.Fatalf("load alice: %v", err)
	}
	if len(gotAlice) != len(aliceLedger) {
		t.Fatalf("alice's ledger wrong length: %d", len(gotAlice))
	}
}

func TestLoadCorruptDocument(t *testing.T) {
	store := newTestStore(t)
	if err := os.WriteFile(store.path, []byte("{not json"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	_, err := store.Load(context.Background(), "alice")
	if !errors.Is(err, ErrCorruptDocument) {
		t.Fatalf("expected ErrCorruptDocument, got %v", err)
	}
}

func TestLoadUnsupportedVersion(t *testing.T) {
	store := newTestStore(t)
	if err := os.WriteFile(store.path, []byte(`{"version":99,"ledgers":{}}`), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	_, err := store.Load(context.Background(), "alice")
	if !errors.Is(err, ErrCorruptDocument) {
		t.Fatalf("expected ErrCorruptDocument, got %v", err)
	}
}

func TestSaveOntoCorruptDocumentFails(t *testing.T) {
	store := newTestStore(t)
	if err := os.WriteFile(store.path, []byte("{not json"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	err := store.Save(context.Background(), "alice", testRecords())
	if !errors.Is(err, ErrCorruptDocument) {
		t.Fatalf("expected ErrCorruptDocument, got %v", err)
	}
}

func TestLoadMalformedRecord(t *testing.T) {
	cases := []struct {
		name string
		doc  string
	}{
		{"missing description", `{"version":1,"ledgers":{"alice":[{"amount":1,"category":"Income","date":"2024-01-01"}]}}`},
		{"missing amount", `{"version":1,"ledgers":{"alice":[{"description":"a","category":"Income","date":"2024-01-01"}]}}`},
		{"missing category", `{"version":1,"ledgers":{"alice":[{"description":"a","amount":1,"date":"2024-01-01"}]}}`},
		{"missing date", `{"version":1,"ledgers":{"alice":[{"description":"a","amount":1,"category":"Income"}]}}`},
		{"bad date", `{"version":1,"ledgers":{"alice":[{"description":"a","amount":1,"category":"Income","date":"01/01/2024"}]}}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := newTestStore(t)
			if err := os.WriteFile(store.path, []byte(tc.doc), 0644); err != nil {
				t.Fatalf("write: %v", err)
			}
			_, err := store.Load(context.Background(), "alice")
			if !errors.Is(err, ErrMalformedRecord) {
				t.Fatalf("expected ErrMalformedRecord, got %v", err)
			}
		})
	}
}

func TestLoadToleratesExtraFields(t *testing.T) {
	store := newTestStore(t)
	doc := `{"version":1,"ledgers":{"alice":[{"description":"a","amount":1.5,"category":"Income","date":"2024-01-01","note":"future field"}]},"future":true}`
	if err := os.WriteFile(store.path, []byte(doc), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	records, err := store.Load(context.Background(), "alice")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(records) != 1 || records[0].Amount.Cents != 150 {
		t.Fatalf("got %+v", records)
	}
}
