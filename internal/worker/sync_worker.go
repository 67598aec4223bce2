// Package worker mirrors ledger snapshots into the SQLite archive in
// response to ledger-change events.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"finledger/internal/amqp"
	"finledger/internal/core"
	"finledger/internal/storage"
)

// Archiver receives whole-ledger snapshots.
type Archiver interface {
	ReplaceLedger(ctx context.Context, user string, records []core.Record) error
}

// SyncWorker re-reads a user's ledger from the record store on every
// change event and rewrites that user's archive rows. Messages carry
// no record data, so replaying an old message is harmless: the mirror
// always converges on the current snapshot.
type SyncWorker struct {
	store   storage.Store
	archive Archiver
}

func NewSyncWorker(store storage.Store, archive Archiver) *SyncWorker {
	return &SyncWorker{
		store:   store,
		archive: archive,
	}
}

// HandleLedgerChanged processes a single ledger-change message.
func (w *SyncWorker) HandleLedgerChanged(ctx context.Context, msg *amqp.LedgerChangedMessage) error {
	slog.InfoContext(ctx, "Processing ledger change",
		"user", msg.User,
		"op", msg.Op,
		"count", msg.Count)

	records, err := w.store.Load(ctx, msg.User)
	if err != nil {
		return fmt.Errorf("load ledger for archive: %w", err)
	}

	if err := w.archive.ReplaceLedger(ctx, msg.User, records); err != nil {
		return fmt.Errorf("replace archived ledger: %w", err)
	}

	return nil
}
