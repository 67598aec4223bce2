// Package storage persists per-user ledgers.
//
// The primary store is a single JSON document holding every user's
// ledger under one root mapping. Saves are whole-document
// read-modify-write: one user's key is replaced, everything else is
// rewritten untouched. There is no cross-process locking; two
// processes writing different users can lose one another's update.
// That weak consistency level is an accepted property of the
// single-session usage model, not something this package tries to fix.
package storage

import (
	"context"
	"errors"

	"finledger/internal/core"
)

var (
	// ErrCorruptDocument means the persisted document exists but is not
	// valid structured data. Distinct from absence, which is a normal
	// empty-history state.
	ErrCorruptDocument = errors.New("corrupt ledger document")

	// ErrWriteFailed wraps I/O failures on save. Until a save returns
	// nil the caller must treat the ledger as not durably persisted.
	ErrWriteFailed = errors.New("ledger document write failed")

	// ErrMalformedRecord means a decoded record is missing one of its
	// required fields.
	ErrMalformedRecord = errors.New("malformed record")
)

// Store is the per-user persistence capability handed to the ledger
// service. Implementations: JSONStore (file document), MemoryStore
// (tests and ephemeral sessions).
type Store interface {
	// Load returns the user's ledger in insertion order. A missing
	// document or a missing user key yields an empty slice, not an
	// error.
	Load(ctx context.Context, user string) ([]core.Record, error)

	// Save replaces the user's ledger in the document, leaving every
	// other user's entries untouched.
	Save(ctx context.Context, user string, records []core.Record) error
}
