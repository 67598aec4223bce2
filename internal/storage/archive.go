package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"finledger/internal/core"

	_ "modernc.org/sqlite"
)

// ArchiveRepository mirrors users' ledgers into SQLite. The worker
// rewrites one user's rows wholesale on every ledger change, matching
// the overwrite-on-save model of the primary document store. The
// archive is read-only for everything else: a queryable history
// snapshot, never a source of truth.
type ArchiveRepository struct {
	db *sql.DB
}

func NewArchiveRepository(dbPath string) (*ArchiveRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := runMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &ArchiveRepository{db: db}, nil
}

func (r *ArchiveRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// ReplaceLedger swaps the user's archived rows for the given snapshot
// in one transaction.
func (r *ArchiveRepository) ReplaceLedger(ctx context.Context, user string, records []core.Record) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM archive_records WHERE user = ?`, user); err != nil {
		return fmt.Errorf("clear archived ledger: %w", err)
	}

	const insert = `INSERT INTO archive_records
		(user, position, description, amount_cents, category, record_date)
		VALUES (?, ?, ?, ?, ?, ?)`
	for i, rec := range records {
		if _, err := tx.ExecContext(ctx, insert,
			user, i, rec.Description, rec.Amount.Cents, string(rec.Category), rec.Date.String()); err != nil {
			return fmt.Errorf("archive record %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	slog.InfoContext(ctx, "Ledger mirrored to archive", "user", user, "records", len(records))
	return nil
}

// LedgerRecords returns the archived snapshot of one user's ledger in
// insertion order.
func (r *ArchiveRepository) LedgerRecords(ctx context.Context, user string) ([]core.Record, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT description, amount_cents, category, record_date
		FROM archive_records WHERE user = ? ORDER BY position`, user)
	if err != nil {
		return nil, fmt.Errorf("query archived ledger: %w", err)
	}
	defer rows.Close()

	var records []core.Record
	for rows.Next() {
		var (
			rec     core.Record
			cat     string
			rawDate string
		)
		if err := rows.Scan(&rec.Description, &rec.Amount.Cents, &cat, &rawDate); err != nil {
			return nil, fmt.Errorf("scan archived record: %w", err)
		}
		rec.Category = core.Category(cat)
		date, err := core.ParseDate(rawDate)
		if err != nil {
			return nil, fmt.Errorf("archived record date: %w", err)
		}
		rec.Date = date
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate archived ledger: %w", err)
	}
	return records, nil
}

// RecordCount returns the number of archived rows for one user.
func (r *ArchiveRepository) RecordCount(ctx context.Context, user string) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM archive_records WHERE user = ?`, user).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count archived records: %w", err)
	}
	return count, nil
}
