package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"finledger/internal/core"
)

const documentVersion = 1

// recordDoc is the wire encoding of one record. All four fields are
// required; pointers distinguish an absent field from a zero value.
// Unknown extra fields are tolerated on read.
type recordDoc struct {
	Description *string  `json:"description"`
	Amount      *float64 `json:"amount"`
	Category    *string  `json:"category"`
	Date        *string  `json:"date"`
}

// document is the versioned on-disk container: one root mapping from
// user identifier to that user's ordered record list.
type document struct {
	Version int                    `json:"version"`
	Ledgers map[string][]recordDoc `json:"ledgers"`
}

// JSONStore persists all users' ledgers in a single JSON file.
type JSONStore struct {
	path string
}

func NewJSONStore(path string) (*JSONStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create store directory: %w", err)
	}
	return &JSONStore{path: path}, nil
}

func (s *JSONStore) Load(ctx context.Context, user string) ([]core.Record, error) {
	doc, err := s.read()
	if err != nil {
		return nil, err
	}
	encoded, ok := doc.Ledgers[user]
	if !ok {
		// No history yet is a normal state
		return []core.Record{}, nil
	}
	records := make([]core.Record, len(encoded))
	for i, rd := range encoded {
		rec, err := decodeRecord(rd)
		if err != nil {
			return nil, fmt.Errorf("user %q record %d: %w", user, i, err)
		}
		records[i] = rec
	}
	slog.DebugContext(ctx, "Ledger loaded", "user", user, "records", len(records))
	return records, nil
}

func (s *JSONStore) Save(ctx context.Context, user string, records []core.Record) error {
	doc, err := s.read()
	if err != nil {
		return err
	}

	encoded := make([]recordDoc, len(records))
	for i, rec := range records {
		encoded[i] = encodeRecord(rec)
	}
	doc.Ledgers[user] = encoded

	if err := s.write(doc); err != nil {
		return err
	}
	slog.InfoContext(ctx, "Ledger saved", "user", user, "records", len(records))
	return nil
}

// read loads the whole document, treating absence as an empty
// document and anything unreadable as corruption.
func (s *JSONStore) read() (document, error) {
	doc := document{Version: documentVersion, Ledgers: map[string][]recordDoc{}}

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return doc, nil
	}
	if err != nil {
		return doc, fmt.Errorf("read ledger document: %w", err)
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return doc, fmt.Errorf("%w: %v", ErrCorruptDocument, err)
	}
	if doc.Version != documentVersion {
		return doc, fmt.Errorf("%w: unsupported version %d", ErrCorruptDocument, doc.Version)
	}
	if doc.Ledgers == nil {
		doc.Ledgers = map[string][]recordDoc{}
	}
	return doc, nil
}

// write rewrites the whole document through a temp file + rename so a
// crash mid-write never leaves a truncated document behind.
func (s *JSONStore) write(doc document) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("%w: encode: %v", ErrWriteFailed, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".ledger-*.tmp")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}
	return nil
}

func encodeRecord(rec core.Record) recordDoc {
	desc := rec.Description
	amount := rec.Amount.Float()
	category := string(rec.Category)
	date := rec.Date.String()
	return recordDoc{
		Description: &desc,
		Amount:      &amount,
		Category:    &category,
		Date:        &date,
	}
}

func decodeRecord(rd recordDoc) (core.Record, error) {
	switch {
	case rd.Description == nil:
		return core.Record{}, fmt.Errorf("%w: missing description", ErrMalformedRecord)
	case rd.Amount == nil:
		return core.Record{}, fmt.Errorf("%w: missing amount", ErrMalformedRecord)
	case rd.Category == nil:
		return core.Record{}, fmt.Errorf("%w: missing category", ErrMalformedRecord)
	case rd.Date == nil:
		return core.Record{}, fmt.Errorf("%w: missing date", ErrMalformedRecord)
	}
	date, err := core.ParseDate(*rd.Date)
	if err != nil {
		return core.Record{}, fmt.Errorf("%w: %v", ErrMalformedRecord, err)
	}
	return core.Record{
		Description: *rd.Description,
		Amount:      core.FromFloat(*rd.Amount),
		Category:    core.Category(*rd.Category),
		Date:        date,
	}, nil
}
