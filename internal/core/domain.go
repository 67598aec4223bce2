package core

import (
	"errors"
	"fmt"
	"time"
)

const (
	Income  Category = "Income"
	Expense Category = "Expense"
	// Unknown marks a record built from an invalid category choice.
	// Such a record must never reach storage.
	Unknown Category = "Unknown"
)

// DateLayout is the wire format for record dates.
const DateLayout = "2006-01-02"

type (
	Category string

	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	// Record is one ledger entry. Income amounts are non-negative,
	// expense amounts non-positive; the sign is fixed at construction
	// and never re-derived from the category afterwards.
	Record struct {
		Description string
		Amount      Money
		Category    Category
		Date        Date
	}
)

var (
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrUnknownCategory = errors.New("unknown category")
	ErrBadDate         = errors.New("unparseable date")
	ErrSignMismatch    = errors.New("amount sign does not match category")
)

// ParseDate parses a YYYY-MM-DD wire date.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrBadDate, s)
	}
	return Date{Time: t}, nil
}

// NewDate creates a Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

func (d Date) String() string {
	return d.Format(DateLayout)
}

// MonthKey returns the YYYY-MM truncation used by the trend pivot.
func (d Date) MonthKey() string {
	return d.Format("2006-01")
}

// CategoryFromChoice maps the menu choice to a category. Any choice
// other than "1" or "2" yields Unknown.
func CategoryFromChoice(choice string) Category {
	switch choice {
	case "1":
		return Income
	case "2":
		return Expense
	default:
		return Unknown
	}
}

// NewRecord builds a record from raw user input, stamping the current
// date and forcing the amount sign from the category: income amounts
// are made non-negative, expense amounts non-positive. An invalid
// category choice returns the partially built record together with
// ErrUnknownCategory; callers must discard it.
func NewRecord(description string, amount Money, choice string, now time.Time) (Record, error) {
	rec := Record{
		Description: description,
		Category:    CategoryFromChoice(choice),
		Date:        Date{Time: now},
	}
	switch rec.Category {
	case Income:
		rec.Amount = amount.Abs()
	case Expense:
		rec.Amount = amount.Abs().Neg()
	default:
		return rec, fmt.Errorf("%w: choice %q", ErrUnknownCategory, choice)
	}
	return rec, nil
}

// Validate checks the sign convention of a fully built record.
func (r Record) Validate() error {
	switch r.Category {
	case Income:
		if r.Amount.Cents < 0 {
			return fmt.Errorf("%w: income %d cents", ErrSignMismatch, r.Amount.Cents)
		}
	case Expense:
		if r.Amount.Cents > 0 {
			return fmt.Errorf("%w: expense %d cents", ErrSignMismatch, r.Amount.Cents)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownCategory, r.Category)
	}
	if r.Date.IsZero() {
		return errors.New("date cannot be zero")
	}
	return nil
}
