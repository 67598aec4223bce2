package core

import (
	"errors"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	cases := []struct {
		in string
		ok bool
	}{
		{"2024-01-05", true},
		{"2024-12-31", true},
		{"2024-13-01", false},
		{"05-01-2024", false},
		{"not a date", false},
		{"", false},
	}
	for i, tc := range cases {
		d, err := ParseDate(tc.in)
		if tc.ok {
			if err != nil {
				t.Fatalf("case %d expected ok, got %v", i, err)
			}
			if d.String() != tc.in {
				t.Fatalf("case %d round-trip got %q", i, d.String())
			}
		} else {
			if err == nil {
				t.Fatalf("case %d expected error", i)
			}
			if !errors.Is(err, ErrBadDate) {
				t.Fatalf("case %d expected ErrBadDate, got %v", i, err)
			}
		}
	}
}

func TestMonthKey(t *testing.T) {
	if got := NewDate(2024, 2, 1).MonthKey(); got != "2024-02" {
		t.Fatalf("expected 2024-02, got %q", got)
	}
}

func TestNewRecordSignConvention(t *testing.T) {
	now := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

	rec, err := NewRecord("Salary", Money{Cents: 200000}, "1", now)
	if err != nil {
		t.Fatalf("income: %v", err)
	}
	if rec.Category != Income || rec.Amount.Cents != 200000 {
		t.Fatalf("income got %q %d", rec.Category, rec.Amount.Cents)
	}
	if rec.Date.String() != "2024-03-15" {
		t.Fatalf("expected creation date stamp, got %q", rec.Date)
	}

	rec, err = NewRecord("Rent", Money{Cents: 80000}, "2", now)
	if err != nil {
		t.Fatalf("expense: %v", err)
	}
	if rec.Category != Expense || rec.Amount.Cents != -80000 {
		t.Fatalf("expense got %q %d", rec.Category, rec.Amount.Cents)
	}
}

func TestNewRecordUnknownChoice(t *testing.T) {
	now := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	rec, err := NewRecord("Mystery", Money{Cents: 100}, "7", now)
	if !errors.Is(err, ErrUnknownCategory) {
		t.Fatalf("expected ErrUnknownCategory, got %v", err)
	}
	if rec.Category != Unknown {
		t.Fatalf("expected Unknown sentinel, got %q", rec.Category)
	}
}

func TestRecordValidate(t *testing.T) {
	good := Record{Description: "ok", Amount: Money{Cents: 100}, Category: Income, Date: NewDate(2024, 1, 1)}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []Record{
		{Description: "a", Amount: Money{Cents: -1}, Category: Income, Date: NewDate(2024, 1, 1)},
		{Description: "a", Amount: Money{Cents: 1}, Category: Expense, Date: NewDate(2024, 1, 1)},
		{Description: "a", Amount: Money{Cents: 1}, Category: Unknown, Date: NewDate(2024, 1, 1)},
		{Description: "a", Amount: Money{Cents: 1}, Category: Income, Date: Date{}},
	}
	for i, r := range bads {
		if err := r.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}
