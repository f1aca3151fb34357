package core

import (
	"errors"
	"strings"
	"time"
)

type (
	// Money is an amount in integer cents. Using cents keeps sums exact;
	// floats are only ever produced for display.
	Money struct {
		Cents int64
	}

	// Expense is the sole persisted entity. ID is assigned by the store on
	// insert and never set by callers. CreatedAt is set once at creation.
	Expense struct {
		ID               int64
		Title            string
		Amount           Money
		Category         Category
		Notes            string
		ReceiptImagePath string
		Date             time.Time
		CreatedAt        time.Time
	}
)

var (
	ErrInvalidAmount = errors.New("invalid amount")
	ErrEmptyTitle    = errors.New("empty title")
)

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// Validate checks the invariants that must hold for any persisted Expense:
// a non-blank title and a positive amount. Field-level form rules live in
// the validation package; this is the last-line guard used by the use cases.
func (e Expense) Validate() error {
	if strings.TrimSpace(e.Title) == "" {
		return ErrEmptyTitle
	}
	if err := e.Amount.Validate(); err != nil {
		return err
	}
	return nil
}
