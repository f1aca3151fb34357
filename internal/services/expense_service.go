// Package services holds the application use cases: thin orchestrators that
// apply the minimal write guards and delegate to the store and query engine.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"expensetracker/internal/amqp"
	"expensetracker/internal/core"
	"expensetracker/internal/log"
	"expensetracker/internal/query"
	"expensetracker/internal/store"
)

var (
	ErrTitleRequired   = errors.New("title cannot be empty")
	ErrAmountInvalid   = errors.New("amount must be greater than 0")
	ErrCategoryInvalid = errors.New("category is not recognized")
)

// ExpenseService orchestrates expense writes and the today-total read.
// The events client is optional; when present, every successful mutation
// publishes a change event for external consumers.
type ExpenseService struct {
	store  store.ExpenseStore
	engine *query.Engine
	events *amqp.Client
	now    func() time.Time
}

func NewExpenseService(s store.ExpenseStore, engine *query.Engine, events *amqp.Client) *ExpenseService {
	return &ExpenseService{
		store:  s,
		engine: engine,
		events: events,
		now:    time.Now,
	}
}

// AddExpenseInput carries the caller-supplied fields for a new expense.
// A zero Date means "now".
type AddExpenseInput struct {
	Title            string
	Amount           core.Money
	Category         core.Category
	Notes            string
	ReceiptImagePath string
	Date             time.Time
}

// AddExpense trims title and notes, applies the minimal write guards, and
// delegates to the store. The guards here are deliberately narrower than the
// form validation: callers are not required to run the full field rules
// before invoking the use case, so blank titles, non-positive amounts and
// unknown categories are rejected again without touching the store.
func (s *ExpenseService) AddExpense(ctx context.Context, in AddExpenseInput) (int64, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return 0, ErrTitleRequired
	}
	if in.Amount.Cents <= 0 {
		return 0, ErrAmountInvalid
	}
	if !in.Category.Valid() {
		return 0, ErrCategoryInvalid
	}

	now := s.now()
	date := in.Date
	if date.IsZero() {
		date = now
	}

	expense := core.Expense{
		Title:            title,
		Amount:           in.Amount,
		Category:         in.Category,
		Notes:            strings.TrimSpace(in.Notes),
		ReceiptImagePath: in.ReceiptImagePath,
		Date:             date,
		CreatedAt:        now,
	}

	id, err := s.store.Insert(ctx, expense)
	if err != nil {
		return 0, fmt.Errorf("save expense: %w", err)
	}

	s.publishEvent(ctx, amqp.ActionCreated, id)
	return id, nil
}

// DeleteExpense removes the expense matching e.ID. Deletion is permanent and
// immediate; store.ErrNotFound surfaces when the row has already vanished.
func (s *ExpenseService) DeleteExpense(ctx context.Context, e core.Expense) error {
	if err := s.store.Delete(ctx, e); err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}

	s.publishEvent(ctx, amqp.ActionDeleted, e.ID)
	return nil
}

// UpdateExpense replaces the stored row matching e.ID.
func (s *ExpenseService) UpdateExpense(ctx context.Context, e core.Expense) error {
	if err := e.Validate(); err != nil {
		return err
	}
	if err := s.store.Update(ctx, e); err != nil {
		return fmt.Errorf("update expense: %w", err)
	}

	s.publishEvent(ctx, amqp.ActionUpdated, e.ID)
	return nil
}

// TodayTotal delegates to the query engine. Storage failures propagate; the
// caller decides whether to surface or ignore them.
func (s *ExpenseService) TodayTotal(ctx context.Context) (core.Money, error) {
	return s.engine.TodayTotal(ctx)
}

// publishEvent mirrors a mutation to the event broker. Failures are logged,
// never fatal: the local write already succeeded.
func (s *ExpenseService) publishEvent(ctx context.Context, action string, id int64) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishExpenseEvent(ctx, action, id); err != nil {
		slog.ErrorContext(ctx, "Failed to publish expense event",
			log.FieldComponent, log.ComponentExpense,
			log.FieldExpenseID, id,
			"action", action,
			log.FieldError, err)
	}
}

// Close releases the store and the event client.
func (s *ExpenseService) Close() error {
	var errs []error

	if s.store != nil {
		if err := s.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("store: %w", err))
		}
	}
	if s.events != nil {
		if err := s.events.Close(); err != nil {
			errs = append(errs, fmt.Errorf("events: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close expense service: %v", errs)
	}
	return nil
}
