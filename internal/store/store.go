// Package store defines the expense record store contract: durable keyed
// storage with insert/update/delete, live query subscriptions, and one-shot
// aggregates. Implementations live in storage (SQLite) and store/memory.
package store

import (
	"context"
	"errors"
	"time"

	"expensetracker/internal/core"
)

// ErrNotFound is returned by Update and Delete when the row has vanished.
// Absence is an error condition the caller may choose to ignore.
var ErrNotFound = errors.New("expense not found")

// ExpenseStore is the port the query engine and use cases depend on.
//
// Range conventions differ by operation and must be preserved: QueryToday and
// TodayTotal use a half-open window [start, end), while QueryByDateRange and
// DailySummary are inclusive on both ends [start, end]. All list results are
// ordered by date descending.
type ExpenseStore interface {
	// Insert assigns and returns a new unique id for the expense.
	Insert(ctx context.Context, e core.Expense) (int64, error)

	// Update replaces the row matching e.ID. Returns ErrNotFound if absent.
	Update(ctx context.Context, e core.Expense) error

	// Delete removes the row matching e.ID. Returns ErrNotFound if absent.
	Delete(ctx context.Context, e core.Expense) error

	// DeleteAll removes every expense row.
	DeleteAll(ctx context.Context) error

	// QueryAll subscribes to the full expense list.
	QueryAll(ctx context.Context) (*Subscription, error)

	// QueryToday subscribes to expenses with date in [start, end).
	QueryToday(ctx context.Context, start, end time.Time) (*Subscription, error)

	// QueryByCategory subscribes to expenses with the given category.
	QueryByCategory(ctx context.Context, c core.Category) (*Subscription, error)

	// QueryByDateRange subscribes to expenses with date in [start, end].
	QueryByDateRange(ctx context.Context, start, end time.Time) (*Subscription, error)

	// TodayTotal sums amounts with date in [start, end). Zero when no rows match.
	TodayTotal(ctx context.Context, start, end time.Time) (core.Money, error)

	// DailySummary groups expenses with date in [start, end] by local calendar
	// day, most recent day first, one entry per day that has at least one row.
	DailySummary(ctx context.Context, start, end time.Time) ([]core.DailyExpenseSummary, error)

	Close() error
}
