// Package query derives read-only views from the expense store: the running
// today-total and the per-day spend summaries. The engine holds no state of
// its own; repeated calls with unchanged data return identical results.
package query

import (
	"context"
	"fmt"
	"time"

	"expensetracker/internal/core"
	"expensetracker/internal/store"
)

// Engine computes derived views without mutating state.
type Engine struct {
	store store.ExpenseStore
	now   func() time.Time
	loc   *time.Location
}

func NewEngine(s store.ExpenseStore) *Engine {
	return &Engine{store: s, now: time.Now, loc: time.Local}
}

// NewEngineWithClock pins the clock and calendar location, for tests.
func NewEngineWithClock(s store.ExpenseStore, now func() time.Time, loc *time.Location) *Engine {
	return &Engine{store: s, now: now, loc: loc}
}

// DayWindow returns the local calendar-day boundaries around t:
// 00:00:00.000 and 23:59:59.999. Queries over the window are half-open on
// the end boundary.
func DayWindow(t time.Time) (start, end time.Time) {
	year, month, day := t.Date()
	start = time.Date(year, month, day, 0, 0, 0, 0, t.Location())
	end = time.Date(year, month, day, 23, 59, 59, 999_000_000, t.Location())
	return start, end
}

// TodayTotal sums the amounts of all expenses dated within the current local
// calendar day. It returns zero when no rows match; storage failures
// propagate to the caller.
func (e *Engine) TodayTotal(ctx context.Context) (core.Money, error) {
	start, end := DayWindow(e.now().In(e.loc))
	total, err := e.store.TodayTotal(ctx, start, end)
	if err != nil {
		return core.Money{}, fmt.Errorf("today total: %w", err)
	}
	return total, nil
}

// TodayExpenses subscribes to the live list of expenses dated today.
func (e *Engine) TodayExpenses(ctx context.Context) (*store.Subscription, error) {
	start, end := DayWindow(e.now().In(e.loc))
	return e.store.QueryToday(ctx, start, end)
}

// DailySummary groups the expenses dated within [start, end] (inclusive) by
// local calendar day, most recent day first. Days without expenses are
// absent from the result.
func (e *Engine) DailySummary(ctx context.Context, start, end time.Time) ([]core.DailyExpenseSummary, error) {
	summaries, err := e.store.DailySummary(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("daily summary: %w", err)
	}
	return summaries, nil
}
