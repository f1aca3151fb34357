// Package memory provides an in-memory ExpenseStore. It backs the "memory"
// data backend and serves as the collaborator double in tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"expensetracker/internal/core"
	"expensetracker/internal/store"
)

type Store struct {
	mu     sync.Mutex
	nextID int64
	items  map[int64]core.Expense
	hub    *store.Hub
	loc    *time.Location
}

var _ store.ExpenseStore = (*Store)(nil)

func New() *Store {
	return NewInLocation(time.Local)
}

// NewInLocation creates a store that groups daily summaries in loc. Tests
// use this to pin the calendar-day boundary.
func NewInLocation(loc *time.Location) *Store {
	return &Store{
		items: make(map[int64]core.Expense),
		hub:   store.NewHub(),
		loc:   loc,
	}
}

func (s *Store) Insert(ctx context.Context, e core.Expense) (int64, error) {
	s.mu.Lock()
	s.nextID++
	e.ID = s.nextID
	s.items[e.ID] = e
	s.mu.Unlock()

	s.hub.Broadcast(ctx)
	return e.ID, nil
}

func (s *Store) Update(ctx context.Context, e core.Expense) error {
	s.mu.Lock()
	if _, ok := s.items[e.ID]; !ok {
		s.mu.Unlock()
		return store.ErrNotFound
	}
	s.items[e.ID] = e
	s.mu.Unlock()

	s.hub.Broadcast(ctx)
	return nil
}

func (s *Store) Delete(ctx context.Context, e core.Expense) error {
	s.mu.Lock()
	if _, ok := s.items[e.ID]; !ok {
		s.mu.Unlock()
		return store.ErrNotFound
	}
	delete(s.items, e.ID)
	s.mu.Unlock()

	s.hub.Broadcast(ctx)
	return nil
}

func (s *Store) DeleteAll(ctx context.Context) error {
	s.mu.Lock()
	s.items = make(map[int64]core.Expense)
	s.mu.Unlock()

	s.hub.Broadcast(ctx)
	return nil
}

func (s *Store) QueryAll(ctx context.Context) (*store.Subscription, error) {
	return s.hub.Subscribe(ctx, func(context.Context) ([]core.Expense, error) {
		return s.collect(func(core.Expense) bool { return true }), nil
	})
}

func (s *Store) QueryToday(ctx context.Context, start, end time.Time) (*store.Subscription, error) {
	return s.hub.Subscribe(ctx, func(context.Context) ([]core.Expense, error) {
		return s.collect(func(e core.Expense) bool {
			return !e.Date.Before(start) && e.Date.Before(end)
		}), nil
	})
}

func (s *Store) QueryByCategory(ctx context.Context, c core.Category) (*store.Subscription, error) {
	return s.hub.Subscribe(ctx, func(context.Context) ([]core.Expense, error) {
		return s.collect(func(e core.Expense) bool { return e.Category == c }), nil
	})
}

func (s *Store) QueryByDateRange(ctx context.Context, start, end time.Time) (*store.Subscription, error) {
	return s.hub.Subscribe(ctx, func(context.Context) ([]core.Expense, error) {
		return s.collect(func(e core.Expense) bool {
			return !e.Date.Before(start) && !e.Date.After(end)
		}), nil
	})
}

func (s *Store) TodayTotal(_ context.Context, start, end time.Time) (core.Money, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var total core.Money
	for _, e := range s.items {
		if !e.Date.Before(start) && e.Date.Before(end) {
			total.Cents += e.Amount.Cents
		}
	}
	return total, nil
}

func (s *Store) DailySummary(_ context.Context, start, end time.Time) ([]core.DailyExpenseSummary, error) {
	s.mu.Lock()
	byDay := make(map[string]*core.DailyExpenseSummary)
	for _, e := range s.items {
		if e.Date.Before(start) || e.Date.After(end) {
			continue
		}
		day := e.Date.In(s.loc).Format("2006-01-02")
		sum, ok := byDay[day]
		if !ok {
			sum = &core.DailyExpenseSummary{Date: day}
			byDay[day] = sum
		}
		sum.TotalAmount.Cents += e.Amount.Cents
		sum.ExpenseCount++
	}
	s.mu.Unlock()

	out := make([]core.DailyExpenseSummary, 0, len(byDay))
	for _, sum := range byDay {
		out = append(out, *sum)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	return out, nil
}

func (s *Store) Close() error {
	return nil
}

// collect returns matching expenses ordered by date descending, id breaking
// ties so emissions are deterministic.
func (s *Store) collect(match func(core.Expense) bool) []core.Expense {
	s.mu.Lock()
	out := make([]core.Expense, 0, len(s.items))
	for _, e := range s.items {
		if match(e) {
			out = append(out, e)
		}
	}
	s.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].ID > out[j].ID
	})
	return out
}
