package store

import (
	"context"
	"log/slog"
	"sync"

	"expensetracker/internal/core"
	"expensetracker/internal/log"
)

// FetchFunc re-evaluates one query shape and returns its full current result.
type FetchFunc func(ctx context.Context) ([]core.Expense, error)

// Subscription is a live query handle. Updates delivers the full current
// result set for the query: once on subscribe, then again after every
// mutation that may affect it. Subscribers never diff; each emission replaces
// the previous one. A pending emission that was never consumed is replaced by
// the newer snapshot rather than queued.
type Subscription struct {
	hub *Hub
	id  int64
	ch  chan []core.Expense
}

// Updates returns the emission channel. It is closed when the subscription
// is closed or its context is canceled.
func (s *Subscription) Updates() <-chan []core.Expense {
	return s.ch
}

// Close unregisters the subscription and releases its resources. Safe to
// call more than once.
func (s *Subscription) Close() {
	s.hub.remove(s.id)
}

// Hub is the observer registry behind live queries. A store implementation
// registers one subscriber per open subscription and calls Broadcast after
// every mutating operation.
type Hub struct {
	mu     sync.Mutex
	nextID int64
	subs   map[int64]*subscriber
}

type subscriber struct {
	sub   *Subscription
	fetch FetchFunc
}

func NewHub() *Hub {
	return &Hub{subs: make(map[int64]*subscriber)}
}

// Subscribe registers fetch as a live query and delivers the initial
// snapshot before returning. The subscription is torn down when ctx is
// canceled or Close is called, whichever comes first.
func (h *Hub) Subscribe(ctx context.Context, fetch FetchFunc) (*Subscription, error) {
	initial, err := fetch(ctx)
	if err != nil {
		return nil, err
	}

	h.mu.Lock()
	h.nextID++
	sub := &Subscription{hub: h, id: h.nextID, ch: make(chan []core.Expense, 1)}
	h.subs[sub.id] = &subscriber{sub: sub, fetch: fetch}
	sub.ch <- initial
	h.mu.Unlock()

	context.AfterFunc(ctx, sub.Close)
	return sub, nil
}

// Broadcast re-evaluates every registered query and re-delivers its full
// result set. A query whose re-evaluation fails keeps its last emission; the
// failure is logged and the subscription stays registered.
func (h *Hub) Broadcast(ctx context.Context) {
	h.mu.Lock()
	snapshot := make([]*subscriber, 0, len(h.subs))
	for _, s := range h.subs {
		snapshot = append(snapshot, s)
	}
	h.mu.Unlock()

	for _, s := range snapshot {
		result, err := s.fetch(ctx)
		if err != nil {
			slog.ErrorContext(ctx, "Live query refresh failed",
				log.FieldComponent, log.ComponentQuery,
				"subscription_id", s.sub.id,
				log.FieldError, err)
			continue
		}
		h.deliver(s.sub, result)
	}
}

func (h *Hub) deliver(sub *Subscription, result []core.Expense) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.subs[sub.id]; !ok {
		return
	}
	// Replace a stale pending emission with the newer snapshot.
	select {
	case <-sub.ch:
	default:
	}
	sub.ch <- result
}

func (h *Hub) remove(id int64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if s, ok := h.subs[id]; ok {
		delete(h.subs, id)
		close(s.sub.ch)
	}
}

// Len returns the number of open subscriptions.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}
