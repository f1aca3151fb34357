package store

import (
	"context"
	"errors"
	"testing"

	"expensetracker/internal/core"
)

func TestHubInitialSnapshot(t *testing.T) {
	hub := NewHub()
	data := []core.Expense{{ID: 1, Title: "coffee"}}

	sub, err := hub.Subscribe(context.Background(), func(context.Context) ([]core.Expense, error) {
		return data, nil
	})
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	defer sub.Close()

	select {
	case got := <-sub.Updates():
		if len(got) != 1 || got[0].ID != 1 {
			t.Fatalf("unexpected initial snapshot: %+v", got)
		}
	default:
		t.Fatal("no initial snapshot delivered")
	}
}

func TestHubSubscribeFailsWhenFetchFails(t *testing.T) {
	hub := NewHub()
	wantErr := errors.New("storage down")

	_, err := hub.Subscribe(context.Background(), func(context.Context) ([]core.Expense, error) {
		return nil, wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("got %v, want %v", err, wantErr)
	}
	if hub.Len() != 0 {
		t.Fatalf("failed subscribe left %d registrations", hub.Len())
	}
}

func TestHubBroadcastReplacesStaleEmission(t *testing.T) {
	hub := NewHub()
	data := []core.Expense{}

	sub, err := hub.Subscribe(context.Background(), func(context.Context) ([]core.Expense, error) {
		out := make([]core.Expense, len(data))
		copy(out, data)
		return out, nil
	})
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	defer sub.Close()

	// Two broadcasts without a consumer: only the latest snapshot survives.
	data = append(data, core.Expense{ID: 1})
	hub.Broadcast(context.Background())
	data = append(data, core.Expense{ID: 2})
	hub.Broadcast(context.Background())

	got := <-sub.Updates()
	if len(got) != 2 {
		t.Fatalf("expected latest snapshot with 2 rows, got %d", len(got))
	}
}

func TestSubscriptionCloseIsIdempotentAndUnregisters(t *testing.T) {
	hub := NewHub()
	sub, err := hub.Subscribe(context.Background(), func(context.Context) ([]core.Expense, error) {
		return nil, nil
	})
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	sub.Close()
	sub.Close()

	if hub.Len() != 0 {
		t.Fatalf("subscription still registered after close")
	}

	// Channel is closed: drain the initial emission, then expect closed state.
	for range sub.Updates() {
	}

	// Broadcast after close must not panic or deliver.
	hub.Broadcast(context.Background())
}

func TestSubscriptionContextCancelReleases(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())

	sub, err := hub.Subscribe(ctx, func(context.Context) ([]core.Expense, error) {
		return nil, nil
	})
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	cancel()

	// The channel closes once the cancellation propagates.
	for range sub.Updates() {
	}
	if hub.Len() != 0 {
		t.Fatalf("subscription still registered after context cancel")
	}
}
