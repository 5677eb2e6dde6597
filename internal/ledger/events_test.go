package ledger

import (
	"context"
	"testing"

	"github.com/dappfi/marketd/internal/model"
)

func TestEventFeed(t *testing.T) {
	database, operator := newTestLedger(t, 1000)
	ctx := context.Background()

	if err := InitializeCatalog(ctx, database, operator.ID, []int64{100, 200}, 3); err != nil {
		t.Fatalf("InitializeCatalog: %v", err)
	}
	alice := newTrader(t, database, "alice", 500)

	if _, err := Buy(ctx, database, 0, alice.ID, 100); err != nil {
		t.Fatalf("Buy: %v", err)
	}
	if _, err := Resell(ctx, database, 0, alice.ID, 150); err != nil {
		t.Fatalf("Resell: %v", err)
	}

	// Failed operations leave no trace in the feed.
	if _, err := Buy(ctx, database, 1, alice.ID, 999); err == nil {
		t.Fatal("expected wrong-price purchase to fail")
	}

	events, err := ListEvents(ctx, database, -1)
	if err != nil {
		t.Fatalf("ListEvents: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}

	// Newest first.
	if events[0].Type != model.EventRelisted || events[1].Type != model.EventBought {
		t.Errorf("unexpected event order: %q, %q", events[0].Type, events[1].Type)
	}
	for _, e := range events {
		if e.Ref == "" {
			t.Error("expected every event to carry a ref")
		}
		if e.SellerName == "" {
			t.Error("expected seller name populated")
		}
	}

	// Filter by token.
	filtered, err := ListEvents(ctx, database, 0)
	if err != nil {
		t.Fatalf("ListEvents(0): %v", err)
	}
	if len(filtered) != 2 {
		t.Errorf("expected 2 events for token 0, got %d", len(filtered))
	}
	filtered, err = ListEvents(ctx, database, 1)
	if err != nil {
		t.Fatalf("ListEvents(1): %v", err)
	}
	if len(filtered) != 0 {
		t.Errorf("expected no events for token 1, got %d", len(filtered))
	}
}

func TestGetEventByRef(t *testing.T) {
	database, operator := newTestLedger(t, 1000)
	ctx := context.Background()

	if err := InitializeCatalog(ctx, database, operator.ID, []int64{100}, 1); err != nil {
		t.Fatalf("InitializeCatalog: %v", err)
	}
	alice := newTrader(t, database, "alice", 500)

	event, err := Buy(ctx, database, 0, alice.ID, 100)
	if err != nil {
		t.Fatalf("Buy: %v", err)
	}

	got, err := GetEventByRef(ctx, database, event.Ref)
	if err != nil {
		t.Fatalf("GetEventByRef: %v", err)
	}
	if got == nil || got.ID != event.ID {
		t.Errorf("expected event %d, got %+v", event.ID, got)
	}

	missing, err := GetEventByRef(ctx, database, "no-such-ref")
	if err != nil {
		t.Fatalf("GetEventByRef(missing): %v", err)
	}
	if missing != nil {
		t.Errorf("expected nil for unknown ref, got %+v", missing)
	}
}
