package ledger

import (
	"context"
	"errors"
	"testing"

	"github.com/dappfi/marketd/internal/model"
)

func TestBuyToken(t *testing.T) {
	database, operator := newTestLedger(t, 1000)
	ctx := context.Background()

	if err := InitializeCatalog(ctx, database, operator.ID, []int64{100, 200}, 3); err != nil {
		t.Fatalf("InitializeCatalog: %v", err)
	}
	buyer := newTrader(t, database, "alice", 500)

	operatorBefore := balance(t, database, operator.ID)
	marketBefore, _ := MarketBalance(ctx, database)

	event, err := Buy(ctx, database, 0, buyer.ID, 100)
	if err != nil {
		t.Fatalf("Buy: %v", err)
	}

	if event.Type != model.EventBought {
		t.Errorf("expected bought event, got %q", event.Type)
	}
	if event.TokenID != 0 || event.SellerID != operator.ID || event.Price != 100 {
		t.Errorf("unexpected event fields: %+v", event)
	}
	if event.BuyerID == nil || *event.BuyerID != buyer.ID {
		t.Errorf("expected buyer %d in event, got %v", buyer.ID, event.BuyerID)
	}

	// Ownership moved and the listing cleared.
	token, err := GetToken(ctx, database, 0)
	if err != nil {
		t.Fatalf("GetToken: %v", err)
	}
	if token.OwnerID != buyer.ID {
		t.Errorf("expected owner %d, got %d", buyer.ID, token.OwnerID)
	}
	if token.Listed || token.SellerID != nil {
		t.Error("expected token to be unlisted after purchase")
	}
	if token.Price != 0 {
		t.Errorf("expected stale price hidden, got %d", token.Price)
	}

	// The seller received exactly the asking price; the market kept nothing.
	if got := balance(t, database, operator.ID); got != operatorBefore+100 {
		t.Errorf("expected seller balance %d, got %d", operatorBefore+100, got)
	}
	if got := balance(t, database, buyer.ID); got != 400 {
		t.Errorf("expected buyer balance 400, got %d", got)
	}
	if got, _ := MarketBalance(ctx, database); got != marketBefore {
		t.Errorf("expected market balance unchanged at %d, got %d", marketBefore, got)
	}
}

func TestBuyWrongPayment(t *testing.T) {
	database, operator := newTestLedger(t, 1000)
	ctx := context.Background()

	if err := InitializeCatalog(ctx, database, operator.ID, []int64{100}, 1); err != nil {
		t.Fatalf("InitializeCatalog: %v", err)
	}
	buyer := newTrader(t, database, "alice", 500)

	for _, payment := range []int64{99, 101, 0} {
		_, err := Buy(ctx, database, 0, buyer.ID, payment)
		if !errors.Is(err, ErrWrongPrice) {
			t.Errorf("payment %d: expected ErrWrongPrice, got %v", payment, err)
		}
	}

	// No state change: still listed, balances untouched, no events.
	token, _ := GetToken(ctx, database, 0)
	if !token.Listed {
		t.Error("expected token to remain listed")
	}
	if got := balance(t, database, buyer.ID); got != 500 {
		t.Errorf("expected buyer balance 500, got %d", got)
	}
	events, _ := ListEvents(ctx, database, -1)
	if len(events) != 0 {
		t.Errorf("expected no events after failed purchases, got %d", len(events))
	}
}

func TestBuyNotListed(t *testing.T) {
	database, operator := newTestLedger(t, 1000)
	ctx := context.Background()

	if err := InitializeCatalog(ctx, database, operator.ID, []int64{100}, 1); err != nil {
		t.Fatalf("InitializeCatalog: %v", err)
	}
	alice := newTrader(t, database, "alice", 500)
	bob := newTrader(t, database, "bob", 500)

	if _, err := Buy(ctx, database, 0, alice.ID, 100); err != nil {
		t.Fatalf("Buy: %v", err)
	}

	// The second buyer of the same token loses.
	_, err := Buy(ctx, database, 0, bob.ID, 100)
	if !errors.Is(err, ErrNotListed) {
		t.Errorf("expected ErrNotListed, got %v", err)
	}
	if got := balance(t, database, bob.ID); got != 500 {
		t.Errorf("expected loser's balance untouched at 500, got %d", got)
	}
}

func TestBuyUnknownToken(t *testing.T) {
	database, operator := newTestLedger(t, 1000)
	ctx := context.Background()

	if err := InitializeCatalog(ctx, database, operator.ID, []int64{100}, 1); err != nil {
		t.Fatalf("InitializeCatalog: %v", err)
	}
	buyer := newTrader(t, database, "alice", 500)

	_, err := Buy(ctx, database, 42, buyer.ID, 100)
	if !errors.Is(err, ErrTokenNotFound) {
		t.Errorf("expected ErrTokenNotFound, got %v", err)
	}
}

func TestBuyInsufficientFunds(t *testing.T) {
	database, operator := newTestLedger(t, 1000)
	ctx := context.Background()

	if err := InitializeCatalog(ctx, database, operator.ID, []int64{100}, 1); err != nil {
		t.Fatalf("InitializeCatalog: %v", err)
	}
	buyer := newTrader(t, database, "alice", 50)

	_, err := Buy(ctx, database, 0, buyer.ID, 100)
	if !errors.Is(err, ErrInsufficientFunds) {
		t.Errorf("expected ErrInsufficientFunds, got %v", err)
	}

	token, _ := GetToken(ctx, database, 0)
	if !token.Listed {
		t.Error("expected token to remain listed after failed purchase")
	}
	if got := balance(t, database, buyer.ID); got != 50 {
		t.Errorf("expected buyer balance 50, got %d", got)
	}
}

func TestBuyUnknownBuyer(t *testing.T) {
	database, operator := newTestLedger(t, 1000)
	ctx := context.Background()

	if err := InitializeCatalog(ctx, database, operator.ID, []int64{100}, 1); err != nil {
		t.Fatalf("InitializeCatalog: %v", err)
	}

	_, err := Buy(ctx, database, 0, 9999, 100)
	if !errors.Is(err, ErrAccountNotFound) {
		t.Errorf("expected ErrAccountNotFound, got %v", err)
	}
}
