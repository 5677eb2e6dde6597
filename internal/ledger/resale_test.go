package ledger

import (
	"context"
	"errors"
	"testing"

	"github.com/dappfi/marketd/internal/model"
)

func TestResellRoundTrip(t *testing.T) {
	database, operator := newTestLedger(t, 1000)
	ctx := context.Background()

	if err := InitializeCatalog(ctx, database, operator.ID, []int64{100}, 1); err != nil {
		t.Fatalf("InitializeCatalog: %v", err)
	}
	alice := newTrader(t, database, "alice", 500)
	carol := newTrader(t, database, "carol", 500)

	if _, err := Buy(ctx, database, 0, alice.ID, 100); err != nil {
		t.Fatalf("Buy: %v", err)
	}

	marketBefore, _ := MarketBalance(ctx, database)

	// Alice relists at double the price, hoping to flip it.
	event, err := Resell(ctx, database, 0, alice.ID, 200)
	if err != nil {
		t.Fatalf("Resell: %v", err)
	}
	if event.Type != model.EventRelisted || event.TokenID != 0 ||
		event.SellerID != alice.ID || event.Price != 200 {
		t.Errorf("unexpected relist event: %+v", event)
	}
	if event.BuyerID != nil {
		t.Errorf("expected no buyer on relist event, got %v", event.BuyerID)
	}

	market, _ := GetAccountByUsername(ctx, database, "market")
	token, _ := GetToken(ctx, database, 0)
	if token.OwnerID != market.ID {
		t.Errorf("expected custody with market account, got owner %d", token.OwnerID)
	}
	if !token.Listed || token.SellerID == nil || *token.SellerID != alice.ID {
		t.Errorf("expected token listed by alice, got %+v", token)
	}
	if token.Price != 200 {
		t.Errorf("expected price 200, got %d", token.Price)
	}

	// A second relist attempt before any sale fails.
	if _, err := Resell(ctx, database, 0, alice.ID, 300); !errors.Is(err, ErrAlreadyListed) {
		t.Errorf("expected ErrAlreadyListed, got %v", err)
	}

	// Carol buys at the new price; Alice is paid in full.
	aliceBefore := balance(t, database, alice.ID)
	if _, err := Buy(ctx, database, 0, carol.ID, 200); err != nil {
		t.Fatalf("Buy after relist: %v", err)
	}
	if got := balance(t, database, alice.ID); got != aliceBefore+200 {
		t.Errorf("expected alice to receive 200, balance %d, got %d", aliceBefore+200, got)
	}

	token, _ = GetToken(ctx, database, 0)
	if token.OwnerID != carol.ID || token.Listed {
		t.Errorf("expected carol to own the unlisted token, got %+v", token)
	}

	// The buy/resell cycle retained nothing for the market.
	if got, _ := MarketBalance(ctx, database); got != marketBefore {
		t.Errorf("expected market balance unchanged at %d, got %d", marketBefore, got)
	}
}

func TestResellNotOwner(t *testing.T) {
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

	_, err := Resell(ctx, database, 0, bob.ID, 200)
	if !errors.Is(err, ErrNotOwner) {
		t.Errorf("expected ErrNotOwner, got %v", err)
	}

	token, _ := GetToken(ctx, database, 0)
	if token.Listed || token.OwnerID != alice.ID {
		t.Errorf("expected token unchanged, got %+v", token)
	}
}

func TestResellInvalidPrice(t *testing.T) {
	database, operator := newTestLedger(t, 1000)
	ctx := context.Background()

	if err := InitializeCatalog(ctx, database, operator.ID, []int64{100}, 1); err != nil {
		t.Fatalf("InitializeCatalog: %v", err)
	}
	alice := newTrader(t, database, "alice", 500)
	if _, err := Buy(ctx, database, 0, alice.ID, 100); err != nil {
		t.Fatalf("Buy: %v", err)
	}

	for _, price := range []int64{0, -5} {
		if _, err := Resell(ctx, database, 0, alice.ID, price); !errors.Is(err, ErrInvalidPrice) {
			t.Errorf("price %d: expected ErrInvalidPrice, got %v", price, err)
		}
	}
}

func TestResellListedToken(t *testing.T) {
	database, operator := newTestLedger(t, 1000)
	ctx := context.Background()

	if err := InitializeCatalog(ctx, database, operator.ID, []int64{100}, 1); err != nil {
		t.Fatalf("InitializeCatalog: %v", err)
	}

	// Token 0 is still listed from initialization.
	_, err := Resell(ctx, database, 0, operator.ID, 200)
	if !errors.Is(err, ErrAlreadyListed) {
		t.Errorf("expected ErrAlreadyListed, got %v", err)
	}
}

func TestResellUnknownToken(t *testing.T) {
	database, operator := newTestLedger(t, 1000)
	ctx := context.Background()

	if err := InitializeCatalog(ctx, database, operator.ID, []int64{100}, 1); err != nil {
		t.Fatalf("InitializeCatalog: %v", err)
	}

	_, err := Resell(ctx, database, 42, operator.ID, 200)
	if !errors.Is(err, ErrTokenNotFound) {
		t.Errorf("expected ErrTokenNotFound, got %v", err)
	}
}
