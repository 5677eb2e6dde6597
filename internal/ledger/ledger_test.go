package ledger

import (
	"context"
	"database/sql"
	"testing"

	"github.com/dappfi/marketd/internal/db"
	"github.com/dappfi/marketd/internal/model"
)

// newTestLedger creates an in-memory database with the market (custodian)
// account and a funded operator, mirroring what `marketd init` sets up.
func newTestLedger(t *testing.T, operatorFunds int64) (*sql.DB, *model.Account) {
	t.Helper()
	database := db.NewTestDB(t)
	ctx := context.Background()

	if _, err := CreateAccount(ctx, database, model.MarketUsername, "x", model.RoleMarket); err != nil {
		t.Fatalf("creating market account: %v", err)
	}

	operator, err := CreateAccount(ctx, database, "artist", "x", model.RoleOperator)
	if err != nil {
		t.Fatalf("creating operator: %v", err)
	}
	if operatorFunds > 0 {
		if err := Deposit(ctx, database, operator.ID, operatorFunds); err != nil {
			t.Fatalf("funding operator: %v", err)
		}
	}

	return database, operator
}

// newTrader creates a trader account with the given balance.
func newTrader(t *testing.T, database *sql.DB, username string, funds int64) *model.Account {
	t.Helper()
	ctx := context.Background()

	trader, err := CreateAccount(ctx, database, username, "x", model.RoleTrader)
	if err != nil {
		t.Fatalf("creating trader %s: %v", username, err)
	}
	if funds > 0 {
		if err := Deposit(ctx, database, trader.ID, funds); err != nil {
			t.Fatalf("funding trader %s: %v", username, err)
		}
	}
	return trader
}

func balance(t *testing.T, database *sql.DB, accountID int64) int64 {
	t.Helper()
	account, err := GetAccount(context.Background(), database, accountID)
	if err != nil || account == nil {
		t.Fatalf("getting account %d: %v", accountID, err)
	}
	return account.Balance
}
