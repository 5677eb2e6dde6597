package ledger

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/dappfi/marketd/internal/model"
)

// Buy purchases a listed token for the buyer, paying the seller the exact
// asking price out of the buyer's balance. Funds transfer, ownership change
// and the bought event all commit in one transaction; any failure leaves
// everything untouched.
//
// Payment must equal the asking price exactly. Tolerating overpayment would
// mean refund bookkeeping, so it is rejected the same as underpayment.
func Buy(ctx context.Context, db *sql.DB, tokenID, buyerID, payment int64) (*model.Event, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var sellerID sql.NullInt64
	var price int64
	err = tx.QueryRowContext(ctx,
		`SELECT seller_id, price FROM tokens WHERE id = ?`, tokenID,
	).Scan(&sellerID, &price)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: id %d", ErrTokenNotFound, tokenID)
	}
	if err != nil {
		return nil, fmt.Errorf("loading token: %w", err)
	}

	if !sellerID.Valid {
		return nil, fmt.Errorf("%w: token %d", ErrNotListed, tokenID)
	}
	if payment != price {
		return nil, fmt.Errorf("%w: asking price is %d, got %d", ErrWrongPrice, price, payment)
	}

	// Debit the buyer. Guarding on balance in the WHERE clause distinguishes
	// a short balance from an unknown account without a separate read.
	result, err := tx.ExecContext(ctx,
		`UPDATE accounts SET balance = balance - ?
		 WHERE id = ? AND deleted_at IS NULL AND balance >= ?`,
		payment, buyerID, payment,
	)
	if err != nil {
		return nil, fmt.Errorf("debiting buyer: %w", err)
	}
	if affected, err := result.RowsAffected(); err != nil {
		return nil, fmt.Errorf("debiting buyer: %w", err)
	} else if affected == 0 {
		var exists bool
		if err := tx.QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM accounts WHERE id = ? AND deleted_at IS NULL)`,
			buyerID,
		).Scan(&exists); err != nil {
			return nil, fmt.Errorf("checking buyer: %w", err)
		}
		if !exists {
			return nil, fmt.Errorf("%w: id %d", ErrAccountNotFound, buyerID)
		}
		return nil, fmt.Errorf("%w: need %d", ErrInsufficientFunds, payment)
	}

	// Pay the seller in full. No cut is retained on either initial sales or
	// resales; the market account only ever holds the deployment fee.
	if _, err := tx.ExecContext(ctx,
		`UPDATE accounts SET balance = balance + ? WHERE id = ?`,
		payment, sellerID.Int64,
	); err != nil {
		return nil, fmt.Errorf("paying seller: %w", err)
	}

	// Hand the token over and clear the listing.
	if _, err := tx.ExecContext(ctx,
		`UPDATE tokens SET owner_id = ?, seller_id = NULL, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		buyerID, tokenID,
	); err != nil {
		return nil, fmt.Errorf("transferring token: %w", err)
	}

	ref := uuid.NewString()
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO market_events (ref, type, token_id, seller_id, buyer_id, price)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		ref, model.EventBought, tokenID, sellerID.Int64, buyerID, price,
	); err != nil {
		return nil, fmt.Errorf("recording bought event: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing purchase: %w", err)
	}

	return GetEventByRef(ctx, db, ref)
}
