package ledger

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/dappfi/marketd/internal/model"
)

// Resell re-lists a token its caller owns outright at a new price. Custody
// moves to the market account so a later purchase can hand the token straight
// to its buyer; the caller stays recorded as seller and receives the full
// price when it sells. No fee is charged at relist time.
func Resell(ctx context.Context, db *sql.DB, tokenID, callerID, newPrice int64) (*model.Event, error) {
	if newPrice <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidPrice, newPrice)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var ownerID int64
	var sellerID sql.NullInt64
	err = tx.QueryRowContext(ctx,
		`SELECT owner_id, seller_id FROM tokens WHERE id = ?`, tokenID,
	).Scan(&ownerID, &sellerID)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: id %d", ErrTokenNotFound, tokenID)
	}
	if err != nil {
		return nil, fmt.Errorf("loading token: %w", err)
	}

	// A listed token is held by the market account, so the owner check below
	// would also reject this. Checked separately to report the real conflict.
	if sellerID.Valid {
		return nil, fmt.Errorf("%w: token %d", ErrAlreadyListed, tokenID)
	}
	if ownerID != callerID {
		return nil, fmt.Errorf("%w: token %d", ErrNotOwner, tokenID)
	}

	marketID, err := marketAccountID(ctx, tx)
	if err != nil {
		return nil, err
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE tokens SET owner_id = ?, seller_id = ?, price = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		marketID, callerID, newPrice, tokenID,
	); err != nil {
		return nil, fmt.Errorf("relisting token: %w", err)
	}

	ref := uuid.NewString()
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO market_events (ref, type, token_id, seller_id, price)
		 VALUES (?, ?, ?, ?, ?)`,
		ref, model.EventRelisted, tokenID, callerID, newPrice,
	); err != nil {
		return nil, fmt.Errorf("recording relisted event: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing relist: %w", err)
	}

	return GetEventByRef(ctx, db, ref)
}
