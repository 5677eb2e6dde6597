package ledger

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dappfi/marketd/internal/model"
)

const eventColumns = `e.id, e.ref, e.type, e.token_id, e.seller_id, e.buyer_id, e.price, e.created_at,
	       s.username AS seller_name, b.username AS buyer_name`

const eventJoins = `FROM market_events e
	  JOIN accounts s ON s.id = e.seller_id
	  LEFT JOIN accounts b ON b.id = e.buyer_id`

// GetEventByRef returns an event by its public reference.
func GetEventByRef(ctx context.Context, db *sql.DB, ref string) (*model.Event, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+eventColumns+` `+eventJoins+` WHERE e.ref = ?`, ref,
	)
	if err != nil {
		return nil, fmt.Errorf("getting event: %w", err)
	}
	defer rows.Close()

	events, err := scanEvents(rows)
	if err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return nil, nil
	}
	return &events[0], nil
}

// ListEvents returns the event feed, newest first, optionally filtered by
// token. The feed is append-only: rows are written only inside the same
// transaction as the purchase or relist they record.
func ListEvents(ctx context.Context, db *sql.DB, tokenID int64) ([]model.Event, error) {
	query := `SELECT ` + eventColumns + ` ` + eventJoins
	var args []any

	if tokenID >= 0 {
		query += ` WHERE e.token_id = ?`
		args = append(args, tokenID)
	}
	query += ` ORDER BY e.id DESC`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing events: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

func scanEvents(rows *sql.Rows) ([]model.Event, error) {
	var events []model.Event
	for rows.Next() {
		var e model.Event
		var buyerName sql.NullString
		if err := rows.Scan(&e.ID, &e.Ref, &e.Type, &e.TokenID, &e.SellerID, &e.BuyerID,
			&e.Price, &e.CreatedAt, &e.SellerName, &buyerName); err != nil {
			return nil, fmt.Errorf("scanning event: %w", err)
		}
		e.BuyerName = buyerName.String
		events = append(events, e)
	}
	return events, rows.Err()
}
