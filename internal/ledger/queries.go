package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	"github.com/dappfi/marketd/internal/model"
)

const tokenColumns = `t.id, t.owner_id, t.seller_id, t.price, t.uri, t.created_at, t.updated_at,
	       o.username AS owner_name, s.username AS seller_name`

const tokenJoins = `FROM tokens t
	  JOIN accounts o ON o.id = t.owner_id
	  LEFT JOIN accounts s ON s.id = t.seller_id`

// GetToken returns a token by ID.
func GetToken(ctx context.Context, db *sql.DB, id int64) (*model.Token, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+tokenColumns+` `+tokenJoins+` WHERE t.id = ?`, id,
	)
	if err != nil {
		return nil, fmt.Errorf("getting token: %w", err)
	}
	defer rows.Close()

	tokens, err := scanTokens(rows)
	if err != nil {
		return nil, err
	}
	if len(tokens) == 0 {
		return nil, fmt.Errorf("%w: id %d", ErrTokenNotFound, id)
	}
	return &tokens[0], nil
}

// ListTokens returns the full catalog in ascending id order.
func ListTokens(ctx context.Context, db *sql.DB) ([]model.Token, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+tokenColumns+` `+tokenJoins+` ORDER BY t.id`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing tokens: %w", err)
	}
	defer rows.Close()

	return scanTokens(rows)
}

// ListUnsold returns every token currently up for sale, in ascending id order.
func ListUnsold(ctx context.Context, db *sql.DB) ([]model.Token, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+tokenColumns+` `+tokenJoins+` WHERE t.seller_id IS NOT NULL ORDER BY t.id`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing unsold tokens: %w", err)
	}
	defer rows.Close()

	return scanTokens(rows)
}

// OwnedBy returns every token the account holds outright, in ascending id
// order. Tokens the account has relisted are in market custody and are
// intentionally excluded: "owned" means held, not pending sale.
func OwnedBy(ctx context.Context, db *sql.DB, accountID int64) ([]model.Token, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+tokenColumns+` `+tokenJoins+`
		 WHERE t.owner_id = ? AND t.seller_id IS NULL ORDER BY t.id`, accountID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing owned tokens: %w", err)
	}
	defer rows.Close()

	return scanTokens(rows)
}

func scanTokens(rows *sql.Rows) ([]model.Token, error) {
	var tokens []model.Token
	for rows.Next() {
		var t model.Token
		var uri, sellerName sql.NullString
		if err := rows.Scan(&t.ID, &t.OwnerID, &t.SellerID, &t.Price, &uri,
			&t.CreatedAt, &t.UpdatedAt, &t.OwnerName, &sellerName); err != nil {
			return nil, fmt.Errorf("scanning token: %w", err)
		}
		t.URI = uri.String
		t.SellerName = sellerName.String
		t.Listed = t.SellerID != nil
		if !t.Listed {
			// The stored price is stale once a token sells; don't surface it
			// as a current ask.
			t.Price = 0
		}
		tokens = append(tokens, t)
	}
	return tokens, rows.Err()
}

// Stats summarizes the catalog for display surfaces.
type Stats struct {
	Name          string `json:"name"`
	Symbol        string `json:"symbol"`
	BaseURI       string `json:"base_uri"`
	Initialized   bool   `json:"initialized"`
	CatalogSize   int64  `json:"catalog_size"`
	UnsoldCount   int64  `json:"unsold_count"`
	DeploymentFee int64  `json:"deployment_fee"`
	MarketBalance int64  `json:"market_balance"`
}

// GetStats returns catalog counters and identity settings.
func GetStats(ctx context.Context, db *sql.DB) (*Stats, error) {
	stats := &Stats{}

	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*), COUNT(seller_id) FROM tokens`,
	).Scan(&stats.CatalogSize, &stats.UnsoldCount)
	if err != nil {
		return nil, fmt.Errorf("counting tokens: %w", err)
	}

	initialized, err := CatalogInitialized(ctx, db)
	if err != nil {
		return nil, err
	}
	stats.Initialized = initialized

	if stats.Name, err = getSetting(ctx, db, settingCatalogName); err != nil {
		return nil, err
	}
	if stats.Symbol, err = getSetting(ctx, db, settingCatalogSymbol); err != nil {
		return nil, err
	}
	if stats.BaseURI, err = getSetting(ctx, db, settingBaseURI); err != nil {
		return nil, err
	}

	fee, err := getSetting(ctx, db, settingDeploymentFee)
	if err != nil {
		return nil, err
	}
	if fee != "" {
		if stats.DeploymentFee, err = strconv.ParseInt(fee, 10, 64); err != nil {
			return nil, fmt.Errorf("parsing deployment fee: %w", err)
		}
	}

	if initialized {
		if stats.MarketBalance, err = MarketBalance(ctx, db); err != nil {
			return nil, err
		}
	}

	return stats, nil
}
