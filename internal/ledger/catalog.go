package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
)

// RequiredDeploymentFee returns the up-front funding the operator must attach
// when initializing the catalog: 1% of the sum of asking prices. This single
// fee is the only amount the market account ever retains.
func RequiredDeploymentFee(prices []int64) int64 {
	var sum int64
	for _, p := range prices {
		sum += p
	}
	return sum / 100
}

// InitializeCatalog creates the full token catalog in one transaction: tokens
// get dense ids 0..N-1, custody goes to the market account, and the operator
// is recorded as seller of every token at its starting price. The attached
// deployment fee moves from the operator to the market account.
//
// Runs exactly once; subsequent calls fail with ErrAlreadyInitialized.
func InitializeCatalog(ctx context.Context, db *sql.DB, operatorID int64, prices []int64, deploymentFee int64) error {
	if len(prices) == 0 {
		return ErrEmptyCatalog
	}
	for i, p := range prices {
		if p <= 0 {
			return fmt.Errorf("%w: price %d at index %d", ErrInvalidPrice, p, i)
		}
	}
	if required := RequiredDeploymentFee(prices); deploymentFee < required {
		return fmt.Errorf("%w: attached %d, required %d", ErrInsufficientFunding, deploymentFee, required)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	// One-shot guard. INSERT OR IGNORE makes the check race-safe: whoever
	// inserts the row first wins, everyone else sees zero rows affected.
	result, err := tx.ExecContext(ctx,
		`INSERT OR IGNORE INTO settings (key, value) VALUES (?, '1')`,
		settingInitialized,
	)
	if err != nil {
		return fmt.Errorf("marking catalog initialized: %w", err)
	}
	if affected, err := result.RowsAffected(); err != nil {
		return fmt.Errorf("marking catalog initialized: %w", err)
	} else if affected == 0 {
		return ErrAlreadyInitialized
	}

	// Debit the operator. The balance guard in the WHERE clause rejects the
	// funding atomically instead of tripping the CHECK constraint.
	result, err = tx.ExecContext(ctx,
		`UPDATE accounts SET balance = balance - ?
		 WHERE id = ? AND deleted_at IS NULL AND balance >= ?`,
		deploymentFee, operatorID, deploymentFee,
	)
	if err != nil {
		return fmt.Errorf("debiting operator: %w", err)
	}
	if affected, err := result.RowsAffected(); err != nil {
		return fmt.Errorf("debiting operator: %w", err)
	} else if affected == 0 {
		return fmt.Errorf("%w: operator cannot cover the %d deployment fee", ErrInsufficientFunding, deploymentFee)
	}

	marketID, err := marketAccountID(ctx, tx)
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE accounts SET balance = balance + ? WHERE id = ?`,
		deploymentFee, marketID,
	); err != nil {
		return fmt.Errorf("crediting market account: %w", err)
	}

	for i, price := range prices {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO tokens (id, owner_id, seller_id, price, uri) VALUES (?, ?, ?, ?, ?)`,
			i, marketID, operatorID, price, DefaultBaseURI+strconv.Itoa(i),
		); err != nil {
			return fmt.Errorf("creating token %d: %w", i, err)
		}
	}

	settings := map[string]string{
		settingCatalogName:   DefaultCatalogName,
		settingCatalogSymbol: DefaultCatalogSymbol,
		settingBaseURI:       DefaultBaseURI,
		settingDeploymentFee: strconv.FormatInt(deploymentFee, 10),
	}
	for key, value := range settings {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR REPLACE INTO settings (key, value) VALUES (?, ?)`,
			key, value,
		); err != nil {
			return fmt.Errorf("storing setting %q: %w", key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing catalog: %w", err)
	}
	return nil
}

// CatalogInitialized reports whether the one-shot initializer has run.
func CatalogInitialized(ctx context.Context, db *sql.DB) (bool, error) {
	value, err := getSetting(ctx, db, settingInitialized)
	if err != nil {
		return false, err
	}
	return value != "", nil
}
