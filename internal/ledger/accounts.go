package ledger

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dappfi/marketd/internal/model"
)

// CreateAccount creates a new account.
func CreateAccount(ctx context.Context, db *sql.DB, username, passwordHash, role string) (*model.Account, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO accounts (username, password_hash, role) VALUES (?, ?, ?)`,
		username, passwordHash, role,
	)
	if err != nil {
		return nil, fmt.Errorf("creating account: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting account id: %w", err)
	}

	return GetAccount(ctx, db, id)
}

// GetAccount returns an account by ID.
func GetAccount(ctx context.Context, db *sql.DB, id int64) (*model.Account, error) {
	a := &model.Account{}
	err := db.QueryRowContext(ctx,
		`SELECT id, username, password_hash, role, balance, created_at, deleted_at
		 FROM accounts WHERE id = ?`, id,
	).Scan(&a.ID, &a.Username, &a.PasswordHash, &a.Role, &a.Balance, &a.CreatedAt, &a.DeletedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting account: %w", err)
	}
	return a, nil
}

// GetAccountByUsername returns an account by username (including soft-deleted
// for auth checks).
func GetAccountByUsername(ctx context.Context, db *sql.DB, username string) (*model.Account, error) {
	a := &model.Account{}
	err := db.QueryRowContext(ctx,
		`SELECT id, username, password_hash, role, balance, created_at, deleted_at
		 FROM accounts WHERE username = ?`, username,
	).Scan(&a.ID, &a.Username, &a.PasswordHash, &a.Role, &a.Balance, &a.CreatedAt, &a.DeletedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting account by username: %w", err)
	}
	return a, nil
}

// ListAccounts returns all non-deleted accounts.
func ListAccounts(ctx context.Context, db *sql.DB) ([]model.Account, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, username, password_hash, role, balance, created_at, deleted_at
		 FROM accounts WHERE deleted_at IS NULL ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing accounts: %w", err)
	}
	defer rows.Close()

	var accounts []model.Account
	for rows.Next() {
		var a model.Account
		if err := rows.Scan(&a.ID, &a.Username, &a.PasswordHash, &a.Role, &a.Balance, &a.CreatedAt, &a.DeletedAt); err != nil {
			return nil, fmt.Errorf("scanning account: %w", err)
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

// Deposit credits an account's balance. This is the on-ramp of the payment
// substrate; the ledger itself only ever moves funds between accounts.
func Deposit(ctx context.Context, db *sql.DB, accountID, amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("deposit amount must be positive")
	}

	result, err := db.ExecContext(ctx,
		`UPDATE accounts SET balance = balance + ? WHERE id = ? AND deleted_at IS NULL`,
		amount, accountID,
	)
	if err != nil {
		return fmt.Errorf("depositing funds: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("depositing funds: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: id %d", ErrAccountNotFound, accountID)
	}
	return nil
}

// UpdateAccountPassword changes an account's password hash.
func UpdateAccountPassword(ctx context.Context, db *sql.DB, id int64, passwordHash string) error {
	_, err := db.ExecContext(ctx,
		`UPDATE accounts SET password_hash = ? WHERE id = ? AND deleted_at IS NULL`,
		passwordHash, id,
	)
	if err != nil {
		return fmt.Errorf("updating password: %w", err)
	}
	return nil
}

// DeleteAccount soft-deletes an account. The row is kept so past transfers
// and events stay resolvable.
func DeleteAccount(ctx context.Context, db *sql.DB, id int64) error {
	_, err := db.ExecContext(ctx,
		`UPDATE accounts SET deleted_at = CURRENT_TIMESTAMP WHERE id = ? AND deleted_at IS NULL`,
		id,
	)
	if err != nil {
		return fmt.Errorf("deleting account: %w", err)
	}
	return nil
}

// marketAccountID resolves the custodian account inside a transaction.
func marketAccountID(ctx context.Context, tx *sql.Tx) (int64, error) {
	var id int64
	err := tx.QueryRowContext(ctx,
		`SELECT id FROM accounts WHERE username = ? AND role = ?`,
		model.MarketUsername, model.RoleMarket,
	).Scan(&id)
	if err == sql.ErrNoRows {
		return 0, fmt.Errorf("%w: market account missing", ErrAccountNotFound)
	}
	if err != nil {
		return 0, fmt.Errorf("resolving market account: %w", err)
	}
	return id, nil
}

// MarketBalance returns the custodian account's balance. Outside of the
// one-time deployment fee this should never change: resale economics retain
// no per-transaction cut.
func MarketBalance(ctx context.Context, db *sql.DB) (int64, error) {
	var balance int64
	err := db.QueryRowContext(ctx,
		`SELECT balance FROM accounts WHERE username = ? AND role = ?`,
		model.MarketUsername, model.RoleMarket,
	).Scan(&balance)
	if err == sql.ErrNoRows {
		return 0, fmt.Errorf("%w: market account missing", ErrAccountNotFound)
	}
	if err != nil {
		return 0, fmt.Errorf("getting market balance: %w", err)
	}
	return balance, nil
}
