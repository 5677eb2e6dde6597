package db

import (
	"database/sql"
	"fmt"
)

// schema is the full database schema.
const schema = `
CREATE TABLE IF NOT EXISTS accounts (
    id            INTEGER PRIMARY KEY,
    username      TEXT NOT NULL,
    password_hash TEXT NOT NULL,
    role          TEXT NOT NULL DEFAULT 'trader' CHECK (role IN ('operator', 'trader', 'market')),
    balance       INTEGER NOT NULL DEFAULT 0 CHECK (balance >= 0),
    created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    deleted_at    DATETIME
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_accounts_username_active
    ON accounts(username) WHERE deleted_at IS NULL;

CREATE TABLE IF NOT EXISTS tokens (
    id         INTEGER PRIMARY KEY,
    owner_id   INTEGER NOT NULL REFERENCES accounts(id),
    seller_id  INTEGER REFERENCES accounts(id),
    price      INTEGER NOT NULL DEFAULT 0 CHECK (price >= 0),
    uri        TEXT,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_tokens_owner ON tokens(owner_id);

CREATE INDEX IF NOT EXISTS idx_tokens_seller
    ON tokens(seller_id) WHERE seller_id IS NOT NULL;

CREATE TABLE IF NOT EXISTS market_events (
    id         INTEGER PRIMARY KEY,
    ref        TEXT NOT NULL UNIQUE,
    type       TEXT NOT NULL CHECK (type IN ('bought', 'relisted')),
    token_id   INTEGER NOT NULL REFERENCES tokens(id),
    seller_id  INTEGER NOT NULL REFERENCES accounts(id),
    buyer_id   INTEGER REFERENCES accounts(id),
    price      INTEGER NOT NULL CHECK (price >= 0),
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_market_events_token ON market_events(token_id);

CREATE TABLE IF NOT EXISTS settings (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);
`

// EnsureSchema creates all tables and indexes if they don't already exist.
func EnsureSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}
