// Package ledger is the authoritative marketplace state: the token registry,
// the account balances that fund purchases, and the append-only event feed.
// Every mutating operation runs in a single database transaction, so funds
// and ownership move together or not at all.
package ledger

import "errors"

// Sentinel errors, wrapped with detail at the call sites. The API layer maps
// them onto HTTP statuses with errors.Is.
var (
	// Not found.
	ErrTokenNotFound   = errors.New("token not found")
	ErrAccountNotFound = errors.New("account not found")

	// Validation, rejected before any state change.
	ErrEmptyCatalog = errors.New("catalog must contain at least one price")
	ErrInvalidPrice = errors.New("price must be greater than zero")

	// Stale view of listing state, re-query before retrying.
	ErrNotListed     = errors.New("token is not listed for sale")
	ErrAlreadyListed = errors.New("token is already listed for sale")
	ErrNotOwner      = errors.New("caller does not own this token")

	// Funding, resubmit with a corrected amount.
	ErrWrongPrice          = errors.New("payment does not match the asking price")
	ErrInsufficientFunds   = errors.New("insufficient balance")
	ErrInsufficientFunding = errors.New("deployment fee below the required amount")

	// One-shot guard on catalog initialization.
	ErrAlreadyInitialized = errors.New("catalog is already initialized")
)
