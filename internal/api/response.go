package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/dappfi/marketd/internal/ledger"
)

// jsonResponse writes a JSON response with the given status code.
func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("error encoding response", "error", err)
		}
	}
}

// jsonError writes a JSON error response.
func jsonError(w http.ResponseWriter, status int, message string) {
	jsonResponse(w, status, map[string]string{"error": message})
}

// decodeJSON decodes a JSON request body into the given target.
func decodeJSON(r *http.Request, target any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(target)
}

// ledgerError maps ledger errors onto HTTP statuses: validation 400, missing
// ids 404, stale listing state 409, payment problems 402.
func ledgerError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ledger.ErrTokenNotFound),
		errors.Is(err, ledger.ErrAccountNotFound):
		jsonError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ledger.ErrWrongPrice),
		errors.Is(err, ledger.ErrInsufficientFunds),
		errors.Is(err, ledger.ErrInsufficientFunding):
		jsonError(w, http.StatusPaymentRequired, err.Error())
	case errors.Is(err, ledger.ErrNotListed),
		errors.Is(err, ledger.ErrAlreadyListed),
		errors.Is(err, ledger.ErrNotOwner),
		errors.Is(err, ledger.ErrAlreadyInitialized):
		jsonError(w, http.StatusConflict, err.Error())
	case errors.Is(err, ledger.ErrEmptyCatalog),
		errors.Is(err, ledger.ErrInvalidPrice):
		jsonError(w, http.StatusBadRequest, err.Error())
	default:
		slog.Error("ledger operation failed", "error", err)
		jsonError(w, http.StatusInternalServerError, "internal error")
	}
}
