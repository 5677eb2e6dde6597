package api

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strconv"

	"golang.org/x/crypto/bcrypt"

	"github.com/dappfi/marketd/internal/ledger"
	"github.com/dappfi/marketd/internal/model"
)

// AccountsHandler handles account management endpoints.
type AccountsHandler struct {
	DB *sql.DB
}

type createAccountRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type depositRequest struct {
	Amount int64 `json:"amount"`
}

// List handles GET /api/accounts.
func (h *AccountsHandler) List(w http.ResponseWriter, r *http.Request) {
	accounts, err := ledger.ListAccounts(r.Context(), h.DB)
	if err != nil {
		slog.Error("failed to list accounts", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to list accounts")
		return
	}
	if accounts == nil {
		accounts = []model.Account{}
	}
	jsonResponse(w, http.StatusOK, accounts)
}

// Create handles POST /api/accounts.
func (h *AccountsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createAccountRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Username == "" || req.Password == "" {
		jsonError(w, http.StatusBadRequest, "username and password required")
		return
	}

	if req.Role == "" {
		req.Role = model.RoleTrader
	}
	if req.Role != model.RoleTrader && req.Role != model.RoleOperator {
		jsonError(w, http.StatusBadRequest, "role must be 'trader' or 'operator'")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to hash password")
		return
	}

	account, err := ledger.CreateAccount(r.Context(), h.DB, req.Username, string(hash), req.Role)
	if err != nil {
		slog.Error("failed to create account", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to create account")
		return
	}

	claims := GetClaims(r.Context())
	slog.Info("account created", "operator", claims.Username, "account", req.Username, "role", req.Role)
	jsonResponse(w, http.StatusCreated, account)
}

// Get handles GET /api/accounts/{id}.
func (h *AccountsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid account id")
		return
	}

	account, err := ledger.GetAccount(r.Context(), h.DB, id)
	if err != nil {
		slog.Error("failed to get account", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to get account")
		return
	}
	if account == nil || account.DeletedAt != nil {
		jsonError(w, http.StatusNotFound, "account not found")
		return
	}

	jsonResponse(w, http.StatusOK, account)
}

// Me handles GET /api/accounts/me.
func (h *AccountsHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	account, err := ledger.GetAccount(r.Context(), h.DB, claims.AccountID)
	if err != nil || account == nil {
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	jsonResponse(w, http.StatusOK, account)
}

// Deposit handles POST /api/accounts/{id}/deposit. Deposits are the operator's
// on-ramp for trader wallets; all other funds movement happens inside
// purchases.
func (h *AccountsHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid account id")
		return
	}

	var req depositRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Amount <= 0 {
		jsonError(w, http.StatusBadRequest, "amount must be positive")
		return
	}

	if err := ledger.Deposit(r.Context(), h.DB, id, req.Amount); err != nil {
		ledgerError(w, err)
		return
	}

	account, err := ledger.GetAccount(r.Context(), h.DB, id)
	if err != nil || account == nil {
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}

	claims := GetClaims(r.Context())
	slog.Info("deposit", "operator", claims.Username, "account", account.Username, "amount", req.Amount)
	jsonResponse(w, http.StatusOK, account)
}

// Delete handles DELETE /api/accounts/{id}.
func (h *AccountsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid account id")
		return
	}

	claims := GetClaims(r.Context())
	if claims.AccountID == id {
		jsonError(w, http.StatusBadRequest, "cannot delete your own account")
		return
	}

	account, err := ledger.GetAccount(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if account == nil || account.DeletedAt != nil {
		jsonError(w, http.StatusNotFound, "account not found")
		return
	}
	if account.Role == model.RoleMarket {
		jsonError(w, http.StatusBadRequest, "cannot delete the market account")
		return
	}

	if err := ledger.DeleteAccount(r.Context(), h.DB, id); err != nil {
		slog.Error("failed to delete account", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to delete account")
		return
	}

	slog.Info("account deleted", "operator", claims.Username, "account", account.Username)
	jsonResponse(w, http.StatusOK, map[string]string{"message": "account deleted"})
}
