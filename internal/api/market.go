package api

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/dappfi/marketd/internal/ledger"
	"github.com/dappfi/marketd/internal/model"
)

// MarketHandler handles the marketplace endpoints: catalog initialization,
// purchases, resales and the read-only queries.
type MarketHandler struct {
	DB *sql.DB
}

type initializeRequest struct {
	Prices        []int64 `json:"prices"`
	DeploymentFee int64   `json:"deployment_fee"`
}

type buyRequest struct {
	Payment int64 `json:"payment"`
}

type resellRequest struct {
	Price int64 `json:"price"`
}

// Initialize handles POST /api/market/initialize.
func (h *MarketHandler) Initialize(w http.ResponseWriter, r *http.Request) {
	var req initializeRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	claims := GetClaims(r.Context())
	if err := ledger.InitializeCatalog(r.Context(), h.DB, claims.AccountID, req.Prices, req.DeploymentFee); err != nil {
		ledgerError(w, err)
		return
	}

	slog.Info("catalog initialized", "operator", claims.Username,
		"tokens", len(req.Prices), "deployment_fee", req.DeploymentFee)

	tokens, err := ledger.ListTokens(r.Context(), h.DB)
	if err != nil {
		slog.Error("failed to list tokens", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to list tokens")
		return
	}
	jsonResponse(w, http.StatusCreated, tokens)
}

// Buy handles POST /api/market/tokens/{id}/buy.
func (h *MarketHandler) Buy(w http.ResponseWriter, r *http.Request) {
	tokenID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid token id")
		return
	}

	var req buyRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	claims := GetClaims(r.Context())
	event, err := ledger.Buy(r.Context(), h.DB, tokenID, claims.AccountID, req.Payment)
	if err != nil {
		ledgerError(w, err)
		return
	}

	slog.Info("token bought", "token", tokenID, "buyer", claims.Username,
		"seller", event.SellerName, "price", event.Price)
	jsonResponse(w, http.StatusOK, event)
}

// Resell handles POST /api/market/tokens/{id}/resell.
func (h *MarketHandler) Resell(w http.ResponseWriter, r *http.Request) {
	tokenID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid token id")
		return
	}

	var req resellRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	claims := GetClaims(r.Context())
	event, err := ledger.Resell(r.Context(), h.DB, tokenID, claims.AccountID, req.Price)
	if err != nil {
		ledgerError(w, err)
		return
	}

	slog.Info("token relisted", "token", tokenID, "seller", claims.Username, "price", req.Price)
	jsonResponse(w, http.StatusOK, event)
}

// ListTokens handles GET /api/market/tokens.
func (h *MarketHandler) ListTokens(w http.ResponseWriter, r *http.Request) {
	tokens, err := ledger.ListTokens(r.Context(), h.DB)
	if err != nil {
		slog.Error("failed to list tokens", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to list tokens")
		return
	}
	if tokens == nil {
		tokens = []model.Token{}
	}
	jsonResponse(w, http.StatusOK, tokens)
}

// GetToken handles GET /api/market/tokens/{id}.
func (h *MarketHandler) GetToken(w http.ResponseWriter, r *http.Request) {
	tokenID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid token id")
		return
	}

	token, err := ledger.GetToken(r.Context(), h.DB, tokenID)
	if err != nil {
		ledgerError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, token)
}

// Unsold handles GET /api/market/unsold.
func (h *MarketHandler) Unsold(w http.ResponseWriter, r *http.Request) {
	tokens, err := ledger.ListUnsold(r.Context(), h.DB)
	if err != nil {
		slog.Error("failed to list unsold tokens", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to list unsold tokens")
		return
	}
	if tokens == nil {
		tokens = []model.Token{}
	}
	jsonResponse(w, http.StatusOK, tokens)
}

// Mine handles GET /api/market/mine. Tokens the caller has relisted are in
// market custody and do not appear here.
func (h *MarketHandler) Mine(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	tokens, err := ledger.OwnedBy(r.Context(), h.DB, claims.AccountID)
	if err != nil {
		slog.Error("failed to list owned tokens", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to list owned tokens")
		return
	}
	if tokens == nil {
		tokens = []model.Token{}
	}
	jsonResponse(w, http.StatusOK, tokens)
}

// Events handles GET /api/market/events.
func (h *MarketHandler) Events(w http.ResponseWriter, r *http.Request) {
	tokenID := int64(-1)
	if v := r.URL.Query().Get("token_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			jsonError(w, http.StatusBadRequest, "invalid token_id")
			return
		}
		tokenID = id
	}

	events, err := ledger.ListEvents(r.Context(), h.DB, tokenID)
	if err != nil {
		slog.Error("failed to list events", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to list events")
		return
	}
	if events == nil {
		events = []model.Event{}
	}
	jsonResponse(w, http.StatusOK, events)
}

// Stats handles GET /api/market/stats.
func (h *MarketHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := ledger.GetStats(r.Context(), h.DB)
	if err != nil {
		slog.Error("failed to get stats", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to get stats")
		return
	}
	jsonResponse(w, http.StatusOK, stats)
}
