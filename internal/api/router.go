package api

import (
	"database/sql"
	"net/http"

	"github.com/go-chi/cors"

	"github.com/dappfi/marketd/internal/model"
)

// NewRouter creates the API router with all endpoints registered.
func NewRouter(db *sql.DB, jwtSecret string) http.Handler {
	mux := http.NewServeMux()

	authHandler := &AuthHandler{DB: db, JWTSecret: jwtSecret}
	accountsHandler := &AccountsHandler{DB: db}
	marketHandler := &MarketHandler{DB: db}

	authMW := AuthMiddleware(jwtSecret, db)
	requireOperator := RequireRole(model.RoleOperator)

	// Public: login.
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)

	// Authenticated routes.
	mux.Handle("PUT /api/auth/password", authMW(http.HandlerFunc(authHandler.ChangePassword)))
	mux.Handle("GET /api/accounts/me", authMW(http.HandlerFunc(accountsHandler.Me)))

	// Account management (operator only).
	mux.Handle("GET /api/accounts", authMW(requireOperator(http.HandlerFunc(accountsHandler.List))))
	mux.Handle("POST /api/accounts", authMW(requireOperator(http.HandlerFunc(accountsHandler.Create))))
	mux.Handle("GET /api/accounts/{id}", authMW(requireOperator(http.HandlerFunc(accountsHandler.Get))))
	mux.Handle("POST /api/accounts/{id}/deposit", authMW(requireOperator(http.HandlerFunc(accountsHandler.Deposit))))
	mux.Handle("DELETE /api/accounts/{id}", authMW(requireOperator(http.HandlerFunc(accountsHandler.Delete))))

	// Catalog initialization (operator only, one-shot).
	mux.Handle("POST /api/market/initialize", authMW(requireOperator(http.HandlerFunc(marketHandler.Initialize))))

	// Market: all authenticated accounts.
	mux.Handle("GET /api/market/tokens", authMW(http.HandlerFunc(marketHandler.ListTokens)))
	mux.Handle("GET /api/market/tokens/{id}", authMW(http.HandlerFunc(marketHandler.GetToken)))
	mux.Handle("POST /api/market/tokens/{id}/buy", authMW(http.HandlerFunc(marketHandler.Buy)))
	mux.Handle("POST /api/market/tokens/{id}/resell", authMW(http.HandlerFunc(marketHandler.Resell)))
	mux.Handle("GET /api/market/unsold", authMW(http.HandlerFunc(marketHandler.Unsold)))
	mux.Handle("GET /api/market/mine", authMW(http.HandlerFunc(marketHandler.Mine)))
	mux.Handle("GET /api/market/events", authMW(http.HandlerFunc(marketHandler.Events)))
	mux.Handle("GET /api/market/stats", authMW(http.HandlerFunc(marketHandler.Stats)))

	// The gallery frontend is served from its own origin.
	return cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	})(mux)
}
