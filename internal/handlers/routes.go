package handlers

import (
	"log/slog"
	"net/http"

	"github.com/mkalobwe/atm-ledger/internal/api"
	"github.com/mkalobwe/atm-ledger/internal/config"
	"github.com/mkalobwe/atm-ledger/internal/middleware"
	"github.com/mkalobwe/atm-ledger/internal/service"
	"github.com/mkalobwe/atm-ledger/internal/store"
)

// NewRouter creates and configures the HTTP router with all routes and middleware.
func NewRouter(
	st store.Store,
	cfg *config.Config,
	logger *slog.Logger,
) http.Handler {
	ledger := service.NewLedgerService(st)
	handler := NewHandler(ledger, ledger, ledger, st, logger, cfg.Storage.Backend)

	mux := http.NewServeMux()
	api.RegisterDocsRoutes(mux)

	mux.HandleFunc("GET /api/health", handler.Health)
	mux.HandleFunc("POST /api/auth/login", handler.Login)
	mux.HandleFunc("POST /api/users", handler.CreateAccount)
	mux.HandleFunc("GET /api/users/{id}", handler.GetAccount)
	mux.HandleFunc("POST /api/users/{id}/deposit", handler.Deposit)
	mux.HandleFunc("POST /api/users/{id}/withdraw", handler.Withdraw)
	mux.HandleFunc("GET /api/users/{id}/transactions", handler.ListTransactions)

	var finalHandler http.Handler = mux
	finalHandler = middleware.SimulateProcessing(&cfg.Sim, logger)(finalHandler)

	return finalHandler
}
