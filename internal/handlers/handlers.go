// Package handlers implements the HTTP endpoints of the ATM API.
package handlers

import (
	"log/slog"

	"github.com/mkalobwe/atm-ledger/internal/service"
)

// Handler holds the dependencies for all HTTP handlers
type Handler struct {
	auth     service.Authenticator
	accounts service.AccountManager
	txns     service.TransactionProcessor
	health   service.HealthChecker
	logger   *slog.Logger
	backend  string
}

// NewHandler creates a new Handler with the given services
func NewHandler(
	auth service.Authenticator,
	accounts service.AccountManager,
	txns service.TransactionProcessor,
	health service.HealthChecker,
	logger *slog.Logger,
	backend string,
) *Handler {
	return &Handler{
		auth:     auth,
		accounts: accounts,
		txns:     txns,
		health:   health,
		logger:   logger,
		backend:  backend,
	}
}
