package service

import (
	"context"

	"github.com/mkalobwe/atm-ledger/internal/models"
)

// HealthChecker validates system health.
type HealthChecker interface {
	PingContext(ctx context.Context) error
}

// Authenticator verifies username/PIN credentials
type Authenticator interface {
	Authenticate(ctx context.Context, username, pin string) (*models.Account, error)
}

// AccountManager handles account lookup and provisioning
type AccountManager interface {
	GetAccount(ctx context.Context, accountID int64) (*models.Account, error)
	CreateAccount(ctx context.Context, acct *models.Account) (*models.Account, error)
}

// TransactionProcessor handles balance mutation and history retrieval
type TransactionProcessor interface {
	Deposit(ctx context.Context, accountID, amountCents int64) (*models.Account, *models.Transaction, error)
	Withdraw(ctx context.Context, accountID, amountCents int64) (*models.Account, *models.Transaction, error)
	ListTransactions(ctx context.Context, accountID int64) ([]*models.Transaction, error)
}

// Ensure the concrete type implements the interfaces
var (
	_ Authenticator        = (*LedgerService)(nil)
	_ AccountManager       = (*LedgerService)(nil)
	_ TransactionProcessor = (*LedgerService)(nil)
)
