// Package store provides the persistence layer for accounts and the
// transaction ledger.
package store

import (
	"context"

	"github.com/mkalobwe/atm-ledger/internal/models"
)

// Store is the contract the ledger core depends on. Two implementations
// exist: MemStore for demo/in-process use and PostgresStore for durable use.
//
// RecordTransaction is the single balance-write path: it persists the
// account's new balance and appends the ledger entry as one atomic unit, so
// no reader can ever observe a balance update without its matching
// transaction, or vice versa. A failed call leaves both untouched.
type Store interface {
	GetAccount(ctx context.Context, id int64) (*models.Account, error)
	GetAccountByUsername(ctx context.Context, username string) (*models.Account, error)
	CreateAccount(ctx context.Context, acct *models.Account) (*models.Account, error)

	RecordTransaction(ctx context.Context, accountID, newBalanceCents int64, txn *models.Transaction) (*models.Transaction, error)
	ListTransactions(ctx context.Context, accountID int64) ([]*models.Transaction, error)

	// PingContext reports whether the backing store is reachable.
	PingContext(ctx context.Context) error
}

// Ensure concrete types implement the interface
var (
	_ Store = (*MemStore)(nil)
	_ Store = (*PostgresStore)(nil)
)
