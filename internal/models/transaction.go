package models

import "time"

// TransactionType represents the kind of balance mutation a transaction records
type TransactionType string

const (
	TransactionTypeDeposit    TransactionType = "deposit"
	TransactionTypeWithdrawal TransactionType = "withdrawal"
)

// Transaction represents one immutable ledger entry for account activity.
// Entries are created exactly once, atomically with the balance update they
// record, and are never edited or deleted.
type Transaction struct {
	CreatedAt         time.Time       `db:"created_at"`
	Type              TransactionType `db:"type"`
	ReferenceID       string          `db:"reference_id"`
	AmountCents       int64           `db:"amount_cents"`
	BalanceAfterCents int64           `db:"balance_after_cents"`
	AccountID         int64           `db:"account_id"`
	ID                int64           `db:"id"`
}
