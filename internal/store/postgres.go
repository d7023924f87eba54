package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/mkalobwe/atm-ledger/internal/db"
	"github.com/mkalobwe/atm-ledger/internal/models"
)

// PostgresStore is the durable Store implementation on top of database/sql
// and lib/pq. RecordTransaction runs the balance update and ledger insert in
// one database transaction.
type PostgresStore struct {
	db *db.DB
}

// NewPostgresStore creates a Store backed by the given database connection.
func NewPostgresStore(database *db.DB) *PostgresStore {
	return &PostgresStore{db: database}
}

const accountColumns = `id, username, pin, name, account_number, balance_cents, created_at, updated_at`

func scanAccount(row *sql.Row) (*models.Account, error) {
	var acct models.Account
	err := row.Scan(
		&acct.ID,
		&acct.Username,
		&acct.PIN,
		&acct.Name,
		&acct.AccountNumber,
		&acct.BalanceCents,
		&acct.CreatedAt,
		&acct.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan account: %w", err)
	}
	return &acct, nil
}

// GetAccount retrieves an account by its ID.
func (s *PostgresStore) GetAccount(ctx context.Context, id int64) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`
	return scanAccount(s.db.QueryRowContext(ctx, query, id))
}

// GetAccountByUsername retrieves an account by its unique username.
func (s *PostgresStore) GetAccountByUsername(ctx context.Context, username string) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE username = $1`
	return scanAccount(s.db.QueryRowContext(ctx, query, username))
}

// CreateAccount inserts a new account and returns it with the allocated ID.
func (s *PostgresStore) CreateAccount(ctx context.Context, acct *models.Account) (*models.Account, error) {
	query := `
		INSERT INTO accounts (username, pin, name, account_number, balance_cents)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`

	cp := *acct
	err := s.db.QueryRowContext(ctx, query,
		acct.Username,
		acct.PIN,
		acct.Name,
		acct.AccountNumber,
		acct.BalanceCents,
	).Scan(&cp.ID, &cp.CreatedAt, &cp.UpdatedAt)

	if isUniqueViolation(err) {
		return nil, models.ErrDuplicateAccount
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	return &cp, nil
}

// RecordTransaction updates the account balance and appends the ledger entry
// inside a single database transaction. The caller has already validated the
// new balance; the row lock on the account keeps concurrent writers from
// other processes from interleaving.
func (s *PostgresStore) RecordTransaction(ctx context.Context, accountID, newBalanceCents int64, txn *models.Transaction) (*models.Transaction, error) {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback() //nolint:errcheck // rollback error is not critical in defer
	}()

	var exists int64
	err = tx.QueryRowContext(ctx, `SELECT id FROM accounts WHERE id = $1 FOR UPDATE`, accountID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock account: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE accounts
		SET balance_cents = $2, updated_at = NOW()
		WHERE id = $1
	`, accountID, newBalanceCents)
	if err != nil {
		return nil, fmt.Errorf("failed to update balance: %w", err)
	}

	cp := *txn
	cp.AccountID = accountID
	cp.BalanceAfterCents = newBalanceCents

	createdAt := sql.NullTime{Time: cp.CreatedAt, Valid: !cp.CreatedAt.IsZero()}
	err = tx.QueryRowContext(ctx, `
		INSERT INTO transactions (account_id, type, amount_cents, balance_after_cents, reference_id, created_at)
		VALUES ($1, $2, $3, $4, $5, COALESCE($6, NOW()))
		RETURNING id, created_at
	`, accountID, cp.Type, cp.AmountCents, cp.BalanceAfterCents, cp.ReferenceID, createdAt,
	).Scan(&cp.ID, &cp.CreatedAt)

	if isUniqueViolation(err) {
		return nil, models.ErrDuplicateReference
	}
	if err != nil {
		return nil, fmt.Errorf("failed to insert transaction: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &cp, nil
}

// ListTransactions returns the account's ledger entries, most recent first.
func (s *PostgresStore) ListTransactions(ctx context.Context, accountID int64) ([]*models.Transaction, error) {
	query := `
		SELECT id, account_id, type, amount_cents, balance_after_cents, reference_id, created_at
		FROM transactions
		WHERE account_id = $1
		ORDER BY created_at DESC, id DESC
	`

	rows, err := s.db.QueryContext(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var out []*models.Transaction
	for rows.Next() {
		var txn models.Transaction
		err := rows.Scan(
			&txn.ID,
			&txn.AccountID,
			&txn.Type,
			&txn.AmountCents,
			&txn.BalanceAfterCents,
			&txn.ReferenceID,
			&txn.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		out = append(out, &txn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}

	return out, nil
}

// PingContext reports whether the database is reachable.
func (s *PostgresStore) PingContext(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
