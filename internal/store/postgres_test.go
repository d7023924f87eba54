package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mkalobwe/atm-ledger/internal/config"
	"github.com/mkalobwe/atm-ledger/internal/db"
	"github.com/mkalobwe/atm-ledger/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupPostgres connects to the database named by the DB_* environment and
// applies the migration. Tests are skipped unless TEST_POSTGRES=1.
func setupPostgres(t *testing.T) *PostgresStore {
	t.Helper()

	if os.Getenv("TEST_POSTGRES") == "" {
		t.Skip("set TEST_POSTGRES=1 to run postgres store tests")
	}

	cfg, err := config.Load()
	require.NoError(t, err, "failed to load config")

	logger := cfg.Logger.NewLogger()

	database, err := db.Connect(context.Background(), &cfg.Database, logger)
	require.NoError(t, err, "failed to connect to test database")

	t.Cleanup(func() {
		_, _ = database.ExecContext(context.Background(), `TRUNCATE transactions, accounts RESTART IDENTITY CASCADE`)
		_ = database.Close()
	})

	migrationPath := filepath.Join("..", "db", "migrations", "000001_init.up.sql")
	sqlBytes, err := os.ReadFile(migrationPath) // #nosec G304
	require.NoError(t, err, "failed to read migration file")

	_, err = database.ExecContext(context.Background(), string(sqlBytes))
	require.NoError(t, err, "failed to run migration")

	_, err = database.ExecContext(context.Background(), `TRUNCATE transactions, accounts RESTART IDENTITY CASCADE`)
	require.NoError(t, err, "failed to truncate tables")

	return NewPostgresStore(database)
}

func TestPostgresStore_Accounts(t *testing.T) {
	s := setupPostgres(t)
	ctx := context.Background()

	created, err := s.CreateAccount(ctx, newTestAccount("pg_alice", "****9001", 10000))
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	byID, err := s.GetAccount(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "pg_alice", byID.Username)
	assert.Equal(t, int64(10000), byID.BalanceCents)

	byName, err := s.GetAccountByUsername(ctx, "pg_alice")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byName.ID)

	_, err = s.GetAccount(ctx, created.ID+1000)
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, err = s.CreateAccount(ctx, newTestAccount("pg_alice", "****9002", 0))
	assert.ErrorIs(t, err, models.ErrDuplicateAccount)

	_, err = s.CreateAccount(ctx, newTestAccount("pg_bob", "****9001", 0))
	assert.ErrorIs(t, err, models.ErrDuplicateAccount)
}

func TestPostgresStore_RecordAndList(t *testing.T) {
	s := setupPostgres(t)
	ctx := context.Background()

	acct, err := s.CreateAccount(ctx, newTestAccount("pg_carol", "****9003", 10000))
	require.NoError(t, err)

	txn, err := s.RecordTransaction(ctx, acct.ID, 15000, &models.Transaction{
		Type:        models.TransactionTypeDeposit,
		AmountCents: 5000,
		ReferenceID: "TXNPG0001",
	})
	require.NoError(t, err)
	assert.NotZero(t, txn.ID)
	assert.Equal(t, int64(15000), txn.BalanceAfterCents)

	updated, err := s.GetAccount(ctx, acct.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(15000), updated.BalanceCents)

	t.Run("duplicate reference aborts atomically", func(t *testing.T) {
		_, err := s.RecordTransaction(ctx, acct.ID, 20000, &models.Transaction{
			Type:        models.TransactionTypeDeposit,
			AmountCents: 5000,
			ReferenceID: "TXNPG0001",
		})
		assert.ErrorIs(t, err, models.ErrDuplicateReference)

		after, err := s.GetAccount(ctx, acct.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(15000), after.BalanceCents, "failed append must not move the balance")
	})

	t.Run("unknown account", func(t *testing.T) {
		_, err := s.RecordTransaction(ctx, acct.ID+1000, 100, &models.Transaction{
			Type:        models.TransactionTypeDeposit,
			AmountCents: 100,
			ReferenceID: "TXNPG0002",
		})
		assert.ErrorIs(t, err, models.ErrNotFound)
	})

	t.Run("list newest first", func(t *testing.T) {
		balance := int64(15000)
		for i := range 3 {
			balance += 1000
			_, err := s.RecordTransaction(ctx, acct.ID, balance, &models.Transaction{
				Type:        models.TransactionTypeDeposit,
				AmountCents: 1000,
				ReferenceID: fmt.Sprintf("TXNPGL%03d", i),
				CreatedAt:   time.Now().UTC().Add(time.Duration(i) * time.Second),
			})
			require.NoError(t, err)
		}

		txns, err := s.ListTransactions(ctx, acct.ID)
		require.NoError(t, err)
		require.Len(t, txns, 4)
		for i := 1; i < len(txns); i++ {
			assert.False(t, txns[i].CreatedAt.After(txns[i-1].CreatedAt))
		}
		assert.Equal(t, balance, txns[0].BalanceAfterCents)
	})
}
