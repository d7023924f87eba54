package service

import (
	"context"
	"sync"
	"testing"

	"github.com/mkalobwe/atm-ledger/internal/models"
	"github.com/mkalobwe/atm-ledger/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLedger(t *testing.T, balanceCents int64) (*LedgerService, *models.Account) {
	t.Helper()

	s := store.NewMemStore()
	acct, err := s.CreateAccount(context.Background(), &models.Account{
		Username:      "alice",
		PIN:           "1234",
		Name:          "Alice Example",
		AccountNumber: "****0001",
		BalanceCents:  balanceCents,
	})
	require.NoError(t, err)

	return NewLedgerService(s), acct
}

func assertCode(t *testing.T, err error, code string) {
	t.Helper()

	var svcErr *ServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, code, svcErr.Code)
}

func TestLedgerService_Deposit(t *testing.T) {
	ctx := context.Background()

	t.Run("deposit updates balance and records entry", func(t *testing.T) {
		svc, acct := newTestLedger(t, 10000) // 100.00

		updated, txn, err := svc.Deposit(ctx, acct.ID, 5000) // 50.00
		require.NoError(t, err)

		assert.Equal(t, int64(15000), updated.BalanceCents)
		assert.Equal(t, models.TransactionTypeDeposit, txn.Type)
		assert.Equal(t, int64(5000), txn.AmountCents)
		assert.Equal(t, int64(15000), txn.BalanceAfterCents)
		assert.Regexp(t, `^TXN[0-9A-F]{6}$`, txn.ReferenceID)

		txns, err := svc.ListTransactions(ctx, acct.ID)
		require.NoError(t, err)
		require.Len(t, txns, 1)
		assert.Equal(t, txn.ReferenceID, txns[0].ReferenceID)
	})

	t.Run("zero amount rejected", func(t *testing.T) {
		svc, acct := newTestLedger(t, 10000)

		_, _, err := svc.Deposit(ctx, acct.ID, 0)
		assertCode(t, err, ErrCodeInvalidAmount)

		txns, err := svc.ListTransactions(ctx, acct.ID)
		require.NoError(t, err)
		assert.Empty(t, txns, "rejected deposit must not touch the ledger")
	})

	t.Run("negative amount rejected", func(t *testing.T) {
		svc, acct := newTestLedger(t, 10000)

		_, _, err := svc.Deposit(ctx, acct.ID, -500)
		assertCode(t, err, ErrCodeInvalidAmount)
	})

	t.Run("unknown account", func(t *testing.T) {
		svc, _ := newTestLedger(t, 10000)

		_, _, err := svc.Deposit(ctx, 99, 100)
		assertCode(t, err, ErrCodeAccountNotFound)
	})
}

func TestLedgerService_Withdraw(t *testing.T) {
	ctx := context.Background()

	t.Run("withdrawal updates balance and records entry", func(t *testing.T) {
		svc, acct := newTestLedger(t, 10000)

		updated, txn, err := svc.Withdraw(ctx, acct.ID, 4000)
		require.NoError(t, err)

		assert.Equal(t, int64(6000), updated.BalanceCents)
		assert.Equal(t, models.TransactionTypeWithdrawal, txn.Type)
		assert.Equal(t, int64(6000), txn.BalanceAfterCents)
	})

	t.Run("insufficient funds leaves state untouched", func(t *testing.T) {
		svc, acct := newTestLedger(t, 10000) // 100.00

		_, _, err := svc.Withdraw(ctx, acct.ID, 15000) // 150.00
		assertCode(t, err, ErrCodeInsufficientFunds)

		after, err := svc.GetAccount(ctx, acct.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(10000), after.BalanceCents)

		txns, err := svc.ListTransactions(ctx, acct.ID)
		require.NoError(t, err)
		assert.Empty(t, txns)
	})

	t.Run("withdrawing the full balance succeeds", func(t *testing.T) {
		svc, acct := newTestLedger(t, 10000)

		updated, txn, err := svc.Withdraw(ctx, acct.ID, 10000)
		require.NoError(t, err)
		assert.Equal(t, int64(0), updated.BalanceCents)
		assert.Equal(t, int64(0), txn.BalanceAfterCents)
	})

	t.Run("non-positive amount rejected", func(t *testing.T) {
		svc, acct := newTestLedger(t, 10000)

		_, _, err := svc.Withdraw(ctx, acct.ID, 0)
		assertCode(t, err, ErrCodeInvalidAmount)
	})
}

func TestLedgerService_Ordering(t *testing.T) {
	ctx := context.Background()
	svc, acct := newTestLedger(t, 10000)

	_, _, err := svc.Deposit(ctx, acct.ID, 1000) // 10.00
	require.NoError(t, err)
	_, _, err = svc.Deposit(ctx, acct.ID, 2000) // 20.00
	require.NoError(t, err)

	txns, err := svc.ListTransactions(ctx, acct.ID)
	require.NoError(t, err)
	require.Len(t, txns, 2)

	// Most recent first: the 20.00 entry precedes the 10.00 entry
	assert.Equal(t, int64(2000), txns[0].AmountCents)
	assert.Equal(t, int64(1000), txns[1].AmountCents)
	assert.NotEqual(t, txns[0].ReferenceID, txns[1].ReferenceID)
}

func TestLedgerService_Authenticate(t *testing.T) {
	ctx := context.Background()
	svc, acct := newTestLedger(t, 10000)

	t.Run("correct credentials", func(t *testing.T) {
		got, err := svc.Authenticate(ctx, "alice", "1234")
		require.NoError(t, err)
		assert.Equal(t, acct.ID, got.ID)
	})

	t.Run("wrong PIN", func(t *testing.T) {
		got, err := svc.Authenticate(ctx, "alice", "0000")
		assert.Nil(t, got)
		assertCode(t, err, ErrCodeInvalidCredentials)
	})

	t.Run("unknown username reads the same as wrong PIN", func(t *testing.T) {
		_, errUnknown := svc.Authenticate(ctx, "nobody", "1234")
		_, errWrongPIN := svc.Authenticate(ctx, "alice", "0000")
		assert.Equal(t, errUnknown.Error(), errWrongPIN.Error())
	})
}

func TestLedgerService_CreateAccount(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestLedger(t, 10000)

	t.Run("valid account", func(t *testing.T) {
		created, err := svc.CreateAccount(ctx, &models.Account{
			Username:      "bob",
			PIN:           "5678",
			Name:          "Bob Example",
			AccountNumber: "****0002",
			BalanceCents:  5000,
		})
		require.NoError(t, err)
		assert.NotZero(t, created.ID)
	})

	t.Run("duplicate username", func(t *testing.T) {
		_, err := svc.CreateAccount(ctx, &models.Account{
			Username:      "alice",
			PIN:           "5678",
			Name:          "Impostor",
			AccountNumber: "****0003",
		})
		assertCode(t, err, ErrCodeDuplicateAccount)
	})

	t.Run("bad PIN", func(t *testing.T) {
		_, err := svc.CreateAccount(ctx, &models.Account{
			Username:      "carol",
			PIN:           "12",
			Name:          "Carol Example",
			AccountNumber: "****0004",
		})
		assertCode(t, err, ErrCodeInvalidAccount)
	})

	t.Run("negative starting balance", func(t *testing.T) {
		_, err := svc.CreateAccount(ctx, &models.Account{
			Username:      "dave",
			PIN:           "1111",
			Name:          "Dave Example",
			AccountNumber: "****0005",
			BalanceCents:  -1,
		})
		assertCode(t, err, ErrCodeInvalidAmount)
	})
}

func TestLedgerService_BalanceConservation(t *testing.T) {
	ctx := context.Background()
	const initial = int64(100000)
	svc, acct := newTestLedger(t, initial)

	deposits := []int64{1500, 2700, 99}
	withdrawals := []int64{500, 1200}
	for _, amount := range deposits {
		_, _, err := svc.Deposit(ctx, acct.ID, amount)
		require.NoError(t, err)
	}
	for _, amount := range withdrawals {
		_, _, err := svc.Withdraw(ctx, acct.ID, amount)
		require.NoError(t, err)
	}

	txns, err := svc.ListTransactions(ctx, acct.ID)
	require.NoError(t, err)

	derived := initial
	for _, txn := range txns {
		switch txn.Type {
		case models.TransactionTypeDeposit:
			derived += txn.AmountCents
		case models.TransactionTypeWithdrawal:
			derived -= txn.AmountCents
		}
	}

	after, err := svc.GetAccount(ctx, acct.ID)
	require.NoError(t, err)
	assert.Equal(t, derived, after.BalanceCents)
}

func TestLedgerService_ConcurrentWithdrawals(t *testing.T) {
	ctx := context.Background()
	const (
		initial  = int64(100000) // 1000.00
		workers  = 50
		amount   = int64(1000) // 10.00 each
		expected = initial - workers*amount
	)
	svc, acct := newTestLedger(t, initial)

	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, errs[i] = svc.Withdraw(ctx, acct.ID, amount)
		}()
	}
	wg.Wait()

	for i, err := range errs {
		require.NoError(t, err, "withdrawal %d failed", i)
	}

	after, err := svc.GetAccount(ctx, acct.ID)
	require.NoError(t, err)
	assert.Equal(t, expected, after.BalanceCents, "lost update: concurrent withdrawals interleaved")

	txns, err := svc.ListTransactions(ctx, acct.ID)
	require.NoError(t, err)
	assert.Len(t, txns, workers)

	// Every entry's balanceAfter must be unique: each withdrawal saw a
	// distinct starting balance
	seen := make(map[int64]struct{})
	for _, txn := range txns {
		_, dup := seen[txn.BalanceAfterCents]
		assert.False(t, dup, "two transactions recorded the same resulting balance")
		seen[txn.BalanceAfterCents] = struct{}{}
	}
}

func TestLedgerService_ConcurrentMixedAccounts(t *testing.T) {
	ctx := context.Background()

	s := store.NewMemStore()
	svc := NewLedgerService(s)

	var ids []int64
	for _, username := range []string{"u1", "u2", "u3"} {
		acct, err := s.CreateAccount(ctx, &models.Account{
			Username:      username,
			PIN:           "1234",
			Name:          "User " + username,
			AccountNumber: "****" + username,
			BalanceCents:  50000,
		})
		require.NoError(t, err)
		ids = append(ids, acct.ID)
	}

	var wg sync.WaitGroup
	for _, id := range ids {
		for range 20 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, _, err := svc.Deposit(ctx, id, 100)
				assert.NoError(t, err)
			}()
		}
	}
	wg.Wait()

	for _, id := range ids {
		acct, err := svc.GetAccount(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, int64(50000+20*100), acct.BalanceCents)
	}
}
