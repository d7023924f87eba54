package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/mkalobwe/atm-ledger/internal/models"
	"github.com/mkalobwe/atm-ledger/internal/store"
)

// referenceRetries bounds how often a colliding reference code is regenerated
const referenceRetries = 5

// LedgerService is the single writer of account balances. Deposit and
// Withdraw serialize per account so two concurrent operations on the same
// account can never interleave their read-compute-write sequence; operations
// on different accounts proceed in parallel.
type LedgerService struct {
	store store.Store

	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

// NewLedgerService creates a new LedgerService on top of the given store.
func NewLedgerService(s store.Store) *LedgerService {
	return &LedgerService{
		store: s,
		locks: make(map[int64]*sync.Mutex),
	}
}

// accountLock returns the mutex serializing mutations for one account.
// Locks are created on demand and kept for the process lifetime; the demo
// account set is small and bounded.
func (s *LedgerService) accountLock(accountID int64) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, ok := s.locks[accountID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[accountID] = lock
	}
	return lock
}

// Authenticate verifies a username/PIN pair and returns the account on an
// exact match. Unknown usernames and wrong PINs produce the same error so
// login failures leak nothing about which half was wrong.
func (s *LedgerService) Authenticate(ctx context.Context, username, pin string) (*models.Account, error) {
	acct, err := s.store.GetAccountByUsername(ctx, username)
	if errors.Is(err, models.ErrNotFound) {
		return nil, &ServiceError{
			Code:    ErrCodeInvalidCredentials,
			Message: "invalid username or PIN",
		}
	}
	if err != nil {
		return nil, &ServiceError{
			Code:    ErrCodeInternalError,
			Message: "failed to look up account",
			Err:     err,
		}
	}

	if acct.PIN != pin {
		return nil, &ServiceError{
			Code:    ErrCodeInvalidCredentials,
			Message: "invalid username or PIN",
		}
	}

	return acct, nil
}

// GetAccount retrieves an account by ID.
func (s *LedgerService) GetAccount(ctx context.Context, accountID int64) (*models.Account, error) {
	acct, err := s.store.GetAccount(ctx, accountID)
	if errors.Is(err, models.ErrNotFound) {
		return nil, &ServiceError{
			Code:    ErrCodeAccountNotFound,
			Message: "account not found",
		}
	}
	if err != nil {
		return nil, &ServiceError{
			Code:    ErrCodeInternalError,
			Message: "failed to look up account",
			Err:     err,
		}
	}
	return acct, nil
}

// CreateAccount provisions a new account with the given credentials and
// starting balance.
func (s *LedgerService) CreateAccount(ctx context.Context, acct *models.Account) (*models.Account, error) {
	if err := ValidateUsername(acct.Username); err != nil {
		return nil, &ServiceError{Code: ErrCodeInvalidAccount, Message: err.Error()}
	}
	if err := ValidatePIN(acct.PIN); err != nil {
		return nil, &ServiceError{Code: ErrCodeInvalidAccount, Message: err.Error()}
	}
	if acct.Name == "" || acct.AccountNumber == "" {
		return nil, &ServiceError{
			Code:    ErrCodeInvalidAccount,
			Message: "name and account number are required",
		}
	}
	if acct.BalanceCents < 0 {
		return nil, &ServiceError{
			Code:    ErrCodeInvalidAmount,
			Message: "starting balance cannot be negative",
		}
	}

	created, err := s.store.CreateAccount(ctx, acct)
	if errors.Is(err, models.ErrDuplicateAccount) {
		return nil, &ServiceError{
			Code:    ErrCodeDuplicateAccount,
			Message: "username or account number already in use",
		}
	}
	if err != nil {
		return nil, &ServiceError{
			Code:    ErrCodeInternalError,
			Message: "failed to create account",
			Err:     err,
		}
	}

	return created, nil
}

// Deposit adds amountCents to the account balance and records a deposit
// transaction, atomically.
func (s *LedgerService) Deposit(ctx context.Context, accountID, amountCents int64) (*models.Account, *models.Transaction, error) {
	if err := ValidateAmount(amountCents); err != nil {
		return nil, nil, &ServiceError{Code: ErrCodeInvalidAmount, Message: err.Error()}
	}

	lock := s.accountLock(accountID)
	lock.Lock()
	defer lock.Unlock()

	return s.applyTransaction(ctx, accountID, models.TransactionTypeDeposit, amountCents)
}

// Withdraw subtracts amountCents from the account balance and records a
// withdrawal transaction, atomically. A withdrawal equal to the full balance
// succeeds; anything larger is rejected with insufficient_funds.
func (s *LedgerService) Withdraw(ctx context.Context, accountID, amountCents int64) (*models.Account, *models.Transaction, error) {
	if err := ValidateAmount(amountCents); err != nil {
		return nil, nil, &ServiceError{Code: ErrCodeInvalidAmount, Message: err.Error()}
	}

	lock := s.accountLock(accountID)
	lock.Lock()
	defer lock.Unlock()

	return s.applyTransaction(ctx, accountID, models.TransactionTypeWithdrawal, amountCents)
}

// applyTransaction runs the read-compute-write triple under the caller-held
// account lock. Any failure leaves balance and ledger unchanged; the store's
// RecordTransaction applies both writes as one atomic unit.
func (s *LedgerService) applyTransaction(ctx context.Context, accountID int64, kind models.TransactionType, amountCents int64) (*models.Account, *models.Transaction, error) {
	acct, err := s.store.GetAccount(ctx, accountID)
	if errors.Is(err, models.ErrNotFound) {
		return nil, nil, &ServiceError{
			Code:    ErrCodeAccountNotFound,
			Message: "account not found",
		}
	}
	if err != nil {
		return nil, nil, &ServiceError{
			Code:    ErrCodeInternalError,
			Message: "failed to look up account",
			Err:     err,
		}
	}

	var newBalance int64
	switch kind {
	case models.TransactionTypeDeposit:
		newBalance = acct.BalanceCents + amountCents
	case models.TransactionTypeWithdrawal:
		if amountCents > acct.BalanceCents {
			return nil, nil, &ServiceError{
				Code:    ErrCodeInsufficientFunds,
				Message: "insufficient funds",
			}
		}
		newBalance = acct.BalanceCents - amountCents
	default:
		return nil, nil, &ServiceError{
			Code:    ErrCodeInternalError,
			Message: fmt.Sprintf("unknown transaction type %q", kind),
		}
	}

	txn, err := s.recordWithRetry(ctx, accountID, newBalance, kind, amountCents)
	if err != nil {
		return nil, nil, err
	}

	acct.BalanceCents = newBalance
	acct.UpdatedAt = txn.CreatedAt
	return acct, txn, nil
}

// recordWithRetry appends the ledger entry, regenerating the reference code
// on the rare collision.
func (s *LedgerService) recordWithRetry(ctx context.Context, accountID, newBalance int64, kind models.TransactionType, amountCents int64) (*models.Transaction, error) {
	var lastErr error
	for range referenceRetries {
		txn, err := s.store.RecordTransaction(ctx, accountID, newBalance, &models.Transaction{
			Type:        kind,
			AmountCents: amountCents,
			ReferenceID: NewReferenceID(),
		})
		if errors.Is(err, models.ErrDuplicateReference) {
			lastErr = err
			continue
		}
		if errors.Is(err, models.ErrNotFound) {
			return nil, &ServiceError{
				Code:    ErrCodeAccountNotFound,
				Message: "account not found",
			}
		}
		if err != nil {
			return nil, &ServiceError{
				Code:    ErrCodeInternalError,
				Message: "failed to record transaction",
				Err:     err,
			}
		}
		return txn, nil
	}

	return nil, &ServiceError{
		Code:    ErrCodeInternalError,
		Message: "failed to allocate a unique reference code",
		Err:     lastErr,
	}
}

// ListTransactions returns the account's ledger entries, most recent first.
// The account must exist so a missing account reads as account_not_found
// rather than an empty history.
func (s *LedgerService) ListTransactions(ctx context.Context, accountID int64) ([]*models.Transaction, error) {
	if _, err := s.GetAccount(ctx, accountID); err != nil {
		return nil, err
	}

	txns, err := s.store.ListTransactions(ctx, accountID)
	if err != nil {
		return nil, &ServiceError{
			Code:    ErrCodeInternalError,
			Message: "failed to list transactions",
			Err:     err,
		}
	}
	return txns, nil
}
