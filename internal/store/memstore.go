package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/mkalobwe/atm-ledger/internal/models"
)

// MemStore is an in-memory Store backed by maps and a single RWMutex.
//
// The write lock spans the whole of RecordTransaction, so the balance update
// and the ledger append become visible to readers together. Reads hand out
// copies, never internal pointers.
type MemStore struct {
	mu         sync.RWMutex
	accounts   map[int64]*models.Account
	byUsername map[string]int64
	byNumber   map[string]int64
	ledger     map[int64][]*models.Transaction
	references map[string]struct{}
	nextAcctID int64
	nextTxnID  int64
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{
		accounts:   make(map[int64]*models.Account),
		byUsername: make(map[string]int64),
		byNumber:   make(map[string]int64),
		ledger:     make(map[int64][]*models.Transaction),
		references: make(map[string]struct{}),
	}
}

// GetAccount retrieves an account by its ID.
func (s *MemStore) GetAccount(_ context.Context, id int64) (*models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	acct, ok := s.accounts[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	cp := *acct
	return &cp, nil
}

// GetAccountByUsername retrieves an account by its unique username.
func (s *MemStore) GetAccountByUsername(_ context.Context, username string) (*models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byUsername[username]
	if !ok {
		return nil, models.ErrNotFound
	}
	cp := *s.accounts[id]
	return &cp, nil
}

// CreateAccount stores a new account under a freshly allocated ID. Username
// and account number must both be unused.
func (s *MemStore) CreateAccount(_ context.Context, acct *models.Account) (*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byUsername[acct.Username]; exists {
		return nil, models.ErrDuplicateAccount
	}
	if _, exists := s.byNumber[acct.AccountNumber]; exists {
		return nil, models.ErrDuplicateAccount
	}

	s.nextAcctID++
	now := time.Now().UTC()

	cp := *acct
	cp.ID = s.nextAcctID
	cp.CreatedAt = now
	cp.UpdatedAt = now

	s.accounts[cp.ID] = &cp
	s.byUsername[cp.Username] = cp.ID
	s.byNumber[cp.AccountNumber] = cp.ID

	out := cp
	return &out, nil
}

// RecordTransaction applies a balance update and appends the matching ledger
// entry under one write lock. A zero txn.CreatedAt is stamped with the current
// time; a preset one (used by demo seeding) is kept.
func (s *MemStore) RecordTransaction(_ context.Context, accountID, newBalanceCents int64, txn *models.Transaction) (*models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acct, ok := s.accounts[accountID]
	if !ok {
		return nil, models.ErrNotFound
	}
	if _, exists := s.references[txn.ReferenceID]; exists {
		return nil, models.ErrDuplicateReference
	}

	s.nextTxnID++

	cp := *txn
	cp.ID = s.nextTxnID
	cp.AccountID = accountID
	cp.BalanceAfterCents = newBalanceCents
	if cp.CreatedAt.IsZero() {
		cp.CreatedAt = time.Now().UTC()
	}

	acct.BalanceCents = newBalanceCents
	acct.UpdatedAt = time.Now().UTC()
	s.ledger[accountID] = append(s.ledger[accountID], &cp)
	s.references[cp.ReferenceID] = struct{}{}

	out := cp
	return &out, nil
}

// ListTransactions returns the account's ledger entries, most recent first.
// Entries with identical timestamps fall back to descending ID so the order
// is strict and stable.
func (s *MemStore) ListTransactions(_ context.Context, accountID int64) ([]*models.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := s.ledger[accountID]
	out := make([]*models.Transaction, 0, len(entries))
	for _, txn := range entries {
		cp := *txn
		out = append(out, &cp)
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})

	return out, nil
}

// PingContext always succeeds for the in-memory store.
func (s *MemStore) PingContext(_ context.Context) error {
	return nil
}
