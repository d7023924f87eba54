package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mkalobwe/atm-ledger/internal/models"
)

// demoAccounts are the fixed demo users provisioned for the ATM simulation.
// Balances are the post-history balances shown on the dashboard.
var demoAccounts = []struct {
	username     string
	pin          string
	name         string
	number       string
	balanceCents int64
}{
	{"demo1", "1234", "John Smith", "****1234", 254876},
	{"demo2", "5678", "Jane Doe", "****5678", 187550},
	{"muma", "9999", "Muma Kalobwe", "****9999", 543210},
	{"alex", "7890", "Alex Johnson", "****7890", 321025},
	{"sarah", "4567", "Sarah Williams", "****4567", 198765},
}

// Seed provisions the demo account set, each with a day-old withdrawal and a
// recent deposit so the history view has something to show. It is idempotent:
// if the first demo user already exists the whole seed is skipped.
func Seed(ctx context.Context, s Store, logger *slog.Logger) error {
	if _, err := s.GetAccountByUsername(ctx, demoAccounts[0].username); err == nil {
		logger.Info("demo data already seeded, skipping")
		return nil
	} else if !errors.Is(err, models.ErrNotFound) {
		return fmt.Errorf("failed to check for existing seed data: %w", err)
	}

	const (
		seedDepositCents    = 50000 // 500.00
		seedWithdrawalCents = 20000 // 200.00
	)

	refCounter := 0
	nextRef := func() string {
		refCounter++
		return fmt.Sprintf("TXN%06d", refCounter)
	}

	yesterday := time.Now().UTC().Add(-24 * time.Hour)

	for _, demo := range demoAccounts {
		// Work history backwards from the displayed balance so the ledger
		// stays conserved: withdrawal yesterday, deposit today.
		acct, err := s.CreateAccount(ctx, &models.Account{
			Username:      demo.username,
			PIN:           demo.pin,
			Name:          demo.name,
			AccountNumber: demo.number,
			BalanceCents:  demo.balanceCents - seedDepositCents + seedWithdrawalCents,
		})
		if err != nil {
			return fmt.Errorf("failed to seed account %s: %w", demo.username, err)
		}

		_, err = s.RecordTransaction(ctx, acct.ID, demo.balanceCents-seedDepositCents, &models.Transaction{
			Type:        models.TransactionTypeWithdrawal,
			AmountCents: seedWithdrawalCents,
			ReferenceID: nextRef(),
			CreatedAt:   yesterday,
		})
		if err != nil {
			return fmt.Errorf("failed to seed withdrawal for %s: %w", demo.username, err)
		}

		_, err = s.RecordTransaction(ctx, acct.ID, demo.balanceCents, &models.Transaction{
			Type:        models.TransactionTypeDeposit,
			AmountCents: seedDepositCents,
			ReferenceID: nextRef(),
		})
		if err != nil {
			return fmt.Errorf("failed to seed deposit for %s: %w", demo.username, err)
		}
	}

	logger.Info("seeded demo data", "accounts", len(demoAccounts))
	return nil
}
