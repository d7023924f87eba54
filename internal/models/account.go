package models

import "time"

// Account represents an ATM user with login credentials and a current balance.
//
// PIN is compared by exact equality at login and must never reach a client;
// the json tag is a safety net on top of the DTO layer, which re-maps fields
// explicitly.
type Account struct {
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
	Username      string    `db:"username"`
	PIN           string    `db:"pin" json:"-"`
	Name          string    `db:"name"`
	AccountNumber string    `db:"account_number"`
	BalanceCents  int64     `db:"balance_cents"`
	ID            int64     `db:"id"`
}
