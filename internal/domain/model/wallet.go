package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Wallet holds the spendable balance of a single user. Every mutation goes
// through the ledger writer and is paired with exactly one Transaction.
type Wallet struct {
	ID        int64
	UserID    int64
	Balance   decimal.Decimal
	UpdatedAt time.Time
}
