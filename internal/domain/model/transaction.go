package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType classifies ledger entries. Credits grow the balance,
// debits shrink it.
type TransactionType string

const (
	TransactionTopUp    TransactionType = "topup"
	TransactionPayment  TransactionType = "payment"
	TransactionBonus    TransactionType = "bonus"
	TransactionRefund   TransactionType = "refund"
	TransactionDiscount TransactionType = "discount"
)

// Credit reports whether the type adds to the wallet balance.
func (t TransactionType) Credit() bool {
	switch t {
	case TransactionTopUp, TransactionBonus, TransactionRefund:
		return true
	default:
		return false
	}
}

// TransactionStatus describes transaction lifecycle.
type TransactionStatus string

const (
	TransactionPending   TransactionStatus = "pending"
	TransactionCompleted TransactionStatus = "completed"
	TransactionFailed    TransactionStatus = "failed"
)

// Transaction is an append-only ledger entry. Once completed or failed it is
// never mutated; BalanceAfter always equals BalanceBefore plus or minus
// Amount depending on the type.
type Transaction struct {
	ID            int64
	UserID        int64
	Type          TransactionType
	Amount        decimal.Decimal
	BalanceBefore decimal.Decimal
	BalanceAfter  decimal.Decimal
	Status        TransactionStatus
	PartnerID     *int64
	OrderID       *uuid.UUID
	CreatedAt     time.Time
	CompletedAt   *time.Time
}

// LedgerEntry describes a single wallet mutation to apply.
type LedgerEntry struct {
	UserID    int64
	Type      TransactionType
	Amount    decimal.Decimal
	PartnerID *int64
	OrderID   *uuid.UUID
}
