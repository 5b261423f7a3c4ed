package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// NotificationEvent is delivered to the user after a completed wallet
// operation. Delivery is best effort and never blocks the ledger path.
type NotificationEvent struct {
	UserID         int64           `json:"user_id"`
	Kind           string          `json:"kind"`
	OrderID        *uuid.UUID      `json:"order_id,omitempty"`
	Amount         decimal.Decimal `json:"amount"`
	CashbackAmount decimal.Decimal `json:"cashback_amount"`
}

const (
	EventRedemptionCompleted = "redemption_completed"
	EventWalletToppedUp      = "wallet_topped_up"
)
