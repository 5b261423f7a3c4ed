package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus describes redemption order lifecycle.
type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderCompleted OrderStatus = "completed"
	OrderFailed    OrderStatus = "failed"
)

// Order records one redemption attempt. Exactly one row exists per
// idempotency key; the row is immutable after creation except the status
// transition.
type Order struct {
	ID             uuid.UUID
	UserID         int64
	PartnerID      int64
	OriginalAmount decimal.Decimal
	DiscountAmount decimal.Decimal
	CashbackAmount decimal.Decimal
	FinalAmount    decimal.Decimal
	IdempotencyKey string
	Status         OrderStatus
	CreatedAt      time.Time
}

// Terminal reports whether the order reached a final status.
func (o *Order) Terminal() bool {
	return o.Status == OrderCompleted || o.Status == OrderFailed
}

// Result builds the caller-visible outcome from the stored order so retried
// requests observe an identical payload.
func (o *Order) Result() *RedemptionResult {
	return &RedemptionResult{
		OrderID:        o.ID,
		FinalAmount:    o.FinalAmount,
		DiscountAmount: o.DiscountAmount,
		CashbackAmount: o.CashbackAmount,
	}
}

// RedemptionResult is returned to the merchant terminal after a scan.
type RedemptionResult struct {
	OrderID        uuid.UUID
	FinalAmount    decimal.Decimal
	DiscountAmount decimal.Decimal
	CashbackAmount decimal.Decimal
}

// RedemptionCommand is the atomic unit handed to storage: claim the token,
// create the order, move the money.
type RedemptionCommand struct {
	TokenCode string
	Order     Order
}

// RedemptionOutcome reports what the atomic unit did. Created is false when
// the idempotency key already had an order; Order then holds the prior row.
type RedemptionOutcome struct {
	Order   *Order
	Created bool
}
