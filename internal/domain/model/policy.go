package model

import "github.com/shopspring/decimal"

// PartnerPolicy is the read-only pricing policy owned by the partner
// directory. Percentages are expressed in [0, 100].
type PartnerPolicy struct {
	PartnerID          int64
	MaxDiscountPercent decimal.Decimal
	CashbackRate       decimal.Decimal
}

// PolicyResult carries the amounts derived from an order and a policy.
type PolicyResult struct {
	DiscountAmount decimal.Decimal
	CashbackAmount decimal.Decimal
	FinalAmount    decimal.Decimal
}
