package usecase

import (
	"github.com/shopspring/decimal"

	domainErrors "github.com/yessgo/yesspay/internal/domain/errors"
	"github.com/yessgo/yesspay/internal/domain/model"
)

var hundred = decimal.NewFromInt(100)

// ComputePolicy derives discount and cashback from the partner policy and
// the order amount. The requested percent is capped by the policy; cashback
// is computed on the post-discount amount. All amounts are rounded
// half-away-from-zero to 2 decimal places.
func ComputePolicy(orderAmount, requestedPercent decimal.Decimal, policy model.PartnerPolicy) (model.PolicyResult, error) {
	var zero model.PolicyResult

	if !orderAmount.IsPositive() {
		return zero, domainErrors.ErrInvalidAmount
	}
	if requestedPercent.IsNegative() || requestedPercent.GreaterThan(hundred) {
		return zero, domainErrors.ErrInvalidDiscount
	}
	if policy.MaxDiscountPercent.IsNegative() || policy.MaxDiscountPercent.GreaterThan(hundred) ||
		policy.CashbackRate.IsNegative() || policy.CashbackRate.GreaterThan(hundred) {
		return zero, domainErrors.ErrInvalidDiscount
	}

	percent := requestedPercent
	if percent.GreaterThan(policy.MaxDiscountPercent) {
		percent = policy.MaxDiscountPercent
	}

	discount := orderAmount.Mul(percent).Div(hundred).Round(2)
	final := orderAmount.Round(2).Sub(discount)
	if final.IsNegative() {
		return zero, domainErrors.ErrInvalidDiscount
	}
	cashback := final.Mul(policy.CashbackRate).Div(hundred).Round(2)

	return model.PolicyResult{
		DiscountAmount: discount,
		CashbackAmount: cashback,
		FinalAmount:    final,
	}, nil
}
