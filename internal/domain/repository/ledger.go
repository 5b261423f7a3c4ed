package repository

import (
	"context"

	"github.com/yessgo/yesspay/internal/domain/model"
)

// LedgerRepository owns every wallet mutation. Both operations run under a
// row lock on the wallet and either commit fully or leave no trace.
type LedgerRepository interface {
	// Apply locks the wallet, rejects debits that would go negative and
	// appends exactly one completed transaction.
	Apply(ctx context.Context, entry model.LedgerEntry) (*model.Transaction, error)
	// ExecuteRedemption runs the atomic redemption unit: order insert with
	// the idempotency-key constraint, conditional token claim, payment debit
	// and cashback credit. A duplicate key yields the prior order with
	// Created=false instead of an error.
	ExecuteRedemption(ctx context.Context, cmd model.RedemptionCommand) (*model.RedemptionOutcome, error)
}
