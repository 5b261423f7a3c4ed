package repository

import (
	"context"
	"time"

	"github.com/yessgo/yesspay/internal/domain/model"
)

// OrderRepository reads redemption orders. Creation happens only inside the
// redemption transaction owned by LedgerRepository.
type OrderRepository interface {
	GetByIdempotencyKey(ctx context.Context, key string) (*model.Order, error)
	// ReleaseKeysBefore clears idempotency keys of terminal orders older than
	// cutoff so storage can stop enforcing uniqueness for them. Ledger rows
	// stay untouched.
	ReleaseKeysBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
