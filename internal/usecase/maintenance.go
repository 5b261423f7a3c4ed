package usecase

import (
	"context"
	"time"

	"github.com/yessgo/yesspay/internal/domain/repository"
)

// SweepStats reports what a maintenance pass removed.
type SweepStats struct {
	ExpiredTokens int64
	ReleasedKeys  int64
}

// MaintenanceUseCase garbage-collects expired redemption tokens and
// idempotency keys past their retention window.
type MaintenanceUseCase struct {
	tokens    repository.TokenRepository
	orders    repository.OrderRepository
	retention time.Duration
	now       func() time.Time
}

// NewMaintenanceUseCase constructs MaintenanceUseCase.
func NewMaintenanceUseCase(tokens repository.TokenRepository, orders repository.OrderRepository, retention time.Duration) *MaintenanceUseCase {
	if retention <= 0 {
		retention = 24 * time.Hour
	}
	return &MaintenanceUseCase{tokens: tokens, orders: orders, retention: retention, now: time.Now}
}

// Sweep removes tokens expired longer than the retention window and releases
// idempotency keys of terminal orders older than the same cutoff. Recently
// expired tokens are kept so a late validation still reports them as expired
// rather than unknown.
func (u *MaintenanceUseCase) Sweep(ctx context.Context) (SweepStats, error) {
	var stats SweepStats
	cutoff := u.now().Add(-u.retention)

	tokens, err := u.tokens.DeleteExpiredBefore(ctx, cutoff)
	if err != nil {
		return stats, err
	}
	stats.ExpiredTokens = tokens

	keys, err := u.orders.ReleaseKeysBefore(ctx, cutoff)
	if err != nil {
		return stats, err
	}
	stats.ReleasedKeys = keys

	return stats, nil
}
