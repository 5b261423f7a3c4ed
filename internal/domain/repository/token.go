package repository

import (
	"context"
	"time"

	"github.com/yessgo/yesspay/internal/domain/model"
)

// TokenRepository persists redemption tokens. The redeemed flag is flipped
// only by the ledger repository inside the redemption transaction.
type TokenRepository interface {
	Create(ctx context.Context, token *model.RedemptionToken) error
	GetByCode(ctx context.Context, code string) (*model.RedemptionToken, error)
	DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
