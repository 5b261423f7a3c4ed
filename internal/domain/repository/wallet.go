package repository

import (
	"context"

	"github.com/yessgo/yesspay/internal/domain/model"
)

// WalletRepository reads wallet state. Mutations happen only through the
// ledger writer.
type WalletRepository interface {
	GetByUserID(ctx context.Context, userID int64) (*model.Wallet, error)
}
