package repository

import (
	"context"

	"github.com/yessgo/yesspay/internal/domain/model"
)

// TransactionRepository provides read access to the ledger.
type TransactionRepository interface {
	ListByUser(ctx context.Context, userID int64, page, pageSize int) ([]model.Transaction, int, error)
}
