package usecase

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	domainErrors "github.com/yessgo/yesspay/internal/domain/errors"
	"github.com/yessgo/yesspay/internal/domain/model"
	"github.com/yessgo/yesspay/internal/domain/repository"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// WalletUseCase exposes balance reads, transaction history and top-ups.
type WalletUseCase struct {
	wallets      repository.WalletRepository
	transactions repository.TransactionRepository
	ledger       repository.LedgerRepository
	notifier     Notifier
}

// NewWalletUseCase constructs WalletUseCase.
func NewWalletUseCase(w repository.WalletRepository, t repository.TransactionRepository, l repository.LedgerRepository, n Notifier) *WalletUseCase {
	return &WalletUseCase{wallets: w, transactions: t, ledger: l, notifier: n}
}

// Balance returns the current wallet balance. Users without a wallet row
// yet simply have a zero balance.
func (u *WalletUseCase) Balance(ctx context.Context, userID int64) (decimal.Decimal, error) {
	wallet, err := u.wallets.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return decimal.Zero, nil
		}
		return decimal.Zero, err
	}
	return wallet.Balance, nil
}

// History returns a page of the transaction ledger, newest first, together
// with the total entry count.
func (u *WalletUseCase) History(ctx context.Context, userID int64, page, pageSize int) ([]model.Transaction, int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return u.transactions.ListByUser(ctx, userID, page, pageSize)
}

// TopUp credits the wallet through the ledger writer.
func (u *WalletUseCase) TopUp(ctx context.Context, userID int64, amount decimal.Decimal) (*model.Transaction, error) {
	if !amount.IsPositive() {
		return nil, domainErrors.ErrInvalidAmount
	}

	txn, err := u.ledger.Apply(ctx, model.LedgerEntry{
		UserID: userID,
		Type:   model.TransactionTopUp,
		Amount: amount.Round(2),
	})
	if err != nil {
		return nil, err
	}

	u.notifier.Notify(model.NotificationEvent{
		UserID: userID,
		Kind:   model.EventWalletToppedUp,
		Amount: txn.Amount,
	})
	return txn, nil
}
