package test

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/yessgo/yesspay/internal/domain/model"
)

// QRFacadeStub provides controllable behaviour for QR endpoints.
type QRFacadeStub struct {
	IssueFn    func(context.Context, int64) (*model.RedemptionToken, error)
	ValidateFn func(context.Context, string) (*model.RedemptionToken, error)
	ScanFn     func(context.Context, string, decimal.Decimal, decimal.Decimal, int64, string) (*model.RedemptionResult, error)
}

// IssueQR delegates to the override or returns a fresh active token.
func (s QRFacadeStub) IssueQR(ctx context.Context, userID int64) (*model.RedemptionToken, error) {
	if s.IssueFn != nil {
		return s.IssueFn(ctx, userID)
	}
	now := time.Now()
	return &model.RedemptionToken{
		Code:      "stub-code",
		UserID:    userID,
		IssuedAt:  now,
		ExpiresAt: now.Add(3 * time.Minute),
	}, nil
}

// ValidateQR delegates to the override or echoes an active token.
func (s QRFacadeStub) ValidateQR(ctx context.Context, code string) (*model.RedemptionToken, error) {
	if s.ValidateFn != nil {
		return s.ValidateFn(ctx, code)
	}
	now := time.Now()
	return &model.RedemptionToken{
		Code:      code,
		UserID:    1,
		IssuedAt:  now,
		ExpiresAt: now.Add(3 * time.Minute),
	}, nil
}

// Scan delegates to the override or returns a deterministic result.
func (s QRFacadeStub) Scan(ctx context.Context, code string, amount, requestedPercent decimal.Decimal, partnerID int64, idempotencyKey string) (*model.RedemptionResult, error) {
	if s.ScanFn != nil {
		return s.ScanFn(ctx, code, amount, requestedPercent, partnerID, idempotencyKey)
	}
	return &model.RedemptionResult{
		OrderID:        uuid.New(),
		FinalAmount:    amount,
		DiscountAmount: decimal.Zero,
		CashbackAmount: decimal.Zero,
	}, nil
}

// WalletFacadeStub simulates balance, history and top-up operations.
type WalletFacadeStub struct {
	BalanceFn func(context.Context, int64) (decimal.Decimal, error)
	HistoryFn func(context.Context, int64, int, int) ([]model.Transaction, int, error)
	TopUpFn   func(context.Context, int64, decimal.Decimal) (*model.Transaction, error)
}

// Balance delegates to the override or reports a zero balance.
func (s WalletFacadeStub) Balance(ctx context.Context, userID int64) (decimal.Decimal, error) {
	if s.BalanceFn != nil {
		return s.BalanceFn(ctx, userID)
	}
	return decimal.Zero, nil
}

// History delegates to the override or returns an empty page.
func (s WalletFacadeStub) History(ctx context.Context, userID int64, page, pageSize int) ([]model.Transaction, int, error) {
	if s.HistoryFn != nil {
		return s.HistoryFn(ctx, userID, page, pageSize)
	}
	return nil, 0, nil
}

// TopUp delegates to the override or echoes a completed transaction.
func (s WalletFacadeStub) TopUp(ctx context.Context, userID int64, amount decimal.Decimal) (*model.Transaction, error) {
	if s.TopUpFn != nil {
		return s.TopUpFn(ctx, userID, amount)
	}
	now := time.Now()
	return &model.Transaction{
		ID:           1,
		UserID:       userID,
		Type:         model.TransactionTopUp,
		Amount:       amount,
		BalanceAfter: amount,
		Status:       model.TransactionCompleted,
		CreatedAt:    now,
		CompletedAt:  &now,
	}, nil
}
