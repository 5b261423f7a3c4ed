package handlers

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/yessgo/yesspay/internal/domain/model"
)

// AuthFacade describes authentication capabilities required by handlers.
type AuthFacade interface {
	Register(ctx context.Context, login, password string) (string, error)
	Authenticate(ctx context.Context, login, password string) (string, error)
	ParseToken(token string) (int64, error)
}

// QRFacade exposes the redemption token lifecycle over HTTP.
type QRFacade interface {
	IssueQR(ctx context.Context, userID int64) (*model.RedemptionToken, error)
	ValidateQR(ctx context.Context, code string) (*model.RedemptionToken, error)
	Scan(ctx context.Context, code string, amount, requestedPercent decimal.Decimal, partnerID int64, idempotencyKey string) (*model.RedemptionResult, error)
}

// WalletFacade provides balance, history and top-up operations.
type WalletFacade interface {
	Balance(ctx context.Context, userID int64) (decimal.Decimal, error)
	History(ctx context.Context, userID int64, page, pageSize int) ([]model.Transaction, int, error)
	TopUp(ctx context.Context, userID int64, amount decimal.Decimal) (*model.Transaction, error)
}

// LoyaltyFacade aggregates the full set of operations used across handlers.
type LoyaltyFacade interface {
	AuthFacade
	QRFacade
	WalletFacade
}
