package app

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/yessgo/yesspay/internal/domain/model"
	"github.com/yessgo/yesspay/internal/usecase"
)

// LoyaltyFacade is the single entry point the transport and workers use to
// reach business logic.
type LoyaltyFacade struct {
	auth        *usecase.AuthUseCase
	tokens      *usecase.TokenUseCase
	wallet      *usecase.WalletUseCase
	redemptions *usecase.RedemptionUseCase
	maintenance *usecase.MaintenanceUseCase
}

func NewLoyaltyFacade(auth *usecase.AuthUseCase, tokens *usecase.TokenUseCase, wallet *usecase.WalletUseCase, redemptions *usecase.RedemptionUseCase, maintenance *usecase.MaintenanceUseCase) *LoyaltyFacade {
	return &LoyaltyFacade{auth: auth, tokens: tokens, wallet: wallet, redemptions: redemptions, maintenance: maintenance}
}

func (f *LoyaltyFacade) Register(ctx context.Context, login, password string) (string, error) {
	_, token, err := f.auth.Register(ctx, login, password)
	return token, err
}

func (f *LoyaltyFacade) Authenticate(ctx context.Context, login, password string) (string, error) {
	_, token, err := f.auth.Authenticate(ctx, login, password)
	return token, err
}

func (f *LoyaltyFacade) ParseToken(token string) (int64, error) {
	return f.auth.ParseToken(token)
}

func (f *LoyaltyFacade) IssueQR(ctx context.Context, userID int64) (*model.RedemptionToken, error) {
	return f.tokens.Issue(ctx, userID)
}

func (f *LoyaltyFacade) ValidateQR(ctx context.Context, code string) (*model.RedemptionToken, error) {
	return f.tokens.Validate(ctx, code)
}

func (f *LoyaltyFacade) Scan(ctx context.Context, code string, amount, requestedPercent decimal.Decimal, partnerID int64, idempotencyKey string) (*model.RedemptionResult, error) {
	return f.redemptions.Redeem(ctx, code, amount, requestedPercent, partnerID, idempotencyKey)
}

func (f *LoyaltyFacade) Balance(ctx context.Context, userID int64) (decimal.Decimal, error) {
	return f.wallet.Balance(ctx, userID)
}

func (f *LoyaltyFacade) History(ctx context.Context, userID int64, page, pageSize int) ([]model.Transaction, int, error) {
	return f.wallet.History(ctx, userID, page, pageSize)
}

func (f *LoyaltyFacade) TopUp(ctx context.Context, userID int64, amount decimal.Decimal) (*model.Transaction, error) {
	return f.wallet.TopUp(ctx, userID, amount)
}

func (f *LoyaltyFacade) Sweep(ctx context.Context) (usecase.SweepStats, error) {
	return f.maintenance.Sweep(ctx)
}
