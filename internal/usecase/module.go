package usecase

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/yessgo/yesspay/internal/config"
	"github.com/yessgo/yesspay/internal/domain/repository"
)

// Module provides core business use cases to the fx container.
var Module = fx.Provide(
	NewAuthUseCase,
	NewWalletUseCase,
	newTokenUseCase,
	newRedemptionUseCase,
	newMaintenanceUseCase,
)

type tokenParams struct {
	fx.In

	Tokens repository.TokenRepository
	Config *config.Config
}

func newTokenUseCase(p tokenParams) *TokenUseCase {
	return NewTokenUseCase(p.Tokens, p.Config.TokenTTL)
}

type redemptionParams struct {
	fx.In

	Tokens   *TokenUseCase
	Orders   repository.OrderRepository
	Ledger   repository.LedgerRepository
	Policies PolicyProvider
	Notifier Notifier
	Logger   *slog.Logger
	Config   *config.Config
}

func newRedemptionUseCase(p redemptionParams) *RedemptionUseCase {
	return NewRedemptionUseCase(p.Tokens, p.Orders, p.Ledger, p.Policies, p.Notifier, p.Logger, RedemptionOptions{
		PendingWait:    p.Config.IdempotencyWait,
		RetryAttempts:  uint64(p.Config.RedeemRetryAttempts),
		LedgerDeadline: p.Config.LedgerDeadline,
	})
}

type maintenanceParams struct {
	fx.In

	Tokens repository.TokenRepository
	Orders repository.OrderRepository
	Config *config.Config
}

func newMaintenanceUseCase(p maintenanceParams) *MaintenanceUseCase {
	return NewMaintenanceUseCase(p.Tokens, p.Orders, p.Config.IdempotencyRetention)
}
