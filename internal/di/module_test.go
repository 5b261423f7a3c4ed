package di

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"go.uber.org/fx"

	"github.com/yessgo/yesspay/internal/app"
	"github.com/yessgo/yesspay/internal/config"
	"github.com/yessgo/yesspay/internal/domain/repository"
	"github.com/yessgo/yesspay/internal/storage/postgres"
	"github.com/yessgo/yesspay/internal/test"
	"github.com/yessgo/yesspay/internal/usecase"
)

func TestModuleComposesGraphWithReplacements(t *testing.T) {
	cfg := &config.Config{
		RunAddress:            ":0",
		DatabaseURI:           "postgres://stub",
		PartnerServiceAddress: "http://localhost",
		JWTSecret:             "secret",
		TokenTTL:              3 * time.Minute,
		IdempotencyRetention:  24 * time.Hour,
		IdempotencyWait:       time.Second,
		JanitorInterval:       time.Minute,
		RedeemRetryAttempts:   1,
		LedgerDeadline:        time.Second,
		ShutdownTimeout:       time.Millisecond,
	}
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	factory := test.NewFactoryStub()

	var facade *app.LoyaltyFacade
	fxApp := fx.New(
		fx.NopLogger,
		fx.Supply(context.Background()),
		Module(
			fx.Replace(cfg),
			fx.Replace(logger),
			fx.Replace(&postgres.Storage{}),
			fx.Replace(repository.UserRepository(factory.UsersRepo)),
			fx.Replace(repository.WalletRepository(factory.WalletsRepo)),
			fx.Replace(repository.TransactionRepository(factory.TransactionsRepo)),
			fx.Replace(repository.TokenRepository(factory.TokensRepo)),
			fx.Replace(repository.OrderRepository(factory.OrdersRepo)),
			fx.Replace(repository.LedgerRepository(factory.LedgerRepo)),
			fx.Replace(usecase.PolicyProvider(&test.PolicyProviderStub{})),
			fx.Replace(usecase.Notifier(&test.NotifierStub{})),
		),
		fx.Populate(&facade),
	)

	if err := fxApp.Err(); err != nil {
		t.Fatalf("fx app returned error: %v", err)
	}
	t.Cleanup(func() { _ = fxApp.Stop(context.Background()) })
	if facade == nil {
		t.Fatal("expected loyalty facade instance")
	}
}
