package di

import (
	"github.com/yessgo/yesspay/internal/adapter/notify"
	"github.com/yessgo/yesspay/internal/adapter/partner"
	"github.com/yessgo/yesspay/internal/app"
	"github.com/yessgo/yesspay/internal/config"
	"github.com/yessgo/yesspay/internal/logger"
	"github.com/yessgo/yesspay/internal/pkg/auth"
	"github.com/yessgo/yesspay/internal/server/http/router"
	"github.com/yessgo/yesspay/internal/storage/postgres"
	"github.com/yessgo/yesspay/internal/usecase"
	"go.uber.org/fx"
)

func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		auth.Module,
		postgres.Module,
		partner.Module,
		notify.Module,
		usecase.Module,
		fx.Provide(
			func(client partner.Client) usecase.PolicyProvider { return client },
			func(n notify.Notifier) usecase.Notifier { return n },
		),
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
