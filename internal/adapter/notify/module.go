package notify

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/yessgo/yesspay/internal/config"
)

// Module provides the user notifier.
var Module = fx.Provide(newNotifier)

type notifierParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newNotifier(p notifierParams) (Notifier, error) {
	return NewHTTPNotifier(p.Config.NotifyServiceAddress, p.Logger)
}
