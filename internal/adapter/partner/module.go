package partner

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/yessgo/yesspay/internal/config"
)

// Module provides the partner policy client.
var Module = fx.Provide(newClient)

type clientParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newClient(p clientParams) (Client, error) {
	return NewHTTPClient(p.Config.PartnerServiceAddress, p.Logger)
}
