package app

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/Alijeyrad/passhash/config"
	"github.com/Alijeyrad/passhash/internal/service/password"
)

// ServiceModule provides all application service dependencies.
var ServiceModule = fx.Module("services",
	fx.Provide(ProvidePasswordService),
)

func ProvidePasswordService(cfg *config.Config) (password.Service, error) {
	return password.New(cfg.Password, slog.Default())
}
