package http

import (
	"time"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"

	"github.com/Alijeyrad/passhash/config"
	"github.com/Alijeyrad/passhash/internal/api/http/router"
	"github.com/Alijeyrad/passhash/internal/app"
)

// Options assembles the fx graph that serves the HTTP API.
func Options(cfg *config.Config, stopTimeout time.Duration) fx.Option {
	return fx.Options(
		fx.Supply(cfg),
		app.InfraModule,
		app.ServiceModule,
		router.Module,
		Module,

		// Requesting *fiber.App forces NewServer to run and register its hooks.
		fx.Invoke(func(*fiber.App) {}),

		fx.StopTimeout(stopTimeout),
		fx.WithLogger(func() fxevent.Logger { return fxevent.NopLogger }),
	)
}

// Start runs the server until SIGINT or SIGTERM.
func Start(cfg *config.Config, stopTimeout time.Duration) {
	fx.New(Options(cfg, stopTimeout)).Run()
}
