package http

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/helmet"
	"github.com/gofiber/fiber/v3/middleware/logger"
	recoverer "github.com/gofiber/fiber/v3/middleware/recover"
	"go.uber.org/fx"

	"github.com/Alijeyrad/passhash/config"
	"github.com/Alijeyrad/passhash/internal/api/http/middleware"
	"github.com/Alijeyrad/passhash/internal/api/http/router"
	"github.com/Alijeyrad/passhash/pkg/observability"
)

// Module provides the HTTP Server to the fx graph.
var Module = fx.Module("http", fx.Provide(NewServer))

type Params struct {
	fx.In

	Lifecycle fx.Lifecycle
	Cfg       *config.Config
	Router    *router.Router
	OTel      *observability.Provider `optional:"true"`
}

// NewServer builds the app and binds listening to the fx lifecycle.
func NewServer(p Params) *fiber.App {
	app := NewApp(p.Cfg, p.Router, p.OTel != nil)

	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			addr := fmt.Sprintf(":%d", p.Cfg.Server.Port)
			go func() {
				if err := app.Listen(addr, fiber.ListenConfig{DisableStartupMessage: true}); err != nil {
					slog.Error("HTTP server error", "error", err)
				}
			}()
			slog.Info("HTTP server listening", "addr", addr)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return app.ShutdownWithContext(ctx)
		},
	})

	return app
}

// NewApp returns a fully routed app without starting it.
func NewApp(cfg *config.Config, r *router.Router, instrumented bool) *fiber.App {
	timeout := time.Duration(cfg.Server.TimeoutSeconds) * time.Second
	app := fiber.New(fiber.Config{
		AppName:      cfg.Observability.ServiceName,
		BodyLimit:    cfg.Server.BodyLimitBytes,
		ReadTimeout:  timeout,
		WriteTimeout: timeout,
	})

	if instrumented {
		app.Use(observability.FiberMiddleware())
	}

	configureGlobalMiddleware(app, cfg)

	r.Register(app)

	return app
}

func configureGlobalMiddleware(app *fiber.App, cfg *config.Config) {
	app.Use(middleware.RequestID())
	app.Use(recoverer.New())

	if strings.EqualFold(cfg.Server.Environment, "production") {
		app.Use(helmet.New())
	}
	if cfg.Server.CORS.Enabled {
		app.Use(cors.New(cors.Config{AllowOrigins: cfg.Server.CORS.AllowOrigins}))
	}

	app.Use(logger.New(logger.Config{
		Format: "${ip} - [${time}] [req_id=${reqHeader:X-Request-Id}] ${method} ${path} ${status} ${latency}\n",
	}))
}
