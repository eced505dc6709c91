package router

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"github.com/Alijeyrad/passhash/config"
	"github.com/Alijeyrad/passhash/internal/api/http/handler"
	"github.com/Alijeyrad/passhash/internal/service/password"
	"github.com/Alijeyrad/passhash/pkg/observability"
)

const readinessTimeout = 500 * time.Millisecond

// Module provides the Router to the fx graph.
var Module = fx.Module("router", fx.Provide(NewRouter))

type Params struct {
	fx.In

	Cfg         *config.Config
	Redis       *redis.Client           `optional:"true"`
	OTel        *observability.Provider `optional:"true"`
	PasswordSvc password.Service
}

type Router struct {
	p Params
}

func NewRouter(p Params) *Router {
	return &Router{p: p}
}

func (r *Router) Register(app *fiber.App) {
	r.registerSystemRoutes(app)

	passwordH := handler.NewPasswordHandler(r.p.PasswordSvc)

	api := app.Group("/api/v1")
	r.registerPasswordRoutes(api, passwordH)
}

func (r *Router) registerSystemRoutes(app *fiber.App) {
	app.Get(healthcheck.LivenessEndpoint, healthcheck.New())
	app.Get(healthcheck.ReadinessEndpoint, healthcheck.New(healthcheck.Config{
		Probe: func(c fiber.Ctx) bool { return r.redisHealthy(c.Context()) },
	}))
	app.Get(healthcheck.StartupEndpoint, healthcheck.New())

	obs := r.p.Cfg.Observability
	if obs.Enabled && obs.Metrics.Enabled && r.p.OTel != nil {
		path := obs.Metrics.Path
		if path == "" {
			path = "/metrics"
		}
		app.Get(path, adaptor.HTTPHandler(r.p.OTel.MetricsHandler()))
	}
}

// redisHealthy is true when Redis is not configured.
func (r *Router) redisHealthy(ctx context.Context) bool {
	if r.p.Redis == nil {
		return true
	}
	ctx, cancel := context.WithTimeout(ctx, readinessTimeout)
	defer cancel()
	return r.p.Redis.Ping(ctx).Err() == nil
}
