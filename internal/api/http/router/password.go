package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/passhash/internal/api/http/handler"
	"github.com/Alijeyrad/passhash/internal/api/http/middleware"
)

func (r *Router) registerPasswordRoutes(api fiber.Router, h *handler.PasswordHandler) {
	g := api.Group("/passwords")

	g.Get("/presets", h.Presets)

	// hash and verify both run Argon2 and share one budget per client
	if r.p.Cfg.RateLimit.Enabled {
		limit := middleware.NewLimiter(r.p.Cfg.RateLimit, r.p.Redis)
		g.Post("/hash", limit, h.Hash)
		g.Post("/verify", limit, h.Verify)
	} else {
		g.Post("/hash", h.Hash)
		g.Post("/verify", h.Verify)
	}
}
