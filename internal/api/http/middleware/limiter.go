package middleware

import (
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/limiter"
	fiberredis "github.com/gofiber/storage/redis/v3"
	"github.com/redis/go-redis/v9"

	"github.com/Alijeyrad/passhash/config"
)

// NewLimiter returns a per-IP sliding window limiter. Counters live in Redis
// when rdb is set so every replica shares them, otherwise in process memory.
func NewLimiter(cfg config.RateLimitConfig, rdb *redis.Client) fiber.Handler {
	lc := limiter.Config{
		Max:               cfg.Max,
		Expiration:        time.Duration(cfg.ExpirationSeconds) * time.Second,
		LimiterMiddleware: limiter.SlidingWindow{},
		LimitReached: func(c fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "too many requests"})
		},
	}
	if rdb != nil {
		lc.Storage = fiberredis.NewFromConnection(rdb)
	}
	return limiter.New(lc)
}
