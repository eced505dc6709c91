package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v3"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"

	"github.com/Alijeyrad/passhash/config"
	"github.com/Alijeyrad/passhash/internal/api/http/router"
	"github.com/Alijeyrad/passhash/internal/service/password"
	"github.com/Alijeyrad/passhash/pkg/observability"
	pwhash "github.com/Alijeyrad/passhash/pkg/util/password"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Server.Port = 8080
	cfg.Server.Environment = "production"
	cfg.Server.TimeoutSeconds = 5
	cfg.Password = config.PasswordConfig{
		Preset: pwhash.PresetCustom, MemoryKiB: 64, Iterations: 1, Lanes: 1, MaxConcurrent: 2,
	}
	cfg.RateLimit = config.RateLimitConfig{Enabled: true, Max: 5, ExpirationSeconds: 60}
	cfg.Observability.ServiceName = "passhash"
	cfg.Observability.Metrics.Path = "/metrics"
	cfg.Logging.Level = "info"
	cfg.Logging.Format = "text"
	return cfg
}

func newTestApp(t *testing.T, cfg *config.Config, rdb *redis.Client, otel *observability.Provider) *fiber.App {
	t.Helper()
	svc, err := password.New(cfg.Password, nil)
	require.NoError(t, err)
	r := router.NewRouter(router.Params{Cfg: cfg, Redis: rdb, OTel: otel, PasswordSvc: svc})
	return NewApp(cfg, r, otel != nil)
}

func call(t *testing.T, app *fiber.App, method, path, body string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var out map[string]any
	_ = json.Unmarshal(raw, &out)
	return resp.StatusCode, out
}

func TestHashThenVerifyRoundTrip(t *testing.T) {
	app := newTestApp(t, testConfig(), nil, nil)

	status, out := call(t, app, fiber.MethodPost, "/api/v1/passwords/hash", `{"password":"correct horse"}`)
	require.Equal(t, fiber.StatusCreated, status)
	hash := out["data"].(map[string]any)["hash"].(string)
	assert.True(t, strings.HasPrefix(hash, "$argon2id$v=19$m=64,t=1,p=1$"))

	body, _ := json.Marshal(map[string]string{"password": "correct horse", "hash": hash})
	status, out = call(t, app, fiber.MethodPost, "/api/v1/passwords/verify", string(body))
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, map[string]any{"match": true, "needs_rehash": false}, out["data"])

	body, _ = json.Marshal(map[string]string{"password": "wrong", "hash": hash})
	status, out = call(t, app, fiber.MethodPost, "/api/v1/passwords/verify", string(body))
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, false, out["data"].(map[string]any)["match"])
}

func TestVerifyMalformedHashIsMismatch(t *testing.T) {
	app := newTestApp(t, testConfig(), nil, nil)

	status, out := call(t, app, fiber.MethodPost, "/api/v1/passwords/verify",
		`{"password":"pw","hash":"$argon2i$v=19$m=64,t=1,p=1$AAAAAAAAAAAAAAAAAAAAAA$AAAA"}`)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, false, out["data"].(map[string]any)["match"])
}

func TestSecurityHeadersAndRequestID(t *testing.T) {
	app := newTestApp(t, testConfig(), nil, nil)

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/api/v1/passwords/presets", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-Id"))
	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
}

func TestVerifyRateLimitedWithRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer func() {
		_ = rdb.Close()
	}()

	cfg := testConfig()
	cfg.RateLimit.Max = 2
	app := newTestApp(t, cfg, rdb, nil)

	for i := 0; i < 2; i++ {
		status, _ := call(t, app, fiber.MethodPost, "/api/v1/passwords/verify", `{"password":"pw","hash":"x"}`)
		require.Equal(t, fiber.StatusOK, status)
	}
	status, out := call(t, app, fiber.MethodPost, "/api/v1/passwords/verify", `{"password":"pw","hash":"x"}`)
	assert.Equal(t, fiber.StatusTooManyRequests, status)
	assert.Equal(t, "too many requests", out["error"])
}

func TestHashRateLimited(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimit.Max = 2
	app := newTestApp(t, cfg, nil, nil)

	for i := 0; i < 2; i++ {
		status, _ := call(t, app, fiber.MethodPost, "/api/v1/passwords/hash", `{"password":"pw"}`)
		require.Equal(t, fiber.StatusCreated, status)
	}
	status, out := call(t, app, fiber.MethodPost, "/api/v1/passwords/hash", `{"password":"pw"}`)
	assert.Equal(t, fiber.StatusTooManyRequests, status)
	assert.Equal(t, "too many requests", out["error"])

	// verify draws from the same budget
	status, _ = call(t, app, fiber.MethodPost, "/api/v1/passwords/verify", `{"password":"pw","hash":"x"}`)
	assert.Equal(t, fiber.StatusTooManyRequests, status)
}

func TestHashAboveCostLimitsIsBadRequest(t *testing.T) {
	app := newTestApp(t, testConfig(), nil, nil)

	status, _ := call(t, app, fiber.MethodPost, "/api/v1/passwords/hash",
		`{"password":"pw","params":{"memory":64,"iterations":4294967295,"lanes":1}}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestReadiness(t *testing.T) {
	app := newTestApp(t, testConfig(), nil, nil)
	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/readyz", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1, DialTimeout: 100 * time.Millisecond})
	defer func() {
		_ = rdb.Close()
	}()
	app = newTestApp(t, testConfig(), rdb, nil)

	resp, err = app.Test(httptest.NewRequest(fiber.MethodGet, "/readyz", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	mr.Close()
	resp, err = app.Test(httptest.NewRequest(fiber.MethodGet, "/readyz", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(fiber.MethodGet, "/livez", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestMetricsEndpoint(t *testing.T) {
	provider, err := observability.InitTelemetry(context.Background(), observability.Config{ServiceName: "passhash"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	cfg := testConfig()
	cfg.Observability.Enabled = true
	cfg.Observability.Metrics.Enabled = true
	app := newTestApp(t, cfg, nil, provider)

	status, _ := call(t, app, fiber.MethodPost, "/api/v1/passwords/hash", `{"password":"pw"}`)
	require.Equal(t, fiber.StatusCreated, status)

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/metrics", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	text := string(raw)
	assert.Contains(t, text, "password_operations")
	assert.Contains(t, text, "http_server_request_count")
	assert.NotContains(t, text, `"pw"`)
}

func TestMetricsRouteAbsentWhenDisabled(t *testing.T) {
	app := newTestApp(t, testConfig(), nil, nil)
	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/metrics", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestOptionsGraphIsValid(t *testing.T) {
	assert.NoError(t, fx.ValidateApp(Options(testConfig(), time.Second)))
}
