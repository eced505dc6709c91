package observability

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v3"
	"go.opentelemetry.io/otel"

	"github.com/Alijeyrad/passhash/config"
)

func TestFromCentralConfig(t *testing.T) {
	cfg := &config.Config{}
	cfg.Server.Environment = "production"
	cfg.Observability.ServiceName = "passhash"
	cfg.Observability.Tracing.Enabled = true
	cfg.Observability.Tracing.OTLPEndpoint = "collector:4318"
	cfg.Observability.Tracing.SamplingRate = 0.5

	got := FromCentralConfig(cfg)
	if got.Environment != "production" || got.ServiceName != "passhash" || !got.TracingEnabled ||
		got.OTLPEndpoint != "collector:4318" || got.SamplingRate != 0.5 {
		t.Errorf("FromCentralConfig() = %+v", got)
	}
}

func TestFiberMiddlewareExportsMetrics(t *testing.T) {
	p, err := InitTelemetry(context.Background(), Config{ServiceName: "passhash", ServiceVersion: "test"})
	if err != nil {
		t.Fatalf("InitTelemetry() error = %v", err)
	}
	t.Cleanup(func() { _ = p.Shutdown(context.Background()) })

	app := fiber.New()
	app.Use(FiberMiddleware())
	app.Get("/ping", func(c fiber.Ctx) error { return c.SendString("pong") })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/ping", nil))
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if resp.Header.Get("X-Trace-Id") == "" {
		t.Error("X-Trace-Id header missing")
	}

	rec := httptest.NewRecorder()
	p.MetricsHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), "http_server_request_count") {
		t.Errorf("metrics output missing request counter:\n%s", body)
	}

	if otel.GetTracerProvider() != p.TracerProvider {
		t.Error("tracer provider not installed globally")
	}
}
