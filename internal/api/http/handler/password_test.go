package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alijeyrad/passhash/config"
	"github.com/Alijeyrad/passhash/internal/service/password"
	pwhash "github.com/Alijeyrad/passhash/pkg/util/password"
)

type fakeService struct {
	hashReq   password.HashRequest
	verifyReq password.VerifyRequest
	err       error
}

func (f *fakeService) Hash(_ context.Context, req password.HashRequest) (string, error) {
	f.hashReq = req
	if f.err != nil {
		return "", f.err
	}
	return "$argon2id$fake", nil
}

func (f *fakeService) Verify(_ context.Context, req password.VerifyRequest) (*password.VerifyResult, error) {
	f.verifyReq = req
	if f.err != nil {
		return nil, f.err
	}
	return &password.VerifyResult{Match: req.Password == "pw", NeedsRehash: true}, nil
}

func (f *fakeService) Presets() map[string]pwhash.Params { return pwhash.Presets() }
func (f *fakeService) Params() pwhash.Params            { return pwhash.LowMemoryParams() }

func newTestApp(svc password.Service) *fiber.App {
	h := NewPasswordHandler(svc)
	app := fiber.New()
	app.Post("/hash", h.Hash)
	app.Post("/verify", h.Verify)
	app.Get("/presets", h.Presets)
	return app
}

func do(t *testing.T, app *fiber.App, method, path, body string) (int, map[string]any, string) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(raw, &out), "body: %s", raw)
	return resp.StatusCode, out, resp.Header.Get(fiber.HeaderRetryAfter)
}

func TestHashHandler(t *testing.T) {
	svc := &fakeService{}
	app := newTestApp(svc)

	status, out, _ := do(t, app, fiber.MethodPost, "/hash",
		`{"password":"pw","associated_data":"user-1","params":{"memory":64,"iterations":1,"lanes":1}}`)

	assert.Equal(t, fiber.StatusCreated, status)
	assert.Equal(t, map[string]any{"hash": "$argon2id$fake"}, out["data"])
	assert.Equal(t, "pw", svc.hashReq.Password)
	assert.Equal(t, "user-1", svc.hashReq.AssociatedData)
	require.NotNil(t, svc.hashReq.Params)
	assert.Equal(t, pwhash.Params{Memory: 64, Iterations: 1, Lanes: 1}, *svc.hashReq.Params)
}

func TestHashHandlerPreset(t *testing.T) {
	svc := &fakeService{}
	status, _, _ := do(t, newTestApp(svc), fiber.MethodPost, "/hash", `{"password":"pw","preset":"low_memory"}`)

	assert.Equal(t, fiber.StatusCreated, status)
	assert.Equal(t, "low_memory", svc.hashReq.Preset)
	assert.Nil(t, svc.hashReq.Params)
}

func TestVerifyHandler(t *testing.T) {
	svc := &fakeService{}
	app := newTestApp(svc)

	status, out, _ := do(t, app, fiber.MethodPost, "/verify", `{"password":"pw","hash":"$argon2id$x"}`)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, map[string]any{"match": true, "needs_rehash": true}, out["data"])
	assert.Equal(t, "$argon2id$x", svc.verifyReq.Hash)

	status, out, _ = do(t, app, fiber.MethodPost, "/verify", `{"password":"other","hash":"$argon2id$x"}`)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, false, out["data"].(map[string]any)["match"])
}

func TestPresetsHandler(t *testing.T) {
	status, out, _ := do(t, newTestApp(&fakeService{}), fiber.MethodGet, "/presets", "")
	assert.Equal(t, fiber.StatusOK, status)

	data := out["data"].(map[string]any)
	current := data["current"].(map[string]any)
	assert.Equal(t, "m=32768,t=4,p=2", current["encoded"])

	presets := data["presets"].(map[string]any)
	assert.Len(t, presets, 3)
	assert.Contains(t, presets, pwhash.PresetFirstRecommended)
}

func TestPasswordErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantRetry  string
	}{
		{"invalid argument", fmt.Errorf("%w: password must not be empty", pwhash.ErrInvalidArgument), fiber.StatusBadRequest, ""},
		{"busy", fmt.Errorf("%w: %w", password.ErrBusy, context.DeadlineExceeded), fiber.StatusServiceUnavailable, "1"},
		{"unexpected", io.ErrUnexpectedEOF, fiber.StatusInternalServerError, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp(&fakeService{err: tt.err})

			status, out, retry := do(t, app, fiber.MethodPost, "/hash", `{"password":"pw"}`)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantRetry, retry)
			assert.NotEmpty(t, out["error"])

			status, _, _ = do(t, app, fiber.MethodPost, "/verify", `{"password":"pw","hash":"h"}`)
			assert.Equal(t, tt.wantStatus, status)
		})
	}
}

func TestMalformedBody(t *testing.T) {
	app := newTestApp(&fakeService{})

	for _, path := range []string{"/hash", "/verify"} {
		status, out, _ := do(t, app, fiber.MethodPost, path, `{"password":`)
		assert.Equal(t, fiber.StatusBadRequest, status, path)
		assert.Equal(t, "invalid request body", out["error"])
	}
}

// Against the real service: an empty password is a client error.
func TestHashHandlerRealServiceInvalidArgument(t *testing.T) {
	svc, err := password.New(config.PasswordConfig{
		Preset: pwhash.PresetCustom, MemoryKiB: 64, Iterations: 1, Lanes: 1, MaxConcurrent: 1,
	}, nil)
	require.NoError(t, err)

	status, out, _ := do(t, newTestApp(svc), fiber.MethodPost, "/hash", `{"password":""}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Contains(t, out["error"], "password must not be empty")
}
