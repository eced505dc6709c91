package handler

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/passhash/internal/service/password"
	pwhash "github.com/Alijeyrad/passhash/pkg/util/password"
)

type PasswordHandler struct {
	svc password.Service
}

func NewPasswordHandler(svc password.Service) *PasswordHandler {
	return &PasswordHandler{svc: svc}
}

type paramsBody struct {
	Memory     uint32 `json:"memory"`
	Iterations uint32 `json:"iterations"`
	Lanes      uint8  `json:"lanes"`
}

type paramsView struct {
	Memory     uint32 `json:"memory"`
	Iterations uint32 `json:"iterations"`
	Lanes      uint8  `json:"lanes"`
	Encoded    string `json:"encoded"`
}

func newParamsView(p pwhash.Params) paramsView {
	return paramsView{Memory: p.Memory, Iterations: p.Iterations, Lanes: p.Lanes, Encoded: p.String()}
}

// POST /api/v1/passwords/hash
func (h *PasswordHandler) Hash(c fiber.Ctx) error {
	var body struct {
		Password       string      `json:"password"`
		AssociatedData string      `json:"associated_data"`
		Preset         string      `json:"preset"`
		Params         *paramsBody `json:"params"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	req := password.HashRequest{
		Password:       body.Password,
		AssociatedData: body.AssociatedData,
		Preset:         body.Preset,
	}
	if body.Params != nil {
		req.Params = &pwhash.Params{
			Memory:     body.Params.Memory,
			Iterations: body.Params.Iterations,
			Lanes:      body.Params.Lanes,
		}
	}

	hash, err := h.svc.Hash(c.Context(), req)
	if err != nil {
		return mapPasswordError(c, err)
	}
	return created(c, fiber.Map{"hash": hash})
}

// POST /api/v1/passwords/verify
func (h *PasswordHandler) Verify(c fiber.Ctx) error {
	var body struct {
		Password       string `json:"password"`
		Hash           string `json:"hash"`
		AssociatedData string `json:"associated_data"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	res, err := h.svc.Verify(c.Context(), password.VerifyRequest{
		Password:       body.Password,
		Hash:           body.Hash,
		AssociatedData: body.AssociatedData,
	})
	if err != nil {
		return mapPasswordError(c, err)
	}
	return ok(c, fiber.Map{
		"match":        res.Match,
		"needs_rehash": res.NeedsRehash,
	})
}

// GET /api/v1/passwords/presets
func (h *PasswordHandler) Presets(c fiber.Ctx) error {
	presets := make(map[string]paramsView)
	for name, p := range h.svc.Presets() {
		presets[name] = newParamsView(p)
	}
	return ok(c, fiber.Map{
		"current": newParamsView(h.svc.Params()),
		"presets": presets,
	})
}

// ---------------------------------------------------------------------------
// Error mapping
// ---------------------------------------------------------------------------

func mapPasswordError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, pwhash.ErrInvalidArgument):
		return badRequest(c, err.Error())
	case errors.Is(err, password.ErrBusy):
		return serviceUnavailable(c, password.ErrBusy.Error())
	default:
		slog.ErrorContext(c.Context(), "password operation failed", slog.Any("error", err))
		return internalError(c)
	}
}
