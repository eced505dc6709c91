package password

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/semaphore"

	"github.com/Alijeyrad/passhash/config"
	pwhash "github.com/Alijeyrad/passhash/pkg/util/password"
)

const instrumentationName = "github.com/Alijeyrad/passhash/internal/service/password"

const (
	opHash   = "hash"
	opVerify = "verify"

	outcomeOK       = "ok"
	outcomeMatch    = "match"
	outcomeMismatch = "mismatch"
	outcomeInvalid  = "invalid"
	outcomeBusy     = "busy"
	outcomeError    = "error"
)

// ---------------------------------------------------------------------------
// DTOs
// ---------------------------------------------------------------------------

type HashRequest struct {
	Password       string
	AssociatedData string // optional

	// At most one of Preset and Params may be set; neither means the
	// configured parameters.
	Preset string
	Params *pwhash.Params
}

type VerifyRequest struct {
	Password       string
	Hash           string
	AssociatedData string // optional
}

type VerifyResult struct {
	Match bool
	// NeedsRehash is set only on a match, when the stored parameters differ
	// from the configured ones.
	NeedsRehash bool
}

// ---------------------------------------------------------------------------
// Interface
// ---------------------------------------------------------------------------

type Service interface {
	Hash(ctx context.Context, req HashRequest) (string, error)
	Verify(ctx context.Context, req VerifyRequest) (*VerifyResult, error)
	Presets() map[string]pwhash.Params
	Params() pwhash.Params
}

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

type passwordService struct {
	hasher *pwhash.Hasher
	pepper string
	sem    *semaphore.Weighted
	logger *slog.Logger

	tracer   trace.Tracer
	ops      metric.Int64Counter
	duration metric.Float64Histogram
}

// New builds the service from the password section of the central config.
func New(cfg config.PasswordConfig, logger *slog.Logger) (Service, error) {
	hasher, err := pwhash.NewFromCentralConfig(cfg)
	if err != nil {
		return nil, err
	}
	return NewWithHasher(hasher, cfg, logger)
}

// NewWithHasher uses hasher as is and takes only the pepper and concurrency
// bound from cfg.
func NewWithHasher(hasher *pwhash.Hasher, cfg config.PasswordConfig, logger *slog.Logger) (Service, error) {
	if hasher == nil {
		return nil, fmt.Errorf("%w: hasher is nil", pwhash.ErrInvalidArgument)
	}
	if cfg.MaxConcurrent <= 0 {
		return nil, fmt.Errorf("%w: max concurrent must be positive", pwhash.ErrInvalidArgument)
	}
	if logger == nil {
		logger = slog.Default()
	}

	meter := otel.Meter(instrumentationName)
	ops, err := meter.Int64Counter(
		"password_operations",
		metric.WithDescription("Password hash and verify operations by outcome"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create operations counter: %w", err)
	}
	duration, err := meter.Float64Histogram(
		"password_operation_duration_ms",
		metric.WithDescription("Time spent deriving Argon2id tags, including the wait for a slot"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create duration histogram: %w", err)
	}

	return &passwordService{
		hasher:   hasher,
		pepper:   cfg.Pepper,
		sem:      semaphore.NewWeighted(int64(cfg.MaxConcurrent)),
		logger:   logger.With(slog.String("component", "password")),
		tracer:   otel.Tracer(instrumentationName),
		ops:      ops,
		duration: duration,
	}, nil
}

func (s *passwordService) Params() pwhash.Params {
	return s.hasher.Params()
}

func (s *passwordService) Presets() map[string]pwhash.Params {
	return pwhash.Presets()
}

func (s *passwordService) Hash(ctx context.Context, req HashRequest) (string, error) {
	params, err := s.resolveParams(req)
	if err != nil {
		s.record(ctx, opHash, outcomeInvalid, 0)
		return "", err
	}

	ctx, span := s.tracer.Start(ctx, "password.Hash", trace.WithAttributes(
		attribute.Int64("argon2.memory_kib", int64(params.Memory)),
		attribute.Int64("argon2.iterations", int64(params.Iterations)),
		attribute.Int("argon2.lanes", int(params.Lanes)),
	))
	defer span.End()

	start := time.Now()
	if err := s.acquire(ctx); err != nil {
		s.finish(ctx, span, opHash, outcomeBusy, start, err)
		return "", err
	}
	defer s.sem.Release(1)

	hash, err := s.hasher.HashWithParams(req.Password, &params, s.options(req.AssociatedData)...)
	if err != nil {
		s.finish(ctx, span, opHash, outcomeOf(err), start, err)
		return "", err
	}

	s.finish(ctx, span, opHash, outcomeOK, start, nil)
	s.logger.DebugContext(ctx, "password hashed", slog.String("params", params.String()))
	return hash, nil
}

func (s *passwordService) Verify(ctx context.Context, req VerifyRequest) (*VerifyResult, error) {
	ctx, span := s.tracer.Start(ctx, "password.Verify")
	defer span.End()

	start := time.Now()
	if err := s.acquire(ctx); err != nil {
		s.finish(ctx, span, opVerify, outcomeBusy, start, err)
		return nil, err
	}
	defer s.sem.Release(1)

	match, err := s.hasher.Verify(req.Password, req.Hash, s.options(req.AssociatedData)...)
	if err != nil {
		s.finish(ctx, span, opVerify, outcomeOf(err), start, err)
		return nil, err
	}

	res := &VerifyResult{Match: match}
	outcome := outcomeMismatch
	if match {
		outcome = outcomeMatch
		res.NeedsRehash = pwhash.NeedsRehash(req.Hash, s.hasher.Params())
	}
	span.SetAttributes(attribute.Bool("password.needs_rehash", res.NeedsRehash))
	s.finish(ctx, span, opVerify, outcome, start, nil)

	s.logger.DebugContext(ctx, "password verified",
		slog.Bool("match", res.Match),
		slog.Bool("needs_rehash", res.NeedsRehash),
	)
	return res, nil
}

func (s *passwordService) resolveParams(req HashRequest) (pwhash.Params, error) {
	switch {
	case req.Preset != "" && req.Params != nil:
		return pwhash.Params{}, fmt.Errorf("%w: %w", pwhash.ErrInvalidArgument, ErrConflictingParams)
	case req.Preset != "":
		p, err := pwhash.PresetByName(req.Preset)
		if err != nil {
			return pwhash.Params{}, fmt.Errorf("%w: %w", pwhash.ErrInvalidArgument, err)
		}
		return p, nil
	case req.Params != nil:
		return *req.Params, nil
	default:
		return s.hasher.Params(), nil
	}
}

func (s *passwordService) options(associatedData string) []pwhash.Option {
	var opts []pwhash.Option
	if s.pepper != "" {
		opts = append(opts, pwhash.WithPepper(s.pepper))
	}
	if associatedData != "" {
		opts = append(opts, pwhash.WithAssociatedData(associatedData))
	}
	return opts
}

func (s *passwordService) acquire(ctx context.Context) error {
	if err := s.sem.Acquire(ctx, 1); err != nil {
		s.logger.WarnContext(ctx, "password operation rejected, no free slot", slog.Any("error", err))
		return fmt.Errorf("%w: %w", ErrBusy, err)
	}
	return nil
}

func (s *passwordService) finish(ctx context.Context, span trace.Span, op, outcome string, start time.Time, err error) {
	elapsed := float64(time.Since(start).Microseconds()) / 1000
	span.SetAttributes(attribute.String("password.outcome", outcome))
	if err != nil {
		span.SetStatus(codes.Error, outcome)
		if !errors.Is(err, pwhash.ErrInvalidArgument) {
			span.RecordError(err)
		}
	}
	s.record(ctx, op, outcome, elapsed)
}

func (s *passwordService) record(ctx context.Context, op, outcome string, elapsedMS float64) {
	attrs := metric.WithAttributes(
		attribute.String("operation", op),
		attribute.String("outcome", outcome),
	)
	s.ops.Add(ctx, 1, attrs)
	if elapsedMS > 0 {
		s.duration.Record(ctx, elapsedMS, attrs)
	}
}

func outcomeOf(err error) string {
	if errors.Is(err, pwhash.ErrInvalidArgument) {
		return outcomeInvalid
	}
	return outcomeError
}
