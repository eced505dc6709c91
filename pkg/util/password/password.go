package password

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/argon2"
)

const (
	// Algorithm is the PHC identifier of the only supported variant.
	Algorithm = "argon2id"
	// Version is the supported Argon2 version (0x13).
	Version = argon2.Version

	// SaltLength is the size of the random salt in bytes.
	SaltLength = 16
	// TagLength is the size of the derived tag in bytes.
	TagLength = 32

	fieldSeparator = "$"
	versionPrefix  = "v="
)

// Hasher hashes and verifies passwords in PHC format.
// A Hasher holds no mutable state and is safe for concurrent use.
type Hasher struct {
	params  Params
	deriver Deriver
	random  io.Reader
	limits  Params
}

// HasherOption configures a Hasher.
type HasherOption func(*Hasher)

// WithParams sets the parameters used when a call does not supply its own.
func WithParams(p Params) HasherOption {
	return func(h *Hasher) { h.params = p }
}

// WithDeriver replaces the Argon2id primitive.
func WithDeriver(d Deriver) HasherOption {
	return func(h *Hasher) { h.deriver = d }
}

// WithRandom replaces the salt source. It must be cryptographically secure
// outside of tests.
func WithRandom(r io.Reader) HasherOption {
	return func(h *Hasher) { h.random = r }
}

// WithLimits replaces DefaultLimits. Verify treats a hash above any bound as
// a mismatch and HashWithParams rejects parameters above them, in both cases
// without running the primitive. A zero field leaves that parameter unbounded.
func WithLimits(max Params) HasherOption {
	return func(h *Hasher) { h.limits = max }
}

// New creates a Hasher. Without options it uses DefaultParams, crypto/rand
// and golang.org/x/crypto/argon2.
func New(opts ...HasherOption) (*Hasher, error) {
	h := &Hasher{
		params:  DefaultParams(),
		deriver: IDKeyDeriver{},
		random:  rand.Reader,
		limits:  DefaultLimits(),
	}
	for _, opt := range opts {
		opt(h)
	}

	if err := h.params.Validate(); err != nil {
		return nil, err
	}
	if h.params.exceeds(h.limits) {
		return nil, fmt.Errorf("%w: %s exceeds limits %s", ErrInvalidParams, h.params, h.limits)
	}
	if h.deriver == nil || h.random == nil {
		return nil, fmt.Errorf("%w: deriver and random source are required", ErrInvalidArgument)
	}

	return h, nil
}

// Params returns the default parameters of h.
func (h *Hasher) Params() Params {
	return h.params
}

// Option carries per-call secret inputs.
type Option func(*secrets)

type secrets struct {
	pepper []byte
	data   []byte
	err    error
}

// WithPepper binds a secret kept outside the hash record. An empty pepper is
// rejected; omit the option for no pepper.
func WithPepper(pepper string) Option {
	return func(s *secrets) {
		if pepper == "" {
			s.fail("pepper must not be empty")
			return
		}
		s.pepper = []byte(pepper)
	}
}

// WithAssociatedData binds non-secret context to the hash. Empty data is
// rejected; omit the option for none.
func WithAssociatedData(data string) Option {
	return func(s *secrets) {
		if data == "" {
			s.fail("associated data must not be empty")
			return
		}
		s.data = []byte(data)
	}
}

func (s *secrets) fail(msg string) {
	if s.err == nil {
		s.err = fmt.Errorf("%w: %s", ErrInvalidArgument, msg)
	}
}

func (s *secrets) wipe() {
	clear(s.pepper)
	clear(s.data)
}

func collect(opts []Option) (*secrets, error) {
	s := &secrets{}
	for _, opt := range opts {
		opt(s)
	}
	if s.err != nil {
		return nil, s.err
	}
	return s, nil
}

// Hash generates an Argon2id PHC string using the Hasher's parameters.
func (h *Hasher) Hash(password string, opts ...Option) (string, error) {
	return h.HashWithParams(password, nil, opts...)
}

// HashWithParams generates an Argon2id PHC string. A nil p falls back to the
// Hasher's parameters. Parameters above the Hasher's limits are rejected with
// ErrInvalidArgument.
func (h *Hasher) HashWithParams(password string, p *Params, opts ...Option) (string, error) {
	if password == "" {
		return "", fmt.Errorf("%w: password must not be empty", ErrInvalidArgument)
	}
	s, err := collect(opts)
	if err != nil {
		return "", err
	}
	defer s.wipe()

	params := h.params
	if p != nil {
		params = *p
	}
	if err := params.Validate(); err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}
	if params.exceeds(h.limits) {
		return "", fmt.Errorf("%w: %s exceeds limits %s", ErrInvalidArgument, params, h.limits)
	}

	salt := make([]byte, SaltLength)
	if _, err := io.ReadFull(h.random, salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}

	pw := []byte(password)
	defer clear(pw)

	tag := h.deriver.DeriveTag(pw, salt, s.pepper, s.data, params, TagLength)
	defer clear(tag)

	return encode(params, salt, tag), nil
}

// Verify reports whether password matches the PHC string hash.
//
// Errors are returned only for invalid arguments. A hash that cannot be
// parsed, uses another algorithm or version, or exceeds the Hasher's limits
// yields false, exactly like a wrong password.
func (h *Hasher) Verify(password, hash string, opts ...Option) (bool, error) {
	if password == "" {
		return false, fmt.Errorf("%w: password must not be empty", ErrInvalidArgument)
	}
	if strings.TrimSpace(hash) == "" {
		return false, fmt.Errorf("%w: hash must not be blank", ErrInvalidArgument)
	}
	s, err := collect(opts)
	if err != nil {
		return false, err
	}
	defer s.wipe()

	d, err := decodeHash(hash)
	if err != nil {
		return false, nil
	}
	if d.Params.exceeds(h.limits) {
		return false, nil
	}

	pw := []byte(password)
	defer clear(pw)

	tag := h.deriver.DeriveTag(pw, d.Salt, s.pepper, s.data, d.Params, TagLength)
	defer clear(tag)

	return constantTimeEqual(tag, d.Tag), nil
}

// Match is a convenience wrapper that returns true only if password matches hash.
func (h *Hasher) Match(password, hash string, opts ...Option) bool {
	ok, err := h.Verify(password, hash, opts...)
	return err == nil && ok
}

// NeedsRehash reports whether hash was produced with parameters other than
// target. Hashes that do not parse always need a rehash.
func NeedsRehash(hash string, target Params) bool {
	d, err := decodeHash(hash)
	if err != nil {
		return true
	}
	return d.Params != target
}

// Hash generates a PHC string with DefaultParams.
func Hash(password string, opts ...Option) (string, error) {
	return HashWithParams(password, nil, opts...)
}

// HashWithParams generates a PHC string with p, or DefaultParams when p is nil.
func HashWithParams(password string, p *Params, opts ...Option) (string, error) {
	h, err := New()
	if err != nil {
		return "", err
	}
	return h.HashWithParams(password, p, opts...)
}

// Verify checks password against hash with the default primitive.
func Verify(password, hash string, opts ...Option) (bool, error) {
	h, err := New()
	if err != nil {
		return false, err
	}
	return h.Verify(password, hash, opts...)
}

// Match returns true only if password matches hash.
func Match(password, hash string, opts ...Option) bool {
	ok, err := Verify(password, hash, opts...)
	return err == nil && ok
}

// Decoded is the parsed form of a PHC string.
type Decoded struct {
	Params Params
	Salt   []byte
	Tag    []byte
}

// Decode parses a PHC string without verifying anything. It is meant for
// inspecting trusted stored hashes; Verify never exposes these errors.
func Decode(hash string) (*Decoded, error) {
	return decodeHash(hash)
}

func encode(p Params, salt, tag []byte) string {
	// $argon2id$v=19$m=65536,t=3,p=4$<salt>$<tag>
	return fieldSeparator + strings.Join([]string{
		Algorithm,
		fmt.Sprintf("%s%d", versionPrefix, Version),
		p.String(),
		base64.StdEncoding.EncodeToString(salt),
		base64.StdEncoding.EncodeToString(tag),
	}, fieldSeparator)
}

func decodeHash(encoded string) (*Decoded, error) {
	parts := splitNonEmpty(encoded, fieldSeparator)
	if len(parts) != 5 {
		return nil, ErrInvalidHash
	}

	if !strings.EqualFold(parts[0], Algorithm) {
		return nil, ErrInvalidHash
	}

	version, ok := parseIntParam(parts[1], versionPrefix, 32)
	if !ok {
		return nil, ErrInvalidHash
	}
	if version != Version {
		return nil, ErrIncompatibleVersion
	}

	p, err := ParseParams(parts[2])
	if err != nil {
		return nil, ErrInvalidHash
	}

	salt, err := decodeBase64(parts[3])
	if err != nil {
		return nil, ErrInvalidHash
	}

	tag, err := decodeBase64(parts[4])
	if err != nil {
		return nil, ErrInvalidHash
	}

	return &Decoded{Params: p, Salt: salt, Tag: tag}, nil
}

// decodeBase64 accepts padded standard base64 as written by encode, and the
// unpadded form most other PHC writers emit.
func decodeBase64(s string) ([]byte, error) {
	if strings.HasSuffix(s, "=") {
		return base64.StdEncoding.DecodeString(s)
	}
	return base64.RawStdEncoding.DecodeString(s)
}
