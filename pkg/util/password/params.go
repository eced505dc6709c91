package password

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	paramSeparator   = ","
	memoryPrefix     = "m="
	iterationsPrefix = "t="
	lanesPrefix      = "p="
)

// Params defines the Argon2id cost parameters.
type Params struct {
	Memory     uint32 // Memory in KiB
	Iterations uint32 // Number of passes over memory

	// Lanes is the degree of parallelism. golang.org/x/crypto/argon2 takes a
	// uint8, so hashes written elsewhere with p>255 cannot be verified here.
	Lanes uint8
}

// FirstRecommendedParams returns the first recommended option of RFC 9106:
// 2 GiB of memory, a single pass and 4 lanes.
func FirstRecommendedParams() Params {
	return Params{
		Memory:     2 * 1024 * 1024, // 2 GiB
		Iterations: 1,
		Lanes:      4,
	}
}

// SecondRecommendedParams returns the second recommended option of RFC 9106,
// sized for memory-constrained environments: 64 MiB, 3 passes, 4 lanes.
func SecondRecommendedParams() Params {
	return Params{
		Memory:     64 * 1024, // 64 MiB
		Iterations: 3,
		Lanes:      4,
	}
}

// LowMemoryParams returns parameters suitable for small containers.
func LowMemoryParams() Params {
	return Params{
		Memory:     32 * 1024, // 32 MiB
		Iterations: 4,         // Increase iterations to compensate
		Lanes:      2,
	}
}

// DefaultParams returns the library default, the second recommended option.
func DefaultParams() Params {
	return SecondRecommendedParams()
}

// DefaultLimits returns the bounds a Hasher enforces unless WithLimits
// replaces them. Every preset fits within them.
func DefaultLimits() Params {
	return Params{
		Memory:     FirstRecommendedParams().Memory,
		Iterations: 8,
		Lanes:      16,
	}
}

// Preset names accepted by PresetByName.
const (
	PresetFirstRecommended  = "first_recommended"
	PresetSecondRecommended = "second_recommended"
	PresetLowMemory         = "low_memory"
)

// Presets returns every named preset.
func Presets() map[string]Params {
	return map[string]Params{
		PresetFirstRecommended:  FirstRecommendedParams(),
		PresetSecondRecommended: SecondRecommendedParams(),
		PresetLowMemory:         LowMemoryParams(),
	}
}

// PresetByName looks up a named preset.
func PresetByName(name string) (Params, error) {
	p, ok := Presets()[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Params{}, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
	}
	return p, nil
}

// Validate reports whether every cost parameter is positive.
func (p Params) Validate() error {
	if p.Memory == 0 {
		return fmt.Errorf("%w: memory must be greater than zero", ErrInvalidParams)
	}
	if p.Iterations == 0 {
		return fmt.Errorf("%w: iterations must be greater than zero", ErrInvalidParams)
	}
	if p.Lanes == 0 {
		return fmt.Errorf("%w: lanes must be greater than zero", ErrInvalidParams)
	}
	return nil
}

// String renders the PHC parameter fragment, always in m, t, p order.
func (p Params) String() string {
	return fmt.Sprintf("%s%d,%s%d,%s%d",
		memoryPrefix, p.Memory,
		iterationsPrefix, p.Iterations,
		lanesPrefix, p.Lanes,
	)
}

// exceeds reports whether any parameter of p is above the matching bound in max.
// A zero bound means unlimited.
func (p Params) exceeds(max Params) bool {
	return (max.Memory > 0 && p.Memory > max.Memory) ||
		(max.Iterations > 0 && p.Iterations > max.Iterations) ||
		(max.Lanes > 0 && p.Lanes > max.Lanes)
}

// ParseParams parses a PHC parameter fragment such as "m=65536,t=3,p=4".
// The fields must appear in exactly that order. p is limited to 255, the
// largest lane count golang.org/x/crypto/argon2 accepts; a larger p is
// reported as ErrInvalidParams.
func ParseParams(fragment string) (Params, error) {
	fields := splitNonEmpty(fragment, paramSeparator)
	if len(fields) != 3 {
		return Params{}, fmt.Errorf("%w: expected 3 parameters, got %d", ErrInvalidParams, len(fields))
	}

	memory, ok := parseIntParam(fields[0], memoryPrefix, 32)
	if !ok {
		return Params{}, fmt.Errorf("%w: bad memory field", ErrInvalidParams)
	}
	iterations, ok := parseIntParam(fields[1], iterationsPrefix, 32)
	if !ok {
		return Params{}, fmt.Errorf("%w: bad iterations field", ErrInvalidParams)
	}
	lanes, ok := parseIntParam(fields[2], lanesPrefix, 8)
	if !ok {
		return Params{}, fmt.Errorf("%w: bad lanes field", ErrInvalidParams)
	}

	return Params{
		Memory:     uint32(memory),
		Iterations: uint32(iterations),
		Lanes:      uint8(lanes),
	}, nil
}

// parseIntParam is the one validation rule for every numeric PHC field:
// an exact prefix, then a base-10 integer that fits bitSize and is above zero.
func parseIntParam(field, prefix string, bitSize int) (uint64, bool) {
	rest, found := strings.CutPrefix(field, prefix)
	if !found {
		return 0, false
	}
	v, err := strconv.ParseUint(rest, 10, bitSize)
	if err != nil || v == 0 {
		return 0, false
	}
	return v, true
}

// splitNonEmpty splits s on sep and drops empty entries.
func splitNonEmpty(s, sep string) []string {
	parts := strings.Split(s, sep)
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
