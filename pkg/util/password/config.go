package password

import (
	"fmt"
	"strings"

	"github.com/Alijeyrad/passhash/config"
)

// PresetCustom selects the explicit memory/iterations/lanes values of the
// central config instead of a named preset.
const PresetCustom = "custom"

// FromCentralConfig resolves config.PasswordConfig into Params.
func FromCentralConfig(c config.PasswordConfig) (Params, error) {
	preset := strings.ToLower(strings.TrimSpace(c.Preset))

	var p Params
	switch preset {
	case "":
		p = DefaultParams()
	case PresetCustom:
		p = Params{
			Memory:     c.MemoryKiB,
			Iterations: c.Iterations,
			Lanes:      c.Lanes,
		}
	default:
		var err error
		if p, err = PresetByName(preset); err != nil {
			return Params{}, err
		}
	}

	if err := p.Validate(); err != nil {
		return Params{}, fmt.Errorf("password config: %w", err)
	}
	return p, nil
}

// LimitsFromCentralConfig returns the cost bounds for hashing and verifying.
// Zero fields fall back to DefaultLimits.
func LimitsFromCentralConfig(c config.PasswordConfig) Params {
	limits := DefaultLimits()
	if c.MaxMemoryKiB > 0 {
		limits.Memory = c.MaxMemoryKiB
	}
	if c.MaxIterations > 0 {
		limits.Iterations = c.MaxIterations
	}
	if c.MaxLanes > 0 {
		limits.Lanes = c.MaxLanes
	}
	return limits
}

// NewFromCentralConfig builds a Hasher from the central config.
func NewFromCentralConfig(c config.PasswordConfig) (*Hasher, error) {
	p, err := FromCentralConfig(c)
	if err != nil {
		return nil, err
	}
	return New(WithParams(p), WithLimits(LimitsFromCentralConfig(c)))
}
