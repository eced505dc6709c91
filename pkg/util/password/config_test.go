package password

import (
	"errors"
	"testing"

	"github.com/Alijeyrad/passhash/config"
)

func TestFromCentralConfig(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.PasswordConfig
		want    Params
		wantErr error
	}{
		{name: "empty preset", cfg: config.PasswordConfig{}, want: DefaultParams()},
		{name: "named preset", cfg: config.PasswordConfig{Preset: "Low_Memory"}, want: LowMemoryParams()},
		{
			name: "custom",
			cfg:  config.PasswordConfig{Preset: "custom", MemoryKiB: 1024, Iterations: 2, Lanes: 1},
			want: Params{Memory: 1024, Iterations: 2, Lanes: 1},
		},
		{name: "custom without values", cfg: config.PasswordConfig{Preset: "custom"}, wantErr: ErrInvalidParams},
		{name: "unknown preset", cfg: config.PasswordConfig{Preset: "fastest"}, wantErr: ErrUnknownPreset},
		{
			name: "explicit values ignored for named preset",
			cfg:  config.PasswordConfig{Preset: "first_recommended", MemoryKiB: 8},
			want: FirstRecommendedParams(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromCentralConfig(tt.cfg)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("FromCentralConfig() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("FromCentralConfig() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("FromCentralConfig() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestNewFromCentralConfigAppliesLimits(t *testing.T) {
	h, err := NewFromCentralConfig(config.PasswordConfig{
		Preset: "custom", MemoryKiB: 64, Iterations: 1, Lanes: 1,
		MaxMemoryKiB: 64,
	})
	if err != nil {
		t.Fatalf("NewFromCentralConfig() error = %v", err)
	}
	want := DefaultLimits()
	want.Memory = 64
	if got := LimitsFromCentralConfig(config.PasswordConfig{MaxMemoryKiB: 64}); got != want {
		t.Errorf("LimitsFromCentralConfig() = %+v, want %+v", got, want)
	}
	if got := LimitsFromCentralConfig(config.PasswordConfig{}); got != DefaultLimits() {
		t.Errorf("LimitsFromCentralConfig() with zero bounds = %+v, want DefaultLimits", got)
	}

	big, err := HashWithParams("pw", &Params{Memory: 128, Iterations: 1, Lanes: 1})
	if err != nil {
		t.Fatal(err)
	}
	ok, err := h.Verify("pw", big)
	if err != nil || ok {
		t.Errorf("Verify() over limit = %v, %v; want false, nil", ok, err)
	}
}
