// File: internal/config/pointer_config.go
// Tunable parameters for the humanlike pointer simulation. These settings
// control the motion models that render believable cursor behavior: Fitts's
// Law timing, Bezier curvature, tremor noise, and the idle (fidget) and
// distress (panic) modes.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// PointerConfig holds the tunables for the pointer simulator.
type PointerConfig struct {
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
	// Seed fixes the noise generators for reproducible runs; 0 means random.
	Seed int64 `mapstructure:"seed" yaml:"seed"`

	// Fitts's Law: MT = A + B*log2(1 + D/W).
	FittsA float64 `mapstructure:"fitts_a" yaml:"fitts_a"`
	FittsB float64 `mapstructure:"fitts_b" yaml:"fitts_b"`

	// Curvature is the maximum perpendicular offset of the Bezier control
	// point, as a fraction of the travel distance.
	Curvature    float64 `mapstructure:"curvature" yaml:"curvature"`
	CurvatureCap float64 `mapstructure:"curvature_cap" yaml:"curvature_cap"`

	// Tremor amplitudes in pixels.
	JitterAmplitude float64 `mapstructure:"jitter_amplitude" yaml:"jitter_amplitude"`
	PerlinAmplitude float64 `mapstructure:"perlin_amplitude" yaml:"perlin_amplitude"`

	// Two-phase aiming: the first approach lands within OvershootRadius of
	// the target, then a short corrective move finishes the job.
	OvershootRadius float64       `mapstructure:"overshoot_radius" yaml:"overshoot_radius"`
	AimDuration     time.Duration `mapstructure:"aim_duration" yaml:"aim_duration"`
	CorrectDuration time.Duration `mapstructure:"correct_duration" yaml:"correct_duration"`
	AimSettle       time.Duration `mapstructure:"aim_settle" yaml:"aim_settle"`
	CorrectSettle   time.Duration `mapstructure:"correct_settle" yaml:"correct_settle"`

	// Fidget mode (idle wandering while the model thinks).
	FidgetIntensity float64       `mapstructure:"fidget_intensity" yaml:"fidget_intensity"`
	FidgetMoveMin   time.Duration `mapstructure:"fidget_move_min" yaml:"fidget_move_min"`
	FidgetMoveMax   time.Duration `mapstructure:"fidget_move_max" yaml:"fidget_move_max"`
	FidgetPauseMin  time.Duration `mapstructure:"fidget_pause_min" yaml:"fidget_pause_min"`
	FidgetPauseMax  time.Duration `mapstructure:"fidget_pause_max" yaml:"fidget_pause_max"`

	// Panic mode (rapid distress burst after a failed tool).
	PanicRadiusMin float64       `mapstructure:"panic_radius_min" yaml:"panic_radius_min"`
	PanicRadiusMax float64       `mapstructure:"panic_radius_max" yaml:"panic_radius_max"`
	PanicMoveMin   time.Duration `mapstructure:"panic_move_min" yaml:"panic_move_min"`
	PanicMoveMax   time.Duration `mapstructure:"panic_move_max" yaml:"panic_move_max"`
	PanicPauseMin  time.Duration `mapstructure:"panic_pause_min" yaml:"panic_pause_min"`
	PanicPauseMax  time.Duration `mapstructure:"panic_pause_max" yaml:"panic_pause_max"`

	// Click hold duration bounds.
	ClickHoldMinMs int `mapstructure:"click_hold_min_ms" yaml:"click_hold_min_ms"`
	ClickHoldMaxMs int `mapstructure:"click_hold_max_ms" yaml:"click_hold_max_ms"`
}

func setPointerDefaults(v *viper.Viper) {
	v.SetDefault("browser.pointer.enabled", true)
	v.SetDefault("browser.pointer.seed", 0)
	v.SetDefault("browser.pointer.fitts_a", 100.0)
	v.SetDefault("browser.pointer.fitts_b", 120.0)
	v.SetDefault("browser.pointer.curvature", 0.4)
	v.SetDefault("browser.pointer.curvature_cap", 100.0)
	v.SetDefault("browser.pointer.jitter_amplitude", 1.0)
	v.SetDefault("browser.pointer.perlin_amplitude", 2.5)
	v.SetDefault("browser.pointer.overshoot_radius", 40.0)
	v.SetDefault("browser.pointer.aim_duration", 200*time.Millisecond)
	v.SetDefault("browser.pointer.correct_duration", 150*time.Millisecond)
	v.SetDefault("browser.pointer.aim_settle", 250*time.Millisecond)
	v.SetDefault("browser.pointer.correct_settle", 200*time.Millisecond)
	v.SetDefault("browser.pointer.fidget_intensity", 0.3)
	v.SetDefault("browser.pointer.fidget_move_min", 600*time.Millisecond)
	v.SetDefault("browser.pointer.fidget_move_max", 1400*time.Millisecond)
	v.SetDefault("browser.pointer.fidget_pause_min", 200*time.Millisecond)
	v.SetDefault("browser.pointer.fidget_pause_max", 700*time.Millisecond)
	v.SetDefault("browser.pointer.panic_radius_min", 40.0)
	v.SetDefault("browser.pointer.panic_radius_max", 100.0)
	v.SetDefault("browser.pointer.panic_move_min", 100*time.Millisecond)
	v.SetDefault("browser.pointer.panic_move_max", 180*time.Millisecond)
	v.SetDefault("browser.pointer.panic_pause_min", 30*time.Millisecond)
	v.SetDefault("browser.pointer.panic_pause_max", 80*time.Millisecond)
	v.SetDefault("browser.pointer.click_hold_min_ms", 50)
	v.SetDefault("browser.pointer.click_hold_max_ms", 120)
}

// Validate checks the pointer tunables for sane values.
func (p *PointerConfig) Validate() error {
	if !p.Enabled {
		return nil
	}
	if p.Curvature < 0 || p.Curvature > 1 {
		return fmt.Errorf("pointer.curvature must be within [0, 1]")
	}
	if p.OvershootRadius < 0 {
		return fmt.Errorf("pointer.overshoot_radius must not be negative")
	}
	if p.PanicRadiusMax < p.PanicRadiusMin {
		return fmt.Errorf("pointer.panic_radius_max must be >= panic_radius_min")
	}
	if p.ClickHoldMaxMs <= p.ClickHoldMinMs {
		return fmt.Errorf("pointer.click_hold_max_ms must be greater than click_hold_min_ms")
	}
	return nil
}
