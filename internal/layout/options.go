package layout

import "fmt"

// GoldenAngle is the phyllotaxis increment in radians (~137.5 degrees).
// It is fixed: any other increment breaks the uniform packing.
const GoldenAngle = 2.39996

// Every nucleon radius lies in [RadiusFloor, RadiusCeiling]. Options may
// narrow the clamp but never widen it.
const (
	RadiusFloor   = 2.0
	RadiusCeiling = 12.0
)

// Options holds the geometric constants of a scene. Units are SVG user
// units in a 500x500 viewBox centred on the nucleus; periods are seconds.
type Options struct {
	// Shells are spread from InnerBound+Margin out towards OuterBound.
	InnerBound float64 `koanf:"inner_bound" yaml:"inner_bound"`
	Margin     float64 `koanf:"margin" yaml:"margin"`
	OuterBound float64 `koanf:"outer_bound" yaml:"outer_bound"`

	BaseDuration      float64 `koanf:"base_duration" yaml:"base_duration"`
	PerShellIncrement float64 `koanf:"per_shell_increment" yaml:"per_shell_increment"`

	// Nucleon radius is BaseNucleonRadius/sqrt(n), clamped to
	// [MinNucleonRadius, MaxNucleonRadius] within the fixed bounds.
	BaseNucleonRadius float64 `koanf:"base_nucleon_radius" yaml:"base_nucleon_radius"`
	MinNucleonRadius  float64 `koanf:"min_nucleon_radius" yaml:"min_nucleon_radius"`
	MaxNucleonRadius  float64 `koanf:"max_nucleon_radius" yaml:"max_nucleon_radius"`
	// Spiral spacing is SpacingScale times the nucleon radius.
	SpacingScale float64 `koanf:"spacing_scale" yaml:"spacing_scale"`
}

// DefaultOptions returns the geometry the web page is tuned for.
func DefaultOptions() Options {
	return Options{
		InnerBound:        40,
		Margin:            30,
		OuterBound:        180,
		BaseDuration:      5,
		PerShellIncrement: 4,
		BaseNucleonRadius: 28,
		MinNucleonRadius:  RadiusFloor,
		MaxNucleonRadius:  RadiusCeiling,
		SpacingScale:      1.2,
	}
}

// Validate rejects option sets that would break the scene invariants.
func (o Options) Validate() error {
	if o.InnerBound < 0 || o.Margin < 0 {
		return fmt.Errorf("inner_bound and margin must be non-negative")
	}
	if o.OuterBound <= o.InnerBound+o.Margin {
		return fmt.Errorf("outer_bound %g must exceed inner_bound+margin %g", o.OuterBound, o.InnerBound+o.Margin)
	}
	if o.BaseDuration <= 0 {
		return fmt.Errorf("base_duration must be positive")
	}
	if o.PerShellIncrement <= 0 {
		return fmt.Errorf("per_shell_increment must be positive")
	}
	if o.BaseNucleonRadius <= 0 {
		return fmt.Errorf("base_nucleon_radius must be positive")
	}
	if o.MinNucleonRadius < RadiusFloor || o.MaxNucleonRadius > RadiusCeiling || o.MinNucleonRadius > o.MaxNucleonRadius {
		return fmt.Errorf("nucleon radius bounds [%g, %g] must lie within [%g, %g]",
			o.MinNucleonRadius, o.MaxNucleonRadius, RadiusFloor, RadiusCeiling)
	}
	if o.SpacingScale <= 0 {
		return fmt.Errorf("spacing_scale must be positive")
	}
	return nil
}
