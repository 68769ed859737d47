// Package layout turns an element record into a Scene: concentric electron
// shells with evenly spaced electrons, and a nucleus of protons and
// neutrons packed on a golden-angle (sunflower) spiral.
//
// Every function here is pure apart from the nucleon shuffle, which draws
// from a caller-supplied random source.
package layout

import (
	"math"
	"math/rand/v2"
)

// NucleonKind tags a nucleus particle.
type NucleonKind string

const (
	Proton  NucleonKind = "proton"
	Neutron NucleonKind = "neutron"
)

// Electron is one electron on a shell, positioned by angle only; the
// renderer rotates the whole shell.
type Electron struct {
	AngleDegrees float64 `json:"angleDegrees"`
}

// ShellVisual is one orbit of the scene.
type ShellVisual struct {
	Index          int        `json:"index"`
	Radius         float64    `json:"radius"`
	RotationPeriod float64    `json:"rotationPeriod"`
	Electrons      []Electron `json:"electrons"`
}

// NucleonVisual is one proton or neutron in the nucleus cluster.
type NucleonVisual struct {
	Kind   NucleonKind `json:"kind"`
	X      float64     `json:"x"`
	Y      float64     `json:"y"`
	Radius float64     `json:"radius"`
}

// ShellVisuals lays out one orbit per entry of shells. Radii grow linearly
// from InnerBound+Margin towards OuterBound; rotation periods grow by
// PerShellIncrement per shell so inner shells spin fastest. A shell with
// zero (or negative) occupancy has no electrons.
func ShellVisuals(shells []int, opts Options) []ShellVisual {
	count := len(shells)
	divisor := float64(max(count, 1))
	span := opts.OuterBound - opts.InnerBound - opts.Margin

	out := make([]ShellVisual, count)
	for i, n := range shells {
		out[i] = ShellVisual{
			Index:          i,
			Radius:         opts.InnerBound + opts.Margin + float64(i)/divisor*span,
			RotationPeriod: opts.BaseDuration + float64(i)*opts.PerShellIncrement,
			Electrons:      electronRing(n),
		}
	}
	return out
}

// electronRing spaces n electrons evenly around a circle starting at 0°.
func electronRing(n int) []Electron {
	if n <= 0 {
		return []Electron{}
	}
	ring := make([]Electron, n)
	for k := range ring {
		ring[k] = Electron{AngleDegrees: 360 * float64(k) / float64(n)}
	}
	return ring
}

// NucleonRadius is the shared particle radius for a nucleus of total
// particles, clamped to [MinNucleonRadius, MaxNucleonRadius] and never
// outside [RadiusFloor, RadiusCeiling], even for unvalidated options.
func NucleonRadius(total int, opts Options) float64 {
	r := opts.BaseNucleonRadius / math.Sqrt(float64(max(total, 1)))
	r = math.Max(opts.MinNucleonRadius, math.Min(opts.MaxNucleonRadius, r))
	return math.Max(RadiusFloor, math.Min(RadiusCeiling, r))
}

// NucleonVisuals packs protons and neutrons on a golden-angle spiral.
// The kinds are shuffled uniformly with rng before positions are assigned,
// so which slot a proton lands in varies while the slot geometry does not.
// Negative counts are treated as zero.
func NucleonVisuals(protons, neutrons int, rng *rand.Rand, opts Options) []NucleonVisual {
	protons, neutrons = max(protons, 0), max(neutrons, 0)
	total := protons + neutrons

	kinds := make([]NucleonKind, 0, total)
	for range protons {
		kinds = append(kinds, Proton)
	}
	for range neutrons {
		kinds = append(kinds, Neutron)
	}
	shuffle(kinds, rng)

	radius := NucleonRadius(total, opts)
	spacing := radius * opts.SpacingScale

	out := make([]NucleonVisual, total)
	for i, kind := range kinds {
		x, y := SpiralPoint(i, spacing, GoldenAngle)
		out[i] = NucleonVisual{Kind: kind, X: x, Y: y, Radius: radius}
	}
	return out
}

// SpiralPoint is the i-th point of a phyllotaxis spiral: angle i·golden,
// distance spacing·sqrt(i).
func SpiralPoint(i int, spacing, golden float64) (x, y float64) {
	angle := float64(i) * golden
	distance := spacing * math.Sqrt(float64(i))
	return distance * math.Cos(angle), distance * math.Sin(angle)
}

// shuffle is a Fisher-Yates permutation; a nil rng uses the global source.
func shuffle(kinds []NucleonKind, rng *rand.Rand) {
	swap := func(i, j int) { kinds[i], kinds[j] = kinds[j], kinds[i] }
	if rng == nil {
		rand.Shuffle(len(kinds), swap)
		return
	}
	rng.Shuffle(len(kinds), swap)
}
