package layout

import (
	"math"
	"math/rand/v2"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const eps = 1e-6

func testRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed+1))
}

func TestShellVisualsCounts(t *testing.T) {
	opts := DefaultOptions()
	rng := testRand(1)

	for trial := 0; trial < 200; trial++ {
		shells := make([]int, rng.IntN(9))
		for i := range shells {
			shells[i] = rng.IntN(33)
		}
		got := ShellVisuals(shells, opts)
		require.Len(t, got, len(shells))
		for i, sh := range got {
			require.Len(t, sh.Electrons, shells[i], "shell %d of %v", i, shells)
			require.Equal(t, i, sh.Index)
		}
	}
}

func TestElectronAnglesEvenlySpaced(t *testing.T) {
	opts := DefaultOptions()
	for n := 1; n <= 40; n++ {
		got := ShellVisuals([]int{n}, opts)[0].Electrons
		angles := make([]float64, len(got))
		for i, e := range got {
			angles[i] = e.AngleDegrees
		}
		sort.Float64s(angles)
		for k := 0; k < n; k++ {
			assert.InDelta(t, 360*float64(k)/float64(n), angles[k], eps, "n=%d k=%d", n, k)
		}
	}
}

func TestShellRadiiIncreaseWithinBounds(t *testing.T) {
	opts := DefaultOptions()
	for count := 1; count <= 8; count++ {
		shells := make([]int, count)
		got := ShellVisuals(shells, opts)
		for i, sh := range got {
			assert.Greater(t, sh.Radius, opts.InnerBound)
			assert.Less(t, sh.Radius, opts.OuterBound)
			if i > 0 {
				assert.Greater(t, sh.Radius, got[i-1].Radius, "radius must grow with index")
				assert.Greater(t, sh.RotationPeriod, got[i-1].RotationPeriod, "outer shells spin slower")
			}
		}
		assert.InDelta(t, opts.InnerBound+opts.Margin, got[0].Radius, eps)
		assert.InDelta(t, opts.BaseDuration, got[0].RotationPeriod, eps)
	}
}

func TestShellVisualsDegenerate(t *testing.T) {
	opts := DefaultOptions()
	assert.Empty(t, ShellVisuals(nil, opts))
	assert.Empty(t, ShellVisuals([]int{}, opts))

	got := ShellVisuals([]int{0}, opts)
	require.Len(t, got, 1)
	assert.Empty(t, got[0].Electrons)
	assert.False(t, math.IsNaN(got[0].Radius))
}

func TestNucleonComposition(t *testing.T) {
	opts := DefaultOptions()
	rng := testRand(7)

	for trial := 0; trial < 200; trial++ {
		p, n := rng.IntN(120), rng.IntN(180)
		if p+n == 0 {
			p = 1
		}
		got := NucleonVisuals(p, n, rng, opts)
		require.Len(t, got, p+n)

		protons, neutrons := 0, 0
		for _, nv := range got {
			switch nv.Kind {
			case Proton:
				protons++
			case Neutron:
				neutrons++
			default:
				t.Fatalf("unexpected kind %q", nv.Kind)
			}
		}
		require.Equal(t, p, protons)
		require.Equal(t, n, neutrons)
	}
}

func TestNucleonRadiiEqualAndClamped(t *testing.T) {
	opts := DefaultOptions()
	rng := testRand(3)

	for _, total := range []int{1, 2, 5, 12, 50, 196, 300} {
		got := NucleonVisuals(total/2, total-total/2, rng, opts)
		require.NotEmpty(t, got)
		r0 := got[0].Radius
		for _, nv := range got {
			require.Equal(t, r0, nv.Radius)
		}
		assert.GreaterOrEqual(t, r0, 2.0)
		assert.LessOrEqual(t, r0, 12.0)
	}

	assert.Equal(t, 12.0, NucleonRadius(1, opts), "small nuclei clamp to the maximum")
	assert.Equal(t, 2.0, NucleonRadius(1000, opts), "huge nuclei clamp to the minimum")
	assert.InDelta(t, 28/math.Sqrt(12), NucleonRadius(12, opts), eps)
}

func TestNucleonSpiralDistances(t *testing.T) {
	opts := DefaultOptions()
	got := NucleonVisuals(40, 50, testRand(11), opts)
	spacing := got[0].Radius * opts.SpacingScale

	prev := -1.0
	for i, nv := range got {
		d := math.Hypot(nv.X, nv.Y)
		assert.InDelta(t, spacing*math.Sqrt(float64(i)), d, eps, "index %d", i)
		assert.GreaterOrEqual(t, d, prev)
		prev = d
	}
	assert.InDelta(t, 0, got[0].X, eps)
	assert.InDelta(t, 0, got[0].Y, eps)
}

func TestNucleonVisualsDegenerate(t *testing.T) {
	opts := DefaultOptions()
	assert.Empty(t, NucleonVisuals(0, 0, testRand(1), opts))
	assert.Empty(t, NucleonVisuals(0, -3, testRand(1), opts))
	assert.Len(t, NucleonVisuals(2, -1, nil, opts), 2)
}

func TestShuffleIsSeededAndMixes(t *testing.T) {
	opts := DefaultOptions()
	a := NucleonVisuals(30, 30, testRand(42), opts)
	b := NucleonVisuals(30, 30, testRand(42), opts)
	assert.Equal(t, a, b, "same seed, same scene")

	// Unshuffled order would put all protons first.
	firstHalfProtons := 0
	for _, nv := range a[:30] {
		if nv.Kind == Proton {
			firstHalfProtons++
		}
	}
	assert.Less(t, firstHalfProtons, 30)
}

func TestOptionsValidate(t *testing.T) {
	require.NoError(t, DefaultOptions().Validate())

	bad := []func(*Options){
		func(o *Options) { o.OuterBound = 60 },
		func(o *Options) { o.Margin = -1 },
		func(o *Options) { o.BaseDuration = 0 },
		func(o *Options) { o.PerShellIncrement = 0 },
		func(o *Options) { o.MinNucleonRadius = 20 },
		func(o *Options) { o.MinNucleonRadius = 0.5 },
		func(o *Options) { o.MaxNucleonRadius = 30 },
		func(o *Options) { o.BaseNucleonRadius = 0 },
		func(o *Options) { o.SpacingScale = 0 },
	}
	for i, mutate := range bad {
		o := DefaultOptions()
		mutate(&o)
		assert.Error(t, o.Validate(), "case %d", i)
	}
}

func TestNucleonRadiusStaysInFixedBounds(t *testing.T) {
	loose := DefaultOptions()
	loose.MinNucleonRadius = 0.5
	loose.MaxNucleonRadius = 30

	for _, total := range []int{1, 2, 12, 300} {
		r := NucleonRadius(total, loose)
		assert.GreaterOrEqual(t, r, RadiusFloor, "total %d", total)
		assert.LessOrEqual(t, r, RadiusCeiling, "total %d", total)
	}

	narrow := DefaultOptions()
	narrow.MinNucleonRadius = 4
	narrow.MaxNucleonRadius = 8
	require.NoError(t, narrow.Validate())
	assert.Equal(t, 8.0, NucleonRadius(1, narrow))
	assert.Equal(t, 4.0, NucleonRadius(300, narrow))
}
