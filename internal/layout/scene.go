package layout

import (
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/ziadkadry99/atomik/internal/element"
)

// Scene is the full geometric description of one element's atom.
type Scene struct {
	AtomicNumber int             `json:"atomicNumber"`
	Symbol       string          `json:"symbol"`
	Name         string          `json:"name"`
	ProtonCount  int             `json:"protonCount"`
	NeutronCount int             `json:"neutronCount"`
	Shells       []ShellVisual   `json:"shells"`
	Nucleons     []NucleonVisual `json:"nucleons"`
}

// ElectronCount sums the electrons across all shells.
func (s Scene) ElectronCount() int {
	n := 0
	for _, sh := range s.Shells {
		n += len(sh.Electrons)
	}
	return n
}

// Build validates rec and computes its scene with the given options and
// random source. A nil rng uses the global source.
func Build(rec element.Record, opts Options, rng *rand.Rand) (Scene, error) {
	if err := element.Validate(rec); err != nil {
		return Scene{}, err
	}
	neutrons := rec.NeutronCount()
	return Scene{
		AtomicNumber: rec.AtomicNumber,
		Symbol:       rec.Symbol,
		Name:         rec.Name,
		ProtonCount:  rec.AtomicNumber,
		NeutronCount: neutrons,
		Shells:       ShellVisuals(rec.Shells, opts),
		Nucleons:     NucleonVisuals(rec.AtomicNumber, neutrons, rng, opts),
	}, nil
}

// Engine builds scenes with fixed options and a private random source.
// It is safe for concurrent use.
type Engine struct {
	opts Options

	mu  sync.Mutex
	rng *rand.Rand
}

// NewEngine returns an Engine seeded from the clock.
func NewEngine(opts Options) (*Engine, error) {
	seed := uint64(time.Now().UnixNano())
	return NewSeededEngine(opts, seed)
}

// NewSeededEngine returns an Engine whose shuffles are reproducible.
func NewSeededEngine(opts Options, seed uint64) (*Engine, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("layout options: %w", err)
	}
	return &Engine{
		opts: opts,
		rng:  rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}, nil
}

// Options returns the engine's geometry.
func (e *Engine) Options() Options { return e.opts }

// Scene builds the scene for rec.
func (e *Engine) Scene(rec element.Record) (Scene, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return Build(rec, e.opts, e.rng)
}

// SceneWithSeed builds a scene whose shuffle depends only on seed, so the
// same request always yields the same picture.
func (e *Engine) SceneWithSeed(rec element.Record, seed uint64) (Scene, error) {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	return Build(rec, e.opts, rng)
}
