// Package element holds the periodic-table records the visualizer draws
// from, plus the lookups and table placement the UI needs.
package element

import "math"

// Category is the chemical family an element belongs to.
type Category string

const (
	CategoryAlkaliMetal         Category = "Alkali Metal"
	CategoryAlkalineEarthMetal  Category = "Alkaline Earth Metal"
	CategoryTransitionMetal     Category = "Transition Metal"
	CategoryPostTransitionMetal Category = "Post-transition Metal"
	CategoryMetalloid           Category = "Metalloid"
	CategoryReactiveNonmetal    Category = "Reactive Nonmetal"
	CategoryNobleGas            Category = "Noble Gas"
	CategoryLanthanide          Category = "Lanthanide"
	CategoryActinide            Category = "Actinide"
	CategoryUnknown             Category = "Unknown"
)

// Categories lists every category in legend order.
var Categories = []Category{
	CategoryAlkaliMetal,
	CategoryAlkalineEarthMetal,
	CategoryTransitionMetal,
	CategoryPostTransitionMetal,
	CategoryMetalloid,
	CategoryReactiveNonmetal,
	CategoryNobleGas,
	CategoryLanthanide,
	CategoryActinide,
	CategoryUnknown,
}

// Block is the orbital block of the element's highest-energy electrons.
type Block string

const (
	BlockS Block = "s"
	BlockP Block = "p"
	BlockD Block = "d"
	BlockF Block = "f"
)

// Record is one element of the dataset. Records are immutable values.
type Record struct {
	AtomicNumber          int      `yaml:"number" json:"atomicNumber"`
	Symbol                string   `yaml:"symbol" json:"symbol"`
	Name                  string   `yaml:"name" json:"name"`
	AtomicMass            float64  `yaml:"mass" json:"atomicMass"`
	Category              Category `yaml:"category" json:"category"`
	Group                 int      `yaml:"group" json:"group"`
	Period                int      `yaml:"period" json:"period"`
	Block                 Block    `yaml:"block" json:"block"`
	ElectronConfiguration string   `yaml:"config" json:"electronConfiguration"`
	Shells                []int    `yaml:"shells" json:"shells"`
	Summary               string   `yaml:"summary" json:"summary"`
}

// NeutronCount is the atomic mass minus the atomic number, rounded to the
// nearest integer. It can be negative for inconsistent records; see Validate.
func (r Record) NeutronCount() int {
	return int(math.Round(r.AtomicMass - float64(r.AtomicNumber)))
}

// NucleonCount is protons plus neutrons.
func (r Record) NucleonCount() int {
	return r.AtomicNumber + r.NeutronCount()
}

// ElectronCount sums the shell occupancies.
func (r Record) ElectronCount() int {
	n := 0
	for _, s := range r.Shells {
		n += s
	}
	return n
}

// IsLanthanide reports whether the element belongs to the 57-71 row.
func (r Record) IsLanthanide() bool {
	return r.AtomicNumber >= 57 && r.AtomicNumber <= 71
}

// IsActinide reports whether the element belongs to the 89-103 row.
func (r Record) IsActinide() bool {
	return r.AtomicNumber >= 89 && r.AtomicNumber <= 103
}
