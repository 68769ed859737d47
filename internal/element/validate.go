package element

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a lookup matches no element.
	ErrNotFound = errors.New("element not found")
	// ErrInvalidRecord marks a record that is internally inconsistent.
	ErrInvalidRecord = errors.New("invalid element record")
)

// Validate checks the numeric consistency the layout engine relies on:
// a positive atomic number and mass, a non-negative neutron count, and
// shell occupancies that are non-negative and sum to the atomic number.
func Validate(r Record) error {
	if r.AtomicNumber <= 0 {
		return fmt.Errorf("%w: atomic number %d must be positive", ErrInvalidRecord, r.AtomicNumber)
	}
	if r.Symbol == "" {
		return fmt.Errorf("%w: element %d has no symbol", ErrInvalidRecord, r.AtomicNumber)
	}
	if r.AtomicMass <= 0 {
		return fmt.Errorf("%w: %s atomic mass %g must be positive", ErrInvalidRecord, r.Symbol, r.AtomicMass)
	}
	if n := r.NeutronCount(); n < 0 {
		return fmt.Errorf("%w: %s has negative neutron count %d", ErrInvalidRecord, r.Symbol, n)
	}
	for i, s := range r.Shells {
		if s < 0 {
			return fmt.Errorf("%w: %s shell %d has negative occupancy %d", ErrInvalidRecord, r.Symbol, i, s)
		}
	}
	if sum := r.ElectronCount(); sum != r.AtomicNumber {
		return fmt.Errorf("%w: %s shells hold %d electrons, want %d", ErrInvalidRecord, r.Symbol, sum, r.AtomicNumber)
	}
	return nil
}
