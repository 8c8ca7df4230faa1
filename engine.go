// Package qc simulates gate-model quantum circuits on N qubits.
//
// Three interchangeable engines implement the same operation contract: a
// dense state vector (package statevec), a full order-N tensor (package
// tensornet), and a truncated matrix product state (package mps). Qubit
// indices are big-endian: qubit 0 is the most significant bit of a basis
// index.
package qc

import (
	"math/rand/v2"

	"github.com/jbrumf/qc-basics/gate"
)

// Basis selects the measurement basis of a qubit.
type Basis int

const (
	BasisZ Basis = iota
	BasisX
	BasisY
)

func (b Basis) String() string {
	switch b {
	case BasisZ:
		return "Z"
	case BasisX:
		return "X"
	case BasisY:
		return "Y"
	default:
		return "?"
	}
}

// Engine is the operation contract shared by all state representations.
// An Engine owns a single mutable state; it must not be used by two
// concurrent callers.
type Engine interface {
	// NumQubits returns the fixed qubit count N.
	NumQubits() int

	// ApplyGate applies g to the target qubits, in target order, mutating
	// the state in place.
	ApplyGate(g gate.Gate, targets ...int) error

	// Measure performs a projective measurement of the given qubits in the
	// given basis, collapses the state in place, and returns one bit per
	// qubit. Randomness comes only from rng.
	Measure(rng *rand.Rand, basis Basis, qubits ...int) ([]byte, error)

	// Probabilities returns the Born-rule probability of every one of the
	// 2^N basis strings, indexed big-endian.
	Probabilities() ([]float64, error)

	// Marginal returns the probabilities of qubit q being 0 and 1.
	Marginal(q int) ([2]float64, error)

	// Amplitudes returns a copy of the 2^N amplitudes, indexed big-endian.
	Amplitudes() ([]complex128, error)

	// Norm returns the 2-norm of the state.
	Norm() float64

	// Clone returns an independent deep copy of the engine and its state.
	Clone() Engine
}

// BasisPrep returns the gates rotating a qubit from basis b into the
// computational (Z) basis, in application order. Measurement always
// collapses in Z after this preparation.
func BasisPrep(b Basis) []gate.Gate {
	switch b {
	case BasisX:
		return []gate.Gate{gate.H}
	case BasisY:
		return []gate.Gate{gate.Sdg, gate.H}
	default:
		return nil
	}
}

// BasisUnprep returns the inverse of BasisPrep, restoring the
// post-measurement state to the original basis frame.
func BasisUnprep(b Basis) []gate.Gate {
	switch b {
	case BasisX:
		return []gate.Gate{gate.H}
	case BasisY:
		return []gate.Gate{gate.H, gate.S}
	default:
		return nil
	}
}
