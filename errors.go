package qc

import (
	"github.com/pkg/errors"
)

var (
	// ErrDimensionMismatch reports a gate arity inconsistent with its
	// target list.
	ErrDimensionMismatch = errors.New("dimension mismatch")

	// ErrIndexOutOfRange reports a qubit index outside [0, N).
	ErrIndexOutOfRange = errors.New("qubit index out of range")

	// ErrNumericalInstability reports a diverged norm or a failed
	// factorization. It indicates the state can no longer be trusted.
	ErrNumericalInstability = errors.New("numerical instability")

	// ErrResourceExceeded reports a qubit count whose representation would
	// exceed the engine's memory ceiling.
	ErrResourceExceeded = errors.New("resource limit exceeded")
)

// CheckTargets validates a target list against the qubit count n and the
// gate arity.
func CheckTargets(n, arity int, targets []int) error {
	if len(targets) != arity {
		return errors.Wrapf(ErrDimensionMismatch, "arity %d, %d targets", arity, len(targets))
	}
	for i, t := range targets {
		if t < 0 || t >= n {
			return errors.Wrapf(ErrIndexOutOfRange, "target %d of %d qubits", t, n)
		}
		for _, u := range targets[:i] {
			if u == t {
				return errors.Wrapf(ErrDimensionMismatch, "duplicate target %d", t)
			}
		}
	}
	return nil
}
