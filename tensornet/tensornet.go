// Package tensornet implements the full order-N tensor engine.
//
// The state is the same amplitude information as the dense vector,
// addressed by N independent indices. Gate application is a direct
// contraction of the order-2K gate tensor with the K target physical
// axes, with no identity expansion, at O(M·2^N).
package tensornet

import (
	"math/rand/v2"

	"github.com/pkg/errors"

	qc "github.com/jbrumf/qc-basics"
	"github.com/jbrumf/qc-basics/gate"
	"github.com/jbrumf/qc-basics/tensor"
)

// MaxQubits bounds the 2^N state tensor; above it New fails fast.
const MaxQubits = 24

// Engine holds the state as an order-N tensor of shape 2 × … × 2. Its
// row-major storage coincides with the big-endian dense vector.
type Engine struct {
	n     int
	state *tensor.Dense
}

// New creates the all-zero basis state on n qubits.
func New(n int) (*Engine, error) {
	if n < 1 {
		return nil, errors.Wrapf(qc.ErrDimensionMismatch, "%d qubits", n)
	}
	if n > MaxQubits {
		return nil, errors.Wrapf(qc.ErrResourceExceeded, "%d qubits, full tensor limit is %d", n, MaxQubits)
	}
	shape := make([]int, n)
	for i := range shape {
		shape[i] = 2
	}
	state := tensor.Zeros(shape...)
	state.Data()[0] = 1
	return &Engine{n: n, state: state}, nil
}

// NumQubits returns N.
func (e *Engine) NumQubits() int { return e.n }

// ApplyGate contracts the gate tensor into the target axes. Non-adjacent
// and arbitrarily ordered targets are handled by index selection alone.
func (e *Engine) ApplyGate(g gate.Gate, targets ...int) error {
	if err := qc.CheckTargets(e.n, g.Arity(), targets); err != nil {
		return err
	}
	k := g.Arity()

	// Contract state axis targets[i] with gate input axis k+i. The result
	// holds the untargeted axes in ascending order, then the K output
	// axes in target order.
	axes := make([][2]int, k)
	for i, t := range targets {
		axes[i] = [2]int{t, k + i}
	}
	contracted := tensor.Product(e.state, g.Tensor(), axes)

	// Move every output axis back to its qubit position.
	perm := make([]int, e.n)
	for q := 0; q < e.n; q++ {
		perm[q] = sourceAxis(e.n, targets, q)
	}
	e.state = contracted.Transpose(perm...)
	return nil
}

// Measure measures the given qubits in basis, collapsing in place.
func (e *Engine) Measure(rng *rand.Rand, basis qc.Basis, qubits ...int) ([]byte, error) {
	if err := qc.CheckTargets(e.n, len(qubits), qubits); err != nil {
		return nil, err
	}
	for _, q := range qubits {
		for _, g := range qc.BasisPrep(basis) {
			if err := e.ApplyGate(g, q); err != nil {
				return nil, err
			}
		}
	}
	bits, err := qc.MeasureBits(rng, e.state.Data(), e.n, qubits)
	if err != nil {
		return nil, err
	}
	for _, q := range qubits {
		for _, g := range qc.BasisUnprep(basis) {
			if err := e.ApplyGate(g, q); err != nil {
				return nil, err
			}
		}
	}
	return bits, nil
}

// Probabilities returns the squared magnitudes of all amplitudes.
func (e *Engine) Probabilities() ([]float64, error) {
	data := e.state.Data()
	probs := make([]float64, len(data))
	for i, a := range data {
		probs[i] = real(a)*real(a) + imag(a)*imag(a)
	}
	return probs, nil
}

// Marginal returns the probabilities of qubit q being 0 and 1.
func (e *Engine) Marginal(q int) ([2]float64, error) {
	if q < 0 || q >= e.n {
		return [2]float64{}, errors.Wrapf(qc.ErrIndexOutOfRange, "qubit %d of %d", q, e.n)
	}
	return qc.MarginalBit(e.state.Data(), e.n, q), nil
}

// Amplitudes returns a copy of the flattened state tensor.
func (e *Engine) Amplitudes() ([]complex128, error) {
	return append([]complex128{}, e.state.Data()...), nil
}

// Norm returns the 2-norm of the state.
func (e *Engine) Norm() float64 {
	return e.state.Norm()
}

// Clone returns an independent copy of the engine.
func (e *Engine) Clone() qc.Engine {
	return &Engine{n: e.n, state: e.state.Clone()}
}

// sourceAxis locates qubit q in the axis order produced by the gate
// contraction: untargeted axes ascending, then output axes.
func sourceAxis(n int, targets []int, q int) int {
	for j, t := range targets {
		if t == q {
			return n - len(targets) + j
		}
	}
	rank := 0
	for u := 0; u < q; u++ {
		isTarget := false
		for _, t := range targets {
			if t == u {
				isTarget = true
				break
			}
		}
		if !isTarget {
			rank++
		}
	}
	return rank
}
