// Package statevec implements the dense state-vector engine.
//
// Gate application expands the gate matrix to the full 2^N by 2^N
// operator by a Kronecker product with identities, preceded by a qubit
// relabelling that brings the targets to the most significant positions.
// At O(M·4^N) it is the correctness oracle for the other engines, not a
// production path beyond ~14 qubits.
package statevec

import (
	"math"
	"math/rand/v2"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/cblas128"

	qc "github.com/jbrumf/qc-basics"
	"github.com/jbrumf/qc-basics/gate"
	"github.com/jbrumf/qc-basics/tensor"
)

// MaxQubits bounds the full-operator construction; above it New fails
// fast instead of allocating O(4^N) memory.
const MaxQubits = 14

// Engine holds one array of 2^N amplitudes, basis index b being the
// big-endian concatenation of the qubit bits.
type Engine struct {
	n    int
	amps []complex128
}

// New creates the all-zero basis state on n qubits.
func New(n int) (*Engine, error) {
	if n < 1 {
		return nil, errors.Wrapf(qc.ErrDimensionMismatch, "%d qubits", n)
	}
	if n > MaxQubits {
		return nil, errors.Wrapf(qc.ErrResourceExceeded, "%d qubits, dense operator limit is %d", n, MaxQubits)
	}
	e := &Engine{n: n, amps: make([]complex128, 1<<n)}
	e.amps[0] = 1
	return e, nil
}

// NumQubits returns N.
func (e *Engine) NumQubits() int { return e.n }

// ApplyGate left-multiplies the state by the expanded operator of g.
func (e *Engine) ApplyGate(g gate.Gate, targets ...int) error {
	if err := qc.CheckTargets(e.n, g.Arity(), targets); err != nil {
		return err
	}
	k := g.Arity()

	// Relabel qubits so that targets occupy the most significant
	// positions in target order.
	perm := targetPermutation(e.n, targets)
	permuted := make([]complex128, len(e.amps))
	qc.PermuteAmplitudes(permuted, e.amps, e.n, perm)

	// op = G ⊗ I on the untargeted qubits.
	op := kron(g.Matrix(), tensor.Eye(1<<(e.n-k)))
	d := 1 << e.n
	out := make([]complex128, d)
	og := cblas128.General{Rows: d, Cols: d, Stride: d, Data: op.Data()}
	cblas128.Gemv(blas.NoTrans, 1,
		og,
		cblas128.Vector{N: d, Inc: 1, Data: permuted},
		0,
		cblas128.Vector{N: d, Inc: 1, Data: out})

	qc.PermuteAmplitudes(e.amps, out, e.n, qc.InvertPermutation(perm))
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
	bits, err := qc.MeasureBits(rng, e.amps, e.n, qubits)
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
	probs := make([]float64, len(e.amps))
	for i, a := range e.amps {
		probs[i] = real(a)*real(a) + imag(a)*imag(a)
	}
	return probs, nil
}

// Marginal returns the probabilities of qubit q being 0 and 1.
func (e *Engine) Marginal(q int) ([2]float64, error) {
	if q < 0 || q >= e.n {
		return [2]float64{}, errors.Wrapf(qc.ErrIndexOutOfRange, "qubit %d of %d", q, e.n)
	}
	return qc.MarginalBit(e.amps, e.n, q), nil
}

// Amplitudes returns a copy of the state vector.
func (e *Engine) Amplitudes() ([]complex128, error) {
	return append([]complex128{}, e.amps...), nil
}

// Norm returns the 2-norm of the state vector.
func (e *Engine) Norm() float64 {
	var sum float64
	for _, a := range e.amps {
		sum += real(a)*real(a) + imag(a)*imag(a)
	}
	return math.Sqrt(sum)
}

// Clone returns an independent copy of the engine.
func (e *Engine) Clone() qc.Engine {
	return &Engine{n: e.n, amps: append([]complex128{}, e.amps...)}
}

// targetPermutation relabels targets[i] to position i and keeps the
// relative order of the remaining qubits.
func targetPermutation(n int, targets []int) []int {
	perm := make([]int, n)
	for i := range perm {
		perm[i] = -1
	}
	for i, t := range targets {
		perm[t] = i
	}
	next := len(targets)
	for q := 0; q < n; q++ {
		if perm[q] == -1 {
			perm[q] = next
			next++
		}
	}
	return perm
}

// kron returns the Kronecker product of two matrices.
func kron(a, b *tensor.Dense) *tensor.Dense {
	as, bs := a.Shape(), b.Shape()
	outer := tensor.Product(a, b, nil)
	return outer.Transpose(0, 2, 1, 3).Reshape(as[0]*bs[0], as[1]*bs[1])
}
