// Package gate defines the catalogue of unitary gates consumed by the
// simulation engines.
//
// Qubit ordering is big-endian: in a K-qubit gate matrix, the first target
// qubit is the most significant bit of the row and column indices. A
// controlled gate CU is therefore the block-diagonal matrix diag(I, U)
// with the control as the first target.
package gate

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/jbrumf/qc-basics/tensor"
)

// ErrNonUnitary reports a gate definition whose matrix fails G†G = I.
var ErrNonUnitary = errors.New("gate matrix is not unitary")

// DefaultTol is the default tolerance of the unitarity check.
const DefaultTol = 1e-9

// Gate is an immutable unitary operator on Arity qubits.
type Gate struct {
	name string
	k    int
	mat  *tensor.Dense
}

// New validates and creates a gate from its 2^K by 2^K matrix.
func New(name string, m [][]complex128) (Gate, error) {
	return NewTol(name, m, DefaultTol)
}

// NewTol is New with an explicit unitarity tolerance.
func NewTol(name string, m [][]complex128, tol float64) (Gate, error) {
	d := len(m)
	k := 0
	for 1<<k < d {
		k++
	}
	if k == 0 || 1<<k != d {
		return Gate{}, errors.Wrapf(ErrNonUnitary, "%s: dimension %d is not a power of two", name, d)
	}
	for i, row := range m {
		if len(row) != d {
			return Gate{}, errors.Wrapf(ErrNonUnitary, "%s: row %d has %d columns, want %d", name, i, len(row), d)
		}
	}

	mat := tensor.T2(m)
	gg := tensor.Product(mat.H(), mat, [][2]int{{1, 0}})
	if !tensor.Equal(gg, tensor.Eye(d), tol) {
		return Gate{}, errors.Wrapf(ErrNonUnitary, "%s: G†G deviates from identity beyond %g", name, tol)
	}
	return Gate{name: name, k: k, mat: mat}, nil
}

// MustNew is New, panicking on invalid definitions.
func MustNew(name string, m [][]complex128) Gate {
	g, err := New(name, m)
	if err != nil {
		panic(fmt.Sprintf("%+v", err))
	}
	return g
}

// Name returns the catalogue name of g.
func (g Gate) Name() string { return g.name }

// Arity returns the number of qubits g acts on.
func (g Gate) Arity() int { return g.k }

// Matrix returns a copy of the 2^K by 2^K matrix of g.
func (g Gate) Matrix() *tensor.Dense { return g.mat.Clone() }

// Tensor returns g as an order-2K tensor with K output axes followed by
// K input axes, each of dimension 2.
func (g Gate) Tensor() *tensor.Dense {
	shape := make([]int, 2*g.k)
	for i := range shape {
		shape[i] = 2
	}
	return g.mat.Clone().Reshape(shape...)
}

// Dagger returns the conjugate transpose of g, which is its inverse.
func (g Gate) Dagger() Gate {
	return Gate{name: g.name + "†", k: g.k, mat: g.mat.H()}
}

func mustFromDense(name string, k int, mat *tensor.Dense) Gate {
	d := 1 << k
	gg := tensor.Product(mat.H(), mat, [][2]int{{1, 0}})
	if !tensor.Equal(gg, tensor.Eye(d), DefaultTol) {
		panic(fmt.Sprintf("%s: non-unitary", name))
	}
	return Gate{name: name, k: k, mat: mat}
}
