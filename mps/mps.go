// Package mps implements the truncated matrix product state engine.
//
// References:
//   - The density-matrix renormalization group in the age of matrix product states, Ulrich Schollwock
package mps

import (
	"math"

	"github.com/pkg/errors"

	qc "github.com/jbrumf/qc-basics"
	"github.com/jbrumf/qc-basics/gate"
	"github.com/jbrumf/qc-basics/tensor"
)

const (
	// Axes of a site tensor.
	leftAxis  = 0
	physAxis  = 1
	rightAxis = 2

	// maxDenseQubits bounds materializing the full amplitude vector.
	maxDenseQubits = 24
)

// ErrUnsupported reports an operation the chain representation cannot
// perform, such as a gate on more than two qubits.
var ErrUnsupported = errors.New("unsupported operation")

// Options configure truncation and stability tolerances.
type Options struct {
	maxBondDim int
	svdTol     float64
	normTol    float64
}

// NewOptions returns the default engine options: unbounded bond
// dimension, relative singular value cutoff 1e-12, norm tolerance 1e-9.
func NewOptions() Options {
	opt := Options{}
	opt.maxBondDim = 0
	opt.svdTol = 1e-12
	opt.normTol = 1e-9
	return opt
}

// MaxBondDim caps the bond dimension χ between adjacent sites; 0 means
// unbounded.
func (opt Options) MaxBondDim(d int) Options {
	opt.maxBondDim = d
	return opt
}

// SVDTol sets the relative cutoff below which singular values are
// considered numerically zero and dropped regardless of MaxBondDim.
func (opt Options) SVDTol(tol float64) Options {
	opt.svdTol = tol
	return opt
}

// NormTol sets the tolerance below which a vanished norm is reported as
// numerical instability.
func (opt Options) NormTol(tol float64) Options {
	opt.normTol = tol
	return opt
}

// Engine holds the state as a chain of N site tensors. Interior sites
// have axes (left bond, physical, right bond); the end bonds have
// dimension 1. Contracting the chain along all bonds reproduces the full
// state tensor up to the accumulated truncation error.
type Engine struct {
	n     int
	sites []*tensor.Dense
	opts  Options

	// truncErr accumulates the discarded squared singular value weight,
	// an estimate of fidelity loss. Observable, never fatal.
	truncErr float64
}

// New creates the all-zero basis state on n qubits, a product state with
// every bond dimension 1.
func New(n int, options ...Options) (*Engine, error) {
	if n < 1 {
		return nil, errors.Wrapf(qc.ErrDimensionMismatch, "%d qubits", n)
	}
	opt := NewOptions()
	if len(options) > 0 {
		opt = options[0]
	}
	sites := make([]*tensor.Dense, n)
	for i := range sites {
		sites[i] = tensor.Zeros(1, 2, 1)
		sites[i].Data()[0] = 1
	}
	return &Engine{n: n, sites: sites, opts: opt}, nil
}

// NumQubits returns N.
func (e *Engine) NumQubits() int { return e.n }

// TruncationError returns the accumulated discarded squared singular
// value weight. It is zero for an exact (untruncated) evolution.
func (e *Engine) TruncationError() float64 { return e.truncErr }

// BondDims returns the bond dimension between each pair of adjacent
// sites.
func (e *Engine) BondDims() []int {
	dims := make([]int, 0, e.n-1)
	for _, s := range e.sites[:e.n-1] {
		dims = append(dims, s.Shape()[rightAxis])
	}
	return dims
}

// ApplyGate applies a one- or two-qubit gate. One-qubit gates contract
// directly into the site tensor and are exact. Two-qubit gates merge the
// two sites, contract the gate, and split back with a truncated SVD;
// non-adjacent targets are brought together by a network of adjacent
// swaps which is undone afterwards.
func (e *Engine) ApplyGate(g gate.Gate, targets ...int) error {
	if err := qc.CheckTargets(e.n, g.Arity(), targets); err != nil {
		return err
	}
	switch g.Arity() {
	case 1:
		e.applyOne(g.Matrix(), targets[0])
		return nil
	case 2:
		return e.applyTwo(g.Tensor(), targets[0], targets[1])
	default:
		return errors.Wrapf(ErrUnsupported, "%d-qubit gate", g.Arity())
	}
}

func (e *Engine) applyOne(m *tensor.Dense, q int) {
	// (out, left, right) <- m(out, in) @ site(left, in, right).
	s := tensor.Product(m, e.sites[q], [][2]int{{1, physAxis}})
	e.sites[q] = s.Transpose(1, 0, 2)
}

func (e *Engine) applyTwo(gt *tensor.Dense, a, b int) error {
	if b == a+1 {
		return e.applyAdjacent(gt, a)
	}
	if a == b+1 {
		return e.applyAdjacent(reverseTargets(gt), b)
	}

	// Move the higher qubit next to the lower one, apply, then undo.
	lo, hi := min(a, b), max(a, b)
	swap := gate.SWAP.Tensor()
	ts := qc.AdjacentTranspositions(hi, lo+1)
	for _, tr := range ts {
		if err := e.applyAdjacent(swap, tr[0]); err != nil {
			return err
		}
	}
	adjacent := gt
	if a > b {
		adjacent = reverseTargets(gt)
	}
	if err := e.applyAdjacent(adjacent, lo); err != nil {
		return err
	}
	for i := len(ts) - 1; i >= 0; i-- {
		if err := e.applyAdjacent(swap, ts[i][0]); err != nil {
			return err
		}
	}
	return nil
}

// applyAdjacent contracts an order-4 gate tensor (out1, out2, in1, in2)
// into sites i and i+1, then re-factorizes the merged tensor.
func (e *Engine) applyAdjacent(gt *tensor.Dense, i int) error {
	l := e.sites[i].Shape()[leftAxis]
	r := e.sites[i+1].Shape()[rightAxis]

	// theta(left, p1, p2, right) merges the two sites.
	theta := tensor.Product(e.sites[i], e.sites[i+1], [][2]int{{rightAxis, leftAxis}})
	// Contract the gate inputs: (left, right, out1, out2).
	theta = tensor.Product(theta, gt, [][2]int{{1, 2}, {2, 3}})
	m := theta.Transpose(0, 2, 3, 1).Reshape(l*2, 2*r)

	u, s, vh, err := tensor.SVD(m)
	if err != nil {
		return errors.Wrapf(qc.ErrNumericalInstability, "site %d: %v", i, err)
	}

	var total float64
	for _, sv := range s {
		total += sv * sv
	}
	if total < e.opts.normTol*e.opts.normTol {
		return errors.Wrapf(qc.ErrNumericalInstability, "site %d: vanished norm %g", i, total)
	}

	keep := len(s)
	for keep > 1 && s[keep-1] <= e.opts.svdTol*s[0] {
		keep--
	}
	if e.opts.maxBondDim > 0 && keep > e.opts.maxBondDim {
		keep = e.opts.maxBondDim
	}

	var kept float64
	for _, sv := range s[:keep] {
		kept += sv * sv
	}
	e.truncErr += (total - kept) / total

	// Split back, restoring the pre-split norm on the right site.
	e.sites[i] = u.Slice([][2]int{{0, l * 2}, {0, keep}}).Reshape(l, 2, keep)
	right := vh.Slice([][2]int{{0, keep}, {0, 2 * r}})
	scale := math.Sqrt(total / kept)
	data := right.Data()
	for j := 0; j < keep; j++ {
		f := complex(s[j]*scale, 0)
		for c := 0; c < 2*r; c++ {
			data[j*2*r+c] *= f
		}
	}
	e.sites[i+1] = right.Reshape(keep, 2, r)
	return nil
}

// reverseTargets swaps the roles of the two targets of an order-4 gate
// tensor.
func reverseTargets(gt *tensor.Dense) *tensor.Dense {
	return gt.Transpose(1, 0, 3, 2)
}
