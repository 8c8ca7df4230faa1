package mps

import (
	"math"
	"math/rand/v2"

	"github.com/pkg/errors"

	qc "github.com/jbrumf/qc-basics"
	"github.com/jbrumf/qc-basics/tensor"
)

// Measure measures the given qubits in basis, collapsing the chain in
// place. Marginal probabilities come from environment contractions, so no
// 2^N vector is materialized.
func (e *Engine) Measure(rng *rand.Rand, basis qc.Basis, qubits ...int) ([]byte, error) {
	if err := qc.CheckTargets(e.n, len(qubits), qubits); err != nil {
		return nil, err
	}
	for _, q := range qubits {
		for _, g := range qc.BasisPrep(basis) {
			e.applyOne(g.Matrix(), q)
		}
	}

	bits := make([]byte, len(qubits))
	for i, q := range qubits {
		p0 := e.outcomeWeight(q, 0)
		p1 := e.outcomeWeight(q, 1)
		total := p0 + p1
		if total < e.opts.normTol*e.opts.normTol {
			return nil, errors.Wrapf(qc.ErrNumericalInstability, "qubit %d has total probability %g", q, total)
		}
		var bit byte
		p := p0
		if rng.Float64()*total >= p0 {
			bit = 1
			p = p1
		}
		e.collapse(q, bit, p)
		bits[i] = bit
	}

	for _, q := range qubits {
		for _, g := range qc.BasisUnprep(basis) {
			e.applyOne(g.Matrix(), q)
		}
	}
	return bits, nil
}

// Marginal returns the probabilities of qubit q being 0 and 1 without
// materializing the full vector.
func (e *Engine) Marginal(q int) ([2]float64, error) {
	if q < 0 || q >= e.n {
		return [2]float64{}, errors.Wrapf(qc.ErrIndexOutOfRange, "qubit %d of %d", q, e.n)
	}
	return [2]float64{e.outcomeWeight(q, 0), e.outcomeWeight(q, 1)}, nil
}

// Probabilities contracts the chain and returns all 2^N Born-rule
// probabilities. It fails fast above the dense materialization limit.
func (e *Engine) Probabilities() ([]float64, error) {
	amps, err := e.Amplitudes()
	if err != nil {
		return nil, err
	}
	probs := make([]float64, len(amps))
	for i, a := range amps {
		probs[i] = real(a)*real(a) + imag(a)*imag(a)
	}
	return probs, nil
}

// Amplitudes contracts the chain along all bonds into the big-endian
// amplitude vector.
func (e *Engine) Amplitudes() ([]complex128, error) {
	if e.n > maxDenseQubits {
		return nil, errors.Wrapf(qc.ErrResourceExceeded, "%d qubits, dense materialization limit is %d", e.n, maxDenseQubits)
	}
	acc := e.sites[0]
	for _, s := range e.sites[1:] {
		acc = tensor.Product(acc, s, [][2]int{{len(acc.Shape()) - 1, leftAxis}})
	}
	flat := acc.Reshape(1 << e.n)
	return append([]complex128{}, flat.Data()...), nil
}

// Norm returns the 2-norm of the chain.
func (e *Engine) Norm() float64 {
	return math.Sqrt(e.chainWeight(-1, nil))
}

// Clone returns an independent copy of the engine.
func (e *Engine) Clone() qc.Engine {
	sites := make([]*tensor.Dense, len(e.sites))
	for i, s := range e.sites {
		sites[i] = s.Clone()
	}
	return &Engine{n: e.n, sites: sites, opts: e.opts, truncErr: e.truncErr}
}

// outcomeWeight returns the squared norm of the chain with qubit q
// projected onto bit.
func (e *Engine) outcomeWeight(q int, bit byte) float64 {
	return e.chainWeight(q, physSlice(e.sites[q], bit))
}

// collapse projects qubit q onto bit and renormalizes by its
// probability.
func (e *Engine) collapse(q int, bit byte, p float64) {
	e.sites[q] = physSlice(e.sites[q], bit).Scale(complex(1/math.Sqrt(p), 0))
}

// chainWeight computes <psi|psi> by the standard left-to-right
// environment contraction, substituting sub for site q (q < 0 keeps the
// chain as is).
func (e *Engine) chainWeight(q int, sub *tensor.Dense) float64 {
	f := tensor.Zeros(1, 1)
	f.Data()[0] = 1
	const fTopAxis, fBottomAxis = 0, 1
	for i, si := range e.sites {
		if i == q {
			si = sub
		}
		// fy(top, phys, right) <- f @ si.
		fy := tensor.Product(f, si, [][2]int{{fBottomAxis, leftAxis}})
		// f(topRight, bottomRight) <- si.conj @ fy.
		f = tensor.Product(si.Conj(), fy, [][2]int{{leftAxis, fTopAxis}, {physAxis, 1}})
	}
	return real(f.At(0, 0))
}

// physSlice returns a copy of a site with every amplitude of the other
// physical value zeroed.
func physSlice(site *tensor.Dense, bit byte) *tensor.Dense {
	s := site.Clone()
	shape := s.Shape()
	l, r := shape[leftAxis], shape[rightAxis]
	data := s.Data()
	other := int(1 - bit)
	for a := 0; a < l; a++ {
		for c := 0; c < r; c++ {
			data[(a*2+other)*r+c] = 0
		}
	}
	return s
}
