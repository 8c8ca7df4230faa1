package qc

import (
	"math"
	"math/rand/v2"

	"github.com/pkg/errors"
)

// collapseEps is the smallest total probability a collapse may divide by
// before the renormalization is considered unstable.
const collapseEps = 1e-12

// MarginalBit returns the Born-rule probabilities of qubit q being 0 and 1
// in a big-endian amplitude vector over n qubits.
func MarginalBit(amps []complex128, n, q int) [2]float64 {
	shift := n - 1 - q
	var p [2]float64
	for i, a := range amps {
		p[(i>>shift)&1] += real(a)*real(a) + imag(a)*imag(a)
	}
	return p
}

// CollapseBit projects the amplitude vector onto qubit q having the given
// bit and renormalizes it in place.
func CollapseBit(amps []complex128, n, q int, bit byte) error {
	shift := n - 1 - q
	var kept float64
	for i, a := range amps {
		if byte((i>>shift)&1) != bit {
			amps[i] = 0
			continue
		}
		kept += real(a)*real(a) + imag(a)*imag(a)
	}
	if kept < collapseEps {
		return errors.Wrapf(ErrNumericalInstability, "collapse of qubit %d onto %d keeps probability %g", q, bit, kept)
	}
	scale := complex(1/math.Sqrt(kept), 0)
	for i, a := range amps {
		if a != 0 {
			amps[i] = a * scale
		}
	}
	return nil
}

// MeasureBits measures the given qubits of a big-endian amplitude vector
// one after another in the computational basis, collapsing in place.
// Measuring disjoint qubits sequentially samples their exact joint
// distribution.
func MeasureBits(rng *rand.Rand, amps []complex128, n int, qubits []int) ([]byte, error) {
	bits := make([]byte, len(qubits))
	for i, q := range qubits {
		p := MarginalBit(amps, n, q)
		total := p[0] + p[1]
		if total < collapseEps {
			return nil, errors.Wrapf(ErrNumericalInstability, "qubit %d has total probability %g", q, total)
		}
		var bit byte
		if rng.Float64()*total >= p[0] {
			bit = 1
		}
		if err := CollapseBit(amps, n, q, bit); err != nil {
			return nil, err
		}
		bits[i] = bit
	}
	return bits, nil
}

// DrawIndex samples a basis index from a probability vector. The vector is
// renormalized by its own sum, tolerating small deviations from 1.
func DrawIndex(rng *rand.Rand, probs []float64) int {
	var total float64
	for _, p := range probs {
		total += p
	}
	x := rng.Float64() * total
	var acc float64
	for i, p := range probs {
		acc += p
		if x < acc {
			return i
		}
	}
	return len(probs) - 1
}

// SampleCounts draws shots independent basis bitstrings from the current
// distribution of e, without collapsing its state.
func SampleCounts(e Engine, shots int, rng *rand.Rand) (map[string]int, error) {
	probs, err := e.Probabilities()
	if err != nil {
		return nil, err
	}
	n := e.NumQubits()
	counts := make(map[string]int)
	for range shots {
		i := DrawIndex(rng, probs)
		counts[FormatBits(BitString(i, n))]++
	}
	return counts, nil
}
