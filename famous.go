package qc

import (
	"math"

	"github.com/jbrumf/qc-basics/gate"
)

// Bell returns the two-qubit circuit preparing (|00⟩ + |11⟩)/√2.
func Bell() *Circuit {
	return NewCircuit(2).Apply(gate.H, 0).Apply(gate.CX, 0, 1)
}

// GHZ returns the n-qubit circuit preparing (|0…0⟩ + |1…1⟩)/√2.
func GHZ(n int) *Circuit {
	c := NewCircuit(n).Apply(gate.H, 0)
	for q := 1; q < n; q++ {
		c.Apply(gate.CX, q-1, q)
	}
	return c
}

// QFT returns the quantum Fourier transform on n qubits.
func QFT(n int) *Circuit {
	c := NewCircuit(n)
	qubits := make([]int, n)
	for i := range qubits {
		qubits[i] = i
	}
	c.ops = append(c.ops, qftOps(qubits)...)
	return c
}

// InverseQFT returns the inverse quantum Fourier transform on n qubits.
func InverseQFT(n int) *Circuit {
	c := NewCircuit(n)
	qubits := make([]int, n)
	for i := range qubits {
		qubits[i] = i
	}
	c.ops = append(c.ops, invertOps(qftOps(qubits))...)
	return c
}

// Teleport returns the three-qubit teleportation circuit moving the state
// prep|0⟩ from qubit 0 to qubit 2. Classical feed-forward is replaced by
// coherent corrections before the measurement (deferred measurement), so
// qubit 2 holds the state for every outcome.
func Teleport(prep gate.Gate) *Circuit {
	return NewCircuit(3).
		Apply(prep, 0).
		Apply(gate.H, 1).
		Apply(gate.CX, 1, 2).
		Apply(gate.CX, 0, 1).
		Apply(gate.H, 0).
		Apply(gate.CX, 1, 2).
		Apply(gate.CZ, 0, 2).
		Measure(BasisZ, 0, 1)
}

// QPE returns the quantum phase estimation circuit reading the phase of
// P(2πθ) into t counting qubits. The eigenstate |1⟩ lives on qubit t.
// For θ = k/2^t the counting register yields k with probability 1.
func QPE(theta float64, t int) *Circuit {
	c := NewCircuit(t + 1)
	c.Apply(gate.X, t)
	for j := 0; j < t; j++ {
		c.Apply(gate.H, j)
	}
	for j := 0; j < t; j++ {
		phi := 2 * math.Pi * theta * float64(uint(1)<<(t-1-j))
		c.Apply(gate.CP(phi), j, t)
	}
	counting := make([]int, t)
	for i := range counting {
		counting[i] = i
	}
	c.ops = append(c.ops, invertOps(qftOps(counting))...)
	return c
}

// qftOps builds the Fourier transform over the given qubits, treating
// qubits[0] as the most significant.
func qftOps(qubits []int) []Op {
	ops := make([]Op, 0)
	n := len(qubits)
	for i := 0; i < n; i++ {
		ops = append(ops, Op{Gate: gate.H, Targets: []int{qubits[i]}})
		for j := i + 1; j < n; j++ {
			phi := math.Pi / float64(uint(1)<<(j-i))
			ops = append(ops, Op{Gate: gate.CP(phi), Targets: []int{qubits[j], qubits[i]}})
		}
	}
	for i := 0; i < n/2; i++ {
		ops = append(ops, Op{Gate: gate.SWAP, Targets: []int{qubits[i], qubits[n-1-i]}})
	}
	return ops
}

// invertOps reverses a gate-only operation list and daggers each gate.
func invertOps(ops []Op) []Op {
	inv := make([]Op, 0, len(ops))
	for i := len(ops) - 1; i >= 0; i-- {
		inv = append(inv, Op{Gate: ops[i].Gate.Dagger(), Targets: ops[i].Targets})
	}
	return inv
}
