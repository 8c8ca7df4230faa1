package qc

import (
	"math/rand/v2"

	"github.com/pkg/errors"

	"github.com/jbrumf/qc-basics/gate"
)

// Op is one circuit operation: either a gate application or a measurement
// request. Operations sharing a qubit are strictly ordered; operations on
// disjoint qubits commute.
type Op struct {
	// Gate and Targets describe a gate application when Measure is false.
	Gate    gate.Gate
	Targets []int

	// Measure marks a measurement of Targets in Basis.
	Measure bool
	Basis   Basis
}

// Circuit is an ordered sequence of operations on a fixed number of
// qubits.
type Circuit struct {
	n   int
	ops []Op
}

// NewCircuit creates an empty circuit on n qubits.
func NewCircuit(n int) *Circuit {
	return &Circuit{n: n}
}

// NumQubits returns the qubit count of the circuit.
func (c *Circuit) NumQubits() int { return c.n }

// Ops returns the operations of the circuit in order.
func (c *Circuit) Ops() []Op { return c.ops }

// Apply appends a gate application and returns c for chaining.
func (c *Circuit) Apply(g gate.Gate, targets ...int) *Circuit {
	c.ops = append(c.ops, Op{Gate: g, Targets: targets})
	return c
}

// Measure appends a measurement request and returns c for chaining.
func (c *Circuit) Measure(basis Basis, qubits ...int) *Circuit {
	c.ops = append(c.ops, Op{Measure: true, Basis: basis, Targets: qubits})
	return c
}

// Outcome records the result of one measurement operation.
type Outcome struct {
	Qubits []int
	Basis  Basis
	Bits   []byte
}

// Result collects the measurement outcomes of one circuit run.
type Result struct {
	Outcomes []Outcome
}

// Bit returns the last measured bit of qubit q, or -1 if q was never
// measured.
func (r Result) Bit(q int) int {
	for i := len(r.Outcomes) - 1; i >= 0; i-- {
		for j, m := range r.Outcomes[i].Qubits {
			if m == q {
				return int(r.Outcomes[i].Bits[j])
			}
		}
	}
	return -1
}

// Run feeds the circuit operation by operation into e, mutating its state
// in place. Randomness for measurements comes only from rng.
func Run(e Engine, c *Circuit, rng *rand.Rand) (Result, error) {
	var res Result
	if e.NumQubits() != c.n {
		return res, errors.Wrapf(ErrDimensionMismatch, "engine has %d qubits, circuit %d", e.NumQubits(), c.n)
	}
	for i, op := range c.ops {
		switch {
		case op.Measure:
			bits, err := e.Measure(rng, op.Basis, op.Targets...)
			if err != nil {
				return res, errors.Wrapf(err, "op %d", i)
			}
			res.Outcomes = append(res.Outcomes, Outcome{
				Qubits: append([]int{}, op.Targets...),
				Basis:  op.Basis,
				Bits:   bits,
			})
		default:
			if err := e.ApplyGate(op.Gate, op.Targets...); err != nil {
				return res, errors.Wrapf(err, "op %d (%s)", i, op.Gate.Name())
			}
		}
	}
	return res, nil
}
