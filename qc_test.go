package qc

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"testing"
)

func TestBitRoundTrip(t *testing.T) {
	t.Parallel()
	for i, bits := range Bits(4) {
		if got := BitIndex(bits); got != i {
			t.Fatalf("%d %d %#v", i, got, bits)
		}
		if got := FormatBits(BitString(i, 4)); got != FormatBits(bits) {
			t.Fatalf("%s %s", got, FormatBits(bits))
		}
	}
}

func TestPermuteIndex(t *testing.T) {
	t.Parallel()
	tests := []struct {
		index int
		n     int
		perm  []int
		want  int
	}{
		// Identity.
		{index: 0b101, n: 3, perm: []int{0, 1, 2}, want: 0b101},
		// Swap qubits 0 and 2.
		{index: 0b100, n: 3, perm: []int{2, 1, 0}, want: 0b001},
		// Cycle 0->1->2->0.
		{index: 0b110, n: 3, perm: []int{1, 2, 0}, want: 0b011},
	}
	for _, test := range tests {
		t.Run(fmt.Sprintf("%b", test.index), func(t *testing.T) {
			t.Parallel()
			if got := PermuteIndex(test.index, test.n, test.perm); got != test.want {
				t.Fatalf("%b", got)
			}
			inv := InvertPermutation(test.perm)
			if got := PermuteIndex(test.want, test.n, inv); got != test.index {
				t.Fatalf("%b", got)
			}
		})
	}
}

func TestAdjacentTranspositions(t *testing.T) {
	t.Parallel()
	tests := []struct {
		from int
		to   int
		want [][2]int
	}{
		{from: 3, to: 1, want: [][2]int{{2, 3}, {1, 2}}},
		{from: 1, to: 3, want: [][2]int{{1, 2}, {2, 3}}},
		{from: 2, to: 2, want: [][2]int{}},
	}
	for _, test := range tests {
		ts := AdjacentTranspositions(test.from, test.to)
		if len(ts) != len(test.want) {
			t.Fatalf("%#v", ts)
		}
		for i := range ts {
			if ts[i] != test.want[i] {
				t.Fatalf("%#v", ts)
			}
		}
	}
}

func TestCheckTargets(t *testing.T) {
	t.Parallel()
	if err := CheckTargets(3, 2, []int{0, 2}); err != nil {
		t.Fatalf("%+v", err)
	}
	if err := CheckTargets(3, 2, []int{0}); !errors.Is(err, ErrDimensionMismatch) {
		t.Fatalf("%+v", err)
	}
	if err := CheckTargets(3, 1, []int{3}); !errors.Is(err, ErrIndexOutOfRange) {
		t.Fatalf("%+v", err)
	}
	if err := CheckTargets(3, 2, []int{1, 1}); !errors.Is(err, ErrDimensionMismatch) {
		t.Fatalf("%+v", err)
	}
}

func TestMeasureBitsCollapse(t *testing.T) {
	t.Parallel()
	// (|00> + |11>)/sqrt(2): both bits must agree, and the state must
	// collapse onto the observed branch.
	rng := rand.New(rand.NewPCG(5, 5))
	for range 32 {
		amps := []complex128{complex(1/sqrt2, 0), 0, 0, complex(1/sqrt2, 0)}
		bits, err := MeasureBits(rng, amps, 2, []int{0, 1})
		if err != nil {
			t.Fatalf("%+v", err)
		}
		if bits[0] != bits[1] {
			t.Fatalf("%#v", bits)
		}
		idx := BitIndex(bits)
		if got := amps[idx]; real(got) < 1-1e-9 {
			t.Fatalf("%v", got)
		}
	}
}

func TestCollapseBitImpossible(t *testing.T) {
	t.Parallel()
	amps := []complex128{1, 0}
	if err := CollapseBit(amps, 1, 0, 1); !errors.Is(err, ErrNumericalInstability) {
		t.Fatalf("%+v", err)
	}
}

func TestDrawIndexDeterministic(t *testing.T) {
	t.Parallel()
	probs := []float64{0.1, 0.2, 0.3, 0.4}
	a := rand.New(rand.NewPCG(9, 9))
	b := rand.New(rand.NewPCG(9, 9))
	for range 100 {
		ia, ib := DrawIndex(a, probs), DrawIndex(b, probs)
		if ia != ib {
			t.Fatalf("%d %d", ia, ib)
		}
	}
}

const sqrt2 = 1.4142135623730951
