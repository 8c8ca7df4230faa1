package qc_test

import (
	"fmt"
	"math"
	"math/cmplx"
	"math/rand/v2"
	"testing"

	"gonum.org/v1/gonum/stat/distuv"

	qc "github.com/jbrumf/qc-basics"
	"github.com/jbrumf/qc-basics/gate"
	"github.com/jbrumf/qc-basics/mps"
	"github.com/jbrumf/qc-basics/statevec"
	"github.com/jbrumf/qc-basics/tensornet"
)

type constructor struct {
	name string
	mk   func(n int) (qc.Engine, error)
}

func engines() []constructor {
	return []constructor{
		{name: "statevec", mk: func(n int) (qc.Engine, error) { return statevec.New(n) }},
		{name: "tensornet", mk: func(n int) (qc.Engine, error) { return tensornet.New(n) }},
		{name: "mps", mk: func(n int) (qc.Engine, error) { return mps.New(n) }},
	}
}

// randomCircuit draws one- and two-qubit gates from the catalogue. It
// never adds measurements.
func randomCircuit(rng *rand.Rand, n, depth int) *qc.Circuit {
	oneQ := []gate.Gate{gate.H, gate.X, gate.Y, gate.Z, gate.S, gate.T, gate.Sdg}
	twoQ := []gate.Gate{gate.CX, gate.CZ, gate.SWAP}
	c := qc.NewCircuit(n)
	for range depth {
		if n >= 2 && rng.IntN(2) == 0 {
			g := twoQ[rng.IntN(len(twoQ))]
			if rng.IntN(3) == 0 {
				g = gate.CP(rng.Float64() * 2 * math.Pi)
			}
			a := rng.IntN(n)
			b := rng.IntN(n)
			for b == a {
				b = rng.IntN(n)
			}
			c.Apply(g, a, b)
			continue
		}
		g := oneQ[rng.IntN(len(oneQ))]
		switch rng.IntN(4) {
		case 0:
			g = gate.RY(rng.Float64()*2*math.Pi - math.Pi)
		case 1:
			g = gate.P(rng.Float64() * 2 * math.Pi)
		}
		c.Apply(g, rng.IntN(n))
	}
	return c
}

func applyAll(t *testing.T, e qc.Engine, c *qc.Circuit) {
	t.Helper()
	for _, op := range c.Ops() {
		if err := e.ApplyGate(op.Gate, op.Targets...); err != nil {
			t.Fatalf("%s %#v: %+v", op.Gate.Name(), op.Targets, err)
		}
	}
}

func TestEnginesAgree(t *testing.T) {
	t.Parallel()
	rng := rand.New(rand.NewPCG(2024, 1))
	for n := 1; n <= 8; n++ {
		c := randomCircuit(rng, n, 24)
		t.Run(fmt.Sprintf("%dqubits", n), func(t *testing.T) {
			t.Parallel()
			var ref []complex128
			for _, ctor := range engines() {
				e, err := ctor.mk(n)
				if err != nil {
					t.Fatalf("%s: %+v", ctor.name, err)
				}
				applyAll(t, e, c)
				if got := e.Norm(); math.Abs(got-1) > 1e-9 {
					t.Fatalf("%s: norm %v", ctor.name, got)
				}
				amps, err := e.Amplitudes()
				if err != nil {
					t.Fatalf("%s: %+v", ctor.name, err)
				}
				if ref == nil {
					ref = amps
					continue
				}
				for i := range amps {
					if cmplx.Abs(amps[i]-ref[i]) > 1e-9 {
						t.Fatalf("%s: amp %d: %v != %v", ctor.name, i, amps[i], ref[i])
					}
				}
			}
		})
	}
}

func TestBellStatistics(t *testing.T) {
	t.Parallel()
	e, err := statevec.New(2)
	if err != nil {
		t.Fatalf("%+v", err)
	}
	applyAll(t, e, qc.Bell())

	const shots = 10000
	rng := rand.New(rand.NewPCG(42, 0))
	counts, err := qc.SampleCounts(e, shots, rng)
	if err != nil {
		t.Fatalf("%+v", err)
	}
	if counts["01"] != 0 || counts["10"] != 0 {
		t.Fatalf("%v", counts)
	}
	// Chi-square goodness of fit against the 50/50 split, one degree of
	// freedom at the 0.1% level.
	chi2 := 0.0
	for _, s := range []string{"00", "11"} {
		d := float64(counts[s]) - shots/2
		chi2 += d * d / (shots / 2)
	}
	if crit := (distuv.ChiSquared{K: 1}).Quantile(0.999); chi2 > crit {
		t.Fatalf("chi2 %v > %v: %v", chi2, crit, counts)
	}
}

func TestMeasurementIdempotent(t *testing.T) {
	t.Parallel()
	for _, basis := range []qc.Basis{qc.BasisZ, qc.BasisX, qc.BasisY} {
		for _, ctor := range engines() {
			t.Run(fmt.Sprintf("%s/%s", ctor.name, basis), func(t *testing.T) {
				t.Parallel()
				rng := rand.New(rand.NewPCG(8, uint64(basis)))
				for range 8 {
					e, err := ctor.mk(3)
					if err != nil {
						t.Fatalf("%+v", err)
					}
					applyAll(t, e, randomCircuit(rng, 3, 12))
					first, err := e.Measure(rng, basis, 0, 1, 2)
					if err != nil {
						t.Fatalf("%+v", err)
					}
					second, err := e.Measure(rng, basis, 0, 1, 2)
					if err != nil {
						t.Fatalf("%+v", err)
					}
					for q := range first {
						if first[q] != second[q] {
							t.Fatalf("%#v %#v", first, second)
						}
					}
				}
			})
		}
	}
}

func TestMeasurementOrderIrrelevant(t *testing.T) {
	t.Parallel()
	// Measuring disjoint qubits of a GHZ state in either order must give
	// the same joint distribution.
	const trials = 2000
	for _, order := range [][]int{{0, 2}, {2, 0}} {
		rng := rand.New(rand.NewPCG(31, 7))
		same := 0
		for range trials {
			e, err := statevec.New(3)
			if err != nil {
				t.Fatalf("%+v", err)
			}
			applyAll(t, e, qc.GHZ(3))
			bits, err := e.Measure(rng, qc.BasisZ, order...)
			if err != nil {
				t.Fatalf("%+v", err)
			}
			if bits[0] != bits[1] {
				t.Fatalf("%#v", bits)
			}
			if bits[0] == 0 {
				same++
			}
		}
		if same < trials/2-150 || same > trials/2+150 {
			t.Fatalf("%#v: %d", order, same)
		}
	}
}

func TestTeleport(t *testing.T) {
	t.Parallel()
	const theta = 1.234
	want := [2]float64{
		math.Cos(theta / 2) * math.Cos(theta / 2),
		math.Sin(theta / 2) * math.Sin(theta / 2),
	}
	for _, ctor := range engines() {
		t.Run(ctor.name, func(t *testing.T) {
			t.Parallel()
			rng := rand.New(rand.NewPCG(55, 55))
			// Several runs so each of the four correction branches shows up.
			for range 16 {
				e, err := ctor.mk(3)
				if err != nil {
					t.Fatalf("%+v", err)
				}
				if _, err := qc.Run(e, qc.Teleport(gate.RY(theta)), rng); err != nil {
					t.Fatalf("%+v", err)
				}
				p, err := e.Marginal(2)
				if err != nil {
					t.Fatalf("%+v", err)
				}
				if math.Abs(p[0]-want[0]) > 1e-9 || math.Abs(p[1]-want[1]) > 1e-9 {
					t.Fatalf("%v %v", p, want)
				}
			}
		})
	}
}

func TestPhaseEstimationExact(t *testing.T) {
	t.Parallel()
	// theta = 0.25 is exactly representable in 3 counting bits as 010,
	// so the full register reads 010 with the eigenqubit in |1>.
	for _, ctor := range engines() {
		t.Run(ctor.name, func(t *testing.T) {
			t.Parallel()
			e, err := ctor.mk(4)
			if err != nil {
				t.Fatalf("%+v", err)
			}
			applyAll(t, e, qc.QPE(0.25, 3))
			probs, err := e.Probabilities()
			if err != nil {
				t.Fatalf("%+v", err)
			}
			if math.Abs(probs[0b0101]-1) > 1e-9 {
				t.Fatalf("%v", probs)
			}
		})
	}
}

func TestQFTRoundTrip(t *testing.T) {
	t.Parallel()
	for _, ctor := range engines() {
		t.Run(ctor.name, func(t *testing.T) {
			t.Parallel()
			rng := rand.New(rand.NewPCG(77, 3))
			e, err := ctor.mk(4)
			if err != nil {
				t.Fatalf("%+v", err)
			}
			applyAll(t, e, randomCircuit(rng, 4, 16))
			before, err := e.Amplitudes()
			if err != nil {
				t.Fatalf("%+v", err)
			}
			applyAll(t, e, qc.QFT(4))
			applyAll(t, e, qc.InverseQFT(4))
			after, err := e.Amplitudes()
			if err != nil {
				t.Fatalf("%+v", err)
			}
			for i := range after {
				if cmplx.Abs(after[i]-before[i]) > 1e-9 {
					t.Fatalf("%d %v %v", i, after[i], before[i])
				}
			}
		})
	}
}

func TestQFTUniform(t *testing.T) {
	t.Parallel()
	e, err := statevec.New(3)
	if err != nil {
		t.Fatalf("%+v", err)
	}
	applyAll(t, e, qc.QFT(3))
	amps, err := e.Amplitudes()
	if err != nil {
		t.Fatalf("%+v", err)
	}
	for _, a := range amps {
		if math.Abs(cmplx.Abs(a)-1/math.Sqrt(8)) > 1e-9 {
			t.Fatalf("%v", amps)
		}
	}
}
