package gate

import (
	"errors"
	"math"
	"testing"

	"github.com/jbrumf/qc-basics/tensor"
)

func TestCatalogueUnitarity(t *testing.T) {
	t.Parallel()
	gates := []Gate{
		I, X, Y, Z, H, S, Sdg, T, Tdg,
		CX, CZ, SWAP,
		P(0.3), RX(1.1), RY(-0.7), RZ(2.5), CP(math.Pi / 8),
		Controlled(H), CU(RY(0.4)), Controlled(CX),
	}
	for _, g := range gates {
		gg := tensor.Product(g.Matrix().H(), g.Matrix(), [][2]int{{1, 0}})
		if !tensor.Equal(gg, tensor.Eye(1<<g.Arity()), 1e-12) {
			t.Fatalf("%s", g.Name())
		}
	}
}

func TestNewNonUnitary(t *testing.T) {
	t.Parallel()
	_, err := New("bad", [][]complex128{
		{1, 1},
		{0, 1},
	})
	if !errors.Is(err, ErrNonUnitary) {
		t.Fatalf("%+v", err)
	}

	_, err = New("odd", [][]complex128{
		{1, 0, 0},
		{0, 1, 0},
		{0, 0, 1},
	})
	if !errors.Is(err, ErrNonUnitary) {
		t.Fatalf("%+v", err)
	}
}

func TestControlledBlockForm(t *testing.T) {
	t.Parallel()
	// CU = diag(I, U): Controlled(X) must equal the catalogue CX.
	if !tensor.Equal(Controlled(X).Matrix(), CX.Matrix(), 0) {
		t.Fatalf("%#v", Controlled(X).Matrix().Data())
	}
	if Controlled(CX).Arity() != 3 {
		t.Fatalf("%d", Controlled(CX).Arity())
	}
}

func TestSwapPermutation(t *testing.T) {
	t.Parallel()
	// SWAP exchanges the basis states 01 and 10.
	m := SWAP.Matrix()
	if m.At(1, 2) != 1 || m.At(2, 1) != 1 || m.At(1, 1) != 0 {
		t.Fatalf("%#v", m.Data())
	}
}

func TestDagger(t *testing.T) {
	t.Parallel()
	gates := []Gate{H, S, T, P(0.9), RX(0.4), CX, CP(1.3)}
	for _, g := range gates {
		d := 1 << g.Arity()
		prod := tensor.Product(g.Dagger().Matrix(), g.Matrix(), [][2]int{{1, 0}})
		if !tensor.Equal(prod, tensor.Eye(d), 1e-12) {
			t.Fatalf("%s", g.Name())
		}
	}
}

func TestTensorForm(t *testing.T) {
	t.Parallel()
	// CX as an order-4 tensor: output (1,0) from input (1,1).
	ct := CX.Tensor()
	if got := ct.At(1, 0, 1, 1); got != 1 {
		t.Fatalf("%v", got)
	}
	if got := ct.At(1, 1, 1, 1); got != 0 {
		t.Fatalf("%v", got)
	}
}
