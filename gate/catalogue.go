package gate

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/jbrumf/qc-basics/tensor"
)

// Standard one-qubit gates.
var (
	I = MustNew("I", [][]complex128{
		{1, 0},
		{0, 1},
	})
	X = MustNew("X", [][]complex128{
		{0, 1},
		{1, 0},
	})
	Y = MustNew("Y", [][]complex128{
		{0, -1i},
		{1i, 0},
	})
	Z = MustNew("Z", [][]complex128{
		{1, 0},
		{0, -1},
	})
	H = MustNew("H", [][]complex128{
		{complex(1/math.Sqrt2, 0), complex(1/math.Sqrt2, 0)},
		{complex(1/math.Sqrt2, 0), complex(-1/math.Sqrt2, 0)},
	})
	S   = MustNew("S", [][]complex128{{1, 0}, {0, 1i}})
	Sdg = MustNew("S†", [][]complex128{{1, 0}, {0, -1i}})
	T   = MustNew("T", [][]complex128{{1, 0}, {0, cmplx.Exp(1i * math.Pi / 4)}})
	Tdg = MustNew("T†", [][]complex128{{1, 0}, {0, cmplx.Exp(-1i * math.Pi / 4)}})
)

// Standard two-qubit gates.
var (
	CX = MustNew("CX", [][]complex128{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, 0, 1},
		{0, 0, 1, 0},
	})
	CZ = MustNew("CZ", [][]complex128{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, 1, 0},
		{0, 0, 0, -1},
	})
	SWAP = MustNew("SWAP", [][]complex128{
		{1, 0, 0, 0},
		{0, 0, 1, 0},
		{0, 1, 0, 0},
		{0, 0, 0, 1},
	})
)

// P returns the phase gate diag(1, e^{iφ}).
func P(phi float64) Gate {
	return mustFromDense(fmt.Sprintf("P(%g)", phi), 1, tensor.T2([][]complex128{
		{1, 0},
		{0, cmplx.Exp(complex(0, phi))},
	}))
}

// RX returns the rotation by theta around the X axis.
func RX(theta float64) Gate {
	c := complex(math.Cos(theta/2), 0)
	s := complex(0, -math.Sin(theta/2))
	return mustFromDense(fmt.Sprintf("RX(%g)", theta), 1, tensor.T2([][]complex128{
		{c, s},
		{s, c},
	}))
}

// RY returns the rotation by theta around the Y axis.
func RY(theta float64) Gate {
	c := complex(math.Cos(theta/2), 0)
	s := complex(math.Sin(theta/2), 0)
	return mustFromDense(fmt.Sprintf("RY(%g)", theta), 1, tensor.T2([][]complex128{
		{c, -s},
		{s, c},
	}))
}

// RZ returns the rotation by theta around the Z axis.
func RZ(theta float64) Gate {
	return mustFromDense(fmt.Sprintf("RZ(%g)", theta), 1, tensor.T2([][]complex128{
		{cmplx.Exp(complex(0, -theta/2)), 0},
		{0, cmplx.Exp(complex(0, theta/2))},
	}))
}

// CP returns the controlled phase gate diag(1, 1, 1, e^{iφ}).
func CP(phi float64) Gate {
	return Controlled(P(phi))
}

// Controlled returns the controlled version of u, the block-diagonal
// matrix diag(I, U). The control qubit is the first target.
func Controlled(u Gate) Gate {
	d := 1 << u.k
	mat := tensor.Zeros(2*d, 2*d)
	for i := 0; i < d; i++ {
		mat.SetAt([]int{i, i}, 1)
		for j := 0; j < d; j++ {
			mat.SetAt([]int{d + i, d + j}, u.mat.At(i, j))
		}
	}
	return mustFromDense("C"+u.name, u.k+1, mat)
}

// CU is an alias for Controlled, matching the usual catalogue name.
func CU(u Gate) Gate {
	return Controlled(u)
}
