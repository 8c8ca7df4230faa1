// Package tensor implements dense complex128 tensors and the linear algebra
// needed by the simulation engines: pairwise contraction, axis permutation,
// and singular value decomposition.
package tensor

import (
	"fmt"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/cblas128"
)

// Dense is a dense tensor in row-major order.
// Its order is the length of its shape.
type Dense struct {
	shape []int
	data  []complex128
}

// Zeros returns a zero tensor of the given shape.
func Zeros(shape ...int) *Dense {
	size := checkShape(shape)
	return &Dense{shape: append([]int{}, shape...), data: make([]complex128, size)}
}

// T1 creates an order-1 tensor from a slice.
func T1(v []complex128) *Dense {
	t := Zeros(len(v))
	copy(t.data, v)
	return t
}

// T2 creates an order-2 tensor from a dense matrix.
func T2(m [][]complex128) *Dense {
	t := Zeros(len(m), len(m[0]))
	for i, row := range m {
		if len(row) != len(m[0]) {
			panic(fmt.Sprintf("ragged row %d: %d %d", i, len(row), len(m[0])))
		}
		copy(t.data[i*len(row):], row)
	}
	return t
}

// Shape returns the dimensions of t.
func (t *Dense) Shape() []int {
	return t.shape
}

// Size returns the number of elements in t.
func (t *Dense) Size() int {
	return len(t.data)
}

// Data returns the underlying row-major storage of t.
// For a tensor whose axes all have dimension 2, element i holds the
// amplitude of the basis state with big-endian bits i.
func (t *Dense) Data() []complex128 {
	return t.data
}

// At returns the element at the given multi-index.
func (t *Dense) At(ix ...int) complex128 {
	return t.data[t.flat(ix)]
}

// SetAt sets the element at the given multi-index.
func (t *Dense) SetAt(ix []int, v complex128) {
	t.data[t.flat(ix)] = v
}

func (t *Dense) flat(ix []int) int {
	if len(ix) != len(t.shape) {
		panic(fmt.Sprintf("index order %d, tensor order %d", len(ix), len(t.shape)))
	}
	flat := 0
	for i, x := range ix {
		if x < 0 || x >= t.shape[i] {
			panic(fmt.Sprintf("index %d out of axis %d of dimension %d", x, i, t.shape[i]))
		}
		flat = flat*t.shape[i] + x
	}
	return flat
}

// Reshape reinterprets t with a new shape of the same total size.
// At most one dimension may be -1, in which case it is inferred.
// The underlying storage is shared with t.
func (t *Dense) Reshape(shape ...int) *Dense {
	shape = append([]int{}, shape...)
	wild := -1
	size := 1
	for i, d := range shape {
		if d == -1 {
			if wild != -1 {
				panic(fmt.Sprintf("multiple inferred dimensions %#v", shape))
			}
			wild = i
			continue
		}
		size *= d
	}
	if wild != -1 {
		shape[wild] = len(t.data) / size
		size *= shape[wild]
	}
	if size != len(t.data) {
		panic(fmt.Sprintf("cannot reshape %d elements to %#v", len(t.data), shape))
	}
	return &Dense{shape: shape, data: t.data}
}

// Clone returns a deep copy of t.
func (t *Dense) Clone() *Dense {
	c := Zeros(t.shape...)
	copy(c.data, t.data)
	return c
}

// Conj returns the elementwise complex conjugate of t.
func (t *Dense) Conj() *Dense {
	c := Zeros(t.shape...)
	for i, v := range t.data {
		c.data[i] = cmplx.Conj(v)
	}
	return c
}

// H returns the conjugate transpose of an order-2 tensor.
func (t *Dense) H() *Dense {
	if len(t.shape) != 2 {
		panic(fmt.Sprintf("not a matrix %#v", t.shape))
	}
	return t.Conj().Transpose(1, 0)
}

// Transpose returns a copy of t with axes permuted.
// Axis i of the result is axis perm[i] of t.
func (t *Dense) Transpose(perm ...int) *Dense {
	if len(perm) != len(t.shape) {
		panic(fmt.Sprintf("permutation %#v, tensor order %d", perm, len(t.shape)))
	}
	shape := make([]int, len(perm))
	seen := make([]bool, len(perm))
	for i, p := range perm {
		if seen[p] {
			panic(fmt.Sprintf("not a permutation %#v", perm))
		}
		seen[p] = true
		shape[i] = t.shape[p]
	}

	srcStrides := strides(t.shape)
	dstStrides := make([]int, len(perm))
	for i, p := range perm {
		dstStrides[i] = srcStrides[p]
	}

	c := Zeros(shape...)
	ix := make([]int, len(shape))
	for flat := range c.data {
		src := 0
		for i, x := range ix {
			src += x * dstStrides[i]
		}
		c.data[flat] = t.data[src]

		for i := len(ix) - 1; i >= 0; i-- {
			ix[i]++
			if ix[i] < shape[i] {
				break
			}
			ix[i] = 0
		}
	}
	return c
}

// Slice returns a copy of the subtensor bounded by half-open ranges per axis.
func (t *Dense) Slice(bounds [][2]int) *Dense {
	if len(bounds) != len(t.shape) {
		panic(fmt.Sprintf("bounds %#v, tensor order %d", bounds, len(t.shape)))
	}
	shape := make([]int, len(bounds))
	for i, b := range bounds {
		if b[0] < 0 || b[1] > t.shape[i] || b[0] >= b[1] {
			panic(fmt.Sprintf("bad bound %#v on axis %d of dimension %d", b, i, t.shape[i]))
		}
		shape[i] = b[1] - b[0]
	}

	srcStrides := strides(t.shape)
	c := Zeros(shape...)
	ix := make([]int, len(shape))
	for flat := range c.data {
		src := 0
		for i, x := range ix {
			src += (x + bounds[i][0]) * srcStrides[i]
		}
		c.data[flat] = t.data[src]

		for i := len(ix) - 1; i >= 0; i-- {
			ix[i]++
			if ix[i] < shape[i] {
				break
			}
			ix[i] = 0
		}
	}
	return c
}

// Scale multiplies t by c in place and returns t.
func (t *Dense) Scale(c complex128) *Dense {
	for i := range t.data {
		t.data[i] *= c
	}
	return t
}

// Norm returns the Frobenius norm of t.
func (t *Dense) Norm() float64 {
	var sum float64
	for _, v := range t.data {
		sum += real(v)*real(v) + imag(v)*imag(v)
	}
	return math.Sqrt(sum)
}

// Eye returns the n by n identity matrix.
func Eye(n int) *Dense {
	t := Zeros(n, n)
	for i := 0; i < n; i++ {
		t.data[i*n+i] = 1
	}
	return t
}

// Product contracts a with b over the given axis pairs {axisOfA, axisOfB}.
// The result holds the free axes of a in their original order, followed by
// the free axes of b in their original order.
func Product(a, b *Dense, axes [][2]int) *Dense {
	aContr := make([]int, 0, len(axes))
	bContr := make([]int, 0, len(axes))
	for _, ab := range axes {
		if a.shape[ab[0]] != b.shape[ab[1]] {
			panic(fmt.Sprintf("contracted axes %#v of unequal dimension %d %d", ab, a.shape[ab[0]], b.shape[ab[1]]))
		}
		aContr = append(aContr, ab[0])
		bContr = append(bContr, ab[1])
	}
	aFree := free(len(a.shape), aContr)
	bFree := free(len(b.shape), bContr)

	at := a.Transpose(append(append([]int{}, aFree...), aContr...)...)
	bt := b.Transpose(append(append([]int{}, bContr...), bFree...)...)

	m, k, n := 1, 1, 1
	shape := make([]int, 0, len(aFree)+len(bFree))
	for _, ax := range aFree {
		m *= a.shape[ax]
		shape = append(shape, a.shape[ax])
	}
	for _, ax := range aContr {
		k *= a.shape[ax]
	}
	for _, ax := range bFree {
		n *= b.shape[ax]
		shape = append(shape, b.shape[ax])
	}
	if len(shape) == 0 {
		shape = []int{1}
	}

	c := Zeros(shape...)
	ag := cblas128.General{Rows: m, Cols: k, Stride: max(k, 1), Data: at.data}
	bg := cblas128.General{Rows: k, Cols: n, Stride: max(n, 1), Data: bt.data}
	cg := cblas128.General{Rows: m, Cols: n, Stride: max(n, 1), Data: c.data}
	cblas128.Gemm(blas.NoTrans, blas.NoTrans, 1, ag, bg, 0, cg)
	return c
}

// Equal reports whether a and b have the same shape and elementwise
// difference within tol.
func Equal(a, b *Dense, tol float64) bool {
	if len(a.shape) != len(b.shape) {
		return false
	}
	for i, d := range a.shape {
		if b.shape[i] != d {
			return false
		}
	}
	for i, v := range a.data {
		if cmplx.Abs(v-b.data[i]) > tol {
			return false
		}
	}
	return true
}

func strides(shape []int) []int {
	s := make([]int, len(shape))
	acc := 1
	for i := len(shape) - 1; i >= 0; i-- {
		s[i] = acc
		acc *= shape[i]
	}
	return s
}

func free(order int, contracted []int) []int {
	axes := make([]int, 0, order-len(contracted))
Outer:
	for i := 0; i < order; i++ {
		for _, c := range contracted {
			if c == i {
				continue Outer
			}
		}
		axes = append(axes, i)
	}
	return axes
}

func checkShape(shape []int) int {
	if len(shape) == 0 {
		panic("empty shape")
	}
	size := 1
	for _, d := range shape {
		if d <= 0 {
			panic(fmt.Sprintf("bad shape %#v", shape))
		}
		size *= d
	}
	return size
}
