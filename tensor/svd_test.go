package tensor

import (
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSVD(t *testing.T) {
	t.Parallel()
	rng := rand.New(rand.NewPCG(11, 13))
	tests := []struct {
		rows int
		cols int
	}{
		{rows: 1, cols: 1},
		{rows: 4, cols: 4},
		{rows: 6, cols: 3},
		{rows: 3, cols: 6},
		{rows: 1, cols: 5},
		{rows: 8, cols: 8},
	}
	for _, test := range tests {
		a := randDense(rng, test.rows, test.cols)
		t.Run(fmt.Sprintf("%dx%d", test.rows, test.cols), func(t *testing.T) {
			t.Parallel()
			u, s, vh, err := SVD(a)
			require.NoError(t, err)

			r := min(test.rows, test.cols)
			require.Equal(t, []int{test.rows, r}, u.Shape())
			require.Len(t, s, r)
			require.Equal(t, []int{r, test.cols}, vh.Shape())

			for i := 1; i < r; i++ {
				require.LessOrEqual(t, s[i], s[i-1])
			}

			// U†U = I and V†V = I.
			require.True(t, Equal(Product(u.Conj(), u, [][2]int{{0, 0}}), Eye(r), 1e-10))
			require.True(t, Equal(Product(vh, vh.Conj(), [][2]int{{1, 1}}), Eye(r), 1e-10))

			// Reconstruct a = u @ diag(s) @ vh.
			us := u.Clone()
			data := us.Data()
			for i := 0; i < test.rows; i++ {
				for j := 0; j < r; j++ {
					data[i*r+j] *= complex(s[j], 0)
				}
			}
			require.True(t, Equal(Product(us, vh, [][2]int{{1, 0}}), a, 1e-10))
		})
	}
}

func TestSVDRankDeficient(t *testing.T) {
	t.Parallel()
	// Rank-1 matrix: second singular value must be ~0.
	a := T2([][]complex128{
		{1, 2},
		{2, 4},
	})
	u, s, vh, err := SVD(a)
	require.NoError(t, err)
	require.InDelta(t, 0, s[1], 1e-10)

	us := u.Clone()
	data := us.Data()
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			data[i*2+j] *= complex(s[j], 0)
		}
	}
	require.True(t, Equal(Product(us, vh, [][2]int{{1, 0}}), a, 1e-10))
}

func TestSVDZeroRows(t *testing.T) {
	t.Parallel()
	// Rank-2 with exact-zero rows, the shape a two-site update produces
	// for product-like states. Two columns collapse to zero under the
	// sweeps and must be deflated rather than spun forever.
	a := T2([][]complex128{
		{0.3 + 0.1i, -0.2i, 0.5, 0.1},
		{0, 0, 0, 0},
		{0.1, 0.4 - 0.3i, -0.2, 0.6i},
		{0, 0, 0, 0},
	})
	u, s, vh, err := SVD(a)
	require.NoError(t, err)

	require.InDelta(t, 0, s[2], 1e-10)
	require.InDelta(t, 0, s[3], 1e-10)
	for i := 1; i < 4; i++ {
		require.LessOrEqual(t, s[i], s[i-1])
	}

	us := u.Clone()
	data := us.Data()
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			data[i*4+j] *= complex(s[j], 0)
		}
	}
	require.True(t, Equal(Product(us, vh, [][2]int{{1, 0}}), a, 1e-10))
}

func TestSVDNotAMatrix(t *testing.T) {
	t.Parallel()
	_, _, _, err := SVD(Zeros(2, 2, 2))
	require.Error(t, err)
}
