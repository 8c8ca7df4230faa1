package tensor

import (
	"math"
	"math/cmplx"
	"slices"

	"github.com/pkg/errors"
)

// ErrNoConvergence is returned when the SVD iteration fails to converge.
var ErrNoConvergence = errors.New("svd did not converge")

const (
	svdEps       = 1e-14
	svdMaxSweeps = 64
)

// SVD factorizes the matrix a into u @ diag(s) @ vh, with u of shape
// (m, r), s of length r = min(m, n) in descending order, and vh of shape
// (r, n). The rows of vh and the columns of u are orthonormal.
//
// The implementation is a one-sided Jacobi iteration on the columns of a,
// which is simple and numerically stable for the small matrices arising
// from two-site tensors.
func SVD(a *Dense) (*Dense, []float64, *Dense, error) {
	if len(a.shape) != 2 {
		return nil, nil, nil, errors.Errorf("not a matrix %#v", a.shape)
	}
	m, n := a.shape[0], a.shape[1]
	if m < n {
		// a.H = v @ diag(s) @ u.H
		v, s, uh, err := SVD(a.H())
		if err != nil {
			return nil, nil, nil, err
		}
		return uh.H(), s, v.H(), nil
	}

	// Work on columns: g[j] is the j-th column of the rotated a.
	g := make([][]complex128, n)
	v := make([][]complex128, n)
	for j := 0; j < n; j++ {
		g[j] = make([]complex128, m)
		for i := 0; i < m; i++ {
			g[j][i] = a.data[i*n+j]
		}
		v[j] = make([]complex128, n)
		v[j][j] = 1
	}

	// Columns of a rank-deficient matrix are driven toward zero by the
	// sweeps. Below this absolute floor a column holds only rounding
	// noise, and rotating against it never settles, so it is deflated to
	// exact zero instead.
	var frob float64
	for j := range g {
		frob += colNorm2(g[j])
	}
	floor := svdEps * svdEps * frob

	converged := false
	for sweep := 0; sweep < svdMaxSweeps && !converged; sweep++ {
		converged = true
		for _, col := range g {
			if nrm := colNorm2(col); nrm > 0 && nrm <= floor {
				clear(col)
			}
		}
		for p := 0; p < n-1; p++ {
			for q := p + 1; q < n; q++ {
				alpha, beta := colNorm2(g[p]), colNorm2(g[q])
				if alpha <= floor || beta <= floor {
					continue
				}
				gamma := colDot(g[p], g[q])
				ag := cmplx.Abs(gamma)
				if ag <= svdEps*math.Sqrt(alpha*beta) || ag == 0 {
					continue
				}
				converged = false

				// Rotate the phase of column q so that <g_p, g_q> is real.
				phase := cmplx.Conj(gamma) / complex(ag, 0)
				scaleCol(g[q], phase)
				scaleCol(v[q], phase)

				// Real Jacobi rotation annihilating the off-diagonal element.
				zeta := (beta - alpha) / (2 * ag)
				t := math.Copysign(1, zeta) / (math.Abs(zeta) + math.Sqrt(1+zeta*zeta))
				cs := 1 / math.Sqrt(1+t*t)
				sn := cs * t
				rotateCols(g[p], g[q], cs, sn)
				rotateCols(v[p], v[q], cs, sn)
			}
		}
	}
	if !converged {
		return nil, nil, nil, errors.Wrapf(ErrNoConvergence, "%dx%d after %d sweeps", m, n, svdMaxSweeps)
	}

	sigma := make([]float64, n)
	order := make([]int, n)
	for j := range g {
		sigma[j] = math.Sqrt(colNorm2(g[j]))
		order[j] = j
	}
	slices.SortStableFunc(order, func(x, y int) int {
		switch {
		case sigma[x] > sigma[y]:
			return -1
		case sigma[x] < sigma[y]:
			return 1
		default:
			return 0
		}
	})

	u := Zeros(m, n)
	vh := Zeros(n, n)
	s := make([]float64, n)
	for jj, j := range order {
		s[jj] = sigma[j]
		if sigma[j] > 0 {
			inv := complex(1/sigma[j], 0)
			for i := 0; i < m; i++ {
				u.data[i*n+jj] = g[j][i] * inv
			}
		}
		for i := 0; i < n; i++ {
			vh.data[jj*n+i] = cmplx.Conj(v[j][i])
		}
	}
	return u, s, vh, nil
}

func colNorm2(c []complex128) float64 {
	var sum float64
	for _, x := range c {
		sum += real(x)*real(x) + imag(x)*imag(x)
	}
	return sum
}

func colDot(a, b []complex128) complex128 {
	var sum complex128
	for i, x := range a {
		sum += cmplx.Conj(x) * b[i]
	}
	return sum
}

func scaleCol(c []complex128, v complex128) {
	for i := range c {
		c[i] *= v
	}
}

func rotateCols(p, q []complex128, cs, sn float64) {
	c, s := complex(cs, 0), complex(sn, 0)
	for i := range p {
		pi, qi := p[i], q[i]
		p[i] = c*pi - s*qi
		q[i] = s*pi + c*qi
	}
}
