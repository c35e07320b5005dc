package solver

import "math"

// Rank decisions are relative to the norm of the row being tested.
const (
	rankTol    = 1e-9
	zeroRowTol = 1e-12
)

// rowBasis orthonormalizes Jacobian rows in order with modified
// Gram-Schmidt. Rows that add nothing to the span are dependent. The
// independent rows satisfy J_I = L Q, with L lower triangular.
type rowBasis struct {
	q    [][]float64
	l    [][]float64
	rows []int
}

func (b *rowBasis) rank() int { return len(b.q) }

// add offers row idx. It returns the coefficients of the row against the
// basis as it stood and whether the row was accepted as independent.
func (b *rowBasis) add(idx int, row []float64) ([]float64, bool) {
	v := append([]float64(nil), row...)
	n0 := norm(v)
	c := make([]float64, len(b.q))
	// Two passes keep the basis orthogonal to working precision.
	for pass := 0; pass < 2; pass++ {
		for k, qk := range b.q {
			d := dot(qk, v)
			c[k] += d
			axpy(-d, qk, v)
		}
	}
	n := norm(v)
	if n0 < zeroRowTol || n <= rankTol*n0 {
		return c, false
	}
	for i := range v {
		v[i] /= n
	}
	b.q = append(b.q, v)
	b.l = append(b.l, append(c, n))
	b.rows = append(b.rows, idx)
	return c, true
}

// minNormStep returns the smallest step dx with J_I dx = -f_I.
func (b *rowBasis) minNormStep(f []float64, n int) []float64 {
	r := b.rank()
	y := make([]float64, r)
	for k := 0; k < r; k++ {
		s := -f[b.rows[k]]
		for j := 0; j < k; j++ {
			s -= b.l[k][j] * y[j]
		}
		y[k] = s / b.l[k][k]
	}
	dx := make([]float64, n)
	for k := 0; k < r; k++ {
		axpy(y[k], b.q[k], dx)
	}
	return dx
}

// combination expresses a dependent row, given by its basis coefficients c,
// as weights on the independent rows: J_dep = sum lambda_k J_I[k].
func (b *rowBasis) combination(c []float64) []float64 {
	r := len(c)
	lambda := make([]float64, r)
	for k := r - 1; k >= 0; k-- {
		s := c[k]
		for j := k + 1; j < r; j++ {
			s -= b.l[j][k] * lambda[j]
		}
		lambda[k] = s / b.l[k][k]
	}
	return lambda
}

func dot(a, b []float64) float64 {
	var s float64
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}

func norm(a []float64) float64 { return math.Sqrt(dot(a, a)) }

// axpy computes y += a*x.
func axpy(a float64, x, y []float64) {
	for i := range x {
		y[i] += a * x[i]
	}
}

func maxAbs(a []float64) float64 {
	var m float64
	for _, v := range a {
		if av := math.Abs(v); av > m || math.IsNaN(v) {
			m = av
		}
	}
	return m
}
