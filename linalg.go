package mobo

import "math"

//////
// Dense linear-algebra helpers for the default surrogate.
// Matrices are row-major [][]float64 and always square and symmetric here.
//////

// choleskyDecompose computes the lower-triangular factor L with A = L Lᵀ.
// Returns ok=false when A is not (numerically) positive definite.
func choleskyDecompose(a [][]float64) ([][]float64, bool) {
	n := len(a)

	l := make([][]float64, n)
	for i := range l {
		l[i] = make([]float64, n)
	}

	for i := 0; i < n; i++ {
		for j := 0; j <= i; j++ {
			sum := a[i][j]
			for k := 0; k < j; k++ {
				sum -= l[i][k] * l[j][k]
			}

			if i == j {
				if sum <= 0 {
					return nil, false
				}

				l[i][i] = math.Sqrt(sum)
			} else {
				l[i][j] = sum / l[j][j]
			}
		}
	}

	return l, true
}

// choleskySolve solves A x = b given the lower factor L of A, via forward
// then back substitution.
func choleskySolve(l [][]float64, b []float64) []float64 {
	n := len(l)

	// Forward: L z = b.
	z := make([]float64, n)

	for i := 0; i < n; i++ {
		sum := b[i]
		for k := 0; k < i; k++ {
			sum -= l[i][k] * z[k]
		}

		z[i] = sum / l[i][i]
	}

	// Back: Lᵀ x = z.
	x := make([]float64, n)

	for i := n - 1; i >= 0; i-- {
		sum := z[i]
		for k := i + 1; k < n; k++ {
			sum -= l[k][i] * x[k]
		}

		x[i] = sum / l[i][i]
	}

	return x
}

// choleskyInverse computes A⁻¹ from the lower factor L by solving against
// identity columns.
func choleskyInverse(l [][]float64) [][]float64 {
	n := len(l)

	inv := make([][]float64, n)
	for i := range inv {
		inv[i] = make([]float64, n)
	}

	e := make([]float64, n)

	for j := 0; j < n; j++ {
		e[j] = 1
		col := choleskySolve(l, e)
		e[j] = 0

		for i := 0; i < n; i++ {
			inv[i][j] = col[i]
		}
	}

	return inv
}

// choleskyLogDet returns log|A| given the lower factor L of A.
func choleskyLogDet(l [][]float64) float64 {
	var sum float64
	for i := range l {
		sum += math.Log(l[i][i])
	}

	return 2 * sum
}

// matVec computes m · v.
func matVec(m [][]float64, v []float64) []float64 {
	out := make([]float64, len(m))

	for i, row := range m {
		var sum float64
		for j, mv := range row {
			sum += mv * v[j]
		}

		out[i] = sum
	}

	return out
}

// dot computes the inner product of two equal-length vectors.
func dot(a, b []float64) float64 {
	var sum float64
	for i := range a {
		sum += a[i] * b[i]
	}

	return sum
}
