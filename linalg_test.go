package mobo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCholeskyDecomposeAndSolve(t *testing.T) {
	// Known SPD matrix with x = [1, 2] solving A x = b.
	a := [][]float64{
		{4, 2},
		{2, 3},
	}
	b := []float64{8, 8}

	l, ok := choleskyDecompose(a)
	require.True(t, ok)

	// A = L Lᵀ.
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			var sum float64
			for k := 0; k < 2; k++ {
				sum += l[i][k] * l[j][k]
			}

			assert.InDelta(t, a[i][j], sum, 1e-12)
		}
	}

	x := choleskySolve(l, b)

	assert.InDelta(t, 1.0, x[0], 1e-12)
	assert.InDelta(t, 2.0, x[1], 1e-12)
}

func TestCholeskyDecomposeNotPositiveDefinite(t *testing.T) {
	a := [][]float64{
		{1, 2},
		{2, 1},
	}

	_, ok := choleskyDecompose(a)

	assert.False(t, ok)
}

func TestCholeskyInverse(t *testing.T) {
	a := [][]float64{
		{4, 2},
		{2, 3},
	}

	l, ok := choleskyDecompose(a)
	require.True(t, ok)

	inv := choleskyInverse(l)

	// A · A⁻¹ = I.
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			var sum float64
			for k := 0; k < 2; k++ {
				sum += a[i][k] * inv[k][j]
			}

			want := 0.0
			if i == j {
				want = 1.0
			}

			assert.InDelta(t, want, sum, 1e-12)
		}
	}
}

func TestCholeskyLogDet(t *testing.T) {
	a := [][]float64{
		{4, 2},
		{2, 3},
	}

	l, ok := choleskyDecompose(a)
	require.True(t, ok)

	// det(A) = 4*3 - 2*2 = 8.
	assert.InDelta(t, 2.0794415416798357, choleskyLogDet(l), 1e-12)
}

func TestMatVecAndDot(t *testing.T) {
	m := [][]float64{
		{1, 2},
		{3, 4},
	}
	v := []float64{5, 6}

	assert.Equal(t, []float64{17, 39}, matVec(m, v))
	assert.Equal(t, 61.0, dot(v, []float64{5, 6}))
}
