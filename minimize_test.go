package mobo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sphere(x []float64) float64 {
	var sum float64
	for _, v := range x {
		sum += v * v
	}

	return sum
}

func TestNelderMeadQuadratic(t *testing.T) {
	nm := NewNelderMead()

	// Minimum of (x-3)² over [0, 10] is x = 3.
	fn := func(x []float64) float64 {
		d := x[0] - 3
		return d * d
	}

	got, err := nm.Minimize(fn, []float64{8}, [][2]float64{{0, 10}})
	require.NoError(t, err)
	require.Len(t, got, 1)

	assert.InDelta(t, 3.0, got[0], 1e-4)
}

func TestNelderMeadSphere2D(t *testing.T) {
	nm := NewNelderMead()

	got, err := nm.Minimize(sphere, []float64{4, -3}, [][2]float64{{-5, 5}, {-5, 5}})
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.InDelta(t, 0.0, got[0], 1e-3)
	assert.InDelta(t, 0.0, got[1], 1e-3)
}

func TestNelderMeadStaysInBounds(t *testing.T) {
	nm := NewNelderMead()

	// Unconstrained minimum at x = -10 lies outside the box; the search must
	// settle on the boundary, never beyond it.
	fn := func(x []float64) float64 {
		d := x[0] + 10
		return d * d
	}

	got, err := nm.Minimize(fn, []float64{3}, [][2]float64{{0, 5}})
	require.NoError(t, err)

	assert.GreaterOrEqual(t, got[0], 0.0)
	assert.LessOrEqual(t, got[0], 5.0)
	assert.InDelta(t, 0.0, got[0], 1e-4)
}

func TestNelderMeadDeterministic(t *testing.T) {
	nm := NewNelderMead()
	bounds := [][2]float64{{-5, 5}, {-5, 5}}

	a, err := nm.Minimize(sphere, []float64{2, 2}, bounds)
	require.NoError(t, err)

	b, err := nm.Minimize(sphere, []float64{2, 2}, bounds)
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestNelderMeadDimensionMismatch(t *testing.T) {
	nm := NewNelderMead()

	_, err := nm.Minimize(sphere, []float64{1, 2}, [][2]float64{{0, 1}})
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = nm.Minimize(sphere, nil, nil)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestNelderMeadStartAtBound(t *testing.T) {
	nm := NewNelderMead()

	// Starting exactly on the upper bound must still build a usable simplex.
	got, err := nm.Minimize(sphere, []float64{5}, [][2]float64{{-5, 5}})
	require.NoError(t, err)

	assert.InDelta(t, 0.0, got[0], 1e-3)
}

func TestMayflyDimensionMismatch(t *testing.T) {
	m := NewMayfly(10, 5, 1)

	_, err := m.Minimize(sphere, []float64{1}, [][2]float64{{0, 1}, {0, 1}})
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestSeedFromPointDistinguishesPoints(t *testing.T) {
	a := seedFromPoint([]float64{1, 2})
	b := seedFromPoint([]float64{2, 1})

	assert.NotEqual(t, a, b)

	// Same point, same perturbation.
	assert.Equal(t, a, seedFromPoint([]float64{1, 2}))
}
