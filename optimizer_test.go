package mobo

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// failingMinimizer always reports failure, so every restart must fall back to
// its unrefined initial point.
type failingMinimizer struct{}

func (failingMinimizer) Minimize(fn func([]float64) float64, x0 []float64, bounds [][2]float64) ([]float64, error) {
	return nil, errors.New("did not converge")
}

// replayMinimizer hands out a fixed candidate list in call order, so a test
// controls exactly which candidates the restart search compares.
type replayMinimizer struct {
	points [][]float64
	next   int
}

func (m *replayMinimizer) Minimize(fn func([]float64) float64, x0 []float64, bounds [][2]float64) ([]float64, error) {
	p := m.points[m.next]
	m.next++

	return p, nil
}

func newTestEngine(t *testing.T, mutate func(*Config)) *Engine {
	t.Helper()

	cfg := DefaultConfig([][2]float64{{0, 10}})
	if mutate != nil {
		mutate(&cfg)
	}

	e, err := New(cfg)
	require.NoError(t, err)

	return e
}

func TestOptimizeAcquisitionSelectsLowest(t *testing.T) {
	e := newTestEngine(t, nil)

	// Combined negative acquisition minimized at x = 3.
	neg := func(x []float64) float64 {
		d := x[0] - 3
		return d * d
	}

	best, candidates, converged, err := e.optimizeAcquisition(neg, SamplingUniform, 20, 42)
	require.NoError(t, err)
	require.Len(t, candidates, 20)

	assert.InDelta(t, 3.0, best[0], 1e-3)
	assert.Equal(t, 20, converged)

	// The winner is re-evaluated, never beaten by another candidate.
	for _, c := range candidates {
		assert.GreaterOrEqual(t, neg(c), neg(best))
	}
}

func TestOptimizeAcquisitionSampleCount(t *testing.T) {
	e := newTestEngine(t, nil)

	neg := func(x []float64) float64 { return x[0] }

	_, _, _, err := e.optimizeAcquisition(neg, SamplingUniform, 0, 1)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, _, _, err = e.optimizeAcquisition(neg, SamplingUniform, -1, 1)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestOptimizeAcquisitionUnknownStrategy(t *testing.T) {
	e := newTestEngine(t, nil)

	neg := func(x []float64) float64 { return x[0] }

	_, _, _, err := e.optimizeAcquisition(neg, "halton", 5, 1)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestOptimizeAcquisitionParallelMatchesSerial(t *testing.T) {
	neg := func(x []float64) float64 {
		d := x[0] - 7
		return d * d
	}

	serial := newTestEngine(t, nil)
	parallel := newTestEngine(t, func(cfg *Config) { cfg.RestartWorkers = 4 })

	bestS, candsS, convergedS, err := serial.optimizeAcquisition(neg, SamplingUniform, 16, 11)
	require.NoError(t, err)

	bestP, candsP, convergedP, err := parallel.optimizeAcquisition(neg, SamplingUniform, 16, 11)
	require.NoError(t, err)

	assert.Equal(t, bestS, bestP)
	assert.Equal(t, candsS, candsP)
	assert.Equal(t, convergedS, convergedP)
}

func TestOptimizeAcquisitionOrderIndependent(t *testing.T) {
	// Minimized at x = 6, with distinct values across the candidate set.
	neg := func(x []float64) float64 {
		d := x[0] - 6
		return d * d
	}

	points := [][]float64{{1}, {4}, {6}, {9}, {2}}

	perms := [][]int{
		{0, 1, 2, 3, 4},
		{4, 3, 2, 1, 0},
		{2, 0, 4, 1, 3},
		{3, 4, 1, 0, 2},
	}

	for _, perm := range perms {
		shuffled := make([][]float64, len(points))
		for i, j := range perm {
			shuffled[i] = points[j]
		}

		e := newTestEngine(t, func(cfg *Config) {
			cfg.Minimizer = &replayMinimizer{points: shuffled}
		})

		best, candidates, _, err := e.optimizeAcquisition(neg, SamplingUniform, len(shuffled), 17)
		require.NoError(t, err)
		require.Len(t, candidates, len(points))

		// Whatever order the restarts produce the candidates in, the same
		// point wins.
		assert.Equal(t, []float64{6}, best)
	}
}

func TestOptimizeAcquisitionFailedRestartKeepsInitial(t *testing.T) {
	e := newTestEngine(t, func(cfg *Config) { cfg.Minimizer = failingMinimizer{} })

	neg := func(x []float64) float64 { return x[0] }

	initials, err := e.Domain().Sample(SamplingUniform, 5, 9)
	require.NoError(t, err)

	best, candidates, converged, err := e.optimizeAcquisition(neg, SamplingUniform, 5, 9)
	require.NoError(t, err)

	// Every candidate is its unrefined initial, and the best is still the
	// lowest of them.
	assert.Equal(t, initials, candidates)
	assert.Zero(t, converged)

	for _, c := range candidates {
		assert.GreaterOrEqual(t, neg(c), neg(best))
	}
}
