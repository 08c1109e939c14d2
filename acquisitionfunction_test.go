package mobo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpectedImprovement(t *testing.T) {
	trainY := []float64{1.0, 2.0, 3.0} // incumbent is 1.0

	// A candidate predicted well below the incumbent with real uncertainty
	// scores higher than one predicted at the incumbent.
	scores := ExpectedImprovement([]float64{0.0, 1.0}, []float64{0.5, 0.5}, trainY)

	require.Len(t, scores, 2)
	assert.Greater(t, scores[0], scores[1])
	assert.Greater(t, scores[0], 0.0)
}

func TestExpectedImprovementZeroStd(t *testing.T) {
	trainY := []float64{1.0, 2.0}

	scores := ExpectedImprovement([]float64{0.0, 5.0}, []float64{0, 0}, trainY)

	// Deterministic improvement when below the incumbent, zero otherwise,
	// never NaN.
	assert.InDelta(t, 1.0-acqJitter, scores[0], 1e-12)
	assert.Equal(t, 0.0, scores[1])

	for _, s := range scores {
		assert.False(t, math.IsNaN(s))
	}
}

func TestProbabilityOfImprovement(t *testing.T) {
	trainY := []float64{1.0, 2.0}

	scores := ProbabilityOfImprovement([]float64{0.0, 2.0}, []float64{0.5, 0.5}, trainY)

	require.Len(t, scores, 2)

	// Probabilities stay in [0, 1] and the better mean wins.
	for _, s := range scores {
		assert.GreaterOrEqual(t, s, 0.0)
		assert.LessOrEqual(t, s, 1.0)
	}

	assert.Greater(t, scores[0], scores[1])
}

func TestProbabilityOfImprovementZeroStd(t *testing.T) {
	trainY := []float64{1.0}

	scores := ProbabilityOfImprovement([]float64{0.0, 5.0}, []float64{0, 0}, trainY)

	assert.Equal(t, 1.0, scores[0])
	assert.Equal(t, 0.0, scores[1])
}

func TestUpperConfidenceBound(t *testing.T) {
	scores := UpperConfidenceBound([]float64{1.0, 1.0}, []float64{0.0, 1.0}, nil)

	assert.InDelta(t, -1.0, scores[0], 1e-12)
	assert.InDelta(t, -1.0+acqUCBBeta, scores[1], 1e-12)

	// Lower predicted mean raises the score.
	scores = UpperConfidenceBound([]float64{0.0, 2.0}, []float64{0.5, 0.5}, nil)
	assert.Greater(t, scores[0], scores[1])
}

func TestAcquisitionRuleByName(t *testing.T) {
	for _, name := range []string{AcqEI, AcqPI, AcqUCB} {
		rule, ok := acquisitionRuleByName(name)

		assert.True(t, ok, name)
		assert.NotNil(t, rule, name)
	}

	_, ok := acquisitionRuleByName("thompson")
	assert.False(t, ok)
}
