package mobo

import "math"

//////
// Available acquisition rules.
// Each rule scores candidate points from a surrogate's posterior, balancing
// exploration (uncertain areas) and exploitation (areas predicted to be good).
// All rules follow the minimization convention: the incumbent is the smallest
// observed response, and higher scores indicate more promising points.
//////

// Exploration jitter for PI and EI: the minimum improvement over the
// incumbent a candidate must offer.
const acqJitter = 0.01

// Exploration weight for the upper-confidence-bound rule.
const acqUCBBeta = 2.0

// acquisitionRule scores a batch of candidate posteriors against the training
// responses. mean and std have one entry per candidate.
type acquisitionRule func(mean, std, trainY []float64) []float64

// ExpectedImprovement scores each candidate by the expected magnitude of
// improvement over the best observed response.
//
// How it works:
// - Combines the probability of improvement with its expected size
// - Often provides better exploration than PI
// - The most commonly used rule in practice
//
// A candidate with zero predictive deviation scores its deterministic
// improvement (never NaN).
func ExpectedImprovement(mean, std, trainY []float64) []float64 {
	incumbent := minOf(trainY)

	scores := make([]float64, len(mean))

	for i := range mean {
		gap := incumbent - mean[i] - acqJitter

		if std[i] <= 0 {
			scores[i] = math.Max(gap, 0)

			continue
		}

		z := gap / std[i]

		scores[i] = gap*normalCDF(z) + std[i]*normalPDF(z)
	}

	return scores
}

// ProbabilityOfImprovement scores each candidate by the probability that it
// improves upon the best observed response.
//
// How it works:
// - Estimates how likely a candidate is to beat the incumbent
// - Conservative: favors small, reliable improvements
// - Uses a normal posterior assumption
func ProbabilityOfImprovement(mean, std, trainY []float64) []float64 {
	incumbent := minOf(trainY)

	scores := make([]float64, len(mean))

	for i := range mean {
		gap := incumbent - mean[i] - acqJitter

		if std[i] <= 0 {
			if gap > 0 {
				scores[i] = 1
			}

			continue
		}

		scores[i] = normalCDF(gap / std[i])
	}

	return scores
}

// UpperConfidenceBound scores each candidate by an optimistic bound on its
// response under the minimization convention: low predicted mean and high
// uncertainty both raise the score.
//
// How it works:
// - Direct control over the exploration-exploitation trade-off
// - Simple and robust; a good general-purpose choice
// - The training responses do not enter the bound
func UpperConfidenceBound(mean, std, trainY []float64) []float64 {
	_ = trainY

	scores := make([]float64, len(mean))
	for i := range mean {
		scores[i] = -mean[i] + acqUCBBeta*std[i]
	}

	return scores
}

// acquisitionRuleByName resolves a rule name fixed at engine construction.
func acquisitionRuleByName(name string) (acquisitionRule, bool) {
	switch name {
	case AcqEI:
		return ExpectedImprovement, true
	case AcqPI:
		return ProbabilityOfImprovement, true
	case AcqUCB:
		return UpperConfidenceBound, true
	default:
		return nil, false
	}
}
