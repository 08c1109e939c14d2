package mobo

import "math"

//////
// Helper functions.
//////

// Helper function used by PI and EI to compute the cumulative distribution
// function of the standard normal distribution.
//
// Returns:
// - Probability that a standard normal random variable is less than x.
func normalCDF(x float64) float64 {
	return 0.5 * (1.0 + math.Erf(x/math.Sqrt2))
}

// Helper function used by EI to compute the probability density function
// of the standard normal distribution.
//
// Returns:
// - Value of the standard normal PDF at x.
func normalPDF(x float64) float64 {
	return math.Exp(-x*x/2.0) / math.Sqrt(2.0*math.Pi)
}

// normalizeMinMax maps a response column into [0, 1] using its own min and
// max, returning a fresh slice and leaving the input untouched. A constant
// column has no scale to normalize by, so every row maps to 0 rather than
// dividing by zero.
func normalizeMinMax(y []float64) []float64 {
	out := make([]float64, len(y))
	if len(y) == 0 {
		return out
	}

	lo, hi := y[0], y[0]

	for _, v := range y[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}

	if hi == lo {
		return out
	}

	for i, v := range y {
		out[i] = (v - lo) / (hi - lo)
	}

	return out
}

// minOf returns the smallest element of a non-empty slice.
func minOf(values []float64) float64 {
	m := values[0]
	for _, v := range values[1:] {
		m = math.Min(m, v)
	}

	return m
}

// meanOf returns the arithmetic mean of a non-empty slice.
func meanOf(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}

	return sum / float64(len(values))
}

// copyColumn extracts column j of a row-major matrix into a fresh slice.
func copyColumn(m [][]float64, j int) []float64 {
	out := make([]float64, len(m))
	for i, row := range m {
		out[i] = row[j]
	}

	return out
}

// copyVector returns an independent copy of v.
func copyVector(v []float64) []float64 {
	out := make([]float64, len(v))
	copy(out, v)

	return out
}
