package mobo

import (
	"errors"
	"time"

	"golang.org/x/exp/constraints"
)

//////
// Const, vars, types.
//////

// Sentinel errors. Configuration errors are fatal at construction time; the
// engine must not be used after New returns one. Argument errors are fatal for
// the offending call only and never leave partial results behind.
var (
	// ErrInvalidConfig indicates a malformed engine configuration (bad bounds,
	// unrecognized method/covariance/acquisition names, non-positive
	// multiplier).
	ErrInvalidConfig = errors.New("mobo: invalid configuration")

	// ErrInvalidArgument indicates a call-time contract violation: shape or
	// count mismatches across training data, response columns, or candidate
	// points, a non-positive sample count, or an unknown sampling strategy.
	ErrInvalidArgument = errors.New("mobo: invalid argument")
)

// Covariance kinds accepted by the default Gaussian Process surrogate.
const (
	// CovMatern52 is the Matérn 5/2 kernel (default).
	CovMatern52 = "matern52"

	// CovSE is the squared-exponential (RBF) kernel.
	CovSE = "se"
)

// Acquisition rules. The rule is selected at construction time and fixed for
// the engine's lifetime.
const (
	// AcqEI is Expected Improvement (default).
	AcqEI = "ei"

	// AcqPI is Probability of Improvement.
	AcqPI = "pi"

	// AcqUCB is an upper-confidence-bound rule.
	AcqUCB = "ucb"
)

// Optimizer method names for the built-in local minimizers.
const (
	// MethodNelderMead is the deterministic bounded simplex search (default
	// for both the surrogate fit and the acquisition search).
	MethodNelderMead = "neldermead"

	// MethodMayfly is the population-based mayfly optimizer, available for
	// the acquisition search only.
	MethodMayfly = "mayfly"
)

// Model-selection method names for the surrogate fit.
const (
	// ModelSelectionML is marginal-likelihood maximization.
	ModelSelectionML = "ml"
)

// Sampling strategies understood by Domain.Sample.
const (
	SamplingUniform  = "uniform"
	SamplingGaussian = "gaussian"
	SamplingGrid     = "grid"
)

// PriorMeanFunc is an optional prior mean function for the surrogate. When
// nil, the default surrogate centers on the training-response mean.
type PriorMeanFunc func(x []float64) float64

// Hyperparameters is the fitted hyperparameter record of one surrogate.
type Hyperparameters struct {
	// Noise is the observation noise variance added to the covariance
	// diagonal. Always positive after a successful fit.
	Noise float64

	// SignalVariance scales the kernel.
	SignalVariance float64

	// Lengthscales holds one entry per input dimension when automatic
	// relevance determination is enabled, otherwise a single shared entry.
	Lengthscales []float64

	// Mean is the constant prior mean used when no PriorMeanFunc is
	// configured.
	Mean float64
}

// SurrogateState is the per-objective, per-round artifact produced by a
// SurrogateFitter: the covariance matrix over training inputs, its inverse,
// and the fitted hyperparameters. It is consumed read-only by posterior and
// acquisition computation and discarded at the end of the round.
type SurrogateState struct {
	Cov    [][]float64
	InvCov [][]float64
	Hyps   Hyperparameters
}

// FitOptions carries the engine-level surrogate settings into the fitting and
// prediction collaborators.
type FitOptions struct {
	PriorMean            PriorMeanFunc
	CovarianceKind       string
	OptimizerMethod      string
	ModelSelectionMethod string
	UseARD               bool
}

// SurrogateFitter fits a probabilistic regression model to one objective's
// training data.
type SurrogateFitter interface {
	// Fit returns the covariance matrix over trainX, its inverse, and the
	// fitted hyperparameters. trainY is a single response column with one
	// entry per training row.
	Fit(trainX [][]float64, trainY []float64, opts FitOptions) (*SurrogateState, error)
}

// SurrogatePredictor evaluates the posterior predictive distribution of a
// fitted surrogate at new inputs.
type SurrogatePredictor interface {
	// Predict returns the posterior mean and standard deviation at each row
	// of testX, given the fitted state over (trainX, trainY).
	Predict(trainX [][]float64, trainY []float64, testX [][]float64, state *SurrogateState, opts FitOptions) (mean, std []float64, err error)
}

// LocalMinimizer is a generic local continuous optimizer: it accepts an
// objective, a starting point, and box bounds, and returns a locally optimal
// point. Implementations may fail to converge; callers treat a returned error
// as "use the starting point" rather than escalating.
type LocalMinimizer interface {
	Minimize(fn func([]float64) float64, x0 []float64, bounds [][2]float64) ([]float64, error)
}

// RoundReport is the diagnostic record assembled for one optimization round.
// The engine retains no reference to it after Optimize returns.
type RoundReport struct {
	// NextPoints holds every bounds-validated restart candidate, in restart
	// order. The selected next point is one of them.
	NextPoints [][]float64

	// Acquisitions holds the combined negative acquisition re-evaluated on
	// each entry of NextPoints.
	Acquisitions []float64

	// Original and normalized response columns, one pair per objective. When
	// response normalization is disabled the normalized columns equal the
	// originals.
	YOriginal1, YOriginal2     []float64
	YNormalized1, YNormalized2 []float64

	// Surrogate states fitted this round, one per objective.
	Surrogate1, Surrogate2 *SurrogateState

	// ScalarizationExponent is the log-uniform draw U; the second objective's
	// negative acquisition was weighted by 10^U.
	ScalarizationExponent float64

	// ConvergedRestarts counts restarts whose local search converged; the
	// remainder fell back to their unrefined initial points.
	ConvergedRestarts int

	// Timing breakdown.
	TimeSurrogate   time.Duration
	TimeAcquisition time.Duration
	TimeOverall     time.Duration
}

// ParameterRange defines the closed interval of one search-space dimension.
// It exists so callers with integer- or float-typed parameters can describe
// their domain in the native type and convert with BoundsFromRanges; the
// engine itself works in float64.
type ParameterRange[T constraints.Integer | constraints.Float] struct {
	// Min is the minimum allowed value (inclusive).
	Min T

	// Max is the maximum allowed value (inclusive).
	Max T
}

// BoundsFromRanges converts typed parameter ranges into the float64 box
// bounds consumed by Config and Domain. Order is preserved.
func BoundsFromRanges[T constraints.Integer | constraints.Float](ranges ...ParameterRange[T]) [][2]float64 {
	bounds := make([][2]float64, len(ranges))
	for i, r := range ranges {
		bounds[i] = [2]float64{float64(r.Min), float64(r.Max)}
	}

	return bounds
}
