package mobo

import (
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"time"
)

//////
// Exported functionalities.
//////

// The scalarization draw is seeded from the round seed plus this fixed
// offset, decoupling it from the restart-sampling stream: changing the
// restart seed never changes the weight draw and vice versa.
const scalarizationSeedOffset = 101

// Config holds the construction-time configuration of a bi-objective engine.
// Empty method names and a zero multiplier fall back to the documented
// defaults; DefaultConfig returns a fully populated configuration to adjust
// from.
type Config struct {
	// Bounds define the search domain, one closed [lo, hi] interval per
	// dimension. Required.
	Bounds [][2]float64

	// CovarianceKind selects the surrogate kernel ("matern52", "se").
	CovarianceKind string

	// AcquisitionKind selects the acquisition rule ("ei", "pi", "ucb"),
	// fixed for the engine's lifetime.
	AcquisitionKind string

	// NormalizeResponses min-max-normalizes each response column per round.
	NormalizeResponses bool

	// UseARD fits one lengthscale per input dimension instead of a shared
	// one.
	UseARD bool

	// PriorMean is an optional surrogate prior mean function.
	PriorMean PriorMeanFunc

	// GPOptimizerMethod names the hyperparameter-fit optimizer
	// ("neldermead").
	GPOptimizerMethod string

	// AcqOptimizerMethod names the acquisition-search local optimizer
	// ("neldermead", "mayfly"). Ignored when Minimizer is injected.
	AcqOptimizerMethod string

	// AcqOptimizerSeed is the base random seed of the stochastic "mayfly"
	// method. The deterministic default method ignores it.
	AcqOptimizerSeed int64

	// ModelSelectionMethod names the surrogate model-selection criterion
	// ("ml").
	ModelSelectionMethod string

	// AcquisitionMultiplier scales acquisition scores. Must be positive; it
	// is applied uniformly, so candidate rankings never depend on it.
	AcquisitionMultiplier float64

	// ScalarizationExponent bounds the log-uniform exponent draw U; the
	// second objective is weighted by 10^U. DefaultConfig sets [-3, 3]; the
	// zero value is a valid degenerate range that pins the draw to 0, so it
	// is never rewritten.
	ScalarizationExponent [2]float64

	// RestartWorkers bounds concurrent restarts; 0 or 1 runs them serially.
	// Correctness never depends on this.
	RestartWorkers int

	// Debug enables diagnostic logging. No behavioral effect.
	Debug bool

	// Optional injected collaborators; nil selects the built-in Gaussian
	// Process surrogate and the optimizer named by AcqOptimizerMethod.
	Fitter    SurrogateFitter
	Predictor SurrogatePredictor
	Minimizer LocalMinimizer
}

// DefaultConfig returns the default engine configuration over the given
// bounds: Matérn 5/2 surrogate with ARD, expected improvement, normalized
// responses, deterministic simplex search everywhere.
func DefaultConfig(bounds [][2]float64) Config {
	return Config{
		Bounds:                bounds,
		CovarianceKind:        CovMatern52,
		AcquisitionKind:       AcqEI,
		NormalizeResponses:    true,
		UseARD:                true,
		GPOptimizerMethod:     MethodNelderMead,
		AcqOptimizerMethod:    MethodNelderMead,
		AcqOptimizerSeed:      42,
		ModelSelectionMethod:  ModelSelectionML,
		AcquisitionMultiplier: 10.0,
		ScalarizationExponent: [2]float64{-3, 3},
	}
}

// Engine proposes the next point to evaluate for a bi-objective black-box
// problem. It is stateless across rounds: each Optimize call receives the
// full training data and returns a proposal plus diagnostics, retaining
// nothing.
type Engine struct {
	cfg    Config
	domain *Domain

	fitter    SurrogateFitter
	predictor SurrogatePredictor
	minimizer LocalMinimizer

	acquire acquisitionRule
	logger  *slog.Logger
}

// New validates the configuration and builds an engine. Configuration errors
// are fatal: on error the returned engine is nil and must not be used.
func New(cfg Config) (*Engine, error) {
	applyDefaults(&cfg)

	domain, err := NewDomain(cfg.Bounds)
	if err != nil {
		return nil, err
	}

	acquire, ok := acquisitionRuleByName(cfg.AcquisitionKind)
	if !ok {
		return nil, fmt.Errorf("%w: unknown acquisition kind %q", ErrInvalidConfig, cfg.AcquisitionKind)
	}

	if cfg.CovarianceKind != CovMatern52 && cfg.CovarianceKind != CovSE {
		return nil, fmt.Errorf("%w: unknown covariance kind %q", ErrInvalidConfig, cfg.CovarianceKind)
	}

	if cfg.GPOptimizerMethod != MethodNelderMead {
		return nil, fmt.Errorf("%w: unknown surrogate optimizer method %q", ErrInvalidConfig, cfg.GPOptimizerMethod)
	}

	if cfg.ModelSelectionMethod != ModelSelectionML {
		return nil, fmt.Errorf("%w: unknown model-selection method %q", ErrInvalidConfig, cfg.ModelSelectionMethod)
	}

	if cfg.AcquisitionMultiplier <= 0 {
		return nil, fmt.Errorf("%w: acquisition multiplier must be positive, got %v", ErrInvalidConfig, cfg.AcquisitionMultiplier)
	}

	if cfg.ScalarizationExponent[0] > cfg.ScalarizationExponent[1] {
		return nil, fmt.Errorf("%w: scalarization exponent range [%v, %v] has lo > hi",
			ErrInvalidConfig, cfg.ScalarizationExponent[0], cfg.ScalarizationExponent[1])
	}

	if cfg.RestartWorkers < 0 {
		return nil, fmt.Errorf("%w: restart workers must not be negative, got %d", ErrInvalidConfig, cfg.RestartWorkers)
	}

	minimizer := cfg.Minimizer
	if minimizer == nil {
		switch cfg.AcqOptimizerMethod {
		case MethodNelderMead:
			minimizer = NewNelderMead()
		case MethodMayfly:
			minimizer = NewMayfly(100, 20, cfg.AcqOptimizerSeed)
		default:
			return nil, fmt.Errorf("%w: unknown acquisition optimizer method %q", ErrInvalidConfig, cfg.AcqOptimizerMethod)
		}
	}

	e := &Engine{
		cfg:       cfg,
		domain:    domain,
		fitter:    cfg.Fitter,
		predictor: cfg.Predictor,
		minimizer: minimizer,
		acquire:   acquire,
		logger:    slog.Default(),
	}

	defaultGP := NewGaussianProcess()

	if e.fitter == nil {
		e.fitter = defaultGP
	}

	if e.predictor == nil {
		e.predictor = defaultGP
	}

	return e, nil
}

// Optimize runs one round: fit both surrogates on (trainX, trainY), combine
// their acquisitions under a fresh random scalarization, and return the next
// point to evaluate together with the round's diagnostic report.
//
// trainX is N×D with every point inside the domain; trainY is N×2 with column
// 0 holding objective 1's observed values and column 1 objective 2's. The
// restart initials come from samplingMethod with the given seed; the
// scalarization exponent comes from seed + 101. Repeating a call with
// identical inputs reproduces both the exponent and, with the deterministic
// built-in collaborators, the proposed point.
func (e *Engine) Optimize(trainX [][]float64, trainY [][]float64, samplingMethod string, numSamples int, seed int64) ([]float64, *RoundReport, error) {
	timeStart := time.Now()

	// Argument contracts come first: nothing below runs, and no surrogate is
	// fitted, when any of them fails.
	if numSamples <= 0 {
		return nil, nil, errInvalidSampleCount(numSamples)
	}

	switch samplingMethod {
	case SamplingUniform, SamplingGaussian, SamplingGrid:
	default:
		return nil, nil, fmt.Errorf("%w: unknown sampling strategy %q", ErrInvalidArgument, samplingMethod)
	}

	if err := e.validateRound(trainX, trainY); err != nil {
		return nil, nil, err
	}

	orig1 := copyColumn(trainY, 0)
	orig2 := copyColumn(trainY, 1)

	y1 := copyVector(orig1)
	y2 := copyVector(orig2)

	if e.cfg.NormalizeResponses {
		if e.cfg.Debug {
			e.logger.Debug("responses are normalized")
		}

		y1 = normalizeMinMax(y1)
		y2 = normalizeMinMax(y2)
	}

	timeStartSurrogate := time.Now()

	state1, err := e.fitter.Fit(trainX, y1, e.fitOptions())
	if err != nil {
		return nil, nil, fmt.Errorf("fitting surrogate for objective 1: %w", err)
	}

	state2, err := e.fitter.Fit(trainX, y2, e.fitOptions())
	if err != nil {
		return nil, nil, fmt.Errorf("fitting surrogate for objective 2: %w", err)
	}

	timeSurrogate := time.Since(timeStartSurrogate)

	timeStartAcq := time.Now()

	ctx1 := e.newAcquisitionContext(trainX, y1, state1)
	ctx2 := e.newAcquisitionContext(trainX, y2, state2)

	lo, hi := e.cfg.ScalarizationExponent[0], e.cfg.ScalarizationExponent[1]

	exponent := lo + rand.New(rand.NewSource(seed+scalarizationSeedOffset)).Float64()*(hi-lo)
	weight := math.Pow(10, exponent)

	negCombined := func(x []float64) float64 {
		return ctx1.negativeAt(x) + weight*ctx2.negativeAt(x)
	}

	nextPoint, nextPoints, numConverged, err := e.optimizeAcquisition(negCombined, samplingMethod, numSamples, seed)
	if err != nil {
		return nil, nil, err
	}

	// Box-constrained solvers can drift marginally out of bounds; project
	// every returned point back in before anything leaves the engine.
	nextPoint = e.domain.Clamp(nextPoint)
	nextPoints = e.domain.ClampAll(nextPoints)

	timeAcq := time.Since(timeStartAcq)

	acquisitions := make([]float64, len(nextPoints))
	for i, p := range nextPoints {
		acquisitions[i] = negCombined(p)
	}

	report := &RoundReport{
		NextPoints:            nextPoints,
		Acquisitions:          acquisitions,
		YOriginal1:            orig1,
		YOriginal2:            orig2,
		YNormalized1:          y1,
		YNormalized2:          y2,
		Surrogate1:            state1,
		Surrogate2:            state2,
		ScalarizationExponent: exponent,
		ConvergedRestarts:     numConverged,
		TimeSurrogate:         timeSurrogate,
		TimeAcquisition:       timeAcq,
		TimeOverall:           time.Since(timeStart),
	}

	if e.cfg.Debug {
		e.logger.Debug("round complete",
			"next_point", nextPoint,
			"scalarization_exponent", exponent,
			"time_overall", report.TimeOverall,
		)
	}

	return nextPoint, report, nil
}

// Domain returns the engine's search domain.
func (e *Engine) Domain() *Domain {
	return e.domain
}

//////
// Internal helpers.
//////

func applyDefaults(cfg *Config) {
	if cfg.CovarianceKind == "" {
		cfg.CovarianceKind = CovMatern52
	}

	if cfg.AcquisitionKind == "" {
		cfg.AcquisitionKind = AcqEI
	}

	if cfg.GPOptimizerMethod == "" {
		cfg.GPOptimizerMethod = MethodNelderMead
	}

	if cfg.AcqOptimizerMethod == "" {
		cfg.AcqOptimizerMethod = MethodNelderMead
	}

	if cfg.ModelSelectionMethod == "" {
		cfg.ModelSelectionMethod = ModelSelectionML
	}

	if cfg.AcquisitionMultiplier == 0 {
		cfg.AcquisitionMultiplier = 10.0
	}
}

func (e *Engine) fitOptions() FitOptions {
	return FitOptions{
		PriorMean:            e.cfg.PriorMean,
		CovarianceKind:       e.cfg.CovarianceKind,
		OptimizerMethod:      e.cfg.GPOptimizerMethod,
		ModelSelectionMethod: e.cfg.ModelSelectionMethod,
		UseARD:               e.cfg.UseARD,
	}
}

func (e *Engine) validateRound(trainX [][]float64, trainY [][]float64) error {
	if len(trainX) == 0 {
		return fmt.Errorf("%w: training inputs must not be empty", ErrInvalidArgument)
	}

	if len(trainX) != len(trainY) {
		return fmt.Errorf("%w: %d training inputs but %d response rows", ErrInvalidArgument, len(trainX), len(trainY))
	}

	dim := e.domain.Dim()

	for i, x := range trainX {
		if len(x) != dim {
			return fmt.Errorf("%w: training point %d has %d dims, want %d", ErrInvalidArgument, i, len(x), dim)
		}

		if !e.domain.Contains(x) {
			return fmt.Errorf("%w: training point %d lies outside the domain", ErrInvalidArgument, i)
		}
	}

	for i, y := range trainY {
		if len(y) != 2 {
			return fmt.Errorf("%w: response row %d has %d columns, want exactly 2", ErrInvalidArgument, i, len(y))
		}
	}

	return nil
}

func errInvalidSampleCount(n int) error {
	return fmt.Errorf("%w: number of samples must be positive, got %d", ErrInvalidArgument, n)
}
