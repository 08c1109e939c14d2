package mobo

import (
	"fmt"
	"math"
)

//////
// Const, vars, types.
//////

// Hyperparameter search happens in log-space inside these bounds, so every
// candidate stays positive and the marginal-likelihood surface stays sane.
const (
	gpLogBoundLo = -5.0
	gpLogBoundHi = 5.0
)

// Escalating diagonal jitter for a covariance matrix that fails to factor.
// Near-singular kernels are an expected degradation in stochastic
// optimization, not an error, until the jitter budget is exhausted.
const (
	gpInitialJitter = 1e-10
	gpMaxJitter     = 1e-2
)

// GaussianProcess is the default surrogate collaborator. It implements both
// SurrogateFitter and SurrogatePredictor: Fit selects kernel hyperparameters
// by minimizing the negative log marginal likelihood and materializes the
// covariance matrix and its inverse; Predict evaluates the exact posterior
// mean and standard deviation from those artifacts.
//
// A GaussianProcess carries no state of its own; all per-round state lives in
// the SurrogateState it produces, so one instance is safe to share across
// objectives and rounds.
type GaussianProcess struct {
	// minimizer refines the hyperparameters. Always the deterministic
	// simplex search; the population method is for the acquisition surface.
	minimizer LocalMinimizer
}

//////
// Factory.
//////

// NewGaussianProcess returns the default surrogate.
func NewGaussianProcess() *GaussianProcess {
	return &GaussianProcess{minimizer: NewNelderMead()}
}

//////
// Methods.
//////

// Fit selects hyperparameters for (trainX, trainY) and returns the covariance
// matrix over trainX, its inverse, and the fitted hyperparameter record.
func (gp *GaussianProcess) Fit(trainX [][]float64, trainY []float64, opts FitOptions) (*SurrogateState, error) {
	if err := validateTraining(trainX, trainY); err != nil {
		return nil, err
	}

	if opts.CovarianceKind != CovMatern52 && opts.CovarianceKind != CovSE {
		return nil, fmt.Errorf("%w: unknown covariance kind %q", ErrInvalidConfig, opts.CovarianceKind)
	}

	if opts.ModelSelectionMethod != ModelSelectionML {
		return nil, fmt.Errorf("%w: unknown model-selection method %q", ErrInvalidConfig, opts.ModelSelectionMethod)
	}

	if opts.OptimizerMethod != MethodNelderMead {
		return nil, fmt.Errorf("%w: unknown surrogate optimizer method %q", ErrInvalidConfig, opts.OptimizerMethod)
	}

	n := len(trainX)
	dim := len(trainX[0])

	numLS := 1
	if opts.UseARD {
		numLS = dim
	}

	prior := priorVector(trainX, trainY, opts.PriorMean)

	resid := make([]float64, n)
	for i := range resid {
		resid[i] = trainY[i] - prior[i]
	}

	// Negative log marginal likelihood over log-hyperparameters
	// [signal, noise, lengthscales...].
	nlml := func(theta []float64) float64 {
		hyps := hypsFromLog(theta, numLS, meanOf(trainY))

		k := kernelMatrix(opts.CovarianceKind, trainX, hyps)

		l, ok := choleskyDecompose(k)
		if !ok {
			return math.Inf(1)
		}

		quad := dot(resid, choleskySolve(l, resid))

		return 0.5 * (quad + choleskyLogDet(l) + float64(n)*math.Log(2*math.Pi))
	}

	theta0 := make([]float64, 2+numLS)
	theta0[1] = math.Log(1e-2) // modest starting noise

	thetaBounds := make([][2]float64, len(theta0))
	for i := range thetaBounds {
		thetaBounds[i] = [2]float64{gpLogBoundLo, gpLogBoundHi}
	}

	theta, err := gp.minimizer.Minimize(nlml, theta0, thetaBounds)
	if err != nil || math.IsInf(nlml(theta), 1) {
		// Unconverged model selection degrades to the starting
		// hyperparameters; prediction quality suffers, the round continues.
		theta = theta0
	}

	hyps := hypsFromLog(theta, numLS, meanOf(trainY))

	cov, l, err := factorWithJitter(opts.CovarianceKind, trainX, &hyps)
	if err != nil {
		return nil, err
	}

	return &SurrogateState{
		Cov:    cov,
		InvCov: choleskyInverse(l),
		Hyps:   hyps,
	}, nil
}

// Predict evaluates the posterior mean and standard deviation at each row of
// testX from a fitted state.
func (gp *GaussianProcess) Predict(trainX [][]float64, trainY []float64, testX [][]float64, state *SurrogateState, opts FitOptions) ([]float64, []float64, error) {
	if err := validateTraining(trainX, trainY); err != nil {
		return nil, nil, err
	}

	if state == nil || len(state.InvCov) != len(trainX) {
		return nil, nil, fmt.Errorf("%w: surrogate state does not match training data", ErrInvalidArgument)
	}

	dim := len(trainX[0])

	for i, x := range testX {
		if len(x) != dim {
			return nil, nil, fmt.Errorf("%w: test point %d has %d dims, want %d", ErrInvalidArgument, i, len(x), dim)
		}
	}

	hyps := state.Hyps

	prior := priorVector(trainX, trainY, opts.PriorMean)

	resid := make([]float64, len(trainY))
	for i := range resid {
		resid[i] = trainY[i] - prior[i]
	}

	alpha := matVec(state.InvCov, resid)

	mean := make([]float64, len(testX))
	std := make([]float64, len(testX))

	k := make([]float64, len(trainX))

	for i, x := range testX {
		for j, xt := range trainX {
			k[j] = kernelValue(opts.CovarianceKind, x, xt, hyps)
		}

		m := hyps.Mean
		if opts.PriorMean != nil {
			m = opts.PriorMean(x)
		}

		mean[i] = m + dot(k, alpha)

		variance := hyps.SignalVariance + hyps.Noise - dot(k, matVec(state.InvCov, k))
		if variance < 1e-12 {
			variance = 1e-12
		}

		std[i] = math.Sqrt(variance)
	}

	return mean, std, nil
}

//////
// Kernel and helper functions.
//////

func validateTraining(trainX [][]float64, trainY []float64) error {
	if len(trainX) == 0 {
		return fmt.Errorf("%w: training inputs must not be empty", ErrInvalidArgument)
	}

	if len(trainX) != len(trainY) {
		return fmt.Errorf("%w: %d training inputs but %d responses", ErrInvalidArgument, len(trainX), len(trainY))
	}

	dim := len(trainX[0])
	if dim == 0 {
		return fmt.Errorf("%w: training inputs must have at least one dimension", ErrInvalidArgument)
	}

	for i, x := range trainX {
		if len(x) != dim {
			return fmt.Errorf("%w: training point %d has %d dims, want %d", ErrInvalidArgument, i, len(x), dim)
		}
	}

	return nil
}

// priorVector evaluates the prior mean at every training input: the supplied
// function when present, otherwise the constant response mean.
func priorVector(trainX [][]float64, trainY []float64, fn PriorMeanFunc) []float64 {
	out := make([]float64, len(trainX))

	if fn == nil {
		m := meanOf(trainY)
		for i := range out {
			out[i] = m
		}

		return out
	}

	for i, x := range trainX {
		out[i] = fn(x)
	}

	return out
}

func hypsFromLog(theta []float64, numLS int, dataMean float64) Hyperparameters {
	ls := make([]float64, numLS)
	for i := range ls {
		ls[i] = math.Exp(theta[2+i])
	}

	return Hyperparameters{
		SignalVariance: math.Exp(theta[0]),
		Noise:          math.Exp(theta[1]),
		Lengthscales:   ls,
		Mean:           dataMean,
	}
}

// lengthscaleAt returns the lengthscale for dimension j, sharing the single
// entry when relevance determination is off.
func lengthscaleAt(hyps Hyperparameters, j int) float64 {
	if j < len(hyps.Lengthscales) {
		return hyps.Lengthscales[j]
	}

	return hyps.Lengthscales[0]
}

// kernelValue evaluates the configured kernel between two points.
func kernelValue(kind string, x1, x2 []float64, hyps Hyperparameters) float64 {
	var r2 float64

	for j := range x1 {
		d := (x1[j] - x2[j]) / lengthscaleAt(hyps, j)
		r2 += d * d
	}

	switch kind {
	case CovSE:
		return hyps.SignalVariance * math.Exp(-0.5*r2)
	default: // CovMatern52
		r := math.Sqrt(r2)

		return hyps.SignalVariance * (1 + math.Sqrt(5)*r + 5*r2/3) * math.Exp(-math.Sqrt(5)*r)
	}
}

// kernelMatrix builds the noisy covariance matrix K + noise·I over trainX.
func kernelMatrix(kind string, trainX [][]float64, hyps Hyperparameters) [][]float64 {
	n := len(trainX)

	k := make([][]float64, n)
	for i := range k {
		k[i] = make([]float64, n)
	}

	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			v := kernelValue(kind, trainX[i], trainX[j], hyps)

			k[i][j] = v
			k[j][i] = v
		}

		k[i][i] += hyps.Noise
	}

	return k
}

// factorWithJitter builds and factors the covariance matrix, escalating the
// diagonal jitter (folded into the noise level) until the factorization
// succeeds or the budget runs out.
func factorWithJitter(kind string, trainX [][]float64, hyps *Hyperparameters) ([][]float64, [][]float64, error) {
	cov := kernelMatrix(kind, trainX, *hyps)

	l, ok := choleskyDecompose(cov)
	if ok {
		return cov, l, nil
	}

	for jitter := gpInitialJitter; jitter <= gpMaxJitter; jitter *= 10 {
		hyps.Noise += jitter

		cov = kernelMatrix(kind, trainX, *hyps)

		if l, ok = choleskyDecompose(cov); ok {
			return cov, l, nil
		}
	}

	return nil, nil, fmt.Errorf("%w: covariance matrix is not positive definite", ErrInvalidArgument)
}
