package mobo

import (
	"fmt"
	"math"
)

//////
// Acquisition evaluation.
//////

// ComputePosteriors validates the posterior-prediction contract and delegates
// to the prediction collaborator, returning the posterior mean and standard
// deviation at each row of testX.
//
// Contract (violations fail the call, nothing is computed):
//   - trainX and trainY have matching, non-zero row counts
//   - every training and test point has the domain's dimensionality
//   - state carries square N×N covariance artifacts matching trainX
func (e *Engine) ComputePosteriors(trainX [][]float64, trainY []float64, testX [][]float64, state *SurrogateState) ([]float64, []float64, error) {
	if err := e.validateSurrogateInputs(trainX, trainY, testX, state); err != nil {
		return nil, nil, err
	}

	return e.predictor.Predict(trainX, trainY, testX, state, e.fitOptions())
}

// ComputeAcquisitions scores each row of X for one objective: posterior mean
// and deviation from the surrogate, then the engine's fixed acquisition rule,
// then the fixed positive multiplier. Higher scores are more promising.
//
// The multiplier is a numerical-display convention, not an algorithmic knob:
// it is held fixed across objectives so candidate comparisons within one
// objective are preserved.
func (e *Engine) ComputeAcquisitions(X [][]float64, trainX [][]float64, trainY []float64, state *SurrogateState) ([]float64, error) {
	mean, std, err := e.ComputePosteriors(trainX, trainY, X, state)
	if err != nil {
		return nil, err
	}

	scores := e.acquire(mean, std, trainY)
	for i := range scores {
		scores[i] *= e.cfg.AcquisitionMultiplier
	}

	return scores, nil
}

// ComputeAcquisitionAt treats a single length-D point as a 1×D batch.
func (e *Engine) ComputeAcquisitionAt(x []float64, trainX [][]float64, trainY []float64, state *SurrogateState) (float64, error) {
	scores, err := e.ComputeAcquisitions([][]float64{x}, trainX, trainY, state)
	if err != nil {
		return 0, err
	}

	return scores[0], nil
}

func (e *Engine) validateSurrogateInputs(trainX [][]float64, trainY []float64, testX [][]float64, state *SurrogateState) error {
	if len(trainX) == 0 {
		return fmt.Errorf("%w: training inputs must not be empty", ErrInvalidArgument)
	}

	if len(trainX) != len(trainY) {
		return fmt.Errorf("%w: %d training inputs but %d responses", ErrInvalidArgument, len(trainX), len(trainY))
	}

	dim := e.domain.Dim()

	for i, x := range trainX {
		if len(x) != dim {
			return fmt.Errorf("%w: training point %d has %d dims, want %d", ErrInvalidArgument, i, len(x), dim)
		}
	}

	for i, x := range testX {
		if len(x) != dim {
			return fmt.Errorf("%w: test point %d has %d dims, want %d", ErrInvalidArgument, i, len(x), dim)
		}
	}

	if state == nil {
		return fmt.Errorf("%w: surrogate state is nil", ErrInvalidArgument)
	}

	n := len(trainX)

	if len(state.Cov) != n || len(state.InvCov) != n {
		return fmt.Errorf("%w: covariance artifacts are %dx? and %dx?, want %dx%d",
			ErrInvalidArgument, len(state.Cov), len(state.InvCov), n, n)
	}

	for i := 0; i < n; i++ {
		if len(state.Cov[i]) != n || len(state.InvCov[i]) != n {
			return fmt.Errorf("%w: covariance artifacts must be square with size %d", ErrInvalidArgument, n)
		}
	}

	return nil
}

//////
// Per-round acquisition context.
//////

// acquisitionContext is the per-objective, per-round value object capturing
// training data and the fitted surrogate state. Restarts evaluate it
// concurrently; everything it holds is read-only after construction, so there
// is no hidden shared mutable state to guard.
type acquisitionContext struct {
	engine *Engine

	trainX [][]float64
	trainY []float64
	state  *SurrogateState
}

func (e *Engine) newAcquisitionContext(trainX [][]float64, trainY []float64, state *SurrogateState) *acquisitionContext {
	return &acquisitionContext{
		engine: e,
		trainX: trainX,
		trainY: trainY,
		state:  state,
	}
}

// negativeAt evaluates the negative acquisition at a single point, the form
// the minimizing restart search consumes. Inputs were validated when the
// round started; a prediction failure here is numerical degradation, scored
// as +Inf so the candidate loses rather than aborting the round.
func (c *acquisitionContext) negativeAt(x []float64) float64 {
	mean, std, err := c.engine.predictor.Predict(c.trainX, c.trainY, [][]float64{x}, c.state, c.engine.fitOptions())
	if err != nil {
		return math.Inf(1)
	}

	scores := c.engine.acquire(mean, std, c.trainY)

	return -scores[0] * c.engine.cfg.AcquisitionMultiplier
}
