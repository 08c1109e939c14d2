// Package mobo provides multi-objective Bayesian optimization for expensive,
// noisy black-box functions over bounded continuous domains. Given
// observations of two competing objectives, each round fits an independent
// Gaussian Process surrogate per objective, combines the two acquisition
// surfaces through a randomized scalarization, and proposes the single next
// point to evaluate via multi-start local search.
//
// # Features
//
// The package includes the following key features:
//
//   - Independent surrogates: one Gaussian Process per objective, refitted
//     from scratch every round
//   - Multiple acquisition rules: Expected Improvement (EI), Probability of
//     Improvement (PI), and an upper-confidence-bound rule (UCB), fixed at
//     construction time
//   - Randomized scalarization: a fresh log-uniform weight per round, so
//     successive rounds trace different points of the Pareto trade-off
//     instead of converging to one fixed weighting
//   - Multi-start local search: restarts are independent and may run
//     concurrently; selection is a deterministic re-evaluation, never a race
//   - Pluggable collaborators: surrogate fitting, posterior prediction, and
//     the local minimizer are narrow interfaces with built-in defaults
//   - Reproducibility: the scalarization draw is seeded from the round seed
//     plus a fixed offset, decoupled from restart sampling
//
// # Usage
//
// One round proposes one point:
//
//	engine, err := mobo.New(mobo.DefaultConfig([][2]float64{{0, 10}}))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	next, report, err := engine.Optimize(trainX, trainY, mobo.SamplingUniform, 100, 42)
//
// trainY must have exactly two columns, one per objective; both are treated
// under the minimization convention. The report carries every restart
// candidate, both surrogate states, the normalized and raw responses, the
// scalarization exponent, and a timing breakdown.
//
// # Error handling
//
// Configuration problems surface at construction as ErrInvalidConfig;
// call-time contract violations surface as ErrInvalidArgument before any
// surrogate is fitted. Numerical degradation (near-singular covariances,
// unconverged restarts, constant response columns) is handled by defined
// fallbacks, not errors.
package mobo
