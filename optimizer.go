package mobo

import (
	"sync"
)

//////
// Scalarization & restart search.
//////

// optimizeAcquisition runs the multi-start local search over the combined
// negative acquisition: draw numSamples initial points with the given
// strategy and seed, refine each independently with the local minimizer, and
// pick the candidate whose re-evaluated combined objective is lowest.
//
// Re-evaluation guards against solver drift in the per-restart reported
// values; strict less-than keeps ties with the first restart found, so the
// selection is stable with respect to restart order. A restart whose local
// search fails keeps its unrefined initial point: local-search failure
// degrades result quality silently, exploration continues next round.
func (e *Engine) optimizeAcquisition(negCombined func([]float64) float64, strategy string, numSamples int, seed int64) ([]float64, [][]float64, int, error) {
	if numSamples <= 0 {
		return nil, nil, 0, errInvalidSampleCount(numSamples)
	}

	initials, err := e.domain.Sample(strategy, numSamples, seed)
	if err != nil {
		return nil, nil, 0, err
	}

	bounds := e.domain.Bounds()
	candidates := make([][]float64, len(initials))
	converged := make([]bool, len(initials))

	refine := func(i int) {
		candidate, err := e.minimizer.Minimize(negCombined, initials[i], bounds)
		if err != nil {
			if e.cfg.Debug {
				e.logger.Debug("restart did not converge, keeping initial point", "restart", i, "err", err)
			}

			candidate = initials[i]
		} else {
			converged[i] = true
		}

		candidates[i] = candidate
	}

	if workers := e.cfg.RestartWorkers; workers > 1 {
		// Restarts only read captured state, so they can run concurrently.
		// Results land in their own slot and selection happens after the
		// join, never by a race.
		var wg sync.WaitGroup

		sem := make(chan struct{}, workers)

		for i := range initials {
			wg.Add(1)

			go func(i int) {
				defer wg.Done()

				sem <- struct{}{}
				defer func() { <-sem }()

				refine(i)
			}(i)
		}

		wg.Wait()
	} else {
		for i := range initials {
			refine(i)
		}
	}

	best := candidates[0]
	bestVal := negCombined(best)

	for _, candidate := range candidates[1:] {
		if v := negCombined(candidate); v < bestVal {
			best, bestVal = candidate, v
		}
	}

	numConverged := 0
	for _, ok := range converged {
		if ok {
			numConverged++
		}
	}

	return best, candidates, numConverged, nil
}
