package mobo

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/cwbudde/mayfly"
)

//////
// Built-in LocalMinimizer implementations.
//////

// Standard Nelder-Mead coefficients.
const (
	nmReflect  = 1.0
	nmExpand   = 2.0
	nmContract = 0.5
	nmShrink   = 0.5
)

// NelderMead is a deterministic bounded simplex search. Every vertex is
// clamped into the box bounds, the initial simplex is built from fixed
// fractional steps of each dimension's range, and the search stops when the
// simplex diameter falls below Tolerance or MaxIterations is reached.
type NelderMead struct {
	// MaxIterations caps the number of simplex updates.
	MaxIterations int

	// Tolerance is the simplex-diameter convergence threshold.
	Tolerance float64
}

// NewNelderMead returns a simplex search with defaults suitable for
// acquisition surfaces and hyperparameter likelihoods.
func NewNelderMead() *NelderMead {
	return &NelderMead{
		MaxIterations: 250,
		Tolerance:     1e-8,
	}
}

// Minimize runs the simplex search from x0 inside bounds.
func (nm *NelderMead) Minimize(fn func([]float64) float64, x0 []float64, bounds [][2]float64) ([]float64, error) {
	dim := len(x0)
	if dim == 0 || dim != len(bounds) {
		return nil, fmt.Errorf("%w: starting point has %d dims, bounds have %d", ErrInvalidArgument, dim, len(bounds))
	}

	clamp := func(x []float64) []float64 {
		out := make([]float64, dim)
		for i, v := range x {
			out[i] = math.Min(math.Max(v, bounds[i][0]), bounds[i][1])
		}

		return out
	}

	// Initial simplex: x0 plus one vertex stepped 5% of range along each axis.
	simplex := make([][]float64, dim+1)
	values := make([]float64, dim+1)

	simplex[0] = clamp(x0)

	for i := 0; i < dim; i++ {
		v := copyVector(simplex[0])

		step := (bounds[i][1] - bounds[i][0]) * 0.05
		if step == 0 {
			step = 0.05
		}

		// Step inward when the vertex would leave the box.
		if v[i]+step > bounds[i][1] {
			v[i] -= step
		} else {
			v[i] += step
		}

		simplex[i+1] = clamp(v)
	}

	for i, v := range simplex {
		values[i] = fn(v)
	}

	order := make([]int, dim+1)

	for iter := 0; iter < nm.MaxIterations; iter++ {
		for i := range order {
			order[i] = i
		}

		// Stable sort keeps tie handling independent of iteration history.
		sort.SliceStable(order, func(a, b int) bool {
			return values[order[a]] < values[order[b]]
		})

		best, secondWorst, worst := order[0], order[dim-1], order[dim]

		if simplexDiameter(simplex) < nm.Tolerance {
			break
		}

		// Centroid of all vertices except the worst.
		centroid := make([]float64, dim)

		for i, v := range simplex {
			if i == worst {
				continue
			}

			for j := range centroid {
				centroid[j] += v[j]
			}
		}

		for j := range centroid {
			centroid[j] /= float64(dim)
		}

		reflected := clamp(combine(centroid, simplex[worst], 1+nmReflect, -nmReflect))
		reflectedVal := fn(reflected)

		switch {
		case reflectedVal < values[best]:
			expanded := clamp(combine(centroid, reflected, 1-nmExpand, nmExpand))

			if expandedVal := fn(expanded); expandedVal < reflectedVal {
				simplex[worst], values[worst] = expanded, expandedVal
			} else {
				simplex[worst], values[worst] = reflected, reflectedVal
			}
		case reflectedVal < values[secondWorst]:
			simplex[worst], values[worst] = reflected, reflectedVal
		default:
			contracted := clamp(combine(centroid, simplex[worst], 1-nmContract, nmContract))

			if contractedVal := fn(contracted); contractedVal < values[worst] {
				simplex[worst], values[worst] = contracted, contractedVal
			} else {
				// Shrink everything toward the best vertex.
				for i, v := range simplex {
					if i == best {
						continue
					}

					simplex[i] = clamp(combine(simplex[best], v, 1-nmShrink, nmShrink))
					values[i] = fn(simplex[i])
				}
			}
		}
	}

	best := 0
	for i, v := range values {
		if v < values[best] {
			best = i
		}
	}

	return simplex[best], nil
}

// combine returns a·x + b·y.
func combine(x, y []float64, a, b float64) []float64 {
	out := make([]float64, len(x))
	for i := range x {
		out[i] = a*x[i] + b*y[i]
	}

	return out
}

// simplexDiameter returns the largest vertex-to-vertex distance.
func simplexDiameter(simplex [][]float64) float64 {
	var maxDist float64

	for i := 0; i < len(simplex); i++ {
		for k := i + 1; k < len(simplex); k++ {
			var dist float64

			for j := range simplex[i] {
				d := simplex[i][j] - simplex[k][j]
				dist += d * d
			}

			if dist > maxDist {
				maxDist = dist
			}
		}
	}

	return math.Sqrt(maxDist)
}

// Mayfly adapts the external mayfly swarm optimizer to the LocalMinimizer
// contract. As a population method it samples its own starting swarm, so the
// per-restart starting point only seeds the random stream; the external
// library also takes scalar bounds, so the first dimension's interval is used
// for all dimensions.
type Mayfly struct {
	// MaxIterations and PopulationSize configure the swarm.
	MaxIterations  int
	PopulationSize int

	// Seed is the base random seed; each call perturbs it with the starting
	// point so distinct restarts explore distinct swarms.
	Seed int64
}

// NewMayfly creates a mayfly-backed minimizer.
func NewMayfly(maxIterations, populationSize int, seed int64) *Mayfly {
	return &Mayfly{
		MaxIterations:  maxIterations,
		PopulationSize: populationSize,
		Seed:           seed,
	}
}

// Minimize runs the swarm inside bounds.
func (m *Mayfly) Minimize(fn func([]float64) float64, x0 []float64, bounds [][2]float64) ([]float64, error) {
	if len(x0) == 0 || len(x0) != len(bounds) {
		return nil, fmt.Errorf("%w: starting point has %d dims, bounds have %d", ErrInvalidArgument, len(x0), len(bounds))
	}

	config := mayfly.NewDefaultConfig()

	config.ObjectiveFunc = fn
	config.ProblemSize = len(bounds)
	config.MaxIterations = m.MaxIterations
	config.NPop = m.PopulationSize
	config.LowerBound = bounds[0][0]
	config.UpperBound = bounds[0][1]
	config.Rand = rand.New(rand.NewSource(m.Seed ^ seedFromPoint(x0)))

	result, err := mayfly.Optimize(config)
	if err != nil {
		return nil, fmt.Errorf("mayfly optimization failed: %w", err)
	}

	return result.GlobalBest.Position, nil
}

// seedFromPoint folds a starting point into a reproducible seed perturbation.
func seedFromPoint(x []float64) int64 {
	var h uint64 = 1469598103934665603 // FNV offset basis

	for _, v := range x {
		h ^= math.Float64bits(v)
		h *= 1099511628211
	}

	return int64(h)
}
