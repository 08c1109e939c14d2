package mobo

import (
	"fmt"
	"math"
	"math/rand"
)

//////
// Const, vars, types.
//////

// Domain is an ordered list of closed intervals, one per input dimension. It
// is fixed for the lifetime of an engine instance; every training and proposed
// point must lie within it, and the engine enforces this rather than assuming
// it.
type Domain struct {
	bounds [][2]float64
}

//////
// Factory.
//////

// NewDomain validates the given box bounds and returns a Domain. Bounds must
// be non-empty, finite, and satisfy lo <= hi in every dimension.
func NewDomain(bounds [][2]float64) (*Domain, error) {
	if len(bounds) == 0 {
		return nil, fmt.Errorf("%w: bounds must not be empty", ErrInvalidConfig)
	}

	owned := make([][2]float64, len(bounds))

	for i, b := range bounds {
		lo, hi := b[0], b[1]

		if math.IsNaN(lo) || math.IsNaN(hi) || math.IsInf(lo, 0) || math.IsInf(hi, 0) {
			return nil, fmt.Errorf("%w: bounds[%d] must be finite, got [%v, %v]", ErrInvalidConfig, i, lo, hi)
		}

		if lo > hi {
			return nil, fmt.Errorf("%w: bounds[%d] has lo > hi (%v > %v)", ErrInvalidConfig, i, lo, hi)
		}

		owned[i] = [2]float64{lo, hi}
	}

	return &Domain{bounds: owned}, nil
}

//////
// Methods.
//////

// Dim returns the number of dimensions.
func (d *Domain) Dim() int {
	return len(d.bounds)
}

// Bounds returns a copy of the box bounds.
func (d *Domain) Bounds() [][2]float64 {
	out := make([][2]float64, len(d.bounds))
	copy(out, d.bounds)

	return out
}

// Contains reports whether x lies within the domain, bounds inclusive.
func (d *Domain) Contains(x []float64) bool {
	if len(x) != len(d.bounds) {
		return false
	}

	for i, v := range x {
		if v < d.bounds[i][0] || v > d.bounds[i][1] {
			return false
		}
	}

	return true
}

// Clamp returns a copy of x with every out-of-bounds coordinate moved to the
// nearest bound. Local solvers configured with box constraints can still
// return marginally out-of-bounds values through floating-point drift; Clamp
// is the defensive projection applied before any point leaves the engine.
func (d *Domain) Clamp(x []float64) []float64 {
	out := make([]float64, len(x))

	for i, v := range x {
		if i >= len(d.bounds) {
			out[i] = v

			continue
		}

		out[i] = math.Min(math.Max(v, d.bounds[i][0]), d.bounds[i][1])
	}

	return out
}

// ClampAll applies Clamp to every point, returning fresh slices.
func (d *Domain) ClampAll(points [][]float64) [][]float64 {
	out := make([][]float64, len(points))
	for i, p := range points {
		out[i] = d.Clamp(p)
	}

	return out
}

// Sample draws n initial points from the domain using the given strategy,
// seeded deterministically. Supported strategies:
//
//   - "uniform": independent uniform draws per dimension.
//   - "gaussian": normal draws centered mid-domain with a quarter-range
//     deviation, clamped into bounds.
//   - "grid": a row-major lattice truncated to the first n points; the seed
//     is ignored.
//
// n must be positive and the strategy must be one of the above.
func (d *Domain) Sample(strategy string, n int, seed int64) ([][]float64, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: sample count must be positive, got %d", ErrInvalidArgument, n)
	}

	switch strategy {
	case SamplingUniform:
		return d.sampleUniform(n, seed), nil
	case SamplingGaussian:
		return d.sampleGaussian(n, seed), nil
	case SamplingGrid:
		return d.sampleGrid(n), nil
	default:
		return nil, fmt.Errorf("%w: unknown sampling strategy %q", ErrInvalidArgument, strategy)
	}
}

func (d *Domain) sampleUniform(n int, seed int64) [][]float64 {
	rng := rand.New(rand.NewSource(seed))

	points := make([][]float64, n)

	for i := range points {
		p := make([]float64, len(d.bounds))
		for j, b := range d.bounds {
			p[j] = b[0] + rng.Float64()*(b[1]-b[0])
		}

		points[i] = p
	}

	return points
}

func (d *Domain) sampleGaussian(n int, seed int64) [][]float64 {
	rng := rand.New(rand.NewSource(seed))

	points := make([][]float64, n)

	for i := range points {
		p := make([]float64, len(d.bounds))

		for j, b := range d.bounds {
			mid := (b[0] + b[1]) / 2
			dev := (b[1] - b[0]) / 4
			v := mid + rng.NormFloat64()*dev

			p[j] = math.Min(math.Max(v, b[0]), b[1])
		}

		points[i] = p
	}

	return points
}

func (d *Domain) sampleGrid(n int) [][]float64 {
	dim := len(d.bounds)

	// Per-dimension resolution: smallest lattice whose size covers n.
	res := int(math.Ceil(math.Pow(float64(n), 1.0/float64(dim))))
	if res < 2 {
		res = 2
	}

	points := make([][]float64, 0, n)
	idx := make([]int, dim)

	for len(points) < n {
		p := make([]float64, dim)

		for j, b := range d.bounds {
			p[j] = b[0] + (b[1]-b[0])*float64(idx[j])/float64(res-1)
		}

		points = append(points, p)

		// Advance the row-major lattice index.
		carry := dim - 1
		for carry >= 0 {
			idx[carry]++
			if idx[carry] < res {
				break
			}

			idx[carry] = 0
			carry--
		}

		if carry < 0 {
			// Lattice exhausted before n points; repeat from the origin.
			for j := range idx {
				idx[j] = 0
			}
		}
	}

	return points
}
