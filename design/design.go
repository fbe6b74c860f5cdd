// Package design lays out simulation points in parameter space.
//
// A Design is a latin-hypercube-style sampling plan: each parameter gets a
// range, points are seeded on the hypercube diagonal, and an external
// optimizer spreads them by minimizing a Coulomb-like cost function. The
// optimizer itself is not part of lensfit; the Optimizer interface is the
// only coupling, so any combinatorial or stochastic minimizer can back it.
package design

import (
	"fmt"
	"math"

	"github.com/cosmostat/lensfit/errs"
)

// CostFunc scores a configuration of raw (unit-hypercube) points; lower is
// better spread.
type CostFunc func(points [][]float64) float64

// Optimizer spreads design points by minimizing a cost function.
//
// Optimize receives the current raw points, the cost function, an iteration
// budget and a random seed; it returns the improved points and the trace of
// cost values over the iterations it performed.
type Optimizer interface {
	Optimize(points [][]float64, cost CostFunc, maxIterations int, seed int64) ([][]float64, []float64, error)
}

// Parameter is one dimension of a design: a named range plus a display
// label (which may be TeX).
type Parameter struct {
	Name  string
	Min   float64
	Max   float64
	Label string
}

// Design is a sampling plan over an n-dimensional parameter space. Points
// are kept both raw (on the unit hypercube, where the cost function
// operates) and scaled to the parameter ranges.
type Design struct {
	parameters []Parameter
	index      map[string]int
	npoints    int
	raw        [][]float64
	points     [][]float64
}

// New creates an empty design with no parameters and no points.
func New() *Design {
	return &Design{index: make(map[string]int)}
}

func (d *Design) String() string {
	if len(d.parameters) == 0 {
		return "empty design"
	}

	return fmt.Sprintf("design with %d points distributed in a %d-dimensional parameter space",
		d.npoints, len(d.parameters))
}

// AddParameter adds a dimension to the design.
func (d *Design) AddParameter(name string, minValue, maxValue float64, label string) error {
	if minValue >= maxValue {
		return fmt.Errorf("%w: %q has min=%g max=%g", errs.ErrInvalidRange, name, minValue, maxValue)
	}
	if _, ok := d.index[name]; ok {
		return fmt.Errorf("%w: %q", errs.ErrDuplicateParameter, name)
	}

	d.index[name] = len(d.parameters)
	d.parameters = append(d.parameters, Parameter{Name: name, Min: minValue, Max: maxValue, Label: label})

	return nil
}

// Dimensions returns the number of parameters in the design.
func (d *Design) Dimensions() int {
	return len(d.parameters)
}

// PointCount returns the number of points laid down.
func (d *Design) PointCount() int {
	return d.npoints
}

// Parameters returns a copy of the design parameters, in axis order.
func (d *Design) Parameters() []Parameter {
	return append([]Parameter(nil), d.parameters...)
}

// PutPoints lays down n points on the diagonal of the unit hypercube, the
// canonical starting configuration for the optimizer. The design must have
// at least 2 dimensions and n must be at least 3.
func (d *Design) PutPoints(n int) error {
	if len(d.parameters) < 2 {
		return fmt.Errorf("%w: the design needs at least 2 dimensions, have %d",
			errs.ErrNoPoints, len(d.parameters))
	}
	if n < 3 {
		return fmt.Errorf("%w: need at least 3 points, got %d", errs.ErrNoPoints, n)
	}

	d.npoints = n
	d.raw = make([][]float64, n)
	for i := 0; i < n; i++ {
		row := make([]float64, len(d.parameters))
		v := float64(i) / float64(n-1)
		for j := range row {
			row[j] = v
		}
		d.raw[i] = row
	}
	d.rescale()

	return nil
}

// rescale maps the raw unit-hypercube points onto the parameter ranges.
func (d *Design) rescale() {
	d.points = make([][]float64, d.npoints)
	for i, raw := range d.raw {
		row := make([]float64, len(d.parameters))
		for j, p := range d.parameters {
			row[j] = p.Min + raw[j]*(p.Max-p.Min)
		}
		d.points[i] = row
	}
}

// Points returns a copy of the points scaled to the parameter ranges.
func (d *Design) Points() [][]float64 {
	return copyPoints(d.points)
}

// RawPoints returns a copy of the points on the unit hypercube.
func (d *Design) RawPoints() [][]float64 {
	return copyPoints(d.raw)
}

// Cost evaluates the spread cost of the current raw configuration with
// metric parameters (p, lambda): distances are p-norms, and lambda=1
// makes the cost the Coulomb potential energy of the configuration.
func (d *Design) Cost(p, lambda float64) (float64, error) {
	if d.npoints < 3 {
		return 0, fmt.Errorf("%w: lay down at least 3 points first", errs.ErrNoPoints)
	}

	return math.Pow(rawCost(d.raw, p, lambda), 1/lambda), nil
}

// DiagonalCost evaluates the cost of the n-point diagonal configuration,
// the reference value an optimized design is compared against. Distances
// along the diagonal are scale-free, so only lambda enters.
func (d *Design) DiagonalCost(lambda float64) (float64, error) {
	if d.npoints < 3 {
		return 0, fmt.Errorf("%w: lay down at least 3 points first", errs.ErrNoPoints)
	}

	n := d.npoints
	var sum float64
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			dist := float64(j-i) / float64(n-1)
			sum += math.Pow(1/dist, lambda)
		}
	}
	pairs := float64(n * (n - 1) / 2)

	return math.Pow(sum/pairs, 1/lambda), nil
}

// Sample hands the raw points to the optimizer, adopts the optimized
// configuration and returns the cost trace. The trace is whatever the
// optimizer recorded, typically one cost value per accepted move.
func (d *Design) Sample(opt Optimizer, p, lambda float64, maxIterations int, seed int64) ([]float64, error) {
	if d.npoints < 3 {
		return nil, fmt.Errorf("%w: lay down at least 3 points first", errs.ErrNoPoints)
	}

	cost := func(points [][]float64) float64 {
		return rawCost(points, p, lambda)
	}

	optimized, trace, err := opt.Optimize(copyPoints(d.raw), cost, maxIterations, seed)
	if err != nil {
		return nil, err
	}
	if len(optimized) != d.npoints {
		return nil, fmt.Errorf("%w: optimizer returned %d points, want %d",
			errs.ErrNoPoints, len(optimized), d.npoints)
	}
	for i, row := range optimized {
		if len(row) != len(d.parameters) {
			return nil, fmt.Errorf("%w: optimizer point %d has %d coordinates, want %d",
				errs.ErrNoPoints, i, len(row), len(d.parameters))
		}
	}

	d.raw = copyPoints(optimized)
	d.rescale()

	return trace, nil
}

// rawCost is the pair-averaged inverse-distance cost before the final
// 1/lambda power: mean over pairs of (1/d_ij)^lambda with p-norm distances.
func rawCost(points [][]float64, p, lambda float64) float64 {
	n := len(points)
	var sum float64
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			sum += math.Pow(1/pNormDistance(points[i], points[j], p), lambda)
		}
	}

	return sum / float64(n*(n-1)/2)
}

func pNormDistance(a, b []float64, p float64) float64 {
	var sum float64
	for k := range a {
		sum += math.Pow(math.Abs(a[k]-b[k]), p)
	}

	return math.Pow(sum, 1/p)
}

func copyPoints(points [][]float64) [][]float64 {
	out := make([][]float64, len(points))
	for i, row := range points {
		out[i] = append([]float64(nil), row...)
	}

	return out
}
