package interp

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/cosmostat/lensfit/errs"
	"github.com/cosmostat/lensfit/internal/options"
)

// RBF is a multivariate scalar interpolator built from scattered nodes.
//
// With smoothing off the interpolant passes through every training value
// exactly; between nodes it is a weighted sum of radial basis functions
// centered on the nodes.
//
// An RBF is immutable after construction and safe for concurrent use.
type RBF struct {
	nodes   [][]float64 // n rows of d coordinates, copied at build time
	weights []float64
	kernel  Kernel
	epsilon float64
}

// New builds an RBF interpolator from n nodes and their values.
//
// Every node must have the same dimensionality and len(values) must equal
// len(nodes). The weights come from solving the n-by-n kernel collocation
// system; a singular system (typically caused by duplicate nodes) is
// reported as errs.ErrInterpolatorBuild.
func New(nodes [][]float64, values []float64, opts ...Option) (*RBF, error) {
	cfg := defaultConfig()
	if err := options.Apply(&cfg, opts...); err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrInterpolatorBuild, err)
	}

	n := len(nodes)
	if n == 0 {
		return nil, fmt.Errorf("%w: no training nodes", errs.ErrInterpolatorBuild)
	}
	if len(values) != n {
		return nil, fmt.Errorf("%w: %d nodes but %d values", errs.ErrShapeMismatch, n, len(values))
	}

	dim := len(nodes[0])
	if dim == 0 {
		return nil, fmt.Errorf("%w: zero-dimensional nodes", errs.ErrInterpolatorBuild)
	}

	owned := make([][]float64, n)
	for i, node := range nodes {
		if len(node) != dim {
			return nil, fmt.Errorf("%w: node %d has %d coordinates, want %d", errs.ErrShapeMismatch, i, len(node), dim)
		}
		owned[i] = append([]float64(nil), node...)
	}

	eps := cfg.epsilon
	if eps <= 0 && !cfg.kernel.scaleFree() {
		eps = meanNodeDistance(owned)
		if eps <= 0 {
			return nil, fmt.Errorf("%w: degenerate node set, all nodes coincide", errs.ErrInterpolatorBuild)
		}
	}

	// Collocation matrix A[i][j] = phi(|x_i - x_j|); the smoothing factor
	// is subtracted from the diagonal, matching the usual RBF convention.
	a := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			v := cfg.kernel.eval(distance(owned[i], owned[j]), eps)
			a.Set(i, j, v)
			a.Set(j, i, v)
		}
		a.Set(i, i, a.At(i, i)-cfg.smooth)
	}

	var w mat.VecDense
	if err := w.SolveVec(a, mat.NewVecDense(n, append([]float64(nil), values...))); err != nil {
		return nil, fmt.Errorf("%w: collocation system: %w", errs.ErrInterpolatorBuild, err)
	}

	weights := make([]float64, n)
	copy(weights, w.RawVector().Data)

	return &RBF{
		nodes:   owned,
		weights: weights,
		kernel:  cfg.kernel,
		epsilon: eps,
	}, nil
}

// At evaluates the interpolant at x. len(x) must equal Dim(); the caller is
// expected to validate once before evaluating in a loop.
func (r *RBF) At(x []float64) float64 {
	var sum float64
	for i, node := range r.nodes {
		sum += r.weights[i] * r.kernel.eval(distance(x, node), r.epsilon)
	}

	return sum
}

// Dim returns the dimensionality of the interpolated parameter space.
func (r *RBF) Dim() int {
	return len(r.nodes[0])
}

// Nodes returns the number of training nodes.
func (r *RBF) Nodes() int {
	return len(r.nodes)
}

// Kernel returns the kernel the interpolator was built with.
func (r *RBF) Kernel() Kernel {
	return r.kernel
}

// Epsilon returns the effective shape parameter (zero for scale-free kernels
// built without an explicit epsilon).
func (r *RBF) Epsilon() float64 {
	return r.epsilon
}

func distance(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}

	return math.Sqrt(sum)
}

// meanNodeDistance returns the mean pairwise distance between nodes, the
// default shape parameter for scaled kernels.
func meanNodeDistance(nodes [][]float64) float64 {
	n := len(nodes)
	if n < 2 {
		return 1
	}

	var sum float64
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			sum += distance(nodes[i], nodes[j])
		}
	}

	return sum / float64(n*(n-1)/2)
}
