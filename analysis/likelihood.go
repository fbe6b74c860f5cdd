package analysis

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/cosmostat/lensfit/errs"
	"github.com/cosmostat/lensfit/interp"
)

// LikelihoodFunc converts a chi-squared value into a likelihood value.
type LikelihoodFunc func(chi2 float64) float64

// GaussianLikelihood returns the default likelihood function,
// norm * exp(-0.5 * chi2).
func GaussianLikelihood(norm float64) LikelihoodFunc {
	return func(chi2 float64) float64 {
		return norm * math.Exp(-0.5*chi2)
	}
}

// LikelihoodAnalysis estimates the parameter likelihood by interpolating the
// feature between simulated models.
//
// Train builds one scalar RBF interpolator per flattened feature bin over
// the simulated parameter space; Predict evaluates the bank at arbitrary
// points; Chi2 turns predictions into chi-squared values against an observed
// feature, optionally split into parallel chunks.
type LikelihoodAnalysis struct {
	Analysis

	likelihood LikelihoodFunc

	bank       []interp.Builder // one deferred builder per feature bin
	rbfs       []*interp.RBF    // materialized bank, built on first use
	trainedDim int              // parameter dimensionality of the trained bank
	trained    bool
	trainedAt  uint64 // Analysis version the bank was trained at
}

// NewLikelihood creates an empty likelihood analysis with the Gaussian
// likelihood function (norm 1).
func NewLikelihood() *LikelihoodAnalysis {
	return &LikelihoodAnalysis{likelihood: GaussianLikelihood(1.0)}
}

// NewLikelihoodSeeded creates a likelihood analysis pre-populated with
// aligned parameter and feature sets.
func NewLikelihoodSeeded(parameterSet, featureSet [][]float64) (*LikelihoodAnalysis, error) {
	la := NewLikelihood()
	if err := la.seed(parameterSet, featureSet); err != nil {
		return nil, err
	}

	return la, nil
}

// SetLikelihood replaces the likelihood function applied by Likelihood.
func (la *LikelihoodAnalysis) SetLikelihood(fn LikelihoodFunc) error {
	if fn == nil {
		return errs.ErrNilLikelihood
	}
	la.likelihood = fn

	return nil
}

// Likelihood applies the configured likelihood function elementwise to
// precomputed chi-squared values.
func (la *LikelihoodAnalysis) Likelihood(chi2 []float64) []float64 {
	out := make([]float64, len(chi2))
	for i, v := range chi2 {
		out[i] = la.likelihood(v)
	}

	return out
}

// Train builds the interpolator bank from the current training set.
//
// By default every parameter column is used; UseParameters restricts the
// bank to a subset (parameters held constant across all models carry no
// information, see VaryingParameters). Interpolator options such as the
// kernel or smoothing factor pass through WithInterpolatorOptions.
//
// The actual interpolator construction is deferred: Train captures the
// training nodes per bin, and the solves happen lazily on first prediction,
// so a trained-but-unused bank is cheap and a bank handed to worker
// goroutines rebuilds independently.
func (la *LikelihoodAnalysis) Train(opts ...TrainOption) error {
	if la.Models() == 0 {
		return fmt.Errorf("%w: cannot train on an empty analysis", errs.ErrNotEnoughModels)
	}

	var cfg trainConfig
	if err := applyTrainOptions(&cfg, opts...); err != nil {
		return err
	}

	cols := cfg.useParameters
	if cols == nil {
		cols = make([]int, la.nparams)
		for j := range cols {
			cols[j] = j
		}
	} else {
		seen := make(map[int]bool, len(cols))
		for _, j := range cols {
			if j < 0 || j >= la.nparams {
				return fmt.Errorf("%w: parameter index %d not in [0, %d)", errs.ErrShapeMismatch, j, la.nparams)
			}
			if seen[j] {
				return fmt.Errorf("%w: parameter index %d selected twice", errs.ErrShapeMismatch, j)
			}
			seen[j] = true
		}
	}

	// Training nodes: the selected parameter columns of every model. The
	// same node matrix backs every bin's interpolator.
	nodes := make([][]float64, la.models)
	for i := 0; i < la.models; i++ {
		row := la.parameterRow(i)
		node := make([]float64, len(cols))
		for k, j := range cols {
			node[k] = row[j]
		}
		nodes[i] = node
	}

	bank := make([]interp.Builder, la.featSize)
	for b := 0; b < la.featSize; b++ {
		values := make([]float64, la.models)
		for i := 0; i < la.models; i++ {
			values[i] = la.featureRow(i)[b]
		}
		bank[b] = interp.NewBuilder(nodes, values, cfg.interpOpts...)
	}

	la.bank = bank
	la.rbfs = nil
	la.trainedDim = len(cols)
	la.trained = true
	la.trainedAt = la.version

	return nil
}

// ensureTrained trains with default options when the bank is missing or
// stale (the training set changed since the last Train).
func (la *LikelihoodAnalysis) ensureTrained() error {
	if la.trained && la.trainedAt == la.version {
		return nil
	}

	return la.Train()
}

// materialize builds the deferred interpolators once and caches them.
func (la *LikelihoodAnalysis) materialize() error {
	if la.rbfs != nil {
		return nil
	}

	rbfs := make([]*interp.RBF, len(la.bank))
	for b, builder := range la.bank {
		rbf, err := builder.Materialize()
		if err != nil {
			return fmt.Errorf("feature bin %d: %w", b, err)
		}
		rbfs[b] = rbf
	}
	la.rbfs = rbfs

	return nil
}

// Predict evaluates the interpolator bank at a batch of points in the
// trained parameter (sub)space and returns one flattened feature per point.
// An untrained analysis trains itself with default options first.
func (la *LikelihoodAnalysis) Predict(parameters [][]float64) ([][]float64, error) {
	if err := la.ensureTrained(); err != nil {
		return nil, err
	}
	if err := la.materialize(); err != nil {
		return nil, err
	}

	for i, p := range parameters {
		if len(p) != la.trainedDim {
			return nil, fmt.Errorf("%w: point %d has %d coordinates, bank is trained on %d parameters",
				errs.ErrShapeMismatch, i, len(p), la.trainedDim)
		}
	}

	out := make([][]float64, len(parameters))
	for i, p := range parameters {
		feature := make([]float64, la.featSize)
		for b, rbf := range la.rbfs {
			feature[b] = rbf.At(p)
		}
		out[i] = feature
	}

	return out, nil
}

// PredictSingle evaluates the bank at a single point.
func (la *LikelihoodAnalysis) PredictSingle(parameters []float64) ([]float64, error) {
	out, err := la.Predict([][]float64{parameters})
	if err != nil {
		return nil, err
	}

	return out[0], nil
}

// Chi2 computes chi-squared between the observed feature and the
// interpolated prediction at every point of the parameter batch:
//
//	chi2 = (observed - predicted) . C^-1 . (observed - predicted)^T
//
// The covariance must be the full matrix; the diagonal-only form is
// rejected. Its inverse is computed once and shared read-only by all
// chunks. With SplitChunks(k) the batch is partitioned into k equal
// contiguous chunks, which run on the supplied Pool when WithPool is given
// and sequentially otherwise; results always come back in input order.
func (la *LikelihoodAnalysis) Chi2(parameters [][]float64, observedFeature []float64, featuresCovariance *Covariance, opts ...Chi2Option) ([]float64, error) {
	if observedFeature == nil {
		return nil, errs.ErrMissingObserved
	}
	if featuresCovariance == nil {
		return nil, fmt.Errorf("%w: chi2 requires the features covariance", errs.ErrMissingCovariance)
	}
	if len(observedFeature) != la.featSize {
		return nil, fmt.Errorf("%w: observed feature has %d bins, analysis uses %d",
			errs.ErrShapeMismatch, len(observedFeature), la.featSize)
	}
	if featuresCovariance.IsDiagonal() {
		return nil, fmt.Errorf("%w: chi2 requires the full covariance matrix, not a diagonal",
			errs.ErrShapeMismatch)
	}
	if err := featuresCovariance.validate(la.featSize); err != nil {
		return nil, err
	}

	var cfg chi2Config
	if err := applyChi2Options(&cfg, opts...); err != nil {
		return nil, err
	}

	if err := la.ensureTrained(); err != nil {
		return nil, err
	}
	if err := la.materialize(); err != nil {
		return nil, err
	}

	for i, p := range parameters {
		if len(p) != la.trainedDim {
			return nil, fmt.Errorf("%w: point %d has %d coordinates, bank is trained on %d parameters",
				errs.ErrShapeMismatch, i, len(p), la.trainedDim)
		}
	}

	n := len(parameters)
	if n == 0 {
		return nil, nil
	}

	chunks := 1
	if cfg.splitChunks > 0 {
		if n%cfg.splitChunks != 0 {
			return nil, fmt.Errorf("%w: %d chunks do not evenly divide %d points",
				errs.ErrInvalidChunkCount, cfg.splitChunks, n)
		}
		chunks = cfg.splitChunks
	}
	chunkLen := n / chunks

	// The covariance inverse is computed once up front and shared
	// read-only across all chunks.
	inverse, err := featuresCovariance.inverse()
	if err != nil {
		return nil, err
	}

	out := make([]float64, n)
	tasks := make([]func() error, chunks)
	for c := 0; c < chunks; c++ {
		start := c * chunkLen
		chunk := parameters[start : start+chunkLen]
		result := out[start : start+chunkLen]
		tasks[c] = func() error {
			diff := make([]float64, la.featSize)
			for i, p := range chunk {
				for b, rbf := range la.rbfs {
					diff[b] = observedFeature[b] - rbf.At(p)
				}
				result[i] = quadraticForm(inverse, diff)
			}

			return nil
		}
	}

	if cfg.pool != nil {
		err = cfg.pool.Map(tasks)
	} else {
		err = runSequential(tasks)
	}
	if err != nil {
		return nil, err
	}

	return out, nil
}

// Chi2Single computes chi-squared for a single parameter point.
func (la *LikelihoodAnalysis) Chi2Single(parameters, observedFeature []float64, featuresCovariance *Covariance) (float64, error) {
	out, err := la.Chi2([][]float64{parameters}, observedFeature, featuresCovariance)
	if err != nil {
		return 0, err
	}

	return out[0], nil
}

// quadraticForm computes diff . inv . diff^T.
func quadraticForm(inv *mat.Dense, diff []float64) float64 {
	n := len(diff)
	var total float64
	for i := 0; i < n; i++ {
		var dot float64
		for j := 0; j < n; j++ {
			dot += inv.At(i, j) * diff[j]
		}
		total += diff[i] * dot
	}

	return total
}
