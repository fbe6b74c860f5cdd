package analysis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cosmostat/lensfit/errs"
	"github.com/cosmostat/lensfit/interp"
)

// likelihoodParams spans a 2-dimensional parameter space; the matching
// feature has 3 bins responding as [p0, p1, p0+p1].
var likelihoodParams = [][]float64{
	{0, 0},
	{1, 0},
	{0, 1},
	{1, 1},
	{0.5, 0.25},
	{0.25, 0.75},
}

func likelihoodFeature(p []float64) []float64 {
	return []float64{p[0], p[1], p[0] + p[1]}
}

func newTestLikelihood(t *testing.T) *LikelihoodAnalysis {
	t.Helper()

	la := NewLikelihood()
	for _, p := range likelihoodParams {
		require.NoError(t, la.AddModel(p, likelihoodFeature(p)))
	}

	return la
}

func TestLikelihood_TrainAndPredict(t *testing.T) {
	la := newTestLikelihood(t)
	require.NoError(t, la.Train())

	// The interpolator bank reproduces the training features at the nodes.
	predicted, err := la.Predict(likelihoodParams)
	require.NoError(t, err)
	require.Len(t, predicted, len(likelihoodParams))
	for i, p := range likelihoodParams {
		want := likelihoodFeature(p)
		for b := range want {
			require.InDelta(t, want[b], predicted[i][b], 1e-6)
		}
	}
}

func TestLikelihood_PredictSingle(t *testing.T) {
	la := newTestLikelihood(t)

	// An untrained analysis trains itself with default options.
	feature, err := la.PredictSingle([]float64{1, 1})
	require.NoError(t, err)
	require.Len(t, feature, 3)
	require.InDelta(t, 1, feature[0], 1e-6)
	require.InDelta(t, 1, feature[1], 1e-6)
	require.InDelta(t, 2, feature[2], 1e-6)
}

func TestLikelihood_TrainEmpty(t *testing.T) {
	la := NewLikelihood()
	require.ErrorIs(t, la.Train(), errs.ErrNotEnoughModels)
}

func TestLikelihood_TrainOptions(t *testing.T) {
	t.Run("UseParametersSubset", func(t *testing.T) {
		la := NewLikelihood()
		// The third parameter is constant and carries no information.
		for _, p := range likelihoodParams {
			params := append(append([]float64(nil), p...), 7.0)
			require.NoError(t, la.AddModel(params, likelihoodFeature(p)))
		}
		require.Equal(t, []int{0, 1}, la.VaryingParameters())

		require.NoError(t, la.Train(UseParameters(la.VaryingParameters()...)))

		// Prediction points live in the trained 2-dimensional subspace.
		feature, err := la.PredictSingle([]float64{1, 0})
		require.NoError(t, err)
		require.InDelta(t, 1, feature[0], 1e-6)

		_, err = la.PredictSingle([]float64{1, 0, 7})
		require.ErrorIs(t, err, errs.ErrShapeMismatch)
	})

	t.Run("UseParametersValidation", func(t *testing.T) {
		la := newTestLikelihood(t)
		require.ErrorIs(t, la.Train(UseParameters()), errs.ErrShapeMismatch)
		require.ErrorIs(t, la.Train(UseParameters(0, 5)), errs.ErrShapeMismatch)
		require.ErrorIs(t, la.Train(UseParameters(0, 0)), errs.ErrShapeMismatch)
	})

	t.Run("InterpolatorOptions", func(t *testing.T) {
		la := newTestLikelihood(t)
		require.NoError(t, la.Train(WithInterpolatorOptions(
			interp.WithKernel(interp.KernelGaussian),
			interp.WithEpsilon(1.5),
		)))

		feature, err := la.PredictSingle([]float64{0, 0})
		require.NoError(t, err)
		require.InDelta(t, 0, feature[0], 1e-6)
	})
}

func TestLikelihood_RetrainsAfterAddModel(t *testing.T) {
	la := newTestLikelihood(t)

	_, err := la.PredictSingle([]float64{0.5, 0.5})
	require.NoError(t, err)

	// A new model makes the trained bank stale; the next prediction retrains
	// and reflects the enlarged training set.
	p := []float64{0.75, 0.5}
	require.NoError(t, la.AddModel(p, likelihoodFeature(p)))

	feature, err := la.PredictSingle(p)
	require.NoError(t, err)
	require.InDelta(t, 0.75, feature[0], 1e-6)
}

func TestLikelihood_Chi2(t *testing.T) {
	la := newTestLikelihood(t)
	cov := identityCovariance(t, 3)
	observed := likelihoodFeature([]float64{1, 0})

	t.Run("ZeroAtGeneratingPoint", func(t *testing.T) {
		chi2, err := la.Chi2([][]float64{{1, 0}}, observed, cov)
		require.NoError(t, err)
		require.Len(t, chi2, 1)
		require.InDelta(t, 0, chi2[0], 1e-10)
	})

	t.Run("PositiveElsewhere", func(t *testing.T) {
		chi2, err := la.Chi2([][]float64{{0, 1}}, observed, cov)
		require.NoError(t, err)
		require.Greater(t, chi2[0], 1.0)
	})

	t.Run("Chi2SingleMatchesBatch", func(t *testing.T) {
		batch, err := la.Chi2([][]float64{{0.5, 0.25}}, observed, cov)
		require.NoError(t, err)

		single, err := la.Chi2Single([]float64{0.5, 0.25}, observed, cov)
		require.NoError(t, err)
		require.Equal(t, batch[0], single)
	})

	t.Run("EmptyBatch", func(t *testing.T) {
		chi2, err := la.Chi2(nil, observed, cov)
		require.NoError(t, err)
		require.Nil(t, chi2)
	})
}

func TestLikelihood_Chi2Chunked(t *testing.T) {
	la := newTestLikelihood(t)
	cov := identityCovariance(t, 3)
	observed := likelihoodFeature([]float64{0.5, 0.25})

	grid := [][]float64{
		{0, 0}, {1, 0}, {0, 1}, {1, 1},
		{0.5, 0.25}, {0.25, 0.75}, {0.2, 0.2}, {0.8, 0.4},
	}

	sequential, err := la.Chi2(grid, observed, cov)
	require.NoError(t, err)
	require.Len(t, sequential, len(grid))

	t.Run("ChunkedMatchesSequential", func(t *testing.T) {
		chunked, err := la.Chi2(grid, observed, cov, SplitChunks(4))
		require.NoError(t, err)
		require.Equal(t, sequential, chunked)
	})

	t.Run("PooledMatchesSequential", func(t *testing.T) {
		pooled, err := la.Chi2(grid, observed, cov,
			SplitChunks(4), WithPool(NewWorkerPool(2)))
		require.NoError(t, err)
		require.Equal(t, sequential, pooled)
	})

	t.Run("UnevenSplit", func(t *testing.T) {
		_, err := la.Chi2(grid, observed, cov, SplitChunks(3))
		require.ErrorIs(t, err, errs.ErrInvalidChunkCount)
	})

	t.Run("NonPositiveSplit", func(t *testing.T) {
		_, err := la.Chi2(grid, observed, cov, SplitChunks(0))
		require.ErrorIs(t, err, errs.ErrInvalidChunkCount)
	})
}

func TestLikelihood_Chi2Validation(t *testing.T) {
	la := newTestLikelihood(t)
	cov := identityCovariance(t, 3)
	observed := []float64{1, 0, 1}

	t.Run("MissingObserved", func(t *testing.T) {
		_, err := la.Chi2([][]float64{{0, 0}}, nil, cov)
		require.ErrorIs(t, err, errs.ErrMissingObserved)
	})

	t.Run("MissingCovariance", func(t *testing.T) {
		_, err := la.Chi2([][]float64{{0, 0}}, observed, nil)
		require.ErrorIs(t, err, errs.ErrMissingCovariance)
	})

	t.Run("DiagonalCovarianceRejected", func(t *testing.T) {
		diag, err := DiagonalCovariance([]float64{1, 1, 1})
		require.NoError(t, err)
		_, err = la.Chi2([][]float64{{0, 0}}, observed, diag)
		require.ErrorIs(t, err, errs.ErrShapeMismatch)
	})

	t.Run("WrongObservedSize", func(t *testing.T) {
		_, err := la.Chi2([][]float64{{0, 0}}, []float64{1, 0}, cov)
		require.ErrorIs(t, err, errs.ErrShapeMismatch)
	})

	t.Run("WrongCovarianceSize", func(t *testing.T) {
		_, err := la.Chi2([][]float64{{0, 0}}, observed, identityCovariance(t, 2))
		require.ErrorIs(t, err, errs.ErrShapeMismatch)
	})

	t.Run("WrongPointDimension", func(t *testing.T) {
		_, err := la.Chi2([][]float64{{0, 0, 0}}, observed, cov)
		require.ErrorIs(t, err, errs.ErrShapeMismatch)
	})
}

func TestLikelihood_LikelihoodFunction(t *testing.T) {
	la := NewLikelihood()

	// Default is the unit-norm Gaussian.
	values := la.Likelihood([]float64{0, 2})
	require.InDelta(t, 1, values[0], 1e-12)
	require.InDelta(t, math.Exp(-1), values[1], 1e-12)

	require.ErrorIs(t, la.SetLikelihood(nil), errs.ErrNilLikelihood)

	require.NoError(t, la.SetLikelihood(GaussianLikelihood(2)))
	values = la.Likelihood([]float64{0})
	require.InDelta(t, 2, values[0], 1e-12)
}
