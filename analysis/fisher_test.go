package analysis

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cosmostat/lensfit/errs"
)

// newTestFisher builds a minimal one-parameter-at-a-time design in a
// 2-dimensional parameter space with a 2-bin feature. The feature responds
// linearly: bin 0 with slope 2 in parameter 0, bin 1 with slope 3 in
// parameter 1.
func newTestFisher(t *testing.T) *FisherAnalysis {
	t.Helper()

	f := NewFisher()
	require.NoError(t, f.AddModel([]float64{0, 0}, []float64{1, 2})) // fiducial
	require.NoError(t, f.AddModel([]float64{1, 0}, []float64{3, 2})) // varies parameter 0
	require.NoError(t, f.AddModel([]float64{0, 1}, []float64{1, 5})) // varies parameter 1

	return f
}

func identityCovariance(t *testing.T, n int) *Covariance {
	t.Helper()

	rows := make([][]float64, n)
	for i := range rows {
		rows[i] = make([]float64, n)
		rows[i][i] = 1
	}
	cov, err := FullCovariance(rows)
	require.NoError(t, err)

	return cov
}

func TestFisher_ComputeDerivatives(t *testing.T) {
	f := newTestFisher(t)

	derivs, err := f.ComputeDerivatives()
	require.NoError(t, err)

	rows, cols := derivs.Dims()
	require.Equal(t, 2, rows)
	require.Equal(t, 2, cols)

	// d(feature)/d(param0) = ([3,2]-[1,2])/1, d(feature)/d(param1) = ([1,5]-[1,2])/1.
	require.InDelta(t, 2, derivs.At(0, 0), 1e-12)
	require.InDelta(t, 0, derivs.At(0, 1), 1e-12)
	require.InDelta(t, 0, derivs.At(1, 0), 1e-12)
	require.InDelta(t, 3, derivs.At(1, 1), 1e-12)

	varied, err := f.Varied()
	require.NoError(t, err)
	require.Equal(t, []int{0, 1}, varied)
}

func TestFisher_NegativeStep(t *testing.T) {
	f := NewFisher()
	require.NoError(t, f.AddModel([]float64{1.0, 0.5}, []float64{2, 4}))
	require.NoError(t, f.AddModel([]float64{0.5, 0.5}, []float64{1, 4}))

	derivs, err := f.ComputeDerivatives()
	require.NoError(t, err)

	// (1-2)/(0.5-1.0) = 2: the step sign carries through.
	require.InDelta(t, 2, derivs.At(0, 0), 1e-12)
	require.InDelta(t, 0, derivs.At(0, 1), 1e-12)
}

func TestFisher_DesignErrors(t *testing.T) {
	t.Run("NotEnoughModels", func(t *testing.T) {
		f := NewFisher()
		require.NoError(t, f.AddModel([]float64{0, 0}, []float64{1, 2}))
		_, err := f.ComputeDerivatives()
		require.ErrorIs(t, err, errs.ErrNotEnoughModels)
	})

	t.Run("TwoParametersVaried", func(t *testing.T) {
		f := NewFisher()
		require.NoError(t, f.AddModel([]float64{0, 0}, []float64{1, 2}))
		require.NoError(t, f.AddModel([]float64{1, 1}, []float64{3, 5}))
		_, err := f.ComputeDerivatives()
		require.ErrorIs(t, err, errs.ErrInvalidDesign)
	})

	t.Run("DuplicateFiducial", func(t *testing.T) {
		f := NewFisher()
		require.NoError(t, f.AddModel([]float64{0, 0}, []float64{1, 2}))
		require.NoError(t, f.AddModel([]float64{0, 0}, []float64{1, 3}))
		_, err := f.ComputeDerivatives()
		require.ErrorIs(t, err, errs.ErrInvalidDesign)
	})

	t.Run("ParameterVariedTwice", func(t *testing.T) {
		f := NewFisher()
		require.NoError(t, f.AddModel([]float64{0, 0}, []float64{1, 2}))
		require.NoError(t, f.AddModel([]float64{1, 0}, []float64{3, 2}))
		require.NoError(t, f.AddModel([]float64{2, 0}, []float64{5, 2}))
		_, err := f.ComputeDerivatives()
		require.ErrorIs(t, err, errs.ErrInvalidDesign)
	})
}

func TestFisher_SetFiducial(t *testing.T) {
	f := newTestFisher(t)
	require.Equal(t, 0, f.Fiducial())

	require.ErrorIs(t, f.SetFiducial(-1), errs.ErrFiducialOutOfRange)
	require.ErrorIs(t, f.SetFiducial(3), errs.ErrFiducialOutOfRange)

	// Valid derivatives around fiducial 0.
	_, err := f.ComputeDerivatives()
	require.NoError(t, err)

	// Around model 1 the remaining models vary two parameters each; the
	// cached derivatives must not survive the fiducial change.
	require.NoError(t, f.SetFiducial(1))
	require.Equal(t, 1, f.Fiducial())
	_, err = f.ComputeDerivatives()
	require.ErrorIs(t, err, errs.ErrInvalidDesign)
}

func TestFisher_CacheInvalidatedByAddModel(t *testing.T) {
	f := newTestFisher(t)

	derivs, err := f.ComputeDerivatives()
	require.NoError(t, err)
	rows, _ := derivs.Dims()
	require.Equal(t, 2, rows)

	// Adding a model forces a recompute on the next request. The new model
	// varies parameter 0 again, which makes the design invalid.
	require.NoError(t, f.AddModel([]float64{2, 0}, []float64{5, 2}))
	_, err = f.ComputeDerivatives()
	require.ErrorIs(t, err, errs.ErrInvalidDesign)
}

func TestFisher_Fit(t *testing.T) {
	f := newTestFisher(t)
	cov := identityCovariance(t, 2)

	// The feature responds linearly, so the fit recovers the generating
	// parameters exactly: [3,5] = [1+2*p0, 2+3*p1] at p = [1,1].
	fit, err := f.Fit([]float64{3, 5}, cov)
	require.NoError(t, err)
	require.Len(t, fit, 2)
	require.InDelta(t, 1, fit[0], 1e-10)
	require.InDelta(t, 1, fit[1], 1e-10)

	// Observing the fiducial feature recovers the fiducial parameters.
	fit, err = f.Fit([]float64{1, 2}, cov)
	require.NoError(t, err)
	require.InDelta(t, 0, fit[0], 1e-10)
	require.InDelta(t, 0, fit[1], 1e-10)
}

func TestFisher_FitDiagonalCovariance(t *testing.T) {
	f := newTestFisher(t)

	// A unit diagonal must agree with the full identity matrix.
	diag, err := DiagonalCovariance([]float64{1, 1})
	require.NoError(t, err)

	fit, err := f.Fit([]float64{3, 5}, diag)
	require.NoError(t, err)
	require.InDelta(t, 1, fit[0], 1e-10)
	require.InDelta(t, 1, fit[1], 1e-10)
}

func TestFisher_FitValidation(t *testing.T) {
	f := newTestFisher(t)
	cov := identityCovariance(t, 2)

	t.Run("NilCovariance", func(t *testing.T) {
		_, err := f.Fit([]float64{3, 5}, nil)
		require.ErrorIs(t, err, errs.ErrMissingCovariance)
	})

	t.Run("WrongFeatureSize", func(t *testing.T) {
		_, err := f.Fit([]float64{3}, cov)
		require.ErrorIs(t, err, errs.ErrShapeMismatch)
	})

	t.Run("WrongCovarianceSize", func(t *testing.T) {
		_, err := f.Fit([]float64{3, 5}, identityCovariance(t, 3))
		require.ErrorIs(t, err, errs.ErrShapeMismatch)
	})
}

func TestFisher_FisherMatrix(t *testing.T) {
	f := newTestFisher(t)
	cov := identityCovariance(t, 2)

	// With the identity covariance the information matrix is D . D^T:
	// diag(4, 9) for the slopes 2 and 3.
	fm, err := f.FisherMatrix(cov, nil)
	require.NoError(t, err)
	require.InDelta(t, 4, fm.At(0, 0), 1e-10)
	require.InDelta(t, 0, fm.At(0, 1), 1e-10)
	require.InDelta(t, 0, fm.At(1, 0), 1e-10)
	require.InDelta(t, 9, fm.At(1, 1), 1e-10)
}

func TestFisher_FisherMatrixObservedCovariance(t *testing.T) {
	f := newTestFisher(t)
	cov := identityCovariance(t, 2)

	// Identical simulated and observed covariances collapse the propagation
	// back to the raw information matrix.
	t.Run("FullObserved", func(t *testing.T) {
		fm, err := f.FisherMatrix(cov, identityCovariance(t, 2))
		require.NoError(t, err)
		require.InDelta(t, 4, fm.At(0, 0), 1e-10)
		require.InDelta(t, 9, fm.At(1, 1), 1e-10)
	})

	t.Run("DiagonalObserved", func(t *testing.T) {
		diag, err := DiagonalCovariance([]float64{1, 1})
		require.NoError(t, err)

		fm, err := f.FisherMatrix(cov, diag)
		require.NoError(t, err)
		require.InDelta(t, 4, fm.At(0, 0), 1e-10)
		require.InDelta(t, 9, fm.At(1, 1), 1e-10)
	})

	t.Run("ScaledObserved", func(t *testing.T) {
		// Doubling the observed variances halves the information.
		diag, err := DiagonalCovariance([]float64{2, 2})
		require.NoError(t, err)

		fm, err := f.FisherMatrix(cov, diag)
		require.NoError(t, err)
		require.InDelta(t, 2, fm.At(0, 0), 1e-10)
		require.InDelta(t, 4.5, fm.At(1, 1), 1e-10)
	})
}

func TestFisher_FisherMatrixValidation(t *testing.T) {
	f := newTestFisher(t)

	_, err := f.FisherMatrix(nil, nil)
	require.ErrorIs(t, err, errs.ErrMissingCovariance)

	_, err = f.FisherMatrix(identityCovariance(t, 3), nil)
	require.ErrorIs(t, err, errs.ErrShapeMismatch)

	_, err = f.FisherMatrix(identityCovariance(t, 2), identityCovariance(t, 3))
	require.ErrorIs(t, err, errs.ErrShapeMismatch)
}

func TestNewFisherSeeded(t *testing.T) {
	f, err := NewFisherSeeded(
		[][]float64{{0, 0}, {1, 0}, {0, 1}},
		[][]float64{{1, 2}, {3, 2}, {1, 5}},
	)
	require.NoError(t, err)
	require.Equal(t, 3, f.Models())

	_, err = NewFisherSeeded([][]float64{{0, 0}}, nil)
	require.ErrorIs(t, err, errs.ErrSeedMismatch)
}
