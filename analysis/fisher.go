package analysis

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/cosmostat/lensfit/errs"
)

// FisherAnalysis linearizes the feature around a fiducial model and fits
// observations with the Fisher-matrix formalism.
//
// The training set must follow a one-parameter-at-a-time design: every
// non-fiducial model differs from the fiducial model in exactly one
// parameter, and no parameter is varied by two models. Derivatives are
// computed by single-step finite differences, cached, and invalidated when
// the fiducial changes or a model is added.
type FisherAnalysis struct {
	Analysis

	fiducial  int
	derivs    *mat.Dense // (models-1) x featSize, nil until computed
	varied    []int      // varied parameter index per derivative row
	derivedAt uint64     // Analysis version the cache was computed at
}

// NewFisher creates an empty Fisher analysis with fiducial model 0.
func NewFisher() *FisherAnalysis {
	return &FisherAnalysis{}
}

// NewFisherSeeded creates a Fisher analysis pre-populated with aligned
// parameter and feature sets.
func NewFisherSeeded(parameterSet, featureSet [][]float64) (*FisherAnalysis, error) {
	f := NewFisher()
	if err := f.seed(parameterSet, featureSet); err != nil {
		return nil, err
	}

	return f, nil
}

// Fiducial returns the index of the current fiducial model.
func (f *FisherAnalysis) Fiducial() int {
	return f.fiducial
}

// SetFiducial selects the model used as the finite-difference reference.
// The default is model 0. Changing the fiducial invalidates any cached
// derivatives.
func (f *FisherAnalysis) SetFiducial(n int) error {
	if n < 0 || n >= f.Models() {
		return fmt.Errorf("%w: %d not in [0, %d)", errs.ErrFiducialOutOfRange, n, f.Models())
	}

	f.fiducial = n
	f.invalidate()

	return nil
}

func (f *FisherAnalysis) invalidate() {
	f.derivs = nil
	f.varied = nil
}

// ComputeDerivatives computes the one-step finite-difference derivative of
// the feature with respect to each varied parameter.
//
// For every non-fiducial model it determines which single parameter differs
// from the fiducial vector; the derivative row for that model is
// (feature - fiducial feature) / (value - fiducial value). The result has
// one row per non-fiducial model, ordered by model index, and is cached
// until the training set or fiducial changes.
//
// Returns errs.ErrNotEnoughModels with fewer than two models, and
// errs.ErrInvalidDesign when a model varies zero or several parameters, or
// when two models vary the same parameter.
func (f *FisherAnalysis) ComputeDerivatives() (*mat.Dense, error) {
	if err := f.ensureDerivatives(); err != nil {
		return nil, err
	}

	return mat.DenseCopyOf(f.derivs), nil
}

// Varied returns the ordered indices of the varied parameters, one per
// derivative row. It computes the derivatives first if needed.
func (f *FisherAnalysis) Varied() ([]int, error) {
	if err := f.ensureDerivatives(); err != nil {
		return nil, err
	}

	return append([]int(nil), f.varied...), nil
}

func (f *FisherAnalysis) ensureDerivatives() error {
	if f.derivs != nil && f.derivedAt == f.version {
		return nil
	}

	if f.Models() < 2 {
		return fmt.Errorf("%w: a Fisher analysis needs at least 2 models, have %d",
			errs.ErrNotEnoughModels, f.Models())
	}

	fidParams := f.parameterRow(f.fiducial)
	fidFeature := f.featureRow(f.fiducial)

	rows := f.Models() - 1
	derivs := mat.NewDense(rows, f.featSize, nil)
	varied := make([]int, 0, rows)
	seen := make(map[int]bool, rows)

	row := 0
	for m := 0; m < f.Models(); m++ {
		if m == f.fiducial {
			continue
		}

		params := f.parameterRow(m)
		variedIndex := -1
		for j := 0; j < f.nparams; j++ {
			if params[j] == fidParams[j] {
				continue
			}
			if variedIndex >= 0 {
				return fmt.Errorf("%w: model %d varies parameters %d and %d; vary one parameter at a time",
					errs.ErrInvalidDesign, m, variedIndex, j)
			}
			variedIndex = j
		}
		if variedIndex < 0 {
			return fmt.Errorf("%w: model %d is identical to the fiducial model", errs.ErrInvalidDesign, m)
		}
		if seen[variedIndex] {
			return fmt.Errorf("%w: parameter %d is varied by two models", errs.ErrInvalidDesign, variedIndex)
		}
		seen[variedIndex] = true

		step := params[variedIndex] - fidParams[variedIndex]
		feature := f.featureRow(m)
		for b := 0; b < f.featSize; b++ {
			derivs.Set(row, b, (feature[b]-fidFeature[b])/step)
		}

		varied = append(varied, variedIndex)
		row++
	}

	f.derivs = derivs
	f.varied = varied
	f.derivedAt = f.version

	return nil
}

// Fit maximizes the Gaussian likelihood underlying the Fisher formalism and
// returns the best-fit values of the varied parameters, in Varied() order.
//
// The observed feature must match the training feature size; the covariance
// is mandatory and may be full or diagonal. Derivatives are computed first
// if needed.
func (f *FisherAnalysis) Fit(observedFeature []float64, featuresCovariance *Covariance) ([]float64, error) {
	if featuresCovariance == nil {
		return nil, fmt.Errorf("%w: a Fisher fit requires the features covariance", errs.ErrMissingCovariance)
	}
	if len(observedFeature) != f.featSize {
		return nil, fmt.Errorf("%w: observed feature has %d bins, analysis uses %d",
			errs.ErrShapeMismatch, len(observedFeature), f.featSize)
	}
	if err := featuresCovariance.validate(f.featSize); err != nil {
		return nil, err
	}
	if err := f.ensureDerivatives(); err != nil {
		return nil, err
	}

	_, m, err := f.linearEstimator(featuresCovariance)
	if err != nil {
		return nil, err
	}

	// dP = M . (observed - fiducial feature)
	fidFeature := f.featureRow(f.fiducial)
	diff := make([]float64, f.featSize)
	for b := range diff {
		diff[b] = observedFeature[b] - fidFeature[b]
	}

	var dp mat.VecDense
	dp.MulVec(m, mat.NewVecDense(f.featSize, diff))

	fidParams := f.parameterRow(f.fiducial)
	fit := make([]float64, len(f.varied))
	for i, j := range f.varied {
		fit[i] = fidParams[j] + dp.AtVec(i)
	}

	return fit, nil
}

// FisherMatrix returns the Fisher information matrix of the analysis.
//
// With observedCovariance nil the result is the raw information matrix
// XY = derivatives . solve(simulatedCovariance, derivatives^T). Otherwise
// the observational covariance is propagated through the linear estimator
// and the inverse of the propagated parameter covariance is returned, an
// effective information matrix for data whose covariance differs from the
// simulations'. Both covariances may be full or diagonal.
func (f *FisherAnalysis) FisherMatrix(simulatedCovariance, observedCovariance *Covariance) (*mat.Dense, error) {
	if simulatedCovariance == nil {
		return nil, fmt.Errorf("%w: a Fisher matrix requires the simulated features covariance", errs.ErrMissingCovariance)
	}
	if err := simulatedCovariance.validate(f.featSize); err != nil {
		return nil, err
	}
	if err := f.ensureDerivatives(); err != nil {
		return nil, err
	}

	if observedCovariance == nil {
		xy, _, err := f.weightedNormal(simulatedCovariance)
		if err != nil {
			return nil, err
		}

		return xy, nil
	}

	if err := observedCovariance.validate(f.featSize); err != nil {
		return nil, err
	}

	_, m, err := f.linearEstimator(simulatedCovariance)
	if err != nil {
		return nil, err
	}

	// Propagate the observational covariance: M . Cov_obs . M^T.
	v := len(f.varied)
	var propagated mat.Dense
	if observedCovariance.IsDiagonal() {
		scaled := mat.NewDense(v, f.featSize, nil)
		for i := 0; i < v; i++ {
			for b := 0; b < f.featSize; b++ {
				scaled.Set(i, b, m.At(i, b)*observedCovariance.diag[b])
			}
		}
		propagated.Mul(scaled, m.T())
	} else {
		var tmp mat.Dense
		tmp.Mul(m, observedCovariance.full)
		propagated.Mul(&tmp, m.T())
	}

	var inv mat.Dense
	if err := inv.Inverse(&propagated); err != nil {
		return nil, fmt.Errorf("%w: propagated parameter covariance: %w", errs.ErrSingularMatrix, err)
	}

	return &inv, nil
}

// weightedNormal computes Y = solve(cov, derivatives^T) (or the elementwise
// scaling for a diagonal covariance) and the normal matrix XY =
// derivatives . Y, the Fisher matrix itself.
func (f *FisherAnalysis) weightedNormal(cov *Covariance) (xy, y *mat.Dense, err error) {
	rows, _ := f.derivs.Dims()

	y = mat.NewDense(f.featSize, rows, nil)
	if cov.IsDiagonal() {
		for b := 0; b < f.featSize; b++ {
			for i := 0; i < rows; i++ {
				y.Set(b, i, f.derivs.At(i, b)/cov.diag[b])
			}
		}
	} else {
		if err := y.Solve(cov.full, f.derivs.T()); err != nil {
			return nil, nil, fmt.Errorf("%w: features covariance: %w", errs.ErrSingularMatrix, err)
		}
	}

	xy = mat.NewDense(rows, rows, nil)
	xy.Mul(f.derivs, y)

	return xy, y, nil
}

// linearEstimator computes M = solve(XY, Y^T), the matrix mapping feature
// residuals to parameter displacements.
func (f *FisherAnalysis) linearEstimator(cov *Covariance) (xy, m *mat.Dense, err error) {
	xy, y, err := f.weightedNormal(cov)
	if err != nil {
		return nil, nil, err
	}

	m = &mat.Dense{}
	if err := m.Solve(xy, y.T()); err != nil {
		return nil, nil, fmt.Errorf("%w: fisher matrix: %w", errs.ErrSingularMatrix, err)
	}

	return xy, m, nil
}
