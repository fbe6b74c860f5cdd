package analysis

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/cosmostat/lensfit/errs"
)

// Covariance is a feature covariance over the flattened feature bins:
// either the full square matrix or just its diagonal (the independent-bin
// assumption). The Fisher estimator accepts both forms; the chi-squared
// evaluator requires the full form.
type Covariance struct {
	full *mat.Dense
	diag []float64
}

// FullCovariance builds a full covariance from square row-major data.
func FullCovariance(rows [][]float64) (*Covariance, error) {
	n := len(rows)
	if n == 0 {
		return nil, fmt.Errorf("%w: empty covariance", errs.ErrShapeMismatch)
	}

	data := make([]float64, 0, n*n)
	for i, row := range rows {
		if len(row) != n {
			return nil, fmt.Errorf("%w: covariance row %d has %d entries, want %d",
				errs.ErrShapeMismatch, i, len(row), n)
		}
		data = append(data, row...)
	}

	return &Covariance{full: mat.NewDense(n, n, data)}, nil
}

// FullCovarianceFrom wraps an existing matrix as a full covariance. The
// matrix is copied.
func FullCovarianceFrom(m mat.Matrix) (*Covariance, error) {
	r, c := m.Dims()
	if r != c || r == 0 {
		return nil, fmt.Errorf("%w: covariance must be square, got %dx%d", errs.ErrShapeMismatch, r, c)
	}

	return &Covariance{full: mat.DenseCopyOf(m)}, nil
}

// DiagonalCovariance builds a diagonal-only covariance from the per-bin
// variances.
func DiagonalCovariance(diag []float64) (*Covariance, error) {
	if len(diag) == 0 {
		return nil, fmt.Errorf("%w: empty covariance diagonal", errs.ErrShapeMismatch)
	}

	return &Covariance{diag: append([]float64(nil), diag...)}, nil
}

// IsDiagonal reports whether only the diagonal is stored.
func (c *Covariance) IsDiagonal() bool {
	return c.diag != nil
}

// Size returns the feature dimension the covariance describes.
func (c *Covariance) Size() int {
	if c.diag != nil {
		return len(c.diag)
	}
	r, _ := c.full.Dims()

	return r
}

// validate checks the covariance against the analysis feature size.
func (c *Covariance) validate(featSize int) error {
	if c.Size() != featSize {
		return fmt.Errorf("%w: covariance describes %d bins, feature has %d",
			errs.ErrShapeMismatch, c.Size(), featSize)
	}

	return nil
}

// inverse computes the inverse of a full covariance.
func (c *Covariance) inverse() (*mat.Dense, error) {
	var inv mat.Dense
	if err := inv.Inverse(c.full); err != nil {
		return nil, fmt.Errorf("%w: features covariance: %w", errs.ErrSingularMatrix, err)
	}

	return &inv, nil
}
