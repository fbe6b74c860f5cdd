package analysis

import (
	"fmt"

	"github.com/cosmostat/lensfit/errs"
)

// Analysis is the training set shared by the Fisher and likelihood
// estimators: an ordered, append-only collection of models, each a parameter
// vector paired with the feature measured from the corresponding simulation.
//
// The first model establishes the parameter dimensionality and the feature
// size; every later model must agree with both. Models are never reordered
// or deleted. All stored arrays are owned by the Analysis; accessors return
// copies.
//
// An Analysis is not safe for concurrent mutation. Once fully populated it
// may be read concurrently.
type Analysis struct {
	params   []float64 // row-major, models x nparams
	features []float64 // row-major, models x featSize
	nparams  int
	featSize int
	shape    []int // feature shape; product equals featSize
	models   int
	version  uint64 // bumped on every mutation, used for cache invalidation
}

// New creates an empty analysis. Dimensionalities are established by the
// first AddModel call.
func New() *Analysis {
	return &Analysis{}
}

// NewSeeded creates an analysis pre-populated with aligned parameter and
// feature sets. Both sets must be given and must have the same length, else
// errs.ErrSeedMismatch is returned; the records themselves are validated as
// in AddModel.
func NewSeeded(parameterSet, featureSet [][]float64) (*Analysis, error) {
	a := New()
	if err := a.seed(parameterSet, featureSet); err != nil {
		return nil, err
	}

	return a, nil
}

func (a *Analysis) seed(parameterSet, featureSet [][]float64) error {
	if (parameterSet == nil) != (featureSet == nil) {
		return fmt.Errorf("%w: seed requires both a parameter set and a feature set", errs.ErrSeedMismatch)
	}
	if len(parameterSet) != len(featureSet) {
		return fmt.Errorf("%w: %d parameter records vs %d feature records",
			errs.ErrSeedMismatch, len(parameterSet), len(featureSet))
	}

	for i := range parameterSet {
		if err := a.AddModel(parameterSet[i], featureSet[i]); err != nil {
			return err
		}
	}

	return nil
}

// AddModel appends one model to the training set.
//
// The first call establishes the parameter dimensionality and feature size;
// later calls must match them or the set is left unchanged and
// errs.ErrShapeMismatch is returned. The feature is stored flattened; use
// SetFeatureShape to record a multi-dimensional binning.
func (a *Analysis) AddModel(parameters, feature []float64) error {
	if len(parameters) == 0 {
		return fmt.Errorf("%w: empty parameter vector", errs.ErrShapeMismatch)
	}
	if len(feature) == 0 {
		return fmt.Errorf("%w: empty feature", errs.ErrShapeMismatch)
	}

	if a.models == 0 {
		a.nparams = len(parameters)
		a.featSize = len(feature)
		a.shape = []int{len(feature)}
	} else {
		if len(parameters) != a.nparams {
			return fmt.Errorf("%w: parameter vector has length %d, analysis uses %d parameters",
				errs.ErrShapeMismatch, len(parameters), a.nparams)
		}
		if len(feature) != a.featSize {
			return fmt.Errorf("%w: feature has %d bins, analysis uses %d",
				errs.ErrShapeMismatch, len(feature), a.featSize)
		}
	}

	a.params = append(a.params, parameters...)
	a.features = append(a.features, feature...)
	a.models++
	a.version++

	return nil
}

// SetFeatureShape records the multi-dimensional shape of the (flattened)
// feature records. The product of the dimensions must equal the established
// feature size. Valid only once at least one model is present.
func (a *Analysis) SetFeatureShape(shape ...int) error {
	if a.models == 0 {
		return fmt.Errorf("%w: no models to shape", errs.ErrShapeMismatch)
	}

	size := 1
	for _, dim := range shape {
		if dim < 1 {
			return fmt.Errorf("%w: non-positive dimension %d", errs.ErrShapeMismatch, dim)
		}
		size *= dim
	}
	if size != a.featSize {
		return fmt.Errorf("%w: shape %v has %d bins, feature has %d",
			errs.ErrShapeMismatch, shape, size, a.featSize)
	}

	a.shape = append([]int(nil), shape...)

	return nil
}

// Models returns the number of models in the training set.
func (a *Analysis) Models() int {
	return a.models
}

// ParameterCount returns the parameter dimensionality, or 0 when the set is
// empty.
func (a *Analysis) ParameterCount() int {
	return a.nparams
}

// FeatureSize returns the flattened feature size, or 0 when the set is empty.
func (a *Analysis) FeatureSize() int {
	return a.featSize
}

// FeatureShape returns a copy of the recorded feature shape.
func (a *Analysis) FeatureShape() []int {
	return append([]int(nil), a.shape...)
}

// ParameterSet returns a copy of all parameter records.
func (a *Analysis) ParameterSet() [][]float64 {
	out := make([][]float64, a.models)
	for i := 0; i < a.models; i++ {
		out[i] = append([]float64(nil), a.parameterRow(i)...)
	}

	return out
}

// FeatureSet returns a copy of all (flattened) feature records.
func (a *Analysis) FeatureSet() [][]float64 {
	out := make([][]float64, a.models)
	for i := 0; i < a.models; i++ {
		out[i] = append([]float64(nil), a.featureRow(i)...)
	}

	return out
}

// VaryingParameters returns the indices of parameters that are not constant
// across all models, in ascending order. Constant parameters carry no
// information for interpolation.
func (a *Analysis) VaryingParameters() []int {
	if a.models == 0 {
		return nil
	}

	var varying []int
	first := a.parameterRow(0)
	for j := 0; j < a.nparams; j++ {
		for i := 1; i < a.models; i++ {
			if a.parameterRow(i)[j] != first[j] {
				varying = append(varying, j)
				break
			}
		}
	}

	return varying
}

func (a *Analysis) String() string {
	if a.models == 0 {
		return "analysis with no models in it yet"
	}

	return fmt.Sprintf("analysis based on %d models spanning a %d-dimensional parameter space",
		a.models, a.nparams)
}

// parameterRow returns a read-only view of model i's parameters.
func (a *Analysis) parameterRow(i int) []float64 {
	return a.params[i*a.nparams : (i+1)*a.nparams]
}

// featureRow returns a read-only view of model i's flattened feature.
func (a *Analysis) featureRow(i int) []float64 {
	return a.features[i*a.featSize : (i+1)*a.featSize]
}
