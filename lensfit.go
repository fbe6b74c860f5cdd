// Package lensfit estimates cosmological parameters from weak lensing
// features measured in simulations.
//
// The workflow has three stages. First, a training set pairs the parameter
// vector of every simulated model with the feature measured from it
// (analysis.Analysis). Second, the training set feeds one of two estimators:
// a Fisher analysis, which takes one-sided finite-difference derivatives of
// the feature around a fiducial model and inverts the resulting quadratic
// form (analysis.FisherAnalysis), or a likelihood analysis, which trains a
// radial basis interpolator per feature bin and scans chi-squared over the
// parameter space (analysis.LikelihoodAnalysis). Third, the chi-squared
// values are mapped to a likelihood surface.
//
// # Basic Usage
//
// Fitting observed features with the Fisher estimator:
//
//	fisher := lensfit.NewFisherAnalysis()
//	fisher.AddModel([]float64{0.26, 0.8}, fiducialFeature)
//	fisher.AddModel([]float64{0.29, 0.8}, featureOm)
//	fisher.AddModel([]float64{0.26, 0.9}, featureS8)
//
//	cov, _ := analysis.DiagonalCovariance(variances)
//	fit, err := fisher.Fit(observedFeature, cov)
//
// Scanning the likelihood over a parameter grid:
//
//	la := lensfit.NewLikelihoodAnalysis()
//	// ... AddModel per simulation ...
//	chi2, err := la.Chi2(grid, observedFeature, fullCov,
//	    analysis.SplitChunks(8),
//	    analysis.WithPool(analysis.NewWorkerPool(8)),
//	)
//	surface := la.Likelihood(chi2)
//
// Training sets can be persisted with the snapshot package and simulation
// campaigns laid out with the design package.
//
// This package provides convenient top-level wrappers around the analysis
// and snapshot packages; for fine-grained control use those directly.
package lensfit

import (
	"github.com/cosmostat/lensfit/analysis"
	"github.com/cosmostat/lensfit/internal/hash"
	"github.com/cosmostat/lensfit/snapshot"
)

// NewAnalysis creates an empty training set.
func NewAnalysis() *analysis.Analysis {
	return analysis.New()
}

// NewFisherAnalysis creates an empty Fisher analysis. The first model added
// becomes the fiducial one.
func NewFisherAnalysis() *analysis.FisherAnalysis {
	return analysis.NewFisher()
}

// NewLikelihoodAnalysis creates an empty likelihood analysis with the
// default Gaussian likelihood function.
func NewLikelihoodAnalysis() *analysis.LikelihoodAnalysis {
	return analysis.NewLikelihood()
}

// SaveSnapshot serializes a training set to its binary snapshot form.
func SaveSnapshot(a *analysis.Analysis, opts ...snapshot.Option) ([]byte, error) {
	return snapshot.Encode(a, opts...)
}

// LoadSnapshot rebuilds a training set from a snapshot.
func LoadSnapshot(data []byte) (*analysis.Analysis, error) {
	return snapshot.Decode(data)
}

// DatasetID converts a dataset name to its 64-bit xxHash64 identifier.
// Deterministic, so the same name yields the same ID across runs; useful for
// keying snapshots of different feature sets in external storage.
func DatasetID(name string) uint64 {
	return hash.ID(name)
}
