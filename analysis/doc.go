// Package analysis implements the lensfit inference core: a training set of
// simulated models, a linearized Fisher-matrix estimator, and an
// interpolation-based likelihood estimator.
//
// The workflow mirrors how weak-lensing constraints are produced in
// practice. A suite of simulations covers the parameter space; each
// simulation contributes one model (a parameter vector plus the feature
// measured from it). The Fisher path takes finite-difference derivatives
// around a fiducial model and fits observations linearly; the likelihood
// path interpolates the feature between models and evaluates chi-squared on
// a grid of candidate parameters, optionally in parallel chunks.
//
// # Fisher analysis
//
//	fisher := analysis.NewFisher()
//	fisher.AddModel([]float64{0, 0}, []float64{1, 2}) // fiducial
//	fisher.AddModel([]float64{1, 0}, []float64{3, 2}) // varies parameter 0
//	fisher.AddModel([]float64{0, 1}, []float64{1, 5}) // varies parameter 1
//
//	cov, _ := analysis.DiagonalCovariance([]float64{0.1, 0.1})
//	best, err := fisher.Fit(observed, cov)
//
// # Likelihood analysis
//
//	la := analysis.NewLikelihood()
//	// ... add models ...
//	err := la.Train()
//	chi2, err := la.Chi2(grid, observed, cov,
//	    analysis.SplitChunks(4),
//	    analysis.WithPool(analysis.NewWorkerPool(4)),
//	)
//	like := la.Likelihood(chi2)
package analysis
