// Package interp provides scattered-data radial basis function interpolation.
//
// A lensfit likelihood analysis trains one scalar interpolator per feature
// bin over the simulated parameter space. The RBF type is that scalar
// interpolator: given n nodes in d dimensions and one value per node, it
// reproduces the values exactly at the nodes (when smoothing is off) and
// interpolates smoothly between them.
//
// Construction can be deferred through a Builder, a small value that captures
// the nodes and options and rebuilds the interpolator on demand. Builders are
// cheap to copy into worker goroutines; a build failure is logged with its
// diagnostic context before the error is returned, so the cause survives even
// when the build runs far from the original call site.
package interp
