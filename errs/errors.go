// Package errs defines the sentinel errors shared across lensfit packages.
//
// Callers should match errors with errors.Is; lensfit wraps these sentinels
// with additional context using fmt.Errorf("%w: ...").
package errs

import "errors"

// Training set and shape validation errors.
var (
	// ErrShapeMismatch indicates an array argument disagrees with a
	// dimensionality already established by the analysis (parameter length,
	// feature size, or covariance shape).
	ErrShapeMismatch = errors.New("shape mismatch")

	// ErrSeedMismatch indicates a seeded construction received only one of
	// the parameter/feature sets, or sets of different lengths.
	ErrSeedMismatch = errors.New("parameter and feature sets do not align")
)

// Fisher analysis errors.
var (
	// ErrNotEnoughModels indicates a derivative computation was requested
	// with fewer than two models in the training set.
	ErrNotEnoughModels = errors.New("not enough models")

	// ErrFiducialOutOfRange indicates the requested fiducial index does not
	// address a model in the training set.
	ErrFiducialOutOfRange = errors.New("fiducial index out of range")

	// ErrInvalidDesign indicates a non-fiducial model varies zero parameters,
	// more than one parameter, or a parameter already varied by another model.
	ErrInvalidDesign = errors.New("invalid simulation design")
)

// Linear algebra errors.
var (
	// ErrSingularMatrix indicates a required solve or inversion met a
	// singular (or numerically unusable) matrix.
	ErrSingularMatrix = errors.New("singular matrix")
)

// Likelihood evaluation errors.
var (
	// ErrMissingCovariance indicates a covariance matrix was required but
	// not supplied.
	ErrMissingCovariance = errors.New("missing covariance matrix")

	// ErrMissingObserved indicates an observed feature was required but not
	// supplied.
	ErrMissingObserved = errors.New("missing observed feature")

	// ErrInvalidChunkCount indicates a chunk split that is not positive or
	// does not evenly divide the evaluation batch.
	ErrInvalidChunkCount = errors.New("invalid chunk count")

	// ErrNilLikelihood indicates an attempt to install a nil likelihood
	// function.
	ErrNilLikelihood = errors.New("nil likelihood function")
)

// Interpolation errors.
var (
	// ErrInterpolatorBuild indicates an interpolator could not be
	// constructed from its training nodes.
	ErrInterpolatorBuild = errors.New("interpolator build failed")

	// ErrUnknownKernel indicates an unrecognized radial basis kernel name.
	ErrUnknownKernel = errors.New("unknown kernel")
)

// Experiment design errors.
var (
	// ErrDuplicateParameter indicates a design parameter name was added twice.
	ErrDuplicateParameter = errors.New("duplicate design parameter")

	// ErrInvalidRange indicates a design parameter range with min >= max.
	ErrInvalidRange = errors.New("invalid parameter range")

	// ErrNoPoints indicates a design operation that requires points laid
	// down first, or too few points/dimensions for the operation.
	ErrNoPoints = errors.New("not enough design points")
)

// Snapshot decode errors.
var (
	// ErrInvalidMagicNumber indicates the payload does not start with the
	// lensfit snapshot magic.
	ErrInvalidMagicNumber = errors.New("invalid magic number")

	// ErrInvalidHeaderSize indicates a truncated snapshot header.
	ErrInvalidHeaderSize = errors.New("invalid header size")

	// ErrInvalidCompression indicates an unrecognized compression tag.
	ErrInvalidCompression = errors.New("invalid compression type")

	// ErrChecksumMismatch indicates the payload checksum does not match the
	// recorded one.
	ErrChecksumMismatch = errors.New("checksum mismatch")

	// ErrPayloadTruncated indicates the snapshot payload is shorter than the
	// header claims.
	ErrPayloadTruncated = errors.New("payload truncated")
)
