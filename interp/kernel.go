package interp

import (
	"fmt"
	"math"
	"strings"

	"github.com/cosmostat/lensfit/errs"
)

// Kernel selects the radial basis function used by an RBF interpolator.
type Kernel uint8

const (
	// KernelMultiquadric is sqrt((r/eps)^2 + 1), the default.
	KernelMultiquadric Kernel = iota
	// KernelInverseMultiquadric is 1/sqrt((r/eps)^2 + 1).
	KernelInverseMultiquadric
	// KernelGaussian is exp(-(r/eps)^2).
	KernelGaussian
	// KernelLinear is r. Scale-free.
	KernelLinear
	// KernelCubic is r^3. Scale-free.
	KernelCubic
	// KernelThinPlate is r^2 * ln(r), with the removable singularity at
	// r=0 evaluated as 0. Scale-free.
	KernelThinPlate
)

var kernelNames = map[Kernel]string{
	KernelMultiquadric:        "multiquadric",
	KernelInverseMultiquadric: "inverse-multiquadric",
	KernelGaussian:            "gaussian",
	KernelLinear:              "linear",
	KernelCubic:               "cubic",
	KernelThinPlate:           "thin-plate",
}

// String returns the canonical kernel name.
func (k Kernel) String() string {
	if name, ok := kernelNames[k]; ok {
		return name
	}

	return "unknown"
}

// KernelFromString returns the Kernel for a canonical name (case-insensitive).
func KernelFromString(name string) (Kernel, error) {
	for kernel, kname := range kernelNames {
		if kname == strings.ToLower(name) {
			return kernel, nil
		}
	}

	return 0, fmt.Errorf("%w: %q", errs.ErrUnknownKernel, name)
}

// eval evaluates the basis function at radius r with shape parameter eps.
// Scale-free kernels ignore eps.
func (k Kernel) eval(r, eps float64) float64 {
	switch k {
	case KernelMultiquadric:
		s := r / eps
		return math.Sqrt(s*s + 1)
	case KernelInverseMultiquadric:
		s := r / eps
		return 1 / math.Sqrt(s*s+1)
	case KernelGaussian:
		s := r / eps
		return math.Exp(-s * s)
	case KernelLinear:
		return r
	case KernelCubic:
		return r * r * r
	case KernelThinPlate:
		if r == 0 {
			return 0
		}

		return r * r * math.Log(r)
	default:
		return math.NaN()
	}
}

// scaleFree reports whether the kernel ignores the shape parameter.
func (k Kernel) scaleFree() bool {
	switch k {
	case KernelLinear, KernelCubic, KernelThinPlate:
		return true
	default:
		return false
	}
}
