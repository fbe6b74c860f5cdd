package interp

import (
	"fmt"
	"log/slog"

	"github.com/cosmostat/lensfit/errs"
	"github.com/cosmostat/lensfit/internal/options"
)

// config collects the tunable parts of an RBF build.
type config struct {
	kernel  Kernel
	epsilon float64 // <= 0 selects the mean inter-node distance
	smooth  float64
	logger  *slog.Logger
}

func defaultConfig() config {
	return config{
		kernel:  KernelMultiquadric,
		epsilon: 0,
		smooth:  0,
	}
}

// Option configures an RBF build.
type Option = options.Option[*config]

// WithKernel selects the radial basis function. Default is multiquadric.
func WithKernel(k Kernel) Option {
	return options.New(func(c *config) error {
		if _, ok := kernelNames[k]; !ok {
			return fmt.Errorf("%w: %d", errs.ErrUnknownKernel, k)
		}
		c.kernel = k

		return nil
	})
}

// WithEpsilon sets the kernel shape parameter. By default it is derived from
// the mean distance between training nodes. Ignored by scale-free kernels.
func WithEpsilon(eps float64) Option {
	return options.New(func(c *config) error {
		if eps <= 0 {
			return fmt.Errorf("epsilon must be positive, got %g", eps)
		}
		c.epsilon = eps

		return nil
	})
}

// WithSmooth sets the smoothing factor. Zero (the default) forces exact
// interpolation at the training nodes; larger values relax the fit.
func WithSmooth(smooth float64) Option {
	return options.NoError(func(c *config) {
		c.smooth = smooth
	})
}

// WithLogger sets the logger used to report deferred build failures.
// Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return options.NoError(func(c *config) {
		c.logger = logger
	})
}
