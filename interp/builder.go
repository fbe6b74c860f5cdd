package interp

import (
	"log/slog"

	"github.com/cosmostat/lensfit/internal/options"
)

// Builder captures the inputs of an RBF build so construction can be
// deferred and repeated. A likelihood analysis holds one Builder per feature
// bin; a worker that receives a copy of the bank can materialize its own
// interpolators without sharing solver state with other workers.
//
// Materialize is a pure function of the captured inputs: the same Builder
// always produces the same interpolant.
type Builder struct {
	nodes  [][]float64
	values []float64
	opts   []Option
	logger *slog.Logger
}

// NewBuilder captures nodes, values and build options for later
// materialization. The slices are retained, not copied; callers must not
// mutate them afterwards.
func NewBuilder(nodes [][]float64, values []float64, opts ...Option) Builder {
	// Peek at the options for the logger so build failures can be reported
	// even when New never gets far enough to see the config.
	var cfg config
	_ = options.Apply(&cfg, opts...)

	return Builder{
		nodes:  nodes,
		values: values,
		opts:   opts,
		logger: cfg.logger,
	}
}

// Materialize builds the interpolator. A failure is logged with the node
// count and dimensionality before the error is returned, since the build may
// run inside a worker far from the code that assembled the bank.
func (b Builder) Materialize() (*RBF, error) {
	rbf, err := New(b.nodes, b.values, b.opts...)
	if err != nil {
		logger := b.logger
		if logger == nil {
			logger = slog.Default()
		}

		dim := 0
		if len(b.nodes) > 0 {
			dim = len(b.nodes[0])
		}
		logger.Error("interpolator build failed",
			slog.Int("nodes", len(b.nodes)),
			slog.Int("dimensions", dim),
			slog.Any("error", err),
		)

		return nil, err
	}

	return rbf, nil
}
