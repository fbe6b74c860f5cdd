package analysis

import (
	"fmt"

	"github.com/cosmostat/lensfit/errs"
	"github.com/cosmostat/lensfit/internal/options"
	"github.com/cosmostat/lensfit/interp"
)

// trainConfig collects the Train options.
type trainConfig struct {
	useParameters []int // nil selects every parameter column
	interpOpts    []interp.Option
}

// TrainOption configures LikelihoodAnalysis.Train.
type TrainOption = options.Option[*trainConfig]

func applyTrainOptions(cfg *trainConfig, opts ...TrainOption) error {
	return options.Apply(cfg, opts...)
}

// UseParameters restricts training to the given parameter columns, in the
// given order. Prediction points must then live in that subspace. The
// indices are validated against the analysis when Train runs.
func UseParameters(indices ...int) TrainOption {
	return options.New(func(cfg *trainConfig) error {
		if len(indices) == 0 {
			return fmt.Errorf("%w: empty parameter selection", errs.ErrShapeMismatch)
		}
		cfg.useParameters = append([]int(nil), indices...)

		return nil
	})
}

// WithInterpolatorOptions forwards options (kernel, epsilon, smoothing,
// logger) to every per-bin interpolator build.
func WithInterpolatorOptions(opts ...interp.Option) TrainOption {
	return options.NoError(func(cfg *trainConfig) {
		cfg.interpOpts = append(cfg.interpOpts, opts...)
	})
}

// chi2Config collects the Chi2 options.
type chi2Config struct {
	splitChunks int // 0 means no chunking
	pool        Pool
}

// Chi2Option configures LikelihoodAnalysis.Chi2.
type Chi2Option = options.Option[*chi2Config]

func applyChi2Options(cfg *chi2Config, opts ...Chi2Option) error {
	return options.Apply(cfg, opts...)
}

// SplitChunks partitions the parameter batch into n equal contiguous chunks.
// n must be positive and must evenly divide the batch size.
func SplitChunks(n int) Chi2Option {
	return options.New(func(cfg *chi2Config) error {
		if n <= 0 {
			return fmt.Errorf("%w: split chunks must be positive, got %d", errs.ErrInvalidChunkCount, n)
		}
		cfg.splitChunks = n

		return nil
	})
}

// WithPool distributes the chunks to the given pool instead of evaluating
// them sequentially.
func WithPool(pool Pool) Chi2Option {
	return options.NoError(func(cfg *chi2Config) {
		cfg.pool = pool
	})
}
