package kmeans

import (
	"io"
	"log/slog"
	"time"
)

type options struct {
	logger  *slog.Logger
	metrics MetricsObserver
	seed    uint64
	seeded  bool
	weights []float64
}

// Option configures a KMeans engine.
type Option func(*options)

// WithLogger sets the logger. Rounds are logged at debug level and run
// summaries at info level.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithMetricsObserver sets the metrics observer.
func WithMetricsObserver(observer MetricsObserver) Option {
	return func(o *options) {
		if observer != nil {
			o.metrics = observer
		}
	}
}

// WithSeed makes seeding, annealing and repair reproducible.
func WithSeed(seed uint64) Option {
	return func(o *options) {
		o.seed = seed
		o.seeded = true
	}
}

// WithWeights sets per-vector prototype weights, aligned with the dataset
// passed to Cluster. nil means uniform.
func WithWeights(weights []float64) Option {
	return func(o *options) {
		o.weights = weights
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		metrics: NoopMetricsObserver{},
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	if !o.seeded {
		o.seed = uint64(time.Now().UnixNano())
	}
	return o
}
