package kmsig

import (
	"log/slog"

	"github.com/hupe1980/kmsig/blobstore"
)

type options struct {
	input            blobstore.BlobStore
	output           blobstore.BlobStore
	metricsCollector MetricsCollector
	logger           *Logger
}

// Option configures a Clusterer.
type Option func(*options)

// WithStore reads and writes blobs through store. The default is a
// LocalStore rooted at the working directory.
func WithStore(store blobstore.BlobStore) Option {
	return func(o *options) {
		o.input = store
		if o.output == nil {
			o.output = store
		}
	}
}

// WithOutputStore writes outputs through store instead of the input store.
func WithOutputStore(store blobstore.BlobStore) Option {
	return func(o *options) {
		o.output = store
	}
}

// WithMetricsCollector sets the metrics collector.
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		o.metricsCollector = mc
	}
}

// WithLogger sets the logger.
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithLogLevel uses a text logger at level.
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

func applyOptions(optFns []Option) options {
	var o options
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}

	if o.input == nil {
		o.input = blobstore.NewLocalStore(".")
	}
	if o.output == nil {
		o.output = o.input
	}
	if o.metricsCollector == nil {
		o.metricsCollector = NoopMetricsCollector{}
	}
	if o.logger == nil {
		o.logger = NoopLogger()
	}
	return o
}
