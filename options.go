package sortnetopt

import (
	"time"

	"github.com/jix/sortnetopt-gnp/search"
)

type options struct {
	workers          int
	maxPoolSize      int
	progressInterval time.Duration
	logger           *Logger
	onLayer          func(search.LayerResult)
}

// Option configures the Search constructor.
type Option func(*options)

// WithWorkers fixes the worker-pool size for generation and pruning.
// Values below 1 fall back to GOMAXPROCS. The result is independent of the
// worker count; only throughput changes.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// WithMaxPoolSize caps the candidate pool of any single layer. A layer
// exceeding the cap aborts the run with ErrPoolTooLarge instead of
// exhausting memory. Zero disables the cap.
func WithMaxPoolSize(n int) Option {
	return func(o *options) {
		o.maxPoolSize = n
	}
}

// WithProgressInterval enables processed/total progress lines during
// pruning, emitted at most once per interval. Zero disables them.
func WithProgressInterval(d time.Duration) Option {
	return func(o *options) {
		o.progressInterval = d
	}
}

// WithLogger routes run and progress output through the given logger.
// Nil discards all output.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithLayerCallback streams every finalized layer to fn, in order.
func WithLayerCallback(fn func(search.LayerResult)) Option {
	return func(o *options) {
		o.onLayer = fn
	}
}
