package sortnetopt

import (
	"context"
	"fmt"

	"github.com/jix/sortnetopt-gnp/outputset"
	"github.com/jix/sortnetopt-gnp/search"
)

// Search is the configured entry point of the engine. A Search is
// stateless between runs; the same instance may run several channel
// counts.
type Search struct {
	opts options
}

// Result re-exports the driver result for callers of this package.
type Result = search.Result

// LayerResult re-exports the per-layer record.
type LayerResult = search.LayerResult

// New creates a Search with the given options.
func New(optFns ...Option) *Search {
	var o options
	for _, fn := range optFns {
		fn(&o)
	}
	if o.logger == nil {
		o.logger = NoopLogger()
	}
	return &Search{opts: o}
}

// Run computes the R_k sequence for the given channel count and returns
// the per-layer results together with the established bound. The run is
// deterministic: identical inputs yield identical results regardless of
// the worker count or scheduling.
func (s *Search) Run(ctx context.Context, channels int) (*Result, error) {
	if channels < 1 || channels > outputset.MaxChannels {
		return nil, fmt.Errorf("%w: %d (want 1..%d)", ErrInvalidChannels, channels, outputset.MaxChannels)
	}

	res, err := search.Run(ctx, channels, search.Options{
		Workers:          s.opts.workers,
		MaxPoolSize:      s.opts.maxPoolSize,
		ProgressInterval: s.opts.progressInterval,
		Logger:           s.opts.logger.Logger,
		OnLayer:          s.opts.onLayer,
	})
	if err != nil {
		return nil, translateError(err)
	}
	return res, nil
}
