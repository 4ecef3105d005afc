package search

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"time"

	"github.com/jix/sortnetopt-gnp/internal/progress"
	"github.com/jix/sortnetopt-gnp/outputset"
)

// ErrInvalidChannels is returned for a channel count outside
// 1..outputset.MaxChannels.
var ErrInvalidChannels = errors.New("channel count out of range")

// Options configure a run. The zero value is usable: all workers, no pool
// cap, no progress lines, discarded logs.
type Options struct {
	// Workers is the fixed worker-pool size; 0 means GOMAXPROCS.
	Workers int

	// MaxPoolSize caps a layer's candidate pool; 0 disables the cap.
	MaxPoolSize int

	// ProgressInterval throttles processed/total progress lines; 0
	// disables them.
	ProgressInterval time.Duration

	// Logger receives per-layer and progress output; nil discards.
	Logger *slog.Logger

	// OnLayer, if set, is invoked after every completed layer, in order.
	OnLayer func(LayerResult)
}

// LayerResult describes one finalized layer.
type LayerResult struct {
	Layer     int
	PoolSize  int
	Survivors int
	Sorted    bool // R_k contains the sorted output set
	Evicted   int  // provisional survivors removed by the confirmation pass
	Elapsed   time.Duration
}

// Result is the outcome of a full run.
type Result struct {
	Channels int
	Layers   []LayerResult

	// Bound is the first layer whose survivor set contains the sorted
	// output set: no network of fewer layers sorts, up to channel
	// symmetry. -1 when the run ended without reaching a sorted state.
	Bound int

	// EmptyAt is the layer index whose candidate pool was empty,
	// terminating the run.
	EmptyAt int
}

// Run computes the R_k sequence for the given channel count.
func Run(ctx context.Context, channels int, opts Options) (*Result, error) {
	if channels < 1 || channels > outputset.MaxChannels {
		return nil, fmt.Errorf("%w: %d (want 1..%d)", ErrInvalidChannels, channels, outputset.MaxChannels)
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	arena := NewArena()
	layers := outputset.EnumerateLayers(channels)
	logger.Info("run started",
		"channels", channels,
		"workers", workers,
		"layers_per_step", len(layers),
	)

	res := &Result{Channels: channels, Bound: -1}

	seed := outputset.AllValues(channels)
	current := []State{{Set: arena.Intern(seed), Depth: 0}}

	first := LayerResult{Layer: 0, Survivors: 1, Sorted: seed.IsSorted()}
	res.Layers = append(res.Layers, first)
	if first.Sorted {
		res.Bound = 0
	}
	emit(opts, first)

	for k := 1; ; k++ {
		start := time.Now()

		pool, err := generatePool(ctx, arena, current, layers, workers)
		if err != nil {
			return nil, err
		}
		if len(pool) == 0 {
			res.EmptyAt = k
			logger.Info("pool empty, run finished",
				"layer", k,
				"bound", res.Bound,
			)
			return res, nil
		}
		if opts.MaxPoolSize > 0 && len(pool) > opts.MaxPoolSize {
			return nil, &ErrPoolTooLarge{Layer: k, Size: len(pool), Limit: opts.MaxPoolSize}
		}

		pairs, err := buildPairs(ctx, pool, workers)
		if err != nil {
			return nil, err
		}

		tracker := progress.New(logger, fmt.Sprintf("layer %d", k), len(pairs), opts.ProgressInterval)
		survivors, stats, err := pruneLayer(ctx, pairs, workers, tracker)
		if err != nil {
			return nil, err
		}
		tracker.Finish()

		lr := LayerResult{
			Layer:     k,
			PoolSize:  len(pool),
			Survivors: len(survivors),
			Evicted:   stats.confirmed,
			Elapsed:   time.Since(start),
		}
		current = current[:0]
		for _, p := range survivors {
			if p.Set.IsSorted() {
				lr.Sorted = true
			}
			current = append(current, State{Set: arena.Intern(p.Set), Depth: k})
		}
		if lr.Sorted && res.Bound < 0 {
			res.Bound = k
		}
		res.Layers = append(res.Layers, lr)
		logger.Info("layer finalized",
			"layer", k,
			"pool", lr.PoolSize,
			"survivors", lr.Survivors,
			"evicted", lr.Evicted,
			"leaf_tests", stats.leafTests,
			"subtree_skips", stats.skips,
			"sorted", lr.Sorted,
			"elapsed", lr.Elapsed.Round(time.Millisecond),
		)
		emit(opts, lr)
	}
}

func emit(opts Options, lr LayerResult) {
	if opts.OnLayer != nil {
		opts.OnLayer(lr)
	}
}
