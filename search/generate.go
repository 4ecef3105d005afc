package search

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/jix/sortnetopt-gnp/outputset"
	"github.com/jix/sortnetopt-gnp/subsume"
)

// noItem is the provenance type of driver pairs; |R_k| only needs the
// sets themselves.
type noItem = struct{}

// ErrPoolTooLarge is returned when a layer's candidate pool exceeds the
// configured cap before pruning. This is the practical resource-exhaustion
// guard: the pool is the largest allocation of a layer.
type ErrPoolTooLarge struct {
	Layer int
	Size  int
	Limit int
}

func (e *ErrPoolTooLarge) Error() string {
	return fmt.Sprintf("candidate pool of layer %d exceeds limit: %d > %d", e.Layer, e.Size, e.Limit)
}

// generatePool extends every survivor of the previous layer with every
// enumerated layer, skipping no-op extensions, and returns the canonical,
// exactly deduplicated candidate pool in the deterministic total order.
func generatePool(ctx context.Context, arena *Arena, states []State, layers []outputset.Layer, workers int) ([]*outputset.Set, error) {
	var (
		mu   sync.Mutex
		seen = make(map[string]*outputset.Set)
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, st := range states {
		st := st
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			parent := arena.Get(st.Set)
			local := make(map[string]*outputset.Set)
			for _, layer := range layers {
				next := parent.Apply(layer)
				if next.Equal(parent) {
					// A layer that changes nothing cannot lie on a minimal
					// path; skipping it also terminates sorted states.
					continue
				}
				canon := next.Canonical()
				local[canon.Fingerprint()] = canon
			}
			mu.Lock()
			for k, v := range local {
				seen[k] = v
			}
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	pool := make([]*outputset.Set, 0, len(seen))
	for _, s := range seen {
		pool = append(pool, s)
	}
	sort.Slice(pool, func(i, j int) bool {
		return pool[i].Compare(pool[j]) < 0
	})
	return pool, nil
}

// buildPairs computes the abstraction statistics for a pool, in parallel.
func buildPairs(ctx context.Context, pool []*outputset.Set, workers int) ([]subsume.Pair[noItem], error) {
	pairs := make([]subsume.Pair[noItem], len(pool))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	chunk := (len(pool) + workers - 1) / workers
	for lo := 0; lo < len(pool); lo += chunk {
		hi := min(lo+chunk, len(pool))
		lo := lo
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			for i := lo; i < hi; i++ {
				pairs[i] = subsume.NewPair(pool[i], noItem{})
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return pairs, nil
}
