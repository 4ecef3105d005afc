package search

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/bits-and-blooms/bitset"
	"golang.org/x/sync/errgroup"

	"github.com/jix/sortnetopt-gnp/internal/progress"
	"github.com/jix/sortnetopt-gnp/subsume"
)

// pruneStats summarizes one layer's pruning pass.
type pruneStats struct {
	admitted  int   // provisional survivors admitted by the workers
	confirmed int   // evicted again by the confirmation pass
	leafTests int64 // full matching-engine invocations (final index)
	skips     int64 // subtrees skipped by graph infeasibility (final index)
}

// pruneLayer reduces the candidate pool to its minimal elements.
//
// Workers share a read-only index snapshot (atomic pointer) and a
// serialized append log of admissions. The snapshot is rebuilt off the log
// once enough admissions accumulate, so later candidates benefit from
// earlier survivors without per-query locking. Admission order depends on
// scheduling; the sequential confirmation pass afterwards re-reduces the
// log in canonical order, which makes the result exact and deterministic.
func pruneLayer(ctx context.Context, pool []subsume.Pair[noItem], workers int, tracker *progress.Tracker) ([]subsume.Pair[noItem], pruneStats, error) {
	var (
		mu       sync.Mutex
		admitted []subsume.Pair[noItem]
		lastSnap int

		snap       atomic.Pointer[subsume.Index[noItem]]
		rebuilding atomic.Bool
		cursor     atomic.Int64
	)

	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			for {
				if err := gctx.Err(); err != nil {
					return err
				}
				i := int(cursor.Add(1) - 1)
				if i >= len(pool) {
					return nil
				}
				p := pool[i]

				if ix := snap.Load(); ix != nil && ix.Subsumes(p) {
					tracker.Add(1)
					continue
				}

				mu.Lock()
				admitted = append(admitted, p)
				var toIndex []subsume.Pair[noItem]
				if len(admitted)-lastSnap >= rebuildStep(lastSnap) && rebuilding.CompareAndSwap(false, true) {
					toIndex = append([]subsume.Pair[noItem](nil), admitted...)
					lastSnap = len(admitted)
				}
				mu.Unlock()

				if toIndex != nil {
					ix := subsume.NewIndex(subsume.Discard[noItem])
					for _, q := range toIndex {
						ix.Insert(q)
					}
					snap.Store(ix)
					rebuilding.Store(false)
				}
				tracker.Add(1)
			}
		})
	}
	if err := g.Wait(); err != nil {
		return nil, pruneStats{}, err
	}

	// Confirmation pass: every provisional survivor is re-checked against
	// the complete corpus, evicting anything admitted before a stronger
	// pruner became visible.
	sort.Slice(admitted, func(i, j int) bool {
		return admitted[i].Set.Compare(admitted[j].Set) < 0
	})

	final := subsume.NewIndex(subsume.Discard[noItem])
	evicted := bitset.New(uint(len(admitted)))
	for i, p := range admitted {
		if final.Insert(p) {
			evicted.Set(uint(i))
		}
	}
	final.ReduceAll()

	stats := pruneStats{
		admitted:  len(admitted),
		confirmed: len(admitted) - final.Len(),
	}
	fs := final.Stats()
	stats.leafTests = fs.LeafTests
	stats.skips = fs.SubtreeSkips
	if got := int(evicted.Count()); got > stats.confirmed {
		// ReduceAll can only evict more, never resurrect.
		panic("search: confirmation pass lost survivors")
	}

	survivors := make([]subsume.Pair[noItem], 0, final.Len())
	final.Drain(func(p subsume.Pair[noItem]) {
		survivors = append(survivors, p)
	})
	sort.Slice(survivors, func(i, j int) bool {
		return survivors[i].Set.Compare(survivors[j].Set) < 0
	})
	return survivors, stats, nil
}

// rebuildStep returns how many admissions beyond the last snapshot trigger
// a rebuild. Growing with the corpus keeps rebuild cost amortized.
func rebuildStep(snapshotSize int) int {
	if snapshotSize < 128 {
		return 32
	}
	return snapshotSize / 4
}
