package subsume

import (
	"fmt"
	"math/bits"
	"sort"
	"sync/atomic"

	"github.com/jix/sortnetopt-gnp/internal/matching"
	"github.com/jix/sortnetopt-gnp/outputset"
)

// Pair couples an output set with its abstraction statistics and a caller
// item carrying provenance (depth, path counts, ...).
type Pair[T any] struct {
	Set  *outputset.Set
	Abs  *outputset.Abstraction
	Item T
}

// NewPair computes the abstraction for the given set.
func NewPair[T any](s *outputset.Set, item T) Pair[T] {
	return Pair[T]{Set: s, Abs: outputset.NewAbstraction(s), Item: item}
}

// Combine merges the item of an absorbed pair into the item of the member
// that subsumed it. perm is the channel relabeling that witnessed the
// subsumption (member channel i corresponds to absorbed channel perm[i]).
type Combine[T any] func(perm []int, into, from T) T

// Discard is a Combine for items that carry no provenance.
func Discard[T any](_ []int, into, _ T) T { return into }

// AddCounts is a Combine for path-count items.
func AddCounts(_ []int, into, from uint64) uint64 { return into + from }

// Stats are cumulative counters over the life of an index.
type Stats struct {
	Members      int
	Trees        int
	LeafTests    int64
	SubtreeSkips int64
}

// Index holds the current minimal elements. It is not safe for concurrent
// mutation; read-only queries (Subsumes) may run concurrently with each
// other as long as no Insert or ReduceAll is in flight.
type Index[T any] struct {
	combine Combine[T]
	trees   []*node[T]
	size    int

	leafTests    atomic.Int64
	subtreeSkips atomic.Int64
}

// NewIndex creates an empty index with the given item merge rule.
func NewIndex[T any](combine Combine[T]) *Index[T] {
	return &Index[T]{combine: combine}
}

// Len returns the number of members currently held.
func (ix *Index[T]) Len() int { return ix.size }

// Stats returns a snapshot of the index counters.
func (ix *Index[T]) Stats() Stats {
	return Stats{
		Members:      ix.size,
		Trees:        len(ix.trees),
		LeafTests:    ix.leafTests.Load(),
		SubtreeSkips: ix.subtreeSkips.Load(),
	}
}

// Insert adds the pair unless an existing member subsumes it, in which
// case the pair's item is merged into that member and Insert reports true.
func (ix *Index[T]) Insert(p Pair[T]) (absorbed bool) {
	channels := p.Set.Channels()
	for _, tree := range ix.trees {
		var ok bool
		p, ok = ix.combineInto(tree, p, matching.New(channels))
		if ok {
			return true
		}
	}
	ix.size++
	ix.trees = append(ix.trees, &node[T]{pair: p})
	ix.mergeTrees(false)
	return false
}

// Subsumes reports whether some member subsumes the pair, without touching
// the index. Safe to call concurrently between mutations.
func (ix *Index[T]) Subsumes(p Pair[T]) bool {
	channels := p.Set.Channels()
	for _, tree := range ix.trees {
		if ix.query(tree, p, matching.New(channels)) {
			return true
		}
	}
	return false
}

// ReduceAll merges the whole forest into one tree, testing every older
// member against every newer one. Afterwards the index holds exactly the
// minimal elements of everything ever inserted.
func (ix *Index[T]) ReduceAll() {
	ix.mergeTrees(true)
}

// Drain hands every remaining pair to fn and empties the index.
func (ix *Index[T]) Drain(fn func(Pair[T])) {
	trees := ix.trees
	ix.trees = nil
	ix.size = 0
	for _, tree := range trees {
		drainNode(tree, fn)
	}
}

type node[T any] struct {
	pair     Pair[T]     // leaf payload
	abs      *outputset.Abstraction // inner: pointwise minimum over the subtree
	children []*node[T]  // nil for leaves, length 2 otherwise
	size     int
}

func (n *node[T]) leaf() bool { return n.children == nil }

func (n *node[T]) count() int {
	if n.leaf() {
		return 1
	}
	return n.size
}

func (n *node[T]) abstraction() *outputset.Abstraction {
	if n.leaf() {
		return n.pair.Abs
	}
	return n.abs
}

// newNode builds a balanced subtree, splitting the pairs on the
// abstraction statistic with the largest min/max range.
func newNode[T any](pairs []Pair[T]) *node[T] {
	if len(pairs) == 0 {
		panic("subsume: empty node")
	}
	if len(pairs) == 1 {
		return &node[T]{pair: pairs[0]}
	}

	minAbs := pairs[0].Abs.Clone()
	maxAbs := pairs[0].Abs.Clone()
	for _, p := range pairs[1:] {
		minAbs.UpdateMin(p.Abs)
		maxAbs.UpdateMax(p.Abs)
	}

	split, _ := minAbs.LargestRange(maxAbs)
	sort.SliceStable(pairs, func(i, j int) bool {
		return pairs[i].Abs.Counts()[split] < pairs[j].Abs.Counts()[split]
	})

	mid := len(pairs) / 2
	lo := append([]Pair[T](nil), pairs[:mid]...)
	hi := append([]Pair[T](nil), pairs[mid:]...)

	return &node[T]{
		abs:      minAbs,
		children: []*node[T]{newNode(lo), newNode(hi)},
		size:     len(pairs),
	}
}

func drainNode[T any](n *node[T], fn func(Pair[T])) {
	if n.leaf() {
		fn(n.pair)
		return
	}
	drainNode(n.children[0], fn)
	drainNode(n.children[1], fn)
}

// mergeTrees keeps the forest weight-balanced: the last two trees are
// merged whenever the newer one has grown at least as large as the older,
// or unconditionally when all is set. Merging drains the older tree
// through the newer one so both subsumption directions get tested.
func (ix *Index[T]) mergeTrees(all bool) {
	for len(ix.trees) >= 2 {
		k := len(ix.trees)
		if !all && ix.trees[k-2].count() > ix.trees[k-1].count() {
			return
		}

		last := ix.trees[k-1]
		older := ix.trees[k-2]
		ix.trees = ix.trees[:k-2]
		ix.size -= last.count() + older.count()

		var pairs []Pair[T]
		drainNode(older, func(p Pair[T]) {
			var ok bool
			p, ok = ix.combineInto(last, p, matching.New(p.Set.Channels()))
			if !ok {
				pairs = append(pairs, p)
			}
		})
		drainNode(last, func(p Pair[T]) {
			pairs = append(pairs, p)
		})

		merged := newNode(pairs)
		ix.size += merged.count()
		ix.trees = append(ix.trees, merged)
	}
}

// combineInto descends the subtree carrying the compatibility graph for
// "any member below this node". Returns the (possibly restored) pair and
// whether some member absorbed it.
func (ix *Index[T]) combineInto(n *node[T], p Pair[T], g *matching.Graph) (Pair[T], bool) {
	nodeAbs := n.abstraction()
	if g.Filter(func(a, b int) bool {
		return nodeAbs.ChannelLE(a, p.Abs, b)
	}) {
		ix.subtreeSkips.Add(1)
		return p, false
	}

	if n.leaf() {
		channels := n.pair.Set.Channels()
		perm := make([]int, channels)
		for i := range perm {
			perm[i] = i
		}
		return ix.combinePermuted(n, p, perm, g)
	}

	p, ok := ix.combineInto(n.children[0], p, g.Clone())
	if ok {
		return p, true
	}
	return ix.combineInto(n.children[1], p, g)
}

// combinePermuted runs the matching search at a leaf: forced assignments
// are applied as channel swaps on the candidate; once every channel is
// uniquely matched the concrete containment check decides; otherwise the
// search branches on the most constrained channel with a cloned graph per
// branch.
func (ix *Index[T]) combinePermuted(leaf *node[T], p Pair[T], perm []int, g *matching.Graph) (Pair[T], bool) {
	channels := leaf.pair.Set.Channels()
	origSet, origAbs := p.Set, p.Abs

	uniqueMatched := 0
	for a := 0; a < channels; a++ {
		b, ok := g.UniqueMatch(a)
		if !ok {
			continue
		}
		uniqueMatched++
		if b != a {
			g.SwapB(b, a)
			perm[b], perm[a] = perm[a], perm[b]
			p.Abs = p.Abs.SwapChannels(b, a)
			p.Set = p.Set.SwapChannels(b, a)
		}
	}

	if uniqueMatched == channels {
		ix.leafTests.Add(1)
		if leaf.pair.Set.SubsetOf(p.Set) {
			leaf.pair.Item = ix.combine(append([]int(nil), perm...), leaf.pair.Item, p.Item)
			return p, true
		}
	} else {
		sideA, countA := mostConstrainedRow(g, channels, (*matching.Graph).RowA)
		sideB, countB := mostConstrainedRow(g, channels, (*matching.Graph).RowB)
		if countA <= countB {
			for b := 0; b < channels; b++ {
				next := g.Clone()
				if next.Select(sideA, b) {
					continue
				}
				branchPerm := append([]int(nil), perm...)
				var ok bool
				p, ok = ix.combinePermuted(leaf, p, branchPerm, next)
				if ok {
					return p, true
				}
			}
		} else {
			for a := 0; a < channels; a++ {
				next := g.Clone()
				if next.Select(a, sideB) {
					continue
				}
				branchPerm := append([]int(nil), perm...)
				var ok bool
				p, ok = ix.combinePermuted(leaf, p, branchPerm, next)
				if ok {
					return p, true
				}
			}
		}
	}

	p.Set, p.Abs = origSet, origAbs
	return p, false
}

// query is the read-only counterpart of combineInto.
func (ix *Index[T]) query(n *node[T], p Pair[T], g *matching.Graph) bool {
	nodeAbs := n.abstraction()
	if g.Filter(func(a, b int) bool {
		return nodeAbs.ChannelLE(a, p.Abs, b)
	}) {
		ix.subtreeSkips.Add(1)
		return false
	}

	if n.leaf() {
		return ix.queryLeaf(n, p, g)
	}

	if ix.query(n.children[0], p, g.Clone()) {
		return true
	}
	return ix.query(n.children[1], p, g)
}

func (ix *Index[T]) queryLeaf(leaf *node[T], p Pair[T], g *matching.Graph) bool {
	channels := leaf.pair.Set.Channels()

	uniqueMatched := 0
	for a := 0; a < channels; a++ {
		b, ok := g.UniqueMatch(a)
		if !ok {
			continue
		}
		uniqueMatched++
		if b != a {
			g.SwapB(b, a)
			p.Abs = p.Abs.SwapChannels(b, a)
			p.Set = p.Set.SwapChannels(b, a)
		}
	}

	if uniqueMatched == channels {
		ix.leafTests.Add(1)
		return leaf.pair.Set.SubsetOf(p.Set)
	}

	sideA, countA := mostConstrainedRow(g, channels, (*matching.Graph).RowA)
	sideB, countB := mostConstrainedRow(g, channels, (*matching.Graph).RowB)
	if countA <= countB {
		for b := 0; b < channels; b++ {
			next := g.Clone()
			if next.Select(sideA, b) {
				continue
			}
			if ix.queryLeaf(leaf, p, next) {
				return true
			}
		}
		return false
	}
	for a := 0; a < channels; a++ {
		next := g.Clone()
		if next.Select(a, sideB) {
			continue
		}
		if ix.queryLeaf(leaf, p, next) {
			return true
		}
	}
	return false
}

// mostConstrainedRow picks the channel with the fewest (but more than one)
// remaining partners on one side. A feasible graph that is not fully
// unique-matched always has such a row; anything else is an invariant
// violation.
func mostConstrainedRow(g *matching.Graph, channels int, row func(*matching.Graph, int) uint16) (channel, count int) {
	count = channels + 1
	channel = -1
	for c := 0; c < channels; c++ {
		n := bits.OnesCount16(row(g, c))
		if n > 1 && n < count {
			count = n
			channel = c
		}
	}
	if channel == -1 {
		panic(fmt.Sprintf("subsume: feasible graph with no branchable row (%d channels)", channels))
	}
	return channel, count
}
