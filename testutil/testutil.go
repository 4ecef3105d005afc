package testutil

import (
	"math/rand"
	"sort"
	"sync"

	"github.com/jix/sortnetopt-gnp/outputset"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Uint16 returns a pseudo-random uint16.
func (r *RNG) Uint16() uint16 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return uint16(r.rand.Uint32())
}

// Perm returns a pseudo-random permutation of [0,n).
func (r *RNG) Perm(n int) []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Perm(n)
}

// RandomSet builds a random output set on the given channel count. Every
// value of the full set survives with probability keep; the sorted
// vectors always survive so the set stays plausible.
func (r *RNG) RandomSet(channels int, keep float64) *outputset.Set {
	r.mu.Lock()
	defer r.mu.Unlock()

	var values []uint16
	for _, v := range outputset.AllValues(channels).Values() {
		sorted := v&(v+1) == 0
		if sorted || r.rand.Float64() < keep {
			values = append(values, v)
		}
	}
	return outputset.FromValues(channels, values...)
}

// Permutations enumerates all permutations of [0,n) in lexicographic
// order. The returned slices are independent copies.
func Permutations(n int) [][]int {
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}

	var out [][]int
	for {
		out = append(out, append([]int(nil), perm...))
		// Next lexicographic permutation.
		i := n - 2
		for i >= 0 && perm[i] >= perm[i+1] {
			i--
		}
		if i < 0 {
			return out
		}
		j := n - 1
		for perm[j] <= perm[i] {
			j--
		}
		perm[i], perm[j] = perm[j], perm[i]
		for l, r := i+1, n-1; l < r; l, r = l+1, r-1 {
			perm[l], perm[r] = perm[r], perm[l]
		}
	}
}

// Absorbs reports whether m subsumes c: some channel relabeling of c
// contains every output of m. This is the O(n!) definition that the
// indexed matching test is validated against.
func Absorbs(m, c *outputset.Set) bool {
	_, ok := AbsorbWitness(m, c)
	return ok
}

// AbsorbWitness returns the first permutation perm (in lexicographic
// order) with m ⊆ c.PermuteChannels(perm), if any.
func AbsorbWitness(m, c *outputset.Set) ([]int, bool) {
	for _, perm := range Permutations(c.Channels()) {
		if m.SubsetOf(c.PermuteChannels(perm)) {
			return perm, true
		}
	}
	return nil, false
}

// Reference holds the outcome of a brute-force layer search.
type Reference struct {
	// Sizes[k] is the survivor count after k layers; Sizes[0] is 1.
	Sizes []int

	// Bound is the first layer whose survivors include the sorted set,
	// 0 if the search stopped before reaching it.
	Bound int

	// EmptyAt is the first layer with an empty candidate pool, 0 if the
	// sorted set was reached first.
	EmptyAt int
}

// ReferenceRun executes the layer search by exhaustive enumeration,
// pruning with the factorial Absorbs test instead of the subsumption
// index. Only feasible for small channel counts.
func ReferenceRun(channels int) Reference {
	layers := outputset.EnumerateLayers(channels)
	survivors := []*outputset.Set{outputset.AllValues(channels).Canonical()}
	ref := Reference{Sizes: []int{1}}

	for k := 1; ; k++ {
		seen := make(map[string]struct{})
		var pool []*outputset.Set
		for _, s := range survivors {
			for _, l := range layers {
				next := s.Apply(l)
				if next.Equal(s) {
					continue
				}
				c := next.Canonical()
				fp := c.Fingerprint()
				if _, ok := seen[fp]; ok {
					continue
				}
				seen[fp] = struct{}{}
				pool = append(pool, c)
			}
		}
		if len(pool) == 0 {
			ref.EmptyAt = k
			return ref
		}
		sort.Slice(pool, func(i, j int) bool { return pool[i].Compare(pool[j]) < 0 })

		var kept []*outputset.Set
	insert:
		for _, c := range pool {
			for _, m := range kept {
				if Absorbs(m, c) {
					continue insert
				}
			}
			live := kept[:0]
			for _, m := range kept {
				if !Absorbs(c, m) {
					live = append(live, m)
				}
			}
			kept = append(live, c)
		}

		survivors = kept
		ref.Sizes = append(ref.Sizes, len(kept))
		for _, s := range kept {
			if s.IsSorted() {
				ref.Bound = k
				return ref
			}
		}
	}
}
