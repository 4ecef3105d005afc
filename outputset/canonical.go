package outputset

import (
	"bytes"
	"encoding/binary"
)

// maxCanonicalPerms caps the number of channel orderings explored while
// minimizing over a symmetry class. The cap only depends on the set itself,
// so canonicalization stays deterministic even when it falls back to the
// invariant-sorted ordering.
const maxCanonicalPerms = 1 << 16

// Canonical returns the deterministic representative of the set's symmetry
// class: channels are ordered by descending weight, ties are refined by the
// relabeling-invariant abstraction column of each channel, and any residual
// tie group is resolved by exhaustively minimizing the result under the
// total order of Compare.
//
// Two sets are symmetry-equivalent exactly when their canonical forms are
// equal, provided the residual tie groups stay under maxCanonicalPerms
// orderings (always the case once channels have differentiated; the fully
// symmetric R_0 seed is unique anyway). Beyond the cap the result is still
// deterministic but two equivalent sets may come out unequal, so callers
// deduplicating by canonical form only shed work, never correctness:
// equivalent sets mutually subsume, so the pruning index absorbs any
// duplicate the dedup missed and the survivor count is unaffected.
func (s *Set) Canonical() *Set {
	weights := s.ChannelWeights()
	abs := NewAbstraction(s)

	order := weightOrder(weights)
	// Refine equal-weight runs by the per-channel abstraction column.
	keys := make([][]byte, s.channels)
	for c := 0; c < s.channels; c++ {
		var buf bytes.Buffer
		binary.Write(&buf, binary.BigEndian, uint32(^uint32(0)-uint32(weights[c]))) //nolint:errcheck // bytes.Buffer cannot fail
		for _, v := range abs.channelColumn(c) {
			binary.Write(&buf, binary.BigEndian, v) //nolint:errcheck
		}
		keys[c] = buf.Bytes()
	}
	sortByKey(order, keys)

	groups := tieGroups(order, keys)

	total := 1
	for _, g := range groups {
		total *= factorial(len(g))
		if total > maxCanonicalPerms {
			// Residual symmetry too large to enumerate; the invariant-sorted
			// ordering is still deterministic.
			return s.PermuteChannels(order)
		}
	}
	if total == 1 {
		return s.PermuteChannels(order)
	}

	best := s.PermuteChannels(order)
	perm := make([]int, len(order))
	copy(perm, order)
	minimizeGroups(s, perm, groups, 0, &best)
	return best
}

// minimizeGroups walks every ordering of the tie groups, keeping the
// permuted set that is minimal under Compare.
func minimizeGroups(s *Set, perm []int, groups [][]int, gi int, best **Set) {
	if gi == len(groups) {
		cand := s.PermuteChannels(perm)
		if cand.Compare(*best) < 0 {
			*best = cand
		}
		return
	}
	g := groups[gi]
	if len(g) == 1 {
		minimizeGroups(s, perm, groups, gi+1, best)
		return
	}
	permuteGroup(s, perm, groups, gi, g, 0, best)
}

// permuteGroup generates the orderings of one tie group in place
// (Heap-style swaps over the group's positions in perm).
func permuteGroup(s *Set, perm []int, groups [][]int, gi int, positions []int, i int, best **Set) {
	if i == len(positions) {
		minimizeGroups(s, perm, groups, gi+1, best)
		return
	}
	for j := i; j < len(positions); j++ {
		pi, pj := positions[i], positions[j]
		perm[pi], perm[pj] = perm[pj], perm[pi]
		permuteGroup(s, perm, groups, gi, positions, i+1, best)
		perm[pi], perm[pj] = perm[pj], perm[pi]
	}
}

// tieGroups splits the ordered channel list into runs with identical keys,
// returning the positions (indexes into order) of each run of length >= 1.
func tieGroups(order []int, keys [][]byte) [][]int {
	var groups [][]int
	start := 0
	for i := 1; i <= len(order); i++ {
		if i == len(order) || !bytes.Equal(keys[order[i]], keys[order[start]]) {
			group := make([]int, 0, i-start)
			for p := start; p < i; p++ {
				group = append(group, p)
			}
			groups = append(groups, group)
			start = i
		}
	}
	return groups
}

func sortByKey(order []int, keys [][]byte) {
	// Insertion sort keeps the weight-major order stable; n <= 15.
	for i := 1; i < len(order); i++ {
		for j := i; j > 0 && bytes.Compare(keys[order[j]], keys[order[j-1]]) < 0; j-- {
			order[j], order[j-1] = order[j-1], order[j]
		}
	}
}

func factorial(n int) int {
	f := 1
	for i := 2; i <= n; i++ {
		f *= i
	}
	return f
}
