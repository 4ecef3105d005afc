package outputset

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

func allPerms(n int) [][]int {
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	var out [][]int
	var walk func(i int)
	walk = func(i int) {
		if i == n {
			out = append(out, append([]int(nil), perm...))
			return
		}
		for j := i; j < n; j++ {
			perm[i], perm[j] = perm[j], perm[i]
			walk(i + 1)
			perm[i], perm[j] = perm[j], perm[i]
		}
	}
	walk(0)
	return out
}

func TestCanonicalPermutationInvariant(t *testing.T) {
	s := AllValues(4).
		ApplyComparator(0, 1).
		ApplyComparator(2, 3).
		ApplyComparator(1, 2)
	canon := s.Canonical()

	for _, perm := range allPerms(4) {
		got := s.PermuteChannels(perm).Canonical()
		assert.True(t, got.Equal(canon), "permutation %v changed the canonical form", perm)
	}
}

func TestCanonicalIdempotent(t *testing.T) {
	s := AllValues(5).ApplyComparator(0, 2).ApplyComparator(1, 4)
	canon := s.Canonical()
	assert.True(t, canon.Canonical().Equal(canon))
}

func TestCanonicalWeightsNonIncreasing(t *testing.T) {
	sets := []*Set{
		AllValues(4),
		AllValues(4).ApplyComparator(1, 3),
		AllValues(5).ApplyComparator(0, 1).ApplyComparator(2, 4),
	}
	for _, s := range sets {
		weights := s.Canonical().ChannelWeights()
		assert.True(t, sort.IsSorted(sort.Reverse(sort.IntSlice(weights))),
			"canonical weights %v not non-increasing", weights)
	}
}

func TestCanonicalMinimalInClass(t *testing.T) {
	// The canonical form is the Compare-minimum over the whole symmetry
	// class, as long as the residual tie groups are enumerable.
	s := AllValues(3).ApplyComparator(0, 1)
	canon := s.Canonical()
	for _, perm := range allPerms(3) {
		assert.LessOrEqual(t, canon.Compare(s.PermuteChannels(perm)), 0)
	}
}

func TestCanonicalDistinguishesClasses(t *testing.T) {
	a := AllValues(4).ApplyComparator(0, 1).Canonical()
	b := AllValues(4).ApplyComparator(0, 1).ApplyComparator(2, 3).Canonical()
	assert.False(t, a.Equal(b))
}
