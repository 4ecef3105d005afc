package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jix/sortnetopt-gnp/outputset"
)

func TestPermutations(t *testing.T) {
	perms := Permutations(3)
	require.Len(t, perms, 6)
	assert.Equal(t, []int{0, 1, 2}, perms[0])
	assert.Equal(t, []int{2, 1, 0}, perms[5])

	seen := make(map[string]struct{})
	for _, p := range perms {
		seen[fmtPerm(p)] = struct{}{}
	}
	assert.Len(t, seen, 6)
}

func fmtPerm(p []int) string {
	b := make([]byte, len(p))
	for i, v := range p {
		b[i] = byte('0' + v)
	}
	return string(b)
}

func TestAbsorbs(t *testing.T) {
	sorted := outputset.FromValues(3, 0, 1, 3, 7)
	all := outputset.AllValues(3)

	assert.True(t, Absorbs(sorted, all))
	assert.False(t, Absorbs(all, sorted))

	// Containment that only exists under a relabeling.
	m := outputset.FromValues(2, 0, 1)
	c := outputset.FromValues(2, 0, 2)
	assert.True(t, Absorbs(m, c))
}

// grow returns a relabeled superset of s with extra random values added,
// so Absorbs(s, grow(s)) holds by construction.
func grow(rng *RNG, s *outputset.Set, extra int) *outputset.Set {
	channels := s.Channels()
	values := s.Values()
	present := make(map[uint16]struct{}, len(values))
	for _, v := range values {
		present[v] = struct{}{}
	}
	for len(present) < len(values)+extra && len(present) < 1<<channels {
		v := rng.Uint16() % uint16(1<<channels)
		if _, ok := present[v]; ok {
			continue
		}
		present[v] = struct{}{}
		values = append(values, v)
	}
	return outputset.FromValues(channels, values...).PermuteChannels(rng.Perm(channels))
}

func TestAbsorbsReflexive(t *testing.T) {
	rng := NewRNG(3)
	for channels := 3; channels <= 5; channels++ {
		for i := 0; i < 8; i++ {
			s := rng.RandomSet(channels, 0.5)
			perm, ok := AbsorbWitness(s, s)
			require.True(t, ok, "channels=%d set %v", channels, s)
			// The identity permutation is a witness and enumerated first.
			for j, p := range perm {
				assert.Equal(t, j, p)
			}
		}
	}
}

func TestAbsorbsTransitive(t *testing.T) {
	rng := NewRNG(4)
	for channels := 3; channels <= 5; channels++ {
		for i := 0; i < 8; i++ {
			a := rng.RandomSet(channels, 0.4)
			b := grow(rng, a, 2)
			c := grow(rng, b, 2)

			p1, ok := AbsorbWitness(a, b)
			require.True(t, ok, "channels=%d", channels)
			p2, ok := AbsorbWitness(b, c)
			require.True(t, ok, "channels=%d", channels)

			assert.True(t, Absorbs(a, c), "channels=%d", channels)

			// The witnesses compose: a ⊆ p1(b) and b ⊆ p2(c) give
			// a ⊆ (p2 ∘ p1)(c) directly.
			composed := make([]int, channels)
			for j := range composed {
				composed[j] = p2[p1[j]]
			}
			assert.True(t, a.SubsetOf(c.PermuteChannels(composed)),
				"channels=%d composed witness %v", channels, composed)
		}
	}
}

func TestRandomSetKeepsSortedVectors(t *testing.T) {
	rng := NewRNG(7)
	s := rng.RandomSet(4, 0.1)
	for _, v := range []uint16{0, 1, 3, 7, 15} {
		assert.True(t, s.Contains(v), "missing sorted vector %b", v)
	}
}

func TestReferenceRunTwoChannels(t *testing.T) {
	ref := ReferenceRun(2)
	assert.Equal(t, []int{1, 1}, ref.Sizes)
	assert.Equal(t, 1, ref.Bound)
	assert.Equal(t, 0, ref.EmptyAt)
}

func TestReferenceRunThreeChannels(t *testing.T) {
	ref := ReferenceRun(3)
	assert.Equal(t, []int{1, 1, 2, 1}, ref.Sizes)
	assert.Equal(t, 3, ref.Bound)
	assert.Equal(t, 0, ref.EmptyAt)
}
