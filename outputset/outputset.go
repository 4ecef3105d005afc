package outputset

import (
	"errors"
	"fmt"
	"math/bits"
	"sort"
	"strings"

	"github.com/RoaringBitmap/roaring/v2"
)

// MaxChannels is the hard cap on the channel count. Vectors must fit a
// uint16 and abstraction counters must not overflow.
const MaxChannels = 15

// ErrInvalidLayer is returned when a layer is not a matching over the
// channels (overlapping or out-of-range comparators).
var ErrInvalidLayer = errors.New("layer is not a matching over distinct channels")

// Comparator is a compare-exchange stage on the ordered channel pair (A, B)
// with A < B. It moves the larger of the two values toward channel A, so a
// fully sorted vector carries its set bits in the lowest positions.
type Comparator struct {
	A, B int
}

func (c Comparator) String() string {
	return fmt.Sprintf("(%d,%d)", c.A, c.B)
}

// Layer is a set of pairwise-disjoint comparators applied simultaneously.
// Order within a layer is irrelevant because the comparators touch disjoint
// channels.
type Layer []Comparator

// NewLayer validates that the given comparators form a non-empty matching
// over channels 0..channels-1.
func NewLayer(channels int, comparators ...Comparator) (Layer, error) {
	if len(comparators) == 0 {
		return nil, fmt.Errorf("%w: empty layer", ErrInvalidLayer)
	}
	var used uint16
	for _, c := range comparators {
		if c.A < 0 || c.B >= channels || c.A >= c.B {
			return nil, fmt.Errorf("%w: comparator %s out of range for %d channels", ErrInvalidLayer, c, channels)
		}
		mask := uint16(1)<<c.A | uint16(1)<<c.B
		if used&mask != 0 {
			return nil, fmt.Errorf("%w: comparator %s reuses a channel", ErrInvalidLayer, c)
		}
		used |= mask
	}
	return Layer(comparators), nil
}

func (l Layer) String() string {
	parts := make([]string, len(l))
	for i, c := range l {
		parts[i] = c.String()
	}
	return "[" + strings.Join(parts, " ") + "]"
}

// Set is the set of distinct n-bit output vectors reachable from a partial
// network over all 2^n inputs. Sets are immutable: every operation returns
// a new Set.
type Set struct {
	channels int
	bits     *roaring.Bitmap
}

// AllValues returns the output set of the empty network: all 2^channels
// vectors. This seeds R_0.
func AllValues(channels int) *Set {
	if channels < 1 || channels > MaxChannels {
		panic(fmt.Sprintf("outputset: channel count %d outside 1..%d", channels, MaxChannels))
	}
	b := roaring.New()
	b.AddRange(0, uint64(1)<<channels)
	return &Set{channels: channels, bits: b}
}

// FromValues builds a Set from explicit vectors. Intended for tests.
func FromValues(channels int, values ...uint16) *Set {
	b := roaring.New()
	for _, v := range values {
		if uint32(v) >= uint32(1)<<channels {
			panic(fmt.Sprintf("outputset: value %#x outside %d-channel universe", v, channels))
		}
		b.Add(uint32(v))
	}
	return &Set{channels: channels, bits: b}
}

// Channels returns the channel count n.
func (s *Set) Channels() int { return s.channels }

// Size returns the number of distinct output vectors.
func (s *Set) Size() int { return int(s.bits.GetCardinality()) }

// Values returns the vectors in ascending order.
func (s *Set) Values() []uint16 {
	raw := s.bits.ToArray()
	out := make([]uint16, len(raw))
	for i, v := range raw {
		out[i] = uint16(v)
	}
	return out
}

// Contains reports whether vector v is reachable.
func (s *Set) Contains(v uint16) bool { return s.bits.Contains(uint32(v)) }

// ApplyComparator returns the output set after the compare-exchange (a, b).
// A vector with only the bit of channel b set within the pair has its two
// bits exchanged; everything else passes through.
func (s *Set) ApplyComparator(a, b int) *Set {
	if a == b || a < 0 || a >= s.channels || b < 0 || b >= s.channels {
		panic(fmt.Sprintf("outputset: comparator (%d,%d) invalid for %d channels", a, b, s.channels))
	}

	maskA := uint32(1) << a
	maskB := uint32(1) << b
	mask := maskA | maskB

	out := roaring.New()
	it := s.bits.Iterator()
	for it.HasNext() {
		v := it.Next()
		if v&mask == maskB {
			out.Add(v ^ mask)
		} else {
			out.Add(v)
		}
	}
	return &Set{channels: s.channels, bits: out}
}

// Apply extends the set by a whole layer. The comparators of a layer touch
// disjoint channels, so the application order cannot matter; the layer is
// re-checked here because the validity of the computed bound depends on it.
func (s *Set) Apply(l Layer) *Set {
	var used uint16
	for _, c := range l {
		mask := uint16(1)<<c.A | uint16(1)<<c.B
		if c.A >= c.B || c.B >= s.channels || used&mask != 0 {
			panic(fmt.Sprintf("outputset: layer %s is not a matching over %d channels", l, s.channels))
		}
		used |= mask
	}
	out := s
	for _, c := range l {
		out = out.ApplyComparator(c.A, c.B)
	}
	return out
}

// IsSorted reports whether every reachable vector has its set bits in the
// lowest positions, i.e. the network sorts all inputs.
func (s *Set) IsSorted() bool {
	it := s.bits.Iterator()
	for it.HasNext() {
		v := it.Next()
		if v&(v+1) != 0 {
			return false
		}
	}
	return true
}

// ChannelWeights returns, per channel, the number of reachable vectors with
// that channel's bit set. Weights are invariant statistics: a channel
// permutation permutes them.
func (s *Set) ChannelWeights() []int {
	weights := make([]int, s.channels)
	it := s.bits.Iterator()
	for it.HasNext() {
		v := it.Next()
		for v != 0 {
			c := bits.TrailingZeros32(v)
			weights[c]++
			v &= v - 1
		}
	}
	return weights
}

// PermuteChannels relabels the channels: bit i of every output vector of
// the result is bit perm[i] of the corresponding input vector.
func (s *Set) PermuteChannels(perm []int) *Set {
	if len(perm) != s.channels {
		panic(fmt.Sprintf("outputset: permutation of length %d for %d channels", len(perm), s.channels))
	}
	var seen uint16
	for _, p := range perm {
		if p < 0 || p >= s.channels || seen&(1<<p) != 0 {
			panic(fmt.Sprintf("outputset: %v is not a channel permutation", perm))
		}
		seen |= 1 << p
	}

	out := roaring.New()
	it := s.bits.Iterator()
	for it.HasNext() {
		v := it.Next()
		var nv uint32
		for i, p := range perm {
			nv |= ((v >> p) & 1) << i
		}
		out.Add(nv)
	}
	return &Set{channels: s.channels, bits: out}
}

// SwapChannels exchanges two channel labels.
func (s *Set) SwapChannels(a, b int) *Set {
	if a == b {
		return s
	}
	perm := make([]int, s.channels)
	for i := range perm {
		perm[i] = i
	}
	perm[a], perm[b] = perm[b], perm[a]
	return s.PermuteChannels(perm)
}

// SubsetOf reports plain containment under the identity relabeling.
func (s *Set) SubsetOf(other *Set) bool {
	if s.channels != other.channels {
		panic("outputset: channel count mismatch")
	}
	card := s.bits.GetCardinality()
	if card > other.bits.GetCardinality() {
		return false
	}
	return s.bits.AndCardinality(other.bits) == card
}

// Equal reports whether both sets hold exactly the same vectors.
func (s *Set) Equal(other *Set) bool {
	return s.channels == other.channels && s.bits.Equals(other.bits)
}

// Compare imposes the deterministic total order used for canonical
// representatives: smaller sets first, ties broken lexicographically over
// the ascending vector list.
func (s *Set) Compare(other *Set) int {
	if s.channels != other.channels {
		panic("outputset: channel count mismatch")
	}
	sc, oc := s.bits.GetCardinality(), other.bits.GetCardinality()
	if sc != oc {
		if sc < oc {
			return -1
		}
		return 1
	}
	sit, oit := s.bits.Iterator(), other.bits.Iterator()
	for sit.HasNext() {
		sv, ov := sit.Next(), oit.Next()
		if sv != ov {
			if sv < ov {
				return -1
			}
			return 1
		}
	}
	return 0
}

// Fingerprint returns a compact byte-exact key for map-based deduplication.
func (s *Set) Fingerprint() string {
	var sb strings.Builder
	sb.Grow(int(s.bits.GetCardinality())*2 + 1)
	sb.WriteByte(byte(s.channels))
	it := s.bits.Iterator()
	for it.HasNext() {
		v := it.Next()
		sb.WriteByte(byte(v))
		sb.WriteByte(byte(v >> 8))
	}
	return sb.String()
}

// Clone returns an independent copy. Rarely needed given immutability; used
// where a caller hands the set to an arena that must own it.
func (s *Set) Clone() *Set {
	return &Set{channels: s.channels, bits: s.bits.Clone()}
}

func (s *Set) String() string {
	values := s.Values()
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprintf("%0*b", s.channels, v)
	}
	return fmt.Sprintf("Set(n=%d, {%s})", s.channels, strings.Join(parts, " "))
}

// weightOrder returns the channels sorted by descending weight with index
// order as the tiebreak, the ordering used to pre-normalize candidates.
func weightOrder(weights []int) []int {
	order := make([]int, len(weights))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return weights[order[i]] > weights[order[j]]
	})
	return order
}
