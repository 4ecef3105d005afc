package outputset

import "math/bits"

// Abstraction holds per-channel occupancy statistics of a Set: for every
// channel c the count of vectors bucketed by (popcount of the vector
// excluding c's bit, c's bit). 2*n*n uint16 counters in total.
//
// The statistics are monotone under subsumption: if some relabeling pi maps
// set A into a subset of B, then every counter of A's channel c is at most
// the matching counter of B's channel pi(c). That monotonicity is the
// necessary condition used to prune edges of the compatibility graph before
// any matching search runs.
type Abstraction struct {
	channels int
	counts   []uint16
}

// NewAbstraction computes the statistics of s.
func NewAbstraction(s *Set) *Abstraction {
	n := s.channels
	a := &Abstraction{
		channels: n,
		counts:   make([]uint16, 2*n*n),
	}
	it := s.bits.Iterator()
	for it.HasNext() {
		v := it.Next()
		pop := bits.OnesCount32(v)
		for c := 0; c < n; c++ {
			bit := int((v >> c) & 1)
			a.counts[2*(n*c+pop-bit)+bit]++
		}
	}
	return a
}

// Channels returns the channel count.
func (a *Abstraction) Channels() int { return a.channels }

// Counts exposes the raw counter slice. Callers must not mutate it.
func (a *Abstraction) Counts() []uint16 { return a.counts }

// Clone returns an independent copy.
func (a *Abstraction) Clone() *Abstraction {
	counts := make([]uint16, len(a.counts))
	copy(counts, a.counts)
	return &Abstraction{channels: a.channels, counts: counts}
}

// UpdateMin lowers every counter to the pointwise minimum with other.
// Used to accumulate the subtree bound stored on inner index nodes.
func (a *Abstraction) UpdateMin(other *Abstraction) {
	a.mustMatch(other)
	for i, v := range other.counts {
		if v < a.counts[i] {
			a.counts[i] = v
		}
	}
}

// UpdateMax raises every counter to the pointwise maximum with other.
func (a *Abstraction) UpdateMax(other *Abstraction) {
	a.mustMatch(other)
	for i, v := range other.counts {
		if v > a.counts[i] {
			a.counts[i] = v
		}
	}
}

// LargestRange returns the counter index with the widest spread between the
// two abstractions, the split coordinate for index nodes. ok is false when
// every counter agrees.
func (a *Abstraction) LargestRange(other *Abstraction) (index int, ok bool) {
	a.mustMatch(other)
	best := uint16(0)
	for i, v := range a.counts {
		o := other.counts[i]
		d := v - o
		if o > v {
			d = o - v
		}
		if d > best {
			best = d
			index = i
		}
	}
	return index, best > 0
}

// ChannelLE reports whether every counter of a's channel myChannel is at
// most the corresponding counter of other's channel otherChannel. A false
// result proves myChannel cannot map onto otherChannel in any subsuming
// relabeling.
func (a *Abstraction) ChannelLE(myChannel int, other *Abstraction, otherChannel int) bool {
	a.mustMatch(other)
	stride := 2 * a.channels
	mine := a.counts[stride*myChannel : stride*(myChannel+1)]
	theirs := other.counts[stride*otherChannel : stride*(otherChannel+1)]
	for i, v := range mine {
		if v > theirs[i] {
			return false
		}
	}
	return true
}

// SwapChannels returns a copy with the statistics of channels x and y
// exchanged, mirroring Set.SwapChannels.
func (a *Abstraction) SwapChannels(x, y int) *Abstraction {
	if x == y {
		return a
	}
	out := a.Clone()
	stride := 2 * a.channels
	for i := 0; i < stride; i++ {
		out.counts[stride*x+i], out.counts[stride*y+i] = out.counts[stride*y+i], out.counts[stride*x+i]
	}
	return out
}

// channelColumn returns the counters of one channel, a relabeling-invariant
// per-channel key used to refine canonicalization tie groups.
func (a *Abstraction) channelColumn(c int) []uint16 {
	stride := 2 * a.channels
	return a.counts[stride*c : stride*(c+1)]
}

func (a *Abstraction) mustMatch(other *Abstraction) {
	if a.channels != other.channels {
		panic("outputset: abstraction channel count mismatch")
	}
}
