package outputset

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewAbstractionCounts(t *testing.T) {
	// {00, 01, 11} on two channels, counted by hand: for each channel the
	// vectors bucketed by (popcount without that channel's bit, bit value).
	a := NewAbstraction(FromValues(2, 0, 1, 3))
	assert.Equal(t, []uint16{1, 1, 0, 1, 1, 0, 1, 1}, a.Counts())
}

func TestAbstractionChannelLEMonotone(t *testing.T) {
	sub := FromValues(3, 0, 1, 3, 7)
	sup := AllValues(3)
	subAbs := NewAbstraction(sub)
	supAbs := NewAbstraction(sup)

	for c := 0; c < 3; c++ {
		assert.True(t, subAbs.ChannelLE(c, supAbs, c))
	}
	// The reverse direction must fail somewhere: the superset has strictly
	// more vectors.
	anyLE := false
	for c := 0; c < 3; c++ {
		if supAbs.ChannelLE(c, subAbs, c) {
			anyLE = true
		}
	}
	assert.False(t, anyLE)
}

func TestAbstractionSwapChannelsMatchesSet(t *testing.T) {
	s := AllValues(4).ApplyComparator(0, 2).ApplyComparator(1, 3)
	fromSet := NewAbstraction(s.SwapChannels(1, 2))
	fromAbs := NewAbstraction(s).SwapChannels(1, 2)
	assert.Equal(t, fromSet.Counts(), fromAbs.Counts())
}

func TestAbstractionUpdateMinMax(t *testing.T) {
	a := NewAbstraction(FromValues(2, 0, 1, 3))
	b := NewAbstraction(FromValues(2, 0, 2, 3))

	lo := a.Clone()
	lo.UpdateMin(b)
	hi := a.Clone()
	hi.UpdateMax(b)

	for i := range lo.Counts() {
		assert.Equal(t, min(a.Counts()[i], b.Counts()[i]), lo.Counts()[i])
		assert.Equal(t, max(a.Counts()[i], b.Counts()[i]), hi.Counts()[i])
	}
}

func TestAbstractionLargestRange(t *testing.T) {
	a := NewAbstraction(FromValues(2, 0, 1, 3))

	_, ok := a.LargestRange(a)
	assert.False(t, ok, "identical abstractions have no spread")

	b := NewAbstraction(AllValues(2))
	idx, ok := b.LargestRange(a)
	assert.True(t, ok)
	spread := b.Counts()[idx] - a.Counts()[idx]
	if a.Counts()[idx] > b.Counts()[idx] {
		spread = a.Counts()[idx] - b.Counts()[idx]
	}
	for i := range a.Counts() {
		d := b.Counts()[i] - a.Counts()[i]
		if a.Counts()[i] > b.Counts()[i] {
			d = a.Counts()[i] - b.Counts()[i]
		}
		assert.LessOrEqual(t, d, spread)
	}
}

func TestAbstractionMismatchedChannels(t *testing.T) {
	a := NewAbstraction(AllValues(2))
	b := NewAbstraction(AllValues(3))
	assert.Panics(t, func() { a.ChannelLE(0, b, 0) })
}
