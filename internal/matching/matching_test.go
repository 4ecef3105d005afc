package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewComplete(t *testing.T) {
	g := New(3)
	for a := 0; a < 3; a++ {
		for b := 0; b < 3; b++ {
			assert.True(t, g.Contains(a, b))
		}
	}
	assert.False(t, g.Infeasible())
	assert.Equal(t, uint16(0b111), g.RowA(0))
	assert.Equal(t, uint16(0b111), g.RowB(2))
}

func TestRemovePropagatesForcedAssignments(t *testing.T) {
	g := New(2)
	assert.False(t, g.Remove(0, 0))

	// Channel 0 is forced onto partner 1, which forces channel 1 onto
	// partner 0.
	b, ok := g.UniqueMatch(0)
	assert.True(t, ok)
	assert.Equal(t, 1, b)
	b, ok = g.UniqueMatch(1)
	assert.True(t, ok)
	assert.Equal(t, 0, b)
	assert.False(t, g.Infeasible())
}

func TestRemoveInfeasible(t *testing.T) {
	g := New(2)
	assert.False(t, g.Remove(0, 0))
	assert.True(t, g.Remove(0, 1))
	assert.True(t, g.Infeasible())

	// Further operations stay infeasible.
	assert.True(t, g.Remove(1, 0))
	assert.True(t, g.Select(1, 1))
}

func TestRemoveMissingEdgeIsNoop(t *testing.T) {
	g := New(3)
	g.Remove(0, 1)
	assert.False(t, g.Remove(0, 1))
	assert.False(t, g.Infeasible())
}

func TestSelect(t *testing.T) {
	g := New(3)
	assert.False(t, g.Select(0, 2))

	b, ok := g.UniqueMatch(0)
	assert.True(t, ok)
	assert.Equal(t, 2, b)
	for a := 1; a < 3; a++ {
		assert.False(t, g.Contains(a, 2))
	}

	// Selecting a removed edge is a contradiction.
	g2 := New(3)
	g2.Remove(1, 1)
	assert.True(t, g2.Select(1, 1))
	assert.True(t, g2.Infeasible())
}

func TestFilterForcesIdentity(t *testing.T) {
	g := New(4)
	assert.False(t, g.Filter(func(a, b int) bool { return a == b }))
	for a := 0; a < 4; a++ {
		b, ok := g.UniqueMatch(a)
		assert.True(t, ok)
		assert.Equal(t, a, b)
	}
}

func TestFilterInfeasible(t *testing.T) {
	g := New(3)
	assert.True(t, g.Filter(func(a, b int) bool { return a == 0 }))
	assert.True(t, g.Infeasible())
}

func TestUniqueMatchAmbiguous(t *testing.T) {
	g := New(3)
	_, ok := g.UniqueMatch(0)
	assert.False(t, ok)
}

func TestSwapA(t *testing.T) {
	g := New(3)
	g.Remove(0, 2)
	g.SwapA(0, 1)

	assert.True(t, g.Contains(0, 2))
	assert.False(t, g.Contains(1, 2))
	// Column views must stay consistent with the rows.
	assert.Equal(t, uint16(0b101), g.RowB(2))
}

func TestSwapB(t *testing.T) {
	g := New(3)
	g.Remove(1, 0)
	g.SwapB(0, 2)

	assert.False(t, g.Contains(1, 2))
	assert.True(t, g.Contains(1, 0))
	assert.Equal(t, uint16(0b011), g.RowA(1))
}

func TestCloneIndependent(t *testing.T) {
	g := New(3)
	c := g.Clone()
	g.Remove(0, 0)

	assert.True(t, c.Contains(0, 0))
	assert.False(t, g.Contains(0, 0))
}
