// Package matching implements the bipartite compatibility graph used by
// subsumption tests: one side holds the channels of an established
// survivor (or of an index subtree), the other the channels of a
// candidate. Edge (a, b) survives while nothing rules out relabeling
// survivor channel a onto candidate channel b.
//
// Rows are uint16 masks (channel counts are capped at 15), so cloning a
// graph for a sibling subtree is two small array copies. Edges are only
// ever removed; removal unit-propagates forced assignments and flags the
// graph infeasible the moment any channel loses its last partner.
package matching

import "math/bits"

// Graph is a bipartite edge set over two copies of the channels.
// The zero value is not usable; call New.
type Graph struct {
	rowsA      []uint16
	rowsB      []uint16
	infeasible bool
}

// New returns the complete bipartite graph on n channels per side.
func New(n int) *Graph {
	all := uint16(1)<<n - 1
	g := &Graph{
		rowsA: make([]uint16, n),
		rowsB: make([]uint16, n),
	}
	for i := range g.rowsA {
		g.rowsA[i] = all
		g.rowsB[i] = all
	}
	return g
}

// Clone returns an independent copy, the copy-on-write snapshot taken
// before descending into each sibling subtree.
func (g *Graph) Clone() *Graph {
	out := &Graph{
		rowsA:      make([]uint16, len(g.rowsA)),
		rowsB:      make([]uint16, len(g.rowsB)),
		infeasible: g.infeasible,
	}
	copy(out.rowsA, g.rowsA)
	copy(out.rowsB, g.rowsB)
	return out
}

// Infeasible reports whether some channel has run out of partners, proving
// no perfect matching exists.
func (g *Graph) Infeasible() bool { return g.infeasible }

// Contains reports whether edge (a, b) is still present.
func (g *Graph) Contains(a, b int) bool {
	return g.rowsA[a]&(1<<b) != 0
}

// Remove deletes edge (a, b) and propagates forced assignments. It returns
// true when the graph became infeasible.
func (g *Graph) Remove(a, b int) bool {
	if g.infeasible {
		return true
	}

	colA := uint16(1) << b
	rowA := g.rowsA[a]
	if rowA&colA == 0 {
		return false
	}
	rowA &^= colA
	g.rowsA[a] = rowA

	rowB := g.rowsB[b] &^ (uint16(1) << a)
	g.rowsB[b] = rowB

	if rowA == 0 || rowB == 0 {
		g.infeasible = true
		return true
	}

	if rowA&(rowA-1) == 0 {
		// Channel a is forced onto a single partner; no other channel on
		// side A may keep that partner.
		target := bits.TrailingZeros16(rowA)
		for otherA := range g.rowsA {
			if otherA != a && g.Remove(otherA, target) {
				return true
			}
		}
	}

	if rowB&(rowB-1) == 0 {
		target := bits.TrailingZeros16(rowB)
		for otherB := range g.rowsB {
			if otherB != b && g.Remove(target, otherB) {
				return true
			}
		}
	}

	return false
}

// Select commits the assignment a -> b by removing every competing edge.
// It returns true when the graph became infeasible (including when the
// edge was already gone).
func (g *Graph) Select(a, b int) bool {
	if g.infeasible {
		return true
	}
	if !g.Contains(a, b) {
		g.infeasible = true
		return true
	}
	for otherA := range g.rowsA {
		if otherA != a && g.Remove(otherA, b) {
			return true
		}
	}
	for otherB := range g.rowsB {
		if otherB != b && g.Remove(a, otherB) {
			return true
		}
	}
	return false
}

// Filter removes every edge (a, b) for which pred returns false. It
// returns true when the graph became infeasible.
func (g *Graph) Filter(pred func(a, b int) bool) bool {
	if g.infeasible {
		return true
	}
	for a := range g.rowsA {
		for b := range g.rowsB {
			if g.Contains(a, b) && !pred(a, b) {
				if g.Remove(a, b) {
					return true
				}
			}
		}
	}
	return false
}

// UniqueMatch returns the single remaining partner of side-A channel a, if
// exactly one edge is left on its row.
func (g *Graph) UniqueMatch(a int) (int, bool) {
	if g.infeasible {
		return 0, false
	}
	row := g.rowsA[a]
	if row != 0 && row&(row-1) == 0 {
		return bits.TrailingZeros16(row), true
	}
	return 0, false
}

// RowA returns the partner mask of side-A channel a.
func (g *Graph) RowA(a int) uint16 { return g.rowsA[a] }

// RowB returns the partner mask of side-B channel b.
func (g *Graph) RowB(b int) uint16 { return g.rowsB[b] }

// SwapA exchanges two side-A channel labels.
func (g *Graph) SwapA(a0, a1 int) {
	g.rowsA[a0], g.rowsA[a1] = g.rowsA[a1], g.rowsA[a0]

	col0 := uint16(1) << a0
	col1 := uint16(1) << a1
	both := col0 | col1
	for i, row := range g.rowsB {
		hit := row & both
		if hit == col0 || hit == col1 {
			g.rowsB[i] = row ^ both
		}
	}
}

// SwapB exchanges two side-B channel labels.
func (g *Graph) SwapB(b0, b1 int) {
	g.rowsA, g.rowsB = g.rowsB, g.rowsA
	g.SwapA(b0, b1)
	g.rowsA, g.rowsB = g.rowsB, g.rowsA
}
