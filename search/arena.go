package search

import (
	"fmt"

	"github.com/jix/sortnetopt-gnp/outputset"
)

// ID addresses an output set inside an Arena.
type ID uint32

// Arena is an append-only store of immutable output sets. Survivors are
// interned once per layer and referenced by ID from then on, so states of
// consecutive layers can share sets without deep copies or aliasing
// hazards.
type Arena struct {
	sets []*outputset.Set
}

// NewArena returns an empty arena.
func NewArena() *Arena { return &Arena{} }

// Intern stores the set and returns its ID.
func (a *Arena) Intern(s *outputset.Set) ID {
	a.sets = append(a.sets, s)
	return ID(len(a.sets) - 1)
}

// Get resolves an ID. An out-of-range ID is an internal invariant
// violation.
func (a *Arena) Get(id ID) *outputset.Set {
	if int(id) >= len(a.sets) {
		panic(fmt.Sprintf("search: arena ID %d out of range (len %d)", id, len(a.sets)))
	}
	return a.sets[id]
}

// Len returns the number of interned sets.
func (a *Arena) Len() int { return len(a.sets) }

// State is one R_k member: an interned output set plus the provenance
// needed to extend it into the next layer.
type State struct {
	Set   ID
	Depth int
}
