// Package outputset models the reachable outputs of a partial sorting
// network on n channels.
//
// A Set holds every n-bit vector the network can still emit, stored in a
// roaring bitmap over the 2^n vector universe. Applying a comparator or a
// whole layer of disjoint comparators never grows a Set; a network sorts
// exactly when its Set has shrunk to the n+1 sorted vectors.
//
// The package also provides the per-channel Abstraction statistics used to
// prune channel mappings during subsumption tests, and the canonical
// symmetry-class representative used to deduplicate candidates.
package outputset
