// Package search drives the layer-by-layer computation: it generates the
// candidate pool for each layer from the previous survivors, prunes the
// pool to its minimal elements with the subsume index, and reports the
// |R_k| sequence until a layer produces no admissible candidates.
//
// Pruning of one layer is data-parallel: a fixed worker pool tests
// candidates against a read-only snapshot of the survivor index while
// admissions go through a serialized append log. Snapshots may be stale;
// a sequential confirmation pass after the workers join re-reduces the
// provisional survivors, so the final R_k is exact and independent of
// scheduling order.
package search
