// Package subsume maintains the minimal elements of a corpus of output
// sets under subsumption: member M subsumes candidate C when some channel
// relabeling of C contains every output vector of M, making C redundant
// for lower-bound purposes.
//
// The index is a forest of weight-balanced trees. Every inner node stores
// the pointwise minimum of its subtree's abstraction statistics and splits
// its members on the statistic with the widest spread, so a descent can
// carry one compatibility graph for "any member of this subtree" and
// discard whole subtrees the moment the graph becomes infeasible. Leaves
// run the full backtracking matching search against a concrete member.
// This batches the pruning work that a member-by-member scan would repeat.
package subsume
