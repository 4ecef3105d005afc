// Package testutil provides testing utilities for sortnetopt.
//
// This package is intended for use in tests and benchmarks only. It
// provides a seeded thread-safe RNG, permutation enumeration, and a
// brute-force reference implementation of the layer search that the
// indexed engine is checked against on small channel counts.
package testutil
