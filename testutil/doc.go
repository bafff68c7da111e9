// Package testutil provides testing utilities for kmsig.
//
// This package is intended for use in tests and benchmarks only.
// It provides helpers for generating random signatures with a known cluster
// structure and for scoring a clustering against it.
//
// # Random Signature Generation
//
//	rng := testutil.NewRNG(seed)
//	sigs := rng.Signatures(1000, 256, 0.5)
//	sigs, labels := rng.ClusteredSignatures(1000, 256, 8, 0.05)
//
// # Scoring
//
//	purity := testutil.Purity(labels, result.Assignments)
//	idx, dist := testutil.ExactNearest(sig, result.Centroids())
package testutil
