// Package kmeans implements a parallel k-means clustering engine that is
// generic over the element type.
//
// Knowledge of the element type enters only through a Space (distance,
// nearest-centroid lookup, prototype update) and the Vector constraint
// (Clone). Seeding is pluggable: RandomSeeder samples without replacement,
// DSquaredSeeder implements k-means++ (D² weighting) with optional local
// trials.
//
// # Algorithm
//
// Each call to KMeans.Cluster runs:
//
//  1. Seed k centroids and create one Cluster per centroid.
//  2. Assign every vector to its nearest centroid (parallel over vectors).
//  3. Recompute every non-empty centroid (parallel over clusters).
//  4. Repeat 2-3 until the RMSE improvement drops below Epsilon or MaxIters
//     update rounds have run.
//  5. Optionally run SAIters rounds of simulated annealing, each followed by
//     another Lloyd convergence phase.
//  6. Drop empty clusters, or repair them once when EnforceNumClusters is set.
//
// The worker pool is created by New and reused by every call until Close.
//
// # Concurrency
//
// A KMeans value is single-owner: Cluster must not be called concurrently.
// Inside a call, parallel tasks only write disjoint slots (one assignment per
// vector, one centroid per cluster). The random generator is only advanced by
// the calling goroutine.
package kmeans
