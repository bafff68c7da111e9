// Package kmsig clusters bit-vector signatures with parallel k-means.
//
// The engine lives in package kmeans and is generic over the element type;
// package signature supplies the Hamming space for bit vectors. This package
// ties them to storage: a Clusterer loads a signature file from a
// blobstore.BlobStore, clusters it and writes the assignment and RMSE trace
// outputs.
//
// # Quick Start
//
//	cfg := kmsig.DefaultConfig()
//	cfg.Signatures = "docs.bin"
//	cfg.Identifiers = "docs.ids"
//	cfg.Assignments = "docs.assign.csv"
//	cfg.Clusters = 64
//	cfg.Threads = runtime.NumCPU()
//
//	c, err := kmsig.New(cfg, kmsig.WithLogLevel(slog.LevelInfo))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer c.Close()
//
//	report, err := c.Run(ctx)
//
// # Storage
//
// Blobs are read from a LocalStore rooted at the working directory unless
// WithStore is given. The blobstore/s3 and blobstore/minio packages provide
// object storage backends. Names ending in ".zst" or ".lz4" are compressed.
//
// # Observability
//
// Logging uses log/slog through Logger. Metrics go to a MetricsCollector;
// BasicMetricsCollector keeps counters in memory and the prommetrics package
// exports them to Prometheus.
package kmsig
