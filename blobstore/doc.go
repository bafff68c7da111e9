// Package blobstore abstracts where signature datasets are read from and
// where clustering results are written to.
//
// Blob names are slash-separated paths relative to the store root.
// Implementations must be safe for concurrent use.
//
// # Built-in Implementations
//
//   - LocalStore: local filesystem, memory-mapped reads, atomic writes
//   - MemoryStore: in-memory, for tests
//   - s3.Store: Amazon S3 with range reads and multipart uploads
//   - minio.Store: MinIO and other S3-compatible services
//
// Writes become visible when the WritableBlob is closed. Abort discards
// everything written so far.
package blobstore
