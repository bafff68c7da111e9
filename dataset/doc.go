// Package dataset reads and writes signature files and clustering outputs.
//
// # Signature files
//
// A signature file starts with the dimension as ASCII decimal followed by a
// newline. The dimension is a positive multiple of 8. Fixed-width records of
// dim/8 bytes follow; dimension j is bit j%8 (least significant first) of
// byte j/8.
//
// An optional identifier file holds one identifier per line, in record
// order. Without one, identifiers are the decimal record index.
//
// # Outputs
//
// Assignments are written as CSV rows "identifier,cluster" in dataset order
// and the RMSE trace as rows "round,rmse".
//
// # Compression
//
// Blob names ending in ".zst" are zstd streams and names ending in ".lz4"
// are LZ4 frames, for reading and writing alike.
package dataset
