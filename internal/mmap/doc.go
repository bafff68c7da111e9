// Package mmap maps files read-only into memory.
//
// Signature datasets are read front to back, so Open takes an access hint
// that is passed to madvise(2) on Unix. On Windows the hint is ignored.
//
//	m, err := mmap.Open("data.bin", mmap.AccessSequential)
//	if err != nil { ... }
//	defer m.Close()
//	r := io.NewSectionReader(m, 0, m.Size())
//
// A Mapping is safe for concurrent reads. Close is idempotent; slices
// returned by Bytes must not be used after it.
package mmap
