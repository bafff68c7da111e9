// Package parallel provides a fixed-size worker pool and a blocking
// parallel-for built on top of it.
//
// The pool is created once and reused: workers pull zero-argument tasks from a
// FIFO queue guarded by a mutex and a condition variable. For splits an index
// range into contiguous chunks, submits one task per chunk and returns only
// after every chunk has run. Everything a chunk wrote happens-before For
// returns, so callers may read results without further synchronization.
//
// Tasks must not panic. There is no per-task error channel and a panic inside
// a task terminates the process.
package parallel
