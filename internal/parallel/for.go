package parallel

// For calls f(i) for every i in [first, last) using the pool. The range is cut
// into contiguous chunks of grain indices, one task per chunk. For blocks until
// every chunk has completed.
//
// Each index is visited by exactly one task, so f may write to per-index slots
// without locking.
func For(p *Pool, first, last, grain int, f func(i int)) {
	if first >= last {
		return
	}
	if grain <= 0 {
		grain = 1
	}

	tasks := make([]*Task, 0, (last-first+grain-1)/grain)
	for start := first; start < last; start += grain {
		end := min(start+grain, last)
		tasks = append(tasks, p.Enqueue(func() {
			for i := start; i < end; i++ {
				f(i)
			}
		}))
	}

	for _, t := range tasks {
		t.Wait()
	}
}
