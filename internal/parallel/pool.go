package parallel

import (
	"errors"
	"fmt"
	"sync"
)

// ErrInvalidWorkers is returned when a pool is requested with fewer than one worker.
var ErrInvalidWorkers = errors.New("parallel: number of workers must be positive")

// Task is a handle to the eventual completion of an enqueued function.
type Task struct {
	fn   func()
	done chan struct{}
}

// Wait blocks until the task has run.
func (t *Task) Wait() {
	<-t.done
}

// Done returns a channel that is closed once the task has run.
func (t *Task) Done() <-chan struct{} {
	return t.done
}

func (t *Task) run() {
	defer close(t.done)
	t.fn()
}

// Pool is a fixed set of worker goroutines consuming a shared FIFO queue.
type Pool struct {
	mu      sync.Mutex
	cond    *sync.Cond
	tasks   []*Task
	head    int
	stopped bool

	workers int
	wg      sync.WaitGroup
}

// NewPool starts a pool with the given number of workers.
func NewPool(workers int) (*Pool, error) {
	if workers <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidWorkers, workers)
	}

	p := &Pool{workers: workers}
	p.cond = sync.NewCond(&p.mu)

	p.wg.Add(workers)
	for range workers {
		go p.worker()
	}

	return p, nil
}

// Workers returns the number of worker goroutines.
func (p *Pool) Workers() int {
	return p.workers
}

// Enqueue appends fn to the queue and returns its completion handle.
// Enqueue on a closed pool panics.
func (p *Pool) Enqueue(fn func()) *Task {
	t := &Task{fn: fn, done: make(chan struct{})}

	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		panic("parallel: enqueue on closed pool")
	}
	p.tasks = append(p.tasks, t)
	p.mu.Unlock()

	p.cond.Signal()
	return t
}

// Close stops accepting tasks, lets the workers drain the queue and waits for
// them to exit. It is safe to call more than once.
func (p *Pool) Close() {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.stopped = true
	p.mu.Unlock()

	p.cond.Broadcast()
	p.wg.Wait()
}

func (p *Pool) worker() {
	defer p.wg.Done()

	for {
		p.mu.Lock()
		for !p.stopped && p.head == len(p.tasks) {
			p.cond.Wait()
		}

		if p.head == len(p.tasks) {
			// stopped and drained
			p.mu.Unlock()
			return
		}

		t := p.tasks[p.head]
		p.tasks[p.head] = nil
		p.head++
		if p.head == len(p.tasks) {
			p.tasks = p.tasks[:0]
			p.head = 0
		}
		p.mu.Unlock()

		t.run()
	}
}
