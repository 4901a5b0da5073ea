package server

import (
	"sync"
	"time"
)

// workerPool runs connection handlers on a fixed set of goroutines fed by a
// bounded queue. Submit never drops work and never queues unboundedly: when
// the queue is full the task runs on the submitting goroutine, which on the
// acceptor pauses further accepts until the task finishes (backpressure).
type workerPool struct {
	tasks     chan func()
	wg        sync.WaitGroup
	closeOnce sync.Once
}

func newWorkerPool(workers, queueSize int) *workerPool {
	p := &workerPool{tasks: make(chan func(), queueSize)}
	p.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer p.wg.Done()
			for fn := range p.tasks {
				fn()
			}
		}()
	}
	return p
}

// Submit schedules fn, falling back to running it inline when the queue is
// saturated. Must not be called after Shutdown.
func (p *workerPool) Submit(fn func()) {
	select {
	case p.tasks <- fn:
	default:
		fn()
	}
}

// Shutdown closes the intake and waits up to grace for workers to drain.
// Returns false if tasks were still running when the grace period expired.
// Safe to call more than once; later calls only wait.
func (p *workerPool) Shutdown(grace time.Duration) bool {
	p.closeOnce.Do(func() { close(p.tasks) })

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return true
	case <-time.After(grace):
		return false
	}
}
