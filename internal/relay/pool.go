package relay

import "sync"

// Pool runs relay jobs on a fixed number of workers fed by a bounded queue.
// When the queue is full, TrySubmit rejects instead of queueing without
// bound, so the user gets an immediate "busy" reply.
type Pool struct {
	jobs chan Job
	wg   sync.WaitGroup
}

// NewPool starts workers goroutines running run for each submitted job.
func NewPool(workers, queueSize int, run func(Job)) *Pool {
	if workers <= 0 {
		workers = 1
	}
	if queueSize < 0 {
		queueSize = 0
	}
	p := &Pool{jobs: make(chan Job, queueSize)}
	p.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer p.wg.Done()
			for job := range p.jobs {
				run(job)
			}
		}()
	}
	return p
}

// TrySubmit enqueues the job without blocking. False means the queue is full.
func (p *Pool) TrySubmit(j Job) bool {
	select {
	case p.jobs <- j:
		return true
	default:
		return false
	}
}

// Close stops accepting jobs and waits for in-flight ones to finish.
func (p *Pool) Close() {
	close(p.jobs)
	p.wg.Wait()
}
