package parallel

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// Task processes one independent work item, usually one file.
type Task func() error

type Stats struct {
	Processed uint64
	Failed    uint64
}

func (s Stats) Total() uint64 {
	return s.Processed + s.Failed
}

// Pool runs tasks on a fixed number of workers. With a single worker tasks
// run inline on the submitting goroutine.
type Pool struct {
	wg        sync.WaitGroup
	work      chan Task
	close     func()
	processed atomic.Uint64
	failed    atomic.Uint64
}

func Start(numWorkers int) *Pool {
	if numWorkers < 1 {
		numWorkers = runtime.GOMAXPROCS(0)
	}

	pool := &Pool{close: func() {}}
	if numWorkers > 1 {
		pool.work = make(chan Task, numWorkers)
		for range numWorkers {
			pool.wg.Go(func() {
				for task := range pool.work {
					pool.run(task)
				}
			})
		}
		pool.close = sync.OnceFunc(func() { close(pool.work) })
	}

	return pool
}

// Submit queues a task, blocking while every worker is busy. It must not
// be called after Wait.
func (p *Pool) Submit(task Task) {
	if p.work == nil {
		p.run(task)
		return
	}
	p.work <- task
}

// Wait stops accepting tasks, waits for the queued ones and reports how
// many succeeded and failed.
func (p *Pool) Wait() Stats {
	p.close()
	p.wg.Wait()
	return Stats{
		Processed: p.processed.Load(),
		Failed:    p.failed.Load(),
	}
}

func (p *Pool) run(task Task) {
	if err := task(); err != nil {
		p.failed.Add(1)
		return
	}
	p.processed.Add(1)
}
