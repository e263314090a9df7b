// Package workerpool runs fire-and-forget jobs on a fixed set of goroutines.
//
// Submit never blocks: when every worker is busy and the queue is full it
// returns ErrPoolFull and the caller decides what to do. Do is the common
// case of "run it in the background if you can, otherwise run it now".
package workerpool

import (
	"errors"
	"sync"

	"github.com/shashiranjanraj/wardrobe/pkg/logger"
)

var (
	ErrPoolFull   = errors.New("workerpool: pool is full")
	ErrPoolClosed = errors.New("workerpool: pool is closed")
)

type Pool struct {
	tasks chan func()
	wg    sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

// New starts size workers with a queue of 2*size pending jobs.
func New(size int) *Pool {
	if size <= 0 {
		size = 1
	}

	p := &Pool{tasks: make(chan func(), size*2)}
	p.wg.Add(size)
	for i := 0; i < size; i++ {
		go p.worker()
	}
	return p
}

// Submit queues task without blocking.
func (p *Pool) Submit(task func()) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return ErrPoolClosed
	}
	select {
	case p.tasks <- task:
		return nil
	default:
		return ErrPoolFull
	}
}

// Do runs task on the pool. A nil, full or closed pool runs it on the
// calling goroutine instead, so the job is never dropped.
func (p *Pool) Do(task func()) {
	if p == nil {
		safeRun(task)
		return
	}
	if err := p.Submit(task); err != nil {
		safeRun(task)
	}
}

// Shutdown stops accepting jobs and waits for queued ones to finish.
// Safe to call more than once.
func (p *Pool) Shutdown() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.tasks)
	p.mu.Unlock()

	p.wg.Wait()
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for task := range p.tasks {
		safeRun(task)
	}
}

func safeRun(task func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("workerpool: job panicked", "panic", r)
		}
	}()
	task()
}
