// Package pool implements the named worker pool: a closure queue drained
// by a fixed (but resizable) set of contexts parked on a shared dock.
package pool

import (
	"container/list"
	"fmt"

	"github.com/hashicorp/go-hclog"

	"github.com/kolkov/ircd/internal/ircd/coro"
	"github.com/kolkov/ircd/internal/ircd/reactor"
	"github.com/kolkov/ircd/internal/ircd/sync2"
)

// Pool is a named queue of closures serviced by a vector of worker
// contexts. Invariant (spec.md §3): available tracks the number of
// workers currently idle at the top of their main loop, parked on dock.
type Pool struct {
	name      string
	r         *reactor.Reactor
	log       hclog.Logger
	stackSize int

	mu      *sync2.Mutex
	queue   *list.List // of func()
	dock    *sync2.Dock
	workers []*coro.Context

	available int
	nextID    int
}

// New constructs a Pool bound to r with size initial workers.
func New(r *reactor.Reactor, log hclog.Logger, name string, stackSize, size int) *Pool {
	if log == nil {
		log = hclog.NewNullLogger()
	}
	p := &Pool{
		name:      name,
		r:         r,
		log:       log.Named("pool." + name),
		stackSize: stackSize,
		mu:        sync2.NewMutex(),
		queue:     list.New(),
		dock:      sync2.NewDock(),
	}
	p.Add(size)
	return p
}

// Name returns the pool's diagnostic label.
func (p *Pool) Name() string { return p.name }

// Size returns the current number of worker contexts.
func (p *Pool) Size() int { return len(p.workers) }

// Available returns the number of workers currently idle at the top of
// their loop.
func (p *Pool) Available() int { return p.available }

// Submit enqueues f and wakes one idle worker. Safe to call from within
// any context, including one of the pool's own workers (submitting back
// to the same pool is legal and does not deadlock as long as size >= 1,
// per spec.md §4.6).
func (p *Pool) Submit(f func()) error {
	if err := p.mu.Lock(); err != nil {
		return err
	}
	p.queue.PushBack(f)
	p.mu.Unlock()
	p.dock.NotifyOne()
	return nil
}

// Add spawns n additional worker contexts.
func (p *Pool) Add(n int) {
	for i := 0; i < n; i++ {
		id := p.nextID
		p.nextID++
		w := coro.New(p.r, p.log, func() { p.workerMain(id) },
			coro.WithPost(),
			coro.Name(fmt.Sprintf("%s-worker-%d", p.name, id)),
			coro.StackSize(p.stackSize))
		p.workers = append(p.workers, w)
	}
}

// Del interrupts and joins the n most recently added workers. Must be
// called from within a context (Join requires a current context).
func (p *Pool) Del(n int) error {
	if n > len(p.workers) {
		n = len(p.workers)
	}
	victims := p.workers[len(p.workers)-n:]
	p.workers = p.workers[:len(p.workers)-n]

	for _, w := range victims {
		coro.Interrupt(w)
	}
	for _, w := range victims {
		if err := coro.Join(w); err != nil {
			return err
		}
	}
	return nil
}

// Join interrupts and joins every worker, leaving the pool empty.
func (p *Pool) Join() error { return p.Del(len(p.workers)) }

// Interrupt requests cancellation of every worker without waiting for
// them to actually exit; pair with Join from a context to wait.
func (p *Pool) Interrupt() {
	for _, w := range p.workers {
		coro.Interrupt(w)
	}
}

// workerMain is spec.md §4.6's worker main loop: increment available,
// pull the queue head under lock, decrement available around the call.
// An interrupt ends the worker; any other panic from the task is caught,
// logged, and the loop continues.
func (p *Pool) workerMain(id int) {
	for {
		if err := p.mu.Lock(); err != nil {
			return
		}
		p.available++
		err := p.dock.WaitPredicate(p.mu, func() bool { return p.queue.Len() > 0 })
		if err != nil {
			p.available--
			p.mu.Unlock()
			return
		}
		e := p.queue.Front()
		p.queue.Remove(e)
		p.available--
		p.mu.Unlock()

		p.runTask(id, e.Value.(func()))
	}
}

func (p *Pool) runTask(id int, f func()) {
	defer func() {
		if r := recover(); r != nil {
			p.log.Error("worker task panicked", "worker", id, "panic", r)
		}
	}()
	f()
}
