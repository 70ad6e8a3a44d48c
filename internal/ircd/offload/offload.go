// Package offload bridges the cooperative runtime to unavoidably blocking
// system calls: a single dedicated OS thread drains a FIFO job queue and
// notifies the submitting context, on its own strand, once each job
// completes. It is not a general thread pool — spec.md §4.7 is explicit
// that this primitive exists solely for calls that cannot be made
// non-blocking any other way.
package offload

import (
	"fmt"
	"sync"

	"github.com/hashicorp/go-hclog"

	"github.com/kolkov/ircd/internal/ircd/coro"
)

type job struct {
	fn     func() (any, error)
	caller *coro.Context
	value  any
	err    error
}

// Offload is a single background OS thread serving queued jobs in
// submission order, guarded by the one kernel-level lock this runtime
// uses (spec.md §5: "the offload queue's mutex is the only kernel-level
// lock in the core").
type Offload struct {
	log hclog.Logger

	mu     sync.Mutex
	cond   *sync.Cond
	queue  []*job
	closed bool
}

// New starts the background worker thread.
func New(log hclog.Logger) *Offload {
	if log == nil {
		log = hclog.NewNullLogger()
	}
	o := &Offload{log: log.Named("offload")}
	o.cond = sync.NewCond(&o.mu)
	go o.workerLoop()
	return o
}

// Close stops the worker once the queue drains. It does not block.
func (o *Offload) Close() {
	o.mu.Lock()
	o.closed = true
	o.mu.Unlock()
	o.cond.Broadcast()
}

func (o *Offload) workerLoop() {
	for {
		o.mu.Lock()
		for len(o.queue) == 0 && !o.closed {
			o.cond.Wait()
		}
		if len(o.queue) == 0 && o.closed {
			o.mu.Unlock()
			return
		}
		j := o.queue[0]
		o.queue = o.queue[1:]
		o.mu.Unlock()

		o.runJob(j)
	}
}

func (o *Offload) runJob(j *job) {
	func() {
		defer func() {
			if r := recover(); r != nil {
				j.err = fmt.Errorf("offload: job panicked: %v", r)
			}
		}()
		j.value, j.err = j.fn()
	}()

	// j.value/j.err are written here, on the background OS thread, and
	// read in Run below after the caller's coro.Wait() returns on the
	// ircd thread. Safety doesn't come from a lock guarding the job
	// struct directly: coro.Signal posts onto the caller's strand, which
	// acquires the strand's and reactor's own mutexes before the posted
	// closure ever runs; that acquire/release pair is the happens-before
	// edge that makes the later read of j.value/j.err safe.
	caller := j.caller
	coro.Signal(caller, func() {
		coro.Notify(caller)
	})
}

// Run submits fn to the background thread and suspends the calling
// context until it completes, returning fn's result or its error. The
// caller resumes on the ircd thread regardless of which OS thread ran fn.
func Run(o *Offload, fn func() (any, error)) (any, error) {
	caller := coro.Current()
	j := &job{fn: fn, caller: caller}

	o.mu.Lock()
	o.queue = append(o.queue, j)
	o.mu.Unlock()
	o.cond.Signal()

	if err := coro.Wait(); err != nil {
		return nil, err
	}
	return j.value, j.err
}
