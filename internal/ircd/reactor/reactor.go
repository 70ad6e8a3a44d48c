// Package reactor provides the single-threaded event loop that the rest of
// the ircd runtime is written against: one dedicated goroutine (the "ircd
// goroutine") drains a run queue of posted closures, forever, and every
// other package in this module either runs directly on that goroutine or
// crosses onto it through Post/PostThreadsafe before touching shared state.
//
// spec.md treats the reactor as an externally-owned collaborator; this
// package is the concrete rendition a runnable module needs to drive
// against. A real daemon could substitute a different Reactor layered on
// an OS event loop (epoll, IOCP, ...) without any other package changing,
// provided it preserves the single-logical-thread guarantee.
package reactor

import (
	"container/list"
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/kolkov/ircd/internal/ircd/gid"
)

// Reactor is a single-threaded run loop. The zero value is not usable;
// construct one with New and start it with Run.
type Reactor struct {
	log hclog.Logger

	mu      sync.Mutex
	queue   *list.List // of func()
	wake    chan struct{}
	closing bool
	done    chan struct{}

	threadID int64 // goroutine ID Run() is executing on; 0 until started
	started  chan struct{}
}

// New constructs a Reactor. It does not start running until Run is called.
func New(log hclog.Logger) *Reactor {
	if log == nil {
		log = hclog.NewNullLogger()
	}
	return &Reactor{
		log:     log.Named("reactor"),
		queue:   list.New(),
		wake:    make(chan struct{}, 1),
		done:    make(chan struct{}),
		started: make(chan struct{}),
	}
}

// Run drains the posted-closure queue until Stop is called. It must be
// invoked from the goroutine that is to become "the ircd thread"; callers
// typically do `go r.Run()` once at process startup.
func (r *Reactor) Run() {
	r.threadID = gid.Current()
	close(r.started)
	defer close(r.done)

	for {
		f, ok := r.pop()
		if !ok {
			if r.isClosing() {
				return
			}
			<-r.wake
			continue
		}
		r.runOne(f)
	}
}

// runOne executes a single posted closure, converting a panic into a
// critical log line rather than letting it take down the ircd goroutine;
// one misbehaving task must not stop the whole reactor.
func (r *Reactor) runOne(f func()) {
	defer func() {
		if rec := recover(); rec != nil {
			r.log.Error("posted task panicked", "panic", rec)
		}
	}()
	f()
}

func (r *Reactor) pop() (func(), bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e := r.queue.Front()
	if e == nil {
		return nil, false
	}
	r.queue.Remove(e)
	return e.Value.(func()), true
}

// Stop asks the reactor to exit once its queue drains. It does not block;
// wait on Done if a synchronous shutdown is needed.
func (r *Reactor) Stop() {
	r.mu.Lock()
	r.closing = true
	r.mu.Unlock()
	r.nudge()
}

func (r *Reactor) isClosing() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closing
}

// Done is closed once Run returns.
func (r *Reactor) Done() <-chan struct{} { return r.done }

// Post enqueues f to run on the ircd goroutine during its next turn. Safe
// to call from any goroutine, but prefer Dispatch/Strand.Post from within
// reactor-owned code — Post alone gives no serialization with respect to
// concurrently-posted work from other threads; PostThreadsafe documents
// that cross-thread case explicitly.
func (r *Reactor) Post(f func()) {
	r.mu.Lock()
	r.queue.PushBack(f)
	r.mu.Unlock()
	r.nudge()
}

// PostThreadsafe is Post's name when called from outside the ircd
// goroutine entirely (e.g. an offload worker's OS thread). It is
// implemented identically to Post; the distinct name documents the
// crossing-thread-boundaries intent at call sites per spec.md §5's
// notify_threadsafe.
func (r *Reactor) PostThreadsafe(f func()) { r.Post(f) }

// Dispatch runs f inline if the caller is already on the ircd goroutine,
// or Posts it otherwise: synchronous nested execution when already
// on-thread, queued at the back of the run queue otherwise. It backs the
// Spawn dispatch mode.
func (r *Reactor) Dispatch(f func()) {
	if r.IsReactorThread() {
		f()
		return
	}
	r.Post(f)
}

// IsReactorThread reports whether the calling goroutine is the one
// executing Run. Before Run has been called at all it always reports
// false.
func (r *Reactor) IsReactorThread() bool {
	select {
	case <-r.started:
	default:
		return false
	}
	return gid.Current() == r.threadID
}

func (r *Reactor) nudge() {
	select {
	case r.wake <- struct{}{}:
	default:
	}
}

// Strand is a per-object serialized FIFO sub-queue: closures posted to the
// same Strand always run in submission order and never overlap with each
// other, even though the underlying Reactor may be servicing other work
// between them. It is the idiomatic replacement for a per-object mutex
// guarding reactor-owned state, mirrored on boost::asio::strand and named
// directly in spec.md §4.9.
type Strand struct {
	r *Reactor

	mu      sync.Mutex
	pending *list.List // of func()
	running bool
}

// NewStrand creates a Strand bound to r.
func NewStrand(r *Reactor) *Strand {
	return &Strand{r: r, pending: list.New()}
}

// Post enqueues f onto the strand. If nothing is currently running on this
// strand, f (or the head of a backlog including f) is posted to the
// Reactor immediately; otherwise it waits behind whatever is already
// queued.
func (s *Strand) Post(f func()) {
	s.mu.Lock()
	s.pending.PushBack(f)
	alreadyRunning := s.running
	s.running = true
	s.mu.Unlock()

	if !alreadyRunning {
		s.r.Post(s.runNext)
	}
}

// Dispatch runs f inline if on the ircd thread AND this strand is
// currently idle; otherwise behaves like Post.
func (s *Strand) Dispatch(f func()) {
	if s.r.IsReactorThread() {
		s.mu.Lock()
		idle := !s.running
		if idle {
			s.running = true
		}
		s.mu.Unlock()
		if idle {
			s.runOne(f)
			s.drainOrIdle()
			return
		}
	}
	s.Post(f)
}

func (s *Strand) runNext() {
	s.mu.Lock()
	e := s.pending.Front()
	if e == nil {
		s.running = false
		s.mu.Unlock()
		return
	}
	s.pending.Remove(e)
	s.mu.Unlock()

	s.runOne(e.Value.(func()))
	s.drainOrIdle()
}

func (s *Strand) runOne(f func()) {
	defer func() {
		if rec := recover(); rec != nil {
			s.r.log.Error("strand task panicked", "panic", rec)
		}
	}()
	f()
}

func (s *Strand) drainOrIdle() {
	s.mu.Lock()
	more := s.pending.Len() > 0
	if !more {
		s.running = false
	}
	s.mu.Unlock()
	if more {
		s.r.Post(s.runNext)
	}
}

// Alarm wraps a cancelable one-shot timer posted back onto a Reactor. It
// is the concrete backing for this-context timed waits (SleepFor,
// SleepUntil, WaitUntil) and for Dock's timed variants: a Context
// arms an Alarm before suspending and the Alarm's fire callback posts a
// wakeup back onto the ircd thread, exactly as a note would.
//
// Grounded on vanadium-go.lib__cv.go's per-waiter time.Timer, reused here
// instead of a shared timer wheel since the number of simultaneously
// outstanding alarms (one per blocked Context) is small.
type Alarm struct {
	r *Reactor

	mu      sync.Mutex
	timer   *time.Timer
	fired   bool
	onFired func(timedOut bool)
}

// NewAlarm creates an Alarm bound to r. onFired is invoked on the ircd
// goroutine exactly once, either because the deadline elapsed (timedOut
// true) or because Cancel was called before it elapsed (timedOut false).
func NewAlarm(r *Reactor, onFired func(timedOut bool)) *Alarm {
	return &Alarm{r: r, onFired: onFired}
}

// Arm schedules the alarm to fire at deadline.
func (a *Alarm) Arm(deadline time.Time) { a.arm(time.Until(deadline)) }

// ArmFor schedules the alarm to fire after d elapses.
func (a *Alarm) ArmFor(d time.Duration) { a.arm(d) }

// ArmIndefinite arms the alarm with no deadline: it only ever fires via
// Cancel, never on its own. This backs the untimed this-context waits
// (Wait, Yield) where a Context parks until some other Context notifies
// it rather than until a clock elapses — the same Cancel/onFired plumbing
// used by the timed variants, minus the timer.
func (a *Alarm) ArmIndefinite() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.fired = false
	a.timer = nil
}

func (a *Alarm) arm(d time.Duration) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.fired = false
	a.timer = time.AfterFunc(d, func() {
		a.mu.Lock()
		already := a.fired
		a.fired = true
		a.mu.Unlock()
		if already {
			return
		}
		a.r.PostThreadsafe(func() { a.onFired(true) })
	})
}

// Cancel attempts to stop the alarm before it fires. It returns true if
// the cancellation won the race (the alarm had not yet fired), in which
// case onFired is invoked immediately on the ircd thread with timedOut
// false — the caller is responsible for calling Cancel only from the
// ircd goroutine.
func (a *Alarm) Cancel() bool {
	a.mu.Lock()
	if a.fired {
		a.mu.Unlock()
		return false
	}
	a.fired = true
	t := a.timer
	a.mu.Unlock()

	if t != nil {
		t.Stop()
	}
	a.onFired(false)
	return true
}
