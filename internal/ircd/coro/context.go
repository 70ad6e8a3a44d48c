// Package coro implements the stackful-coroutine core: Context, the
// continuation protocol, and the this-context blocking API that the rest
// of the ircd runtime (sync2, pool, offload) and the public ctx facade
// build on.
//
// Go has no manual stack-switching primitive, so each Context is realized
// as a dedicated goroutine — the goroutine plays the role of the
// stack-switch primitive spec.md's design notes call for. Exactly one
// goroutine is ever unblocked and running Context code at a time; see
// continuation.go for the channel handoff that enforces this.
package coro

import (
	"fmt"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/kolkov/ircd/internal/ircd/errkind"
	"github.com/kolkov/ircd/internal/ircd/profiler"
	"github.com/kolkov/ircd/internal/ircd/reactor"
)

// Flags mirrors spec.md's Context flag bitset.
type Flags uint8

const (
	// Post schedules the entry function to run on the reactor's next
	// turn rather than inline at Spawn time.
	Post Flags = 1 << iota
	// Dispatch runs the entry function inline if Spawn is called from
	// the ircd thread, Post otherwise.
	Dispatch
	// Detach means no owning handle will Join; the context is left to
	// be garbage-collected once it finishes rather than reclaimed
	// synchronously by an owner.
	Detach
	// Interrupted marks a pending interrupt or terminate request and is
	// cleared when delivered. If it is already set when the context first
	// runs, the entry sequence finishes without invoking the entry
	// function at all, per spec.md §4.1/§5.
	Interrupted
)

// current is spec.md's thread-local "current context" pointer. It is a
// plain package variable rather than a goroutine-local or atomic value
// because the single-current-context invariant already guarantees only
// one goroutine is ever unblocked and touching it: every other Context
// goroutine is parked in suspend(), blocked on its own resumeCh. Writes
// happen solely inside the continuation protocol (goroutineMain/suspend/
// finish), matching spec.md §9's "written only by the
// continuation protocol."
var current *Context

// Context is a cooperative, stackful coroutine backed by its own
// goroutine. The zero value is not usable; construct with New.
type Context struct {
	id    uint64
	name  string
	flags Flags

	reactor *reactor.Reactor
	strand  *reactor.Strand
	alarm   *reactor.Alarm

	yc *continuation

	stackBase int
	stackMax  int

	notes int64

	adjoindre *Context // context waiting to Join us

	awake time.Duration

	entry func()

	started    bool
	finished   bool
	finishedCh chan struct{}

	wakeTimedOut       bool
	yieldSignaled      bool
	terminateRequested bool
	critDepth          int

	log hclog.Logger
}

var idCounter atomic.Uint64

// Option configures a Context at construction time.
type Option func(*Context)

// Name sets the context's diagnostic label.
func Name(name string) Option { return func(c *Context) { c.name = name } }

// StackSize sets the user-declared maximum stack size in bytes, used by
// the profiler's stack-usage checks. Zero disables the check.
func StackSize(bytes int) Option { return func(c *Context) { c.stackMax = bytes } }

// WithPost sets the Post submission flag.
func WithPost() Option { return func(c *Context) { c.flags |= Post } }

// WithDispatch sets the Dispatch submission flag.
func WithDispatch() Option { return func(c *Context) { c.flags |= Dispatch } }

// WithDetach sets the Detach flag.
func WithDetach() Option { return func(c *Context) { c.flags |= Detach } }

// New constructs a Context bound to r with the given entry function and
// options, and immediately spawns it per its submission flags (POST,
// DISPATCH, or inline). r must not be nil.
func New(r *reactor.Reactor, log hclog.Logger, entry func(), opts ...Option) *Context {
	if log == nil {
		log = hclog.NewNullLogger()
	}
	c := &Context{
		id:         idCounter.Add(1),
		reactor:    r,
		entry:      entry,
		finishedCh: make(chan struct{}),
		log:        log,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.name == "" {
		c.name = fmt.Sprintf("ctx-%d", c.id)
	}
	c.strand = reactor.NewStrand(r)
	c.alarm = reactor.NewAlarm(r, func(timedOut bool) {
		c.wakeTimedOut = timedOut
		c.resumeAndWaitForPause()
	})
	c.spawn()
	return c
}

// ID returns the context's process-wide unique identifier.
func (c *Context) ID() uint64 { return c.id }

// Name returns the context's diagnostic label.
func (c *Context) Name() string { return c.name }

// Started reports whether the entry function has begun running.
func (c *Context) Started() bool { return c.started }

// Finished reports whether the context has run to completion (normally,
// via panic, or via an unrecovered interrupt/terminate).
func (c *Context) Finished() bool { return c.finished }

// Awake returns the accumulated on-CPU time across all of this context's
// run slices.
func (c *Context) Awake() time.Duration { return c.awake }

// Notes returns the current value of the notification counter. Intended
// for diagnostics/tests only; spec.md's notes algebra is an internal
// invariant, not a public API.
func (c *Context) Notes() int64 { return c.notes }

// Strand returns the context's private serialized post queue, used by
// Signal (spec.md's signal(ctx, closure)) and by Offload to deliver its
// completion callback on the right context.
func (c *Context) Strand() *reactor.Strand { return c.strand }

// spawn submits the first resume using the submission mode selected by
// flags: POST enqueues for the next turn, DISPATCH runs now if already on
// the ircd thread (else posts), and neither runs immediately inline.
func (c *Context) spawn() {
	switch {
	case c.flags&Post != 0:
		c.reactor.Post(c.firstResume)
	case c.flags&Dispatch != 0:
		c.reactor.Dispatch(c.firstResume)
	default:
		c.firstResume()
	}
}

// firstResume starts the dedicated goroutine and blocks (on the caller's
// role as the ircd thread) until the context either suspends or finishes
// its very first slice.
func (c *Context) firstResume() {
	c.yc = newContinuation()
	go c.goroutineMain()
	c.resumeAndWaitForPause()
}

// goroutineMain is the body of the context's dedicated goroutine. It
// blocks until firstResume signals it, then performs the spec.md §4.1
// Spawn entry sequence.
func (c *Context) goroutineMain() {
	<-c.yc.resumeCh

	current = c
	c.started = true
	c.stackBase = stackUsageBytes()
	c.notes = 1
	profiler.EnterSlice()

	if c.flags&Interrupted != 0 {
		c.finish()
		return
	}

	func() {
		defer func() {
			if r := recover(); r != nil {
				c.log.Error("context entry panicked", "context", c.name, "panic", r)
			}
		}()
		c.entry()
	}()

	c.finish()
}

// finish runs the spec.md §4.1 exit sequence: CUR_LEAVE, joiner
// notification, clearing current/yc, and handing control back to whoever
// is waiting in resumeAndWaitForPause.
func (c *Context) finish() {
	profiler.LeaveSlice(c.name, &c.awake)
	c.finished = true
	close(c.finishedCh)

	joiner := c.adjoindre
	c.adjoindre = nil

	pausedCh := c.yc.pausedCh
	current = nil
	c.yc = nil

	if joiner != nil {
		joiner.note()
	}

	pausedCh <- struct{}{}
}

// note increments the notification counter. If the pre-increment value
// was 0 the context was suspended, so the waker cancels the alarm to
// schedule a wake; the return value reports whether this call issued a
// wake, matching spec.md §4.1's Note contract. Must be called with the
// caller holding the ircd-thread role.
func (c *Context) note() bool {
	before := c.notes
	c.notes++
	if before == 0 {
		return c.alarm.Cancel()
	}
	return false
}

// Interrupt sets the Interrupted flag and notes the context. A context
// parked in Wait, a timed wait, Join, or a synchronizer (notes at 0) has
// its alarm cancelled and wakes at once with the error; one parked in
// SleepUntil, SleepFor or Yield keeps its alarm and sees the error only
// when that suspension ends. A context that has not yet started finishes
// without running its entry function at all.
func (c *Context) Interrupt() {
	c.flags |= Interrupted
	if c.started && !c.finished {
		c.note()
	}
}

// Terminate is Interrupt's strong form: the resulting error at the next
// suspension point is errkind.Terminated rather than errkind.Interrupted,
// and is not meant to be swallowed by handling that only tolerates
// Interrupted.
func (c *Context) Terminate() {
	c.flags |= Interrupted
	c.terminateRequested = true
	if c.started && !c.finished {
		c.note()
	}
}

// Join blocks the calling context until c finishes. Reentrant-safe: a
// second Join after c has already finished returns immediately.
func Join(c *Context) error {
	self := requireCurrent()
	if c.finished {
		return nil
	}
	if c.adjoindre != nil && c.adjoindre != self {
		return errkind.BrokenPromise
	}
	c.adjoindre = self
	for !c.finished {
		if _, err := self.waitSelf(); err != nil {
			return err
		}
	}
	return nil
}

// stackUsageBytes approximates live stack usage. Go exposes no raw frame
// pointer, so this uses the length of a runtime.Stack dump of the calling
// goroutine as a monotonic proxy for stack depth rather than a literal
// byte count of the call stack; it is adequate for the profiler's
// threshold checks but not a faithful stack_base/stack_max byte metric.
func stackUsageBytes() int {
	var buf [65536]byte
	return runtime.Stack(buf[:], false)
}
