package ctx

import (
	"github.com/kolkov/ircd/internal/ircd/coro"
	"github.com/kolkov/ircd/internal/ircd/errkind"
)

// Context is a cooperative, stackful coroutine: its own goroutine, an
// entry function, a per-context alarm used as a wake semaphore, a
// monotonic notification counter, and profiling state. See spec.md §3.
type Context = coro.Context

// Option configures a Context at construction time, replacing the four
// commutative-overload-shape constructors of the original API with an
// idiomatic functional-options slice.
type Option = coro.Option

// Name sets the context's diagnostic label.
func Name(name string) Option { return coro.Name(name) }

// StackSize sets the declared maximum stack size in bytes, used by the
// profiler's stack-usage checks. Zero (the default) disables that check.
func StackSize(bytes int) Option { return coro.StackSize(bytes) }

// WithPost schedules the entry function to run on the reactor's next
// turn rather than inline at New time.
func WithPost() Option { return coro.WithPost() }

// WithDispatch runs the entry function inline if New is called from the
// ircd thread, or posts it otherwise.
func WithDispatch() Option { return coro.WithDispatch() }

// WithDetach marks the context as having no owning joiner; it is left to
// be garbage-collected once it finishes.
func WithDetach() Option { return coro.WithDetach() }

// New constructs and spawns a Context running entry, using the default
// runtime's reactor.
//
// Example:
//
//	done := make(chan struct{})
//	ctx.New(func() {
//		defer close(done)
//		ctx.SleepFor(10 * time.Millisecond)
//	}, ctx.WithPost())
//	<-done
func New(entry func(), opts ...Option) *Context {
	r := defaultRuntime()
	return coro.New(r.reactor, r.log, entry, opts...)
}

// Join blocks the calling context until c finishes.
func Join(c *Context) error { return coro.Join(c) }

// Interrupt requests graceful cancellation of c; if c is currently
// suspended, the error surfaces as [errkind.Interrupted] at its next
// suspension point.
func Interrupt(c *Context) { coro.Interrupt(c) }

// Terminate is Interrupt's non-catchable-as-Interrupted strong form.
func Terminate(c *Context) { coro.Terminate(c) }

// Notify wakes c. Must be called from the ircd thread; use
// NotifyThreadsafe from any other goroutine.
func Notify(c *Context) bool { return coro.Notify(c) }

// NotifyThreadsafe wakes c via the reactor's cross-thread submission
// queue, safe to call from any goroutine.
func NotifyThreadsafe(c *Context) { coro.NotifyThreadsafe(c) }

// Signal posts f onto c's private strand.
func Signal(c *Context, f func()) { coro.Signal(c, f) }

// Started reports whether c's entry function has begun running.
func Started(c *Context) bool { return coro.Started(c) }

// Finished reports whether c has run to completion.
func Finished(c *Context) bool { return coro.Finished(c) }

// Interruption reports whether c has a pending, undelivered interrupt or
// terminate request.
func Interruption(c *Context) bool { return coro.Interruption(c) }

// Notes returns c's current notification counter value.
func Notes(c *Context) int64 { return coro.NotesOf(c) }

// ID returns c's process-wide unique identifier.
func ID(c *Context) uint64 { return coro.IDOf(c) }

// NameOf returns c's diagnostic label.
func NameOf(c *Context) string { return coro.NameOf(c) }

// Error kinds a this-context call or Join may return. Compare with
// errors.Is; these are sentinels, not types to unwrap.
var (
	ErrInterrupted   = errkind.Interrupted
	ErrTerminated    = errkind.Terminated
	ErrTimeout       = errkind.Timeout
	ErrBrokenPromise = errkind.BrokenPromise
)
