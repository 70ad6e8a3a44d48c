package ctx

import (
	"time"

	"github.com/kolkov/ircd/internal/ircd/coro"
)

// Wait blocks the current context until notified, or returns immediately
// if a notification was already buffered.
func Wait() error { return coro.Wait() }

// Yield gives other ready work one turn on the ircd thread. Unlike Wait,
// it is immune to unrelated notifications arriving while it is parked.
func Yield() error { return coro.Yield() }

// SleepFor suspends the current context for at least d, ignoring any
// notifications that arrive in the meantime.
func SleepFor(d time.Duration) error { return coro.SleepFor(d) }

// SleepUntil suspends the current context until tp, ignoring any
// notifications that arrive in the meantime.
func SleepUntil(tp time.Time) error { return coro.SleepUntil(tp) }

// WaitFor is the throwing form: it returns ErrTimeout if d elapses
// without a notification.
func WaitFor(d time.Duration) error { return coro.WaitFor(d) }

// WaitForNothrow is WaitFor's nothrow form, returning the remaining
// duration (<=0 means the deadline was reached) and whether a
// notification (rather than the deadline) resolved the wait.
func WaitForNothrow(d time.Duration) (remaining time.Duration, notified bool, err error) {
	return coro.WaitForNothrow(d)
}

// WaitUntil is the throwing form: it returns ErrTimeout if tp elapses
// without a notification.
func WaitUntil(tp time.Time) error { return coro.WaitUntil(tp) }

// WaitUntilNothrow is WaitUntil's nothrow form.
func WaitUntilNothrow(tp time.Time) (remaining time.Duration, notified bool, err error) {
	return coro.WaitUntilNothrow(tp)
}

// InterruptionPoint checks for, and delivers, a pending interrupt or
// terminate without yielding.
func InterruptionPoint() error { return coro.InterruptionPoint() }

// InterruptionRequested reports whether Interrupt or Terminate has been
// called on the current context without yet being delivered.
func InterruptionRequested() bool { return coro.InterruptionRequested() }

// CyclesHere returns the current context's accumulated on-CPU time.
func CyclesHere() time.Duration { return coro.CyclesHere() }

// StackUsageHere approximates the current context's live stack usage in
// bytes; see coro.StackUsageHere for the caveat that Go exposes no raw
// frame pointer, so this is a proxy metric.
func StackUsageHere() int { return coro.StackUsageHere() }

// IDHere returns the current context's identifier.
func IDHere() uint64 { return coro.ID() }

// NameHere returns the current context's diagnostic label.
func NameHere() string { return coro.NameHere() }

// Current returns the presently-running Context, or nil outside of one.
func Current() *Context { return coro.Current() }

// CriticalAssertion marks the calling context's current scope as one
// that must never yield; the returned func must be deferred to close the
// scope. Any suspension attempted while the scope is open panics.
func CriticalAssertion() func() { return coro.CriticalAssertion() }
