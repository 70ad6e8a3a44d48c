// Package errkind defines the sentinel error values a Context's blocking
// calls can resolve to, modeled on the stdlib context package's
// context.Canceled / context.DeadlineExceeded pair but extended with the
// two additional outcomes the runtime distinguishes: a context that is
// being torn down entirely (Terminated, as opposed to merely Interrupted)
// and a wait whose counterpart promise will never be fulfilled
// (BrokenPromise).
//
// Callers compare against these with errors.Is; nothing in this package
// is a struct type, so there is nothing to unwrap.
package errkind

import "errors"

var (
	// Interrupted is returned by a this-context blocking call when the
	// context's INTERRUPTED flag was set while it was suspended. It is
	// cleared on delivery: a context may be interrupted again afterward.
	Interrupted = errors.New("ircd: context interrupted")

	// Terminated is returned by a this-context blocking call, and by any
	// pending Wait/Join, when the context has been asked to unwind for
	// good. Unlike Interrupted, it is not meant to be caught and resumed;
	// a context observing Terminated is expected to return promptly.
	Terminated = errors.New("ircd: context terminated")

	// Timeout is returned by the throwing timed waits, WaitUntil and
	// WaitFor, when the deadline passed without a notification. SleepUntil
	// and SleepFor return nil when their deadline passes.
	Timeout = errors.New("ircd: wait timed out")

	// BrokenPromise is returned by Join when another context is already
	// waiting to join the same target; only one joiner is tracked.
	BrokenPromise = errors.New("ircd: broken promise")
)
