package coro

// Notify wakes c per spec.md §4.1's Note operation. Must be called from
// the ircd thread; call NotifyThreadsafe from any other goroutine (the
// offload worker does not use it: it delivers its wake through Signal).
func Notify(c *Context) bool {
	if !c.reactor.IsReactorThread() {
		panic("coro: Notify called off the ircd thread; use NotifyThreadsafe")
	}
	return c.note()
}

// NotifyThreadsafe posts c's wake through the reactor's cross-thread
// submission queue, per spec.md §5's notify_threadsafe.
func NotifyThreadsafe(c *Context) {
	c.reactor.PostThreadsafe(func() { c.note() })
}

// Interrupt requests graceful cancellation of c.
func Interrupt(c *Context) { c.Interrupt() }

// Terminate requests forced, non-catchable-as-interrupted cancellation of c.
func Terminate(c *Context) { c.Terminate() }

// YieldTo is spec.md §6's inter-context yield(ctx): give c a chance to
// run by notifying it, distinct from the this-context Yield() which
// yields the caller's own turn.
func YieldTo(c *Context) bool { return Notify(c) }

// Signal posts f onto c's private strand, for delivering a closure to run
// "as" c without going through the note/wait protocol (used by Offload's
// completion callback).
func Signal(c *Context, f func()) { c.strand.Post(f) }

// Started reports whether c's entry function has begun running.
func Started(c *Context) bool { return c.Started() }

// Finished reports whether c has run to completion.
func Finished(c *Context) bool { return c.Finished() }

// Interruption reports whether c has a pending, undelivered interrupt or
// terminate request.
func Interruption(c *Context) bool { return c.flags&Interrupted != 0 }

// NotesOf returns c's current notification counter value.
func NotesOf(c *Context) int64 { return c.Notes() }

// IDOf returns c's identifier.
func IDOf(c *Context) uint64 { return c.ID() }

// NameOf returns c's diagnostic label.
func NameOf(c *Context) string { return c.Name() }
