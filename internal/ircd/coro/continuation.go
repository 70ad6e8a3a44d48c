package coro

// continuation is the non-owning handle to a Context's resumption state:
// spec.md's `yc`, null before entry and after finish. Go gives us no
// manual stack-switch primitive, so each Context runs its entry function
// on a dedicated goroutine and a continuation is the ping-pong channel
// pair that hands control between that goroutine and whichever goroutine
// is currently playing "the ircd thread" (the reactor's run loop, or
// another context that is waking this one). Exactly one side of the pair
// is ever unblocked at a time, which is what makes the single-current-
// context invariant hold without an explicit mutex: resumeCh/pausedCh
// together are the "per-context alarm as semaphore" idea from spec.md §9,
// generalized to also carry the actual stack-switch.
type continuation struct {
	resumeCh chan struct{}
	pausedCh chan struct{}
}

func newContinuation() *continuation {
	return &continuation{
		resumeCh: make(chan struct{}),
		pausedCh: make(chan struct{}),
	}
}

// resumeAndWaitForPause is called by whoever currently holds the ircd
// thread role to hand it to c: it wakes c's goroutine and blocks until c
// suspends again (or finishes). This is the "Enter" half of the
// continuation protocol from the resumer's point of view.
func (c *Context) resumeAndWaitForPause() {
	yc := c.yc
	yc.resumeCh <- struct{}{}
	<-yc.pausedCh
}

// suspend is the continuation scope of spec.md §4.2, called from the
// Context's own goroutine. The caller must have armed c.alarm (or called
// ArmIndefinite) appropriately before calling suspend; suspend itself
// only performs the handoff and the enter/leave bookkeeping.
//
// Enter: assert notes <= 1, fire CUR_YIELD, null the current pointer.
// The actual stack-swap is the channel round-trip. Leave (on resume):
// restore current, force notes = 1, fire CUR_CONTINUE, and run
// InterruptionPoint automatically, matching "every wake runs
// interruption_point" from spec.md §4.1.
func (c *Context) suspend() error {
	if c.notes > 1 {
		panic("coro: notes > 1 entering continuation scope")
	}
	if criticalDepth(c) > 0 {
		panic("coro: yield attempted inside a CriticalAssertion scope")
	}
	profilerYield(c)

	current = nil
	yc := c.yc
	yc.pausedCh <- struct{}{}
	<-yc.resumeCh

	current = c
	c.notes = 1
	profilerContinue(c)

	return interruptionPointLocked(c)
}
