package coro

import (
	"time"

	"github.com/kolkov/ircd/internal/ircd/errkind"
)

// requireCurrent returns the running Context, panicking if called outside
// one — every this-context function has the precondition that it is only
// ever called by the current context (spec.md §3 invariant (c)).
func requireCurrent() *Context {
	if current == nil {
		panic("coro: this-context call made with no current context")
	}
	return current
}

// Current returns the presently-running Context, or nil if called from
// outside any context (e.g. directly on the ircd thread's run loop).
func Current() *Context { return current }

// interruptionPointLocked delivers a pending Interrupted/Terminated flag
// as an error, clearing Interrupted so a later call sees a fresh state.
// Called automatically at the end of every suspend(), matching spec.md's
// "interruption_point invoked automatically from every wake".
func interruptionPointLocked(c *Context) error {
	if c.flags&Interrupted == 0 {
		return nil
	}
	c.flags &^= Interrupted
	if c.terminateRequested {
		return errkind.Terminated
	}
	return errkind.Interrupted
}

// InterruptionPoint is a check-only call: it may return an error but
// never yields.
func InterruptionPoint() error {
	return interruptionPointLocked(requireCurrent())
}

// InterruptionRequested reports whether Interrupt or Terminate has been
// called on the current context without yet being delivered.
func InterruptionRequested() bool {
	return requireCurrent().flags&Interrupted != 0
}

// CyclesHere returns the current context's accumulated on-CPU time.
func CyclesHere() time.Duration { return requireCurrent().Awake() }

// StackUsageHere approximates the current context's live stack usage;
// see stackUsageBytes for the caveat that this is a proxy metric, not a
// literal frame-pointer delta (Go exposes no such thing).
func StackUsageHere() int {
	c := requireCurrent()
	if u := stackUsageBytes() - c.stackBase; u > 0 {
		return u
	}
	return 0
}

// ID returns the current context's identifier.
func ID() uint64 { return requireCurrent().ID() }

// NameHere returns the current context's diagnostic label.
func NameHere() string { return requireCurrent().Name() }

// waitSelf is the internal Wait(self) primitive of spec.md §4.1: pre-
// decrement notes; if still >0 a prior notification was buffered and no
// suspension occurs. Otherwise arm the alarm indefinitely and suspend.
func (c *Context) waitSelf() (suspended bool, err error) {
	c.notes--
	if c.notes > 0 {
		return false, nil
	}
	c.alarm.ArmIndefinite()
	err = c.suspend()
	return true, err
}

// Wait blocks the current context until notified (or a buffered
// notification is consumed immediately).
func Wait() error {
	_, err := requireCurrent().waitSelf()
	return err
}

// WaitUntilNothrow arms the alarm to tp and suspends, returning the
// duration remaining until tp (<=0 if tp had already passed) and whether
// a notification (rather than the deadline) woke the context. As in Wait,
// an already-buffered notification is consumed without suspending.
func WaitUntilNothrow(tp time.Time) (remaining time.Duration, notified bool, err error) {
	c := requireCurrent()
	c.notes--
	if c.notes > 0 {
		return time.Until(tp), true, nil
	}
	c.alarm.Arm(tp)
	err = c.suspend()
	remaining = time.Until(tp)
	notified = !c.wakeTimedOut
	return remaining, notified, err
}

// WaitUntil is the throwing form of WaitUntilNothrow: it returns
// errkind.Timeout if tp elapses without a notification.
func WaitUntil(tp time.Time) error {
	_, notified, err := WaitUntilNothrow(tp)
	if err != nil {
		return err
	}
	if !notified {
		return errkind.Timeout
	}
	return nil
}

// WaitForNothrow is WaitUntilNothrow(now+d).
func WaitForNothrow(d time.Duration) (remaining time.Duration, notified bool, err error) {
	return WaitUntilNothrow(time.Now().Add(d))
}

// WaitFor is the throwing form of WaitForNothrow.
func WaitFor(d time.Duration) error {
	return WaitUntil(time.Now().Add(d))
}

// SleepUntil loops WaitUntil, ignoring notifications, until tp has truly
// passed or an interrupt fires; unlike WaitUntil it never returns early
// because something merely notified the context.
func SleepUntil(tp time.Time) error {
	c := requireCurrent()
	for {
		c.alarm.Arm(tp)
		if err := c.suspend(); err != nil {
			return err
		}
		if c.wakeTimedOut || !time.Now().Before(tp) {
			return nil
		}
	}
}

// SleepFor is SleepUntil(now+d).
func SleepFor(d time.Duration) error {
	return SleepUntil(time.Now().Add(d))
}

// Yield gives other ready work one turn on the ircd thread without
// becoming vulnerable to unrelated notifications: it posts a private
// self-wake and loops until that specific wake is observed. A note that
// arrives in the meantime does not wake it and is not kept: resuming
// resets notes to 1, so a later Wait does not see it. This mirrors
// spec.md §9's warning that a naive post+wait yield is vulnerable to an
// intervening notify.
func Yield() error {
	c := requireCurrent()
	for {
		c.yieldSignaled = false
		c.reactor.Post(func() {
			c.yieldSignaled = true
			c.resumeAndWaitForPause()
		})
		c.alarm.ArmIndefinite()
		if err := c.suspend(); err != nil {
			return err
		}
		if c.yieldSignaled {
			return nil
		}
	}
}
