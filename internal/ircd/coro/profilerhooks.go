package coro

import "github.com/kolkov/ircd/internal/ircd/profiler"

// profilerYield is the continuation scope's Enter half: it fires CUR_YIELD
// (stack-usage check) and the slice check that, in this implementation,
// also closes out the current slice's duration into the context's
// cumulative awake time. spec.md's event table lists awake-accumulation
// only under CUR_LEAVE, but that event fires solely at final context
// exit; accumulating exclusively there would leave a long-lived context's
// awake time reading zero for its entire run. Accumulating at every
// CUR_YIELD as well as at the final CUR_LEAVE keeps "awake" a meaningful
// running total, which is the only reading consistent with the slice
// warning log line citing "cumulative awake" mid-run. See DESIGN.md.
func profilerYield(c *Context) {
	if profiler.LeaveSlice(c.name, &c.awake) {
		c.flags |= Interrupted
	}
	profiler.CheckYield(c.name, stackUsageBytes(), c.stackMax)
}

// profilerContinue is the continuation scope's Leave half: CUR_CONTINUE,
// restarting the slice clock for the next run.
func profilerContinue(c *Context) {
	profiler.EnterSlice()
}

// criticalDepth reports c's CriticalAssertion nesting depth; a non-zero
// value inside suspend() means application code attempted to yield from
// within a scope that claimed it never would.
func criticalDepth(c *Context) int { return c.critDepth }

// CriticalAssertion marks the calling context's current scope as one
// that must not yield. The returned func must be deferred to close the
// scope. Any suspend() call made while depth > 0 panics, surfacing the
// violation immediately rather than silently corrupting scheduling state.
func CriticalAssertion() func() {
	c := requireCurrent()
	c.critDepth++
	return func() { c.critDepth-- }
}
