// Package profiler tracks per-slice CPU time and per-context stack usage
// across the cooperative runtime's continuation protocol, firing
// configurable warnings and hard assertions on threshold breach. It is a
// single global object — spec.md §4.8 describes it as "a static object"
// — since there is exactly one ircd thread and therefore exactly one
// slice in flight at any instant.
package profiler

import (
	"fmt"
	"time"

	"github.com/hashicorp/go-hclog"
)

// Settings configures the profiler's thresholds. A zero Duration disables
// the corresponding check.
type Settings struct {
	// StackUsageWarning and StackUsageAssertion are fractions of a
	// context's declared stack_max; crossing Warning logs, crossing
	// Assertion panics (a debug-only assertion per spec.md §4.8).
	StackUsageWarning   float64
	StackUsageAssertion float64

	// SliceWarning logs when a single on-CPU slice runs at least this
	// long. SliceInterrupt requests an interrupt on the offending
	// context when exceeded. SliceAssertion panics.
	SliceWarning   time.Duration
	SliceInterrupt time.Duration
	SliceAssertion time.Duration
}

var (
	log        hclog.Logger = hclog.NewNullLogger()
	settings   Settings
	sliceStart time.Time
)

// SetLogger installs the logger used for warning/assertion messages.
func SetLogger(l hclog.Logger) {
	if l == nil {
		l = hclog.NewNullLogger()
	}
	log = l.Named("profiler")
}

// Configure replaces the active Settings.
func Configure(s Settings) { settings = s }

// Current returns the active Settings.
func Current() Settings { return settings }

// EnterSlice marks the start of a new on-CPU slice: spec.md's CUR_ENTER
// (context spawn) and CUR_CONTINUE (resume from suspension) events both
// reduce to this single snapshot.
func EnterSlice() { sliceStart = time.Now() }

// LeaveSlice closes out the current slice: it computes the slice's
// duration, accumulates it into *awake, applies the slice warning/
// interrupt/assertion checks, and reports whether slice_interrupt was
// exceeded (the caller is responsible for actually requesting the
// interrupt). Called both at CUR_YIELD (every suspension) and at the
// context's final CUR_LEAVE; see coro.profilerYield's doc comment for why
// this implementation accumulates awake at every slice boundary rather
// than only at final exit.
func LeaveSlice(name string, awake *time.Duration) (interruptNow bool) {
	d := time.Since(sliceStart)
	*awake += d

	if settings.SliceWarning > 0 && d >= settings.SliceWarning {
		log.Warn("context exceeded slice warning threshold", "context", name, "slice", d, "awake", *awake)
	}
	if settings.SliceAssertion > 0 && d >= settings.SliceAssertion {
		panic(fmt.Sprintf("profiler: context %q exceeded slice assertion threshold (%s >= %s)", name, d, settings.SliceAssertion))
	}
	return settings.SliceInterrupt > 0 && d >= settings.SliceInterrupt
}

// CheckYield applies the stack-usage check fired on every CUR_YIELD: a
// warning when live usage crosses StackUsageWarning of stackMax, a panic
// (debug-only assertion) when it crosses StackUsageAssertion. stackMax
// <= 0 disables the check entirely (no declared limit).
func CheckYield(name string, stackUsage, stackMax int) {
	if stackMax <= 0 {
		return
	}
	ratio := float64(stackUsage) / float64(stackMax)
	if settings.StackUsageAssertion > 0 && ratio >= settings.StackUsageAssertion {
		panic(fmt.Sprintf("profiler: context %q exceeded stack usage assertion (%d/%d bytes)", name, stackUsage, stackMax))
	}
	if settings.StackUsageWarning > 0 && ratio >= settings.StackUsageWarning {
		log.Warn("context approaching stack limit", "context", name, "bytes", stackUsage, "max", stackMax)
	}
}
