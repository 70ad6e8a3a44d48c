package ctx

import (
	"time"

	"github.com/kolkov/ircd/internal/ircd/sync2"
)

// Mutex is a cooperative, FIFO-fair mutex: all acquisition and release
// happens on the ircd thread, and a contended Lock suspends the calling
// context rather than blocking an OS thread.
type Mutex = sync2.Mutex

// NewMutex constructs an unlocked Mutex.
func NewMutex() *Mutex { return sync2.NewMutex() }

// Dock is a cooperative condition variable: a FIFO waiter list plus a
// predicate-recheck wait form tolerant of spurious wakes.
type Dock = sync2.Dock

// NewDock constructs an empty Dock.
func NewDock() *Dock { return sync2.NewDock() }

// WaitDock suspends the calling context on d, releasing and reacquiring m
// around the suspension.
func WaitDock(d *Dock, m *Mutex) error { return d.Wait(m) }

// WaitDockPredicate loops WaitDock until pred reports true.
func WaitDockPredicate(d *Dock, m *Mutex, pred func() bool) error {
	return d.WaitPredicate(m, pred)
}

// WaitDockFor is WaitDock's timed-nothrow form.
func WaitDockFor(d *Dock, m *Mutex, dur time.Duration) (notified bool, err error) {
	return d.WaitFor(m, dur)
}

// View is a single-producer/multi-consumer transient rendezvous
// exchanging a value published by one producer call to every consumer
// currently parked in Wait.
type View[T any] = sync2.View[T]

// NewView constructs an empty View.
func NewView[T any]() *View[T] { return sync2.NewView[T]() }
