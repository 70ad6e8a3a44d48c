package sync2

import (
	"container/list"
	"time"

	"github.com/kolkov/ircd/internal/ircd/coro"
)

// Dock is a cooperative condition variable: a FIFO waiter list plus a
// predicate-recheck wait form. Spurious wakes are tolerated — the
// predicate form (WaitPredicate) is the only reliable one, exactly as
// spec.md §3/§4.4 describes.
type Dock struct {
	waiters *list.List // of *coro.Context, in FIFO wait order
}

// NewDock constructs an empty Dock.
func NewDock() *Dock {
	return &Dock{waiters: list.New()}
}

// Wait suspends the calling context on the dock, releasing m first and
// reacquiring it before returning (mirroring a classic condition
// variable's mutex coupling). It may return having been woken spuriously.
func (d *Dock) Wait(m *Mutex) error {
	c := coro.Current()
	e := d.waiters.PushBack(c)
	m.Unlock()
	err := coro.Wait()
	d.waiters.Remove(e)
	if lerr := m.Lock(); err == nil {
		err = lerr
	}
	return err
}

// WaitPredicate loops Wait until pred reports true, tolerating any number
// of spurious wakes in between.
func (d *Dock) WaitPredicate(m *Mutex, pred func() bool) error {
	for !pred() {
		if err := d.Wait(m); err != nil {
			return err
		}
	}
	return nil
}

// WaitUntil is WaitPredicate's timed-nothrow cousin: it suspends until
// either notified or tp elapses, releasing and reacquiring m around the
// suspension, and reports which happened.
func (d *Dock) WaitUntil(m *Mutex, tp time.Time) (notified bool, err error) {
	c := coro.Current()
	e := d.waiters.PushBack(c)
	m.Unlock()
	_, notified, err = coro.WaitUntilNothrow(tp)
	d.waiters.Remove(e)
	if lerr := m.Lock(); err == nil {
		err = lerr
	}
	return notified, err
}

// WaitFor is WaitUntil(m, time.Now().Add(d)).
func (d *Dock) WaitFor(m *Mutex, dur time.Duration) (notified bool, err error) {
	return d.WaitUntil(m, time.Now().Add(dur))
}

// NotifyOne wakes the single longest-waiting context, if any.
func (d *Dock) NotifyOne() {
	e := d.waiters.Front()
	if e == nil {
		return
	}
	d.waiters.Remove(e)
	coro.Notify(e.Value.(*coro.Context))
}

// NotifyAll wakes every waiting context, in FIFO order.
func (d *Dock) NotifyAll() {
	for e := d.waiters.Front(); e != nil; {
		next := e.Next()
		d.waiters.Remove(e)
		coro.Notify(e.Value.(*coro.Context))
		e = next
	}
}
