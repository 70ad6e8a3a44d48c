// Package sync2 provides the runtime's cooperative synchronizers: Mutex,
// Dock (condition variable), and View[T] (producer/multi-consumer
// rendezvous). None of these touch an OS-level lock; every operation
// assumes it runs on the ircd thread, exactly like spec.md §3 describes.
package sync2

import (
	"container/list"

	"github.com/kolkov/ircd/internal/ircd/coro"
)

// Mutex is a cooperative, FIFO-fair mutex. It is not a kernel mutex: all
// acquisition and release happens on the ircd thread, and contended Lock
// calls suspend the calling Context rather than spinning or blocking an
// OS thread.
type Mutex struct {
	locked  bool
	owner   *coro.Context
	waiters *list.List // of *coro.Context, in FIFO wait order
}

// NewMutex constructs an unlocked Mutex.
func NewMutex() *Mutex {
	return &Mutex{waiters: list.New()}
}

// Lock acquires the mutex, suspending the calling context if it is
// currently held. Waiters are served strictly FIFO: unlock hands the
// mutex directly to the head of the wait list rather than releasing it
// to a free state, so a context that calls Lock after others are already
// queued can never barge ahead of them.
func (m *Mutex) Lock() error {
	c := coro.Current()
	if !m.locked {
		m.locked = true
		m.owner = c
		return nil
	}
	e := m.waiters.PushBack(c)
	err := coro.Wait()
	m.waiters.Remove(e)
	if err != nil {
		return err
	}
	// Unlock transferred ownership to us directly; nothing left to do.
	m.owner = c
	return nil
}

// TryLock acquires the mutex only if it is currently free. It never
// yields.
func (m *Mutex) TryLock() bool {
	if m.locked {
		return false
	}
	m.locked = true
	m.owner = coro.Current()
	return true
}

// Unlock releases the mutex. If waiters are queued, ownership transfers
// directly to the head of the queue (locked remains true throughout);
// otherwise the mutex becomes free.
func (m *Mutex) Unlock() {
	e := m.waiters.Front()
	if e == nil {
		m.locked = false
		m.owner = nil
		return
	}
	m.waiters.Remove(e)
	next := e.Value.(*coro.Context)
	m.owner = next
	coro.Notify(next)
}
