package sync2

// View is a single-producer/multi-consumer transient rendezvous: the
// producer hands a pointer to a value living on its own goroutine's stack
// to every consumer currently waiting, then blocks until each of them has
// observed it. Go generics stand in for the C++ template view<T> spec.md
// names. Consumers receive a copy of the value from Wait, never the
// producer's pointer, so the producer may reuse or discard the backing
// storage the instant every consumer has read it.
//
// Guarantees (spec.md §4.5): every consumer that entered Wait before
// Notify returns observes the same value; consumers entering Wait after
// Notify has returned do not see it; Notify does not return until every
// such consumer has read the value.
type View[T any] struct {
	mu      *Mutex
	dock    *Dock
	t       *T
	waiting int
}

// NewView constructs an empty View.
func NewView[T any]() *View[T] {
	return &View[T]{mu: NewMutex(), dock: NewDock()}
}

// Notify publishes value to every consumer currently blocked in Wait. If
// no consumer is waiting, it returns immediately without publishing
// anything — there is no one to serve.
func (v *View[T]) Notify(value *T) error {
	if err := v.mu.Lock(); err != nil {
		return err
	}
	if v.waiting == 0 {
		v.mu.Unlock()
		return nil
	}
	v.t = value
	v.dock.NotifyAll()
	err := v.dock.WaitPredicate(v.mu, func() bool { return v.waiting == 0 })
	v.t = nil
	v.mu.Unlock()
	return err
}

// Wait blocks until a producer calls Notify, then returns the published
// value by copy (Go has no way to hand back a bare pointer into another
// goroutine's live stack frame safely once that goroutine resumes, so
// Wait copies out *value while the producer is still parked, preserving
// the single-rendezvous-per-Notify guarantee without the raw-pointer
// aliasing risk the original C++ accepted).
func (v *View[T]) Wait() (T, error) {
	var zero T
	if err := v.mu.Lock(); err != nil {
		return zero, err
	}
	v.waiting++
	err := v.dock.WaitPredicate(v.mu, func() bool { return v.t != nil })
	if err != nil {
		v.waiting--
		v.dock.NotifyAll()
		v.mu.Unlock()
		return zero, err
	}
	val := *v.t
	v.waiting--
	v.dock.NotifyAll()
	v.mu.Unlock()
	return val, nil
}
