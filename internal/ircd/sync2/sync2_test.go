package sync2

import (
	"testing"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/kolkov/ircd/internal/ircd/coro"
	"github.com/kolkov/ircd/internal/ircd/reactor"
)

func newTestReactor(t *testing.T) *reactor.Reactor {
	t.Helper()
	r := reactor.New(hclog.NewNullLogger())
	go r.Run()
	t.Cleanup(r.Stop)
	return r
}

// TestMutexFIFO is spec.md §8's mutex FIFO scenario: ten contexts lock a
// shared mutex in spawn order; the unlock sequence must match.
func TestMutexFIFO(t *testing.T) {
	r := newTestReactor(t)
	m := NewMutex()

	const n = 10
	var order []int
	done := make(chan struct{})

	// First locker grabs the mutex before the rest even try, guaranteeing
	// the remaining nine queue up in spawn order behind it.
	gate := make(chan struct{})

	for i := 0; i < n; i++ {
		i := i
		coro.New(r, nil, func() {
			if i == 0 {
				close(gate)
			} else {
				<-gate
			}
			if err := m.Lock(); err != nil {
				t.Errorf("ctx %d: lock: %v", i, err)
				return
			}
			order = append(order, i)
			_ = coro.SleepFor(time.Millisecond)
			m.Unlock()
			if len(order) == n {
				close(done)
			}
		}, coro.WithPost())
	}

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("mutex FIFO scenario did not complete in time")
	}

	for i, got := range order {
		if got != i {
			t.Fatalf("expected FIFO order, got %v", order)
		}
	}
}

// TestDockPredicate is spec.md §8 property 5: dock.Wait(p) returns only
// when p() is true, regardless of spurious notifications.
func TestDockPredicate(t *testing.T) {
	r := newTestReactor(t)
	m := NewMutex()
	d := NewDock()

	ready := false
	result := make(chan bool, 1)

	coro.New(r, nil, func() {
		if err := m.Lock(); err != nil {
			t.Errorf("lock: %v", err)
			return
		}
		err := d.WaitPredicate(m, func() bool { return ready })
		result <- err == nil && ready
		m.Unlock()
	}, coro.WithPost())

	// Fire a handful of spurious notifications before the real one.
	r.Post(func() {
		d.NotifyAll()
		d.NotifyAll()
		m.Lock()
		ready = true
		m.Unlock()
		d.NotifyAll()
	})

	select {
	case ok := <-result:
		if !ok {
			t.Fatal("WaitPredicate returned before predicate was true")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out")
	}
}

// TestViewRendezvous is spec.md §8's view rendezvous scenario: a producer
// publishes a value to five consumers and does not return from Notify
// until all five have observed it.
func TestViewRendezvous(t *testing.T) {
	r := newTestReactor(t)
	v := NewView[int]()

	const consumers = 5
	sum := make(chan int, consumers)
	ready := make(chan struct{}, consumers)

	for i := 0; i < consumers; i++ {
		coro.New(r, nil, func() {
			ready <- struct{}{}
			val, err := v.Wait()
			if err != nil {
				t.Errorf("consumer wait: %v", err)
				return
			}
			sum <- val
		}, coro.WithPost())
	}

	producerDone := make(chan struct{})
	coro.New(r, nil, func() {
		for i := 0; i < consumers; i++ {
			<-ready
		}
		value := 42
		if err := v.Notify(&value); err != nil {
			t.Errorf("notify: %v", err)
		}
		close(producerDone)
	}, coro.WithPost())

	select {
	case <-producerDone:
	case <-time.After(5 * time.Second):
		t.Fatal("producer did not return in time")
	}

	total := 0
	for i := 0; i < consumers; i++ {
		select {
		case v := <-sum:
			total += v
		case <-time.After(time.Second):
			t.Fatalf("only received %d of %d consumer results", i, consumers)
		}
	}
	if total != 42*consumers {
		t.Fatalf("expected every consumer to observe 42, total=%d", total)
	}
}
