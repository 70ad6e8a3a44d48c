package coro

import (
	"testing"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/kolkov/ircd/internal/ircd/errkind"
	"github.com/kolkov/ircd/internal/ircd/reactor"
)

func newTestReactor(t *testing.T) *reactor.Reactor {
	t.Helper()
	r := reactor.New(hclog.NewNullLogger())
	go r.Run()
	t.Cleanup(r.Stop)
	return r
}

// TestPingPong is spec.md §8's ping-pong end-to-end scenario: two
// contexts notify/wait each other 1000 times and both must finish having
// completed every cycle.
func TestPingPong(t *testing.T) {
	r := newTestReactor(t)

	const cycles = 1000
	var a, b *Context
	done := make(chan struct{})

	a = New(r, nil, func() {
		for i := 0; i < cycles; i++ {
			Notify(b)
			if err := Wait(); err != nil {
				t.Errorf("a: wait: %v", err)
				return
			}
		}
	}, Name("a"), WithPost())

	b = New(r, nil, func() {
		for i := 0; i < cycles; i++ {
			if err := Wait(); err != nil {
				t.Errorf("b: wait: %v", err)
				return
			}
			Notify(a)
		}
		close(done)
	}, Name("b"), WithPost())

	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("ping-pong did not complete in time")
	}

	deadline := time.After(time.Second)
	for !Finished(a) || !Finished(b) {
		select {
		case <-deadline:
			t.Fatalf("expected both contexts finished, got a=%v b=%v", Finished(a), Finished(b))
		default:
			time.Sleep(time.Millisecond)
		}
	}
}

// TestNotesAlgebra checks property 2 from spec.md §8: after a successful
// wake by a note, notes == 1.
func TestNotesAlgebra(t *testing.T) {
	r := newTestReactor(t)

	var target *Context
	result := make(chan int64, 1)

	target = New(r, nil, func() {
		// The target is posted before the Notify below, so this Wait
		// suspends and the posted Notify is what wakes it.
		if err := Wait(); err != nil {
			t.Errorf("wait: %v", err)
			return
		}
		result <- Notes()
	}, WithPost())

	r.Post(func() {
		Notify(target)
	})

	select {
	case n := <-result:
		if n != 1 {
			t.Fatalf("expected notes == 1 after wake, got %d", n)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for result")
	}
}

// Notes exposes the running context's notification counter for tests.
func Notes() int64 { return requireCurrent().Notes() }

// TestInterrupt checks property 4: an interrupted context raises
// errkind.Interrupted at its next suspension point.
func TestInterrupt(t *testing.T) {
	r := newTestReactor(t)

	errCh := make(chan error, 1)
	var target *Context
	target = New(r, nil, func() {
		errCh <- Wait()
	}, WithPost())

	r.Post(func() {
		Interrupt(target)
	})

	select {
	case err := <-errCh:
		if err == nil {
			t.Fatal("expected an error from Wait after Interrupt")
		}
		if !errIsInterrupted(err) {
			t.Fatalf("expected errkind.Interrupted, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for interrupt delivery")
	}
}

func errIsInterrupted(err error) bool {
	return err == errkind.Interrupted
}

// TestJoinLiveness checks property 3: a joiner resumes iff the joined
// context finishes, and observes Finished() == true.
func TestJoinLiveness(t *testing.T) {
	r := newTestReactor(t)

	var a *Context
	a = New(r, nil, func() {
		_ = SleepFor(10 * time.Millisecond)
	}, WithPost())

	joinedOK := make(chan bool, 1)
	New(r, nil, func() {
		err := Join(a)
		joinedOK <- err == nil && Finished(a)
	}, WithPost())

	select {
	case ok := <-joinedOK:
		if !ok {
			t.Fatal("joiner resumed without observing a.Finished()")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for join")
	}
}

// TestTimedWaitResolution checks property 8 and spec.md §8's "timed wait
// resolution" scenario: an un-notified wait_for(50ms) resolves at or
// after the deadline, while a notified one resolves early.
func TestTimedWaitResolution(t *testing.T) {
	r := newTestReactor(t)

	remainingCh := make(chan time.Duration, 1)
	New(r, nil, func() {
		remaining, _, err := WaitForNothrow(50 * time.Millisecond)
		if err != nil {
			t.Errorf("wait_for: %v", err)
		}
		remainingCh <- remaining
	}, WithPost())

	select {
	case remaining := <-remainingCh:
		if remaining > 0 {
			t.Fatalf("expected remaining <= 0 for an un-notified wait, got %v", remaining)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out")
	}

	notifiedCh := make(chan time.Duration, 1)
	var c *Context
	c = New(r, nil, func() {
		remaining, notified, err := WaitForNothrow(50 * time.Millisecond)
		if err != nil {
			t.Errorf("wait_for: %v", err)
		}
		if !notified {
			t.Error("expected a notification, not a timeout")
		}
		notifiedCh <- remaining
	}, WithPost())

	time.AfterFunc(20*time.Millisecond, func() {
		r.PostThreadsafe(func() { Notify(c) })
	})

	select {
	case remaining := <-notifiedCh:
		if remaining <= 0 || remaining > 30*time.Millisecond {
			t.Fatalf("expected 0 < remaining <= 30ms, got %v", remaining)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out")
	}
}
