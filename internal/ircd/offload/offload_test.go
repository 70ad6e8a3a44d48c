package offload

import (
	"testing"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/kolkov/ircd/internal/ircd/coro"
	"github.com/kolkov/ircd/internal/ircd/gid"
	"github.com/kolkov/ircd/internal/ircd/reactor"
)

// TestOffloadRoundTrip is spec.md §8's offload round-trip scenario: the
// blocking function runs and returns its value, a sibling context also
// gets to run, and the caller's resume lands back on the ircd thread.
func TestOffloadRoundTrip(t *testing.T) {
	r := reactor.New(hclog.NewNullLogger())
	go r.Run()
	t.Cleanup(r.Stop)

	o := New(hclog.NewNullLogger())
	t.Cleanup(o.Close)

	otherRan := make(chan struct{})
	coro.New(r, nil, func() {
		// Posted ahead of the offloading context, so it runs before the
		// offload starts; the test only checks that it ran.
		close(otherRan)
	}, coro.WithPost())

	var jobThreadID int64
	result := make(chan any, 1)
	resumeOnReactorThread := make(chan bool, 1)

	coro.New(r, nil, func() {
		val, err := Run(o, func() (any, error) {
			jobThreadID = gid.Current()
			time.Sleep(10 * time.Millisecond)
			return 42, nil
		})
		if err != nil {
			t.Errorf("offload run: %v", err)
		}
		resumeOnReactorThread <- r.IsReactorThread()
		result <- val
	}, coro.WithPost())

	select {
	case <-otherRan:
	case <-time.After(2 * time.Second):
		t.Fatal("sibling context never ran during offload")
	}

	select {
	case val := <-result:
		if val != 42 {
			t.Fatalf("expected 42, got %v", val)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("offload round-trip did not complete in time")
	}

	if onReactor := <-resumeOnReactorThread; !onReactor {
		t.Fatal("caller did not resume on the ircd thread")
	}

	if jobThreadID == 0 {
		t.Fatal("job never ran")
	}
}
