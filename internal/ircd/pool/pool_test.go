package pool

import (
	"sync"
	"testing"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/kolkov/ircd/internal/ircd/coro"
	"github.com/kolkov/ircd/internal/ircd/reactor"
)

// TestPoolFanOut is spec.md §8's pool fan-out scenario: a pool of size 4
// services 100 submitted closures, each recording its worker id; the
// result must have length 100, every id in {0..3}, and no worker handling
// more than 60% of the total.
func TestPoolFanOut(t *testing.T) {
	r := reactor.New(hclog.NewNullLogger())
	go r.Run()
	t.Cleanup(r.Stop)

	p := New(r, nil, "fanout", 0, 4)

	const jobs = 100
	var mu sync.Mutex
	var results []int
	done := make(chan struct{})

	r.Post(func() {
		for i := 0; i < jobs; i++ {
			if err := p.Submit(func() {
				mu.Lock()
				results = append(results, workerIDFromName())
				n := len(results)
				mu.Unlock()
				if n == jobs {
					close(done)
				}
			}); err != nil {
				t.Errorf("submit: %v", err)
			}
		}
	})

	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("pool fan-out did not complete in time")
	}

	mu.Lock()
	defer mu.Unlock()
	if len(results) != jobs {
		t.Fatalf("expected %d results, got %d", jobs, len(results))
	}
	counts := make(map[int]int)
	for _, id := range results {
		if id < 0 || id >= 4 {
			t.Fatalf("unexpected worker id %d", id)
		}
		counts[id]++
	}
	for id, c := range counts {
		if float64(c) > 0.6*float64(jobs) {
			t.Fatalf("worker %d handled %d/%d jobs, exceeding 60%%", id, c, jobs)
		}
	}
}

// workerIDFromName extracts the trailing worker id ircd assigns pool
// worker context names, relying on coro.NameHere() since a task runs
// inside its worker's own context.
func workerIDFromName() int {
	name := coro.NameHere()
	var id int
	for i := len(name) - 1; i >= 0; i-- {
		if name[i] < '0' || name[i] > '9' {
			id = atoiTail(name[i+1:])
			break
		}
	}
	return id
}

func atoiTail(s string) int {
	n := 0
	for _, c := range s {
		n = n*10 + int(c-'0')
	}
	return n
}
