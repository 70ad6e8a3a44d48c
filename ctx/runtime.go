package ctx

import (
	"sync"

	"github.com/hashicorp/go-hclog"

	"github.com/kolkov/ircd/internal/ircd/offload"
	"github.com/kolkov/ircd/internal/ircd/profiler"
	"github.com/kolkov/ircd/internal/ircd/reactor"
)

// runtime bundles the one reactor and one offload bridge this package's
// package-level functions operate against. ircd is a single-threaded
// cooperative runtime by design (spec.md §5); a process embeds exactly
// one of these, started lazily on first use.
type runtime struct {
	reactor *reactor.Reactor
	offload *offload.Offload
	log     hclog.Logger
}

var (
	rt     *runtime
	rtOnce sync.Once
)

func defaultRuntime() *runtime {
	rtOnce.Do(func() {
		log := hclog.Default().Named("ircd")
		r := reactor.New(log)
		go r.Run()
		profiler.SetLogger(log)
		rt = &runtime{
			reactor: r,
			offload: offload.New(log),
			log:     log,
		}
	})
	return rt
}

// SetLogger replaces the default hclog.Logger used by the runtime's
// reactor, profiler, and offload bridge. Call before spawning any
// context; it has no effect once the runtime has already started.
func SetLogger(l hclog.Logger) {
	rtOnce.Do(func() {
		r := reactor.New(l)
		go r.Run()
		profiler.SetLogger(l)
		rt = &runtime{reactor: r, offload: offload.New(l), log: l}
	})
}

// Shutdown stops the reactor and offload bridge once their queues drain.
// Intended for tests and clean process exit; it does not block.
func Shutdown() {
	if rt == nil {
		return
	}
	rt.reactor.Stop()
	rt.offload.Close()
}
