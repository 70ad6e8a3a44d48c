package ctx

import "github.com/kolkov/ircd/internal/ircd/pool"

// Pool is a named worker pool: a closure queue drained by a fixed (but
// resizable) set of contexts parked on a shared dock.
type Pool = pool.Pool

// NewPool constructs a Pool of size worker contexts using the default
// runtime's reactor. stackSize is the declared per-worker stack limit in
// bytes for profiler stack-usage checks (0 disables the check).
func NewPool(name string, stackSize, size int) *Pool {
	r := defaultRuntime()
	return pool.New(r.reactor, r.log, name, stackSize, size)
}
