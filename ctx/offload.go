package ctx

import "github.com/kolkov/ircd/internal/ircd/offload"

// Offload runs a blocking closure on one dedicated background OS thread
// while the calling context yields. It is intended for unavoidably
// blocking system calls, not as a general thread pool.
func Offload(fn func() (any, error)) (any, error) {
	return offload.Run(defaultRuntime().offload, fn)
}
