package ctx_test

import (
	"fmt"
	"time"

	"github.com/kolkov/ircd/ctx"
)

// Example demonstrates the ping-pong pattern between two contexts:
// notify a sibling, then wait to be notified back.
func Example() {
	done := make(chan struct{})
	var a, b *ctx.Context

	a = ctx.New(func() {
		for i := 0; i < 3; i++ {
			ctx.Notify(b)
			ctx.Wait()
		}
	}, ctx.WithPost())

	b = ctx.New(func() {
		for i := 0; i < 3; i++ {
			ctx.Wait()
			ctx.Notify(a)
		}
		fmt.Println("done")
		close(done)
	}, ctx.WithPost())

	<-done

	// Output:
	// done
}

// Example_mutex demonstrates FIFO-fair mutual exclusion between
// contexts.
func Example_mutex() {
	m := ctx.NewMutex()
	done := make(chan struct{})

	ctx.New(func() {
		if err := m.Lock(); err != nil {
			return
		}
		defer m.Unlock()
		fmt.Println("locked")
		close(done)
	}, ctx.WithPost())

	<-done

	// Output:
	// locked
}

// Example_sleepFor demonstrates a timed suspension.
func Example_sleepFor() {
	done := make(chan struct{})
	ctx.New(func() {
		ctx.SleepFor(time.Millisecond)
		fmt.Println("awake")
		close(done)
	}, ctx.WithPost())

	<-done

	// Output:
	// awake
}
