package main

import (
	"fmt"
	"time"

	"github.com/kolkov/ircd/ctx"
)

func pingPongDemo() {
	const cycles = 1000
	done := make(chan struct{})

	var a, b *ctx.Context
	a = ctx.New(func() {
		for i := 0; i < cycles; i++ {
			ctx.Notify(b)
			if err := ctx.Wait(); err != nil {
				fmt.Println("a: unexpected error:", err)
				return
			}
		}
	}, ctx.Name("a"), ctx.WithPost())

	b = ctx.New(func() {
		for i := 0; i < cycles; i++ {
			if err := ctx.Wait(); err != nil {
				fmt.Println("b: unexpected error:", err)
				return
			}
			ctx.Notify(a)
		}
		close(done)
	}, ctx.Name("b"), ctx.WithPost())

	select {
	case <-done:
	case <-time.After(10 * time.Second):
		fmt.Println("timed out waiting for ping-pong to finish")
		return
	}

	for !ctx.Finished(a) || !ctx.Finished(b) {
		time.Sleep(time.Millisecond)
	}
	fmt.Printf("ping-pong complete: %d cycles, a.finished=%v b.finished=%v\n", cycles, ctx.Finished(a), ctx.Finished(b))
}
