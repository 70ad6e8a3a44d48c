package main

import (
	"fmt"
	"time"

	"github.com/kolkov/ircd/ctx"
)

func offloadDemo() {
	done := make(chan struct{})
	ctx.New(func() {
		start := time.Now()
		val, err := ctx.Offload(func() (any, error) {
			time.Sleep(50 * time.Millisecond)
			return 42, nil
		})
		if err != nil {
			fmt.Println("offload error:", err)
			return
		}
		fmt.Printf("offload result=%v elapsed=%s\n", val, time.Since(start).Round(time.Millisecond))
		close(done)
	}, ctx.WithPost())

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		fmt.Println("timed out waiting for offload demo to finish")
	}
}
