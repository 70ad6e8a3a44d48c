package main

import (
	"fmt"
	"sync"
	"time"

	"github.com/kolkov/ircd/ctx"
)

func viewDemo() {
	v := ctx.NewView[int]()
	const consumers = 5
	ready := make(chan struct{}, consumers)
	var mu sync.Mutex
	total := 0
	seen := 0
	allSeen := make(chan struct{})

	for i := 0; i < consumers; i++ {
		ctx.New(func() {
			ready <- struct{}{}
			val, err := v.Wait()
			if err != nil {
				fmt.Println("consumer error:", err)
				return
			}
			mu.Lock()
			total += val
			seen++
			n := seen
			mu.Unlock()
			if n == consumers {
				close(allSeen)
			}
		}, ctx.WithPost())
	}

	done := make(chan struct{})
	ctx.New(func() {
		for i := 0; i < consumers; i++ {
			<-ready
		}
		value := 7
		if err := v.Notify(&value); err != nil {
			fmt.Println("producer error:", err)
		}
		close(done)
	}, ctx.WithPost())

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		fmt.Println("timed out waiting for view demo producer")
		return
	}
	select {
	case <-allSeen:
	case <-time.After(time.Second):
		fmt.Println("timed out waiting for all consumers")
		return
	}
	fmt.Printf("view rendezvous complete: %d consumers observed sum=%d\n", consumers, total)
}
