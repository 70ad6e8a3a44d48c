package main

import (
	"fmt"
	"sync"
	"time"

	"github.com/kolkov/ircd/ctx"
)

func mutexDemo() {
	m := ctx.NewMutex()
	const n = 10
	var mu sync.Mutex
	var order []int
	done := make(chan struct{})
	gate := make(chan struct{})

	for i := 0; i < n; i++ {
		i := i
		ctx.New(func() {
			if i == 0 {
				close(gate)
			} else {
				<-gate
			}
			if err := m.Lock(); err != nil {
				fmt.Println("lock error:", err)
				return
			}
			mu.Lock()
			order = append(order, i)
			count := len(order)
			mu.Unlock()
			ctx.SleepFor(time.Millisecond)
			m.Unlock()
			if count == n {
				close(done)
			}
		}, ctx.WithPost())
	}

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		fmt.Println("timed out waiting for mutex demo to finish")
		return
	}
	fmt.Println("lock order:", order)
}

func poolDemo() {
	p := ctx.NewPool("demo", 0, 4)
	const jobs = 100
	var mu sync.Mutex
	counts := make(map[int]int)
	done := make(chan struct{})
	completed := 0

	for i := 0; i < jobs; i++ {
		p.Submit(func() {
			mu.Lock()
			counts[workerID()]++
			completed++
			c := completed
			mu.Unlock()
			if c == jobs {
				close(done)
			}
		})
	}

	select {
	case <-done:
	case <-time.After(10 * time.Second):
		fmt.Println("timed out waiting for pool demo to finish")
		return
	}

	mu.Lock()
	defer mu.Unlock()
	fmt.Printf("pool fan-out complete: %d jobs across %d workers: %v\n", jobs, p.Size(), counts)
}

func workerID() int {
	name := ctx.NameHere()
	i := len(name) - 1
	for i >= 0 && name[i] >= '0' && name[i] <= '9' {
		i--
	}
	n := 0
	for _, c := range name[i+1:] {
		n = n*10 + int(c-'0')
	}
	return n
}
