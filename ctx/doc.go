// Package ctx is the public face of ircd's userspace cooperative context
// runtime: a stackful-coroutine scheduler layered over a single-threaded
// reactor, exposing synchronous-looking blocking primitives (Wait, Yield,
// SleepFor, SleepUntil, InterruptionPoint) to application code running
// inside a Context.
//
// # Quick start
//
//	package main
//
//	import (
//		"fmt"
//
//		"github.com/kolkov/ircd/ctx"
//	)
//
//	func main() {
//		done := make(chan struct{})
//		ctx.New(func() {
//			fmt.Println("hello from a context")
//			close(done)
//		}, ctx.WithPost())
//		<-done
//	}
//
// Every context runs on ircd's single logical thread; application code
// inside a context's entry function may call the package-level
// this-context functions (Wait, Yield, SleepFor, ...) exactly as if they
// were ordinary blocking calls, without ever blocking the reactor itself.
//
// # API overview
//
//   - Context handle and lifecycle: [New], [Join], [Interrupt], [Terminate]
//   - This-context functions: [Wait], [Yield], [SleepFor], [SleepUntil],
//     [WaitFor], [WaitUntil], [InterruptionPoint]
//   - Synchronizers: [Mutex], [Dock], [View]
//   - [Pool], [Offload]
//   - Profiler configuration: [ProfilerSettings], [SetProfilerSettings]
package ctx
