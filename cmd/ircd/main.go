// Package main implements the ircd CLI, a small demo harness that drives
// the cooperative context runtime through the end-to-end scenarios
// spec.md §8 describes, printing their results interactively.
//
// Usage:
//
//	ircd pingpong    # two contexts notify/wait each other 1000 times
//	ircd mutex       # ten contexts contend for a FIFO-fair mutex
//	ircd pool        # a worker pool fans out 100 closures
//	ircd offload     # a blocking call bridges to a background OS thread
//	ircd view        # a producer rendezvous with five consumers
//
// This is the CLI entry point for the ircd cooperative context runtime.
package main

import (
	"fmt"
	"os"
)

const version = "0.1.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "pingpong":
		pingPongDemo()
	case "mutex":
		mutexDemo()
	case "pool":
		poolDemo()
	case "offload":
		offloadDemo()
	case "view":
		viewDemo()
	case "version", "--version", "-v":
		fmt.Printf("ircd version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Print(`ircd - cooperative context runtime demo harness

USAGE:
    ircd <command>

COMMANDS:
    pingpong   Two contexts notify/wait each other 1000 times
    mutex      Ten contexts contend for a FIFO-fair mutex
    pool       A worker pool of 4 fans 100 closures out across its workers
    offload    A blocking call bridges to a dedicated background OS thread
    view       A producer rendezvous with five consumers
    version    Show version information
    help       Show this help message

ABOUT:
    ircd is a single-threaded cooperative coroutine scheduler: contexts
    are stackful coroutines, backed here by dedicated goroutines, that
    suspend and resume through a reactor rather than blocking OS threads.
    This binary exercises the scenarios its test suite also verifies, for
    interactive inspection.

`)
}
