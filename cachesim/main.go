// Command cachesim replays a memory address trace through a set-associative
// LRU cache and prints the miss rate.
package main

import (
	"github.com/sarchlab/cachesim/cachesim/cmd"
	"github.com/tebeka/atexit"
)

func main() {
	cmd.Execute()
	atexit.Exit(0)
}
