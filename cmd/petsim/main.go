// Command petsim runs the pet simulation headless: it prints cycle plans,
// fast-forwards whole focus sessions and resolves animation clips.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
