// skiff runs commands and moves files on remote hosts over SSH.
package main

import (
	"fmt"
	"os"
)

// Version information - set at build time.
var (
	Version   = "0.3.0"
	GitCommit = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
