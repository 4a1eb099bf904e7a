// Command corvid runs a Corvid source file.
package main

import (
	"os"

	"github.com/corvidlang/corvid/cmd/corvid/cmd"
)

func main() {
	if err := cmd.Root().Execute(); err != nil {
		os.Exit(1)
	}
}
