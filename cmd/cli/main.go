// Package main is the entry point for the election-check CLI.
package main

import (
	"errors"
	"fmt"
	"os"

	"election-check/cmd/cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		if !errors.Is(err, cmd.ErrRejected) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
