// Package main provides the entry point for the dream engine.
package main

import (
	"fmt"
	"os"

	"github.com/gcbaptista/go-dream-engine/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
