// Package main is the entry point for the salesboard CLI/TUI.
package main

import (
	"os"

	"github.com/watchfire-io/salesboard/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
