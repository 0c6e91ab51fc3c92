// Package main provides the CLI for the college event participation tracker.
package main

import (
	"os"

	"github.com/campuslabs/eventtrack/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
