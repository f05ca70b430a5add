// Package main provides the fortranmap CLI entrypoint.
package main

import (
	"os"

	"github.com/leapstack-labs/fortranmap/internal/cli"
)

// Build-time variables set via -ldflags.
var (
	version = "0.1.0"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	cli.Version = version
	cli.GitCommit = commit
	cli.BuildDate = date

	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
