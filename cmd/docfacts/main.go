// CLI entry point for DocFacts.
package main

import (
	"os"

	"github.com/turtacn/DocFacts/internal/interfaces/cli"
)

// Build-time variables injected via ldflags.
var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func init() {
	cli.Version = version
	cli.GitCommit = commit
	cli.BuildDate = buildDate
}

func main() {
	// cli.Execute prints the error itself; main only sets the exit code.
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
