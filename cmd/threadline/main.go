// Package main is the entrypoint for the threadline CLI.
// The CLI provides commands for running the API server, the deployment
// pipeline, diagnostics, and catalog seeding.
package main

import (
	"os"

	"github.com/threadline-io/threadline/internal/cli"
)

// Version information (set at build time via ldflags)
var (
	version = "1.0.0"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	cli.SetVersionInfo(version, commit, date)
	os.Exit(cli.New().Execute())
}
