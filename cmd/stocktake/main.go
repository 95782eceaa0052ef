// Package main provides the entry point for the stocktake CLI tool.
package main

import (
	"github.com/agentstation/stocktake/cmd/stocktake/cmd"
)

// Version information populated by goreleaser.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
	builtBy = "unknown"
)

func main() {
	cmd.Execute(version, commit, date, builtBy)
}
