// Package main is the devpulse CLI entry point. Argument parsing and help
// text are a thin collaborator over the analysis engine in provider,
// analyze, reporter, and render (spec §1 "out of scope"); this package
// only wires the seven verbs to that engine.
package main

import (
	"fmt"
	"os"

	"github.com/devpulse/devpulse/cmd/devpulse/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
