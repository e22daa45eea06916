// Package main is the entry point for the leapcheck CLI.
package main

import (
	"errors"
	"os"

	"github.com/leapstack-labs/leapcheck/internal/cli"
	"github.com/leapstack-labs/leapcheck/internal/cli/commands"
)

// Exit codes.
const (
	exitOK     = 0
	exitIssues = 1
	exitError  = 2
)

func main() {
	os.Exit(run())
}

func run() int {
	err := cli.Execute()
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, commands.ErrIssuesFound):
		return exitIssues
	default:
		return exitError
	}
}
