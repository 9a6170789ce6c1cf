package main

import (
	"slices"

	"github.com/urfave/cli/v3"
)

// getCommands lists the subcommands of the app binary: server lifecycle, key
// generation and identity administration.
func getCommands(version string) []*cli.Command {
	return slices.Concat(
		getSystemCommands(version),
		getKeyCommands(),
		getIdentityCommands(),
	)
}
