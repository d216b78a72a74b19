// Package main is the entry point for the prettygit application.
package main

import (
	"fmt"
	"os"

	urfavecli "github.com/urfave/cli/v2"
)

var version = "dev"

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func newApp() *urfavecli.App {
	return &urfavecli.App{
		Name:    "prettygit",
		Usage:   "Browse directories and run git from a local web UI",
		Version: version,

		Flags: append(globalFlags(), serveFlags()...),

		Commands: []*urfavecli.Command{
			serveCommand(),
			lsCommand(),
			initConfigCommand(),
		},

		// Serving is the default when no subcommand is given.
		Action: runServe,
	}
}
