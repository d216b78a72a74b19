package main

import (
	"fmt"
	"os"

	urfavecli "github.com/urfave/cli/v2"

	"github.com/avitaltamir/prettygit/internal/config"
)

// globalFlags returns all global flags for the application.
func globalFlags() []urfavecli.Flag {
	return []urfavecli.Flag{
		&urfavecli.StringFlag{
			Name:  "config-file",
			Usage: "Path to configuration file",
		},
		&urfavecli.StringFlag{
			Name:  "debug-log",
			Usage: "Path to log file (default: stderr)",
		},
		&urfavecli.StringFlag{
			Name:  "log-format",
			Usage: "Log format: text or json",
		},
		&urfavecli.StringFlag{
			Name:  "log-level",
			Usage: "Log level: debug, info, warn or error",
		},
	}
}

func serveFlags() []urfavecli.Flag {
	return []urfavecli.Flag{
		&urfavecli.StringFlag{
			Name:    "addr",
			Aliases: []string{"a"},
			Usage:   "Listen address",
		},
		&urfavecli.StringFlag{
			Name:    "dir",
			Aliases: []string{"d"},
			Usage:   "Start directory (default: home)",
		},
		&urfavecli.BoolFlag{
			Name:  "no-watch",
			Usage: "Disable refreshing when files change on disk",
		},
	}
}

// loadConfig resolves settings: defaults < file < environment < flags.
func loadConfig(c *urfavecli.Context) (*config.Config, error) {
	cfg, err := config.Load(c.String("config-file"))
	if err != nil {
		fmt.Fprintf(c.App.ErrWriter, "Error loading config, using defaults: %v\n", err)
	}
	cfg.ApplyEnv(os.Getenv)

	if v := c.String("debug-log"); v != "" {
		cfg.DebugLog = v
	}
	if v := c.String("log-format"); v != "" {
		cfg.LogFormat = v
	}
	if v := c.String("log-level"); v != "" {
		cfg.LogLevel = v
	}
	if v := c.String("addr"); v != "" {
		cfg.Addr = v
	}
	if v := c.String("dir"); v != "" {
		cfg.StartDir = v
	}
	if c.Bool("no-watch") {
		cfg.AutoRefresh = false
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
