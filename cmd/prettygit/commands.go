package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	urfavecli "github.com/urfave/cli/v2"

	"github.com/avitaltamir/prettygit/internal/config"
	"github.com/avitaltamir/prettygit/internal/filetree"
	"github.com/avitaltamir/prettygit/internal/git"
	"github.com/avitaltamir/prettygit/internal/logging"
	"github.com/avitaltamir/prettygit/internal/preview"
	"github.com/avitaltamir/prettygit/internal/server"
	"github.com/avitaltamir/prettygit/internal/session"
	"github.com/avitaltamir/prettygit/internal/theme"
	"github.com/avitaltamir/prettygit/internal/watch"
)

func serveCommand() *urfavecli.Command {
	return &urfavecli.Command{
		Name:   "serve",
		Usage:  "Start the web UI",
		Flags:  serveFlags(),
		Action: runServe,
	}
}

func lsCommand() *urfavecli.Command {
	return &urfavecli.Command{
		Name:      "ls",
		Usage:     "Print a directory listing annotated with git status",
		ArgsUsage: "[dir]",
		Flags: []urfavecli.Flag{
			&urfavecli.StringFlag{
				Name:    "theme",
				Aliases: []string{"t"},
				Usage:   "Color theme: cyberpunk, lobster-boy or vampire-weekend",
			},
			&urfavecli.BoolFlag{
				Name:  "plain-icons",
				Usage: "Do not use Nerd Font icons",
			},
			&urfavecli.BoolFlag{
				Name:  "dirs",
				Usage: "List directories only",
			},
		},
		Action: runLs,
	}
}

func initConfigCommand() *urfavecli.Command {
	return &urfavecli.Command{
		Name:  "init-config",
		Usage: "Write a configuration file with the default settings",
		Flags: []urfavecli.Flag{
			&urfavecli.BoolFlag{
				Name:  "force",
				Usage: "Overwrite an existing file",
			},
		},
		Action: runInitConfig,
	}
}

// newSession wires the git provider and a session positioned at dir.
func newSession(cfg *config.Config, log logging.Logger, dir string) *session.Session {
	provider := git.NewShellProvider(git.Options{
		Binary:       cfg.GitBinary,
		Timeout:      cfg.GitTimeout,
		CloneTimeout: cfg.CloneTimeout,
		Logger:       log,
	})
	return session.New(provider, session.Options{
		StartPath:  dir,
		CloneToken: cfg.CloneToken,
		Logger:     log,
	})
}

func runServe(c *urfavecli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	log, closer, err := logging.Open(cfg.DebugLog, cfg.LogFormat, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer closer.Close()

	if err := git.CheckGit(cfg.GitBinary); err != nil {
		return err
	}

	start, err := cfg.ResolveStartDir()
	if err != nil {
		return fmt.Errorf("resolve start directory: %w", err)
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	sess := newSession(cfg, log, start)
	if err := sess.Refresh(ctx); err != nil {
		return fmt.Errorf("open %s: %w", start, err)
	}

	if cfg.AutoRefresh {
		w, err := watch.New(func() {
			if err := sess.Refresh(ctx); err != nil {
				log.Warn("auto refresh failed", "err", err)
			}
		}, watch.Options{Logger: log})
		if err != nil {
			log.Warn("file watcher unavailable, auto refresh disabled", "err", err)
		} else {
			defer w.Close()
			snap := sess.Snapshot()
			w.Follow(snap.Path, snap.RepoRoot)
			sess.Subscribe(func(s *session.Snapshot) { w.Follow(s.Path, s.RepoRoot) })
		}
	}

	srv := server.New(sess, server.Options{
		Logger: log,
		Preview: preview.New(preview.Options{
			Style:    cfg.HighlightStyle,
			MaxBytes: cfg.MaxPreviewBytes,
		}),
	})

	fmt.Fprintf(c.App.Writer, "prettygit %s: browsing %s at http://%s\n", version, start, cfg.Addr)
	return srv.ListenAndServe(ctx, cfg.Addr)
}

func runLs(c *urfavecli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	log, closer, err := logging.Open(cfg.DebugLog, cfg.LogFormat, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer closer.Close()

	dir := c.Args().First()
	if dir == "" {
		if dir, err = os.Getwd(); err != nil {
			return err
		}
	}
	dir, err = filepath.Abs(dir)
	if err != nil {
		return err
	}

	sess := newSession(cfg, log, dir)
	if err := sess.Refresh(c.Context); err != nil {
		return err
	}

	th, ok := theme.ByName(c.String("theme"))
	if !ok && c.String("theme") != "" {
		fmt.Fprintf(c.App.ErrWriter, "unknown theme %q, using %s\n", c.String("theme"), th.Name)
	}
	if c.Bool("plain-icons") {
		th.UseNerdFonts = false
	}

	snap := sess.Snapshot()
	entries := snap.Listing
	if c.Bool("dirs") {
		entries = filetree.Directories(entries)
	}
	_, err = fmt.Fprint(c.App.Writer, th.RenderListing(snap.Path, snap.Branch, snap.IsRepo, entries))
	return err
}

func runInitConfig(c *urfavecli.Context) error {
	path := c.String("config-file")
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return err
		}
		path = p
	}

	if !c.Bool("force") {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}

	if err := config.Save(path, config.DefaultConfig()); err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "wrote %s\n", path)
	return nil
}
