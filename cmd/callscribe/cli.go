package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/fwojciec/callscribe"
	cshttp "github.com/fwojciec/callscribe/http"
)

// Runner is the run controller used by the run and serve commands.
type Runner interface {
	cshttp.Runner
	Run(ctx context.Context, source callscribe.View, folderName string) error
	Restore(ctx context.Context) error
	Wait()
}

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx         context.Context
	Stdout      io.Writer
	Stderr      io.Writer
	Logger      *slog.Logger
	Config      *callscribe.Config
	Checkpoints callscribe.CheckpointStore
	Sources     cshttp.SourceOpener
	Runner      Runner
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Config      string `short:"c" type:"path" help:"Config file (default ~/.callscribe/config.toml)"`
	DB          string `name:"db" type:"path" help:"Checkpoint database path"`
	Output      string `short:"o" type:"path" help:"Output root directory"`
	AppName     string `help:"Application name used in the output folder"`
	Checkpoint  string `help:"Checkpoint name"`
	ControlURL  string `help:"Connect to a running Chrome instead of launching one"`
	UserDataDir string `type:"path" help:"Chrome profile directory for a launched browser"`
	Headed      bool   `help:"Show the launched browser window"`
	Verbose     bool   `short:"v" help:"Enable debug logging"`

	Run         RunCmd         `cmd:"" help:"Download all transcripts listed by a search"`
	Serve       ServeCmd       `cmd:"" help:"Serve the run control API"`
	Status      StatusCmd      `cmd:"" help:"Show the status of the last run"`
	Checkpoints CheckpointsCmd `cmd:"" help:"List stored checkpoints"`
}

// apply overrides cfg with flags that were set.
func (c *CLI) apply(cfg *callscribe.Config) {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&cfg.DBPath, c.DB)
	set(&cfg.OutputDir, c.Output)
	set(&cfg.AppName, c.AppName)
	set(&cfg.CheckpointName, c.Checkpoint)
	set(&cfg.Browser.ControlURL, c.ControlURL)
	set(&cfg.Browser.UserDataDir, c.UserDataDir)
	if c.Headed {
		cfg.Browser.Headless = false
	}
}

// RunCmd is the "run" subcommand.
type RunCmd struct {
	Source string `arg:"" help:"Search-results URL, or with --attach a substring of an open tab's URL"`
	Folder string `short:"f" help:"Output folder name (default: today's date)"`
	Attach bool   `short:"a" help:"Drive an already open tab instead of opening the URL"`
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	Addr string `default:"127.0.0.1:8765" help:"Listen address"`
}

// StatusCmd is the "status" subcommand.
type StatusCmd struct {
	Name string `short:"n" help:"Checkpoint name (default from config)"`
}

// CheckpointsCmd is the "checkpoints" subcommand.
type CheckpointsCmd struct{}
