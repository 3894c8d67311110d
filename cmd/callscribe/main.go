package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/callscribe"
	"github.com/fwojciec/callscribe/fs"
	"github.com/fwojciec/callscribe/goquery"
	"github.com/fwojciec/callscribe/rod"
	"github.com/fwojciec/callscribe/scrape"
	csslog "github.com/fwojciec/callscribe/slog"
	"github.com/fwojciec/callscribe/sqlite"
	"github.com/fwojciec/callscribe/toml"
	"github.com/lmittmann/tint"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Config file path. Set before calling Run().
	ConfigPath string

	// Database path. Overrides the config file when set.
	DBPath string

	// SQLite database used by the checkpoint store.
	DB *sqlite.DB

	// Browser used as rendering surface. Launched on demand when nil.
	Browser callscribe.Browser

	ownsBrowser bool
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		ConfigPath: toml.DefaultPath(),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	var firstErr error
	if m.ownsBrowser && m.Browser != nil {
		if err := m.Browser.Close(); err != nil {
			firstErr = err
		}
	}
	if m.DB != nil {
		if err := m.DB.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("callscribe"),
		kong.Description("Download call transcripts in bulk from a search-results list"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'callscribe --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	configPath := m.ConfigPath
	if cli.Config != "" {
		configPath = cli.Config
	}
	cfg, err := toml.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if m.DBPath != "" {
		cfg.DBPath = m.DBPath
	}
	cli.apply(cfg)

	logger := newLogger(stderr, cli.Verbose)
	deps.Logger = logger
	deps.Config = cfg

	m.DB = sqlite.NewDB(cfg.DBPath)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set CALLSCRIBE_DB to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", cfg.DBPath, err)
	}
	defer m.Close()

	deps.Checkpoints = csslog.NewLoggingCheckpointStore(sqlite.NewCheckpointStore(m.DB), logger)

	// Only run and serve drive a browser.
	if name := strings.Fields(kongCtx.Command())[0]; name != "run" && name != "serve" {
		return kongCtx.Run(deps)
	}

	if m.Browser == nil {
		browser, err := rod.NewBrowser(
			rod.WithControlURL(cfg.Browser.ControlURL),
			rod.WithHeadless(cfg.Browser.Headless),
			rod.WithUserDataDir(cfg.Browser.UserDataDir),
		)
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed, or pass --control-url")
			return fmt.Errorf("failed to start browser: %w", err)
		}
		m.Browser = browser
		m.ownsBrowser = true
	}

	strategy := csslog.NewLoggingStrategy(goquery.NewStrategy(), logger)
	sink := csslog.NewLoggingSink(fs.NewSink(cfg.OutputDir), logger)
	navigator := &scrape.Navigator{
		Browser:  csslog.NewLoggingBrowser(m.Browser, logger),
		Strategy: strategy,
		Timing:   cfg.Timing,
		Logger:   logger,
	}

	deps.Sources = navigator
	deps.Runner = &scrape.Controller{
		Navigator: navigator,
		Processor: &scrape.Processor{
			Navigator: navigator,
			Strategy:  strategy,
			Sink:      sink,
			Timing:    cfg.Timing,
		},
		Sink:           sink,
		Checkpoints:    deps.Checkpoints,
		CheckpointName: cfg.CheckpointName,
		AppName:        cfg.AppName,
		Timing:         cfg.Timing,
		Logger:         logger,
	}

	return kongCtx.Run(deps)
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
	}))
}
