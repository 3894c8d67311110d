package callscribe

import (
	"os"
	"path/filepath"
	"time"
)

// DefaultAppName names the application whose transcripts are exported.
const DefaultAppName = "Gong"

// DefaultCheckpointName is the checkpoint record used when none is configured.
const DefaultCheckpointName = "default"

// Timing holds the fixed delays and wait bounds of a run. The target
// application renders client-side without a universal "done" signal, so the
// pipeline relies on these to let content settle.
type Timing struct {
	// LoadTimeout bounds the wait for a detail view's load-complete signal.
	LoadTimeout time.Duration
	// LoadSettle is applied after a detail view loads.
	LoadSettle time.Duration
	// HookSettle is applied after installing extraction hooks.
	HookSettle time.Duration

	// PageClickDelay, ListWait and PageSettle pace list-page navigation:
	// delay after activating a pagination control, best-effort wait for the
	// list container, then a final delay.
	PageClickDelay time.Duration
	ListWait       time.Duration
	PageSettle     time.Duration
	// AfterNavigate is applied by the controller after a successful page change.
	AfterNavigate time.Duration

	// TranscriptClickDelay, TranscriptWait and TranscriptSettle pace opening
	// the transcript tab. TranscriptWait is a required wait.
	TranscriptClickDelay time.Duration
	TranscriptWait       time.Duration
	TranscriptSettle     time.Duration

	// ItemDelay is applied after every item regardless of outcome.
	ItemDelay time.Duration
	// PausePoll is the interval at which a paused run rechecks its flags.
	PausePoll time.Duration
}

// DefaultTiming returns the delays tuned for the target application.
func DefaultTiming() Timing {
	return Timing{
		LoadTimeout:          30 * time.Second,
		LoadSettle:           2 * time.Second,
		HookSettle:           500 * time.Millisecond,
		PageClickDelay:       2500 * time.Millisecond,
		ListWait:             5 * time.Second,
		PageSettle:           500 * time.Millisecond,
		AfterNavigate:        1 * time.Second,
		TranscriptClickDelay: 1500 * time.Millisecond,
		TranscriptWait:       8 * time.Second,
		TranscriptSettle:     500 * time.Millisecond,
		ItemDelay:            300 * time.Millisecond,
		PausePoll:            500 * time.Millisecond,
	}
}

// BrowserConfig configures the browser used as rendering surface.
type BrowserConfig struct {
	// ControlURL connects to a running Chrome (e.g. http://127.0.0.1:9222)
	// instead of launching one.
	ControlURL string
	// UserDataDir lets a launched Chrome reuse a logged-in profile.
	UserDataDir string
	Headless    bool
}

// Config holds application configuration.
type Config struct {
	// OutputDir is the root under which "<AppName> Transcripts" is created.
	OutputDir      string
	AppName        string
	DBPath         string
	CheckpointName string
	Browser        BrowserConfig
	Timing         Timing
}

// DefaultConfig returns a Config with defaults. The database path honors
// CALLSCRIBE_DB and falls back to ~/.callscribe/callscribe.db.
func DefaultConfig() *Config {
	return &Config{
		OutputDir:      ".",
		AppName:        DefaultAppName,
		DBPath:         DefaultDBPath(),
		CheckpointName: DefaultCheckpointName,
		Browser:        BrowserConfig{Headless: true},
		Timing:         DefaultTiming(),
	}
}

// DefaultDBPath returns the checkpoint database path.
func DefaultDBPath() string {
	if path := os.Getenv("CALLSCRIBE_DB"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "callscribe.db"
	}
	return filepath.Join(home, ".callscribe", "callscribe.db")
}

// TranscriptsFolder returns the output folder for a run, relative to the
// output root: "<appName> Transcripts/<folderName>".
func TranscriptsFolder(appName, folderName string) string {
	if appName == "" {
		appName = DefaultAppName
	}
	return filepath.Join(appName+" Transcripts", SanitizeFilename(folderName))
}
