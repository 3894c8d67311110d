// Package toml loads callscribe configuration files.
package toml

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fwojciec/callscribe"
	"github.com/pelletier/go-toml/v2"
)

// file mirrors the on-disk layout. Durations are strings parsed with
// time.ParseDuration ("2s", "500ms"); unset fields keep their defaults.
type file struct {
	OutputDir      string `toml:"output_dir"`
	AppName        string `toml:"app_name"`
	DatabasePath   string `toml:"database_path"`
	CheckpointName string `toml:"checkpoint_name"`

	Browser struct {
		ControlURL  string `toml:"control_url"`
		UserDataDir string `toml:"user_data_dir"`
		Headless    *bool  `toml:"headless"`
	} `toml:"browser"`

	Timing map[string]string `toml:"timing"`
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".callscribe", "config.toml")
}

// Load reads the configuration at path over callscribe.DefaultConfig.
// A missing file yields the defaults.
func Load(path string) (*callscribe.Config, error) {
	cfg := callscribe.DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := Decode(data, cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Decode applies TOML data to cfg.
func Decode(data []byte, cfg *callscribe.Config) error {
	var f file
	if err := toml.Unmarshal(data, &f); err != nil {
		return err
	}

	setString(&cfg.OutputDir, ExpandPath(f.OutputDir))
	setString(&cfg.AppName, f.AppName)
	setString(&cfg.DBPath, ExpandPath(f.DatabasePath))
	setString(&cfg.CheckpointName, f.CheckpointName)
	setString(&cfg.Browser.ControlURL, f.Browser.ControlURL)
	setString(&cfg.Browser.UserDataDir, ExpandPath(f.Browser.UserDataDir))
	if f.Browser.Headless != nil {
		cfg.Browser.Headless = *f.Browser.Headless
	}

	fields := timingFields(&cfg.Timing)
	for key, value := range f.Timing {
		field, ok := fields[key]
		if !ok {
			return callscribe.Errorf(callscribe.EINVALID, "Unknown timing setting %q.", key)
		}
		d, err := time.ParseDuration(value)
		if err != nil || d < 0 {
			return callscribe.Errorf(callscribe.EINVALID, "Invalid duration %q for timing.%s.", value, key)
		}
		*field = d
	}
	return nil
}

func timingFields(t *callscribe.Timing) map[string]*time.Duration {
	return map[string]*time.Duration{
		"load_timeout":           &t.LoadTimeout,
		"load_settle":            &t.LoadSettle,
		"hook_settle":            &t.HookSettle,
		"page_click_delay":       &t.PageClickDelay,
		"list_wait":              &t.ListWait,
		"page_settle":            &t.PageSettle,
		"after_navigate":         &t.AfterNavigate,
		"transcript_click_delay": &t.TranscriptClickDelay,
		"transcript_wait":        &t.TranscriptWait,
		"transcript_settle":      &t.TranscriptSettle,
		"item_delay":             &t.ItemDelay,
		"pause_poll":             &t.PausePoll,
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// ExpandPath expands ~ to the user's home directory.
func ExpandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}
