package toml_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fwojciec/callscribe"
	"github.com/fwojciec/callscribe/toml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Parallel()

	t.Run("returns defaults when file is missing", func(t *testing.T) {
		t.Parallel()

		cfg, err := toml.Load(filepath.Join(t.TempDir(), "missing.toml"))

		require.NoError(t, err)
		assert.Equal(t, callscribe.DefaultAppName, cfg.AppName)
		assert.True(t, cfg.Browser.Headless)
		assert.Equal(t, callscribe.DefaultTiming(), cfg.Timing)
	})

	t.Run("overrides settings present in file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "config.toml")
		data := `
output_dir = "/data/exports"
checkpoint_name = "nightly"

[browser]
control_url = "http://127.0.0.1:9222"
headless = false

[timing]
load_timeout = "45s"
item_delay = "1s"
`
		require.NoError(t, os.WriteFile(path, []byte(data), 0644))

		cfg, err := toml.Load(path)

		require.NoError(t, err)
		assert.Equal(t, "/data/exports", cfg.OutputDir)
		assert.Equal(t, "nightly", cfg.CheckpointName)
		assert.Equal(t, callscribe.DefaultAppName, cfg.AppName)
		assert.Equal(t, "http://127.0.0.1:9222", cfg.Browser.ControlURL)
		assert.False(t, cfg.Browser.Headless)
		assert.Equal(t, 45*time.Second, cfg.Timing.LoadTimeout)
		assert.Equal(t, time.Second, cfg.Timing.ItemDelay)
		assert.Equal(t, callscribe.DefaultTiming().TranscriptWait, cfg.Timing.TranscriptWait)
	})

	t.Run("rejects malformed file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "config.toml")
		require.NoError(t, os.WriteFile(path, []byte("output_dir = "), 0644))

		_, err := toml.Load(path)

		require.Error(t, err)
	})
}

func TestDecode_Timing(t *testing.T) {
	t.Parallel()

	t.Run("rejects unknown key", func(t *testing.T) {
		t.Parallel()

		err := toml.Decode([]byte("[timing]\nwarp_speed = \"1s\"\n"), callscribe.DefaultConfig())

		assert.Equal(t, callscribe.EINVALID, callscribe.ErrorCode(err))
	})

	t.Run("rejects bad duration", func(t *testing.T) {
		t.Parallel()

		err := toml.Decode([]byte("[timing]\nitem_delay = \"soon\"\n"), callscribe.DefaultConfig())

		assert.Equal(t, callscribe.EINVALID, callscribe.ErrorCode(err))
	})

	t.Run("accepts zero delays", func(t *testing.T) {
		t.Parallel()

		cfg := callscribe.DefaultConfig()
		err := toml.Decode([]byte("[timing]\nload_settle = \"0s\"\n"), cfg)

		require.NoError(t, err)
		assert.Zero(t, cfg.Timing.LoadSettle)
	})
}

func TestExpandPath(t *testing.T) {
	t.Parallel()

	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, ".callscribe", "x.db"), toml.ExpandPath("~/.callscribe/x.db"))
	assert.Equal(t, "/abs/path", toml.ExpandPath("/abs/path"))
}
