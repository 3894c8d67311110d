package main_test

import (
	"bytes"
	"context"
	"os"
	"testing"
	"time"

	"github.com/fwojciec/callscribe"
	"github.com/fwojciec/callscribe/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain_Run_Status(t *testing.T) {
	t.Parallel()

	t.Run("reports missing checkpoint", func(t *testing.T) {
		t.Parallel()

		m := newMain(t)
		stdout := &bytes.Buffer{}

		err := m.Run(context.Background(), []string{"status"}, stdout, &bytes.Buffer{})

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), `No run recorded under "default"`)
	})

	t.Run("reads saved checkpoint", func(t *testing.T) {
		t.Parallel()

		m := newMain(t)
		finished := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
		seedCheckpoint(t, m.DBPath, "default", &callscribe.RunState{
			ID:             "run-1",
			CurrentPage:    2,
			TotalPages:     2,
			TotalResults:   2,
			ProcessedCount: 1,
			FailedCount:    1,
			Errors:         []callscribe.ErrorRecord{{Title: "Sync", Error: "Transcript content did not load", Page: 2}},
			Folder:         "Gong Transcripts/Q3",
			UpdatedAt:      finished,
			FinishedAt:     &finished,
		})
		stdout := &bytes.Buffer{}

		err := m.Run(context.Background(), []string{"status"}, stdout, &bytes.Buffer{})

		require.NoError(t, err)
		out := stdout.String()
		assert.Contains(t, out, "run-1 (finished)")
		assert.Contains(t, out, "Page:      2/2")
		assert.Contains(t, out, "Processed: 1 of 2 (1 failed)")
		assert.Contains(t, out, "Gong Transcripts/Q3")
		assert.Contains(t, out, "Sync: Transcript content did not load")
	})

	t.Run("uses checkpoint name from config file", func(t *testing.T) {
		t.Parallel()

		m := newMain(t)
		require.NoError(t, os.WriteFile(m.ConfigPath, []byte(`checkpoint_name = "weekly"`), 0o644))
		seedCheckpoint(t, m.DBPath, "weekly", &callscribe.RunState{ID: "run-weekly", Running: true, Paused: true})
		stdout := &bytes.Buffer{}

		err := m.Run(context.Background(), []string{"status"}, stdout, &bytes.Buffer{})

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "run-weekly (paused)")
	})

	t.Run("flag overrides config", func(t *testing.T) {
		t.Parallel()

		m := newMain(t)
		seedCheckpoint(t, m.DBPath, "adhoc", &callscribe.RunState{ID: "run-adhoc", Running: true})
		stdout := &bytes.Buffer{}

		err := m.Run(context.Background(), []string{"status", "--name", "adhoc"}, stdout, &bytes.Buffer{})

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "run-adhoc (running)")
	})

	t.Run("rejects invalid config", func(t *testing.T) {
		t.Parallel()

		m := newMain(t)
		require.NoError(t, os.WriteFile(m.ConfigPath, []byte("[timing]\nitem_delay = \"soon\"\n"), 0o644))

		err := m.Run(context.Background(), []string{"status"}, &bytes.Buffer{}, &bytes.Buffer{})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to load config")
	})
}

func TestMain_Run_Checkpoints(t *testing.T) {
	t.Parallel()

	t.Run("lists checkpoints", func(t *testing.T) {
		t.Parallel()

		m := newMain(t)
		seedCheckpoint(t, m.DBPath, "default", &callscribe.RunState{ID: "run-1"})
		seedCheckpoint(t, m.DBPath, "weekly", &callscribe.RunState{ID: "run-2"})
		stdout := &bytes.Buffer{}

		err := m.Run(context.Background(), []string{"checkpoints"}, stdout, &bytes.Buffer{})

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "default  run-1")
		assert.Contains(t, stdout.String(), "weekly  run-2")
	})

	t.Run("reports empty store", func(t *testing.T) {
		t.Parallel()

		m := newMain(t)
		stdout := &bytes.Buffer{}

		err := m.Run(context.Background(), []string{"checkpoints"}, stdout, &bytes.Buffer{})

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "No checkpoints found")
	})
}

func seedCheckpoint(t *testing.T, path, name string, state *callscribe.RunState) {
	t.Helper()

	db := sqlite.NewDB(path)
	require.NoError(t, db.Open())
	defer db.Close()

	require.NoError(t, sqlite.NewCheckpointStore(db).SaveCheckpoint(context.Background(), name, state))
}
