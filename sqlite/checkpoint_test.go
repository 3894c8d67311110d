package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/fwojciec/callscribe"
	"github.com/fwojciec/callscribe/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckpointStore_SaveCheckpoint(t *testing.T) {
	t.Parallel()

	t.Run("stores and finds run state", func(t *testing.T) {
		t.Parallel()

		store := sqlite.NewCheckpointStore(setupTestDB(t))
		ctx := context.Background()
		state := &callscribe.RunState{
			ID:             "run-1",
			Running:        true,
			CurrentPage:    2,
			TotalPages:     3,
			TotalResults:   25,
			ProcessedCount: 11,
			FailedCount:    1,
			Errors:         []callscribe.ErrorRecord{{Title: "Sync", Error: "Transcript content did not load", Page: 2}},
			Summaries:      []callscribe.CallSummary{{ID: "1", Title: "Sync"}},
			FolderName:     "2024-01-05",
			Folder:         "Gong Transcripts/2024-01-05",
			StartedAt:      time.Date(2024, 1, 5, 10, 0, 0, 0, time.UTC),
			UpdatedAt:      time.Date(2024, 1, 5, 10, 5, 0, 0, time.UTC),
		}

		require.NoError(t, store.SaveCheckpoint(ctx, "default", state))

		got, err := store.FindCheckpoint(ctx, "default")
		require.NoError(t, err)
		assert.Equal(t, state, got)
	})

	t.Run("overwrites existing checkpoint", func(t *testing.T) {
		t.Parallel()

		store := sqlite.NewCheckpointStore(setupTestDB(t))
		ctx := context.Background()

		require.NoError(t, store.SaveCheckpoint(ctx, "default", &callscribe.RunState{ID: "run-1", ProcessedCount: 1}))
		require.NoError(t, store.SaveCheckpoint(ctx, "default", &callscribe.RunState{ID: "run-2", ProcessedCount: 5}))

		got, err := store.FindCheckpoint(ctx, "default")
		require.NoError(t, err)
		assert.Equal(t, "run-2", got.ID)
		assert.Equal(t, 5, got.ProcessedCount)

		infos, err := store.ListCheckpoints(ctx)
		require.NoError(t, err)
		assert.Len(t, infos, 1)
	})

	t.Run("rejects empty name", func(t *testing.T) {
		t.Parallel()

		store := sqlite.NewCheckpointStore(setupTestDB(t))

		err := store.SaveCheckpoint(context.Background(), "", &callscribe.RunState{})

		assert.Equal(t, callscribe.EINVALID, callscribe.ErrorCode(err))
	})

	t.Run("persists across reopen", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "callscribe.db")
		ctx := context.Background()

		db := sqlite.NewDB(path)
		require.NoError(t, db.Open())
		require.NoError(t, sqlite.NewCheckpointStore(db).SaveCheckpoint(ctx, "default", &callscribe.RunState{ID: "run-1"}))
		require.NoError(t, db.Close())

		db = sqlite.NewDB(path)
		require.NoError(t, db.Open())
		defer db.Close()

		got, err := sqlite.NewCheckpointStore(db).FindCheckpoint(ctx, "default")
		require.NoError(t, err)
		assert.Equal(t, "run-1", got.ID)
	})
}

func TestCheckpointStore_FindCheckpoint(t *testing.T) {
	t.Parallel()

	store := sqlite.NewCheckpointStore(setupTestDB(t))

	_, err := store.FindCheckpoint(context.Background(), "missing")

	assert.Equal(t, callscribe.ENOTFOUND, callscribe.ErrorCode(err))
}

func TestCheckpointStore_ListCheckpoints(t *testing.T) {
	t.Parallel()

	store := sqlite.NewCheckpointStore(setupTestDB(t))
	ctx := context.Background()
	base := time.Date(2024, 1, 5, 10, 0, 0, 0, time.UTC)

	require.NoError(t, store.SaveCheckpoint(ctx, "older", &callscribe.RunState{ID: "a", UpdatedAt: base}))
	require.NoError(t, store.SaveCheckpoint(ctx, "newer", &callscribe.RunState{ID: "b", UpdatedAt: base.Add(time.Minute)}))

	infos, err := store.ListCheckpoints(ctx)

	require.NoError(t, err)
	require.Len(t, infos, 2)
	assert.Equal(t, "newer", infos[0].Name)
	assert.Equal(t, "b", infos[0].RunID)
	assert.True(t, base.Add(time.Minute).Equal(infos[0].UpdatedAt))
	assert.Equal(t, "older", infos[1].Name)
}
