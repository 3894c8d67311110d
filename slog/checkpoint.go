package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/callscribe"
)

// Ensure LoggingCheckpointStore implements callscribe.CheckpointStore.
var _ callscribe.CheckpointStore = (*LoggingCheckpointStore)(nil)

// LoggingCheckpointStore wraps a CheckpointStore with debug logging.
// Checkpoints are saved after every state change, so saves log at debug.
type LoggingCheckpointStore struct {
	next   callscribe.CheckpointStore
	logger *slog.Logger
}

// NewLoggingCheckpointStore creates a new LoggingCheckpointStore.
func NewLoggingCheckpointStore(next callscribe.CheckpointStore, logger *slog.Logger) *LoggingCheckpointStore {
	return &LoggingCheckpointStore{next: next, logger: logger}
}

// SaveCheckpoint delegates to the wrapped store and logs the operation.
func (s *LoggingCheckpointStore) SaveCheckpoint(ctx context.Context, name string, state *callscribe.RunState) (err error) {
	var runID string
	if state != nil {
		runID = state.ID
	}
	defer func(begin time.Time) {
		s.logger.Debug("save checkpoint",
			"name", name,
			"run", runID,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.SaveCheckpoint(ctx, name, state)
}

// FindCheckpoint delegates to the wrapped store and logs the operation.
func (s *LoggingCheckpointStore) FindCheckpoint(ctx context.Context, name string) (state *callscribe.RunState, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("find checkpoint",
			"name", name,
			"found", state != nil,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.FindCheckpoint(ctx, name)
}

// ListCheckpoints delegates to the wrapped store and logs the operation.
func (s *LoggingCheckpointStore) ListCheckpoints(ctx context.Context) (infos []*callscribe.CheckpointInfo, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("list checkpoints",
			"count", len(infos),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.ListCheckpoints(ctx)
}
