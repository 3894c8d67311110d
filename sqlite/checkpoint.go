package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/fwojciec/callscribe"
)

// Compile-time interface verification.
var _ callscribe.CheckpointStore = (*CheckpointStore)(nil)

// CheckpointStore implements callscribe.CheckpointStore using SQLite.
// Run state is stored as a JSON document keyed by checkpoint name.
type CheckpointStore struct {
	db *DB
}

// NewCheckpointStore creates a new CheckpointStore.
func NewCheckpointStore(db *DB) *CheckpointStore {
	return &CheckpointStore{db: db}
}

// SaveCheckpoint overwrites the named checkpoint.
func (s *CheckpointStore) SaveCheckpoint(ctx context.Context, name string, state *callscribe.RunState) error {
	if name == "" {
		return callscribe.Errorf(callscribe.EINVALID, "Checkpoint name required.")
	}
	if state == nil {
		return callscribe.Errorf(callscribe.EINVALID, "Checkpoint state required.")
	}

	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to encode run state: %w", err)
	}

	updatedAt := state.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now()
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO checkpoints (name, run_id, state, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			run_id = excluded.run_id,
			state = excluded.state,
			updated_at = excluded.updated_at
	`, name, state.ID, string(data), formatTime(updatedAt))

	return err
}

// FindCheckpoint returns the state stored under name.
func (s *CheckpointStore) FindCheckpoint(ctx context.Context, name string) (*callscribe.RunState, error) {
	var data string
	err := s.db.QueryRowContext(ctx, `
		SELECT state FROM checkpoints WHERE name = ?
	`, name).Scan(&data)

	if err == sql.ErrNoRows {
		return nil, callscribe.Errorf(callscribe.ENOTFOUND, "Checkpoint %q not found.", name)
	}
	if err != nil {
		return nil, err
	}

	var state callscribe.RunState
	if err := json.Unmarshal([]byte(data), &state); err != nil {
		return nil, fmt.Errorf("failed to decode run state: %w", err)
	}
	return &state, nil
}

// ListCheckpoints returns all checkpoints, most recently updated first.
func (s *CheckpointStore) ListCheckpoints(ctx context.Context) ([]*callscribe.CheckpointInfo, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, run_id, updated_at
		FROM checkpoints
		ORDER BY updated_at DESC, name ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var infos []*callscribe.CheckpointInfo
	for rows.Next() {
		var info callscribe.CheckpointInfo
		var updatedAt string
		if err := rows.Scan(&info.Name, &info.RunID, &updatedAt); err != nil {
			return nil, err
		}
		if info.UpdatedAt, err = parseTime(updatedAt, "updated_at"); err != nil {
			return nil, err
		}
		infos = append(infos, &info)
	}
	return infos, rows.Err()
}
