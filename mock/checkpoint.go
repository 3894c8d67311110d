package mock

import (
	"context"

	"github.com/fwojciec/callscribe"
)

var _ callscribe.CheckpointStore = (*CheckpointStore)(nil)

// CheckpointStore is a mock implementation of callscribe.CheckpointStore.
type CheckpointStore struct {
	SaveCheckpointFn  func(ctx context.Context, name string, state *callscribe.RunState) error
	FindCheckpointFn  func(ctx context.Context, name string) (*callscribe.RunState, error)
	ListCheckpointsFn func(ctx context.Context) ([]*callscribe.CheckpointInfo, error)
}

func (s *CheckpointStore) SaveCheckpoint(ctx context.Context, name string, state *callscribe.RunState) error {
	return s.SaveCheckpointFn(ctx, name, state)
}

func (s *CheckpointStore) FindCheckpoint(ctx context.Context, name string) (*callscribe.RunState, error) {
	return s.FindCheckpointFn(ctx, name)
}

func (s *CheckpointStore) ListCheckpoints(ctx context.Context) ([]*callscribe.CheckpointInfo, error) {
	return s.ListCheckpointsFn(ctx)
}
