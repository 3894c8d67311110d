package callscribe

import (
	"context"
	"time"
)

// MaxStatusErrors is the number of most recent error records surfaced in a Status.
const MaxStatusErrors = 5

// ErrorRecord is one failure logged during a run. Records are append-only.
type ErrorRecord struct {
	Title string `json:"title"`
	Error string `json:"error"`
	// Page is the list page the failure happened on, or 0 when not page-bound.
	Page int `json:"page,omitempty"`
}

// RunState is the full state of an in-flight or completed run.
// It is owned by the run controller and checkpointed after every mutation.
type RunState struct {
	ID      string `json:"id"`
	Running bool   `json:"running"`
	Paused  bool   `json:"paused"`

	CurrentPage    int `json:"currentPage"`
	TotalPages     int `json:"totalPages"`
	TotalResults   int `json:"totalResults"`
	ProcessedCount int `json:"processedCount"`
	FailedCount    int `json:"failedCount"`

	Errors    []ErrorRecord `json:"errors"`
	Summaries []CallSummary `json:"summaries"`

	// FolderName is the user-chosen folder name; Folder is the resolved
	// output folder relative to the output root.
	FolderName string `json:"folderName"`
	Folder     string `json:"folder"`

	// SourceURL is the address of the search-results view the run reads from.
	SourceURL string `json:"sourceUrl"`

	StartedAt  time.Time  `json:"startedAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
	FinishedAt *time.Time `json:"finishedAt,omitempty"`
}

// Clone returns a deep copy of the state.
func (s *RunState) Clone() *RunState {
	other := *s
	other.Errors = append([]ErrorRecord(nil), s.Errors...)
	other.Summaries = append([]CallSummary(nil), s.Summaries...)
	if s.FinishedAt != nil {
		t := *s.FinishedAt
		other.FinishedAt = &t
	}
	return &other
}

// RecentErrors returns a copy of at most the n most recent error records.
func (s *RunState) RecentErrors(n int) []ErrorRecord {
	errs := s.Errors
	if len(errs) > n {
		errs = errs[len(errs)-n:]
	}
	return append([]ErrorRecord{}, errs...)
}

// Status returns the observable snapshot of the state.
func (s *RunState) Status() Status {
	return Status{
		RunID:          s.ID,
		Running:        s.Running,
		Paused:         s.Paused,
		CurrentPage:    s.CurrentPage,
		TotalPages:     s.TotalPages,
		TotalResults:   s.TotalResults,
		ProcessedCount: s.ProcessedCount,
		FailedCount:    s.FailedCount,
		Errors:         s.RecentErrors(MaxStatusErrors),
		Folder:         s.Folder,
	}
}

// Status is the read-only view of a run reported to observers.
type Status struct {
	RunID          string        `json:"runId"`
	Running        bool          `json:"isRunning"`
	Paused         bool          `json:"isPaused"`
	CurrentPage    int           `json:"currentPage"`
	TotalPages     int           `json:"totalPages"`
	TotalResults   int           `json:"totalResults"`
	ProcessedCount int           `json:"processedCount"`
	FailedCount    int           `json:"failedCount"`
	Errors         []ErrorRecord `json:"errors"`
	Folder         string        `json:"folder"`
}

// StatusFunc is called with a fresh snapshot after every state change.
type StatusFunc func(Status)

// CheckpointInfo describes a stored checkpoint.
type CheckpointInfo struct {
	Name      string    `json:"name"`
	RunID     string    `json:"runId"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CheckpointStore persists run state so that status survives a restart.
// Each named checkpoint holds a single RunState that is overwritten on save.
type CheckpointStore interface {
	// SaveCheckpoint overwrites the named checkpoint with the given state.
	SaveCheckpoint(ctx context.Context, name string, state *RunState) error

	// FindCheckpoint returns the state stored under name.
	// Returns ENOTFOUND if no checkpoint exists.
	FindCheckpoint(ctx context.Context, name string) (*RunState, error)

	// ListCheckpoints returns all stored checkpoints, most recently updated first.
	ListCheckpoints(ctx context.Context) ([]*CheckpointInfo, error)
}
