// Package scrape runs bulk transcript downloads: it pages through a
// search-results list, opens every call in a background view and writes
// its transcript, while keeping a checkpointed RunState that external
// controllers can pause, resume and stop.
package scrape

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/fwojciec/callscribe"
	"github.com/google/uuid"
)

// Controller owns the state of a run. A Controller runs at most one run at
// a time; the run goroutine is the only writer of counters and the error
// log, while Pause, Resume and Stop only flip flags that the run observes
// before each page and each item.
//
// Controller is safe for concurrent use.
type Controller struct {
	Navigator *Navigator
	Processor *Processor
	Sink      callscribe.Sink

	// Checkpoints is optional. Save failures are logged and never end a run.
	Checkpoints    callscribe.CheckpointStore
	CheckpointName string

	AppName string
	Timing  callscribe.Timing
	Logger  *slog.Logger

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time

	mu      sync.Mutex
	state   *callscribe.RunState
	active  bool          // true from begin until finish completes
	changed chan struct{} // closed and replaced when flags change
	subs    map[int]callscribe.StatusFunc
	nextSub int
	wg      sync.WaitGroup
}

// Start begins a run in the background and returns once the run has been
// accepted. ctx bounds the whole run. Returns ECONFLICT if a run is
// already in progress, including a stopped run that has not finished yet.
//
// Once accepted, the controller owns source and closes it after the index
// is written. On error the caller keeps ownership.
func (c *Controller) Start(ctx context.Context, source callscribe.View, folderName string) error {
	if err := c.begin(ctx, folderName); err != nil {
		return err
	}
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		defer func() { _ = source.Close() }()
		c.run(ctx, source)
	}()
	return nil
}

// Run performs a run synchronously. It returns ECONFLICT if a run is
// already in progress; all other failures are recorded in the run state.
// The caller keeps ownership of source.
func (c *Controller) Run(ctx context.Context, source callscribe.View, folderName string) error {
	if err := c.begin(ctx, folderName); err != nil {
		return err
	}
	c.run(ctx, source)
	return nil
}

// Wait blocks until runs started with Start have finished.
func (c *Controller) Wait() {
	c.wg.Wait()
}

// Pause asks the run to suspend before the next page or item.
func (c *Controller) Pause() {
	c.setFlags(func(s *callscribe.RunState) bool {
		if !s.Running || s.Paused {
			return false
		}
		s.Paused = true
		return true
	})
}

// Resume continues a paused run.
func (c *Controller) Resume() {
	c.setFlags(func(s *callscribe.RunState) bool {
		if !s.Paused {
			return false
		}
		s.Paused = false
		return true
	})
}

// Stop asks the run to end before the next page or item. Work in flight
// completes and the index is still written.
func (c *Controller) Stop() {
	c.setFlags(func(s *callscribe.RunState) bool {
		if !s.Running && !s.Paused {
			return false
		}
		s.Running = false
		s.Paused = false
		return true
	})
}

// Status returns a snapshot of the current run.
func (c *Controller) Status() callscribe.Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == nil {
		return (&callscribe.RunState{}).Status()
	}
	return c.state.Status()
}

// State returns a deep copy of the full run state, or nil before the first run.
func (c *Controller) State() *callscribe.RunState {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == nil {
		return nil
	}
	return c.state.Clone()
}

// Subscribe registers fn to receive a status snapshot after every state
// change. The returned function unregisters it.
func (c *Controller) Subscribe(fn callscribe.StatusFunc) (cancel func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.subs == nil {
		c.subs = make(map[int]callscribe.StatusFunc)
	}
	id := c.nextSub
	c.nextSub++
	c.subs[id] = fn
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.subs, id)
	}
}

// Restore loads the last checkpoint so that status survives a restart.
// A run that was in progress when the checkpoint was written is restored
// as stopped; it is never resumed automatically.
func (c *Controller) Restore(ctx context.Context) error {
	if c.Checkpoints == nil {
		return nil
	}

	state, err := c.Checkpoints.FindCheckpoint(ctx, c.checkpointName())
	if callscribe.ErrorCode(err) == callscribe.ENOTFOUND {
		return nil
	} else if err != nil {
		return err
	}
	state.Running = false
	state.Paused = false

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active {
		return callscribe.Errorf(callscribe.ECONFLICT, "Cannot restore while a run is in progress.")
	}
	c.state = state
	return nil
}

// begin resets the state for a new run.
func (c *Controller) begin(ctx context.Context, folderName string) error {
	now := c.now()
	if folderName == "" {
		folderName = now.Format("2006-01-02")
	}

	c.mu.Lock()
	if c.active {
		c.mu.Unlock()
		return callscribe.Errorf(callscribe.ECONFLICT, "A run is already in progress.")
	}
	c.active = true
	c.state = &callscribe.RunState{
		ID:         uuid.New().String(),
		Running:    true,
		Errors:     []callscribe.ErrorRecord{},
		Summaries:  []callscribe.CallSummary{},
		FolderName: folderName,
		Folder:     callscribe.TranscriptsFolder(c.AppName, folderName),
		StartedAt:  now,
	}
	c.mu.Unlock()

	c.commit(ctx, func(*callscribe.RunState) {})
	return nil
}

func (c *Controller) run(ctx context.Context, source callscribe.View) {
	defer c.finish(context.WithoutCancel(ctx))

	rawURL, err := source.URL(ctx)
	if err != nil {
		c.fatal(ctx, callscribe.Errorf(callscribe.EINTERNAL, "Could not get source URL: %v", err))
		return
	}
	origin, err := ResolveOrigin(rawURL)
	if err != nil {
		c.fatal(ctx, err)
		return
	}

	firstCalls, pagination, err := c.Navigator.ReadListPage(ctx, source)
	if err != nil {
		c.fatal(ctx, err)
		return
	}
	c.commit(ctx, func(s *callscribe.RunState) {
		s.SourceURL = rawURL
		s.TotalPages = pagination.TotalPages
		s.TotalResults = pagination.TotalResults
		s.CurrentPage = pagination.CurrentPage
	})
	c.logger().Info("run started",
		"source", rawURL,
		"pages", pagination.TotalPages,
		"results", pagination.TotalResults,
	)

	folder := c.State().Folder

pages:
	for page := 1; page <= pagination.TotalPages; page++ {
		if !c.proceed(ctx) {
			break
		}

		calls := firstCalls
		if page > 1 {
			if err := c.Navigator.GotoListPage(ctx, source, page); err != nil {
				if ctx.Err() != nil {
					break
				}
				c.recordFailure(ctx, callscribe.ErrorRecord{Title: fmt.Sprintf("Page %d navigation", page), Error: err.Error()})
				continue
			}
			if err := sleep(ctx, c.Timing.AfterNavigate); err != nil {
				break
			}
			if calls, _, err = c.Navigator.ReadListPage(ctx, source); err != nil {
				if ctx.Err() != nil {
					break
				}
				c.recordFailure(ctx, callscribe.ErrorRecord{Title: fmt.Sprintf("Page %d scrape", page), Error: err.Error()})
				continue
			}
		}

		var first int // index of this page's first summary
		c.commit(ctx, func(s *callscribe.RunState) {
			s.CurrentPage = page
			first = len(s.Summaries)
			for _, call := range calls {
				s.Summaries = append(s.Summaries, callscribe.NewCallSummary(call))
			}
		})

		for i, call := range calls {
			if !c.proceed(ctx) {
				break pages
			}

			if err := call.Validate(); err != nil {
				c.recordFailure(ctx, callscribe.ErrorRecord{Title: call.DisplayTitle(), Error: err.Error(), Page: page})
				continue
			}

			outcome, err := c.Processor.ProcessItem(ctx, call, origin, folder)
			if err != nil {
				if ctx.Err() != nil {
					// Interrupted items are neither processed nor failed.
					break pages
				}
				c.recordFailure(ctx, callscribe.ErrorRecord{Title: call.DisplayTitle(), Error: err.Error(), Page: page})
				continue
			}

			c.logger().Debug("transcript saved",
				"call", call.ID,
				"path", outcome.Path,
				"entries", outcome.Entries,
				"hash", outcome.Hash,
			)
			c.commit(ctx, func(s *callscribe.RunState) {
				s.ProcessedCount++
				s.Summaries[first+i].Hash = outcome.Hash
			})
		}
	}
}

// finish writes the index and marks the run as ended. It runs for
// completed, stopped and cancelled runs alike.
func (c *Controller) finish(ctx context.Context) {
	state := c.State()

	if len(state.Summaries) > 0 {
		if _, err := c.Sink.WriteIndex(ctx, state.Folder, state.Summaries); err != nil {
			c.commit(ctx, func(s *callscribe.RunState) {
				s.Errors = append(s.Errors, callscribe.ErrorRecord{Title: "CSV Export", Error: err.Error()})
			})
		}
	}

	c.commit(ctx, func(s *callscribe.RunState) {
		now := c.now()
		s.Running = false
		s.Paused = false
		s.FinishedAt = &now
	})

	c.mu.Lock()
	final := c.state.Status()
	c.active = false
	c.mu.Unlock()

	c.logger().Info("run finished",
		"processed", final.ProcessedCount,
		"failed", final.FailedCount,
		"folder", final.Folder,
	)
}

// fatal records an error that ends the run.
func (c *Controller) fatal(ctx context.Context, err error) {
	c.logger().Error("run failed", "err", err)
	c.commit(ctx, func(s *callscribe.RunState) {
		s.Running = false
		s.Errors = append(s.Errors, callscribe.ErrorRecord{Title: "Fatal Error", Error: err.Error()})
	})
}

func (c *Controller) recordFailure(ctx context.Context, rec callscribe.ErrorRecord) {
	c.logger().Warn("item failed", "title", rec.Title, "page", rec.Page, "err", rec.Error)
	c.commit(ctx, func(s *callscribe.RunState) {
		s.FailedCount++
		s.Errors = append(s.Errors, rec)
	})
}

// proceed blocks while the run is paused. It reports false when the run
// has been stopped or ctx is done; cancellation is treated as a stop.
func (c *Controller) proceed(ctx context.Context) bool {
	for {
		if ctx.Err() != nil {
			c.Stop()
			return false
		}

		c.mu.Lock()
		running, paused, changed := c.state.Running, c.state.Paused, c.flagsChanged()
		c.mu.Unlock()

		if !running {
			return false
		}
		if !paused {
			return true
		}

		var timer *time.Timer
		var poll <-chan time.Time
		if c.Timing.PausePoll > 0 {
			timer = time.NewTimer(c.Timing.PausePoll)
			poll = timer.C
		}
		select {
		case <-ctx.Done():
		case <-changed:
		case <-poll:
		}
		if timer != nil {
			timer.Stop()
		}
	}
}

// setFlags applies fn to the state and, if it changed anything, wakes a
// paused run, checkpoints and broadcasts.
func (c *Controller) setFlags(fn func(*callscribe.RunState) bool) {
	c.mu.Lock()
	if c.state == nil || !fn(c.state) {
		c.mu.Unlock()
		return
	}
	c.state.UpdatedAt = c.now()
	if c.changed != nil {
		close(c.changed)
		c.changed = nil
	}
	snapshot, subs := c.state.Clone(), c.subscribers()
	c.mu.Unlock()

	c.publish(context.Background(), snapshot, subs)
}

// flagsChanged returns a channel closed on the next flag change.
// Must be called with mu held.
func (c *Controller) flagsChanged() <-chan struct{} {
	if c.changed == nil {
		c.changed = make(chan struct{})
	}
	return c.changed
}

// commit applies fn to the state, then checkpoints and broadcasts the result.
func (c *Controller) commit(ctx context.Context, fn func(*callscribe.RunState)) {
	c.mu.Lock()
	fn(c.state)
	c.state.UpdatedAt = c.now()
	snapshot, subs := c.state.Clone(), c.subscribers()
	c.mu.Unlock()

	c.publish(ctx, snapshot, subs)
}

// subscribers returns the registered observers. Must be called with mu held.
func (c *Controller) subscribers() []callscribe.StatusFunc {
	subs := make([]callscribe.StatusFunc, 0, len(c.subs))
	for _, fn := range c.subs {
		subs = append(subs, fn)
	}
	return subs
}

func (c *Controller) publish(ctx context.Context, snapshot *callscribe.RunState, subs []callscribe.StatusFunc) {
	if c.Checkpoints != nil {
		if err := c.Checkpoints.SaveCheckpoint(context.WithoutCancel(ctx), c.checkpointName(), snapshot); err != nil {
			c.logger().Warn("checkpoint failed", "run", snapshot.ID, "err", err)
		}
	}

	status := snapshot.Status()
	for _, fn := range subs {
		fn(status)
	}
}

func (c *Controller) checkpointName() string {
	if c.CheckpointName == "" {
		return callscribe.DefaultCheckpointName
	}
	return c.CheckpointName
}

func (c *Controller) now() time.Time {
	if c.Now == nil {
		return time.Now()
	}
	return c.Now()
}

func (c *Controller) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return c.Logger
}
