package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fwojciec/callscribe"
)

// Run executes the run command.
//
// An interrupt stops the run gracefully: the current item completes and the
// index of everything collected so far is written.
func (c *RunCmd) Run(deps *Dependencies) error {
	view, err := deps.Sources.OpenSource(deps.Ctx, c.Source, c.Attach)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", callscribe.ErrorMessage(err))
		return err
	}
	if !c.Attach {
		defer view.Close()
	}

	if err := deps.Ctx.Err(); err != nil {
		return err
	}

	bar := newProgress(deps.Stderr)
	unsubscribe := deps.Runner.Subscribe(bar.Update)
	defer unsubscribe()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-deps.Ctx.Done():
			deps.Runner.Stop()
		case <-done:
		}
	}()

	if err := deps.Runner.Run(context.WithoutCancel(deps.Ctx), view, c.Folder); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", callscribe.ErrorMessage(err))
		return err
	}
	bar.Finish()

	status := deps.Runner.Status()
	for _, rec := range status.Errors {
		if rec.Title == "Fatal Error" {
			fmt.Fprintf(deps.Stderr, "error: %s\n", rec.Error)
			return callscribe.Errorf(callscribe.EINTERNAL, "run failed: %s", rec.Error)
		}
	}

	fmt.Fprintf(deps.Stdout, "Downloaded %d of %d transcripts (%d failed)\n",
		status.ProcessedCount, status.TotalResults, status.FailedCount)
	for _, rec := range status.Errors {
		fmt.Fprintf(deps.Stderr, "  skip %s: %s\n", rec.Title, rec.Error)
	}
	fmt.Fprintf(deps.Stdout, "Saved to %s\n", filepath.Join(deps.Config.OutputDir, status.Folder))
	return nil
}
