package main

import (
	"fmt"
	"time"

	"github.com/fwojciec/callscribe"
)

// Run executes the status command.
func (c *StatusCmd) Run(deps *Dependencies) error {
	name := c.Name
	if name == "" {
		name = deps.Config.CheckpointName
	}

	state, err := deps.Checkpoints.FindCheckpoint(deps.Ctx, name)
	if callscribe.ErrorCode(err) == callscribe.ENOTFOUND {
		fmt.Fprintf(deps.Stdout, "No run recorded under %q. Use 'callscribe run' to start one.\n", name)
		return nil
	} else if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", callscribe.ErrorMessage(err))
		return err
	}

	status := state.Status()
	fmt.Fprintf(deps.Stdout, "Run:       %s (%s)\n", status.RunID, runLabel(state))
	fmt.Fprintf(deps.Stdout, "Page:      %d/%d\n", status.CurrentPage, status.TotalPages)
	fmt.Fprintf(deps.Stdout, "Processed: %d of %d (%d failed)\n", status.ProcessedCount, status.TotalResults, status.FailedCount)
	fmt.Fprintf(deps.Stdout, "Folder:    %s\n", status.Folder)
	fmt.Fprintf(deps.Stdout, "Updated:   %s\n", state.UpdatedAt.Local().Format(time.DateTime))

	if len(status.Errors) > 0 {
		fmt.Fprintln(deps.Stdout, "Recent errors:")
		for _, rec := range status.Errors {
			fmt.Fprintf(deps.Stdout, "  %s: %s\n", rec.Title, rec.Error)
		}
	}
	return nil
}

func runLabel(state *callscribe.RunState) string {
	switch {
	case state.Running && state.Paused:
		return "paused"
	case state.Running:
		return "running"
	case state.FinishedAt != nil:
		return "finished"
	default:
		return "stopped"
	}
}

// Run executes the checkpoints command.
func (c *CheckpointsCmd) Run(deps *Dependencies) error {
	infos, err := deps.Checkpoints.ListCheckpoints(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", callscribe.ErrorMessage(err))
		return err
	}

	if len(infos) == 0 {
		fmt.Fprintln(deps.Stdout, "No checkpoints found. Use 'callscribe run' to create one.")
		return nil
	}

	for _, info := range infos {
		fmt.Fprintf(deps.Stdout, "%s  %s  %s\n", info.Name, info.RunID, info.UpdatedAt.Local().Format(time.DateTime))
	}
	return nil
}
