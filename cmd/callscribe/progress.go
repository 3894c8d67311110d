package main

import (
	"fmt"
	"io"
	"sync"

	"github.com/fwojciec/callscribe"
	"github.com/schollz/progressbar/v3"
)

// progress renders run status updates as a terminal progress bar. The bar
// starts as a spinner and switches to a bounded bar once the total number
// of results is known.
type progress struct {
	mu  sync.Mutex
	bar *progressbar.ProgressBar
	max int
}

func newProgress(w io.Writer) *progress {
	return &progress{
		bar: progressbar.NewOptions(-1,
			progressbar.OptionSetWriter(w),
			progressbar.OptionSetDescription("Starting"),
			progressbar.OptionSetWidth(30),
			progressbar.OptionShowCount(),
			progressbar.OptionSetPredictTime(false),
		),
	}
}

// Update implements callscribe.StatusFunc.
func (p *progress) Update(status callscribe.Status) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if status.TotalResults > 0 && status.TotalResults != p.max {
		p.max = status.TotalResults
		p.bar.ChangeMax(status.TotalResults)
	}
	p.bar.Describe(describe(status))
	_ = p.bar.Set(status.ProcessedCount + status.FailedCount)
}

// Finish completes the bar.
func (p *progress) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()
	_ = p.bar.Finish()
}

func describe(status callscribe.Status) string {
	desc := "Starting"
	if status.TotalPages > 0 {
		desc = fmt.Sprintf("Page %d/%d", status.CurrentPage, status.TotalPages)
	}
	if status.FailedCount > 0 {
		desc += fmt.Sprintf(", %d failed", status.FailedCount)
	}
	if status.Paused {
		desc += " (paused)"
	}
	return desc
}
