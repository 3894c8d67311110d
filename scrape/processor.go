package scrape

import (
	"context"
	"fmt"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/callscribe"
)

// Outcome describes a transcript written by the Processor.
type Outcome struct {
	Path    string
	Entries int
	Hash    string
}

// Processor downloads the transcript of a single call.
type Processor struct {
	Navigator *Navigator
	Strategy  callscribe.Strategy
	Sink      callscribe.Sink
	Timing    callscribe.Timing
}

// ProcessItem opens the call page, extracts its transcript and writes it to
// folder. The call view is always closed, and the inter-item delay is
// applied whatever the outcome.
func (p *Processor) ProcessItem(ctx context.Context, call *callscribe.Call, origin, folder string) (*Outcome, error) {
	defer func() { _ = sleep(ctx, p.Timing.ItemDelay) }()

	if err := call.Validate(); err != nil {
		return nil, err
	}

	view, err := p.Navigator.OpenDetailView(ctx, call.ID, origin)
	if view != nil {
		defer func() { _ = view.Close() }()
	}
	if err != nil {
		return nil, err
	}

	if err := p.Navigator.EnsureHooks(ctx, view); err != nil {
		return nil, err
	}
	if err := p.Navigator.OpenTranscript(ctx, view); err != nil {
		return nil, err
	}

	html, err := view.HTML(ctx)
	if err != nil {
		return nil, fmt.Errorf("snapshot call page: %w", err)
	}
	entries, err := p.Strategy.ExtractTranscript(html)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, callscribe.Errorf(callscribe.ENOTFOUND, "No transcript entries found")
	}

	content := callscribe.FormatTranscript(call, entries)
	path, err := p.Sink.WriteDocument(ctx, folder, callscribe.BuildFilename(call), content)
	if err != nil {
		return nil, err
	}

	return &Outcome{
		Path:    path,
		Entries: len(entries),
		Hash:    fmt.Sprintf("%x", xxhash.Sum64String(content)),
	}, nil
}
