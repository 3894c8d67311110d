package scrape

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"

	"github.com/fwojciec/callscribe"
)

// Navigator drives views through the application: opening call pages,
// moving between list pages and opening the transcript tab. The
// application renders client-side, so every interaction is followed by
// fixed settle delays and explicit waits taken from Timing.
type Navigator struct {
	Browser  callscribe.Browser
	Strategy callscribe.Strategy
	Timing   callscribe.Timing
	Logger   *slog.Logger
}

// ResolveOrigin returns the scheme and host of rawURL.
func ResolveOrigin(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "", callscribe.Errorf(callscribe.EINVALID, "Could not resolve origin of %q", rawURL)
	}
	return u.Scheme + "://" + u.Host, nil
}

// DetailURL returns the address of a call page.
func DetailURL(origin, callID string) string {
	return origin + "/call?id=" + url.QueryEscape(callID)
}

// OpenDetailView opens the call page in a background view and waits for it
// to load. When the load wait times out the view is returned together with
// an ETIMEOUT error and the caller must close it.
func (n *Navigator) OpenDetailView(ctx context.Context, callID, origin string) (callscribe.View, error) {
	view, err := n.Browser.Open(ctx, DetailURL(origin, callID))
	if err != nil {
		return nil, err
	}

	if err := awaitRequired(ctx, n.Timing.LoadTimeout, "Tab load timeout", view.WaitLoad); err != nil {
		return view, err
	}
	if err := sleep(ctx, n.Timing.LoadSettle); err != nil {
		return view, err
	}
	return view, nil
}

// EnsureHooks installs the extraction hooks if the view does not answer the probe.
func (n *Navigator) EnsureHooks(ctx context.Context, view callscribe.View) error {
	if err := view.Probe(ctx); err == nil {
		return nil
	}
	if err := view.InstallHooks(ctx); err != nil {
		return fmt.Errorf("install hooks: %w", err)
	}
	return sleep(ctx, n.Timing.HookSettle)
}

// ReadListPage snapshots the view and extracts the list page.
func (n *Navigator) ReadListPage(ctx context.Context, view callscribe.View) ([]*callscribe.Call, *callscribe.Pagination, error) {
	html, err := view.HTML(ctx)
	if err != nil {
		return nil, nil, err
	}
	return n.Strategy.ExtractListPage(html)
}

// GotoListPage moves the list view to page. The numbered control is
// preferred; when it is not rendered the "next" control is used instead.
func (n *Navigator) GotoListPage(ctx context.Context, view callscribe.View, page int) error {
	if err := n.EnsureHooks(ctx, view); err != nil {
		return err
	}

	sel := n.Strategy.Selectors()
	ok, err := view.ClickText(ctx, sel.PageNumber, strconv.Itoa(page))
	if err != nil {
		return err
	}
	if !ok {
		if ok, err = view.Click(ctx, sel.NextPage); err != nil {
			return err
		}
	}
	if !ok {
		return callscribe.Errorf(callscribe.ENOTFOUND, "Could not navigate to page %d", page)
	}

	if err := sleep(ctx, n.Timing.PageClickDelay); err != nil {
		return err
	}
	waitList := func(ctx context.Context) error { return view.WaitElement(ctx, sel.ResultList) }
	if err := awaitBestEffort(ctx, n.logger(), n.Timing.ListWait, "result list", waitList); err != nil {
		return err
	}
	return sleep(ctx, n.Timing.PageSettle)
}

// OpenTranscript activates the transcript tab and waits for its content.
func (n *Navigator) OpenTranscript(ctx context.Context, view callscribe.View) error {
	sel := n.Strategy.Selectors()
	ok, err := view.ClickText(ctx, sel.TranscriptControl, sel.TranscriptLabel)
	if err != nil {
		return err
	}
	if !ok {
		return callscribe.Errorf(callscribe.ENOTFOUND, "Transcript tab not found on call page")
	}

	if err := sleep(ctx, n.Timing.TranscriptClickDelay); err != nil {
		return err
	}
	waitUnit := func(ctx context.Context) error { return view.WaitElement(ctx, sel.TranscriptUnit) }
	if err := awaitRequired(ctx, n.Timing.TranscriptWait, "Transcript content did not load", waitUnit); err != nil {
		return err
	}
	return sleep(ctx, n.Timing.TranscriptSettle)
}

func (n *Navigator) logger() *slog.Logger {
	if n.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return n.Logger
}
