package scrape

import (
	"context"

	"github.com/fwojciec/callscribe"
)

// OpenSource returns the list view a run reads from. With attach set,
// source is matched against the URLs of already open views, which lets a
// run drive a search the user has open in a logged-in browser; otherwise
// source is opened as a URL and loaded.
func (n *Navigator) OpenSource(ctx context.Context, source string, attach bool) (callscribe.View, error) {
	if source == "" {
		return nil, callscribe.Errorf(callscribe.EINVALID, "Source required.")
	}
	if attach {
		return n.Browser.Attach(ctx, source)
	}

	if _, err := ResolveOrigin(source); err != nil {
		return nil, err
	}
	view, err := n.Browser.Open(ctx, source)
	if err != nil {
		return nil, err
	}
	if err := awaitRequired(ctx, n.Timing.LoadTimeout, "Source page load timeout", view.WaitLoad); err != nil {
		_ = view.Close()
		return nil, err
	}
	if err := sleep(ctx, n.Timing.LoadSettle); err != nil {
		_ = view.Close()
		return nil, err
	}
	return view, nil
}
