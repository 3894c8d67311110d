package callscribe

import "context"

// Browser opens and finds views on the rendering surface.
type Browser interface {
	// Open opens url in a new background view. The returned view may still be
	// loading; call WaitLoad to block until it reports load complete.
	Open(ctx context.Context, url string) (View, error)

	// Attach returns an already open view whose URL contains match.
	// Returns ENOTFOUND if no such view exists.
	Attach(ctx context.Context, match string) (View, error)

	// Close releases browser resources.
	// Must be called when the Browser is no longer needed.
	Close() error
}

// View is a single rendered page (a browser tab).
type View interface {
	// URL returns the address currently shown by the view.
	URL(ctx context.Context) (string, error)

	// WaitLoad blocks until the view reports load complete.
	// The context bounds the wait.
	WaitLoad(ctx context.Context) error

	// HTML returns a snapshot of the rendered document.
	HTML(ctx context.Context) (string, error)

	// Probe returns an error if the extraction hooks are not available.
	Probe(ctx context.Context) error

	// InstallHooks injects the extraction hooks into the view.
	InstallHooks(ctx context.Context) error

	// Click activates the first element matching selector.
	// Returns false if no element matches.
	Click(ctx context.Context, selector string) (bool, error)

	// ClickText activates the first element matching selector whose trimmed
	// text equals text. Returns false if no element matches.
	ClickText(ctx context.Context, selector, text string) (bool, error)

	// WaitElement blocks until an element matching selector is present.
	// The context bounds the wait.
	WaitElement(ctx context.Context, selector string) error

	// Close closes the view. Closing an already closed view is not an error
	// callers need to act on.
	Close() error
}
