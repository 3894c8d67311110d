package rod

import (
	"context"

	"github.com/fwojciec/callscribe"
	"github.com/go-rod/rod"
)

// Ensure View implements callscribe.View at compile time.
var _ callscribe.View = (*View)(nil)

// View is a single Chrome tab.
type View struct {
	page *rod.Page
}

// URL returns the tab's current address.
func (v *View) URL(ctx context.Context) (string, error) {
	info, err := v.page.Context(ctx).Info()
	if err != nil {
		return "", err
	}
	return info.URL, nil
}

// WaitLoad blocks until the tab fires its load event.
func (v *View) WaitLoad(ctx context.Context) error {
	return v.page.Context(ctx).WaitLoad()
}

// HTML returns the rendered document.
func (v *View) HTML(ctx context.Context) (string, error) {
	return v.page.Context(ctx).HTML()
}

// Probe returns ENOTFOUND if the extraction hooks are not installed.
func (v *View) Probe(ctx context.Context) error {
	ok, err := v.evalBool(ctx, probeJS)
	if err != nil {
		return err
	}
	if !ok {
		return callscribe.Errorf(callscribe.ENOTFOUND, "Extraction hooks not installed.")
	}
	return nil
}

// InstallHooks injects the extraction hooks into the tab.
func (v *View) InstallHooks(ctx context.Context) error {
	_, err := v.page.Context(ctx).Eval(hooksJS)
	return err
}

// Click clicks the first element matching selector.
func (v *View) Click(ctx context.Context, selector string) (bool, error) {
	return v.evalBool(ctx, clickJS, selector)
}

// ClickText clicks the first element matching selector whose trimmed text equals text.
func (v *View) ClickText(ctx context.Context, selector, text string) (bool, error) {
	return v.evalBool(ctx, clickTextJS, selector, text)
}

// WaitElement blocks until an element matching selector exists.
func (v *View) WaitElement(ctx context.Context, selector string) error {
	_, err := v.page.Context(ctx).Element(selector)
	return err
}

// Close closes the tab.
func (v *View) Close() error {
	return v.page.Close()
}

func (v *View) evalBool(ctx context.Context, js string, args ...any) (bool, error) {
	res, err := v.page.Context(ctx).Eval(js, args...)
	if err != nil {
		return false, err
	}
	return res.Value.Bool(), nil
}
