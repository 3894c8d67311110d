package mock

import (
	"context"

	"github.com/fwojciec/callscribe"
)

var _ callscribe.View = (*View)(nil)

// View is a mock implementation of callscribe.View.
type View struct {
	URLFn          func(ctx context.Context) (string, error)
	WaitLoadFn     func(ctx context.Context) error
	HTMLFn         func(ctx context.Context) (string, error)
	ProbeFn        func(ctx context.Context) error
	InstallHooksFn func(ctx context.Context) error
	ClickFn        func(ctx context.Context, selector string) (bool, error)
	ClickTextFn    func(ctx context.Context, selector, text string) (bool, error)
	WaitElementFn  func(ctx context.Context, selector string) error
	CloseFn        func() error
}

func (v *View) URL(ctx context.Context) (string, error) {
	return v.URLFn(ctx)
}

func (v *View) WaitLoad(ctx context.Context) error {
	return v.WaitLoadFn(ctx)
}

func (v *View) HTML(ctx context.Context) (string, error) {
	return v.HTMLFn(ctx)
}

func (v *View) Probe(ctx context.Context) error {
	return v.ProbeFn(ctx)
}

func (v *View) InstallHooks(ctx context.Context) error {
	return v.InstallHooksFn(ctx)
}

func (v *View) Click(ctx context.Context, selector string) (bool, error) {
	return v.ClickFn(ctx, selector)
}

func (v *View) ClickText(ctx context.Context, selector, text string) (bool, error) {
	return v.ClickTextFn(ctx, selector, text)
}

func (v *View) WaitElement(ctx context.Context, selector string) error {
	return v.WaitElementFn(ctx, selector)
}

func (v *View) Close() error {
	return v.CloseFn()
}
