package mock

import (
	"context"

	"github.com/fwojciec/callscribe"
)

var _ callscribe.Browser = (*Browser)(nil)

// Browser is a mock implementation of callscribe.Browser.
type Browser struct {
	OpenFn   func(ctx context.Context, url string) (callscribe.View, error)
	AttachFn func(ctx context.Context, match string) (callscribe.View, error)
	CloseFn  func() error
}

func (b *Browser) Open(ctx context.Context, url string) (callscribe.View, error) {
	return b.OpenFn(ctx, url)
}

func (b *Browser) Attach(ctx context.Context, match string) (callscribe.View, error) {
	return b.AttachFn(ctx, match)
}

func (b *Browser) Close() error {
	return b.CloseFn()
}
