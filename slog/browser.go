// Package slog provides log/slog decorators for callscribe services.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/callscribe"
)

// Ensure LoggingBrowser implements callscribe.Browser.
var _ callscribe.Browser = (*LoggingBrowser)(nil)

// LoggingBrowser wraps a Browser with logging. Views it returns are
// wrapped as well.
type LoggingBrowser struct {
	next   callscribe.Browser
	logger *slog.Logger
}

// NewLoggingBrowser creates a new LoggingBrowser.
func NewLoggingBrowser(next callscribe.Browser, logger *slog.Logger) *LoggingBrowser {
	return &LoggingBrowser{next: next, logger: logger}
}

// Open delegates to the wrapped browser and logs the operation.
func (b *LoggingBrowser) Open(ctx context.Context, url string) (view callscribe.View, err error) {
	defer func(begin time.Time) {
		b.logger.Info("open view",
			"url", url,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	view, err = b.next.Open(ctx, url)
	if view != nil {
		view = &loggingView{next: view, logger: b.logger.With("view", url)}
	}
	return view, err
}

// Attach delegates to the wrapped browser and logs the operation.
func (b *LoggingBrowser) Attach(ctx context.Context, match string) (view callscribe.View, err error) {
	defer func(begin time.Time) {
		b.logger.Info("attach view",
			"match", match,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	view, err = b.next.Attach(ctx, match)
	if view != nil {
		view = &loggingView{next: view, logger: b.logger.With("view", match)}
	}
	return view, err
}

// Close delegates to the wrapped browser.
func (b *LoggingBrowser) Close() error {
	return b.next.Close()
}

// loggingView logs view interactions at debug level.
type loggingView struct {
	next   callscribe.View
	logger *slog.Logger
}

func (v *loggingView) URL(ctx context.Context) (string, error) {
	return v.next.URL(ctx)
}

func (v *loggingView) WaitLoad(ctx context.Context) (err error) {
	defer func(begin time.Time) {
		v.logger.Debug("wait load", "duration", time.Since(begin), "err", err)
	}(time.Now())
	return v.next.WaitLoad(ctx)
}

func (v *loggingView) HTML(ctx context.Context) (html string, err error) {
	defer func(begin time.Time) {
		v.logger.Debug("snapshot", "bytes", len(html), "duration", time.Since(begin), "err", err)
	}(time.Now())
	return v.next.HTML(ctx)
}

func (v *loggingView) Probe(ctx context.Context) error {
	return v.next.Probe(ctx)
}

func (v *loggingView) InstallHooks(ctx context.Context) (err error) {
	defer func() {
		v.logger.Debug("install hooks", "err", err)
	}()
	return v.next.InstallHooks(ctx)
}

func (v *loggingView) Click(ctx context.Context, selector string) (ok bool, err error) {
	defer func() {
		v.logger.Debug("click", "selector", selector, "found", ok, "err", err)
	}()
	return v.next.Click(ctx, selector)
}

func (v *loggingView) ClickText(ctx context.Context, selector, text string) (ok bool, err error) {
	defer func() {
		v.logger.Debug("click text", "selector", selector, "text", text, "found", ok, "err", err)
	}()
	return v.next.ClickText(ctx, selector, text)
}

func (v *loggingView) WaitElement(ctx context.Context, selector string) (err error) {
	defer func(begin time.Time) {
		v.logger.Debug("wait element", "selector", selector, "duration", time.Since(begin), "err", err)
	}(time.Now())
	return v.next.WaitElement(ctx, selector)
}

func (v *loggingView) Close() error {
	return v.next.Close()
}
