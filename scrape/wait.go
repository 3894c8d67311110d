package scrape

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/callscribe"
)

// awaitRequired runs wait bounded by timeout. Running out of time is a
// failure reported as ETIMEOUT with msg. A non-positive timeout leaves the
// wait bounded by ctx alone.
func awaitRequired(ctx context.Context, timeout time.Duration, msg string, wait func(context.Context) error) error {
	wctx, cancel := withTimeout(ctx, timeout)
	defer cancel()

	err := wait(wctx)
	if err == nil {
		return nil
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if wctx.Err() != nil {
		return callscribe.Errorf(callscribe.ETIMEOUT, "%s", msg)
	}
	return err
}

// awaitBestEffort runs wait bounded by timeout. Timeouts and wait errors are
// logged and swallowed; only cancellation of ctx is returned.
func awaitBestEffort(ctx context.Context, logger *slog.Logger, timeout time.Duration, what string, wait func(context.Context) error) error {
	wctx, cancel := withTimeout(ctx, timeout)
	defer cancel()

	if err := wait(wctx); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		logger.Debug("best-effort wait gave up", "what", what, "timeout", timeout, "err", err)
	}
	return nil
}

func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}

// sleep pauses for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
