package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/callscribe"
)

// Ensure LoggingSink implements callscribe.Sink.
var _ callscribe.Sink = (*LoggingSink)(nil)

// LoggingSink wraps a Sink with logging.
type LoggingSink struct {
	next   callscribe.Sink
	logger *slog.Logger
}

// NewLoggingSink creates a new LoggingSink.
func NewLoggingSink(next callscribe.Sink, logger *slog.Logger) *LoggingSink {
	return &LoggingSink{next: next, logger: logger}
}

// WriteDocument delegates to the wrapped sink and logs the operation.
func (s *LoggingSink) WriteDocument(ctx context.Context, folder, filename, content string) (path string, err error) {
	defer func(begin time.Time) {
		s.logger.Info("write document",
			"filename", filename,
			"path", path,
			"bytes", len(content),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.WriteDocument(ctx, folder, filename, content)
}

// WriteIndex delegates to the wrapped sink and logs the operation.
func (s *LoggingSink) WriteIndex(ctx context.Context, folder string, summaries []callscribe.CallSummary) (path string, err error) {
	defer func(begin time.Time) {
		s.logger.Info("write index",
			"path", path,
			"rows", len(summaries),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.WriteIndex(ctx, folder, summaries)
}
