package slog

import (
	"log/slog"

	"github.com/fwojciec/callscribe"
)

// Ensure LoggingStrategy implements callscribe.Strategy.
var _ callscribe.Strategy = (*LoggingStrategy)(nil)

// LoggingStrategy wraps a Strategy with debug logging.
type LoggingStrategy struct {
	next   callscribe.Strategy
	logger *slog.Logger
}

// NewLoggingStrategy creates a new LoggingStrategy.
func NewLoggingStrategy(next callscribe.Strategy, logger *slog.Logger) *LoggingStrategy {
	return &LoggingStrategy{next: next, logger: logger}
}

// ExtractListPage delegates to the wrapped strategy and logs the result.
func (s *LoggingStrategy) ExtractListPage(html string) (calls []*callscribe.Call, p *callscribe.Pagination, err error) {
	defer func() {
		attrs := []any{"calls", len(calls), "err", err}
		if p != nil {
			attrs = append(attrs, "page", p.CurrentPage, "pages", p.TotalPages, "results", p.TotalResults)
		}
		s.logger.Debug("extract list page", attrs...)
	}()
	return s.next.ExtractListPage(html)
}

// ExtractTranscript delegates to the wrapped strategy and logs the result.
func (s *LoggingStrategy) ExtractTranscript(html string) (entries []*callscribe.TranscriptEntry, err error) {
	defer func() {
		s.logger.Debug("extract transcript", "entries", len(entries), "err", err)
	}()
	return s.next.ExtractTranscript(html)
}

// Selectors delegates to the wrapped strategy.
func (s *LoggingStrategy) Selectors() callscribe.Selectors {
	return s.next.Selectors()
}
