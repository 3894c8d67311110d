package mock

import (
	"context"

	"github.com/fwojciec/callscribe"
)

var _ callscribe.Sink = (*Sink)(nil)

// Sink is a mock implementation of callscribe.Sink.
type Sink struct {
	WriteDocumentFn func(ctx context.Context, folder, filename, content string) (string, error)
	WriteIndexFn    func(ctx context.Context, folder string, summaries []callscribe.CallSummary) (string, error)
}

func (s *Sink) WriteDocument(ctx context.Context, folder, filename, content string) (string, error) {
	return s.WriteDocumentFn(ctx, folder, filename, content)
}

func (s *Sink) WriteIndex(ctx context.Context, folder string, summaries []callscribe.CallSummary) (string, error) {
	return s.WriteIndexFn(ctx, folder, summaries)
}
