package mock

import "github.com/fwojciec/callscribe"

var _ callscribe.Strategy = (*Strategy)(nil)

// Strategy is a mock implementation of callscribe.Strategy.
type Strategy struct {
	ExtractListPageFn   func(html string) ([]*callscribe.Call, *callscribe.Pagination, error)
	ExtractTranscriptFn func(html string) ([]*callscribe.TranscriptEntry, error)
	SelectorsFn         func() callscribe.Selectors
}

func (s *Strategy) ExtractListPage(html string) ([]*callscribe.Call, *callscribe.Pagination, error) {
	return s.ExtractListPageFn(html)
}

func (s *Strategy) ExtractTranscript(html string) ([]*callscribe.TranscriptEntry, error) {
	return s.ExtractTranscriptFn(html)
}

func (s *Strategy) Selectors() callscribe.Selectors {
	return s.SelectorsFn()
}
