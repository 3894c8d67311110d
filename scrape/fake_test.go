package scrape_test

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/fwojciec/callscribe"
	"github.com/fwojciec/callscribe/mock"
	"github.com/fwojciec/callscribe/scrape"
)

var testSelectors = callscribe.Selectors{
	ResultList:        "ul.list",
	PageNumber:        "li.page",
	NextPage:          "li.next a",
	TranscriptControl: "button",
	TranscriptLabel:   "Transcript",
	TranscriptUnit:    ".unit",
}

// fakeApp simulates the application behind the views: a paged result list
// and one call page per call ID. HTML snapshots are keys the fake strategy
// resolves back to app data.
type fakeApp struct {
	mu sync.Mutex

	sourceURL    string
	pages        [][]*callscribe.Call
	totalResults int
	current      int

	transcripts map[string][]*callscribe.TranscriptEntry
	stuck       map[string]bool // transcript never renders
	unreachable map[int]bool    // page controls not rendered
	listHTMLErr error
	brokenPages map[int]bool    // list snapshot fails on these pages

	opened       []string
	closed       int
	sourceClosed int
	onOpen       func(callID string)
}

func newFakeApp(pages ...[]*callscribe.Call) *fakeApp {
	app := &fakeApp{
		sourceURL:   "https://app.example.com/search?q=renewal",
		pages:       pages,
		current:     1,
		transcripts: map[string][]*callscribe.TranscriptEntry{},
		stuck:       map[string]bool{},
		unreachable: map[int]bool{},
		brokenPages: map[int]bool{},
	}
	for _, page := range pages {
		app.totalResults += len(page)
		for _, call := range page {
			if call.ID != "" {
				app.transcripts[call.ID] = []*callscribe.TranscriptEntry{
					{Timestamp: "0:01", Speaker: "Ann", Text: "Hello from " + call.ID},
				}
			}
		}
	}
	return app
}

func newCall(id, title string, index int) *callscribe.Call {
	link := "/call?tab=brief"
	if id != "" {
		link = "/call?id=" + id
	}
	return &callscribe.Call{ID: id, Title: title, Company: "Acme", Link: link, Index: index}
}

func (a *fakeApp) openedIDs() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.opened...)
}

func (a *fakeApp) closedSources() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.sourceClosed
}

func (a *fakeApp) closedViews() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.closed
}

func (a *fakeApp) listView() *mock.View {
	return &mock.View{
		URLFn: func(context.Context) (string, error) {
			return a.sourceURL, nil
		},
		HTMLFn: func(context.Context) (string, error) {
			a.mu.Lock()
			defer a.mu.Unlock()
			if a.listHTMLErr != nil {
				return "", a.listHTMLErr
			}
			if a.brokenPages[a.current] {
				return "", errors.New("list did not render")
			}
			return fmt.Sprintf("list:%d", a.current), nil
		},
		ProbeFn:        func(context.Context) error { return nil },
		InstallHooksFn: func(context.Context) error { return nil },
		ClickTextFn: func(_ context.Context, selector, text string) (bool, error) {
			a.mu.Lock()
			defer a.mu.Unlock()
			n, err := strconv.Atoi(text)
			if selector != testSelectors.PageNumber || err != nil || n < 1 || n > len(a.pages) || a.unreachable[n] {
				return false, nil
			}
			a.current = n
			return true, nil
		},
		ClickFn: func(_ context.Context, selector string) (bool, error) {
			a.mu.Lock()
			defer a.mu.Unlock()
			next := a.current + 1
			if selector != testSelectors.NextPage || next > len(a.pages) || a.unreachable[next] {
				return false, nil
			}
			a.current = next
			return true, nil
		},
		WaitElementFn: func(context.Context, string) error { return nil },
		CloseFn: func() error {
			a.mu.Lock()
			defer a.mu.Unlock()
			a.sourceClosed++
			return nil
		},
	}
}

func (a *fakeApp) callView(id string) *mock.View {
	var hooked bool
	return &mock.View{
		URLFn:      func(context.Context) (string, error) { return "https://app.example.com/call?id=" + id, nil },
		WaitLoadFn: func(context.Context) error { return nil },
		HTMLFn: func(context.Context) (string, error) {
			return "call:" + id, nil
		},
		ProbeFn: func(context.Context) error {
			if !hooked {
				return callscribe.Errorf(callscribe.ENOTFOUND, "Extraction hooks not installed.")
			}
			return nil
		},
		InstallHooksFn: func(context.Context) error {
			hooked = true
			return nil
		},
		ClickTextFn: func(_ context.Context, selector, text string) (bool, error) {
			return selector == testSelectors.TranscriptControl && text == testSelectors.TranscriptLabel, nil
		},
		WaitElementFn: func(ctx context.Context, _ string) error {
			a.mu.Lock()
			stuck := a.stuck[id]
			a.mu.Unlock()
			if stuck {
				<-ctx.Done()
				return ctx.Err()
			}
			return nil
		},
		CloseFn: func() error {
			a.mu.Lock()
			defer a.mu.Unlock()
			a.closed++
			return nil
		},
	}
}

func (a *fakeApp) browser() *mock.Browser {
	return &mock.Browser{
		OpenFn: func(_ context.Context, url string) (callscribe.View, error) {
			_, id, ok := strings.Cut(url, "/call?id=")
			if !ok {
				return nil, errors.New("unexpected url " + url)
			}
			a.mu.Lock()
			a.opened = append(a.opened, id)
			onOpen := a.onOpen
			a.mu.Unlock()
			if onOpen != nil {
				onOpen(id)
			}
			return a.callView(id), nil
		},
	}
}

func (a *fakeApp) strategy() *mock.Strategy {
	return &mock.Strategy{
		SelectorsFn: func() callscribe.Selectors { return testSelectors },
		ExtractListPageFn: func(html string) ([]*callscribe.Call, *callscribe.Pagination, error) {
			n, err := strconv.Atoi(strings.TrimPrefix(html, "list:"))
			if err != nil {
				return nil, nil, err
			}
			a.mu.Lock()
			defer a.mu.Unlock()
			return a.pages[n-1], &callscribe.Pagination{
				TotalResults: a.totalResults,
				CurrentPage:  n,
				TotalPages:   len(a.pages),
				PerPage:      callscribe.DefaultPerPage,
			}, nil
		},
		ExtractTranscriptFn: func(html string) ([]*callscribe.TranscriptEntry, error) {
			a.mu.Lock()
			defer a.mu.Unlock()
			return a.transcripts[strings.TrimPrefix(html, "call:")], nil
		},
	}
}

// newController wires a Controller over app with zero delays.
func newController(app *fakeApp, sink callscribe.Sink) *scrape.Controller {
	return newControllerWithTiming(app, sink, callscribe.Timing{})
}

func newControllerWithTiming(app *fakeApp, sink callscribe.Sink, timing callscribe.Timing) *scrape.Controller {
	strategy := app.strategy()
	nav := &scrape.Navigator{Browser: app.browser(), Strategy: strategy, Timing: timing}
	return &scrape.Controller{
		Navigator: nav,
		Processor: &scrape.Processor{Navigator: nav, Strategy: strategy, Sink: sink, Timing: timing},
		Sink:      sink,
		Timing:    timing,
	}
}

// recordingSink is a mock.Sink that keeps what was written.
type recordingSink struct {
	mock.Sink

	mu        sync.Mutex
	documents []string
	index     []callscribe.CallSummary
	indexed   int
}

func newRecordingSink() *recordingSink {
	s := &recordingSink{}
	s.WriteDocumentFn = func(ctx context.Context, folder, filename, _ string) (string, error) {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		s.documents = append(s.documents, filename)
		return folder + "/" + filename + ".txt", nil
	}
	s.WriteIndexFn = func(_ context.Context, folder string, summaries []callscribe.CallSummary) (string, error) {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.index = summaries
		s.indexed++
		return folder + "/" + callscribe.IndexFilename, nil
	}
	return s
}
