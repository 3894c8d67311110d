package goquery

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/callscribe"
)

var _ callscribe.Strategy = (*Strategy)(nil)

// Gong call library selectors.
const (
	selCallList     = "ul.call-list"
	selCallCard     = "li.call-result"
	selCallMainLink = "a.call-result__main"
	selCallTitle    = ".call-title-block"
	selCallRows     = ".call-result__row"
	selCallDuration = ".call-duration"
	selCallSummary  = `[role="textbox"]`
	selCompanyName  = `[data-testid="show-account-info"] .gong-btn__text`
	selResultsCount = ".pagination-results-top-state"
	selPageNumber   = "li.page-number"
	selNextPage     = "li.next-page a"

	selTranscriptTab = `button, [role="tab"]`
	selMonologue     = ".monologue-inner"
	selSpeaker       = ".timestamp__speaker"
	selTimer         = ".timestamp__timer"
	selMonologueText = ".monologue-text"
)

// resultsCountPattern matches the "10 of 47" results counter.
var resultsCountPattern = regexp.MustCompile(`(?i)(\d+)\s+of\s+(\d+)`)

// Strategy extracts calls and transcripts from Gong call library pages.
//
// List pages render one li.call-result card per call. Rows inside the card
// link are positional: the first holds participants, the second the date.
// Call pages render one .monologue-inner block per utterance.
type Strategy struct{}

// NewStrategy creates a new Strategy.
func NewStrategy() *Strategy {
	return &Strategy{}
}

// Selectors returns the selectors used to drive Gong pages.
func (s *Strategy) Selectors() callscribe.Selectors {
	return callscribe.Selectors{
		ResultList:        selCallList,
		PageNumber:        selPageNumber,
		NextPage:          selNextPage,
		TranscriptControl: selTranscriptTab,
		TranscriptLabel:   "Transcript",
		TranscriptUnit:    selMonologue,
	}
}

// ExtractListPage reads the call cards and pagination from a search-results page.
func (s *Strategy) ExtractListPage(html string) ([]*callscribe.Call, *callscribe.Pagination, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, nil, fmt.Errorf("parse list page: %w", err)
	}

	var calls []*callscribe.Call
	doc.Find(selCallCard).Each(func(i int, card *goquery.Selection) {
		calls = append(calls, extractCall(i, card))
	})

	return calls, extractPagination(doc), nil
}

func extractCall(index int, card *goquery.Selection) *callscribe.Call {
	mainLink := card.Find(selCallMainLink).First()
	link, _ := mainLink.Attr("href")
	rows := mainLink.Find(selCallRows)

	title := text(mainLink.Find(selCallTitle).First())
	if title == "" {
		title = fmt.Sprintf("Unknown Call %d", index+1)
	}

	summary := text(card.Find(selCallSummary).First())
	summary = strings.TrimSpace(strings.TrimSuffix(summary, "Open call brief"))

	return &callscribe.Call{
		ID:           callscribe.CallIDFromLink(link),
		Title:        title,
		Company:      text(card.Find(selCompanyName).First()),
		Date:         text(rows.Eq(1)),
		Duration:     text(card.Find(selCallDuration).First()),
		Participants: text(rows.Eq(0)),
		Summary:      summary,
		Link:         link,
		Index:        index,
	}
}

// extractPagination reads the results counter and the page-number controls.
// Without page-number controls the result set is a single page.
func extractPagination(doc *goquery.Document) *callscribe.Pagination {
	p := &callscribe.Pagination{
		CurrentPage: 1,
		TotalPages:  1,
		PerPage:     callscribe.DefaultPerPage,
	}

	if m := resultsCountPattern.FindStringSubmatch(doc.Find(selResultsCount).First().Text()); m != nil {
		p.PerPage, _ = strconv.Atoi(m[1])
		p.TotalResults, _ = strconv.Atoi(m[2])
	}

	pages := doc.Find(selPageNumber)
	if pages.Length() > 0 {
		p.TotalPages = 0
		pages.Each(func(_ int, li *goquery.Selection) {
			n, err := strconv.Atoi(text(li))
			if err != nil {
				return
			}
			if n > p.TotalPages {
				p.TotalPages = n
			}
			if li.HasClass("active") {
				p.CurrentPage = n
			}
		})
	}

	p.TotalPages = callscribe.ReconcileTotalPages(p.TotalPages, p.TotalResults, p.PerPage)
	return p
}

// ExtractTranscript reads the utterances from a call page with the
// transcript tab open. Text comes from the aria-label of the text block,
// which holds the clean utterance, falling back to its rendered text.
func (s *Strategy) ExtractTranscript(html string) ([]*callscribe.TranscriptEntry, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse call page: %w", err)
	}

	var entries []*callscribe.TranscriptEntry
	doc.Find(selMonologue).Each(func(_ int, mono *goquery.Selection) {
		textEl := mono.Find(selMonologueText).First()
		body := strings.TrimSpace(textEl.AttrOr("aria-label", ""))
		if body == "" {
			body = text(textEl)
		}
		if body == "" {
			return
		}

		speaker := text(mono.Find(selSpeaker).First())
		if speaker == "" {
			speaker = "Unknown"
		}

		entries = append(entries, &callscribe.TranscriptEntry{
			Timestamp: text(mono.Find(selTimer).First()),
			Speaker:   speaker,
			Text:      body,
		})
	})

	return entries, nil
}

func text(s *goquery.Selection) string {
	return strings.TrimSpace(s.Text())
}
