package callscribe

import (
	"fmt"
	"regexp"
)

// callIDPattern matches the numeric call ID in a call link (e.g. /call?id=12345).
var callIDPattern = regexp.MustCompile(`[?&]id=(\d+)`)

// Call is one entry in a search-results list page.
// Calls are produced by a Strategy and never modified afterwards.
type Call struct {
	// ID is derived from Link. Empty when the link carries no call ID.
	ID           string `json:"id"`
	Title        string `json:"title"`
	Company      string `json:"company"`
	Date         string `json:"date"`
	Duration     string `json:"duration"`
	Participants string `json:"participants"`
	Summary      string `json:"summary"`
	Link         string `json:"link"`

	// Index is the zero-based position of the call on its list page.
	Index int `json:"index"`
}

// Validate returns an error if the call cannot be processed.
// A missing ID is terminal: the call is never retried.
func (c *Call) Validate() error {
	if c.ID == "" {
		return Errorf(EINVALID, "No call ID found in link")
	}
	return nil
}

// DisplayTitle returns the call title, or a positional label when the title is empty.
func (c *Call) DisplayTitle() string {
	if c.Title != "" {
		return c.Title
	}
	return fmt.Sprintf("Card %d", c.Index)
}

// CallIDFromLink extracts the call ID from a call link.
// Returns an empty string if the link does not contain one.
func CallIDFromLink(link string) string {
	m := callIDPattern.FindStringSubmatch(link)
	if m == nil {
		return ""
	}
	return m[1]
}

// CallSummary is the list-level metadata of a call as written to the index.
// Summaries are collected for every listed call, including ones whose
// transcript later fails to download.
type CallSummary struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Company      string `json:"company"`
	Date         string `json:"date"`
	Duration     string `json:"duration"`
	Participants string `json:"participants"`
	Summary      string `json:"summary"`
	Link         string `json:"link"`

	// Hash is the xxhash of the saved transcript, empty until it is saved.
	// It is kept in checkpoints only, not in the index file.
	Hash string `json:"hash,omitempty"`
}

// NewCallSummary returns the index summary for a call.
func NewCallSummary(c *Call) CallSummary {
	return CallSummary{
		ID:           c.ID,
		Title:        c.Title,
		Company:      c.Company,
		Date:         c.Date,
		Duration:     c.Duration,
		Participants: c.Participants,
		Summary:      c.Summary,
		Link:         c.Link,
	}
}
