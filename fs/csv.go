package fs

import (
	"strings"

	"github.com/fwojciec/callscribe"
)

// indexHeader is the header row of the CSV index.
const indexHeader = "Company,Date,Duration,Title,Participants,Summary,Call Link"

// FormatIndex renders summaries as CSV. Every field is quoted with inner
// quotes doubled; the header is not quoted.
//
// encoding/csv only quotes fields that need it, so rows are built by hand.
func FormatIndex(summaries []callscribe.CallSummary) string {
	var b strings.Builder
	b.WriteString(indexHeader)
	b.WriteString("\n")
	for i, s := range summaries {
		if i > 0 {
			b.WriteString("\n")
		}
		fields := []string{s.Company, s.Date, s.Duration, s.Title, s.Participants, s.Summary, s.Link}
		for j, f := range fields {
			if j > 0 {
				b.WriteString(",")
			}
			b.WriteString(QuoteField(f))
		}
	}
	return b.String()
}

// QuoteField wraps a CSV field in quotes, doubling inner quotes.
func QuoteField(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
