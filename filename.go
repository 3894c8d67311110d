package callscribe

import (
	"regexp"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// MaxFilenameLength is the maximum length of a sanitized filename in characters.
const MaxFilenameLength = 200

// illegalFilenameChars matches characters that are not allowed in filenames
// on at least one common filesystem.
var illegalFilenameChars = regexp.MustCompile(`[<>:"/\\|?*]`)

// trailingTimezone matches the timezone abbreviation the listing appends to call dates.
var trailingTimezone = regexp.MustCompile(`(?i)\s*(ET|CT|MT|PT|EST|CST|MST|PST|UTC)$`)

// dateLayouts are tried in order before falling back to dateparse.
var dateLayouts = []string{
	"January 2, 2006, 3:04 PM",
	"January 2, 2006 3:04 PM",
	"January 2, 2006",
	"Jan 2, 2006, 3:04 PM",
	"Jan 2, 2006 3:04 PM",
	"Jan 2, 2006",
	"Monday, January 2, 2006, 3:04 PM",
	"Monday, January 2, 2006",
	"Mon, Jan 2, 2006, 3:04 PM",
	"Mon, Jan 2, 2006",
	"2006-01-02",
	"1/2/2006, 3:04 PM",
	"1/2/2006",
}

// SanitizeFilename makes s safe to use as a filename. Illegal characters are
// replaced with "-", whitespace runs collapse to a single space, and the
// result is trimmed and truncated to MaxFilenameLength characters.
// SanitizeFilename is idempotent.
func SanitizeFilename(s string) string {
	s = illegalFilenameChars.ReplaceAllString(s, "-")
	s = strings.Join(strings.Fields(s), " ")
	if r := []rune(s); len(r) > MaxFilenameLength {
		s = strings.TrimSpace(string(r[:MaxFilenameLength]))
	}
	return s
}

// NormalizeDate converts a free-text call date such as
// "January 5, 2024, 10:00 AM EST" to "2024-01-05". When the date cannot be
// parsed, the text before the first comma is returned.
func NormalizeDate(s string) string {
	trimmed := strings.TrimSpace(trailingTimezone.ReplaceAllString(s, ""))
	if t, ok := parseDate(trimmed); ok {
		return t.Format("2006-01-02")
	}
	before, _, _ := strings.Cut(s, ",")
	return before
}

func parseDate(s string) (t time.Time, ok bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}

	// dateparse has panicked on malformed input in the past.
	defer func() {
		if recover() != nil {
			t, ok = time.Time{}, false
		}
	}()
	t, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// BuildFilename returns the filename (without extension) for a call's
// transcript: company, normalized date, title and participants joined with
// " - ", sanitized. Empty parts are skipped.
func BuildFilename(call *Call) string {
	var parts []string
	if call.Company != "" {
		parts = append(parts, call.Company)
	}
	if call.Date != "" {
		parts = append(parts, NormalizeDate(call.Date))
	}
	if call.Title != "" {
		parts = append(parts, call.Title)
	}
	if call.Participants != "" {
		parts = append(parts, call.Participants)
	}

	raw := strings.Join(parts, " - ")
	if raw == "" {
		raw = "Unknown Call"
	}
	return SanitizeFilename(raw)
}
