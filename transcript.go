package callscribe

import "strings"

// TranscriptEntry is one utterance in a call transcript.
type TranscriptEntry struct {
	Timestamp string `json:"timestamp"`
	Speaker   string `json:"speaker"`
	Text      string `json:"text"`
}

// transcriptRule separates the header block from the transcript body.
var transcriptRule = strings.Repeat("=", 60)

// FormatTranscript formats a transcript as a plain text document.
// The header lists the call metadata that is present, followed by the
// entries as "[timestamp] speaker:" / text pairs separated by blank lines.
func FormatTranscript(call *Call, entries []*TranscriptEntry) string {
	lines := make([]string, 0, 10+3*len(entries))

	title := call.Title
	if title == "" {
		title = "Call Transcript"
	}
	lines = append(lines, title)
	if call.Company != "" {
		lines = append(lines, "Company: "+call.Company)
	}
	if call.Date != "" {
		lines = append(lines, "Date: "+call.Date)
	}
	if call.Duration != "" {
		lines = append(lines, "Duration: "+call.Duration)
	}
	if call.Participants != "" {
		lines = append(lines, "Participants: "+call.Participants)
	}
	lines = append(lines, "", transcriptRule, "TRANSCRIPT", transcriptRule, "")

	for _, e := range entries {
		lines = append(lines, "["+e.Timestamp+"] "+e.Speaker+":", e.Text, "")
	}

	return strings.Join(lines, "\n")
}
