// Package callscribe exports call transcripts in bulk from a web application's
// search-results listing. It pages through the results list in a real browser,
// opens each call in a background view, extracts the transcript from the
// rendered page, and writes one text file per call plus a CSV index.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., rod/, goquery/, sqlite/).
package callscribe
