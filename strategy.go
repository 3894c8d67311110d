package callscribe

// Selectors are the CSS selectors the navigator uses to drive the
// application's pages.
type Selectors struct {
	// ResultList is the results list container on a list page.
	ResultList string

	// PageNumber matches the numbered pagination controls.
	PageNumber string

	// NextPage matches the "next page" control.
	NextPage string

	// TranscriptControl matches candidates for the transcript tab on a call
	// page; the one whose text equals TranscriptLabel is activated.
	TranscriptControl string
	TranscriptLabel   string

	// TranscriptUnit matches one utterance block in the transcript view.
	TranscriptUnit string
}

// Strategy binds the pipeline to one application's page structure.
// Extraction methods are pure: they read an HTML snapshot and never touch the view.
type Strategy interface {
	// ExtractListPage reads the calls and pagination from a list page.
	// Missing per-call fields default to empty strings rather than failing the page.
	ExtractListPage(html string) ([]*Call, *Pagination, error)

	// ExtractTranscript reads the ordered transcript entries from a call page.
	// Units without text are dropped.
	ExtractTranscript(html string) ([]*TranscriptEntry, error)

	// Selectors returns the selectors used to interact with the pages.
	Selectors() Selectors
}
