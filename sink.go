package callscribe

import "context"

// IndexFilename is the name of the batch index written at the end of a run.
const IndexFilename = "call_summaries.csv"

// Sink persists run output to a folder. Existing files are never
// overwritten: name collisions are resolved by renaming the new file.
type Sink interface {
	// WriteDocument writes content as folder/filename.txt and returns the
	// path actually written.
	WriteDocument(ctx context.Context, folder, filename, content string) (string, error)

	// WriteIndex writes the CSV index of summaries into folder and returns
	// the path actually written.
	WriteIndex(ctx context.Context, folder string, summaries []CallSummary) (string, error)
}
