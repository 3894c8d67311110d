// Package fs provides file-based storage for run output.
package fs

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/callscribe"
)

// maxRenameAttempts bounds the search for a free " (n)" suffix.
const maxRenameAttempts = 10000

// Ensure Sink implements callscribe.Sink at compile time.
var _ callscribe.Sink = (*Sink)(nil)

// Sink writes transcripts and the CSV index below a root directory.
// Files are created exclusively: when a name is taken the new file is
// written as "name (1).ext", "name (2).ext" and so on.
type Sink struct {
	root string
}

// NewSink creates a new Sink that writes below root.
func NewSink(root string) *Sink {
	return &Sink{root: root}
}

// WriteDocument writes content to folder/filename.txt.
func (s *Sink) WriteDocument(ctx context.Context, folder, filename, content string) (string, error) {
	name := callscribe.SanitizeFilename(filename)
	if name == "" {
		name = "Unknown Call"
	}
	return s.create(ctx, folder, name, ".txt", []byte(content))
}

// WriteIndex writes the summaries as call_summaries.csv in folder.
func (s *Sink) WriteIndex(ctx context.Context, folder string, summaries []callscribe.CallSummary) (string, error) {
	base := strings.TrimSuffix(callscribe.IndexFilename, filepath.Ext(callscribe.IndexFilename))
	return s.create(ctx, folder, base, filepath.Ext(callscribe.IndexFilename), []byte(FormatIndex(summaries)))
}

func (s *Sink) create(ctx context.Context, folder, base, ext string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	dir, err := s.dir(folder)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}

	for n := 0; n < maxRenameAttempts; n++ {
		name := base + ext
		if n > 0 {
			name = fmt.Sprintf("%s (%d)%s", base, n, ext)
		}
		path := filepath.Join(dir, name)

		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
		if errors.Is(err, os.ErrExist) {
			continue
		} else if err != nil {
			return "", err
		}

		if _, err := f.Write(data); err != nil {
			_ = f.Close()
			return "", err
		}
		if err := f.Close(); err != nil {
			return "", err
		}
		return path, nil
	}

	return "", callscribe.Errorf(callscribe.ECONFLICT, "No free filename for %q", base+ext)
}

// dir resolves folder below the root. Folders that escape the root are rejected.
func (s *Sink) dir(folder string) (string, error) {
	if filepath.IsAbs(folder) {
		return "", callscribe.Errorf(callscribe.EINVALID, "Output folder must be relative: %q", folder)
	}
	clean := filepath.Clean(folder)
	if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", callscribe.Errorf(callscribe.EINVALID, "Output folder escapes output root: %q", folder)
	}
	return filepath.Join(s.root, clean), nil
}
