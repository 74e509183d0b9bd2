package issue

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/viant/afs"
)

// Store persists reports under the project root
type Store struct {
	fs  afs.Service
	URL string
}

// NewStore creates a store writing to reportPath relative to root
func NewStore(root, reportPath string) *Store {
	location := reportPath
	if !filepath.IsAbs(location) {
		location = filepath.Join(root, reportPath)
	}
	if abs, err := filepath.Abs(location); err == nil {
		location = abs
	}
	return &Store{fs: afs.New(), URL: location}
}

// Save writes the report as indented JSON, creating parent folders as needed
func (s *Store) Save(ctx context.Context, report *Report) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	if err = s.fs.Upload(ctx, s.URL, 0644, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write report %s: %w", s.URL, err)
	}
	return nil
}

// Raw returns the persisted document verbatim
func (s *Store) Raw(ctx context.Context) ([]byte, error) {
	data, err := s.fs.DownloadWithURL(ctx, s.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to read report %s: %w", s.URL, err)
	}
	return data, nil
}
