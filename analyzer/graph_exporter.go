package analyzer

import (
	"bytes"
	"context"
	"fmt"

	"github.com/viant/afs"

	"github.com/viant/archcheck/graph"
)

// GraphExporter defines an interface to export the dependency graph to a storage backend.
type GraphExporter interface {
	Export(ctx context.Context, g *graph.Graph) error
}

// FileExporter writes the canonical graph document to a URL
type FileExporter struct {
	fs  afs.Service
	URL string
}

// NewFileExporter creates an exporter writing to URL
func NewFileExporter(URL string) *FileExporter {
	return &FileExporter{fs: afs.New(), URL: URL}
}

// Export uploads the graph
func (e *FileExporter) Export(ctx context.Context, g *graph.Graph) error {
	data, err := g.MarshalJSON()
	if err != nil {
		return fmt.Errorf("failed to encode graph: %w", err)
	}
	if err = e.fs.Upload(ctx, e.URL, 0644, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to export graph to %s: %w", e.URL, err)
	}
	return nil
}
