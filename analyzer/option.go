package analyzer

import (
	"github.com/viant/afs"
	"go.uber.org/zap"

	"github.com/viant/archcheck/inspector"
	"github.com/viant/archcheck/issue"
)

type Option func(*Analyzer)

// WithLogger sets the diagnostic logger shared by every phase
func WithLogger(logger *zap.Logger) Option {
	return func(a *Analyzer) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithPrinter sets where progress and issue lines are streamed
func WithPrinter(printer *issue.Printer) Option {
	return func(a *Analyzer) {
		if printer != nil {
			a.printer = printer
		}
	}
}

// WithChecks restricts the run to the selected phases
func WithChecks(checks ...Check) Option {
	return func(a *Analyzer) {
		a.checks = map[Check]bool{}
		for _, check := range checks {
			a.checks[check] = true
		}
	}
}

// WithFS sets the file system used to read sources and write the report
func WithFS(fs afs.Service) Option {
	return func(a *Analyzer) {
		a.fs = fs
	}
}

// WithInspector sets the import extractor
func WithInspector(i *inspector.Inspector) Option {
	return func(a *Analyzer) {
		a.inspector = i
	}
}

// WithGraphExporter registers a GraphExporter to send the dependency graph after analysis.
func WithGraphExporter(exporter GraphExporter) Option {
	return func(a *Analyzer) {
		a.graphExporter = exporter
	}
}
