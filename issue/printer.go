package issue

import (
	"fmt"
	"io"
	"strings"
)

const rule = 80

// Printer streams human-readable progress and issue lines
type Printer struct {
	w          io.Writer
	displayCap int
}

// NewPrinter creates a printer; a nil writer discards all output
func NewPrinter(w io.Writer, displayCap int) *Printer {
	if w == nil {
		w = io.Discard
	}
	if displayCap < 1 {
		displayCap = 10
	}
	return &Printer{w: w, displayCap: displayCap}
}

// Phase prints a phase header
func (p *Printer) Phase(title string) {
	fmt.Fprintf(p.w, "\n%s\n%s\n", title, strings.Repeat("=", rule))
}

// Printf prints an indented progress line
func (p *Printer) Printf(format string, args ...interface{}) {
	fmt.Fprintf(p.w, "  "+format+"\n", args...)
}

// List prints header followed by at most limit issues; limit < 1 uses the display cap
func (p *Printer) List(header string, issues []*Issue, limit int) {
	if len(issues) == 0 {
		return
	}
	if limit < 1 {
		limit = p.displayCap
	}
	fmt.Fprintf(p.w, "  %s (%d):\n", header, len(issues))
	for i, item := range issues {
		if i == limit {
			break
		}
		fmt.Fprintf(p.w, "    %s\n", item)
	}
	if len(issues) > limit {
		fmt.Fprintf(p.w, "    ... and %d more\n", len(issues)-limit)
	}
}

// Summary prints the report totals
func (p *Printer) Summary(report *Report) {
	p.Phase("Summary")
	s := report.Summary
	p.Printf("Modules: %d, edges: %d", s.Modules, s.Edges)
	p.Printf("Dependency Issues: %d", s.TotalDependencyIssues)
	p.Printf("  - Circular: %d", s.CircularDependencies)
	p.Printf("  - Forbidden: %d", s.ForbiddenDependencies)
	p.Printf("Environment Variable Issues: %d", s.TotalEnvVarIssues)
	p.Printf("Dead Code Issues: %d", s.TotalDeadCodeIssues)
	p.Printf("Socket Issues: %d", s.TotalSocketIssues)
	p.Printf("Errors: %d, warnings: %d, info: %d", s.BySeverity[SeverityError], s.BySeverity[SeverityWarning], s.BySeverity[SeverityInfo])
	if report.Passed() {
		p.Printf("PASSED")
		return
	}
	p.Printf("FAILED")
}

// String renders an issue as a single line
func (i *Issue) String() string {
	location := i.File
	if i.Line > 0 {
		location = fmt.Sprintf("%s:%d", i.File, i.Line)
	}
	if location == "" {
		return fmt.Sprintf("[%s] %s", strings.ToUpper(string(i.Severity)), i.Message)
	}
	return fmt.Sprintf("[%s] %s %s", strings.ToUpper(string(i.Severity)), location, i.Message)
}
