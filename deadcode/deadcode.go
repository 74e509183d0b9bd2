package deadcode

import (
	"fmt"
	"path"
	"regexp"
	"sort"
	"strings"

	"github.com/viant/archcheck/config"
	"github.com/viant/archcheck/graph"
	"github.com/viant/archcheck/issue"
)

const (
	reason          = "File is never imported by any other file"
	suggestedAction = "Review and remove if truly unused"
)

// Detector finds discovered files that nothing imports
type Detector struct {
	entryPoints []string
	tests       []*regexp.Regexp
}

// New creates a detector
func New(cfg *config.DeadCode) (*Detector, error) {
	ret := &Detector{entryPoints: cfg.EntryPoints}
	for _, pattern := range cfg.TestPatterns {
		compiled, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid test pattern %q: %w", pattern, err)
		}
		ret.tests = append(ret.tests, compiled)
	}
	return ret, nil
}

// Detect returns one info issue per unused module, sorted by path
func (d *Detector) Detect(g *graph.Graph) []*issue.Issue {
	imported := g.Imported()
	var ret []*issue.Issue
	for _, module := range g.Nodes() {
		if imported[module] || d.isEntryPoint(module) || d.isTest(module) || isUsedBarrel(module, imported) {
			continue
		}
		ret = append(ret, &issue.Issue{
			Category: issue.CategoryDeadCode,
			Type:     issue.TypeUnusedFile,
			File:     module,
			Message:  reason,
			Severity: issue.SeverityInfo,
			Details: map[string]interface{}{
				"confidence":       "medium",
				"reason":           reason,
				"suggested_action": suggestedAction,
			},
		})
	}
	sort.SliceStable(ret, func(i, j int) bool { return ret[i].File < ret[j].File })
	return ret
}

func (d *Detector) isEntryPoint(module string) bool {
	for _, entry := range d.entryPoints {
		if strings.HasSuffix(module, entry) {
			return true
		}
	}
	return false
}

func (d *Detector) isTest(module string) bool {
	for _, pattern := range d.tests {
		if pattern.MatchString(module) {
			return true
		}
	}
	return false
}

// isUsedBarrel reports whether module is an index file whose folder holds an imported file
func isUsedBarrel(module string, imported map[string]bool) bool {
	if !strings.HasSuffix(module, "/index.js") && !strings.HasSuffix(module, "/index.ts") {
		return false
	}
	prefix := path.Dir(module) + "/"
	for candidate := range imported {
		if strings.HasPrefix(candidate, prefix) {
			return true
		}
	}
	return false
}
