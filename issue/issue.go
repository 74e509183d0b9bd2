package issue

import (
	"sync"
)

// Category groups issues in the report
type Category string

const (
	CategoryDependency Category = "dependency"
	CategoryEnv        Category = "env"
	CategoryDeadCode   Category = "dead_code"
	CategoryProtocol   Category = "protocol"
)

// Severity ranks an issue; only errors in the dependency and protocol categories fail a run
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Issue types
const (
	TypeCircular         = "circular"
	TypeForbidden        = "forbidden"
	TypeUsedUndocumented = "used_but_not_documented"
	TypeDocumentedUnused = "documented_but_unused"
	TypeUnusedFile       = "unused_file"
	TypeMissingHandler   = "missing_handler"
	TypeMissingListener  = "missing_listener"
	TypeNoErrorBoundary  = "no_error_boundary"
	TypeNamingViolation  = "naming_violation"
)

// Issue is a single finding of the analysis
type Issue struct {
	Category Category               `json:"category"`
	Type     string                 `json:"type"`
	File     string                 `json:"file"`
	Line     int                    `json:"line"`
	Message  string                 `json:"message"`
	Severity Severity               `json:"severity"`
	Details  map[string]interface{} `json:"details,omitempty"`
}

// Collector accumulates issues from concurrent phases, preserving insertion order
type Collector struct {
	mux    sync.Mutex
	issues []*Issue
}

// Add appends issues
func (c *Collector) Add(issues ...*Issue) {
	if len(issues) == 0 {
		return
	}
	c.mux.Lock()
	c.issues = append(c.issues, issues...)
	c.mux.Unlock()
}

// Issues returns a copy of the collected issues
func (c *Collector) Issues() []*Issue {
	c.mux.Lock()
	defer c.mux.Unlock()
	return append([]*Issue(nil), c.issues...)
}

// Len returns the number of collected issues
func (c *Collector) Len() int {
	c.mux.Lock()
	defer c.mux.Unlock()
	return len(c.issues)
}
