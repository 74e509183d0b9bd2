package issue

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_Report(t *testing.T) {
	collector := &Collector{}
	collector.Add(
		&Issue{Category: CategoryDependency, Type: TypeCircular, Severity: SeverityError, Message: "a → b → a"},
		&Issue{Category: CategoryDependency, Type: TypeForbidden, Severity: SeverityError},
		&Issue{Category: CategoryEnv, Type: TypeUsedUndocumented, Severity: SeverityWarning},
		&Issue{Category: CategoryDeadCode, Type: TypeUnusedFile, Severity: SeverityInfo},
		&Issue{Category: CategoryProtocol, Type: TypeNamingViolation, Severity: SeverityWarning},
	)
	report := collector.Report(Graph{Modules: 3, Edges: 2, Hash: "ff"})

	assert.Len(t, report.Dependency, 2)
	assert.Len(t, report.Env, 1)
	assert.Len(t, report.DeadCode, 1)
	assert.Len(t, report.Protocol, 1)
	assert.Equal(t, "a → b → a", report.Dependency[0].Message)
	assert.Equal(t, Summary{
		TotalDependencyIssues: 2,
		TotalEnvVarIssues:     1,
		TotalDeadCodeIssues:   1,
		TotalSocketIssues:     1,
		CircularDependencies:  1,
		ForbiddenDependencies: 1,
		BySeverity:            map[Severity]int{SeverityError: 2, SeverityWarning: 2, SeverityInfo: 1},
		Modules:               3,
		Edges:                 2,
		GraphHash:             "ff",
	}, report.Summary)
	assert.False(t, report.Passed())
}

func TestReport_Passed(t *testing.T) {
	tests := []struct {
		description string
		issues      []*Issue
		expect      bool
	}{
		{description: "empty", expect: true},
		{
			description: "warnings only",
			issues: []*Issue{
				{Category: CategoryProtocol, Severity: SeverityWarning},
				{Category: CategoryDependency, Severity: SeverityInfo},
			},
			expect: true,
		},
		{
			description: "env error does not fail",
			issues:      []*Issue{{Category: CategoryEnv, Severity: SeverityError}},
			expect:      true,
		},
		{
			description: "dead code error does not fail",
			issues:      []*Issue{{Category: CategoryDeadCode, Severity: SeverityError}},
			expect:      true,
		},
		{
			description: "protocol error fails",
			issues:      []*Issue{{Category: CategoryProtocol, Severity: SeverityError}},
			expect:      false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			collector := &Collector{}
			collector.Add(tt.issues...)
			assert.Equal(t, tt.expect, collector.Report(Graph{}).Passed())
		})
	}
}

func TestCollector_Concurrent(t *testing.T) {
	collector := &Collector{}
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			collector.Add(&Issue{Category: CategoryEnv}, &Issue{Category: CategoryProtocol})
		}()
	}
	wg.Wait()
	assert.Equal(t, 32, collector.Len())
	assert.Len(t, collector.Report(Graph{}).Env, 16)
}

func TestPrinter_List(t *testing.T) {
	var issues []*Issue
	for i := 0; i < 13; i++ {
		issues = append(issues, &Issue{Severity: SeverityWarning, File: "src/a.js", Line: i + 1, Message: "unused"})
	}
	buf := &bytes.Buffer{}
	printer := NewPrinter(buf, 10)
	printer.List("Unused", issues, 0)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 12)
	assert.Equal(t, "Unused (13):", strings.TrimSpace(lines[0]))
	assert.Equal(t, "[WARNING] src/a.js:1 unused", strings.TrimSpace(lines[1]))
	assert.Equal(t, "... and 3 more", strings.TrimSpace(lines[11]))
}

func TestIssue_String(t *testing.T) {
	assert.Equal(t, "[ERROR] client get_history", (&Issue{Severity: SeverityError, File: "client", Message: "get_history"}).String())
	assert.Equal(t, "[INFO] x", (&Issue{Severity: SeverityInfo, Message: "x"}).String())
}

func TestStore(t *testing.T) {
	root := t.TempDir()
	collector := &Collector{}
	collector.Add(&Issue{
		Category: CategoryProtocol,
		Type:     TypeMissingHandler,
		File:     "client",
		Message:  "Client emits 'get_history' but no server handler found",
		Severity: SeverityError,
		Details:  map[string]interface{}{"event": "get_history", "likely_response": false},
	})
	report := collector.Report(Graph{Modules: 1})

	store := NewStore(root, "reports/architecture_analysis.json")
	assert.Equal(t, filepath.Join(root, "reports", "architecture_analysis.json"), store.URL)
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, report))

	raw, err := store.Raw(ctx)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"socket_issues"`)
	assert.Contains(t, string(raw), `"total_socket_issues": 1`)

	loaded := &Report{}
	require.NoError(t, json.Unmarshal(raw, loaded))
	assert.Equal(t, report.Summary, loaded.Summary)
	require.Len(t, loaded.Protocol, 1)
	assert.Equal(t, "get_history", loaded.Protocol[0].Details["event"])
	assert.False(t, loaded.Passed())
}
