package envcheck

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"path"
	"regexp"
	"sort"
	"strings"

	"github.com/viant/afs"

	"github.com/viant/archcheck/issue"
)

var usagePatterns = []*regexp.Regexp{
	regexp.MustCompile(`process\.env\.([A-Z_][A-Z0-9_]*)`),
	regexp.MustCompile(`import\.meta\.env\.([A-Z_][A-Z0-9_]*)`),
	regexp.MustCompile(`process\.env\[['"]([A-Z_][A-Z0-9_]*)['"]\]`),
}

// Usage is one read of an environment variable
type Usage struct {
	Name string
	File string
	Line int
}

// Scan returns the environment variable reads in src
func Scan(file string, src []byte) []Usage {
	var ret []Usage
	scanner := bufio.NewScanner(bytes.NewReader(src))
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		text := scanner.Text()
		for _, pattern := range usagePatterns {
			for _, match := range pattern.FindAllStringSubmatch(text, -1) {
				ret = append(ret, Usage{Name: match[1], File: file, Line: line})
			}
		}
	}
	return ret
}

// Documented loads variable names from the example files under root; missing files are skipped
func Documented(ctx context.Context, fs afs.Service, root string, files []string) (map[string]bool, error) {
	ret := make(map[string]bool)
	for _, file := range files {
		URL := path.Join(root, file)
		exists, err := fs.Exists(ctx, URL)
		if err != nil || !exists {
			continue
		}
		data, err := fs.DownloadWithURL(ctx, URL)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", URL, err)
		}
		for _, name := range parseExample(data) {
			ret[name] = true
		}
	}
	return ret, nil
}

// parseExample returns the names assigned in a dotenv document, ignoring comments and blank lines
func parseExample(data []byte) []string {
	var ret []string
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		index := strings.Index(line, "=")
		if index == -1 {
			continue
		}
		ret = append(ret, strings.TrimSpace(line[:index]))
	}
	return ret
}

// Check diffs usages against documented names. Every undocumented read is a warning; every
// documented name nobody reads is reported once as info.
func Check(usages []Usage, documented map[string]bool) []*issue.Issue {
	sorted := append([]Usage(nil), usages...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Name != sorted[j].Name {
			return sorted[i].Name < sorted[j].Name
		}
		if sorted[i].File != sorted[j].File {
			return sorted[i].File < sorted[j].File
		}
		return sorted[i].Line < sorted[j].Line
	})
	used := make(map[string]bool)
	var ret []*issue.Issue
	for _, usage := range sorted {
		used[usage.Name] = true
		if documented[usage.Name] {
			continue
		}
		ret = append(ret, &issue.Issue{
			Category: issue.CategoryEnv,
			Type:     issue.TypeUsedUndocumented,
			File:     usage.File,
			Line:     usage.Line,
			Message:  fmt.Sprintf("%s is used but not documented in .env.example", usage.Name),
			Severity: issue.SeverityWarning,
			Details:  map[string]interface{}{"var_name": usage.Name},
		})
	}
	names := make([]string, 0, len(documented))
	for name := range documented {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if used[name] {
			continue
		}
		ret = append(ret, &issue.Issue{
			Category: issue.CategoryEnv,
			Type:     issue.TypeDocumentedUnused,
			File:     ".env.example",
			Message:  fmt.Sprintf("%s is documented but never used", name),
			Severity: issue.SeverityInfo,
			Details:  map[string]interface{}{"var_name": name},
		})
	}
	return ret
}
