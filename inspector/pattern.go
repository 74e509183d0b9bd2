package inspector

import "regexp"

var (
	importFromPattern  = regexp.MustCompile(`(?:import|from)\s+['"]([^'"]+)['"]`)
	requireCallPattern = regexp.MustCompile(`\b(?:require|import)\s*\(\s*['"]([^'"]+)['"]\s*\)`)
)

// patternImports is the line-oriented fallback used when no syntax tree is available
func patternImports(src []byte) []string {
	found := make(map[string]bool)
	for _, pattern := range []*regexp.Regexp{importFromPattern, requireCallPattern} {
		for _, match := range pattern.FindAllSubmatch(src, -1) {
			found[string(match[1])] = true
		}
	}
	return sortedKeys(found)
}
