package boundary

import (
	"fmt"
	"regexp"
	"sort"

	"github.com/viant/archcheck/config"
	"github.com/viant/archcheck/graph"
)

// Rule is a compiled layering constraint
type Rule struct {
	Name      string
	Severity  string
	source    *regexp.Regexp
	forbidden *regexp.Regexp
}

// Violation is an edge that breaks a rule
type Violation struct {
	Rule     string
	Severity string
	Source   string
	Target   string
}

// Compile prepares rules; the source pattern is anchored at the start of the module path
// and the forbidden pattern may match anywhere in the target
func Compile(rules []config.Rule) ([]*Rule, error) {
	ret := make([]*Rule, 0, len(rules))
	for _, rule := range rules {
		source, err := regexp.Compile("^(?:" + rule.Source + ")")
		if err != nil {
			return nil, fmt.Errorf("rule %q: invalid source pattern: %w", rule.Name, err)
		}
		forbidden, err := regexp.Compile(rule.Forbidden)
		if err != nil {
			return nil, fmt.Errorf("rule %q: invalid forbidden pattern: %w", rule.Name, err)
		}
		ret = append(ret, &Rule{Name: rule.Name, Severity: rule.Severity, source: source, forbidden: forbidden})
	}
	return ret, nil
}

// Check evaluates every rule against every edge. The result is sorted, so it does not
// depend on rule or edge order.
func Check(g *graph.Graph, rules []*Rule) []Violation {
	var ret []Violation
	for _, edge := range g.Edges() {
		for _, rule := range rules {
			if rule.source.MatchString(edge.Source) && rule.forbidden.MatchString(edge.Target) {
				ret = append(ret, Violation{Rule: rule.Name, Severity: rule.Severity, Source: edge.Source, Target: edge.Target})
			}
		}
	}
	sort.Slice(ret, func(i, j int) bool {
		if ret[i].Source != ret[j].Source {
			return ret[i].Source < ret[j].Source
		}
		if ret[i].Target != ret[j].Target {
			return ret[i].Target < ret[j].Target
		}
		return ret[i].Rule < ret[j].Rule
	})
	return ret
}
