package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFindCycles(t *testing.T) {
	tests := []struct {
		description string
		nodes       []string
		edges       map[string][]string
		expect      []Cycle
	}{
		{
			description: "acyclic",
			nodes:       []string{"a", "b", "c", "d"},
			edges: map[string][]string{
				"a": {"b", "c"},
				"b": {"d"},
				"c": {"d"},
			},
		},
		{
			description: "simple loop",
			nodes:       []string{"a", "b", "c"},
			edges: map[string][]string{
				"a": {"b"},
				"b": {"c"},
				"c": {"a"},
			},
			expect: []Cycle{{"a", "b", "c"}},
		},
		{
			description: "simple loop entered from outside",
			nodes:       []string{"a", "b", "c", "entry"},
			edges: map[string][]string{
				"entry": {"c"},
				"c":     {"a"},
				"a":     {"b"},
				"b":     {"c"},
			},
			expect: []Cycle{{"a", "b", "c"}},
		},
		{
			description: "self loop",
			nodes:       []string{"a", "b"},
			edges: map[string][]string{
				"a": {"a", "b"},
			},
			expect: []Cycle{{"a"}},
		},
		{
			description: "shared node in two cycles",
			nodes:       []string{"a", "b", "c"},
			edges: map[string][]string{
				"a": {"b", "c"},
				"b": {"a"},
				"c": {"b"},
			},
			expect: []Cycle{{"a", "b"}, {"a", "c", "b"}},
		},
		{
			description: "edges into unknown modules are ignored",
			nodes:       []string{"a", "b"},
			edges: map[string][]string{
				"a":     {"b", "ghost"},
				"b":     {"ghost"},
				"ghost": {"a"},
			},
		},
		{
			description: "two disjoint loops",
			nodes:       []string{"a", "b", "x", "y"},
			edges: map[string][]string{
				"a": {"b"},
				"b": {"a"},
				"x": {"y"},
				"y": {"x"},
			},
			expect: []Cycle{{"a", "b"}, {"x", "y"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			got := FindCycles(build(t, tt.nodes, tt.edges))
			assert.EqualValues(t, tt.expect, got)
		})
	}
}

func TestFindCycles_Complete(t *testing.T) {
	// complete digraph on 3 nodes: 3 two-cycles and 2 three-cycles
	g := build(t, []string{"a", "b", "c"}, map[string][]string{
		"a": {"b", "c"},
		"b": {"a", "c"},
		"c": {"a", "b"},
	})
	cycles := FindCycles(g)
	assert.Len(t, cycles, 5)
	keys := map[string]bool{}
	for _, cycle := range cycles {
		assert.False(t, keys[cycle.key()], "duplicate rotation %v", cycle)
		keys[cycle.key()] = true
	}
}

func TestCycle_String(t *testing.T) {
	assert.Equal(t, "a → b → a", Cycle{"a", "b"}.String())
	assert.Equal(t, "a → a", Cycle{"a"}.String())
}

func TestGraph_MayContainCycle(t *testing.T) {
	tests := []struct {
		description string
		nodes       []string
		edges       map[string][]string
		expect      bool
	}{
		{description: "empty", expect: false},
		{description: "chain", nodes: []string{"a", "b", "c"}, edges: map[string][]string{"a": {"b"}, "b": {"c", "pkg"}}, expect: false},
		{description: "self loop", nodes: []string{"a"}, edges: map[string][]string{"a": {"a"}}, expect: true},
		{description: "two module loop", nodes: []string{"a", "b"}, edges: map[string][]string{"a": {"b"}, "b": {"a"}}, expect: true},
	}
	for _, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			assert.Equal(t, tt.expect, build(t, tt.nodes, tt.edges).mayContainCycle())
		})
	}
}
