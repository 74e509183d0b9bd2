package boundary

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viant/archcheck/config"
	"github.com/viant/archcheck/graph"
)

// newGraph builds a graph from edge lists, each list holding the source followed by its targets
func newGraph(t *testing.T, edges ...[]string) *graph.Graph {
	t.Helper()
	builder := graph.NewBuilder()
	for _, edge := range edges {
		require.NoError(t, builder.AddEdges(edge[0], edge[1:]...))
	}
	ret, err := builder.Build()
	require.NoError(t, err)
	return ret
}

func sample(t *testing.T) *graph.Graph {
	return newGraph(t,
		[]string{"chat-server/src/core/engine.js", "chat-server/routes/api.js", "chat-server/src/core/util.js"},
		[]string{"chat-server/src/domain/room.js", "chat-server/node_modules/express"},
		[]string{"chat-client-vite/src/App.jsx", "chat-server/src/core/util.js", "chat-client-vite/src/main.jsx"},
		[]string{"chat-server/server.js", "chat-client-vite/src/config.js"},
		[]string{"chat-server/routes/api.js", "chat-server/src/core/engine.js"},
	)
}

func TestCheck(t *testing.T) {
	rules, err := Compile(config.Default().Rules)
	require.NoError(t, err)

	got := Check(sample(t), rules)
	assert.EqualValues(t, []Violation{
		{Rule: "Client → Server", Severity: "error", Source: "chat-client-vite/src/App.jsx", Target: "chat-server/src/core/util.js"},
		{Rule: "Server → Client", Severity: "error", Source: "chat-server/server.js", Target: "chat-client-vite/src/config.js"},
		{Rule: "Domain Core → Routes", Severity: "error", Source: "chat-server/src/core/engine.js", Target: "chat-server/routes/api.js"},
		{Rule: "Domain Core → Express", Severity: "error", Source: "chat-server/src/domain/room.js", Target: "chat-server/node_modules/express"},
	}, got)
}

func TestCheck_SourceAnchored(t *testing.T) {
	rules, err := Compile([]config.Rule{{Name: "core", Source: `src/core/`, Forbidden: `routes`, Severity: "warning"}})
	require.NoError(t, err)

	got := Check(newGraph(t,
		[]string{"src/core/a.js", "src/routes/x.js"},
		[]string{"lib/src/core/b.js", "src/routes/x.js"},
	), rules)
	require.Len(t, got, 1)
	assert.Equal(t, "src/core/a.js", got[0].Source)
}

func TestCheck_MultipleRulesPerEdge(t *testing.T) {
	rules, err := Compile([]config.Rule{
		{Name: "no routes", Source: `src/`, Forbidden: `routes`, Severity: "error"},
		{Name: "no api", Source: `src/`, Forbidden: `api`, Severity: "warning"},
	})
	require.NoError(t, err)
	got := Check(newGraph(t, []string{"src/a.js", "routes/api.js"}), rules)
	assert.Len(t, got, 2)
}

func TestCheck_OrderIndependent(t *testing.T) {
	defaults := config.Default().Rules
	reversed := make([]config.Rule, len(defaults))
	for i, rule := range defaults {
		reversed[len(defaults)-1-i] = rule
	}
	forward, err := Compile(defaults)
	require.NoError(t, err)
	backward, err := Compile(reversed)
	require.NoError(t, err)
	assert.Equal(t, Check(sample(t), forward), Check(sample(t), backward))
}

func TestCompile_Invalid(t *testing.T) {
	_, err := Compile([]config.Rule{{Name: "bad", Source: "(", Forbidden: "x", Severity: "error"}})
	assert.Error(t, err)
}
