package deadcode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viant/archcheck/config"
	"github.com/viant/archcheck/graph"
	"github.com/viant/archcheck/issue"
)

func TestDetector_Detect(t *testing.T) {
	builder := graph.NewBuilder()
	require.NoError(t, builder.AddNode(
		"chat-server/server.js",
		"chat-server/src/core/engine.js",
		"chat-server/src/core/orphan.js",
		"chat-server/src/core/engine.test.js",
		"chat-server/__mocks__/db.js",
		"chat-server/src/lib/index.ts",
		"chat-server/src/lib/helper.ts",
		"chat-server/src/unused/index.ts",
		"chat-client-vite/src/main.jsx",
		"chat-client-vite/src/legacy.jsx",
	))
	require.NoError(t, builder.AddEdges("chat-server/server.js", "chat-server/src/core/engine.js", "chat-server/src/lib/helper.ts"))
	g, err := builder.Build()
	require.NoError(t, err)
	detector, err := New(&config.Default().DeadCode)
	require.NoError(t, err)

	got := detector.Detect(g)
	var files []string
	for _, item := range got {
		files = append(files, item.File)
		assert.Equal(t, issue.CategoryDeadCode, item.Category)
		assert.Equal(t, issue.SeverityInfo, item.Severity)
		assert.Equal(t, "medium", item.Details["confidence"])
	}
	assert.Equal(t, []string{
		"chat-client-vite/src/legacy.jsx",
		"chat-server/src/core/orphan.js",
		"chat-server/src/unused/index.ts",
	}, files)
}

func TestNew_InvalidPattern(t *testing.T) {
	_, err := New(&config.DeadCode{TestPatterns: []string{"("}})
	assert.Error(t, err)
}
