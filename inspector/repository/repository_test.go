package repository

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		location := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(location), 0755))
		require.NoError(t, os.WriteFile(location, []byte(content), 0644))
	}
}

func TestDetector_DetectProject(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"package.json":                  `{"name": "chat-app", "private": true}`,
		"chat-server/server.js":         "",
		"chat-server/tools/analyze.js":  "",
		"chat-client-vite/src/main.jsx": "",
	})

	tests := []struct {
		description string
		location    string
		expectType  string
	}{
		{description: "root itself", location: root, expectType: "sides"},
		{description: "nested folder", location: filepath.Join(root, "chat-server", "tools"), expectType: "sides"},
		{description: "nested file", location: filepath.Join(root, "chat-client-vite", "src", "main.jsx"), expectType: "sides"},
	}
	detector := New("chat-client-vite", "chat-server")
	for _, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			project, err := detector.DetectProject(tt.location)
			require.NoError(t, err)
			expectRoot, _ := filepath.Abs(root)
			assert.Equal(t, expectRoot, project.Root)
			assert.Equal(t, tt.expectType, project.Type)
			assert.Equal(t, "chat-app", project.Name)
		})
	}
}

func TestDetector_MarkerFallback(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"go.mod":         "module github.com/acme/tools\n\ngo 1.23\n",
		"pkg/sub/app.js": "",
	})
	project, err := New("client", "server").DetectProject(filepath.Join(root, "pkg", "sub"))
	require.NoError(t, err)
	assert.Equal(t, root, project.Root)
	assert.Equal(t, "go", project.Type)
	assert.Equal(t, "github.com/acme/tools", project.Name)
}

func TestDetector_Describe(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"go.mod":      "module github.com/acme/chat\n\ngo 1.23\n",
		".git/config": "[core]\n\tbare = false\n[remote \"origin\"]\n\turl = git@github.com:acme/chat.git\n",
		"server/a.js": "",
	})

	project := New("client", "server").Describe(root)
	assert.Equal(t, root, project.Root)
	assert.Equal(t, "sides", project.Type)
	assert.Equal(t, "github.com/acme/chat", project.Name)
	assert.Equal(t, "git@github.com:acme/chat.git", project.Origin)

	project = New("web", "api").Describe(root)
	assert.Equal(t, "go", project.Type)
}

func TestDetector_Missing(t *testing.T) {
	_, err := New("client").DetectProject(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestFinder_Side(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"chat-server/server.js":                 "",
		"chat-server/src/core/engine.ts":        "",
		"chat-server/src/core/README.md":        "",
		"chat-server/node_modules/express/x.js": "",
		"chat-server/src/buildInfo.js":          "",
		"chat-server/generated/out.js":          "",
		"chat-server/coverage/lcov.js":          "",
		"chat-client-vite/src/App.jsx":          "",
		".gitignore":                            "chat-server/generated/\n",
	})

	finder := NewFinder(root,
		WithExtensions(".js", ".jsx", ".ts", ".tsx"),
		WithExcluded("node_modules", "build", "coverage"),
		WithGitignore(),
	)
	side, err := finder.Side(context.Background(), "server", "chat-server")
	require.NoError(t, err)
	assert.Equal(t, "chat-server", side.Dir)
	assert.Equal(t, []string{"chat-server/server.js", "chat-server/src/core/engine.ts"}, side.Files)

	_, err = finder.Side(context.Background(), "client", "missing-client")
	assert.ErrorIs(t, err, ErrSideNotFound)
}

func TestFinder_WithoutGitignore(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"server/generated/out.js": "",
		".gitignore":              "server/generated/\n",
	})
	side, err := NewFinder(root).Side(context.Background(), "server", "server")
	require.NoError(t, err)
	assert.Equal(t, []string{"server/generated/out.js"}, side.Files)
}
