package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeProject(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		location := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(location), 0755))
		require.NoError(t, os.WriteFile(location, []byte(content), 0644))
	}
	return root
}

func TestRun(t *testing.T) {
	handlers := "const { wrapSocketHandler } = require('../utils/wrap');\n" +
		"module.exports = (socket) => socket.on('ping', wrapSocketHandler(() => socket.emit('pong')));\n"
	clean := map[string]string{
		"chat-server/server.js":               `const handlers = require('./socketHandlers');`,
		"chat-server/socketHandlers/index.js": handlers,
		"chat-server/utils/wrap.js":           `module.exports.wrapSocketHandler = (fn) => fn;`,
		"chat-client-vite/src/main.jsx":       "socket.emit('ping');\nsocket.on('pong', () => {});\n",
	}
	broken := map[string]string{
		"chat-server/a.js":              `require('./b');`,
		"chat-server/b.js":              `require('./a');`,
		"chat-client-vite/src/main.jsx": `import x from '../../chat-server/a';`,
	}

	tests := []struct {
		description string
		files       map[string]string
		args        []string
		expectCode  int
		expectJSON  bool
	}{
		{description: "clean project passes", files: clean, expectCode: 0},
		{description: "cycle fails", files: broken, expectCode: 1},
		{description: "json report", files: broken, args: []string{"-json"}, expectCode: 1, expectJSON: true},
		{description: "env only never fails", files: broken, args: []string{"-check", "env", "-quiet"}, expectCode: 0},
		{description: "unknown check", files: clean, args: []string{"-check", "style"}, expectCode: 1},
	}
	for _, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			root := writeProject(t, tt.files)
			stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
			code := run(append([]string{"-root", root}, tt.args...), stdout, stderr)
			assert.Equal(t, tt.expectCode, code, stderr.String())
			if tt.expectJSON {
				report := map[string]interface{}{}
				require.NoError(t, json.Unmarshal(stdout.Bytes(), &report))
				assert.Contains(t, report, "dependency_issues")
				assert.Contains(t, report, "summary")
			}
		})
	}
}

func TestRun_MissingRoot(t *testing.T) {
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	code := run([]string{"-root", filepath.Join(t.TempDir(), "absent")}, stdout, stderr)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "project root not found")
}
