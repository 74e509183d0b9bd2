package protocol

import (
	"context"
	"strings"
)

const snippetSize = 50

// ScanServer collects handled and emitted events from handler registration files only
func (s *Scanner) ScanServer(ctx context.Context, files []File) *ServerScan {
	ret := &ServerScan{Handles: Sites{}, Emits: Sites{}}
	for _, file := range files {
		if ctx.Err() != nil {
			break
		}
		if !within(file.Path, s.serverDir) || !strings.Contains(file.Path, s.config.HandlerMarker) {
			continue
		}
		text := lines(file.Data)
		sites(s.serverEmit, file.Path, text, ret.Emits)
		guarded := s.fileGuarded(string(file.Data))
		for i, line := range text {
			for _, match := range s.serverListen.FindAllStringSubmatch(line, -1) {
				ret.Handles.add(match[1], file.Path, i+1)
				ret.Handlers = append(ret.Handlers, HandlerSite{
					Event:   match[1],
					File:    file.Path,
					Line:    i + 1,
					Guarded: guarded || s.windowGuarded(text, i),
					Snippet: snippet(line),
				})
			}
		}
	}
	return ret
}

// fileGuarded reports whether the file declares use of a wrapper or an error boundary
func (s *Scanner) fileGuarded(content string) bool {
	for _, wrapper := range s.config.Wrappers {
		if strings.Contains(content, wrapper) {
			return true
		}
	}
	marker := strings.ToLower(s.config.BoundaryMarker)
	return marker != "" && strings.Contains(strings.ToLower(content), marker)
}

// windowGuarded reports whether a wrapper appears within the configured window around line index
func (s *Scanner) windowGuarded(text []string, index int) bool {
	from := index - s.config.Window
	if from < 0 {
		from = 0
	}
	to := index + s.config.Window + 1
	if to > len(text) {
		to = len(text)
	}
	nearby := strings.Join(text[from:to], "\n")
	for _, wrapper := range s.config.Wrappers {
		if strings.Contains(nearby, wrapper) {
			return true
		}
	}
	return false
}

func snippet(line string) string {
	line = strings.TrimSpace(line)
	if len(line) > snippetSize {
		return line[:snippetSize]
	}
	return line
}
