package protocol

import (
	"context"
	"path"
	"regexp"
	"strings"

	"go.uber.org/zap"
)

var tableValue = regexp.MustCompile(`['"]([^'"]+)['"]\s*[,}]`)

// ScanClient collects client emits and listens. Every string in the event table counts as both,
// since the table does not say which direction an event flows; direct call sites are added on top.
func (s *Scanner) ScanClient(ctx context.Context, files []File) *ClientScan {
	ret := &ClientScan{Emits: Sites{}, Listens: Sites{}}
	tablePath := path.Join(s.clientDir, s.config.TablePath)
	for _, file := range files {
		if ctx.Err() != nil {
			break
		}
		if !within(file.Path, s.clientDir) {
			continue
		}
		if file.Path == tablePath {
			for _, entry := range s.table(ctx, file) {
				ret.Emits.add(entry.Value, file.Path, entry.Line)
				ret.Listens.add(entry.Value, file.Path, entry.Line)
			}
		}
		text := lines(file.Data)
		sites(s.clientEmit, file.Path, text, ret.Emits)
		sites(s.clientListen, file.Path, text, ret.Listens)
	}
	return ret
}

type tableEntry struct {
	Value string
	Line  int
}

// table extracts the event table through the syntax tree, falling back to the line heuristic
func (s *Scanner) table(ctx context.Context, file File) []tableEntry {
	literals, err := s.inspector.ObjectStrings(ctx, file.Path, file.Data, s.config.TableName)
	if err == nil {
		ret := make([]tableEntry, 0, len(literals))
		for _, literal := range literals {
			if s.config.IsBuiltin(literal.Value) {
				continue
			}
			ret = append(ret, tableEntry{Value: literal.Value, Line: literal.Line})
		}
		return ret
	}
	s.logger.Debug("event table falls back to line scan", zap.String("file", file.Path), zap.Error(err))
	return s.tableLines(lines(file.Data))
}

// tableLines starts at the line naming the table and opening a brace and stops at `};`
func (s *Scanner) tableLines(text []string) []tableEntry {
	var ret []tableEntry
	inTable := false
	for i, line := range text {
		if !inTable && strings.Contains(line, s.config.TableName) && strings.Contains(line, "{") {
			inTable = true
		}
		if !inTable {
			continue
		}
		for _, match := range tableValue.FindAllStringSubmatch(line, -1) {
			if s.config.IsBuiltin(match[1]) {
				continue
			}
			ret = append(ret, tableEntry{Value: match[1], Line: i + 1})
		}
		if strings.Contains(line, "};") {
			break
		}
	}
	return ret
}
