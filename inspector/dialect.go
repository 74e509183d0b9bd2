package inspector

import (
	"path/filepath"
	"strings"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

// Dialect identifies the grammar used to parse a source file
type Dialect string

const (
	JavaScript Dialect = "javascript"
	TypeScript Dialect = "typescript"
	TSX        Dialect = "tsx"
	// Text marks files with no registered grammar; only the pattern fallback applies
	Text Dialect = "text"
)

// DialectOf returns the dialect inferred from the file extension
func DialectOf(filename string) Dialect {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".js", ".jsx", ".mjs", ".cjs":
		return JavaScript
	case ".ts", ".mts", ".cts":
		return TypeScript
	case ".tsx":
		return TSX
	default:
		return Text
	}
}

// parsers owns one parser pool per dialect, created on first use
type parsers struct {
	once  sync.Once
	pools map[Dialect]*sync.Pool
}

func (p *parsers) init() {
	p.pools = make(map[Dialect]*sync.Pool)
	languages := map[Dialect]func() *sitter.Language{
		JavaScript: javascript.GetLanguage,
		TypeScript: typescript.GetLanguage,
		TSX:        tsx.GetLanguage,
	}
	for dialect, language := range languages {
		lang := language()
		p.pools[dialect] = &sync.Pool{New: func() interface{} {
			parser := sitter.NewParser()
			parser.SetLanguage(lang)
			return parser
		}}
	}
}

// acquire returns a parser for the dialect and a release func, or nil when none is registered
func (p *parsers) acquire(dialect Dialect) (*sitter.Parser, func()) {
	p.once.Do(p.init)
	pool, ok := p.pools[dialect]
	if !ok {
		return nil, func() {}
	}
	parser := pool.Get().(*sitter.Parser)
	return parser, func() { pool.Put(parser) }
}
