package inspector

import (
	"context"
	"fmt"
	"sort"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"go.uber.org/zap"
)

// Strategy names the extraction path that produced a Result
type Strategy string

const (
	StrategyTree    Strategy = "tree"
	StrategyPattern Strategy = "pattern"
)

// Result holds the raw import specifiers statically visible in one file
type Result struct {
	Dialect  Dialect
	Strategy Strategy
	Imports  []string // sorted, unique
}

// importCallees are call expressions whose single literal argument names a module
var importCallees = map[string]bool{
	"require": true,
	"import":  true,
}

// Inspector extracts import specifiers from JavaScript and TypeScript sources
type Inspector struct {
	disableTree bool
	logger      *zap.Logger
	parsers     parsers
}

// Option configures an Inspector
type Option func(*Inspector)

// WithoutTree forces the text pattern fallback for every file
func WithoutTree() Option {
	return func(i *Inspector) {
		i.disableTree = true
	}
}

// WithLogger sets the logger used to report fallbacks
func WithLogger(logger *zap.Logger) Option {
	return func(i *Inspector) {
		if logger != nil {
			i.logger = logger
		}
	}
}

// New creates an Inspector; parsers are created lazily on first use
func New(opts ...Option) *Inspector {
	ret := &Inspector{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

// Imports returns the import specifiers found in src. It never fails: a tree parse
// error falls back to the text patterns.
func (i *Inspector) Imports(ctx context.Context, filename string, src []byte) *Result {
	dialect := DialectOf(filename)
	if !i.disableTree {
		imports, err := i.treeImports(ctx, dialect, src)
		if err == nil {
			return &Result{Dialect: dialect, Strategy: StrategyTree, Imports: imports}
		}
		i.logger.Debug("falling back to import patterns", zap.String("file", filename), zap.Error(err))
	}
	return &Result{Dialect: dialect, Strategy: StrategyPattern, Imports: patternImports(src)}
}

// parse returns the syntax tree root for src, or an error when no grammar applies or the tree is malformed
func (i *Inspector) parse(ctx context.Context, dialect Dialect, src []byte) (*sitter.Node, error) {
	parser, release := i.parsers.acquire(dialect)
	defer release()
	if parser == nil {
		return nil, fmt.Errorf("no grammar for dialect %s", dialect)
	}
	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("failed to parse source: %w", err)
	}
	root := tree.RootNode()
	if root == nil {
		return nil, fmt.Errorf("empty syntax tree")
	}
	if root.HasError() {
		return nil, fmt.Errorf("syntax errors in %s source", dialect)
	}
	return root, nil
}

func (i *Inspector) treeImports(ctx context.Context, dialect Dialect, src []byte) ([]string, error) {
	root, err := i.parse(ctx, dialect, src)
	if err != nil {
		return nil, err
	}
	found := make(map[string]bool)
	walk(root, func(node *sitter.Node) {
		switch node.Type() {
		case "import_statement", "export_statement":
			if specifier, ok := literal(sourceOf(node), src); ok {
				found[specifier] = true
			}
		case "import_require_clause":
			if specifier, ok := literal(node.ChildByFieldName("source"), src); ok {
				found[specifier] = true
				return
			}
			for j := 0; j < int(node.NamedChildCount()); j++ {
				if specifier, ok := literal(node.NamedChild(j), src); ok {
					found[specifier] = true
				}
			}
		case "call_expression":
			if specifier, ok := callArgument(node, src); ok {
				found[specifier] = true
			}
		}
	})
	return sortedKeys(found), nil
}

// sourceOf returns the module string of an import/export declaration
func sourceOf(node *sitter.Node) *sitter.Node {
	if source := node.ChildByFieldName("source"); source != nil {
		return source
	}
	for j := 0; j < int(node.NamedChildCount()); j++ {
		if child := node.NamedChild(j); child.Type() == "string" {
			return child
		}
	}
	return nil
}

// callArgument returns the literal argument of require("x") / import("x")
func callArgument(node *sitter.Node, src []byte) (string, bool) {
	callee := node.ChildByFieldName("function")
	if callee == nil {
		return "", false
	}
	name := callee.Type()
	if name == "identifier" {
		name = callee.Content(src)
	}
	if !importCallees[name] {
		return "", false
	}
	args := node.ChildByFieldName("arguments")
	if args == nil || args.NamedChildCount() != 1 {
		return "", false
	}
	return literal(args.NamedChild(0), src)
}

// literal unquotes a string node; template strings qualify only without substitutions
func literal(node *sitter.Node, src []byte) (string, bool) {
	if node == nil {
		return "", false
	}
	switch node.Type() {
	case "string":
	case "template_string":
		for j := 0; j < int(node.NamedChildCount()); j++ {
			if node.NamedChild(j).Type() == "template_substitution" {
				return "", false
			}
		}
	default:
		return "", false
	}
	value := strings.Trim(node.Content(src), "'\"`")
	return value, value != ""
}

// walk visits every node depth first without recursion
func walk(root *sitter.Node, visit func(node *sitter.Node)) {
	stack := []*sitter.Node{root}
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		visit(node)
		for j := int(node.ChildCount()) - 1; j >= 0; j-- {
			if child := node.Child(j); child != nil {
				stack = append(stack, child)
			}
		}
	}
}

func sortedKeys(m map[string]bool) []string {
	ret := make([]string, 0, len(m))
	for k := range m {
		ret = append(ret, k)
	}
	sort.Strings(ret)
	return ret
}
