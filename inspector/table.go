package inspector

import (
	"context"
	"errors"

	sitter "github.com/smacker/go-tree-sitter"
)

// ErrTreeUnavailable is returned when a syntax tree scan cannot run for a file
var ErrTreeUnavailable = errors.New("syntax tree unavailable")

// Literal is a string literal with its 1-based line
type Literal struct {
	Value string
	Line  int
}

// ObjectStrings returns the string values of every property in the object literal bound to name,
// e.g. `export const SocketEvents = Object.freeze({ JOIN: 'join' })`. Nested objects are included.
func (i *Inspector) ObjectStrings(ctx context.Context, filename string, src []byte, name string) ([]Literal, error) {
	if i.disableTree {
		return nil, ErrTreeUnavailable
	}
	root, err := i.parse(ctx, DialectOf(filename), src)
	if err != nil {
		return nil, errors.Join(ErrTreeUnavailable, err)
	}
	var result []Literal
	walk(root, func(node *sitter.Node) {
		var value *sitter.Node
		switch node.Type() {
		case "variable_declarator":
			if id := node.ChildByFieldName("name"); id != nil && id.Content(src) == name {
				value = node.ChildByFieldName("value")
			}
		case "assignment_expression":
			if left := node.ChildByFieldName("left"); left != nil && lastSegment(left, src) == name {
				value = node.ChildByFieldName("right")
			}
		}
		if value == nil {
			return
		}
		walk(value, func(child *sitter.Node) {
			if child.Type() != "pair" {
				return
			}
			if text, ok := literal(child.ChildByFieldName("value"), src); ok {
				result = append(result, Literal{Value: text, Line: int(child.StartPoint().Row) + 1})
			}
		})
	})
	return result, nil
}

// lastSegment returns `b` for `a.b` and the identifier itself otherwise
func lastSegment(node *sitter.Node, src []byte) string {
	if node.Type() == "member_expression" {
		if property := node.ChildByFieldName("property"); property != nil {
			return property.Content(src)
		}
	}
	return node.Content(src)
}
