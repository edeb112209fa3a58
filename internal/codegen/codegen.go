// Package codegen renders component trees as JSX-style markup.
//
// Output is deterministic: the same tree always renders to the same text.
// It is not meant to be parsed back into a tree.
package codegen

import (
	"fmt"
	"strings"

	"github.com/danieljhkim/uiforge/internal/tree"
)

// Placeholder is rendered for a nil tree.
const Placeholder = "// No UI generated yet"

const indentUnit = "  "

// Serialize renders n starting at indentation level 0.
func Serialize(n *tree.Node) string {
	return SerializeIndent(n, 0)
}

// SerializeIndent renders n with every line indented by level units of two
// spaces.
func SerializeIndent(n *tree.Node, level int) string {
	var b strings.Builder
	writeNode(&b, n, level)
	return b.String()
}

func writeNode(b *strings.Builder, n *tree.Node, level int) {
	if n == nil {
		b.WriteString(Placeholder)
		return
	}

	spaces := strings.Repeat(indentUnit, level)
	name := n.Kind.String()
	attrs := attributes(n.Props)

	b.WriteString(spaces)
	b.WriteByte('<')
	b.WriteString(name)
	if attrs != "" {
		b.WriteByte(' ')
		b.WriteString(attrs)
	}

	switch {
	case len(n.Children) > 0:
		b.WriteString(">\n")
		for i, c := range n.Children {
			if i > 0 {
				b.WriteByte('\n')
			}
			writeNode(b, c, level+1)
		}
		fmt.Fprintf(b, "\n%s</%s>", spaces, name)

	case hasText(n):
		text, _ := n.Text()
		fmt.Fprintf(b, ">%s</%s>", text, name)

	default:
		b.WriteString(" />")
	}
}

func hasText(n *tree.Node) bool {
	text, ok := n.Text()
	return ok && text != ""
}

// attributes renders props other than "children" in insertion order.
func attributes(p *tree.Props) string {
	var parts []string
	p.Range(func(key string, value any) bool {
		if key == "children" {
			return true
		}
		if attr, ok := attribute(key, value); ok {
			parts = append(parts, attr)
		}
		return true
	})
	return strings.Join(parts, " ")
}

// attribute renders one prop. It reports false for props that render nothing:
// nil values and false booleans.
func attribute(key string, value any) (string, bool) {
	switch v := value.(type) {
	case nil:
		return "", false
	case string:
		return key + `="` + strings.ReplaceAll(v, `"`, `\"`) + `"`, true
	case bool:
		if !v {
			return "", false
		}
		return key, true
	case *tree.Props:
		if v == nil {
			return "", false
		}
	case []any:
		if v == nil {
			return "", false
		}
	}
	return key + "={" + literal(value) + "}", true
}

// literal renders numbers, slices and nested props as compact JSON.
func literal(value any) string {
	s, err := tree.CompactJSON(value)
	if err != nil {
		return fmt.Sprint(value)
	}
	return s
}
