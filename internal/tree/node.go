// Package tree defines the UI tree: typed component nodes with ordered props
// and ordered children.
//
// Trees are values. Anything that derives a new tree from an existing one
// (patching, restoring an old version) works on a Clone, so a tree recorded in
// the version history is never changed after it is stored.
package tree

import (
	"encoding/json"

	"github.com/danieljhkim/uiforge/internal/registry"
)

// Node is one component in a UI tree.
type Node struct {
	// Kind is the component kind, e.g. registry.Card.
	Kind registry.Kind `json:"component" yaml:"component"`

	// Props are the component's properties. The "children" prop, when it is
	// a string, is the node's text content.
	Props *Props `json:"props" yaml:"props"`

	// Children are nested component nodes, in render order.
	Children []*Node `json:"children" yaml:"children,omitempty"`
}

// New creates a childless node. A nil props becomes an empty Props.
func New(kind registry.Kind, props *Props) *Node {
	if props == nil {
		props = NewProps()
	}
	return &Node{Kind: kind, Props: props, Children: []*Node{}}
}

// Append adds children to the end of n's children and returns n.
func (n *Node) Append(children ...*Node) *Node {
	n.Children = append(n.Children, children...)
	return n
}

// Clone returns a structurally independent deep copy of n.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	out := &Node{
		Kind:  n.Kind,
		Props: n.Props.Clone(),
	}
	if n.Children != nil {
		out.Children = make([]*Node, len(n.Children))
		for i, c := range n.Children {
			out.Children[i] = c.Clone()
		}
	}
	return out
}

// Text returns the node's text content, the string value of its
// "children" prop.
func (n *Node) Text() (string, bool) {
	if n == nil {
		return "", false
	}
	return n.Props.String("children")
}

// Walk visits n and its descendants in pre-order. Returning false from fn
// skips the node's children.
func (n *Node) Walk(fn func(node *Node, depth int) bool) {
	n.walk(fn, 0)
}

func (n *Node) walk(fn func(node *Node, depth int) bool, depth int) {
	if n == nil {
		return
	}
	if !fn(n, depth) {
		return
	}
	for _, c := range n.Children {
		c.walk(fn, depth+1)
	}
}

// Count returns the number of nodes in the tree rooted at n.
func (n *Node) Count() int {
	count := 0
	n.Walk(func(*Node, int) bool {
		count++
		return true
	})
	return count
}

// Equal reports whether a and b are structurally identical. Nil and empty
// children (or props) compare equal.
func Equal(a, b *Node) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind != b.Kind || !a.Props.Equal(b.Props) || len(a.Children) != len(b.Children) {
		return false
	}
	for i := range a.Children {
		if !Equal(a.Children[i], b.Children[i]) {
			return false
		}
	}
	return true
}

// nodeJSON is the wire form; it always carries props and children.
type nodeJSON struct {
	Kind     registry.Kind `json:"component"`
	Props    *Props        `json:"props"`
	Children []*Node       `json:"children"`
}

// MarshalJSON encodes n in the {component, props, children} wire form.
func (n *Node) MarshalJSON() ([]byte, error) {
	w := nodeJSON{Kind: n.Kind, Props: n.Props, Children: n.Children}
	if w.Props == nil {
		w.Props = NewProps()
	}
	if w.Children == nil {
		w.Children = []*Node{}
	}
	return json.Marshal(w)
}

// UnmarshalJSON decodes the wire form. Missing props decode as empty Props.
func (n *Node) UnmarshalJSON(data []byte) error {
	var w nodeJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	n.Kind = w.Kind
	n.Props = w.Props
	if n.Props == nil {
		n.Props = NewProps()
	}
	n.Children = w.Children
	return nil
}
