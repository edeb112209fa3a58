// Package validator checks that a component tree only uses registered kinds.
package validator

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/danieljhkim/uiforge/internal/registry"
	"github.com/danieljhkim/uiforge/internal/tree"
)

// ErrInvalidTreeStructure is returned for a missing node or a node with no kind.
var ErrInvalidTreeStructure = errors.New("invalid tree structure")

// Validate walks n in pre-order and returns the first violation found. Errors
// name the node's position as a path of child indexes from the root ("root",
// "root/0", "root/0/2", ...). Unknown kinds wrap registry.ErrInvalidComponent.
func Validate(n *tree.Node) error {
	return validate(n, "root")
}

func validate(n *tree.Node, path string) error {
	if n == nil {
		return fmt.Errorf("%w: missing node at %s", ErrInvalidTreeStructure, path)
	}
	if n.Kind == "" {
		return fmt.Errorf("%w: node at %s has no component", ErrInvalidTreeStructure, path)
	}
	if err := registry.Check(n.Kind); err != nil {
		return fmt.Errorf("node at %s: %w", path, err)
	}
	for i, c := range n.Children {
		if err := validate(c, path+"/"+strconv.Itoa(i)); err != nil {
			return err
		}
	}
	return nil
}
