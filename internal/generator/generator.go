// Package generator turns plans into component trees.
//
// A new plan builds a tree from scratch under a root Card. A patch plan edits
// a deep copy of the previous tree; the input tree is never modified. Every
// kind is checked against the registry before its node is attached, and any
// failure discards the whole result.
package generator

import (
	"fmt"

	"github.com/danieljhkim/uiforge/internal/planner"
	"github.com/danieljhkim/uiforge/internal/registry"
	"github.com/danieljhkim/uiforge/internal/tree"
)

// simplifyLimit is the number of root children kept by a simplify action.
const simplifyLimit = 2

// Build applies plan. prev is the current tree, consulted only for patch plans.
func Build(plan *planner.Plan, prev *tree.Node) (*tree.Node, error) {
	if plan == nil {
		return nil, fmt.Errorf("%w: nil plan", ErrInvalidPlanType)
	}

	switch plan.Type {
	case planner.PlanNew:
		return buildNew(plan)
	case planner.PlanPatch:
		return applyPatch(plan, prev)
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidPlanType, plan.Type)
	}
}

func buildNew(plan *planner.Plan) (*tree.Node, error) {
	root := tree.New(registry.Card, tree.NewProps().
		Set("title", "UI").
		Set("subtitle", plan.Intent))

	if plan.Layout != nil {
		if plan.Layout.HasNavbar {
			root.Append(tree.New(registry.Navbar, planner.NavbarProps()))
		}
		if plan.Layout.HasSidebar {
			root.Append(tree.New(registry.Sidebar, tree.NewProps()))
		}
	}

	for i, c := range plan.Components {
		node, err := newNode(c)
		if err != nil {
			return nil, fmt.Errorf("component %d: %w", i, err)
		}
		root.Append(node)
	}

	return root, nil
}

// applyPatch edits a copy of the previous tree. The plan's own Previous wins
// over prev when both are set.
func applyPatch(plan *planner.Plan, prev *tree.Node) (*tree.Node, error) {
	base := plan.Previous
	if base == nil {
		base = prev
	}
	if base == nil {
		return nil, ErrNoTreeToPatch
	}

	out := base.Clone()
	for i, action := range plan.Actions {
		if err := apply(out, action); err != nil {
			return nil, fmt.Errorf("action %d (%s): %w", i, action.Type, err)
		}
	}
	return out, nil
}

// apply performs one action against the root's direct children.
func apply(root *tree.Node, action planner.Action) error {
	switch action.Type {
	case planner.ActionAdd:
		if action.Component == nil {
			return errMissingComponent
		}
		node, err := newNode(*action.Component)
		if err != nil {
			return err
		}
		root.Append(node)

	case planner.ActionRemove:
		if n := len(root.Children); n > 0 {
			root.Children[n-1] = nil
			root.Children = root.Children[:n-1]
		}

	case planner.ActionSimplify:
		if len(root.Children) > simplifyLimit {
			root.Children = root.Children[:simplifyLimit]
		}

	default:
		return fmt.Errorf("unknown action type %q", action.Type)
	}
	return nil
}

// newNode creates a childless node for c after checking its kind.
func newNode(c planner.ComponentRequest) (*tree.Node, error) {
	if err := registry.Check(c.Kind); err != nil {
		return nil, err
	}
	return tree.New(c.Kind, c.Props.Clone()), nil
}
