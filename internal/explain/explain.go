// Package explain renders a plain-English account of a plan.
//
// The explanation describes what the plan asked for, not what the resulting
// tree contains: a remove against an empty tree is still reported as a removal.
package explain

import (
	"fmt"
	"strings"

	"github.com/danieljhkim/uiforge/internal/planner"
	"github.com/danieljhkim/uiforge/internal/tree"
)

// Fallback is returned for plans that are neither new nor patch.
const Fallback = "UI generated successfully."

// Explain describes plan for the user who sent text. The built tree is
// accepted for symmetry with the other pipeline stages and is not read.
func Explain(plan *planner.Plan, _ *tree.Node, text string) string {
	if plan == nil {
		return Fallback
	}

	switch plan.Type {
	case planner.PlanNew:
		names := make([]string, len(plan.Components))
		for i, c := range plan.Components {
			names[i] = c.Kind.String()
		}
		layout := planner.LayoutDefault
		if plan.Layout != nil {
			layout = plan.Layout.Type
		}
		return fmt.Sprintf("Created a new UI with %s based on your request: \"%s\". The layout uses a %s structure.",
			strings.Join(names, ", "), text, layout)

	case planner.PlanPatch:
		phrases := make([]string, len(plan.Actions))
		for i, a := range plan.Actions {
			phrases[i] = describe(a)
		}
		return fmt.Sprintf("Modified the existing UI: %s. Your request: \"%s\"", strings.Join(phrases, ", "), text)

	default:
		return Fallback
	}
}

func describe(a planner.Action) string {
	switch a.Type {
	case planner.ActionAdd:
		if a.Component == nil {
			return "added component"
		}
		return "added " + a.Component.Kind.String()
	case planner.ActionRemove:
		return "removed last component"
	case planner.ActionSimplify:
		return "simplified the layout"
	default:
		return string(a.Type)
	}
}
