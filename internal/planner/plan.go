package planner

import (
	"github.com/danieljhkim/uiforge/internal/registry"
	"github.com/danieljhkim/uiforge/internal/tree"
)

// PlanType distinguishes a fresh build from an edit of an existing tree.
type PlanType string

// Plan types
const (
	PlanNew   PlanType = "new"
	PlanPatch PlanType = "patch"
)

// LayoutType is the structural layout inferred for a new plan.
type LayoutType string

// Layout types
const (
	LayoutDashboard LayoutType = "dashboard"
	LayoutModal     LayoutType = "modal"
	LayoutForm      LayoutType = "form"
	LayoutTable     LayoutType = "table"
	LayoutDefault   LayoutType = "default"
)

// Layout describes the structure of a new UI.
type Layout struct {
	// Type is the layout name used in explanations.
	Type LayoutType `json:"type"`

	// HasNavbar adds a Navbar as the first child of the root.
	HasNavbar bool `json:"hasNavbar,omitempty"`

	// HasSidebar adds a Sidebar after the Navbar.
	HasSidebar bool `json:"hasSidebar,omitempty"`

	// HasModal, HasCard and HasTable describe the layout but add no nodes.
	HasModal bool `json:"hasModal,omitempty"`
	HasCard  bool `json:"hasCard,omitempty"`
	HasTable bool `json:"hasTable,omitempty"`
}

// ComponentRequest asks for one component node.
type ComponentRequest struct {
	// Kind is the requested component kind
	Kind registry.Kind `json:"name"`

	// Props are the inferred props for the node
	Props *tree.Props `json:"props"`
}

// ActionType is the kind of a patch action.
type ActionType string

// Action types
const (
	ActionAdd      ActionType = "add"
	ActionRemove   ActionType = "remove"
	ActionSimplify ActionType = "simplify"
)

// Action is one atomic edit applied to the root's direct children.
type Action struct {
	// Type is the action type: "add", "remove", "simplify"
	Type ActionType `json:"type"`

	// Component is the node to append (add only)
	Component *ComponentRequest `json:"component,omitempty"`

	// Target names the affected child: "root" for add, "last" for remove
	Target string `json:"target,omitempty"`
}

// Plan is the decision produced by the planner. Exactly one of the two
// variants is populated, as indicated by Type.
type Plan struct {
	// Type is the plan variant
	Type PlanType `json:"type"`

	// Intent is the normalized request text
	Intent string `json:"intent"`

	// Layout and Components are set for PlanNew
	Layout     *Layout            `json:"layout,omitempty"`
	Components []ComponentRequest `json:"components,omitempty"`

	// Previous and Actions are set for PlanPatch
	Previous *tree.Node `json:"-"`
	Actions  []Action   `json:"actions,omitempty"`
}

// NewBuildPlan creates a plan that builds a fresh tree.
func NewBuildPlan(intent string, layout Layout, components []ComponentRequest) *Plan {
	return &Plan{
		Type:       PlanNew,
		Intent:     intent,
		Layout:     &layout,
		Components: components,
	}
}

// NewPatchPlan creates a plan that edits previous.
func NewPatchPlan(intent string, previous *tree.Node, actions []Action) *Plan {
	if actions == nil {
		actions = []Action{}
	}
	return &Plan{
		Type:     PlanPatch,
		Intent:   intent,
		Previous: previous,
		Actions:  actions,
	}
}

// AddAction appends an action to the plan.
func (p *Plan) AddAction(a Action) {
	p.Actions = append(p.Actions, a)
}

// Kinds returns the component kinds a plan asks for, in order. For a patch
// plan these are the kinds of its add actions.
func (p *Plan) Kinds() []registry.Kind {
	var kinds []registry.Kind
	switch p.Type {
	case PlanNew:
		for _, c := range p.Components {
			kinds = append(kinds, c.Kind)
		}
	case PlanPatch:
		for _, a := range p.Actions {
			if a.Type == ActionAdd && a.Component != nil {
				kinds = append(kinds, a.Component.Kind)
			}
		}
	}
	return kinds
}
