package planner

import (
	"strings"

	"github.com/danieljhkim/uiforge/internal/registry"
	"github.com/danieljhkim/uiforge/internal/tree"
)

// patchKeywords turn a request into an edit when a previous tree exists.
var patchKeywords = []string{"add", "modify", "change", "update", "remove", "make", "more", "less"}

// layoutRule maps trigger phrases to a layout. The first matching rule wins.
type layoutRule struct {
	triggers []string
	layout   Layout
}

var layoutRules = []layoutRule{
	{triggers: []string{"dashboard"}, layout: Layout{Type: LayoutDashboard, HasNavbar: true, HasSidebar: true}},
	{triggers: []string{"modal", "dialog"}, layout: Layout{Type: LayoutModal, HasModal: true}},
	{triggers: []string{"form"}, layout: Layout{Type: LayoutForm, HasCard: true}},
	{triggers: []string{"table", "list"}, layout: Layout{Type: LayoutTable, HasTable: true}},
}

var defaultLayout = Layout{Type: LayoutDefault, HasCard: true}

// request is the state shared by the rules evaluated for one request.
type request struct {
	text     string
	lower    string
	previous *tree.Node
	ids      IDSource

	// components collects the requests produced so far, in rule order.
	components []ComponentRequest
}

func (r *request) has(triggers ...string) bool {
	return containsAny(r.lower, triggers)
}

func (r *request) emit(kind registry.Kind, props *tree.Props) {
	r.components = append(r.components, ComponentRequest{Kind: kind, Props: props})
}

// componentRule contributes components when any of its triggers appears.
// Every rule is evaluated; several may fire for one request.
type componentRule struct {
	kind     registry.Kind
	triggers []string
	build    func(r *request)
}

var buttonTriggers = []string{"button", "click"}

var componentRules = []componentRule{
	{
		kind:     registry.Button,
		triggers: buttonTriggers,
		build: func(r *request) {
			r.emit(registry.Button, tree.NewProps().Set("children", buttonText(r.text)))
		},
	},
	{
		kind:     registry.Card,
		triggers: []string{"card", "container"},
		build: func(r *request) {
			r.emit(registry.Card, tree.NewProps().
				Set("title", cardTitle(r.text)).
				Set("subtitle", subtitle(r.text)))
		},
	},
	{
		kind:     registry.Input,
		triggers: []string{"input", "field", "form"},
		build: func(r *request) {
			r.emit(registry.Input, tree.NewProps().Set("placeholder", "Enter text..."))
		},
	},
	{
		kind:     registry.Table,
		triggers: []string{"table", "data", "list"},
		build: func(r *request) {
			headers, rows := tableTemplate(r.lower)
			r.emit(registry.Table, tree.NewProps().Set("headers", headers).Set("rows", rows))
		},
	},
	{
		kind:     registry.Modal,
		triggers: []string{"modal", "dialog", "popup", "settings"},
		build: func(r *request) {
			title := modalTitle(r.text)
			id := r.ids.ModalID(r.text, r.previous, len(r.components))
			modalTitleProp := title
			if modalTitleProp == "" {
				modalTitleProp = defaultModalTitle
			}
			r.emit(registry.Modal, tree.NewProps().
				Set("id", id).
				Set("title", modalTitleProp).
				Set("isOpen", false))

			// A modal needs something to open it, unless a button was asked for.
			if !r.has("button") {
				label := title
				if label == "" {
					label = "Modal"
				}
				r.emit(registry.Button, tree.NewProps().
					Set("children", "Open "+label).
					Set("opensModal", id))
			}
		},
	},
	{
		kind:     registry.Sidebar,
		triggers: []string{"sidebar", "side panel"},
		build: func(r *request) {
			r.emit(registry.Sidebar, tree.NewProps())
		},
	},
	{
		kind:     registry.Navbar,
		triggers: []string{"navbar", "navigation", "nav"},
		build: func(r *request) {
			r.emit(registry.Navbar, NavbarProps())
		},
	},
	{
		kind:     registry.Chart,
		triggers: []string{"chart", "graph", "visualization"},
		build: func(r *request) {
			r.emit(registry.Chart, tree.NewProps().
				Set("type", "bar").
				Set("data", []any{10.0, 20.0, 30.0}).
				Set("labels", []any{"A", "B", "C"}))
		},
	},
}

// actionRule derives patch actions when any of its triggers appears. Rules
// run in table order, which fixes the order of actions in the plan.
type actionRule struct {
	action   ActionType
	triggers []string
	derive   func(r *request) []Action
}

var actionRules = []actionRule{
	{
		action:   ActionAdd,
		triggers: []string{"add"},
		derive: func(r *request) []Action {
			var actions []Action
			for _, c := range inferComponents(r) {
				comp := c
				actions = append(actions, Action{Type: ActionAdd, Component: &comp, Target: "root"})
			}
			return actions
		},
	},
	{
		action:   ActionRemove,
		triggers: []string{"remove", "delete"},
		derive: func(r *request) []Action {
			if r.previous == nil || len(r.previous.Children) == 0 {
				return nil
			}
			return []Action{{Type: ActionRemove, Target: "last"}}
		},
	},
	{
		action:   ActionSimplify,
		triggers: []string{"minimal", "simpler"},
		derive: func(r *request) []Action {
			return []Action{{Type: ActionSimplify}}
		},
	},
}

// NavbarProps returns the props of a navbar, whether requested or added by
// a dashboard layout.
func NavbarProps() *tree.Props {
	return tree.NewProps().Set("title", "App").Set("links", []any{})
}

func inferLayout(r *request) Layout {
	for _, rule := range layoutRules {
		if r.has(rule.triggers...) {
			return rule.layout
		}
	}
	return defaultLayout
}

func inferComponents(r *request) []ComponentRequest {
	r.components = nil
	for _, rule := range componentRules {
		if r.has(rule.triggers...) {
			rule.build(r)
		}
	}
	if len(r.components) == 0 {
		return []ComponentRequest{{
			Kind:  registry.Card,
			Props: tree.NewProps().Set("title", "UI").Set("subtitle", r.text),
		}}
	}
	return r.components
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// Vocabulary returns every trigger phrase the planner reacts to, without
// duplicates, in rule order.
func Vocabulary() []string {
	seen := make(map[string]bool)
	var words []string
	add := func(ws []string) {
		for _, w := range ws {
			if !seen[w] {
				seen[w] = true
				words = append(words, w)
			}
		}
	}
	add(patchKeywords)
	for _, r := range layoutRules {
		add(r.triggers)
	}
	for _, r := range componentRules {
		add(r.triggers)
	}
	for _, r := range actionRules {
		add(r.triggers)
	}
	return words
}

// ComponentTriggers returns the trigger phrases of each component rule, keyed
// by the kind the rule produces.
func ComponentTriggers() map[registry.Kind][]string {
	out := make(map[registry.Kind][]string, len(componentRules))
	for _, r := range componentRules {
		out[r.kind] = append([]string(nil), r.triggers...)
	}
	return out
}
