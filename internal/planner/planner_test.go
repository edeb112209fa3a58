package planner

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danieljhkim/uiforge/internal/registry"
	"github.com/danieljhkim/uiforge/internal/tree"
)

func treeWithChildren(n int) *tree.Node {
	root := tree.New(registry.Card, tree.NewProps().Set("title", "UI"))
	for i := 0; i < n; i++ {
		root.Append(tree.New(registry.Input, nil))
	}
	return root
}

func propString(t *testing.T, p *tree.Props, key string) string {
	t.Helper()
	s, ok := p.String(key)
	require.True(t, ok, "prop %q missing or not a string", key)
	return s
}

func kinds(reqs []ComponentRequest) []registry.Kind {
	var out []registry.Kind
	for _, r := range reqs {
		out = append(out, r.Kind)
	}
	return out
}

func TestClassify_PlanType(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		previous *tree.Node
		want     PlanType
	}{
		{name: "no previous tree", text: "add a button", previous: nil, want: PlanNew},
		{name: "previous tree without keyword", text: "a chart of sales", previous: treeWithChildren(1), want: PlanNew},
		{name: "add", text: "Add a chart", previous: treeWithChildren(1), want: PlanPatch},
		{name: "make", text: "MAKE it pop", previous: treeWithChildren(1), want: PlanPatch},
		{name: "less as substring", text: "a stateless card", previous: treeWithChildren(0), want: PlanPatch},
		{name: "delete alone is not an edit keyword", text: "delete the chart", previous: treeWithChildren(2), want: PlanNew},
	}

	p := New(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := p.Classify(tt.text, tt.previous)
			assert.Equal(t, tt.want, plan.Type)
			assert.Equal(t, tt.text, plan.Intent)
		})
	}
}

func TestClassify_Layout(t *testing.T) {
	tests := []struct {
		text string
		want Layout
	}{
		{text: "Create a dashboard with a modal", want: Layout{Type: LayoutDashboard, HasNavbar: true, HasSidebar: true}},
		{text: "a dialog with a form", want: Layout{Type: LayoutModal, HasModal: true}},
		{text: "signup form", want: Layout{Type: LayoutForm, HasCard: true}},
		{text: "a list of orders", want: Layout{Type: LayoutTable, HasTable: true}},
		{text: "something nice", want: Layout{Type: LayoutDefault, HasCard: true}},
	}

	p := New(nil)
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			plan := p.Classify(tt.text, nil)
			require.NotNil(t, plan.Layout)
			assert.Equal(t, tt.want, *plan.Layout)
		})
	}
}

func TestClassify_DashboardScenario(t *testing.T) {
	plan := New(nil).Classify("Create a dashboard with a navbar and sidebar", nil)

	require.Equal(t, PlanNew, plan.Type)
	assert.Equal(t, Layout{Type: LayoutDashboard, HasNavbar: true, HasSidebar: true}, *plan.Layout)
	assert.Equal(t, []registry.Kind{registry.Sidebar, registry.Navbar}, kinds(plan.Components))
}

func TestClassify_FallbackCard(t *testing.T) {
	plan := New(nil).Classify("something pretty", nil)
	require.Len(t, plan.Components, 1)
	c := plan.Components[0]
	assert.Equal(t, registry.Card, c.Kind)
	assert.Equal(t, "UI", propString(t, c.Props, "title"))
	assert.Equal(t, "something pretty", propString(t, c.Props, "subtitle"))
}

func TestClassify_MultipleRulesFireInRuleOrder(t *testing.T) {
	plan := New(nil).Classify("a chart, a card, an input field and a button", nil)
	assert.Equal(t,
		[]registry.Kind{registry.Button, registry.Card, registry.Input, registry.Chart},
		kinds(plan.Components))
}

func TestButtonText(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{text: `a button that says "Sign up"`, want: "Sign up"},
		{text: `a BUTTON labeled 'Buy now'`, want: "Buy now"},
		{text: "a button for saving", want: "for"},
		{text: "buttons please", want: "s"},
		{text: "add a button", want: "Click Me"},
		{text: "click here", want: "Click Me"},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			plan := New(nil).Classify(tt.text, nil)
			require.NotEmpty(t, plan.Components)
			require.Equal(t, registry.Button, plan.Components[0].Kind)
			assert.Equal(t, tt.want, propString(t, plan.Components[0].Props, "children"))
		})
	}
}

func TestCardProps(t *testing.T) {
	t.Run("title after title keyword", func(t *testing.T) {
		plan := New(nil).Classify(`a card with title "Revenue"`, nil)
		assert.Equal(t, "Revenue", propString(t, plan.Components[0].Props, "title"))
	})

	t.Run("title after called", func(t *testing.T) {
		plan := New(nil).Classify(`a container called 'Profile'`, nil)
		assert.Equal(t, "Profile", propString(t, plan.Components[0].Props, "title"))
	})

	t.Run("default title and short subtitle", func(t *testing.T) {
		plan := New(nil).Classify("a card", nil)
		props := plan.Components[0].Props
		assert.Equal(t, "UI Component", propString(t, props, "title"))
		assert.Equal(t, "a card", propString(t, props, "subtitle"))
	})

	t.Run("long subtitle is truncated", func(t *testing.T) {
		text := "a card " + strings.Repeat("x", 120)
		plan := New(nil).Classify(text, nil)
		sub := propString(t, plan.Components[0].Props, "subtitle")
		assert.Equal(t, text[:100]+"...", sub)
	})
}

func TestTableTemplates(t *testing.T) {
	tests := []struct {
		text        string
		wantHeaders []any
		wantFirst   []any
	}{
		{text: "a table of users", wantHeaders: []any{"Name", "Email", "Role"}, wantFirst: []any{"John Doe", "john@example.com", "Admin"}},
		{text: "product list", wantHeaders: []any{"Product", "Price", "Stock"}, wantFirst: []any{"Widget A", "$10.00", "50"}},
		{text: "some data", wantHeaders: []any{"Name", "Value", "Status"}, wantFirst: []any{"Item 1", "Value 1", "Active"}},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			plan := New(nil).Classify(tt.text, nil)
			require.Len(t, plan.Components, 1)
			props := plan.Components[0].Props
			headers, _ := props.Get("headers")
			rows, _ := props.Get("rows")
			assert.Equal(t, tt.wantHeaders, headers)
			require.Len(t, rows, 3)
			assert.Equal(t, tt.wantFirst, rows.([]any)[0])
		})
	}
}

func TestModalRule(t *testing.T) {
	t.Run("modal adds an opener button", func(t *testing.T) {
		plan := New(NewSequenceIDs()).Classify(`a modal called "Confirm"`, nil)
		require.Equal(t, []registry.Kind{registry.Modal, registry.Button}, kinds(plan.Components))

		modal := plan.Components[0].Props
		assert.Equal(t, []string{"id", "title", "isOpen"}, modal.Keys())
		assert.Equal(t, "modal-1", propString(t, modal, "id"))
		assert.Equal(t, "Confirm", propString(t, modal, "title"))
		isOpen, _ := modal.Get("isOpen")
		assert.Equal(t, false, isOpen)

		button := plan.Components[1].Props
		assert.Equal(t, "Open Confirm", propString(t, button, "children"))
		assert.Equal(t, "modal-1", propString(t, button, "opensModal"))
	})

	t.Run("settings title", func(t *testing.T) {
		plan := New(nil).Classify("user settings", nil)
		var modal *tree.Props
		for _, c := range plan.Components {
			if c.Kind == registry.Modal {
				modal = c.Props
			}
		}
		require.NotNil(t, modal)
		assert.Equal(t, "Settings", propString(t, modal, "title"))
	})

	t.Run("default title", func(t *testing.T) {
		plan := New(nil).Classify("a popup", nil)
		require.Equal(t, []registry.Kind{registry.Modal, registry.Button}, kinds(plan.Components))
		assert.Equal(t, "Modal Title", propString(t, plan.Components[0].Props, "title"))
		assert.Equal(t, "Open Modal", propString(t, plan.Components[1].Props, "children"))
	})

	t.Run("no opener when a button was requested", func(t *testing.T) {
		plan := New(nil).Classify("a dialog with a button", nil)
		assert.Equal(t, []registry.Kind{registry.Button, registry.Modal}, kinds(plan.Components))
	})

	t.Run("click still gets a linked opener", func(t *testing.T) {
		plan := New(NewSequenceIDs()).Classify("add a popup on click", nil)
		require.Equal(t, []registry.Kind{registry.Button, registry.Modal, registry.Button}, kinds(plan.Components))
		assert.Equal(t, "Click Me", propString(t, plan.Components[0].Props, "children"))
		assert.Equal(t, "modal-1", propString(t, plan.Components[2].Props, "opensModal"))
	})

	t.Run("ids advance per modal", func(t *testing.T) {
		p := New(NewSequenceIDs())
		first := p.Classify("a modal", nil)
		second := p.Classify("a modal", nil)
		assert.Equal(t, "modal-1", propString(t, first.Components[0].Props, "id"))
		assert.Equal(t, "modal-2", propString(t, second.Components[0].Props, "id"))
	})
}

func TestFixedComponents(t *testing.T) {
	t.Run("sidebar", func(t *testing.T) {
		plan := New(nil).Classify("a side panel", nil)
		require.Len(t, plan.Components, 1)
		assert.Equal(t, registry.Sidebar, plan.Components[0].Kind)
		assert.Equal(t, 0, plan.Components[0].Props.Len())
	})

	t.Run("navbar", func(t *testing.T) {
		plan := New(nil).Classify("top navigation", nil)
		require.Len(t, plan.Components, 1)
		props := plan.Components[0].Props
		assert.Equal(t, "App", propString(t, props, "title"))
		links, _ := props.Get("links")
		assert.Equal(t, []any{}, links)
	})

	t.Run("chart", func(t *testing.T) {
		plan := New(nil).Classify("a visualization", nil)
		require.Len(t, plan.Components, 1)
		props := plan.Components[0].Props
		assert.Equal(t, []string{"type", "data", "labels"}, props.Keys())
		data, _ := props.Get("data")
		assert.Equal(t, []any{10.0, 20.0, 30.0}, data)
	})
}

func TestClassify_PatchActions(t *testing.T) {
	t.Run("add a table with user data", func(t *testing.T) {
		plan := New(nil).Classify("Add a table with user data", treeWithChildren(1))
		require.Equal(t, PlanPatch, plan.Type)
		require.Len(t, plan.Actions, 1)

		a := plan.Actions[0]
		assert.Equal(t, ActionAdd, a.Type)
		assert.Equal(t, "root", a.Target)
		require.NotNil(t, a.Component)
		assert.Equal(t, registry.Table, a.Component.Kind)
		headers, _ := a.Component.Props.Get("headers")
		assert.Equal(t, []any{"Name", "Email", "Role"}, headers)
		rows, _ := a.Component.Props.Get("rows")
		assert.Equal(t, []any{
			[]any{"John Doe", "john@example.com", "Admin"},
			[]any{"Jane Smith", "jane@example.com", "User"},
			[]any{"Bob Johnson", "bob@example.com", "User"},
		}, rows)
	})

	t.Run("remove the last item", func(t *testing.T) {
		plan := New(nil).Classify("remove the last item", treeWithChildren(3))
		require.Equal(t, PlanPatch, plan.Type)
		assert.Equal(t, []Action{{Type: ActionRemove, Target: "last"}}, plan.Actions)
	})

	t.Run("remove with no children yields no action", func(t *testing.T) {
		plan := New(nil).Classify("remove something", treeWithChildren(0))
		require.Equal(t, PlanPatch, plan.Type)
		assert.Empty(t, plan.Actions)
	})

	t.Run("actions follow rule order, not text order", func(t *testing.T) {
		plan := New(nil).Classify("make it simpler, delete one and add a chart", treeWithChildren(4))
		require.Len(t, plan.Actions, 3)
		assert.Equal(t, ActionAdd, plan.Actions[0].Type)
		assert.Equal(t, registry.Chart, plan.Actions[0].Component.Kind)
		assert.Equal(t, ActionRemove, plan.Actions[1].Type)
		assert.Equal(t, ActionSimplify, plan.Actions[2].Type)
	})

	t.Run("add without triggers adds fallback card", func(t *testing.T) {
		plan := New(nil).Classify("add something", treeWithChildren(1))
		require.Len(t, plan.Actions, 1)
		assert.Equal(t, registry.Card, plan.Actions[0].Component.Kind)
	})

	t.Run("edit keyword without action triggers", func(t *testing.T) {
		plan := New(nil).Classify("change the colors", treeWithChildren(2))
		assert.Equal(t, PlanPatch, plan.Type)
		assert.Empty(t, plan.Actions)
	})

	t.Run("previous tree is not modified", func(t *testing.T) {
		prev := treeWithChildren(3)
		snapshot := prev.Clone()
		_ = New(nil).Classify("remove it and add a modal, make it minimal", prev)
		assert.True(t, tree.Equal(snapshot, prev))
	})
}

func TestPlan_Kinds(t *testing.T) {
	p := New(nil)
	assert.Equal(t, []registry.Kind{registry.Input}, p.Classify("a field", nil).Kinds())
	assert.Equal(t,
		[]registry.Kind{registry.Chart},
		p.Classify("add a graph then remove", treeWithChildren(1)).Kinds())
}

func TestContentIDs(t *testing.T) {
	ids := NewContentIDs(nil)
	prev := treeWithChildren(1)

	a := ids.ModalID("a modal", prev, 0)
	b := ids.ModalID("a modal", prev.Clone(), 0)
	assert.Equal(t, a, b, "same text and same tree content must give the same id")
	assert.True(t, strings.HasPrefix(a, "modal-"))
	assert.Len(t, a, len("modal-")+8)

	assert.NotEqual(t, a, ids.ModalID("a modal", treeWithChildren(2), 0))
	assert.NotEqual(t, a, ids.ModalID("a modal", prev, 1))
	assert.NotEqual(t, a, ids.ModalID("another modal", prev, 0))
	assert.NotEqual(t, a, ids.ModalID("a modal", nil, 0))
}

func TestVocabulary(t *testing.T) {
	words := Vocabulary()
	seen := make(map[string]bool)
	for _, w := range words {
		assert.False(t, seen[w], "duplicate trigger %q", w)
		seen[w] = true
	}
	for _, w := range []string{"add", "dashboard", "button", "side panel", "delete", "simpler"} {
		assert.True(t, seen[w], "missing trigger %q", w)
	}

	triggers := ComponentTriggers()
	assert.Len(t, triggers, len(registry.All()))
	assert.Equal(t, []string{"chart", "graph", "visualization"}, triggers[registry.Chart])
}
