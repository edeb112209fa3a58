// Package outline renders component trees as indented terminal outlines for
// inspection from the CLI.
package outline

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	ltree "github.com/charmbracelet/lipgloss/tree"

	"github.com/danieljhkim/uiforge/internal/tree"
)

// maxLabelText caps quoted text in labels.
const maxLabelText = 40

var (
	kindStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	detailStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	branchStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).PaddingRight(1)
)

// Render draws n as an outline, one node per line. styled adds colors.
func Render(n *tree.Node, styled bool) string {
	if n == nil {
		return "(empty)"
	}
	t := build(n, styled)
	t.Enumerator(ltree.RoundedEnumerator)
	if styled {
		t.EnumeratorStyle(branchStyle)
	}
	return t.String()
}

func build(n *tree.Node, styled bool) *ltree.Tree {
	t := ltree.Root(Label(n, styled))
	for _, c := range n.Children {
		if c == nil {
			continue
		}
		if len(c.Children) == 0 {
			t.Child(Label(c, styled))
			continue
		}
		t.Child(build(c, styled))
	}
	return t
}

// Label is the one-line summary of n: its kind, then its id, text and title
// when present.
func Label(n *tree.Node, styled bool) string {
	kind := string(n.Kind)
	if kind == "" {
		kind = "?"
	}

	var details []string
	if id, ok := n.Props.String("id"); ok && id != "" {
		details = append(details, "#"+id)
	}
	if text, ok := n.Text(); ok && text != "" {
		details = append(details, fmt.Sprintf("%q", clip(text)))
	}
	if title, ok := n.Props.String("title"); ok && title != "" {
		details = append(details, fmt.Sprintf("title=%q", clip(title)))
	}
	if target, ok := n.Props.String("opensModal"); ok && target != "" {
		details = append(details, "opens #"+target)
	}

	if !styled {
		if len(details) == 0 {
			return kind
		}
		return kind + " " + strings.Join(details, " ")
	}
	if len(details) == 0 {
		return kindStyle.Render(kind)
	}
	return kindStyle.Render(kind) + " " + detailStyle.Render(strings.Join(details, " "))
}

func clip(s string) string {
	r := []rune(s)
	if len(r) <= maxLabelText {
		return s
	}
	return string(r[:maxLabelText-1]) + "…"
}
