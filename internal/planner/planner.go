package planner

import (
	"strings"

	"github.com/danieljhkim/uiforge/internal/tree"
)

// Planner turns normalized request text into a Plan.
type Planner struct {
	ids IDSource
}

// New creates a Planner. A nil ids uses a SequenceIDs.
func New(ids IDSource) *Planner {
	if ids == nil {
		ids = NewSequenceIDs()
	}
	return &Planner{ids: ids}
}

// Classify decides what text asks for. The text is expected to be normalized
// already. previous is the current tree, or nil when nothing has been built.
//
// The result is a patch plan iff previous is non-nil and the lower-cased text
// contains at least one edit keyword; otherwise it is a new plan. Neither
// previous nor text is modified.
func (p *Planner) Classify(text string, previous *tree.Node) *Plan {
	r := &request{
		text:     text,
		lower:    strings.ToLower(text),
		previous: previous,
		ids:      p.ids,
	}

	if previous != nil && r.has(patchKeywords...) {
		plan := NewPatchPlan(text, previous, nil)
		for _, rule := range actionRules {
			if r.has(rule.triggers...) {
				for _, a := range rule.derive(r) {
					plan.AddAction(a)
				}
			}
		}
		return plan
	}

	return NewBuildPlan(text, inferLayout(r), inferComponents(r))
}
