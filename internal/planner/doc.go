// Package planner classifies a natural-language request into a Plan.
//
// Classification is a deterministic keyword heuristic, not language
// understanding. A request becomes a patch plan when a previous tree exists and
// the text contains an edit keyword; otherwise it becomes a new plan. All
// inference is driven by ordered rule tables (layoutRules, componentRules,
// actionRules) whose entries are evaluated independently, so each rule can be
// audited and tested on its own.
//
// Key responsibilities:
//   - Decide between a fresh build and an incremental edit
//   - Infer the layout and the component list for a fresh build
//   - Derive add/remove/simplify actions for an edit
//   - Assign modal ids through an IDSource
package planner
