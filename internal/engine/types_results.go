package engine

import (
	"github.com/danieljhkim/uiforge/internal/planner"
	"github.com/danieljhkim/uiforge/internal/stores"
	"github.com/danieljhkim/uiforge/internal/tree"
)

// GenerateResult represents the outcome of one pipeline run.
type GenerateResult struct {
	// Plan is the classifier's decision
	Plan *planner.Plan

	// Tree is the validated result
	Tree *tree.Node

	// Explanation describes the plan
	Explanation string

	// UserText is the normalized request text
	UserText string

	// Fingerprint is the content hash of Tree
	Fingerprint string

	// Base is the version the request was planned against (nil if none)
	Base *stores.Version

	// Version is the recorded version (nil if DryRun)
	Version *stores.Version

	// Unchanged is true when Tree is identical to Base's tree
	Unchanged bool
}

// CodeResult represents a rendered version.
type CodeResult struct {
	// Version is the rendered version (nil when the history is empty)
	Version *stores.Version

	// Code is the markup, or a placeholder comment when there is no version
	Code string
}
