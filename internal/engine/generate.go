package engine

import (
	"context"
	"fmt"

	"github.com/danieljhkim/uiforge/internal/explain"
	"github.com/danieljhkim/uiforge/internal/generator"
	"github.com/danieljhkim/uiforge/internal/normalize"
	"github.com/danieljhkim/uiforge/internal/stores"
	"github.com/danieljhkim/uiforge/internal/tree"
	"github.com/danieljhkim/uiforge/internal/validator"
)

// Generate runs normalize, classify, build, validate and explain against the
// latest version, then records the result as a new version. If any stage
// fails nothing is recorded. Only an empty UserText is rejected; text that
// normalizes to nothing still produces the fallback card.
func (e *Engine) Generate(ctx context.Context, req *GenerateRequest) (*GenerateResult, error) {
	if req.UserText == "" {
		return nil, ErrEmptyRequest
	}
	text := normalize.Text(req.UserText)

	if !req.DryRun {
		e.mu.Lock()
		defer e.mu.Unlock()
	}

	base, err := e.latest(ctx)
	if err != nil {
		return nil, err
	}
	result, err := e.run(text, base)
	if err != nil {
		e.logger.Warn("generate rejected", "error", err, "dry_run", req.DryRun)
		return nil, err
	}

	if req.DryRun {
		e.logger.Debug("preview", "plan", result.Plan.Type, "unchanged", result.Unchanged)
		return result, nil
	}

	v, err := e.store.Append(ctx, stores.Draft{
		Tree:        result.Tree,
		Explanation: result.Explanation,
		UserText:    result.UserText,
		Timestamp:   e.clock.Now(),
		Fingerprint: result.Fingerprint,
	})
	if err != nil {
		e.logger.Error("failed to record version", "error", err)
		return nil, fmt.Errorf("failed to record version: %w", err)
	}
	result.Version = v

	e.logger.Info("version recorded",
		"id", v.ID,
		"plan", result.Plan.Type,
		"components", len(result.Plan.Components),
		"actions", len(result.Plan.Actions),
		"nodes", v.Tree.Count(),
		"unchanged", result.Unchanged,
	)
	return result, nil
}

// Preview runs the pipeline like Generate without recording a version.
func (e *Engine) Preview(ctx context.Context, userText string) (*GenerateResult, error) {
	return e.Generate(ctx, &GenerateRequest{UserText: userText, DryRun: true})
}

// run executes the pure pipeline stages for text against base.
func (e *Engine) run(text string, base *stores.Version) (*GenerateResult, error) {
	result := &GenerateResult{UserText: text, Base: base}

	var prev *tree.Node
	if base != nil {
		prev = base.Tree
	}

	result.Plan = e.planner.Classify(text, prev)
	built, err := generator.Build(result.Plan, prev)
	if err != nil {
		return nil, &PipelineError{Stage: StageBuild, Err: err}
	}
	if err := validator.Validate(built); err != nil {
		return nil, &PipelineError{Stage: StageValidate, Err: err}
	}
	result.Tree = built
	result.Explanation = explain.Explain(result.Plan, built, text)

	fp, err := e.hasher.Fingerprint(built)
	if err != nil {
		return nil, fmt.Errorf("failed to fingerprint tree: %w", err)
	}
	result.Fingerprint = fp
	result.Unchanged = base != nil && base.Fingerprint == fp

	return result, nil
}
