package engine

import (
	"context"
	"fmt"

	"github.com/danieljhkim/uiforge/internal/codegen"
	"github.com/danieljhkim/uiforge/internal/stores"
	"github.com/danieljhkim/uiforge/internal/tree"
	"github.com/danieljhkim/uiforge/internal/validator"
)

// Versions returns the full history, oldest first.
func (e *Engine) Versions(ctx context.Context) ([]*stores.Version, error) {
	versions, err := e.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list versions: %w", err)
	}
	return versions, nil
}

// Version returns the version with the given id. A missing id yields an
// error wrapping stores.ErrVersionNotFound.
func (e *Engine) Version(ctx context.Context, id int64) (*stores.Version, error) {
	return e.store.Get(ctx, id)
}

// Current returns the latest version, or nil if nothing has been generated.
func (e *Engine) Current(ctx context.Context) (*stores.Version, error) {
	return e.latest(ctx)
}

// Restore appends a copy of an older version so that it becomes current.
// The history is never rewritten.
func (e *Engine) Restore(ctx context.Context, req *RestoreRequest) (*stores.Version, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	old, err := e.store.Get(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	if err := validator.Validate(old.Tree); err != nil {
		return nil, &PipelineError{Stage: StageValidate, Err: err}
	}

	id := old.ID
	v, err := e.record(ctx, old.Tree, fmt.Sprintf("Restored version %d.", old.ID), old.UserText, &id)
	if err != nil {
		return nil, err
	}
	e.logger.Info("version restored", "id", v.ID, "from", old.ID)
	return v, nil
}

// Import validates a tree document and records it as the next version.
func (e *Engine) Import(ctx context.Context, req *ImportRequest) (*stores.Version, error) {
	if len(req.Data) == 0 {
		return nil, ErrEmptyDocument
	}
	t, err := tree.Decode(req.Data)
	if err != nil {
		return nil, &PipelineError{Stage: StageImport, Err: err}
	}
	if err := validator.Validate(t); err != nil {
		return nil, &PipelineError{Stage: StageValidate, Err: err}
	}

	source := req.Source
	if source == "" {
		source = "a document"
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	v, err := e.record(ctx, t, fmt.Sprintf("Imported UI from %s.", source), "", nil)
	if err != nil {
		return nil, err
	}
	e.logger.Info("version imported", "id", v.ID, "source", source, "nodes", t.Count())
	return v, nil
}

// Code renders a version as markup.
func (e *Engine) Code(ctx context.Context, req *CodeRequest) (*CodeResult, error) {
	var (
		v   *stores.Version
		err error
	)
	if req.ID != nil {
		v, err = e.store.Get(ctx, *req.ID)
	} else {
		v, err = e.latest(ctx)
	}
	if err != nil {
		return nil, err
	}
	if v == nil {
		return &CodeResult{Code: codegen.Serialize(nil)}, nil
	}
	return &CodeResult{Version: v, Code: codegen.Serialize(v.Tree)}, nil
}
