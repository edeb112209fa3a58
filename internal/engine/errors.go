package engine

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyRequest indicates a request with no text.
	ErrEmptyRequest = errors.New("userText is required")

	// ErrEmptyDocument indicates an import with no content.
	ErrEmptyDocument = errors.New("empty tree document")
)

// Pipeline stages
const (
	StageBuild    = "build"
	StageValidate = "validate"
	StageImport   = "import"
)

// PipelineError reports a request the pipeline rejected. No version is
// recorded when one is returned.
type PipelineError struct {
	// Stage is the pipeline stage that failed
	Stage string

	// Err is the underlying error, e.g. registry.ErrInvalidComponent
	Err error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Stage, e.Err)
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}

// IsPipelineError reports whether err was caused by the request itself
// rather than by storage.
func IsPipelineError(err error) bool {
	var pe *PipelineError
	return errors.As(err, &pe)
}
