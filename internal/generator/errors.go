package generator

import "errors"

var (
	// ErrInvalidPlanType is returned for a plan that is neither new nor patch.
	ErrInvalidPlanType = errors.New("invalid plan type")

	// ErrNoTreeToPatch is returned when a patch plan has no tree to edit.
	ErrNoTreeToPatch = errors.New("cannot patch with no existing tree")

	errMissingComponent = errors.New("add action has no component")
)
