package field

import "errors"

// Domain errors for field construction.
var (
	// ErrEmptyGrid indicates a grid with zero valid samples.
	ErrEmptyGrid = errors.New("field: grid contains no valid samples")

	// ErrMissingChannel indicates one of the two vector channels is absent.
	ErrMissingChannel = errors.New("field: missing vector channel")

	// ErrChannelMismatch indicates U and V records disagree on grid shape.
	ErrChannelMismatch = errors.New("field: vector channels disagree on grid definition")

	// ErrBadDefinition indicates grid metadata that cannot describe a grid.
	ErrBadDefinition = errors.New("field: invalid grid definition")

	// ErrReleased indicates a query against a released field.
	ErrReleased = errors.New("field: field has been released")
)
