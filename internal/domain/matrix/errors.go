package matrix

import "errors"

// Sentinel errors for grid construction.
var (
	ErrInvalidPosition = errors.New("invalid matrix position")
	ErrInvalidValue    = errors.New("matrix value out of range")
	ErrUnknownGrid     = errors.New("unknown matrix grid")
)
