package repository

import "errors"

// Sentinel kinds for table errors.
var (
	ErrInvalidTable    = errors.New("invalid calendar table")
	ErrAmbiguousMatrix = errors.New("ambiguous matrix mapping")
	ErrLoad            = errors.New("load calendar tables failed")
	ErrUnknownFormat   = errors.New("unknown table file format")
)
