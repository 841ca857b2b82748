package kin

import "errors"

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	// ErrInvalidKin, ErrInvalidSeal and ErrInvalidTone reject out-of-range input.
	ErrInvalidKin  = errors.New("kin out of range 1..260")
	ErrInvalidSeal = errors.New("seal out of range 1..20")
	ErrInvalidTone = errors.New("tone out of range 1..13")

	// ErrLookupMiss means a year or month row is absent from the calendar tables.
	ErrLookupMiss = errors.New("calendar table lookup miss")

	// ErrInvariantViolation flags a defect in the cycle arithmetic. It is never
	// recovered from at runtime.
	ErrInvariantViolation = errors.New("kin invariant violated")
)
