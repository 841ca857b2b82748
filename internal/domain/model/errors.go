package model

import "errors"

// Sentinel errors for date handling.
var (
	ErrInvalidDate = errors.New("invalid date")
)
