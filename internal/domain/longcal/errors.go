package longcal

import "errors"

// Sentinel errors for this package.
var (
	ErrOutOfCoverage = errors.New("date outside 13 moon coverage")
)
