package metrics

import (
	"errors"
)

// Sentinel kinds for metrics errors.
var (
	ErrWriteTextfile = errors.New("metrics textfile write failed")
	ErrInvalidOption = errors.New("invalid metrics option")
)
