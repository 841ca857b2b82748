package repository

import (
	"fmt"

	"github.com/okian/tzolkin/internal/domain/kin"
	"github.com/okian/tzolkin/internal/domain/model"
)

// CommonYearOffsets are the days before the first of each month in a common
// year.
var CommonYearOffsets = map[int]int{
	1: 0, 2: 31, 3: 59, 4: 90, 5: 120, 6: 151,
	7: 181, 8: 212, 9: 243, 10: 273, 11: 304, 12: 334,
}

// Synthesize builds year and month tables for years from..to derived from
// the arithmetic anchor, so the table path agrees with it on every date
// when leap correction is on. PSI, date and matrix tables are left empty.
func Synthesize(from, to int, opts ...Option) (*Tables, error) {
	if from > to {
		return nil, fmt.Errorf("%w: synthesize range %d..%d", ErrInvalidTable, from, to)
	}
	r := kin.NewResolver(nil)
	src := Source{
		YearStart:   make(map[int]int, to-from+1),
		MonthOffset: CommonYearOffsets,
	}
	for y := from; y <= to; y++ {
		jan1, err := r.ResolveArithmetic(model.Date{Year: y, Month: 1, Day: 1})
		if err != nil {
			return nil, fmt.Errorf("synthesize year %d: %w", y, err)
		}
		src.YearStart[y] = kin.Mod(int(jan1)-1, kin.Cycle)
	}
	return New(src, opts...)
}
