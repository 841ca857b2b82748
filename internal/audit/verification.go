package audit

import (
	"fmt"

	"github.com/okian/tzolkin/internal/domain/kin"
	"github.com/okian/tzolkin/internal/domain/longcal"
	"github.com/okian/tzolkin/internal/domain/model"
)

// verifyRoundTrips composes every Seal/Tone pair and decomposes it back.
func (r *runner) verifyRoundTrips() {
	var found []Mismatch
	seen := make(map[kin.Kin]bool, kin.Cycle)
	for s := kin.Seal(1); s <= kin.Seals; s++ {
		for t := kin.Tone(1); t <= kin.Tones; t++ {
			k, err := kin.Compose(s, t)
			if err != nil {
				found = append(found, Mismatch{Check: CheckRoundTrip, Detail: err.Error()})
				continue
			}
			if seen[k] {
				found = append(found, Mismatch{Check: CheckRoundTrip, Detail: fmt.Sprintf("kin %d composed twice", k)})
			}
			seen[k] = true
		}
	}
	r.record(CheckRoundTrip, kin.Seals*kin.Tones, found)
}

// sweepYear compares both resolver paths on every date of year and checks
// that each 13 Moon date converts back.
func (r *runner) sweepYear(year int) {
	res := kin.NewResolver(r.tables, kin.WithLeapCorrection(r.cfg.LeapCorrection))

	var dates, longDates []Mismatch
	checkedLong := 0
	end := model.Date{Year: year + 1, Month: 1, Day: 1}
	d := model.Date{Year: year, Month: 1, Day: 1}
	days := end.DaysSince(d)
	for ; d.Before(end); d = d.AddDays(1) {
		table, err := res.ResolveTable(d)
		arith, arithErr := res.ResolveArithmetic(d)
		switch {
		case arithErr != nil:
			dates = append(dates, Mismatch{Check: CheckDateSweep, Date: d, Detail: arithErr.Error()})
		case err != nil:
			dates = append(dates, Mismatch{Check: CheckDateSweep, Date: d, Detail: err.Error()})
		case table != arith:
			dates = append(dates, Mismatch{Check: CheckDateSweep, Date: d,
				Detail: fmt.Sprintf("table kin %d, arithmetic kin %d", table, arith)})
		}

		ld, err := longcal.FromDate(d)
		if err != nil {
			longDates = append(longDates, Mismatch{Check: CheckLongDate, Date: d, Detail: err.Error()})
			continue
		}
		if ld.IsSentinel() {
			continue
		}
		checkedLong++
		back, err := longcal.ToDate(ld.Year, ld.Moon, ld.Day)
		if err != nil || back != d {
			longDates = append(longDates, Mismatch{Check: CheckLongDate, Date: d,
				Detail: fmt.Sprintf("%s converts back to %s (%v)", ld, back, err)})
		}
	}
	r.record(CheckDateSweep, days, dates)
	r.record(CheckLongDate, checkedLong, longDates)
}
