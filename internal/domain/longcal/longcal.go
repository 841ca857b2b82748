// Package longcal converts Gregorian dates to the 13 Moon calendar: thirteen
// 28-day moons starting on July 26, followed by the Day Out of Time on
// July 25. Feb 29 stands outside the count as well.
package longcal

import (
	"fmt"

	"github.com/okian/tzolkin/internal/domain/kin"
	"github.com/okian/tzolkin/internal/domain/model"
)

// Calendar shape.
const (
	Moons       = 13
	DaysPerMoon = 28
	DaysPerWeek = 7

	newYearMonth = 7
	newYearDay   = 26
)

var plasmaNames = [DaysPerWeek]string{"Dali", "Seli", "Gamma", "Kali", "Alpha", "Limi", "Silio"}

// Kind tells regular days apart from the two days outside the count.
type Kind string

// Day kinds.
const (
	Regular      Kind = "regular"
	DayOutOfTime Kind = "day_out_of_time"
	LeapDay      Kind = "leap_day"
)

// sentinelKey is the table key shared by both days outside the count.
const sentinelKey = "0.0"

// LongDate is a date of the 13 Moon calendar. Week and Plasma are zero-based;
// Moon and Day are one-based. For sentinels only Kind and Year are set.
type LongDate struct {
	Kind Kind `json:"kind"`
	// Year is the Gregorian year in which this 13 Moon year began.
	Year   int `json:"year"`
	Moon   int `json:"moon,omitempty"`
	Day    int `json:"day,omitempty"`
	Week   int `json:"week"`
	Plasma int `json:"plasma"`
}

// IsSentinel reports whether the date is outside the moon count.
func (l LongDate) IsSentinel() bool { return l.Kind != Regular }

// Key is the "<moon>.<day>" form used to index date tables; both sentinels
// map to "0.0".
func (l LongDate) Key() string {
	if l.IsSentinel() {
		return sentinelKey
	}
	return fmt.Sprintf("%d.%d", l.Moon, l.Day)
}

// String renders the date for display.
func (l LongDate) String() string {
	switch l.Kind {
	case DayOutOfTime:
		return "Day Out of Time"
	case LeapDay:
		return "Leap Day"
	default:
		return fmt.Sprintf("%s Moon, day %d", l.MoonName(), l.Day)
	}
}

// MoonName names the moon after the tone of its index.
func (l LongDate) MoonName() string {
	if l.IsSentinel() {
		return ""
	}
	return kin.Tone(l.Moon).Name()
}

// WeekColor is the colour of the 7-day week within the moon.
func (l LongDate) WeekColor() kin.Color {
	if l.IsSentinel() {
		return ""
	}
	return kin.ColorAt(l.Week)
}

// PlasmaName names the day of the 7-day week.
func (l LongDate) PlasmaName() string {
	if l.IsSentinel() {
		return ""
	}
	return plasmaNames[l.Plasma]
}

// NewYear returns July 26 of year.
func NewYear(year int) model.Date {
	return model.Date{Year: year, Month: newYearMonth, Day: newYearDay}
}

// startYear returns the Gregorian year whose July 26 opens d's 13 Moon year.
func startYear(d model.Date) int {
	if d.Before(NewYear(d.Year)) {
		return d.Year - 1
	}
	return d.Year
}

// FromDate converts d. Invalid Gregorian dates fail with model.ErrInvalidDate.
func FromDate(d model.Date) (LongDate, error) {
	if _, err := model.NewDate(d.Year, d.Month, d.Day); err != nil {
		return LongDate{}, err
	}
	year := startYear(d)
	switch {
	case d.Month == 2 && d.Day == 29:
		return LongDate{Kind: LeapDay, Year: year}, nil
	case d.Month == newYearMonth && d.Day == newYearDay-1:
		return LongDate{Kind: DayOutOfTime, Year: year}, nil
	}

	delta := d.DaysSince(NewYear(year))
	// The anchor's following year may hold a Feb 29 that is not counted.
	if model.IsLeapYear(year+1) && d.Year == year+1 && d.Month > 2 {
		delta--
	}
	moon := delta/DaysPerMoon + 1
	if moon < 1 || moon > Moons {
		return LongDate{}, fmt.Errorf("%w: %s maps to moon %d", ErrOutOfCoverage, d, moon)
	}
	day := delta%DaysPerMoon + 1
	return LongDate{
		Kind:   Regular,
		Year:   year,
		Moon:   moon,
		Day:    day,
		Week:   (day - 1) / DaysPerWeek,
		Plasma: (day - 1) % DaysPerWeek,
	}, nil
}

// ToDate converts a regular 13 Moon date of the year starting July 26 of
// year back to its Gregorian date.
func ToDate(year, moon, day int) (model.Date, error) {
	if moon < 1 || moon > Moons || day < 1 || day > DaysPerMoon {
		return model.Date{}, fmt.Errorf("%w: moon %d day %d", ErrOutOfCoverage, moon, day)
	}
	d := NewYear(year).AddDays((moon-1)*DaysPerMoon + day - 1)
	if model.IsLeapYear(year+1) && !d.Before(model.Date{Year: year + 1, Month: 2, Day: 29}) {
		d = d.AddDays(1)
	}
	return d, nil
}
