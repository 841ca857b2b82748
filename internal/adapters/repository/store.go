// Package repository loads the read-only calendar tables the engine runs on
// and serves them as typed in-memory lookups.
//
// Tables are built once and never mutated. Reloading means building a new
// *Tables and swapping the reference.
package repository

import (
	"fmt"
	"sort"

	"github.com/okian/tzolkin/internal/domain/kin"
	"github.com/okian/tzolkin/internal/domain/longcal"
	"github.com/okian/tzolkin/internal/domain/matrix"
	"github.com/okian/tzolkin/internal/domain/secondary"
)

// Table names, used in errors, logs and metrics.
const (
	TableYearStart   = "year_start"
	TableMonthOffset = "month_offset"
	TablePsi         = "psi_bank"
	TableDateMatrix  = "date_matrix"
	TableMatrixCell  = "matrix_cell"
	TableWeekKey     = "week_key"
	TableHeptad      = "heptad_prayer"
)

// MonthDay keys the PSI bank.
type MonthDay struct {
	Month int
	Day   int
}

// Source is the raw content of every table, as produced by a loader.
type Source struct {
	YearStart     map[int]int
	MonthOffset   map[int]int
	Psi           map[MonthDay]secondary.PsiRow
	Grids         map[matrix.Name]map[matrix.Position]int
	DatePositions map[string]matrix.Position
	// WeekKeys holds the key sentence of each week colour.
	WeekKeys map[kin.Color]string
	// HeptadPrayers holds the prayer of each plasma day.
	HeptadPrayers map[string]string
}

// Tables is an immutable snapshot of the calendar tables.
type Tables struct {
	yearStart     map[int]int
	monthOffset   map[int]int
	psi           map[MonthDay]secondary.PsiRow
	grids         matrix.Set
	datePositions map[string]matrix.Position
	weekKeys      map[kin.Color]string
	heptadPrayers map[string]string
}

// New validates src and builds a snapshot. The maps of src are copied.
func New(src Source, opts ...Option) (*Tables, error) {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	t := &Tables{
		yearStart:     make(map[int]int, len(src.YearStart)),
		monthOffset:   make(map[int]int, len(src.MonthOffset)),
		psi:           make(map[MonthDay]secondary.PsiRow, len(src.Psi)),
		datePositions: make(map[string]matrix.Position, len(src.DatePositions)),
		weekKeys:      make(map[kin.Color]string, len(src.WeekKeys)),
		heptadPrayers: make(map[string]string, len(src.HeptadPrayers)),
	}
	for y, v := range src.YearStart {
		t.yearStart[y] = v
	}
	for m, v := range src.MonthOffset {
		if m < 1 || m > 12 {
			return nil, fmt.Errorf("%w: %s month %d", ErrInvalidTable, TableMonthOffset, m)
		}
		t.monthOffset[m] = v
	}
	for md, row := range src.Psi {
		if md.Month < 1 || md.Month > 12 || md.Day < 1 || md.Day > 31 {
			return nil, fmt.Errorf("%w: %s key %d/%d", ErrInvalidTable, TablePsi, md.Month, md.Day)
		}
		if row.Kin < 1 || row.Kin > 260 {
			return nil, fmt.Errorf("%w: %s %d/%d kin %d", ErrInvalidTable, TablePsi, md.Month, md.Day, row.Kin)
		}
		t.psi[md] = row
	}
	for key, p := range src.DatePositions {
		if !p.Valid() {
			return nil, fmt.Errorf("%w: %s %q position %s", ErrInvalidTable, TableDateMatrix, key, p)
		}
		t.datePositions[key] = p
	}
	for c, text := range src.WeekKeys {
		if !c.Valid() {
			return nil, fmt.Errorf("%w: %s week %q", ErrInvalidTable, TableWeekKey, c)
		}
		t.weekKeys[c] = text
	}
	for plasma, text := range src.HeptadPrayers {
		if !longcal.IsPlasma(plasma) {
			return nil, fmt.Errorf("%w: %s plasma %q", ErrInvalidTable, TableHeptad, plasma)
		}
		t.heptadPrayers[plasma] = text
	}

	for name, cells := range src.Grids {
		g, err := matrix.NewGrid(name, cells)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidTable, err)
		}
		if o.strictMatrix {
			if dups := g.Duplicates(); len(dups) > 0 {
				return nil, fmt.Errorf("%w: %s grid maps %d values to several positions", ErrAmbiguousMatrix, name, len(dups))
			}
		}
		switch name {
		case matrix.Time:
			t.grids.Time = g
		case matrix.Space:
			t.grids.Space = g
		case matrix.Synchronic:
			t.grids.Synchronic = g
		case matrix.Base:
			t.grids.Base = g
		}
	}
	return t, nil
}

// Empty returns a snapshot without any rows.
func Empty() *Tables {
	t, _ := New(Source{})
	return t
}

// YearStartKin implements kin.Tables.
func (t *Tables) YearStartKin(year int) (int, bool) {
	v, ok := t.yearStart[year]
	return v, ok
}

// MonthOffset implements kin.Tables.
func (t *Tables) MonthOffset(month int) (int, bool) {
	v, ok := t.monthOffset[month]
	return v, ok
}

// Psi implements secondary.PsiTable.
func (t *Tables) Psi(month, day int) (secondary.PsiRow, bool) {
	row, ok := t.psi[MonthDay{Month: month, Day: day}]
	return row, ok
}

// TimePosition implements matrix.DatePositions.
func (t *Tables) TimePosition(key string) (matrix.Position, bool) {
	p, ok := t.datePositions[key]
	return p, ok
}

// WeekKey implements longcal.Texts.
func (t *Tables) WeekKey(week kin.Color) (string, bool) {
	s, ok := t.weekKeys[week]
	return s, ok
}

// HeptadPrayer implements longcal.Texts.
func (t *Tables) HeptadPrayer(plasma string) (string, bool) {
	s, ok := t.heptadPrayers[plasma]
	return s, ok
}

// TimePositionFor looks up the Time position of a 13 Moon date.
func (t *Tables) TimePositionFor(ld longcal.LongDate) (matrix.Position, bool) {
	return t.TimePosition(ld.Key())
}

// Matrix returns the grids. Absent grids are nil.
func (t *Tables) Matrix() matrix.Set { return t.grids }

// YearRange returns the smallest and largest covered year.
func (t *Tables) YearRange() (from, to int, ok bool) {
	if len(t.yearStart) == 0 {
		return 0, 0, false
	}
	years := t.Years()
	return years[0], years[len(years)-1], true
}

// Years lists covered years in ascending order.
func (t *Tables) Years() []int {
	years := make([]int, 0, len(t.yearStart))
	for y := range t.yearStart {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}

// Counts returns the number of rows per table; grid cells are reported per
// grid as "matrix_<name>".
func (t *Tables) Counts() map[string]int {
	counts := map[string]int{
		TableYearStart:   len(t.yearStart),
		TableMonthOffset: len(t.monthOffset),
		TablePsi:         len(t.psi),
		TableDateMatrix:  len(t.datePositions),
		TableWeekKey:     len(t.weekKeys),
		TableHeptad:      len(t.heptadPrayers),
	}
	for _, n := range matrix.Names {
		counts["matrix_"+string(n)] = t.grids.Grid(n).Len()
	}
	return counts
}

// Duplicates returns, per grid, the values held by more than one position.
func (t *Tables) Duplicates() map[matrix.Name]map[int][]matrix.Position {
	out := make(map[matrix.Name]map[int][]matrix.Position)
	for _, n := range matrix.Names {
		if dups := t.grids.Grid(n).Duplicates(); len(dups) > 0 {
			out[n] = dups
		}
	}
	return out
}

// Source returns a copy of the snapshot's raw content.
func (t *Tables) Source() Source {
	src := Source{
		YearStart:     make(map[int]int, len(t.yearStart)),
		MonthOffset:   make(map[int]int, len(t.monthOffset)),
		Psi:           make(map[MonthDay]secondary.PsiRow, len(t.psi)),
		Grids:         make(map[matrix.Name]map[matrix.Position]int),
		DatePositions: make(map[string]matrix.Position, len(t.datePositions)),
		WeekKeys:      make(map[kin.Color]string, len(t.weekKeys)),
		HeptadPrayers: make(map[string]string, len(t.heptadPrayers)),
	}
	for k, v := range t.yearStart {
		src.YearStart[k] = v
	}
	for k, v := range t.monthOffset {
		src.MonthOffset[k] = v
	}
	for k, v := range t.psi {
		src.Psi[k] = v
	}
	for k, v := range t.datePositions {
		src.DatePositions[k] = v
	}
	for k, v := range t.weekKeys {
		src.WeekKeys[k] = v
	}
	for k, v := range t.heptadPrayers {
		src.HeptadPrayers[k] = v
	}
	for _, n := range matrix.Names {
		g := t.grids.Grid(n)
		if g == nil {
			continue
		}
		src.Grids[n] = g.Cells()
	}
	return src
}
