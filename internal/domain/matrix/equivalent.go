package matrix

import (
	"fmt"

	"github.com/okian/tzolkin/internal/domain/kin"
	"github.com/okian/tzolkin/internal/domain/longcal"
)

// The Synchronic step only accepts positions whose V lies in this band.
const (
	SynchronicMinV = 5
	SynchronicMaxV = 17
)

// DatePositions maps a 13 Moon date key to a Time grid position.
type DatePositions interface {
	TimePosition(key string) (Position, bool)
}

// Step is one of the three traversals of the equivalent-KIN calculation.
type Step struct {
	// Position is nil when the step could not be placed.
	Position *Position `json:"position,omitempty"`
	// Values holds the Time, Space and Synchronic terms in that order.
	Values [3]int `json:"values"`
	Sum    int    `json:"sum"`
}

// EquivalentResult keeps every intermediate of the calculation.
type EquivalentResult struct {
	Steps    [3]Step  `json:"steps"`
	Total    int      `json:"total"`
	Final    kin.Kin  `json:"final"`
	Warnings []string `json:"warnings,omitempty"`
}

// Sums returns the three partial sums.
func (r EquivalentResult) Sums() [3]int {
	return [3]int{r.Steps[0].Sum, r.Steps[1].Sum, r.Steps[2].Sum}
}

// Complete reports whether every step found its position and all terms.
func (r EquivalentResult) Complete() bool { return len(r.Warnings) == 0 }

// Equivalent computes the equivalent KIN of k on date ld.
//
//  1. the date's Time position; sum of Time, Space and Synchronic there
//  2. k's Space position; Time there + k + Synchronic there
//  3. k's Synchronic position with V in 5..17; Time there + Space there + k
//
// The final KIN is the total of the three sums on the cycle. A step that
// cannot be placed, or a missing term, contributes 0 and adds a warning.
func Equivalent(s Set, dates DatePositions, k kin.Kin, ld longcal.LongDate) (EquivalentResult, error) {
	if !k.Valid() {
		return EquivalentResult{}, fmt.Errorf("%w: %d", kin.ErrInvalidKin, int(k))
	}
	var r EquivalentResult
	warn := func(format string, args ...any) {
		r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
	}
	term := func(step int, g *Grid, p Position) int {
		v, ok := g.ValueAt(p)
		if !ok {
			warn("step %d: no %s value at %s", step, gridName(g), p)
		}
		return v
	}

	// Step 1: seeded by the calendar date.
	var pos1 Position
	ok := false
	if dates != nil {
		pos1, ok = dates.TimePosition(ld.Key())
	}
	if ok {
		r.Steps[0] = Step{Position: &pos1, Values: [3]int{
			term(1, s.Time, pos1),
			term(1, s.Space, pos1),
			term(1, s.Synchronic, pos1),
		}}
	} else {
		warn("step 1: no time position for date %s", ld.Key())
	}

	// Step 2: k through the Space grid.
	if pos2, ok := s.Space.PositionOf(int(k)); ok {
		r.Steps[1] = Step{Position: &pos2, Values: [3]int{
			term(2, s.Time, pos2),
			int(k),
			term(2, s.Synchronic, pos2),
		}}
	} else {
		warn("step 2: kin %d not found in %s grid", k, Space)
	}

	// Step 3: k through the Synchronic grid, restricted to the V band.
	inBand := func(p Position) bool { return p.V >= SynchronicMinV && p.V <= SynchronicMaxV }
	if pos3, ok := s.Synchronic.PositionOfWhere(int(k), inBand); ok {
		r.Steps[2] = Step{Position: &pos3, Values: [3]int{
			term(3, s.Time, pos3),
			term(3, s.Space, pos3),
			int(k),
		}}
	} else {
		warn("step 3: kin %d not found in %s grid within V%d..V%d", k, Synchronic, SynchronicMinV, SynchronicMaxV)
	}

	for i := range r.Steps {
		st := &r.Steps[i]
		st.Sum = st.Values[0] + st.Values[1] + st.Values[2]
		r.Total += st.Sum
	}
	r.Final = kin.Wrap(r.Total)
	return r, nil
}

func gridName(g *Grid) Name {
	if g == nil {
		return "missing"
	}
	return g.name
}
