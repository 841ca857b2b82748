// Package castle computes the yearly KIN progression of a life.
//
// The birthday KIN advances by 105 every year. 105*52 ≡ 0 (mod 260), so the
// sequence returns to the birth KIN every 52 years; each 52-year round is
// split into four 13-year bands coloured Red, White, Blue, Yellow.
package castle

import (
	"fmt"

	"github.com/okian/tzolkin/internal/domain/kin"
	"github.com/okian/tzolkin/internal/domain/model"
)

// Progression constants.
const (
	YearStep  = 105
	Round     = 52
	BandYears = 13
)

// Entry is one year of the progression.
type Entry struct {
	Age   int       `json:"age"`
	Year  int       `json:"year"`
	Kin   kin.Kin   `json:"kin"`
	Color kin.Color `json:"color"`
	// Round is the 0-based 52-year round the age falls in.
	Round int `json:"round"`
}

// BandColor returns the colour band for an age.
func BandColor(age int) kin.Color {
	return kin.ColorAt(kin.Mod(age, Round) / BandYears)
}

// Progress returns years entries for ages 0..years-1, starting from the
// birth KIN. A non-positive years value yields an empty progression.
func Progress(birthKin kin.Kin, birth model.Date, years int) ([]Entry, error) {
	if !birthKin.Valid() {
		return nil, fmt.Errorf("%w: %d", kin.ErrInvalidKin, int(birthKin))
	}
	if years <= 0 {
		return []Entry{}, nil
	}
	out := make([]Entry, years)
	for age := range out {
		out[age] = Entry{
			Age:   age,
			Year:  birth.Year + age,
			Kin:   kin.Wrap(int(birthKin) + age*YearStep),
			Color: BandColor(age),
			Round: age / Round,
		}
	}
	return out, nil
}
