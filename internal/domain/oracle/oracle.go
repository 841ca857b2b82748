// Package oracle derives the five-part oracle of a KIN.
//
// Every member keeps the destiny tone except the occult, whose tone mirrors
// it (14 - t). Seals are transformed as follows, all wrapped into 1..20:
//
//	analog   = 19 - s
//	antipode = s + 10
//	occult   = 21 - s
//	guide    = s + guideOffset[t mod 5]
package oracle

import (
	"fmt"

	"github.com/okian/tzolkin/internal/domain/kin"
)

// guideOffset is indexed by tone mod 5. The table is fixed domain knowledge:
//
//	tone 1, 6, 11 → +0
//	tone 2, 7, 12 → +12
//	tone 3, 8, 13 → +4
//	tone 4, 9     → +16
//	tone 5, 10    → +8
var guideOffset = [5]int{8, 0, 12, 4, 16}

// Pair is a (seal, tone) coordinate.
type Pair struct {
	Seal kin.Seal `json:"seal"`
	Tone kin.Tone `json:"tone"`
}

// Kin composes the pair back into a KIN.
func (p Pair) Kin() (kin.Kin, error) {
	return kin.Compose(p.Seal, p.Tone)
}

// Set is the oracle of one KIN. Destiny always equals the input.
type Set struct {
	Destiny  Pair `json:"destiny"`
	Analog   Pair `json:"analog"`
	Antipode Pair `json:"antipode"`
	Occult   Pair `json:"occult"`
	Guide    Pair `json:"guide"`
}

// Kins is an oracle expressed as KINs.
type Kins struct {
	Destiny  kin.Kin `json:"destiny"`
	Analog   kin.Kin `json:"analog"`
	Antipode kin.Kin `json:"antipode"`
	Occult   kin.Kin `json:"occult"`
	Guide    kin.Kin `json:"guide"`
}

// Sum adds the five KIN values.
func (k Kins) Sum() int {
	return int(k.Destiny) + int(k.Analog) + int(k.Antipode) + int(k.Occult) + int(k.Guide)
}

// Compute returns the oracle of k.
func Compute(k kin.Kin) (Set, error) {
	s, t, err := kin.Decompose(k)
	if err != nil {
		return Set{}, err
	}
	return Set{
		Destiny:  Pair{Seal: s, Tone: t},
		Analog:   Pair{Seal: kin.WrapSeal(19 - int(s)), Tone: t},
		Antipode: Pair{Seal: kin.WrapSeal(int(s) + 10), Tone: t},
		Occult:   Pair{Seal: kin.WrapSeal(21 - int(s)), Tone: kin.WrapTone(14 - int(t))},
		Guide:    Pair{Seal: kin.WrapSeal(int(s) + guideOffset[int(t)%5]), Tone: t},
	}, nil
}

// Kins converts every member to its KIN.
func (s Set) Kins() (Kins, error) {
	var out Kins
	members := []struct {
		name string
		pair Pair
		dst  *kin.Kin
	}{
		{"destiny", s.Destiny, &out.Destiny},
		{"analog", s.Analog, &out.Analog},
		{"antipode", s.Antipode, &out.Antipode},
		{"occult", s.Occult, &out.Occult},
		{"guide", s.Guide, &out.Guide},
	}
	for _, m := range members {
		k, err := m.pair.Kin()
		if err != nil {
			return Kins{}, fmt.Errorf("oracle %s: %w", m.name, err)
		}
		*m.dst = k
	}
	return out, nil
}

// ComputeKins is Compute followed by Kins. The destiny member must compose
// back to k; anything else is reported as kin.ErrInvariantViolation.
func ComputeKins(k kin.Kin) (Kins, error) {
	set, err := Compute(k)
	if err != nil {
		return Kins{}, err
	}
	out, err := set.Kins()
	if err != nil {
		return Kins{}, err
	}
	if out.Destiny != k {
		return Kins{}, fmt.Errorf("%w: destiny of %d composes to %d", kin.ErrInvariantViolation, k, out.Destiny)
	}
	return out, nil
}
