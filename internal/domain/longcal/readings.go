package longcal

import "github.com/okian/tzolkin/internal/domain/kin"

// Texts serves the sentences attached to weeks and plasma days.
type Texts interface {
	WeekKey(week kin.Color) (string, bool)
	HeptadPrayer(plasma string) (string, bool)
}

// Readings are the texts of one date. A nil field means the table has no
// row for it; days outside the moon count have neither.
type Readings struct {
	WeekKey      *string `json:"week_key,omitempty"`
	HeptadPrayer *string `json:"heptad_prayer,omitempty"`
}

// IsPlasma reports whether name is one of the seven plasma days.
func IsPlasma(name string) bool {
	for _, p := range plasmaNames {
		if p == name {
			return true
		}
	}
	return false
}

// LookupReadings reads the week key sentence by week colour and the heptad
// prayer by plasma day.
func LookupReadings(t Texts, l LongDate) Readings {
	var r Readings
	if t == nil || l.IsSentinel() {
		return r
	}
	if s, ok := t.WeekKey(l.WeekColor()); ok {
		r.WeekKey = &s
	}
	if s, ok := t.HeptadPrayer(l.PlasmaName()); ok {
		r.HeptadPrayer = &s
	}
	return r
}
