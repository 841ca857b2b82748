// Package wavespell expands a KIN into the 13-day block it belongs to.
package wavespell

import (
	"github.com/okian/tzolkin/internal/domain/kin"
)

// Entry is one day of a wavespell.
type Entry struct {
	Position int     `json:"position"`
	Kin      kin.Kin `json:"kin"`
	Prompt   string  `json:"prompt"`
}

// Wavespell is the ordered 13-day block. Position 1 is always tone 1.
type Wavespell struct {
	Index   int              `json:"index"`
	Entries [kin.Tones]Entry `json:"entries"`
}

// Start returns the magnetic (tone 1) KIN of the block containing k.
func Start(k kin.Kin) kin.Kin {
	return kin.Wrap(int(k) - (int(k.Tone()) - 1))
}

// Generate returns the wavespell containing k.
func Generate(k kin.Kin) (Wavespell, error) {
	if _, err := kin.New(int(k)); err != nil {
		return Wavespell{}, err
	}
	start := Start(k)
	w := Wavespell{Index: start.Wavespell()}
	for i := range w.Entries {
		pos := i + 1
		w.Entries[i] = Entry{
			Position: pos,
			Kin:      kin.Wrap(int(start) + i),
			Prompt:   kin.Tone(pos).Prompt(),
		}
	}
	return w, nil
}

// Kins lists the block's KINs in position order.
func (w Wavespell) Kins() []kin.Kin {
	out := make([]kin.Kin, len(w.Entries))
	for i, e := range w.Entries {
		out[i] = e.Kin
	}
	return out
}
