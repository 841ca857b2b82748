package kin

import "fmt"

var sealNames = [Seals + 1]string{
	"",
	"Dragon", "Wind", "Night", "Seed", "Serpent",
	"World-Bridger", "Hand", "Star", "Moon", "Dog",
	"Monkey", "Human", "Skywalker", "Wizard", "Eagle",
	"Warrior", "Earth", "Mirror", "Storm", "Sun",
}

var toneNames = [Tones + 1]string{
	"",
	"Magnetic", "Lunar", "Electric", "Self-Existing", "Overtone",
	"Rhythmic", "Resonant", "Galactic", "Solar", "Planetary",
	"Spectral", "Crystal", "Cosmic",
}

// Ordered, one per tone position of a wavespell.
var tonePrompts = [Tones + 1]string{
	"",
	"What is my purpose?",
	"What is my challenge?",
	"How can I best serve?",
	"What is the form of my service?",
	"How can I best empower myself?",
	"How can I extend my equality to others?",
	"How can I attune my service to others?",
	"Do I live what I believe?",
	"How do I attain my purpose?",
	"How do I perfect what I do?",
	"How do I release and let go?",
	"How can I dedicate myself to all that lives?",
	"How can I expand my joy and love?",
}

// Color is the family colour shared by every fourth seal.
type Color string

// Seal colours in seal order.
const (
	Red    Color = "Red"
	White  Color = "White"
	Blue   Color = "Blue"
	Yellow Color = "Yellow"
)

var colors = [4]Color{Red, White, Blue, Yellow}

// Valid reports whether c is one of the four colours.
func (c Color) Valid() bool {
	for _, known := range colors {
		if c == known {
			return true
		}
	}
	return false
}

// ColorAt returns the colour for a zero-based index, cycling every four.
func ColorAt(i int) Color { return colors[Mod(i, len(colors))] }

// Name returns the seal's English name, or "" when invalid.
func (s Seal) Name() string {
	if !s.Valid() {
		return ""
	}
	return sealNames[s]
}

// Color returns the seal's colour.
func (s Seal) Color() Color { return ColorAt(int(s) - 1) }

// Name returns the tone's English name, or "" when invalid.
func (t Tone) Name() string {
	if !t.Valid() {
		return ""
	}
	return toneNames[t]
}

// Prompt returns the fixed question associated with the tone.
func (t Tone) Prompt() string {
	if !t.Valid() {
		return ""
	}
	return tonePrompts[t]
}

// Info is the descriptive view of one KIN.
type Info struct {
	Kin       Kin    `json:"kin"`
	Seal      Seal   `json:"seal"`
	Tone      Tone   `json:"tone"`
	SealName  string `json:"seal_name"`
	ToneName  string `json:"tone_name"`
	Color     Color  `json:"color"`
	Wavespell int    `json:"wavespell"`
	Name      string `json:"name"`
}

// Describe returns naming and grouping details for k.
func Describe(k Kin) (Info, error) {
	s, t, err := Decompose(k)
	if err != nil {
		return Info{}, err
	}
	return Info{
		Kin:       k,
		Seal:      s,
		Tone:      t,
		SealName:  s.Name(),
		ToneName:  t.Name(),
		Color:     s.Color(),
		Wavespell: k.Wavespell(),
		Name:      fmt.Sprintf("%s %s %s", s.Color(), t.Name(), s.Name()),
	}, nil
}
