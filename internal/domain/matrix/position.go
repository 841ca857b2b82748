package matrix

import (
	"fmt"
	"strconv"
	"strings"
)

// Side is the number of rows and columns of every grid.
const Side = 21

// Cells is the number of cells of every grid.
const Cells = Side * Side

// Position is a cell coordinate written "V<v>:H<h>", both 1..21. V is the
// primary coordinate. It encodes as that text in JSON and YAML.
type Position struct {
	V int
	H int
}

// Valid reports whether both coordinates are within 1..21.
func (p Position) Valid() bool {
	return p.V >= 1 && p.V <= Side && p.H >= 1 && p.H <= Side
}

// String formats the position as "V5:H11".
func (p Position) String() string {
	return fmt.Sprintf("V%d:H%d", p.V, p.H)
}

// Less orders positions by V then H.
func (p Position) Less(o Position) bool {
	if p.V != o.V {
		return p.V < o.V
	}
	return p.H < o.H
}

// MarshalText implements encoding.TextMarshaler.
func (p Position) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Position) UnmarshalText(b []byte) error {
	parsed, err := ParsePosition(string(b))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// ParsePosition parses "V5:H11". Surrounding spaces and lower-case letters
// are accepted.
func ParsePosition(s string) (Position, error) {
	v, h, ok := strings.Cut(strings.ToUpper(strings.TrimSpace(s)), ":")
	if !ok || !strings.HasPrefix(v, "V") || !strings.HasPrefix(h, "H") {
		return Position{}, fmt.Errorf("%w: %q", ErrInvalidPosition, s)
	}
	vn, errV := strconv.Atoi(strings.TrimSpace(v[1:]))
	hn, errH := strconv.Atoi(strings.TrimSpace(h[1:]))
	p := Position{V: vn, H: hn}
	if errV != nil || errH != nil || !p.Valid() {
		return Position{}, fmt.Errorf("%w: %q", ErrInvalidPosition, s)
	}
	return p, nil
}
