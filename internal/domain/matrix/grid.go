// Package matrix holds the four 441-cell coordinate grids and the
// equivalent-KIN calculation that walks them.
//
// Source data may map several positions to the same value. Reverse lookups
// resolve such ties to the smallest position in (V, H) order so results never
// depend on row order.
package matrix

import (
	"fmt"
	"sort"

	"github.com/okian/tzolkin/internal/domain/kin"
)

// Name identifies a grid.
type Name string

// Grid names.
const (
	Time       Name = "time"
	Space      Name = "space"
	Synchronic Name = "synchronic"
	Base       Name = "base"
)

// Names lists the grids in their canonical order.
var Names = []Name{Time, Space, Synchronic, Base}

// MaxValue returns the largest value a grid may hold: 441 (BMU) for Base and
// 260 (KIN) for the others.
func (n Name) MaxValue() int {
	if n == Base {
		return Cells
	}
	return kin.Cycle
}

// Grid is an immutable position ↔ value table.
type Grid struct {
	name   Name
	values map[Position]int
	// index holds every position of a value in (V, H) order.
	index map[int][]Position
}

// NewGrid validates cells and builds the reverse index.
func NewGrid(name Name, cells map[Position]int) (*Grid, error) {
	switch name {
	case Time, Space, Synchronic, Base:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownGrid, name)
	}
	g := &Grid{
		name:   name,
		values: make(map[Position]int, len(cells)),
		index:  make(map[int][]Position),
	}
	for p, v := range cells {
		if !p.Valid() {
			return nil, fmt.Errorf("%s grid: %w: %s", name, ErrInvalidPosition, p)
		}
		if v < 1 || v > name.MaxValue() {
			return nil, fmt.Errorf("%s grid: %w: %d at %s", name, ErrInvalidValue, v, p)
		}
		g.values[p] = v
		g.index[v] = append(g.index[v], p)
	}
	for _, ps := range g.index {
		sort.Slice(ps, func(i, j int) bool { return ps[i].Less(ps[j]) })
	}
	return g, nil
}

// Name returns the grid name.
func (g *Grid) Name() Name { return g.name }

// Len returns the number of populated cells.
func (g *Grid) Len() int {
	if g == nil {
		return 0
	}
	return len(g.values)
}

// Cells returns a copy of the populated cells.
func (g *Grid) Cells() map[Position]int {
	out := make(map[Position]int, g.Len())
	if g == nil {
		return out
	}
	for p, v := range g.values {
		out[p] = v
	}
	return out
}

// ValueAt returns the value stored at p.
func (g *Grid) ValueAt(p Position) (int, bool) {
	if g == nil {
		return 0, false
	}
	v, ok := g.values[p]
	return v, ok
}

// PositionOf returns the smallest position holding v.
func (g *Grid) PositionOf(v int) (Position, bool) {
	return g.PositionOfWhere(v, nil)
}

// PositionOfWhere returns the smallest position holding v that keep accepts.
// A nil keep accepts every position.
func (g *Grid) PositionOfWhere(v int, keep func(Position) bool) (Position, bool) {
	if g == nil {
		return Position{}, false
	}
	for _, p := range g.index[v] {
		if keep == nil || keep(p) {
			return p, true
		}
	}
	return Position{}, false
}

// Duplicates returns every value held by more than one position.
func (g *Grid) Duplicates() map[int][]Position {
	out := make(map[int][]Position)
	if g == nil {
		return out
	}
	for v, ps := range g.index {
		if len(ps) > 1 {
			out[v] = append([]Position(nil), ps...)
		}
	}
	return out
}

// Set groups the four grids.
type Set struct {
	Time       *Grid
	Space      *Grid
	Synchronic *Grid
	Base       *Grid
}

// Grid returns the grid with the given name, or nil.
func (s Set) Grid(n Name) *Grid {
	switch n {
	case Time:
		return s.Time
	case Space:
		return s.Space
	case Synchronic:
		return s.Synchronic
	case Base:
		return s.Base
	default:
		return nil
	}
}

// Coordinates locates one KIN in the grids.
type Coordinates struct {
	Time       *Position `json:"time,omitempty"`
	Space      *Position `json:"space,omitempty"`
	Synchronic *Position `json:"synchronic,omitempty"`
	// BMU is the Base value at the Time position, 0 when unknown.
	BMU int `json:"bmu,omitempty"`
}

// Locate finds k in the Time, Space and Synchronic grids and reads the Base
// value at its Time position.
func Locate(s Set, k kin.Kin) Coordinates {
	var c Coordinates
	if p, ok := s.Time.PositionOf(int(k)); ok {
		c.Time = &p
		if bmu, ok := s.Base.ValueAt(p); ok {
			c.BMU = bmu
		}
	}
	if p, ok := s.Space.PositionOf(int(k)); ok {
		c.Space = &p
	}
	if p, ok := s.Synchronic.PositionOf(int(k)); ok {
		c.Synchronic = &p
	}
	return c
}
