package matrix_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/okian/tzolkin/internal/domain/kin"
	"github.com/okian/tzolkin/internal/domain/longcal"
	"github.com/okian/tzolkin/internal/domain/matrix"
	"github.com/okian/tzolkin/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func pos(s string) matrix.Position {
	p, err := matrix.ParsePosition(s)
	if err != nil {
		panic(err)
	}
	return p
}

func grid(name matrix.Name, cells map[string]int) *matrix.Grid {
	m := make(map[matrix.Position]int, len(cells))
	for k, v := range cells {
		m[pos(k)] = v
	}
	g, err := matrix.NewGrid(name, m)
	if err != nil {
		panic(err)
	}
	return g
}

type datePositions map[string]matrix.Position

func (d datePositions) TimePosition(key string) (matrix.Position, bool) {
	p, ok := d[key]
	return p, ok
}

func fixtureSet() matrix.Set {
	return matrix.Set{
		Time:       grid(matrix.Time, map[string]int{"V1:H1": 10, "V6:H2": 20, "V3:H3": 30, "V10:H4": 40}),
		Space:      grid(matrix.Space, map[string]int{"V1:H1": 11, "V6:H2": 7, "V3:H3": 31, "V10:H4": 50}),
		Synchronic: grid(matrix.Synchronic, map[string]int{"V1:H1": 12, "V6:H2": 22, "V3:H3": 7, "V10:H4": 7}),
		Base:       grid(matrix.Base, map[string]int{"V1:H1": 1, "V6:H2": 400, "V10:H4": 441}),
	}
}

func TestPosition(t *testing.T) {
	Convey("Given position strings", t, func() {
		Convey("When they are well formed", func() {
			p, err := matrix.ParsePosition(" v5:h11 ")
			So(err, ShouldBeNil)
			So(p, ShouldResemble, matrix.Position{V: 5, H: 11})
			So(p.String(), ShouldEqual, "V5:H11")
		})

		Convey("When they are malformed or out of range", func() {
			for _, s := range []string{"", "V5", "H5:V5", "V0:H1", "V22:H1", "Vx:H1", "V1:H22"} {
				_, err := matrix.ParsePosition(s)
				So(errors.Is(err, matrix.ErrInvalidPosition), ShouldBeTrue)
			}
		})

		Convey("When encoding to JSON", func() {
			data, err := json.Marshal(struct {
				At matrix.Position `json:"at"`
			}{pos("V5:H11")})
			So(err, ShouldBeNil)
			So(string(data), ShouldEqual, `{"at":"V5:H11"}`)

			var back matrix.Position
			So(json.Unmarshal([]byte(`"v2:h3"`), &back), ShouldBeNil)
			So(back, ShouldResemble, pos("V2:H3"))
		})

		Convey("When ordering positions", func() {
			So(pos("V2:H9").Less(pos("V10:H1")), ShouldBeTrue)
			So(pos("V2:H1").Less(pos("V2:H3")), ShouldBeTrue)
			So(pos("V2:H3").Less(pos("V2:H3")), ShouldBeFalse)
		})
	})
}

func TestGrid(t *testing.T) {
	Convey("Given a grid with duplicate values", t, func() {
		g := grid(matrix.Synchronic, map[string]int{"V9:H1": 7, "V3:H3": 7, "V3:H2": 7, "V1:H1": 8})

		Convey("Then reverse lookups pick the smallest position", func() {
			p, ok := g.PositionOf(7)
			So(ok, ShouldBeTrue)
			So(p, ShouldResemble, pos("V3:H2"))
		})

		Convey("Then filtered lookups skip rejected positions", func() {
			p, ok := g.PositionOfWhere(7, func(p matrix.Position) bool { return p.V >= 5 })
			So(ok, ShouldBeTrue)
			So(p, ShouldResemble, pos("V9:H1"))

			_, ok = g.PositionOfWhere(8, func(p matrix.Position) bool { return p.V >= 5 })
			So(ok, ShouldBeFalse)
		})

		Convey("Then duplicates are reported in order", func() {
			dups := g.Duplicates()
			So(len(dups), ShouldEqual, 1)
			So(dups[7], ShouldResemble, []matrix.Position{pos("V3:H2"), pos("V3:H3"), pos("V9:H1")})
		})

		Convey("Then forward lookups read cells", func() {
			v, ok := g.ValueAt(pos("V1:H1"))
			So(ok, ShouldBeTrue)
			So(v, ShouldEqual, 8)
			_, ok = g.ValueAt(pos("V21:H21"))
			So(ok, ShouldBeFalse)
			So(g.Len(), ShouldEqual, 4)
		})
	})

	Convey("Given invalid grid input", t, func() {
		_, errValue := matrix.NewGrid(matrix.Time, map[matrix.Position]int{{V: 1, H: 1}: 261})
		_, errBase := matrix.NewGrid(matrix.Base, map[matrix.Position]int{{V: 1, H: 1}: 441})
		_, errPos := matrix.NewGrid(matrix.Space, map[matrix.Position]int{{V: 0, H: 1}: 1})
		_, errName := matrix.NewGrid("other", nil)

		So(errors.Is(errValue, matrix.ErrInvalidValue), ShouldBeTrue)
		So(errBase, ShouldBeNil)
		So(errors.Is(errPos, matrix.ErrInvalidPosition), ShouldBeTrue)
		So(errors.Is(errName, matrix.ErrUnknownGrid), ShouldBeTrue)
	})

	Convey("Given a nil grid", t, func() {
		var g *matrix.Grid
		_, ok := g.ValueAt(pos("V1:H1"))
		So(ok, ShouldBeFalse)
		_, ok = g.PositionOf(1)
		So(ok, ShouldBeFalse)
		So(g.Len(), ShouldEqual, 0)
	})
}

func TestLocate(t *testing.T) {
	Convey("Given the fixture grids", t, func() {
		set := fixtureSet()

		Convey("When locating KIN 20", func() {
			c := matrix.Locate(set, 20)

			Convey("Then the Time position and BMU are found", func() {
				So(*c.Time, ShouldResemble, pos("V6:H2"))
				So(c.BMU, ShouldEqual, 400)
				So(c.Space, ShouldBeNil)
				So(c.Synchronic, ShouldBeNil)
			})
		})

		Convey("When locating KIN 7", func() {
			c := matrix.Locate(set, 7)
			So(c.Time, ShouldBeNil)
			So(*c.Space, ShouldResemble, pos("V6:H2"))
			So(*c.Synchronic, ShouldResemble, pos("V3:H3"))
		})
	})
}

func TestEquivalent(t *testing.T) {
	ld, _ := longcal.FromDate(model.MustDate(2023, 7, 26))

	Convey("Given complete fixture data", t, func() {
		set := fixtureSet()
		dates := datePositions{"1.1": pos("V1:H1")}

		Convey("When computing the equivalent KIN of 7", func() {
			r, err := matrix.Equivalent(set, dates, 7, ld)

			Convey("Then every step is traced", func() {
				So(err, ShouldBeNil)
				So(r.Complete(), ShouldBeTrue)
				So(r.Sums(), ShouldResemble, [3]int{33, 49, 97})
				So(*r.Steps[0].Position, ShouldResemble, pos("V1:H1"))
				So(*r.Steps[1].Position, ShouldResemble, pos("V6:H2"))
				So(r.Steps[1].Values, ShouldResemble, [3]int{20, 7, 22})
				So(r.Total, ShouldEqual, 179)
				So(r.Final, ShouldEqual, kin.Kin(179))
			})

			Convey("Then step 3 skips Synchronic positions outside V5..V17", func() {
				So(*r.Steps[2].Position, ShouldResemble, pos("V10:H4"))
				So(r.Steps[2].Values, ShouldResemble, [3]int{40, 50, 7})
			})
		})
	})

	Convey("Given no date table", t, func() {
		r, err := matrix.Equivalent(fixtureSet(), nil, 7, ld)

		Convey("Then step 1 contributes 0 with a warning", func() {
			So(err, ShouldBeNil)
			So(r.Complete(), ShouldBeFalse)
			So(r.Steps[0].Position, ShouldBeNil)
			So(r.Sums(), ShouldResemble, [3]int{0, 49, 97})
			So(r.Final, ShouldEqual, kin.Kin(146))
			So(r.Warnings[0], ShouldContainSubstring, "step 1")
		})
	})

	Convey("Given a KIN with no in-band Synchronic position", t, func() {
		set := fixtureSet()
		r, err := matrix.Equivalent(set, datePositions{}, 12, ld)

		Convey("Then the missing steps are reported and the rest still sums", func() {
			So(err, ShouldBeNil)
			So(len(r.Warnings), ShouldEqual, 3)
			So(r.Total, ShouldEqual, 0)
			So(r.Final, ShouldEqual, kin.Kin(260))
		})
	})

	Convey("Given an invalid KIN", t, func() {
		_, err := matrix.Equivalent(fixtureSet(), nil, 0, ld)
		So(errors.Is(err, kin.ErrInvalidKin), ShouldBeTrue)
	})
}
