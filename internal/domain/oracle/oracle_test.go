package oracle_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/okian/tzolkin/internal/domain/kin"
	"github.com/okian/tzolkin/internal/domain/oracle"
	. "github.com/smartystreets/goconvey/convey"
)

func TestCompute(t *testing.T) {
	Convey("Given every KIN of the cycle", t, func() {
		Convey("Then destiny decomposes back to the input", func() {
			for n := 1; n <= kin.Cycle; n++ {
				out, err := oracle.ComputeKins(kin.Kin(n))
				So(err, ShouldBeNil)
				So(out.Destiny, ShouldEqual, kin.Kin(n))
			}
		})

		Convey("Then every member stays in range", func() {
			for n := 1; n <= kin.Cycle; n++ {
				set, err := oracle.Compute(kin.Kin(n))
				So(err, ShouldBeNil)
				for _, p := range []oracle.Pair{set.Destiny, set.Analog, set.Antipode, set.Occult, set.Guide} {
					So(p.Seal.Valid(), ShouldBeTrue)
					So(p.Tone.Valid(), ShouldBeTrue)
				}
			}
		})

		Convey("Then analog, antipode and guide keep the destiny tone", func() {
			for n := 1; n <= kin.Cycle; n++ {
				set, _ := oracle.Compute(kin.Kin(n))
				So(set.Analog.Tone, ShouldEqual, set.Destiny.Tone)
				So(set.Antipode.Tone, ShouldEqual, set.Destiny.Tone)
				So(set.Guide.Tone, ShouldEqual, set.Destiny.Tone)
				So(int(set.Occult.Tone)+int(set.Destiny.Tone), ShouldEqual, 14)
			}
		})
	})

	Convey("Given KIN 1 (seal 1, tone 1)", t, func() {
		set, err := oracle.Compute(1)

		Convey("Then the oracle matches the known layout", func() {
			So(err, ShouldBeNil)
			want := oracle.Set{
				Destiny:  oracle.Pair{Seal: 1, Tone: 1},
				Analog:   oracle.Pair{Seal: 18, Tone: 1},
				Antipode: oracle.Pair{Seal: 11, Tone: 1},
				Occult:   oracle.Pair{Seal: 20, Tone: 13},
				Guide:    oracle.Pair{Seal: 1, Tone: 1},
			}
			So(cmp.Diff(want, set), ShouldBeEmpty)
		})

		Convey("Then the occult of KIN 1 is KIN 260", func() {
			out, err := set.Kins()
			So(err, ShouldBeNil)
			So(out.Occult, ShouldEqual, kin.Kin(260))
		})
	})

	Convey("Given seals at the wrap boundaries", t, func() {
		Convey("When the seal is 19 the analog wraps to 20", func() {
			k, _ := kin.Compose(19, 1)
			set, _ := oracle.Compute(k)
			So(set.Analog.Seal, ShouldEqual, kin.Seal(20))
		})

		Convey("When the seal is 20 the analog is 19", func() {
			k, _ := kin.Compose(20, 1)
			set, _ := oracle.Compute(k)
			So(set.Analog.Seal, ShouldEqual, kin.Seal(19))
		})

		Convey("When the seal is 10 the antipode wraps to 20", func() {
			k, _ := kin.Compose(10, 1)
			set, _ := oracle.Compute(k)
			So(set.Antipode.Seal, ShouldEqual, kin.Seal(20))
		})
	})

	Convey("Given the guide offset table", t, func() {
		cases := []struct {
			tone   kin.Tone
			offset int
		}{
			{1, 0}, {6, 0}, {11, 0},
			{2, 12}, {7, 12}, {12, 12},
			{3, 4}, {8, 4}, {13, 4},
			{4, 16}, {9, 16},
			{5, 8}, {10, 8},
		}
		for _, tc := range cases {
			k, err := kin.Compose(5, tc.tone)
			So(err, ShouldBeNil)
			set, _ := oracle.Compute(k)
			So(set.Guide.Seal, ShouldEqual, kin.WrapSeal(5+tc.offset))
		}
	})

	Convey("Given an invalid KIN", t, func() {
		_, err := oracle.Compute(0)
		So(errors.Is(err, kin.ErrInvalidKin), ShouldBeTrue)
	})
}
