package model_test

import (
	"errors"
	"testing"

	model "github.com/okian/tzolkin/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestDate(t *testing.T) {
	convey.Convey("Given civil dates", t, func() {
		convey.Convey("When constructing a valid date", func() {
			d, err := model.NewDate(2023, 7, 26)

			convey.Convey("Then it should keep its fields", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(d.Year, convey.ShouldEqual, 2023)
				convey.So(d.Month, convey.ShouldEqual, 7)
				convey.So(d.Day, convey.ShouldEqual, 26)
				convey.So(d.String(), convey.ShouldEqual, "2023-07-26")
			})
		})

		convey.Convey("When constructing Feb 29", func() {
			_, leapErr := model.NewDate(2024, 2, 29)
			_, commonErr := model.NewDate(2023, 2, 29)

			convey.Convey("Then only leap years accept it", func() {
				convey.So(leapErr, convey.ShouldBeNil)
				convey.So(errors.Is(commonErr, model.ErrInvalidDate), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When constructing impossible dates", func() {
			for _, tc := range [][3]int{{2023, 0, 1}, {2023, 13, 1}, {2023, 4, 31}, {2023, 1, 0}} {
				_, err := model.NewDate(tc[0], tc[1], tc[2])
				convey.So(errors.Is(err, model.ErrInvalidDate), convey.ShouldBeTrue)
			}
		})

		convey.Convey("When parsing strings", func() {
			d, err := model.ParseDate("1990-01-01")
			_, badErr := model.ParseDate("1990-02-30")

			convey.Convey("Then valid input parses and invalid input fails", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(d, convey.ShouldResemble, model.MustDate(1990, 1, 1))
				convey.So(errors.Is(badErr, model.ErrInvalidDate), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When doing day arithmetic", func() {
			anchor := model.MustDate(2023, 7, 26)

			convey.So(model.MustDate(2023, 7, 27).DaysSince(anchor), convey.ShouldEqual, 1)
			convey.So(model.MustDate(2023, 7, 25).DaysSince(anchor), convey.ShouldEqual, -1)
			convey.So(model.MustDate(2024, 7, 26).DaysSince(anchor), convey.ShouldEqual, 366)
			convey.So(anchor.AddDays(-365), convey.ShouldResemble, model.MustDate(2022, 7, 26))
			convey.So(model.MustDate(2024, 2, 28).AddDays(1), convey.ShouldResemble, model.MustDate(2024, 2, 29))
		})

		convey.Convey("When counting days centuries away from the anchor", func() {
			anchor := model.MustDate(2023, 7, 26)

			convey.So(model.MustDate(1700, 1, 1).DaysSince(anchor), convey.ShouldEqual, -118179)
			convey.So(model.MustDate(1700, 1, 2).DaysSince(anchor), convey.ShouldEqual, -118178)
			convey.So(model.MustDate(2400, 1, 1).DaysSince(anchor), convey.ShouldEqual, 137490)
			convey.So(model.MustDate(1, 1, 1).DaysSince(anchor), convey.ShouldEqual, -738726)
			convey.So(model.MustDate(9999, 12, 31).DaysSince(anchor), convey.ShouldEqual, 2913332)
			convey.So(anchor.AddDays(137490), convey.ShouldResemble, model.MustDate(2400, 1, 1))
		})

		convey.Convey("When validating struct literals", func() {
			convey.So(model.Date{Year: 2024, Month: 2, Day: 29}.Validate(), convey.ShouldBeNil)
			convey.So(errors.Is(model.Date{Year: 2023, Month: 2, Day: 30}.Validate(), model.ErrInvalidDate), convey.ShouldBeTrue)
			convey.So(errors.Is(model.Date{}.Validate(), model.ErrInvalidDate), convey.ShouldBeTrue)
		})

		convey.Convey("When ordering dates", func() {
			convey.So(model.MustDate(2023, 7, 25).Before(model.MustDate(2023, 7, 26)), convey.ShouldBeTrue)
			convey.So(model.MustDate(2022, 12, 31).Before(model.MustDate(2023, 1, 1)), convey.ShouldBeTrue)
			convey.So(model.MustDate(2023, 7, 26).Before(model.MustDate(2023, 7, 26)), convey.ShouldBeFalse)
		})

		convey.Convey("When checking leap years", func() {
			convey.So(model.IsLeapYear(2000), convey.ShouldBeTrue)
			convey.So(model.IsLeapYear(1900), convey.ShouldBeFalse)
			convey.So(model.IsLeapYear(2024), convey.ShouldBeTrue)
			convey.So(model.IsLeapYear(2023), convey.ShouldBeFalse)
			convey.So(model.DaysInMonth(2024, 2), convey.ShouldEqual, 29)
			convey.So(model.DaysInMonth(2023, 2), convey.ShouldEqual, 28)
		})

		convey.Convey("When round-tripping through text", func() {
			var d model.Date
			err := d.UnmarshalText([]byte("2000-02-29"))
			text, _ := d.MarshalText()

			convey.So(err, convey.ShouldBeNil)
			convey.So(string(text), convey.ShouldEqual, "2000-02-29")
		})
	})
}
