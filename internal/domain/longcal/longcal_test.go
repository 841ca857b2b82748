package longcal_test

import (
	"errors"
	"testing"

	"github.com/okian/tzolkin/internal/domain/kin"
	"github.com/okian/tzolkin/internal/domain/longcal"
	"github.com/okian/tzolkin/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestFromDate(t *testing.T) {
	Convey("Given the new year of the 13 Moon calendar", t, func() {
		ld, err := longcal.FromDate(model.MustDate(2023, 7, 26))

		Convey("Then it is moon 1 day 1", func() {
			So(err, ShouldBeNil)
			So(ld.Kind, ShouldEqual, longcal.Regular)
			So(ld.Year, ShouldEqual, 2023)
			So(ld.Moon, ShouldEqual, 1)
			So(ld.Day, ShouldEqual, 1)
			So(ld.Week, ShouldEqual, 0)
			So(ld.Plasma, ShouldEqual, 0)
			So(ld.Key(), ShouldEqual, "1.1")
			So(ld.MoonName(), ShouldEqual, "Magnetic")
			So(ld.PlasmaName(), ShouldEqual, "Dali")
			So(ld.WeekColor(), ShouldEqual, kin.Red)
		})
	})

	Convey("Given July 25 of any year", t, func() {
		Convey("Then it is the Day Out of Time", func() {
			for year := 1900; year <= 2100; year++ {
				ld, err := longcal.FromDate(model.MustDate(year, 7, 25))
				So(err, ShouldBeNil)
				So(ld.Kind, ShouldEqual, longcal.DayOutOfTime)
				So(ld.Year, ShouldEqual, year-1)
				So(ld.Key(), ShouldEqual, "0.0")
			}
		})
	})

	Convey("Given Feb 29", t, func() {
		Convey("When the year is a leap year", func() {
			ld, err := longcal.FromDate(model.MustDate(2024, 2, 29))

			Convey("Then it is the leap day sentinel", func() {
				So(err, ShouldBeNil)
				So(ld.Kind, ShouldEqual, longcal.LeapDay)
				So(ld.IsSentinel(), ShouldBeTrue)
				So(ld.String(), ShouldEqual, "Leap Day")
			})
		})

		Convey("When the year is a common year", func() {
			_, err := longcal.FromDate(model.Date{Year: 2023, Month: 2, Day: 29})

			Convey("Then the date is rejected", func() {
				So(errors.Is(err, model.ErrInvalidDate), ShouldBeTrue)
			})
		})
	})

	Convey("Given the days around a leap day", t, func() {
		feb28, _ := longcal.FromDate(model.MustDate(2024, 2, 28))
		mar1, _ := longcal.FromDate(model.MustDate(2024, 3, 1))
		commonMar1, _ := longcal.FromDate(model.MustDate(2023, 3, 1))

		Convey("Then the count skips Feb 29", func() {
			So(feb28.Key(), ShouldEqual, "8.22")
			So(mar1.Key(), ShouldEqual, "8.23")
			So(commonMar1.Key(), ShouldEqual, "8.23")
		})
	})

	Convey("Given July 24", t, func() {
		for _, year := range []int{2023, 2024, 2025} {
			ld, err := longcal.FromDate(model.MustDate(year, 7, 24))
			So(err, ShouldBeNil)
			So(ld.Key(), ShouldEqual, "13.28")
			So(ld.Week, ShouldEqual, 3)
			So(ld.Plasma, ShouldEqual, 6)
			So(ld.WeekColor(), ShouldEqual, kin.Yellow)
			So(ld.MoonName(), ShouldEqual, "Cosmic")
		}
	})

	Convey("Given every date of several years", t, func() {
		Convey("Then regular days walk 1.1 through 13.28 without gaps", func() {
			for year := 2019; year <= 2025; year++ {
				prev := 0
				for d := longcal.NewYear(year); d.Before(longcal.NewYear(year + 1)); d = d.AddDays(1) {
					ld, err := longcal.FromDate(d)
					So(err, ShouldBeNil)
					if ld.IsSentinel() {
						continue
					}
					ordinal := (ld.Moon-1)*longcal.DaysPerMoon + ld.Day
					So(ordinal, ShouldEqual, prev+1)
					prev = ordinal
				}
				So(prev, ShouldEqual, longcal.Moons*longcal.DaysPerMoon)
			}
		})
	})
}

func TestToDate(t *testing.T) {
	Convey("Given regular 13 Moon dates", t, func() {
		Convey("Then ToDate inverts FromDate", func() {
			for year := 2022; year <= 2024; year++ {
				for moon := 1; moon <= longcal.Moons; moon++ {
					for day := 1; day <= longcal.DaysPerMoon; day++ {
						d, err := longcal.ToDate(year, moon, day)
						So(err, ShouldBeNil)
						ld, err := longcal.FromDate(d)
						So(err, ShouldBeNil)
						So(ld.Year, ShouldEqual, year)
						So(ld.Moon, ShouldEqual, moon)
						So(ld.Day, ShouldEqual, day)
					}
				}
			}
		})
	})

	Convey("Given moon 8 day 23 of the year starting 2023", t, func() {
		d, err := longcal.ToDate(2023, 8, 23)
		So(err, ShouldBeNil)
		So(d, ShouldResemble, model.MustDate(2024, 3, 1))
	})

	Convey("Given coordinates outside the calendar", t, func() {
		_, err := longcal.ToDate(2023, 14, 1)
		So(errors.Is(err, longcal.ErrOutOfCoverage), ShouldBeTrue)
	})
}
