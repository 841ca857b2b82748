package audit_test

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/okian/tzolkin/internal/adapters/repository"
	"github.com/okian/tzolkin/internal/audit"
	"github.com/okian/tzolkin/internal/domain/matrix"
	"github.com/okian/tzolkin/pkg/logger"
	"github.com/okian/tzolkin/pkg/metrics"
	. "github.com/smartystreets/goconvey/convey"
)

func run(tables *repository.Tables, cfg audit.Config) (*audit.Report, *observer.ObservedLogs, error) {
	core, logs := observer.New(zapcore.InfoLevel)
	logger.InitWith(core)
	rep, err := audit.Run(context.Background(), tables, cfg,
		audit.WithLogger(logger.Named("audit")),
		audit.WithMetrics(metrics.NewManager(metrics.WithPrometheusRegistry(prometheus.NewRegistry()))),
	)
	return rep, logs, err
}

func TestAudit(t *testing.T) {
	Convey("Given synthesized tables for 2019..2025", t, func() {
		tables, err := repository.Synthesize(2019, 2025)
		So(err, ShouldBeNil)

		Convey("When auditing every table year", func() {
			rep, logs, err := run(tables, audit.DefaultConfig())
			So(err, ShouldBeNil)

			Convey("Then every check passes", func() {
				So(rep.Passed(), ShouldBeTrue)
				So(rep.Mismatches, ShouldBeEmpty)
				So(rep.Stats.YearFrom, ShouldEqual, 2019)
				So(rep.Stats.YearTo, ShouldEqual, 2025)
				So(rep.Stats.RoundTrips, ShouldEqual, 260)
				So(rep.Stats.DatesChecked, ShouldEqual, 7*365+2)
				// Every July 25 and both Feb 29s are sentinels.
				So(rep.Stats.LongDatesChecked, ShouldEqual, 7*365+2-9)
				So(rep.Stats.RunID, ShouldNotBeEmpty)
				So(rep.Stats.EndTime.Before(rep.Stats.StartTime), ShouldBeFalse)
			})

			Convey("Then the result is logged with the run id", func() {
				passed := logs.FilterMessage("audit passed").All()
				So(len(passed), ShouldEqual, 1)
				So(passed[0].ContextMap()["run_id"], ShouldEqual, rep.Stats.RunID)
			})
		})

		Convey("When leap correction is off", func() {
			cfg := audit.DefaultConfig()
			cfg.LeapCorrection = false
			cfg.MaxSamples = 3
			cfg.Workers = 1
			rep, logs, err := run(tables, cfg)
			So(err, ShouldBeNil)

			Convey("Then leap years after February mismatch", func() {
				So(rep.Passed(), ShouldBeFalse)
				// 2020 and 2024: March 1 through December 31.
				So(rep.Stats.DateMismatches, ShouldEqual, 2*306)
				So(len(rep.Mismatches), ShouldEqual, 3)
				So(rep.Mismatches[0].Check, ShouldEqual, audit.CheckDateSweep)
				So(rep.Mismatches[0].Date.Year, ShouldEqual, 2020)
				So(logs.FilterMessage("audit found mismatches").Len(), ShouldEqual, 1)
			})
		})

		Convey("When the range goes past the tables", func() {
			cfg := audit.DefaultConfig()
			cfg.FromYear, cfg.ToYear = 2025, 2026
			rep, _, err := run(tables, cfg)
			So(err, ShouldBeNil)

			Convey("Then every date of the missing year is reported", func() {
				So(rep.Stats.DateMismatches, ShouldEqual, 365)
			})
		})
	})

	Convey("Given tables with a duplicated matrix value", t, func() {
		tables, err := repository.New(repository.Source{
			YearStart:   map[int]int{2023: 54},
			MonthOffset: repository.CommonYearOffsets,
			Grids: map[matrix.Name]map[matrix.Position]int{
				matrix.Space: {{V: 1, H: 1}: 9, {V: 2, H: 2}: 9},
			},
		})
		So(err, ShouldBeNil)

		rep, _, err := run(tables, audit.DefaultConfig())
		So(err, ShouldBeNil)

		Convey("Then it is reported without failing the audit", func() {
			So(rep.Stats.MatrixDuplicates, ShouldResemble, map[string]int{"space": 1})
			So(rep.Passed(), ShouldBeTrue)
		})
	})

	Convey("Given empty tables and no range", t, func() {
		_, _, err := run(repository.Empty(), audit.DefaultConfig())
		So(errors.Is(err, audit.ErrNoYears), ShouldBeTrue)
	})

	Convey("Given a cancelled context", t, func() {
		tables, err := repository.Synthesize(2000, 2010)
		So(err, ShouldBeNil)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err = audit.Run(ctx, tables, audit.DefaultConfig())
		So(errors.Is(err, context.Canceled), ShouldBeTrue)
	})
}
