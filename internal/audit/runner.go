// Package audit checks a set of calendar tables against the arithmetic
// rules of the engine.
package audit

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/okian/tzolkin/internal/adapters/repository"
	"github.com/okian/tzolkin/internal/domain/matrix"
	"github.com/okian/tzolkin/pkg/logger"
	"github.com/okian/tzolkin/pkg/metrics"
)

// ErrNoYears means the sweep range is empty.
var ErrNoYears = errors.New("audit: no years to sweep")

// Option applies a configuration option to Run.
type Option func(*runner)

// WithLogger sets the logger of the run.
func WithLogger(l logger.Logger) Option {
	return func(r *runner) {
		if l != nil {
			r.log = l
		}
	}
}

// WithMetrics records on m instead of the global manager.
func WithMetrics(m *metrics.Manager) Option {
	return func(r *runner) {
		if m != nil {
			r.metrics = m
		}
	}
}

type runner struct {
	cfg     Config
	tables  *repository.Tables
	log     logger.Logger
	metrics *metrics.Manager

	mu     sync.Mutex
	report Report
}

// Run executes the complete audit of tables.
func Run(ctx context.Context, tables *repository.Tables, cfg Config, opts ...Option) (*Report, error) {
	if tables == nil {
		tables = repository.Empty()
	}
	r := &runner{
		cfg:     cfg,
		tables:  tables,
		log:     logger.Nop(),
		metrics: metrics.Global(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.cfg.Workers <= 0 {
		r.cfg.Workers = 1
	}

	stats := &r.report.Stats
	stats.RunID = uuid.NewString()
	stats.StartTime = time.Now()
	ctx = logger.WithRunID(ctx, stats.RunID)

	from, to, err := r.yearRange()
	if err != nil {
		return nil, err
	}
	stats.YearFrom, stats.YearTo = from, to

	r.log.Info(ctx, "starting calendar table audit",
		logger.Int("from", from),
		logger.Int("to", to),
		logger.Int("workers", r.cfg.Workers),
		logger.Bool("leapCorrection", r.cfg.LeapCorrection))

	// Step 1: Seal/Tone pairing over the whole cycle
	r.verifyRoundTrips()

	// Step 2: Table path against arithmetic, one year per task
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.cfg.Workers)
	for year := from; year <= to; year++ {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			r.sweepYear(year)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("date sweep: %w", err)
	}

	// Step 3: Matrix duplicates
	stats.MatrixDuplicates = map[string]int{}
	for name, values := range r.tables.Duplicates() {
		stats.MatrixDuplicates[string(name)] = len(values)
	}
	for _, name := range matrix.Names {
		if n := stats.MatrixDuplicates[string(name)]; n > 0 {
			r.log.Warn(ctx, "matrix grid has duplicated values", logger.String("grid", string(name)), logger.Int("values", n))
		}
	}

	sort.Slice(r.report.Mismatches, func(i, j int) bool {
		a, b := r.report.Mismatches[i], r.report.Mismatches[j]
		if a.Check != b.Check {
			return a.Check < b.Check
		}
		return a.Date.Before(b.Date)
	})

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	r.metrics.RecordAudit(CheckRoundTrip, stats.RoundTrips, stats.RoundTripErrors)
	r.metrics.RecordAudit(CheckDateSweep, stats.DatesChecked, stats.DateMismatches)
	r.metrics.RecordAudit(CheckLongDate, stats.LongDatesChecked, stats.LongDateErrors)

	r.displayFinalStats(ctx)
	return &r.report, nil
}

func (r *runner) yearRange() (int, int, error) {
	from, to := r.cfg.FromYear, r.cfg.ToYear
	tFrom, tTo, ok := r.tables.YearRange()
	if from == 0 {
		if !ok {
			return 0, 0, fmt.Errorf("%w: tables hold no years and no range was given", ErrNoYears)
		}
		from = tFrom
	}
	if to == 0 {
		if !ok {
			return 0, 0, fmt.Errorf("%w: tables hold no years and no range was given", ErrNoYears)
		}
		to = tTo
	}
	if from > to {
		return 0, 0, fmt.Errorf("%w: %d..%d", ErrNoYears, from, to)
	}
	return from, to, nil
}

// record adds counters and keeps at most MaxSamples mismatches per check.
func (r *runner) record(check string, checked int, found []Mismatch) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := &r.report.Stats
	switch check {
	case CheckRoundTrip:
		s.RoundTrips += checked
		s.RoundTripErrors += len(found)
	case CheckDateSweep:
		s.DatesChecked += checked
		s.DateMismatches += len(found)
	case CheckLongDate:
		s.LongDatesChecked += checked
		s.LongDateErrors += len(found)
	}

	kept := 0
	for _, m := range r.report.Mismatches {
		if m.Check == check {
			kept++
		}
	}
	for _, m := range found {
		if kept >= r.cfg.MaxSamples {
			break
		}
		r.report.Mismatches = append(r.report.Mismatches, m)
		kept++
	}
}

// displayFinalStats logs the final audit statistics.
func (r *runner) displayFinalStats(ctx context.Context) {
	s := r.report.Stats
	var datesPerSecond float64
	if s.Duration > 0 {
		datesPerSecond = float64(s.DatesChecked) / s.Duration.Seconds()
	}

	fields := []logger.Field{
		logger.Int("roundTrips", s.RoundTrips),
		logger.Int("roundTripErrors", s.RoundTripErrors),
		logger.Int("datesChecked", s.DatesChecked),
		logger.Int("dateMismatches", s.DateMismatches),
		logger.Int("longDatesChecked", s.LongDatesChecked),
		logger.Int("longDateErrors", s.LongDateErrors),
		logger.String("duration", s.Duration.String()),
		logger.Float64("datesPerSecond", datesPerSecond),
	}
	if r.report.Passed() {
		r.log.Info(ctx, "audit passed", fields...)
		return
	}
	r.log.Warn(ctx, "audit found mismatches", fields...)
}
