// Package service provides the calculation engine: every date and KIN
// operation bound to one set of calendar tables.
package service

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/okian/tzolkin/internal/adapters/repository"
	"github.com/okian/tzolkin/internal/domain/castle"
	"github.com/okian/tzolkin/internal/domain/kin"
	"github.com/okian/tzolkin/internal/domain/longcal"
	"github.com/okian/tzolkin/internal/domain/matrix"
	"github.com/okian/tzolkin/internal/domain/model"
	"github.com/okian/tzolkin/internal/domain/oracle"
	"github.com/okian/tzolkin/internal/domain/secondary"
	"github.com/okian/tzolkin/internal/domain/types"
	"github.com/okian/tzolkin/internal/domain/wavespell"
	"github.com/okian/tzolkin/pkg/logger"
	"github.com/okian/tzolkin/pkg/metrics"
)

// Operation names, used as metric labels.
const (
	OpResolve    = "resolve"
	OpDescribe   = "describe"
	OpOracle     = "oracle"
	OpWavespell  = "wavespell"
	OpCastle     = "castle"
	OpPsi        = "psi"
	OpGoddess    = "goddess"
	OpLongDate   = "long_date"
	OpEquivalent = "equivalent"
	OpComposite  = "composite"
	OpLocate     = "locate"
	OpProfile    = "profile"
	OpReadings   = "readings"
)

const defaultCastleYears = 105

// Service is the engine. It is safe for concurrent use; SwapTables replaces
// the table snapshot atomically.
type Service struct {
	tables atomic.Pointer[repository.Tables]

	// Configuration
	leapCorrection bool
	castleYears    int

	logger  logger.Logger
	metrics *metrics.Manager
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMetrics records on m instead of the global manager.
func WithMetrics(m *metrics.Manager) Option {
	return func(s *Service) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithLeapCorrection toggles the leap-year adjustment of the table path.
func WithLeapCorrection(enabled bool) Option {
	return func(s *Service) {
		s.leapCorrection = enabled
	}
}

// WithCastleYears sets the progression length used when callers pass 0.
func WithCastleYears(years int) Option {
	return func(s *Service) {
		if years > 0 {
			s.castleYears = years
		}
	}
}

// New constructs an engine over tables. Nil tables behave like empty tables:
// dates resolve by arithmetic and table-backed results are absent.
func New(tables *repository.Tables, opts ...Option) *Service {
	s := &Service{
		leapCorrection: true,
		castleYears:    defaultCastleYears,
		logger:         logger.Nop(),
		metrics:        metrics.Global(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.SwapTables(tables)
	return s
}

// Tables returns the current snapshot.
func (s *Service) Tables() *repository.Tables {
	return s.tables.Load()
}

// SwapTables replaces the snapshot. Calls already running keep the old one.
func (s *Service) SwapTables(t *repository.Tables) {
	if t == nil {
		t = repository.Empty()
	}
	s.tables.Store(t)
}

func (s *Service) observe(op string, start time.Time, err error) {
	s.metrics.RecordCalculation(op, float64(time.Since(start).Microseconds())/1000, err)
}

func (s *Service) resolver(t *repository.Tables) *kin.Resolver {
	return kin.NewResolver(t, kin.WithLeapCorrection(s.leapCorrection))
}

// ResolveKin maps a date to its KIN, preferring the tables and falling back
// to arithmetic when a row is missing. Impossible dates fail with
// model.ErrInvalidDate.
func (s *Service) ResolveKin(ctx context.Context, d model.Date) (res kin.Resolution, err error) {
	defer func(start time.Time) { s.observe(OpResolve, start, err) }(time.Now())
	return s.resolve(ctx, s.Tables(), d)
}

func (s *Service) resolve(ctx context.Context, t *repository.Tables, d model.Date) (kin.Resolution, error) {
	res, err := s.resolver(t).Resolve(d)
	if err != nil {
		return kin.Resolution{}, fmt.Errorf("resolve %s: %w", d, err)
	}
	s.metrics.RecordResolverPath(string(res.Source))
	if res.Source == kin.SourceArithmetic {
		table := repository.TableMonthOffset
		if _, ok := t.YearStartKin(d.Year); !ok {
			table = repository.TableYearStart
		}
		s.metrics.RecordLookupMiss(table)
		s.logger.Debug(ctx, "table lookup missed, using arithmetic",
			logger.String("date", d.String()),
			logger.String("table", table),
			logger.Int("kin", int(res.Kin)),
		)
	}
	return res, nil
}

// Describe returns the names and numbers of k.
func (s *Service) Describe(ctx context.Context, k kin.Kin) (info kin.Info, err error) {
	defer func(start time.Time) { s.observe(OpDescribe, start, err) }(time.Now())
	return kin.Describe(k)
}

// Oracle computes the five-member oracle of k.
func (s *Service) Oracle(ctx context.Context, k kin.Kin) (set oracle.Set, err error) {
	defer func(start time.Time) { s.observe(OpOracle, start, err) }(time.Now())
	set, err = oracle.Compute(k)
	if err != nil {
		return oracle.Set{}, fmt.Errorf("oracle of kin %d: %w", int(k), err)
	}
	return set, nil
}

// Wavespell lists the 13 KINs of the wavespell containing k.
func (s *Service) Wavespell(ctx context.Context, k kin.Kin) (w wavespell.Wavespell, err error) {
	defer func(start time.Time) { s.observe(OpWavespell, start, err) }(time.Now())
	return wavespell.Generate(k)
}

// Castle resolves birth and lists its yearly progression. A non-positive
// years value uses the configured length.
func (s *Service) Castle(ctx context.Context, birth model.Date, years int) (entries []castle.Entry, err error) {
	defer func(start time.Time) { s.observe(OpCastle, start, err) }(time.Now())
	if years <= 0 {
		years = s.castleYears
	}
	res, err := s.resolve(ctx, s.Tables(), birth)
	if err != nil {
		return nil, err
	}
	return castle.Progress(res.Kin, birth, years)
}

// Psi returns the PSI KIN of d's month and day. Absent rows yield false.
func (s *Service) Psi(ctx context.Context, d model.Date) (p secondary.Psi, ok bool, err error) {
	defer func(start time.Time) { s.observe(OpPsi, start, err) }(time.Now())
	if err = d.Validate(); err != nil {
		return secondary.Psi{}, false, err
	}
	p, ok = secondary.LookupPsi(s.Tables(), d)
	if !ok {
		s.metrics.RecordLookupMiss(repository.TablePsi)
		s.logger.Debug(ctx, "no psi row", logger.Int("month", d.Month), logger.Int("day", d.Day))
	}
	return p, ok, nil
}

// Goddess reduces the oracle sum of k onto the cycle.
func (s *Service) Goddess(ctx context.Context, k kin.Kin) (g kin.Kin, err error) {
	defer func(start time.Time) { s.observe(OpGoddess, start, err) }(time.Now())
	return secondary.Goddess(k)
}

// LongDate converts d to the 13 Moon calendar.
func (s *Service) LongDate(ctx context.Context, d model.Date) (ld longcal.LongDate, err error) {
	defer func(start time.Time) { s.observe(OpLongDate, start, err) }(time.Now())
	return longcal.FromDate(d)
}

// Readings returns the week key sentence and heptad prayer of d. Absent rows
// leave the field nil; the Day Out of Time and leap day have neither.
func (s *Service) Readings(ctx context.Context, d model.Date) (r longcal.Readings, err error) {
	defer func(start time.Time) { s.observe(OpReadings, start, err) }(time.Now())
	ld, err := longcal.FromDate(d)
	if err != nil {
		return longcal.Readings{}, err
	}
	return s.readings(ctx, s.Tables(), ld), nil
}

func (s *Service) readings(ctx context.Context, t *repository.Tables, ld longcal.LongDate) longcal.Readings {
	r := longcal.LookupReadings(t, ld)
	if ld.IsSentinel() {
		return r
	}
	if r.WeekKey == nil {
		s.metrics.RecordLookupMiss(repository.TableWeekKey)
		s.logger.Debug(ctx, "no week key row", logger.String("week", string(ld.WeekColor())))
	}
	if r.HeptadPrayer == nil {
		s.metrics.RecordLookupMiss(repository.TableHeptad)
		s.logger.Debug(ctx, "no heptad prayer row", logger.String("plasma", ld.PlasmaName()))
	}
	return r
}

// EquivalentKin runs the three-step matrix walk for the KIN of d. Missing
// lookups are logged and reported in the result's warnings.
func (s *Service) EquivalentKin(ctx context.Context, d model.Date) (r matrix.EquivalentResult, err error) {
	defer func(start time.Time) { s.observe(OpEquivalent, start, err) }(time.Now())
	t := s.Tables()
	res, err := s.resolve(ctx, t, d)
	if err != nil {
		return matrix.EquivalentResult{}, err
	}
	return s.equivalent(ctx, t, d, res.Kin)
}

func (s *Service) equivalent(ctx context.Context, t *repository.Tables, d model.Date, k kin.Kin) (matrix.EquivalentResult, error) {
	ld, err := longcal.FromDate(d)
	if err != nil {
		return matrix.EquivalentResult{}, err
	}
	r, err := matrix.Equivalent(t.Matrix(), t, k, ld)
	if err != nil {
		return matrix.EquivalentResult{}, err
	}
	if !r.Complete() {
		s.metrics.RecordEquivalentWarnings(len(r.Warnings))
		s.logger.Warn(ctx, "equivalent kin is partial",
			logger.String("date", d.String()),
			logger.Int("kin", int(k)),
			logger.Any("warnings", r.Warnings),
		)
	}
	return r, nil
}

// Composite combines two KINs.
func (s *Service) Composite(ctx context.Context, a, b kin.Kin) (k kin.Kin, err error) {
	defer func(start time.Time) { s.observe(OpComposite, start, err) }(time.Now())
	return kin.Composite(a, b)
}

// Locate finds k in the matrix grids.
func (s *Service) Locate(ctx context.Context, k kin.Kin) (c matrix.Coordinates, err error) {
	defer func(start time.Time) { s.observe(OpLocate, start, err) }(time.Now())
	if !k.Valid() {
		return matrix.Coordinates{}, fmt.Errorf("%w: %d", kin.ErrInvalidKin, int(k))
	}
	return matrix.Locate(s.Tables().Matrix(), k), nil
}

// Profile derives everything for one date from a single table snapshot.
// castleYears 0 leaves the progression out.
func (s *Service) Profile(ctx context.Context, d model.Date, castleYears int) (p types.Profile, err error) {
	defer func(start time.Time) { s.observe(OpProfile, start, err) }(time.Now())
	t := s.Tables()

	p.Date = d
	if p.Kin, err = s.resolve(ctx, t, d); err != nil {
		return types.Profile{}, err
	}
	k := p.Kin.Kin

	if p.Info, err = kin.Describe(k); err != nil {
		return types.Profile{}, err
	}
	if p.Oracle, err = oracle.Compute(k); err != nil {
		return types.Profile{}, err
	}
	if p.OracleKins, err = p.Oracle.Kins(); err != nil {
		return types.Profile{}, err
	}
	if p.Wavespell, err = wavespell.Generate(k); err != nil {
		return types.Profile{}, err
	}
	if psi, ok := secondary.LookupPsi(t, d); ok {
		p.Psi = &psi
	} else {
		s.metrics.RecordLookupMiss(repository.TablePsi)
	}
	if p.Goddess, err = secondary.Goddess(k); err != nil {
		return types.Profile{}, err
	}
	if p.LongDate, err = longcal.FromDate(d); err != nil {
		return types.Profile{}, err
	}
	p.Readings = s.readings(ctx, t, p.LongDate)
	eq, err := s.equivalent(ctx, t, d, k)
	if err != nil {
		return types.Profile{}, err
	}
	p.Equivalent = &eq
	p.Matrix = matrix.Locate(t.Matrix(), k)
	if castleYears > 0 {
		if p.Castle, err = castle.Progress(k, d, castleYears); err != nil {
			return types.Profile{}, err
		}
	}
	return p, nil
}
