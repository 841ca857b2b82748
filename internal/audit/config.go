package audit

import (
	"time"

	"github.com/okian/tzolkin/internal/domain/model"
)

// Check names, used in reports and metrics.
const (
	CheckRoundTrip = "round_trip"
	CheckDateSweep = "date_sweep"
	CheckLongDate  = "long_date"
)

// Config holds configuration for an audit run.
type Config struct {
	FromYear       int  // First year to sweep; 0 means the first table year
	ToYear         int  // Last year to sweep; 0 means the last table year
	Workers        int  // Years swept concurrently
	MaxSamples     int  // Mismatches kept per check
	LeapCorrection bool // Passed to the resolver
}

// DefaultConfig sweeps every table year.
func DefaultConfig() Config {
	return Config{Workers: 4, MaxSamples: 20, LeapCorrection: true}
}

// Mismatch is one failed check.
type Mismatch struct {
	Check  string     `json:"check"`
	Date   model.Date `json:"date,omitzero"`
	Detail string     `json:"detail"`
}

// Stats holds audit statistics.
type Stats struct {
	RunID            string         `json:"run_id"`
	YearFrom         int            `json:"year_from"`
	YearTo           int            `json:"year_to"`
	RoundTrips       int            `json:"round_trips"`
	RoundTripErrors  int            `json:"round_trip_errors"`
	DatesChecked     int            `json:"dates_checked"`
	DateMismatches   int            `json:"date_mismatches"`
	LongDatesChecked int            `json:"long_dates_checked"`
	LongDateErrors   int            `json:"long_date_errors"`
	MatrixDuplicates map[string]int `json:"matrix_duplicates,omitempty"`
	StartTime        time.Time      `json:"start_time"`
	EndTime          time.Time      `json:"end_time"`
	Duration         time.Duration  `json:"duration"`
}

// Report is the outcome of an audit run.
type Report struct {
	Stats      Stats      `json:"stats"`
	Mismatches []Mismatch `json:"mismatches,omitempty"`
}

// Passed reports whether every check succeeded. Duplicated matrix values
// are reported but do not fail the audit.
func (r *Report) Passed() bool {
	s := r.Stats
	return s.RoundTripErrors == 0 && s.DateMismatches == 0 && s.LongDateErrors == 0
}
