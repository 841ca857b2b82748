package kin

import (
	"fmt"

	"github.com/okian/tzolkin/internal/domain/model"
)

// Anchor is the reference date of the arithmetic path; it is KIN 1.
var Anchor = model.Date{Year: 2023, Month: 7, Day: 26}

// Tables provides the per-year start KIN and the per-month cumulative day
// offset used by the table path.
type Tables interface {
	YearStartKin(year int) (int, bool)
	MonthOffset(month int) (int, bool)
}

// Source names the path that produced a resolved KIN.
type Source string

// Resolution sources.
const (
	SourceTable      Source = "table"
	SourceArithmetic Source = "arithmetic"
)

// Resolution is a resolved KIN together with the path that produced it.
type Resolution struct {
	Kin    Kin    `json:"kin"`
	Source Source `json:"source"`
	// Miss holds the table miss that forced the arithmetic path, if any.
	Miss error `json:"-"`
}

// ResolverOption applies a configuration option to the Resolver.
type ResolverOption func(*Resolver)

// WithLeapCorrection makes the table path add Feb 29 to month offsets after
// February in leap years. The month table holds common-year offsets.
func WithLeapCorrection(enabled bool) ResolverOption {
	return func(r *Resolver) {
		r.leapCorrection = enabled
	}
}

// WithAnchor moves the arithmetic anchor (the date that is KIN 1).
func WithAnchor(d model.Date) ResolverOption {
	return func(r *Resolver) {
		r.anchor = d
	}
}

// Resolver maps dates to KINs.
type Resolver struct {
	tables         Tables
	anchor         model.Date
	leapCorrection bool
}

// NewResolver creates a resolver over tables. A nil tables value makes every
// resolution take the arithmetic path.
func NewResolver(tables Tables, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		tables:         tables,
		anchor:         Anchor,
		leapCorrection: true,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve uses the table path and falls back to arithmetic on a lookup miss.
// An impossible date fails with model.ErrInvalidDate and never falls back.
func (r *Resolver) Resolve(d model.Date) (Resolution, error) {
	if err := d.Validate(); err != nil {
		return Resolution{}, err
	}
	k, err := r.ResolveTable(d)
	if err != nil {
		arith, aerr := r.ResolveArithmetic(d)
		if aerr != nil {
			return Resolution{}, aerr
		}
		return Resolution{Kin: arith, Source: SourceArithmetic, Miss: err}, nil
	}
	return Resolution{Kin: k, Source: SourceTable}, nil
}

// ResolveTable computes ((start + offset + day) - 1) mod 260 + 1 from the
// year and month rows. A missing row yields ErrLookupMiss.
func (r *Resolver) ResolveTable(d model.Date) (Kin, error) {
	if err := d.Validate(); err != nil {
		return 0, err
	}
	if r.tables == nil {
		return 0, fmt.Errorf("%w: no calendar tables", ErrLookupMiss)
	}
	start, ok := r.tables.YearStartKin(d.Year)
	if !ok {
		return 0, fmt.Errorf("%w: year %d", ErrLookupMiss, d.Year)
	}
	offset, ok := r.tables.MonthOffset(d.Month)
	if !ok {
		return 0, fmt.Errorf("%w: month %d", ErrLookupMiss, d.Month)
	}
	if r.leapCorrection && d.Month > 2 && d.IsLeapYear() {
		offset++
	}
	return Wrap(start + offset + d.Day), nil
}

// ResolveArithmetic counts days from the anchor. Only an impossible date
// fails.
func (r *Resolver) ResolveArithmetic(d model.Date) (Kin, error) {
	if err := d.Validate(); err != nil {
		return 0, err
	}
	return Wrap(1 + d.DaysSince(r.anchor)), nil
}
