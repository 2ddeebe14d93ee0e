// Package model defines the core domain types: billing records, periods,
// intents, and analytic results.
package model

import (
	"errors"
	"fmt"
	"time"
)

// ErrDataUnavailable indicates the billing warehouse could not serve a
// data request. Routines never treat it as zero cost.
var ErrDataUnavailable = errors.New("billing data unavailable")

// Language is the detected question language.
type Language string

const (
	LangEnglish Language = "en"
	LangRussian Language = "ru"
)

// Dimension is a grouping axis for cost breakdowns.
type Dimension string

const (
	DimensionNone    Dimension = ""
	DimensionProject Dimension = "project"
	DimensionService Dimension = "service"
)

// Period is one billing month in canonical year-month form.
type Period struct {
	Year  int
	Month time.Month
}

// PeriodOf returns the period containing t.
func PeriodOf(t time.Time) Period {
	return Period{Year: t.Year(), Month: t.Month()}
}

// ParsePeriod parses "2025-09" or compact "202509".
func ParsePeriod(s string) (Period, error) {
	var year, month int
	switch len(s) {
	case 7:
		if _, err := fmt.Sscanf(s, "%4d-%2d", &year, &month); err != nil {
			return Period{}, fmt.Errorf("invalid period %q: %w", s, err)
		}
	case 6:
		if _, err := fmt.Sscanf(s, "%4d%2d", &year, &month); err != nil {
			return Period{}, fmt.Errorf("invalid period %q: %w", s, err)
		}
	default:
		return Period{}, fmt.Errorf("invalid period %q", s)
	}
	if month < 1 || month > 12 {
		return Period{}, fmt.Errorf("invalid period %q: month out of range", s)
	}
	return Period{Year: year, Month: time.Month(month)}, nil
}

// String returns the canonical "2025-09" form.
func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, int(p.Month))
}

// Compact returns the "202509" form used by billing exports.
func (p Period) Compact() string {
	return fmt.Sprintf("%04d%02d", p.Year, int(p.Month))
}

// IsZero reports whether p is the zero period.
func (p Period) IsZero() bool {
	return p.Year == 0 && p.Month == 0
}

// Index maps the period onto a monotonic month axis, so that consecutive
// months differ by exactly 1 across year boundaries.
func (p Period) Index() int {
	return p.Year*12 + int(p.Month) - 1
}

// Before reports whether p is chronologically earlier than other.
func (p Period) Before(other Period) bool {
	return p.Index() < other.Index()
}

// Add returns the period n months after p (n may be negative).
func (p Period) Add(n int) Period {
	idx := p.Index() + n
	return Period{Year: idx / 12, Month: time.Month(idx%12 + 1)}
}

// Sub returns the number of months from other to p.
func (p Period) Sub(other Period) int {
	return p.Index() - other.Index()
}

// BillingRecord is one row of cost data from the billing export.
// Records are immutable; the engine only reads them.
type BillingRecord struct {
	Month    Period
	Project  string
	Service  string
	Cost     Money
	Currency string
}

// DataRequest declaratively describes the rows a routine needs.
// It is executed only by the warehouse, never by the engine itself.
type DataRequest struct {
	Start    Period
	End      Period // inclusive
	GroupBy  Dimension
	Projects []string
	Services []string
}
