package inquiry

import (
	"fmt"
	"strings"
	"time"
)

// PeriodUnit is the calendar granularity of a KPI period.
type PeriodUnit string

const (
	UnitMonth   PeriodUnit = "month"
	UnitQuarter PeriodUnit = "quarter"
	UnitYear    PeriodUnit = "year"
)

// Period identifies one calendar month, quarter or year. Index is the month
// (1-12) or quarter (1-4) and is ignored for years.
type Period struct {
	Unit  PeriodUnit `json:"unit"`
	Year  int        `json:"year"`
	Index int        `json:"index,omitempty"`
}

// NewPeriod validates and builds a Period.
func NewPeriod(unit string, year, index int) (Period, error) {
	u := PeriodUnit(strings.ToLower(strings.TrimSpace(unit)))
	if year < 1900 || year > 9999 {
		return Period{}, fmt.Errorf("invalid year %d", year)
	}
	switch u {
	case UnitMonth:
		if index < 1 || index > 12 {
			return Period{}, fmt.Errorf("invalid month %d", index)
		}
	case UnitQuarter:
		if index < 1 || index > 4 {
			return Period{}, fmt.Errorf("invalid quarter %d", index)
		}
	case UnitYear:
		index = 0
	default:
		return Period{}, fmt.Errorf("invalid period unit %q", unit)
	}
	return Period{Unit: u, Year: year, Index: index}, nil
}

// PeriodContaining returns the period of the given unit that contains t.
func PeriodContaining(unit PeriodUnit, t time.Time) Period {
	switch unit {
	case UnitQuarter:
		return Period{Unit: UnitQuarter, Year: t.Year(), Index: (int(t.Month())-1)/3 + 1}
	case UnitYear:
		return Period{Unit: UnitYear, Year: t.Year()}
	default:
		return Period{Unit: UnitMonth, Year: t.Year(), Index: int(t.Month())}
	}
}

// Contains reports whether a canonical YYYY-MM-DD date falls inside the period.
func (p Period) Contains(date string) bool {
	t, ok := parseCanonical(date)
	if !ok || t.Year() != p.Year {
		return false
	}
	switch p.Unit {
	case UnitMonth:
		return int(t.Month()) == p.Index
	case UnitQuarter:
		return (int(t.Month())-1)/3+1 == p.Index
	case UnitYear:
		return true
	default:
		return false
	}
}

// String renders the period as 2025-12, 2025-Q4 or 2025.
func (p Period) String() string {
	switch p.Unit {
	case UnitMonth:
		return fmt.Sprintf("%04d-%02d", p.Year, p.Index)
	case UnitQuarter:
		return fmt.Sprintf("%04d-Q%d", p.Year, p.Index)
	default:
		return fmt.Sprintf("%04d", p.Year)
	}
}
