package album

import (
	"encoding/json"
	"fmt"
	"time"
)

// DateFilter is an inclusive calendar date range. It holds either a single
// calendar month (year + month) or an explicit start/end pair; the unused
// representation stays zero.
type DateFilter struct {
	year  int
	month time.Month
	start time.Time
	end   time.Time
}

// MonthFilter builds a filter covering one calendar month.
func MonthFilter(year int, month time.Month) (DateFilter, error) {
	if month < time.January || month > time.December {
		return DateFilter{}, fmt.Errorf("month %d out of range", int(month))
	}
	if year <= 0 {
		return DateFilter{}, fmt.Errorf("year %d out of range", year)
	}
	return DateFilter{year: year, month: month}, nil
}

// RangeFilter builds a filter covering start..end inclusive. Only the
// calendar dates of the arguments are kept.
func RangeFilter(start, end time.Time) (DateFilter, error) {
	start = civilDate(start)
	end = civilDate(end)
	if start.IsZero() || end.IsZero() {
		return DateFilter{}, fmt.Errorf("range bounds must be set")
	}
	if end.Before(start) {
		return DateFilter{}, fmt.Errorf("range end %s before start %s", end.Format(time.DateOnly), start.Format(time.DateOnly))
	}
	return DateFilter{start: start, end: end}, nil
}

// IsMonth reports whether the filter uses the calendar-month representation.
func (f DateFilter) IsMonth() bool {
	return f.year != 0
}

// Year returns the calendar year of a month filter, or zero for a range.
func (f DateFilter) Year() int { return f.year }

// Month returns the calendar month of a month filter, or zero for a range.
func (f DateFilter) Month() time.Month { return f.month }

// StartDate returns the first day covered by the filter (UTC midnight).
func (f DateFilter) StartDate() time.Time {
	if f.IsMonth() {
		return time.Date(f.year, f.month, 1, 0, 0, 0, 0, time.UTC)
	}
	return f.start
}

// EndDate returns the last day covered by the filter (UTC midnight).
func (f DateFilter) EndDate() time.Time {
	if f.IsMonth() {
		return time.Date(f.year, f.month+1, 0, 0, 0, 0, 0, time.UTC)
	}
	return f.end
}

// Contains reports whether the calendar date of t falls inside the filter.
// The date is read in t's own location so a 23:30 local capture stays on
// its local day.
func (f DateFilter) Contains(t time.Time) bool {
	if t.IsZero() {
		return false
	}
	day := civilDate(t)
	return !day.Before(f.StartDate()) && !day.After(f.EndDate())
}

func (f DateFilter) String() string {
	if f.IsMonth() {
		return fmt.Sprintf("%04d-%02d", f.year, int(f.month))
	}
	start := f.start.Format(time.DateOnly)
	end := f.end.Format(time.DateOnly)
	if start == end {
		return start
	}
	return start + ".." + end
}

type dateFilterJSON struct {
	Year      int    `json:"year,omitempty"`
	Month     int    `json:"month,omitempty"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// MarshalJSON renders both the populated representation and the derived bounds.
func (f DateFilter) MarshalJSON() ([]byte, error) {
	return json.Marshal(dateFilterJSON{
		Year:      f.year,
		Month:     int(f.month),
		StartDate: f.StartDate().Format(time.DateOnly),
		EndDate:   f.EndDate().Format(time.DateOnly),
	})
}

func civilDate(t time.Time) time.Time {
	if t.IsZero() {
		return time.Time{}
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
