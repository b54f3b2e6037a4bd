package dateexpr

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"promptalbum/internal/album"
)

// Kind identifies which expression shape matched.
type Kind int

const (
	KindISODate Kind = iota
	KindISOMonth
	KindMonthYear
	KindYear
)

func (k Kind) String() string {
	switch k {
	case KindISODate:
		return "iso_date"
	case KindISOMonth:
		return "iso_month"
	case KindMonthYear:
		return "month_year"
	case KindYear:
		return "year"
	default:
		return "unknown"
	}
}

var monthNames = map[string]time.Month{
	"january": time.January, "jan": time.January,
	"february": time.February, "feb": time.February,
	"march": time.March, "mar": time.March,
	"april": time.April, "apr": time.April,
	"may": time.May,
	"june": time.June, "jun": time.June,
	"july": time.July, "jul": time.July,
	"august": time.August, "aug": time.August,
	"september": time.September, "sept": time.September, "sep": time.September,
	"october": time.October, "oct": time.October,
	"november": time.November, "nov": time.November,
	"december": time.December, "dec": time.December,
}

// Longest alternatives first: Go's regexp prefers the leftmost alternative.
const monthAlternation = `january|february|march|april|may|june|july|august|september|october|november|december|sept|jan|feb|mar|apr|jun|jul|aug|sep|oct|nov|dec`

var (
	isoDatePattern   = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})$`)
	isoMonthPattern  = regexp.MustCompile(`^(\d{4})-(\d{2})$`)
	monthYearPattern = regexp.MustCompile(`(?i)^(` + monthAlternation + `)\.?\s+(\d{4})$`)
	yearPattern      = regexp.MustCompile(`^(\d{4})$`)
)

// Resolve parses a complete date fragment. The boolean is false when the
// fragment matches no supported shape or names an impossible date.
func Resolve(fragment string) (album.DateFilter, bool) {
	text := strings.Join(strings.Fields(fragment), " ")
	if text == "" {
		return album.DateFilter{}, false
	}

	if m := isoDatePattern.FindStringSubmatch(text); m != nil {
		return resolveDay(m[1], m[2], m[3])
	}
	if m := isoMonthPattern.FindStringSubmatch(text); m != nil {
		return resolveMonth(m[1], m[2])
	}
	if m := monthYearPattern.FindStringSubmatch(text); m != nil {
		month := monthNames[strings.ToLower(m[1])]
		return resolveMonth(m[2], strconv.Itoa(int(month)))
	}
	if m := yearPattern.FindStringSubmatch(text); m != nil {
		return resolveYear(m[1])
	}
	return album.DateFilter{}, false
}

func resolveYear(yearText string) (album.DateFilter, bool) {
	year, ok := parseYear(yearText)
	if !ok {
		return album.DateFilter{}, false
	}
	filter, err := album.RangeFilter(
		time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC),
		time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC),
	)
	if err != nil {
		return album.DateFilter{}, false
	}
	return filter, true
}

func resolveMonth(yearText, monthText string) (album.DateFilter, bool) {
	year, ok := parseYear(yearText)
	if !ok {
		return album.DateFilter{}, false
	}
	month, err := strconv.Atoi(monthText)
	if err != nil {
		return album.DateFilter{}, false
	}
	filter, err := album.MonthFilter(year, time.Month(month))
	if err != nil {
		return album.DateFilter{}, false
	}
	return filter, true
}

func resolveDay(yearText, monthText, dayText string) (album.DateFilter, bool) {
	year, ok := parseYear(yearText)
	if !ok {
		return album.DateFilter{}, false
	}
	month, err := strconv.Atoi(monthText)
	if err != nil || month < 1 || month > 12 {
		return album.DateFilter{}, false
	}
	dayOfMonth, err := strconv.Atoi(dayText)
	if err != nil || dayOfMonth < 1 {
		return album.DateFilter{}, false
	}
	d := time.Date(year, time.Month(month), dayOfMonth, 0, 0, 0, 0, time.UTC)
	// time.Date normalises overflow (Feb 30 -> Mar 1); reject instead.
	if d.Month() != time.Month(month) || d.Day() != dayOfMonth {
		return album.DateFilter{}, false
	}
	filter, err := album.RangeFilter(d, d)
	if err != nil {
		return album.DateFilter{}, false
	}
	return filter, true
}

func parseYear(text string) (int, bool) {
	if len(text) != 4 {
		return 0, false
	}
	year, err := strconv.Atoi(text)
	if err != nil || year <= 0 {
		return 0, false
	}
	return year, true
}
