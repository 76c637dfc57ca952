// Package date provides a day-granularity Date type and the calendar arithmetic
// shared by every accrual calculator: lenient parsing, year fractions, financial
// years and ranges.
package date

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

const readDateFormat = "2006-1-2" // Permissive read date format (allows single-digit month/day).

// dayFirstFormat is the DD-MM-YYYY form used by manual entries.
const dayFirstFormat = "2-1-2006"

// DateFormat is the format used to represent dates as strings in ISO-8601 format.
const DateFormat = "2006-01-02"

// DisplayFormat is the DD-MM-YYYY format used in reports.
const DisplayFormat = "02-01-2006"

const Day = 24 * time.Hour

// daysPerYear is the day-count convention used by every year fraction.
const daysPerYear = 365.25

// Date represents a date with day-level granularity.
//
// The zero Date is invalid. A Date parsed from malformed text is invalid too, but
// remembers that text so it can be written back unmodified.
type Date struct {
	y   int
	m   time.Month
	d   int
	raw string // original text of an invalid date
}

// New returns a normalized Date for the given year, month, and day.
func New(year int, month time.Month, day int) Date {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	y, m, d := t.Date()
	return Date{y: y, m: m, d: d}
}

// Invalid returns an invalid Date that echoes str.
func Invalid(str string) Date { return Date{raw: str} }

// Today returns the current date, using local calendar components.
func Today() Date { return New(time.Now().Date()) }

// IsValid reports whether d denotes an actual day.
func (d Date) IsValid() bool { return d.m != 0 }

// Year returns current year.
func (d Date) Year() int { return d.y }

// Month returns the month of the date.
func (d Date) Month() time.Month { return d.m }

// Day returns current day of the month.
func (d Date) Day() int { return d.d }

// time returns a time.Time that is a canonical representation of that day (at midnight UTC).
func (d Date) time() time.Time { return time.Date(d.y, d.m, d.d, 0, 0, 0, 0, time.UTC) }

// String format the date in its standard format, or echoes the original text of
// an invalid date.
func (d Date) String() string {
	if !d.IsValid() {
		return d.raw
	}
	return d.time().Format(DateFormat)
}

// Format formats a valid date with a time layout. Invalid dates echo their text.
func (d Date) Format(layout string) string {
	if !d.IsValid() {
		return d.raw
	}
	return d.time().Format(layout)
}

// Before reports whether the day d is before x.
func (d Date) Before(x Date) bool { return d.time().Before(x.time()) }

// After reports whether the day d is after x.
func (d Date) After(x Date) bool { return d.time().After(x.time()) }

// Compare returns -1, 0 or +1 depending on whether d is before, equal to or after x.
func (d Date) Compare(x Date) int { return d.time().Compare(x.time()) }

// Add returns a new Date with the given number of days added.
func (d Date) Add(days int) Date { return New(d.y, d.m, d.d+days) }

// AddMonth returns a new Date with the given number of months added.
func (d Date) AddMonth(months int) Date { return New(d.y, d.m+time.Month(months), d.d) }

// AddMonthClamped is like AddMonth but stays in the target month: the day is
// clamped to its last day, so Aug 31 plus 6 months is Feb 28.
func (d Date) AddMonthClamped(months int) Date {
	first := New(d.y, d.m+time.Month(months), 1)
	last := first.AddMonth(1).Add(-1).d
	return New(first.y, first.m, min(d.d, last))
}

// Sub returns the number of days from x to d.
func (d Date) Sub(x Date) int { return int(d.time().Sub(x.time()) / Day) }

// Min returns the earliest of a and b.
func Min(a, b Date) Date {
	if b.Before(a) {
		return b
	}
	return a
}

// Max returns the latest of a and b.
func Max(a, b Date) Date {
	if b.After(a) {
		return b
	}
	return a
}

// YearFraction returns the number of years from start to end, counting
// 365.25 days per year. It is negative when end is before start.
func YearFraction(start, end Date) float64 {
	return float64(end.Sub(start)) / daysPerYear
}

// Parse parses a Date from a string.
//
// It accepts ISO dates (lenient, "2025-7-1" is fine), day-first dates
// ("05-01-2024") and RFC 3339 timestamps, the latter being converted to the local
// calendar day.
func Parse(str string) (Date, error) {
	str = strings.TrimSpace(str)
	if str == "" {
		return Date{}, fmt.Errorf("empty date")
	}
	if on, err := time.Parse(readDateFormat, str); err == nil {
		return New(on.Date()), nil
	}
	if on, err := time.Parse(dayFirstFormat, str); err == nil {
		return New(on.Date()), nil
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05.000-0700", "2006-01-02T15:04:05"} {
		if on, err := time.ParseInLocation(layout, str, time.Local); err == nil {
			return New(on.In(time.Local).Date()), nil
		}
	}
	return Date{}, fmt.Errorf("invalid date %q want format %q or %q", str, DateFormat, "DD-MM-YYYY")
}

// ParseFlexible is like Parse but never fails: malformed text yields an invalid
// Date that echoes it.
func ParseFlexible(str string) Date {
	d, err := Parse(str)
	if err != nil {
		return Invalid(str)
	}
	return d
}

// MustParse is like Parse but panics on error.
func MustParse(str string) Date {
	d, err := Parse(str)
	if err != nil {
		panic(err.Error())
	}
	return d
}

// UnmarshalJSON reads a date from a json string. Malformed dates are kept as
// invalid dates rather than reported, so one bad record never fails a decode.
func (d *Date) UnmarshalJSON(bytes []byte) error {
	var str string
	if err := json.Unmarshal(bytes, &str); err != nil {
		return err
	}
	*d = ParseFlexible(str)
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// check that a Date pointer is a valid json marshall/unmarshaller type.
var _ json.Marshaler = (*Date)(nil)
var _ json.Unmarshaler = (*Date)(nil)
