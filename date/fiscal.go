package date

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// FinancialYear is an April to March accounting year, identified by the
// calendar year in which it starts.
type FinancialYear int

// FinancialYearOf returns the financial year containing d: April onwards
// belongs to the year starting in d's calendar year.
func FinancialYearOf(d Date) FinancialYear {
	if d.Month() >= time.April {
		return FinancialYear(d.Year())
	}
	return FinancialYear(d.Year() - 1)
}

// Start returns April 1st.
func (fy FinancialYear) Start() Date { return New(int(fy), time.April, 1) }

// End returns March 31st of the following calendar year.
func (fy FinancialYear) End() Date { return New(int(fy)+1, time.March, 31) }

// Range returns the days of the financial year.
func (fy FinancialYear) Range() Range { return Range{From: fy.Start(), To: fy.End()} }

// Next returns the following financial year.
func (fy FinancialYear) Next() FinancialYear { return fy + 1 }

// String returns the "YYYY-YY" form, e.g. "2023-24".
func (fy FinancialYear) String() string {
	return fmt.Sprintf("%d-%02d", int(fy), (int(fy)+1)%100)
}

// ParseFinancialYear parses "2023-24", "2023-2024" or a bare starting year "2023".
func ParseFinancialYear(str string) (FinancialYear, error) {
	str = strings.TrimSpace(str)
	start, end, hasEnd := strings.Cut(str, "-")
	y, err := strconv.Atoi(start)
	if err != nil || len(start) != 4 {
		return 0, fmt.Errorf("invalid financial year %q want format %q", str, "YYYY-YY")
	}
	if hasEnd {
		e, err := strconv.Atoi(end)
		if err != nil {
			return 0, fmt.Errorf("invalid financial year %q want format %q", str, "YYYY-YY")
		}
		switch len(end) {
		case 2:
			if e != (y+1)%100 {
				return 0, fmt.Errorf("invalid financial year %q: %d does not follow %d", str, e, y)
			}
		case 4:
			if e != y+1 {
				return 0, fmt.Errorf("invalid financial year %q: %d does not follow %d", str, e, y)
			}
		default:
			return 0, fmt.Errorf("invalid financial year %q want format %q", str, "YYYY-YY")
		}
	}
	return FinancialYear(y), nil
}

// MarshalText writes the "YYYY-YY" form.
func (fy FinancialYear) MarshalText() ([]byte, error) { return []byte(fy.String()), nil }

// UnmarshalText reads any form accepted by ParseFinancialYear.
func (fy *FinancialYear) UnmarshalText(text []byte) error {
	v, err := ParseFinancialYear(string(text))
	if err != nil {
		return err
	}
	*fy = v
	return nil
}
