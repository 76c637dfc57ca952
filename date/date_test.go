package date

import (
	"encoding/json"
	"math"
	"testing"
	"time"
)

// TestTime assert that the time() is cannonical and gives comparable times.
func TestTime(t *testing.T) {
	d1 := New(2025, 7, 31)
	d2 := New(2025, 7, 31)

	if d1.time() != d2.time() {
		t.Errorf("invalid time() function same day gives two different time")
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		input    string
		expected Date
		err      bool
	}{
		{"2025-01-15", New(2025, time.January, 15), false},
		{"2025-7-1", New(2025, time.July, 1), false},
		{"05-01-2024", New(2024, time.January, 5), false},
		{"5-1-2024", New(2024, time.January, 5), false},
		{" 2024-02-29 ", New(2024, time.February, 29), false},
		{"2024-03-10T10:00:00", New(2024, time.March, 10), false},
		{"invalid-date", Date{}, true},
		{"2024-13-01", Date{}, true},
		{"", Date{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := Parse(tt.input)
			if (err != nil) != tt.err {
				t.Errorf("Parse(%q) error = %v, wantErr %v", tt.input, err, tt.err)
				return
			}
			if !tt.err && got != tt.expected {
				t.Errorf("Parse(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestParseFlexible(t *testing.T) {
	d := ParseFlexible("31/12/2023")
	if d.IsValid() {
		t.Fatalf("ParseFlexible(%q) is valid, want invalid", "31/12/2023")
	}
	if got := d.String(); got != "31/12/2023" {
		t.Errorf("invalid date String() = %q, want the original text", got)
	}
	if got := d.Format(DisplayFormat); got != "31/12/2023" {
		t.Errorf("invalid date Format() = %q, want the original text", got)
	}
	if !ParseFlexible("2023-12-31").IsValid() {
		t.Errorf("ParseFlexible(2023-12-31) should be valid")
	}
}

func TestDate_JSON(t *testing.T) {
	tests := []struct {
		name  string
		json  string
		want  Date
		write string
	}{
		{"iso", `"2024-04-05"`, New(2024, time.April, 5), `"2024-04-05"`},
		{"day first", `"05-04-2024"`, New(2024, time.April, 5), `"2024-04-05"`},
		{"malformed is echoed", `"soon"`, Invalid("soon"), `"soon"`},
		{"empty", `""`, Invalid(""), `""`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var got Date
			if err := json.Unmarshal([]byte(tc.json), &got); err != nil {
				t.Fatalf("Unmarshal(%s) error: %v", tc.json, err)
			}
			if got != tc.want {
				t.Errorf("Unmarshal(%s) = %#v, want %#v", tc.json, got, tc.want)
			}
			out, err := json.Marshal(got)
			if err != nil {
				t.Fatalf("Marshal error: %v", err)
			}
			if string(out) != tc.write {
				t.Errorf("Marshal() = %s, want %s", out, tc.write)
			}
		})
	}
}

func TestYearFraction(t *testing.T) {
	tests := []struct {
		name       string
		start, end Date
		want       float64
	}{
		{"one leap year", New(2024, 1, 1), New(2025, 1, 1), 366 / 365.25},
		{"one common year", New(2023, 1, 1), New(2024, 1, 1), 365 / 365.25},
		{"same day", New(2023, 1, 1), New(2023, 1, 1), 0},
		{"reversed", New(2023, 1, 11), New(2023, 1, 1), -10 / 365.25},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := YearFraction(tc.start, tc.end); math.Abs(got-tc.want) > 1e-12 {
				t.Errorf("YearFraction(%s, %s) = %v, want %v", tc.start, tc.end, got, tc.want)
			}
		})
	}
}

func TestDate_Sub(t *testing.T) {
	if got := New(2024, time.March, 1).Sub(New(2024, time.February, 1)); got != 29 {
		t.Errorf("Sub() = %d, want 29", got)
	}
}

func TestMinMax(t *testing.T) {
	a, b := New(2024, 1, 1), New(2024, 6, 1)
	if Min(a, b) != a || Min(b, a) != a {
		t.Errorf("Min is not the earliest date")
	}
	if Max(a, b) != b || Max(b, a) != b {
		t.Errorf("Max is not the latest date")
	}
}

func TestDate_AddMonthClamped(t *testing.T) {
	tests := []struct {
		d      Date
		months int
		want   Date
	}{
		{New(2020, time.August, 31), 6, New(2021, time.February, 28)},
		{New(2023, time.August, 31), 6, New(2024, time.February, 29)},
		{New(2024, time.January, 31), 3, New(2024, time.April, 30)},
		{New(2024, time.January, 15), 1, New(2024, time.February, 15)},
		{New(2024, time.November, 30), 2, New(2025, time.January, 30)},
	}
	for _, tt := range tests {
		if got := tt.d.AddMonthClamped(tt.months); got != tt.want {
			t.Errorf("%v.AddMonthClamped(%d) = %v, want %v", tt.d, tt.months, got, tt.want)
		}
	}
}

func TestStartOfEndOf(t *testing.T) {
	d := New(2024, time.February, 15)
	tests := []struct {
		period     Period
		start, end Date
	}{
		{Daily, d, d},
		{Monthly, New(2024, 2, 1), New(2024, 2, 29)},
		{Quarterly, New(2024, 1, 1), New(2024, 3, 31)},
		{Yearly, New(2024, 1, 1), New(2024, 12, 31)},
	}
	for _, tc := range tests {
		t.Run(tc.period.String(), func(t *testing.T) {
			if got := d.StartOf(tc.period); got != tc.start {
				t.Errorf("StartOf(%v) = %v, want %v", tc.period, got, tc.start)
			}
			if got := d.EndOf(tc.period); got != tc.end {
				t.Errorf("EndOf(%v) = %v, want %v", tc.period, got, tc.end)
			}
		})
	}
}

func TestRange_Days(t *testing.T) {
	r := Range{From: New(2024, 2, 27), To: New(2024, 3, 2)}
	var got []Date
	for d := range r.Days() {
		got = append(got, d)
	}
	if len(got) != 5 {
		t.Fatalf("Days() yielded %d days, want 5", len(got))
	}
	if got[2] != New(2024, 2, 29) {
		t.Errorf("third day = %v, want 2024-02-29", got[2])
	}
	if !r.Contains(New(2024, 3, 2)) || r.Contains(New(2024, 3, 3)) {
		t.Errorf("Contains does not include exactly the boundaries")
	}
}
