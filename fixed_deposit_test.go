package savings

import (
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/etnz/savings/date"
)

func TestFixedDeposit_Accrue(t *testing.T) {
	fd := FixedDeposit{
		ID:             "fd-1",
		StartDate:      date.MustParse("2023-01-01"),
		EndDate:        date.MustParse("2024-01-01"),
		OriginalAmount: M(100000),
		InterestRate:   7,
	}

	term := date.YearFraction(fd.StartDate, fd.EndDate)
	oracle := M(100000 * math.Pow(1+0.07/4, 4*term)).Round(0)

	testCases := []struct {
		name        string
		asOf        string
		wantAccrued Money
	}{
		{name: "before start", asOf: "2022-06-01", wantAccrued: M(0)},
		{name: "mid term", asOf: "2023-07-01", wantAccrued: M(3499)},
		{name: "at maturity", asOf: "2024-01-01", wantAccrued: oracle.Sub(M(100000))},
		{name: "after maturity", asOf: "2030-01-01", wantAccrued: oracle.Sub(M(100000))},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := fd.Accrue(date.MustParse(tc.asOf))
			if err != nil {
				t.Fatalf("Accrue() error: %v", err)
			}
			if !got.MaturityAmount().Equal(oracle) {
				t.Errorf("MaturityAmount() = %v, want %v", got.MaturityAmount(), oracle)
			}
			if !got.InterestEarned().Equal(oracle.Sub(M(100000))) {
				t.Errorf("InterestEarned() = %v, want %v", got.InterestEarned(), oracle.Sub(M(100000)))
			}
			if !got.AccruedInterest().Equal(tc.wantAccrued) {
				t.Errorf("AccruedInterest() = %v, want %v", got.AccruedInterest(), tc.wantAccrued)
			}
			if want := M(100000).Add(tc.wantAccrued); !got.CurrentValue().Equal(want) {
				t.Errorf("CurrentValue() = %v, want %v", got.CurrentValue(), want)
			}
		})
	}
}

func TestFixedDeposit_AccrueInvalidDates(t *testing.T) {
	fd := FixedDeposit{ID: "fd-2", StartDate: date.Invalid("tomorrow"), EndDate: date.MustParse("2024-01-01"), OriginalAmount: M(1000), InterestRate: 7}
	got, err := fd.Accrue(date.MustParse("2023-06-01"))
	if !errors.Is(err, ErrInvalidDate) {
		t.Errorf("Accrue() error = %v, want ErrInvalidDate", err)
	}
	if !got.MaturityAmount().IsZero() || got.StartDate.String() != "tomorrow" {
		t.Errorf("Accrue() changed an invalid deposit: %+v", got)
	}
}

func TestYearlyBreakdown(t *testing.T) {
	deposits := []FixedDeposit{
		{ID: "a", StartDate: date.MustParse("2023-07-01"), EndDate: date.MustParse("2025-07-01"), OriginalAmount: M(100000), InterestRate: 7},
		{ID: "b", StartDate: date.Invalid("n/a"), EndDate: date.MustParse("2025-07-01"), OriginalAmount: M(5000), InterestRate: 7},
	}
	want := []YearlyInterest{
		{Year: 2023, Interest: M(3558)},
		{Year: 2024, Interest: M(7457)},
		{Year: 2025, Interest: M(3884)},
	}

	got := YearlyBreakdown(deposits)
	if len(got) != len(want) {
		t.Fatalf("YearlyBreakdown() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i].Year != want[i].Year || !got[i].Interest.Equal(want[i].Interest) {
			t.Errorf("YearlyBreakdown()[%d] = %v, want %v", i, got[i], want[i])
		}
	}

	// Both deposits together earn twice as much.
	twice := YearlyBreakdown([]FixedDeposit{deposits[0], deposits[0]})
	if !twice[1].Interest.Equal(M(14915)) {
		t.Errorf("YearlyBreakdown() of two deposits in 2024 = %v, want 14915", twice[1].Interest)
	}
}

func TestFixedDeposit_Renew(t *testing.T) {
	fd := FixedDeposit{
		ID:             "fd-1",
		AccountNo:      "0042",
		Bank:           "SBI",
		StartDate:      date.MustParse("2023-01-01"),
		EndDate:        date.MustParse("2024-01-01"),
		OriginalAmount: M(100000),
		InterestRate:   7,
		TDS:            M(700),
		RenewalCount:   2,
	}
	fd, err := fd.Accrue(date.MustParse("2024-02-01"))
	if err != nil {
		t.Fatalf("Accrue() error: %v", err)
	}

	renewed := fd.Renew("fd-2")
	if renewed.ID != "fd-2" || renewed.StartDate != fd.EndDate || !renewed.OriginalAmount.Equal(fd.MaturityAmount()) || renewed.RenewalCount != 3 {
		t.Errorf("Renew() = %+v", renewed)
	}
	if renewed.EndDate.IsValid() || renewed.InterestRate != 0 || !renewed.TDS.IsZero() || renewed.Bank != "" {
		t.Errorf("Renew() kept terms that must be entered again: %+v", renewed)
	}
	if r := fd.Renew(""); r.ID == "" {
		t.Errorf("Renew(\"\") did not assign an id")
	}
}

func TestFixedDeposit_NetInterestAndMaturity(t *testing.T) {
	fd, _ := FixedDeposit{
		StartDate:      date.MustParse("2023-01-01"),
		EndDate:        date.MustParse("2024-01-01"),
		OriginalAmount: M(100000),
		InterestRate:   7,
		TDS:            M(181),
	}.Accrue(date.MustParse("2023-03-01"))

	if got := fd.NetInterest(); !got.Equal(fd.InterestEarned().Sub(M(181))) {
		t.Errorf("NetInterest() = %v", got)
	}
	if fd.IsMatured(date.MustParse("2023-12-31")) {
		t.Errorf("IsMatured() the day before the end date")
	}
	if !fd.IsMatured(date.MustParse("2024-01-01")) {
		t.Errorf("IsMatured() false on the end date")
	}
}

func TestFixedDeposit_JSON(t *testing.T) {
	in := `{"id":3,"accountNo":"77","bank":"HDFC","startDate":"01-01-2023","endDate":"2024-01-01","originalAmount":"100000","interestRate":7,"interestEarned":0,"tds":"","renewalCount":1,"nominee":"A"}`
	var fd FixedDeposit
	if err := json.Unmarshal([]byte(in), &fd); err != nil {
		t.Fatalf("Unmarshal error: %v", err)
	}
	if fd.ID != "3" || fd.StartDate != date.MustParse("2023-01-01") || fd.RenewalCount != 1 || fd.InterestRate != 7 {
		t.Fatalf("Unmarshal = %+v", fd)
	}
	fd, err := fd.Accrue(date.MustParse("2025-01-01"))
	if err != nil {
		t.Fatalf("Accrue() error: %v", err)
	}
	out, err := json.Marshal(fd)
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}
	for _, want := range []string{`"maturityAmount":107181`, `"startDate":"2023-01-01"`, `"nominee":"A"`, `"renewalCount":1`} {
		if !strings.Contains(string(out), want) {
			t.Errorf("Marshal() = %s, missing %s", out, want)
		}
	}
}
