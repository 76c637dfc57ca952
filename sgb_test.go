package savings

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/etnz/savings/date"
)

func TestSGBAccount(t *testing.T) {
	a := SGBAccount{
		ID: "sgb",
		Holdings: []SGBHolding{{
			ID:           "lot",
			Series:       "2019-20 Series VIII",
			Date:         date.MustParse("2020-01-10"),
			Units:        Q(10),
			IssuePrice:   M(5000),
			CurrentPrice: M(6000),
			MaturityDate: date.MustParse("2028-01-10"),
		}},
		InterestTransactions: []SGBInterestTx{
			{ID: "c1", Date: date.MustParse("2020-07-10"), Amount: M(625)},
			{ID: "c2", Date: date.MustParse("2021-01-10"), Amount: M(625)},
		},
	}

	h := a.Holdings[0]
	if got := h.CouponDates(date.MustParse("2021-07-10")); len(got) != 3 || got[2] != date.MustParse("2021-07-10") {
		t.Errorf("CouponDates() = %v", got)
	}
	if got := len(h.CouponDates(date.MustParse("2040-01-01"))); got != 16 {
		t.Errorf("CouponDates() after maturity has %d coupons, want 16", got)
	}
	if !h.Coupon().Equal(M(625)) {
		t.Errorf("Coupon() = %v, want 625", h.Coupon())
	}
	if got := a.ExpectedInterest(date.MustParse("2021-07-10")); !got.Equal(M(1875)) {
		t.Errorf("ExpectedInterest() = %v, want 1875", got)
	}

	totals := a.Totals()
	if !totals.Invested.Equal(M(50000)) || !totals.Current.Equal(M(60000)) || !totals.Income.Equal(M(1250)) {
		t.Errorf("Totals() = %+v", totals)
	}
	if !totals.Gain.Equal(M(11250)) {
		t.Errorf("Gain = %v, want 11250", totals.Gain)
	}
}

func TestSGBHolding_CouponDatesMonthEnd(t *testing.T) {
	h := SGBHolding{
		ID:           "lot",
		Date:         date.MustParse("2020-08-31"),
		Units:        Q(1),
		IssuePrice:   M(5000),
		MaturityDate: date.MustParse("2028-08-31"),
	}
	want := []date.Date{
		date.MustParse("2021-02-28"),
		date.MustParse("2021-08-31"),
		date.MustParse("2022-02-28"),
		date.MustParse("2022-08-31"),
	}
	got := h.CouponDates(date.MustParse("2022-08-31"))
	if len(got) != len(want) {
		t.Fatalf("CouponDates() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("coupon #%d on %v, want %v", i+1, got[i], want[i])
		}
	}
}

func TestSGBAccount_JSON(t *testing.T) {
	in := `{"id":4,"holdings":[{"id":1,"series":"S1","date":"10-01-2020","units":"10","issuePrice":5000,"currentPrice":6100,"maturityDate":"2028-01-10"}],"interestTransactions":[],"broker":"Zerodha"}`
	var a SGBAccount
	if err := json.Unmarshal([]byte(in), &a); err != nil {
		t.Fatalf("Unmarshal error: %v", err)
	}
	if a.Holdings[0].Date != date.MustParse("2020-01-10") || !a.Holdings[0].Value().Equal(M(61000)) {
		t.Errorf("Unmarshal = %+v", a)
	}
	out, err := json.Marshal(a)
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}
	if !strings.Contains(string(out), `"broker":"Zerodha"`) || !strings.Contains(string(out), `"interestTransactions":[]`) {
		t.Errorf("Marshal() = %s", out)
	}
}

func TestSGBAccount_JSONNestedExtras(t *testing.T) {
	in := `{"id":"sgb","holdings":[{"id":"lot","series":"S1","date":"2020-01-10","units":1,"issuePrice":5000,"currentPrice":6000,"maturityDate":"2028-01-10","folio":"F-1"}],"interestTransactions":[{"id":"c1","date":"2020-07-10","amount":62.5,"creditedTo":"savings"}]}`
	var a SGBAccount
	if err := json.Unmarshal([]byte(in), &a); err != nil {
		t.Fatalf("Unmarshal error: %v", err)
	}
	out, err := json.Marshal(a)
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}
	want := `{"id":"sgb","holdings":[{"id":"lot","series":"S1","date":"2020-01-10","units":1,"issuePrice":5000,"currentPrice":6000,"maturityDate":"2028-01-10","folio":"F-1"}],"interestTransactions":[{"id":"c1","date":"2020-07-10","amount":62.5,"creditedTo":"savings"}]}`
	if string(out) != want {
		t.Errorf("Marshal() = %s, want %s", out, want)
	}
}
