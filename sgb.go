package savings

import (
	"encoding/json"

	"github.com/etnz/savings/date"
	"github.com/shopspring/decimal"
)

// SGBCouponRate is the annual coupon, in percent of the issue value, of a
// sovereign gold bond. It is paid in two halves every six months.
const SGBCouponRate = 2.5

var sgbHalfCoupon = decimal.NewFromFloat(SGBCouponRate).Shift(-2).Div(decimal.NewFromInt(2))

// SGBHolding is a lot of sovereign gold bonds.
type SGBHolding struct {
	ID           ID
	Series       string
	Date         date.Date
	Units        Quantity
	IssuePrice   Money
	CurrentPrice Money
	MaturityDate date.Date

	extra extras
}

var sgbHoldingFields = []string{"id", "series", "date", "units", "issuePrice", "currentPrice", "maturityDate"}

// MarshalJSON implements the json.Marshaler interface for SGBHolding.
func (h SGBHolding) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("id", h.ID)
	w.Append("series", h.Series)
	w.Append("date", h.Date)
	w.Append("units", h.Units)
	w.Append("issuePrice", h.IssuePrice)
	w.Append("currentPrice", h.CurrentPrice)
	w.Append("maturityDate", h.MaturityDate)
	w.Extras(h.extra)
	return w.MarshalJSON()
}

// UnmarshalJSON implements the json.Unmarshaler interface for SGBHolding.
func (h *SGBHolding) UnmarshalJSON(data []byte) error {
	var temp struct {
		ID           ID        `json:"id"`
		Series       string    `json:"series"`
		Date         date.Date `json:"date"`
		Units        Quantity  `json:"units"`
		IssuePrice   Money     `json:"issuePrice"`
		CurrentPrice Money     `json:"currentPrice"`
		MaturityDate date.Date `json:"maturityDate"`
	}
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}
	extra, err := decodeExtras(data, sgbHoldingFields...)
	if err != nil {
		return err
	}
	*h = SGBHolding{
		ID:           temp.ID,
		Series:       temp.Series,
		Date:         temp.Date,
		Units:        temp.Units,
		IssuePrice:   temp.IssuePrice,
		CurrentPrice: temp.CurrentPrice,
		MaturityDate: temp.MaturityDate,
		extra:        extra,
	}
	return nil
}

func (h SGBHolding) Invested() Money { return h.IssuePrice.Mul(h.Units) }
func (h SGBHolding) Value() Money    { return h.CurrentPrice.Mul(h.Units) }

// CouponDates returns the coupon dates of the lot up to asOf: every six
// months after the purchase, until maturity. Coupons of a lot bought at the end
// of a month fall on the last day of shorter months.
func (h SGBHolding) CouponDates(asOf date.Date) []date.Date {
	if !h.Date.IsValid() {
		return nil
	}
	end := asOf
	if h.MaturityDate.IsValid() {
		end = date.Min(asOf, h.MaturityDate)
	}
	var dates []date.Date
	for k := 1; ; k++ {
		on := h.Date.AddMonthClamped(6 * k)
		if on.After(end) {
			break
		}
		dates = append(dates, on)
	}
	return dates
}

// Coupon returns the amount of one half-yearly coupon.
func (h SGBHolding) Coupon() Money { return h.Invested().Scale(sgbHalfCoupon).Round(2) }

// SGBInterestTx is a coupon received on an SGB account.
type SGBInterestTx struct {
	ID      ID
	Date    date.Date
	Amount  Money
	Remarks string

	extra extras
}

var sgbInterestTxFields = []string{"id", "date", "amount", "remarks"}

// MarshalJSON implements the json.Marshaler interface for SGBInterestTx.
func (tx SGBInterestTx) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("id", tx.ID)
	w.Append("date", tx.Date)
	w.Append("amount", tx.Amount)
	w.Optional("remarks", tx.Remarks)
	w.Extras(tx.extra)
	return w.MarshalJSON()
}

// UnmarshalJSON implements the json.Unmarshaler interface for SGBInterestTx.
func (tx *SGBInterestTx) UnmarshalJSON(data []byte) error {
	var temp struct {
		ID      ID        `json:"id"`
		Date    date.Date `json:"date"`
		Amount  Money     `json:"amount"`
		Remarks string    `json:"remarks"`
	}
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}
	extra, err := decodeExtras(data, sgbInterestTxFields...)
	if err != nil {
		return err
	}
	*tx = SGBInterestTx{ID: temp.ID, Date: temp.Date, Amount: temp.Amount, Remarks: temp.Remarks, extra: extra}
	return nil
}

// SGBAccount groups the gold bond lots of a demat account and the coupons
// credited for them.
type SGBAccount struct {
	ID                   ID
	Holdings             []SGBHolding
	InterestTransactions []SGBInterestTx

	extra extras
}

// InterestReceived returns the sum of the coupons credited.
func (a SGBAccount) InterestReceived() Money {
	var total Money
	for _, tx := range a.InterestTransactions {
		total = total.Add(tx.Amount)
	}
	return total
}

// ExpectedInterest returns the coupons due by asOf according to the lots.
func (a SGBAccount) ExpectedInterest(asOf date.Date) Money {
	var total Money
	for _, h := range a.Holdings {
		for range h.CouponDates(asOf) {
			total = total.Add(h.Coupon())
		}
	}
	return total
}

// Totals returns the issue value of the lots and their market value. Coupons
// count as income.
func (a SGBAccount) Totals() Totals {
	var invested, value Money
	for _, h := range a.Holdings {
		invested = invested.Add(h.Invested())
		value = value.Add(h.Value())
	}
	t := NewTotals(invested, value)
	t.Income = a.InterestReceived()
	return t
}

var sgbAccountFields = []string{"id", "holdings", "interestTransactions"}

// MarshalJSON implements the json.Marshaler interface for SGBAccount.
func (a SGBAccount) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("id", a.ID)
	w.Append("holdings", nonNil(a.Holdings))
	w.Append("interestTransactions", nonNil(a.InterestTransactions))
	w.Extras(a.extra)
	return w.MarshalJSON()
}

// UnmarshalJSON implements the json.Unmarshaler interface for SGBAccount.
func (a *SGBAccount) UnmarshalJSON(data []byte) error {
	var temp struct {
		ID                   ID              `json:"id"`
		Holdings             []SGBHolding    `json:"holdings"`
		InterestTransactions []SGBInterestTx `json:"interestTransactions"`
	}
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}
	extra, err := decodeExtras(data, sgbAccountFields...)
	if err != nil {
		return err
	}
	*a = SGBAccount{ID: temp.ID, Holdings: temp.Holdings, InterestTransactions: temp.InterestTransactions, extra: extra}
	return nil
}
