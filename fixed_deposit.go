package savings

import (
	"encoding/json"
	"fmt"
	"maps"
	"math"
	"slices"

	"github.com/etnz/savings/date"
)

// compoundingPerYear is the number of quarterly compounding periods in a year.
const compoundingPerYear = 4

// FixedDeposit is a term deposit compounding quarterly.
//
// The interest and value fields are derived from the principal, the rate and
// the dates by Accrue.
type FixedDeposit struct {
	ID             ID
	AccountNo      string
	Bank           string
	StartDate      date.Date
	EndDate        date.Date
	OriginalAmount Money
	InterestRate   float64 // annual, in percent
	TDS            Money
	RenewalCount   int

	interestEarned  Money
	maturityAmount  Money
	currentValue    Money
	accruedInterest Money
	extra           extras
}

func (fd FixedDeposit) InterestEarned() Money  { return fd.interestEarned }
func (fd FixedDeposit) MaturityAmount() Money  { return fd.maturityAmount }
func (fd FixedDeposit) CurrentValue() Money    { return fd.currentValue }
func (fd FixedDeposit) AccruedInterest() Money { return fd.accruedInterest }

// NetInterest returns the interest earned at maturity after tax deducted at source.
func (fd FixedDeposit) NetInterest() Money { return fd.interestEarned.Sub(fd.TDS) }

// IsMatured reports whether the deposit has reached its end date on asOf.
func (fd FixedDeposit) IsMatured(asOf date.Date) bool {
	return fd.EndDate.IsValid() && !asOf.Before(fd.EndDate)
}

// valueAt returns the value of the deposit t years after its start.
func (fd FixedDeposit) valueAt(t float64) float64 {
	p := fd.OriginalAmount.Float64()
	return p * math.Pow(1+fd.InterestRate/100/compoundingPerYear, compoundingPerYear*t)
}

// Accrue returns the deposit with its maturity and accrued values computed as
// of asOf. Values are rounded to whole currency units.
//
// A deposit with an invalid start or end date is returned unchanged, with an
// error wrapping ErrInvalidDate.
func (fd FixedDeposit) Accrue(asOf date.Date) (FixedDeposit, error) {
	if !fd.StartDate.IsValid() || !fd.EndDate.IsValid() {
		return fd, fmt.Errorf("fixed deposit %q from %q to %q: %w", fd.ID, fd.StartDate, fd.EndDate, ErrInvalidDate)
	}
	term := max(0, date.YearFraction(fd.StartDate, fd.EndDate))
	elapsed := max(0, date.YearFraction(fd.StartDate, date.Min(asOf, fd.EndDate)))

	principal := fd.OriginalAmount
	maturity := fromFloat(fd.valueAt(term))
	accrued := fromFloat(fd.valueAt(elapsed))

	fd.interestEarned = maturity.Sub(principal).Round(0)
	fd.maturityAmount = maturity.Round(0)
	fd.accruedInterest = accrued.Sub(principal).Round(0)
	fd.currentValue = principal.Add(fd.accruedInterest)
	return fd, nil
}

// Renew returns the deposit that continues fd at maturity: it starts on fd's
// end date with fd's maturity amount as principal. Everything else is left
// empty until the new terms are known.
func (fd FixedDeposit) Renew(id ID) FixedDeposit {
	if id == "" {
		id = NewID()
	}
	return FixedDeposit{
		ID:             id,
		StartDate:      fd.EndDate,
		OriginalAmount: fd.maturityAmount,
		RenewalCount:   fd.RenewalCount + 1,
	}
}

// YearlyInterest is the interest earned during a calendar year.
type YearlyInterest struct {
	Year     int
	Interest Money
}

// YearlyBreakdown splits the interest of the deposits by calendar year.
// Deposits with invalid dates are skipped.
func YearlyBreakdown(deposits []FixedDeposit) []YearlyInterest {
	perYear := make(map[int]float64)
	for _, fd := range deposits {
		if !fd.StartDate.IsValid() || !fd.EndDate.IsValid() || fd.EndDate.Before(fd.StartDate) {
			continue
		}
		for y := fd.StartDate.Year(); y <= fd.EndDate.Year(); y++ {
			from := date.Max(fd.StartDate, date.New(y, 1, 1))
			to := date.Min(fd.EndDate, date.New(y+1, 1, 1))
			if !from.Before(to) {
				continue
			}
			vStart := fd.valueAt(date.YearFraction(fd.StartDate, from))
			vEnd := fd.valueAt(date.YearFraction(fd.StartDate, to))
			perYear[y] += vEnd - vStart
		}
	}

	breakdown := make([]YearlyInterest, 0, len(perYear))
	for _, y := range slices.Sorted(maps.Keys(perYear)) {
		breakdown = append(breakdown, YearlyInterest{Year: y, Interest: fromFloat(perYear[y]).Round(0)})
	}
	return breakdown
}

// Totals returns the principal and the value accrued so far.
func (fd FixedDeposit) Totals() Totals {
	return NewTotals(fd.OriginalAmount, fd.currentValue)
}

var fixedDepositFields = []string{"id", "accountNo", "bank", "startDate", "endDate", "originalAmount", "interestRate",
	"interestEarned", "maturityAmount", "currentValue", "accruedInterest", "tds", "renewalCount"}

// MarshalJSON implements the json.Marshaler interface for FixedDeposit.
func (fd FixedDeposit) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("id", fd.ID)
	w.Append("accountNo", fd.AccountNo)
	w.Append("bank", fd.Bank)
	w.Append("startDate", fd.StartDate)
	w.Append("endDate", fd.EndDate)
	w.Append("originalAmount", fd.OriginalAmount)
	w.Append("interestRate", fd.InterestRate)
	w.Append("interestEarned", fd.interestEarned)
	w.Append("maturityAmount", fd.maturityAmount)
	w.Append("currentValue", fd.currentValue)
	w.Append("accruedInterest", fd.accruedInterest)
	w.Append("tds", fd.TDS)
	w.Append("renewalCount", fd.RenewalCount)
	w.Extras(fd.extra)
	return w.MarshalJSON()
}

// UnmarshalJSON implements the json.Unmarshaler interface for FixedDeposit.
func (fd *FixedDeposit) UnmarshalJSON(data []byte) error {
	var temp struct {
		ID              ID        `json:"id"`
		AccountNo       string    `json:"accountNo"`
		Bank            string    `json:"bank"`
		StartDate       date.Date `json:"startDate"`
		EndDate         date.Date `json:"endDate"`
		OriginalAmount  Money     `json:"originalAmount"`
		InterestRate    Quantity  `json:"interestRate"`
		InterestEarned  Money     `json:"interestEarned"`
		MaturityAmount  Money     `json:"maturityAmount"`
		CurrentValue    Money     `json:"currentValue"`
		AccruedInterest Money     `json:"accruedInterest"`
		TDS             Money     `json:"tds"`
		RenewalCount    Quantity  `json:"renewalCount"`
	}
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}
	extra, err := decodeExtras(data, fixedDepositFields...)
	if err != nil {
		return err
	}
	*fd = FixedDeposit{
		ID:              temp.ID,
		AccountNo:       temp.AccountNo,
		Bank:            temp.Bank,
		StartDate:       temp.StartDate,
		EndDate:         temp.EndDate,
		OriginalAmount:  temp.OriginalAmount,
		InterestRate:    temp.InterestRate.value.InexactFloat64(),
		TDS:             temp.TDS,
		RenewalCount:    int(temp.RenewalCount.value.IntPart()),
		interestEarned:  temp.InterestEarned,
		maturityAmount:  temp.MaturityAmount,
		currentValue:    temp.CurrentValue,
		accruedInterest: temp.AccruedInterest,
		extra:           extra,
	}
	return nil
}
