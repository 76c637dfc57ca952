package savings

import (
	"errors"

	"github.com/etnz/savings/date"
)

// Totals sums up what was put in an instrument and what it is worth.
type Totals struct {
	Invested    Money
	Current     Money
	Income      Money // dividends and coupons paid out
	Gain        Money // Current + Income - Invested
	GainPercent Percent
	XIRR        Percent
	HasXIRR     bool
}

// NewTotals returns the totals of an instrument without income.
func NewTotals(invested, current Money) Totals {
	return Totals{Invested: invested, Current: current}.withGain()
}

func (t Totals) withGain() Totals {
	t.Gain = t.Current.Add(t.Income).Sub(t.Invested)
	t.GainPercent = GainPercent(t.Invested, t.Current.Add(t.Income))
	return t
}

// Add returns the sum of t and u. The XIRR is left out: it does not add up.
func (t Totals) Add(u Totals) Totals {
	return Totals{
		Invested: t.Invested.Add(u.Invested),
		Current:  t.Current.Add(u.Current),
		Income:   t.Income.Add(u.Income),
	}.withGain()
}

// GainPercent returns the gain of current over invested in percent, or 0 when
// nothing was invested.
func GainPercent(invested, current Money) Percent {
	if invested.IsZero() {
		return 0
	}
	return Percent(current.Sub(invested).Ratio(invested) * 100)
}

// Totals returns the net deposits and the balance. Interest and redeemed
// monnies are the gain.
func (a SavingsAccount) Totals() Totals {
	var invested Money
	for _, tx := range a.Transactions {
		switch tx.Type {
		case Deposit:
			invested = invested.Add(tx.Amount)
		case Withdraw:
			invested = invested.Sub(tx.Amount)
		}
	}
	return NewTotals(invested, a.amount)
}

// CashFlows returns the deposits and withdrawals, and the balance on today.
func (a SavingsAccount) CashFlows(today date.Date) []CashFlow {
	var flows []CashFlow
	for _, tx := range a.Transactions {
		switch tx.Type {
		case Deposit:
			flows = append(flows, CashFlow{Date: tx.Date, Amount: tx.Amount.Neg()})
		case Withdraw:
			flows = append(flows, CashFlow{Date: tx.Date, Amount: tx.Amount})
		}
	}
	return append(flows, CashFlow{Date: today, Amount: a.amount})
}

// CashFlows returns the principal on the start date, and the value on today or
// on maturity.
func (fd FixedDeposit) CashFlows(today date.Date) []CashFlow {
	if !fd.StartDate.IsValid() || !fd.EndDate.IsValid() {
		return nil
	}
	return []CashFlow{
		{Date: fd.StartDate, Amount: fd.OriginalAmount.Neg()},
		{Date: date.Min(today, fd.EndDate), Amount: fd.currentValue},
	}
}

// CashFlows returns the investments and the balance on today.
func (a PPFAccount) CashFlows(today date.Date) []CashFlow {
	var flows []CashFlow
	for _, e := range a.Details {
		if e.Type == PPFInvestment {
			flows = append(flows, CashFlow{Date: e.Date, Amount: e.Amount.Neg()})
		}
	}
	return append(flows, CashFlow{Date: today, Amount: a.amount})
}

// CashFlows returns purchases, sales and dividends, and the market value on
// today. A legacy holding has no dated purchase and yields its value only.
func (s Stock) CashFlows(today date.Date) []CashFlow {
	var flows []CashFlow
	for _, tx := range s.Transactions {
		switch tx.Type {
		case Buy, IPO:
			flows = append(flows, CashFlow{Date: tx.Date, Amount: tx.Price.Mul(tx.Quantity).Neg()})
		case Sell, Buyback:
			flows = append(flows, CashFlow{Date: tx.Date, Amount: tx.Price.Mul(tx.Quantity)})
		case Dividend:
			flows = append(flows, CashFlow{Date: tx.Date, Amount: tx.Price})
		}
	}
	return append(flows, CashFlow{Date: today, Amount: s.CurrentPrice.Mul(s.shares)})
}

// CashFlows returns the purchase of each lot, the coupons, and the market
// value on today.
func (a SGBAccount) CashFlows(today date.Date) []CashFlow {
	var flows []CashFlow
	var value Money
	for _, h := range a.Holdings {
		flows = append(flows, CashFlow{Date: h.Date, Amount: h.Invested().Neg()})
		value = value.Add(h.Value())
	}
	for _, tx := range a.InterestTransactions {
		flows = append(flows, CashFlow{Date: tx.Date, Amount: tx.Amount})
	}
	return append(flows, CashFlow{Date: today, Amount: value})
}

// CashFlows returns the purchase and the market value on today.
func (h MetalHolding) CashFlows(today date.Date) []CashFlow {
	return []CashFlow{
		{Date: h.Date, Amount: h.Invested().Neg()},
		{Date: today, Amount: h.Value()},
	}
}

// Book is the whole database of instruments.
type Book struct {
	Savings       []SavingsAccount
	FixedDeposits []FixedDeposit
	PPF           []PPFAccount
	Stocks        []Stock
	SGB           []SGBAccount
	Metals        []MetalHolding
}

// Recalculate runs every calculator as of today. Fixed deposits that cannot
// be accrued are kept unchanged and reported in the joined error.
func (b Book) Recalculate(today date.Date) (Book, error) {
	var errs []error
	out := Book{SGB: b.SGB, Metals: b.Metals}
	for _, a := range b.Savings {
		a, _ = a.Simulate(today)
		out.Savings = append(out.Savings, a)
	}
	for _, fd := range b.FixedDeposits {
		accrued, err := fd.Accrue(today)
		if err != nil {
			errs = append(errs, err)
		}
		out.FixedDeposits = append(out.FixedDeposits, accrued)
	}
	for _, a := range b.PPF {
		out.PPF = append(out.PPF, a.Recalculate())
	}
	for _, s := range b.Stocks {
		out.Stocks = append(out.Stocks, s.Recalculate())
	}
	return out, errors.Join(errs...)
}

// Category names of a Summary.
const (
	CategorySavings      = "Savings"
	CategoryFixedDeposit = "Fixed deposits"
	CategoryPPF          = "PPF"
	CategoryStocks       = "Stocks"
	CategorySGB          = "Gold bonds"
	CategoryMetals       = "Metals"
)

// SummaryRow is the total of a category of instruments.
type SummaryRow struct {
	Category string
	Count    int
	Totals
}

// Summary is the state of a Book on a given day.
type Summary struct {
	Date  date.Date
	Rows  []SummaryRow
	Total Totals
}

// category accumulates the totals and cash flows of the instruments of a kind.
type category struct {
	row   SummaryRow
	flows []CashFlow
}

type instrument interface {
	Totals() Totals
	CashFlows(today date.Date) []CashFlow
}

func collect[T instrument](name string, items []T, today date.Date) category {
	c := category{row: SummaryRow{Category: name, Count: len(items)}}
	for _, it := range items {
		c.row.Totals = c.row.Totals.Add(it.Totals())
		c.flows = append(c.flows, it.CashFlows(today)...)
	}
	return c
}

// Summarize totals the book as it stands. Run Recalculate first for up to date
// values. Empty categories are left out.
func (b Book) Summarize(today date.Date) Summary {
	categories := []category{
		collect(CategorySavings, b.Savings, today),
		collect(CategoryFixedDeposit, b.FixedDeposits, today),
		collect(CategoryPPF, b.PPF, today),
		collect(CategoryStocks, b.Stocks, today),
		collect(CategorySGB, b.SGB, today),
		collect(CategoryMetals, b.Metals, today),
	}

	s := Summary{Date: today}
	var all []CashFlow
	for _, c := range categories {
		if c.row.Count == 0 {
			continue
		}
		c.row.XIRR, c.row.HasXIRR = XIRR(c.flows)
		s.Rows = append(s.Rows, c.row)
		s.Total = s.Total.Add(c.row.Totals)
		all = append(all, c.flows...)
	}
	s.Total.XIRR, s.Total.HasXIRR = XIRR(all)
	return s
}
