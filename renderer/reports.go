package renderer

import (
	"github.com/etnz/savings"
	"github.com/etnz/savings/date"
)

// RenderSummary renders the totals of a book.
func RenderSummary(s savings.Summary, opts Options) string {
	partials := map[string]string{"totals_row": "totals_row.md"}
	return renderTemplate(opts, "summary", "summary.md", partials, s)
}

// FixedDepositReport is the state of the fixed deposits and their interest
// per calendar year.
type FixedDepositReport struct {
	Date      date.Date
	Deposits  []savings.FixedDeposit
	Breakdown []savings.YearlyInterest
}

// Total returns the interest of every year.
func (r FixedDepositReport) Total() savings.Money {
	var total savings.Money
	for _, y := range r.Breakdown {
		total = total.Add(y.Interest)
	}
	return total
}

// RenderFixedDeposits renders the deposits and their yearly breakdown.
func RenderFixedDeposits(r FixedDepositReport, opts Options) string {
	return renderTemplate(opts, "fixedDeposits", "fixed_deposits.md", nil, r)
}

// PPFReport is the interest statement of a PPF account for a financial year.
type PPFReport struct {
	Account   savings.PPFAccount
	Statement savings.PPFInterest
}

// RenderPPFInterest renders the month by month interest of a financial year.
func RenderPPFInterest(r PPFReport, opts Options) string {
	return renderTemplate(opts, "ppf", "ppf_interest.md", nil, r)
}

// SavingsReport is the result of a daily interest run on an account.
type SavingsReport struct {
	Account savings.SavingsAccount
	Changed bool
}

// RenderSavings renders an account and its transactions.
func RenderSavings(r SavingsReport, opts Options) string {
	partials := map[string]string{"savings_transactions": "savings_transactions.md"}
	return renderTemplate(opts, "savings", "savings.md", partials, r)
}

// RenderStock renders a position, its transactions and its dividends.
func RenderStock(s savings.Stock, opts Options) string {
	return renderTemplate(opts, "stock", "stock.md", nil, s)
}

// SGBReport compares the coupons due on a gold bond account with the coupons
// credited.
type SGBReport struct {
	Date    date.Date
	Account savings.SGBAccount
}

// Expected returns the coupons due by the report date.
func (r SGBReport) Expected() savings.Money { return r.Account.ExpectedInterest(r.Date) }

// Outstanding returns the coupons due but not credited yet.
func (r SGBReport) Outstanding() savings.Money {
	return r.Expected().Sub(r.Account.InterestReceived())
}

// RenderSGB renders the lots of a gold bond account and its coupons.
func RenderSGB(r SGBReport, opts Options) string {
	return renderTemplate(opts, "sgb", "sgb.md", nil, r)
}
