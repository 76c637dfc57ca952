package savings

import (
	"encoding/json"
	"fmt"
	"slices"
	"time"

	"github.com/etnz/savings/date"
	"github.com/shopspring/decimal"
)

// PPFRate is the annual rate, in percent, applied to every PPF account.
const PPFRate = 7.1

// ppfBalanceDay is the day of the month whose balance earns interest.
const ppfBalanceDay = 5

var (
	ppfAnnualRate = decimal.NewFromFloat(PPFRate).Shift(-2)
	monthsPerYear = decimal.NewFromInt(12)
)

// PPFEntryType is the kind of a PPF ledger entry.
type PPFEntryType string

const (
	PPFInvestment     PPFEntryType = "investment"
	PPFInterestCredit PPFEntryType = "interest"
)

// PPFEntry is a line of a PPF passbook.
//
// Investments carry an Amount, interest credits an InterestEarned. Interest
// credits computed by CalculateInterest are tagged with their FinancialYear.
type PPFEntry struct {
	ID             ID
	Date           date.Date
	Type           PPFEntryType
	Amount         Money
	InterestEarned Money
	Remarks        string
	FinancialYear  date.FinancialYear // 0 when untagged

	balance Money // derived: running total up to this entry
	extra   extras
}

// Balance returns the running balance after this entry.
func (e PPFEntry) Balance() Money { return e.balance }

func (e PPFEntry) total() Money { return e.Amount.Add(e.InterestEarned) }

// creditsYear reports whether e is the interest credit of fy. Untagged
// credits are matched on their date.
func (e PPFEntry) creditsYear(fy date.FinancialYear) bool {
	if e.Type != PPFInterestCredit {
		return false
	}
	if e.FinancialYear != 0 {
		return e.FinancialYear == fy
	}
	return e.Date == fy.End()
}

var ppfEntryFields = []string{"id", "date", "type", "amount", "interestEarned", "balance", "remarks", "financialYear"}

// MarshalJSON implements the json.Marshaler interface for PPFEntry.
func (e PPFEntry) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("id", e.ID)
	w.Append("date", e.Date)
	w.Append("type", e.Type)
	w.Append("amount", e.Amount)
	w.Append("interestEarned", e.InterestEarned)
	w.Append("balance", e.balance)
	w.Optional("remarks", e.Remarks)
	w.Optional("financialYear", e.FinancialYear)
	w.Extras(e.extra)
	return w.MarshalJSON()
}

// UnmarshalJSON implements the json.Unmarshaler interface for PPFEntry.
func (e *PPFEntry) UnmarshalJSON(data []byte) error {
	var temp struct {
		ID             ID           `json:"id"`
		Date           date.Date    `json:"date"`
		Type           PPFEntryType `json:"type"`
		Amount         Money        `json:"amount"`
		InterestEarned Money        `json:"interestEarned"`
		Balance        Money        `json:"balance"`
		Remarks        string       `json:"remarks"`
		FinancialYear  string       `json:"financialYear"`
	}
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}
	extra, err := decodeExtras(data, ppfEntryFields...)
	if err != nil {
		return err
	}
	*e = PPFEntry{
		ID:             temp.ID,
		Date:           temp.Date,
		Type:           temp.Type,
		Amount:         temp.Amount,
		InterestEarned: temp.InterestEarned,
		Remarks:        temp.Remarks,
		balance:        temp.Balance,
		extra:          extra,
	}
	if temp.FinancialYear != "" {
		// A tag that cannot be read makes the entry untagged.
		e.FinancialYear, _ = date.ParseFinancialYear(temp.FinancialYear)
	}
	return nil
}

// PPFAccount is a Public Provident Fund account.
type PPFAccount struct {
	ID      ID
	Title   string
	Details []PPFEntry

	amount Money // derived: balance of the last entry
	extra  extras
}

// Amount returns the account balance as last computed.
func (a PPFAccount) Amount() Money { return a.amount }

// Invested returns the sum of the investments.
func (a PPFAccount) Invested() Money {
	var total Money
	for _, e := range a.Details {
		if e.Type == PPFInvestment {
			total = total.Add(e.Amount)
		}
	}
	return total
}

// Recalculate returns the account with the entries sorted by date and their
// running balances recomputed. Entries with an invalid date go last and do not
// count.
func (a PPFAccount) Recalculate() PPFAccount {
	entries := slices.Clone(a.Details)
	slices.SortStableFunc(entries, func(x, y PPFEntry) int { return compareDates(x.Date, y.Date) })
	var running Money
	for i := range entries {
		if entries[i].Date.IsValid() {
			running = running.Add(entries[i].total())
		}
		entries[i].balance = running
	}
	a.Details = entries
	a.amount = Money{}
	if n := len(entries); n > 0 {
		a.amount = entries[n-1].balance
	}
	return a
}

// AddEntry adds e to the account, replacing the entry with the same id if any.
// A replaced entry keeps the fields this package does not model.
func (a PPFAccount) AddEntry(e PPFEntry) PPFAccount {
	if e.ID == "" {
		e.ID = NewID()
	}
	entries := slices.Clone(a.Details)
	if i := slices.IndexFunc(entries, func(x PPFEntry) bool { return x.ID == e.ID }); i >= 0 {
		if e.extra == nil {
			e.extra = entries[i].extra
		}
		entries[i] = e
	} else {
		entries = append(entries, e)
	}
	a.Details = entries
	return a.Recalculate()
}

// DeleteEntry removes the entry with the given id.
func (a PPFAccount) DeleteEntry(id ID) (PPFAccount, error) {
	i := slices.IndexFunc(a.Details, func(x PPFEntry) bool { return x.ID == id })
	if i < 0 {
		return a, fmt.Errorf("entry %q in PPF account %q: %w", id, a.ID, ErrNotFound)
	}
	a.Details = slices.Delete(slices.Clone(a.Details), i, i+1)
	return a.Recalculate(), nil
}

// PPFMonth is the interest earned by the balance on the 5th of a month.
type PPFMonth struct {
	On       date.Date
	Balance  Money
	Interest Money
}

// PPFInterest is the interest statement of a financial year.
type PPFInterest struct {
	FinancialYear date.FinancialYear
	Monthly       [12]PPFMonth
	Total         Money
}

// balanceOn returns the balance on the given day, leaving out the interest
// credit of fy itself.
func (a PPFAccount) balanceOn(on date.Date, fy date.FinancialYear) Money {
	var total Money
	for _, e := range a.Details {
		if !e.Date.IsValid() || e.Date.After(on) || e.creditsYear(fy) {
			continue
		}
		total = total.Add(e.total())
	}
	return total
}

// CalculateInterest computes the interest of fy and records it as an interest
// credit dated March 31st, updating the previous credit of the same year when
// there is one.
//
// Each month from April to March earns floor(balance × 7.1% / 12) on the
// balance of its 5th day.
func (a PPFAccount) CalculateInterest(fy date.FinancialYear) (PPFAccount, PPFInterest) {
	statement := PPFInterest{FinancialYear: fy}
	for m := range statement.Monthly {
		on := date.New(int(fy), time.April+time.Month(m), ppfBalanceDay)
		balance := a.balanceOn(on, fy)
		var interest Money
		if balance.IsPositive() {
			interest = Money{value: balance.value.Mul(ppfAnnualRate).Div(monthsPerYear).Floor()}
		}
		statement.Monthly[m] = PPFMonth{On: on, Balance: balance, Interest: interest}
		statement.Total = statement.Total.Add(interest)
	}

	entries := slices.Clone(a.Details)
	i := slices.IndexFunc(entries, func(e PPFEntry) bool { return e.creditsYear(fy) })
	switch {
	case i >= 0:
		entries[i].Date = fy.End()
		entries[i].InterestEarned = statement.Total
		entries[i].FinancialYear = fy
	case statement.Total.IsPositive():
		entries = append(entries, PPFEntry{
			ID:             derivedID(a.ID.String(), "ppf", fy.String()),
			Date:           fy.End(),
			Type:           PPFInterestCredit,
			InterestEarned: statement.Total,
			FinancialYear:  fy,
		})
	}
	a.Details = entries
	return a.Recalculate(), statement
}

// AccrueCompletedYears computes the interest of every financial year that ended
// before today, starting with the year of the first entry.
func (a PPFAccount) AccrueCompletedYears(today date.Date) (PPFAccount, []PPFInterest) {
	var first date.Date
	for _, e := range a.Details {
		if e.Date.IsValid() && (!first.IsValid() || e.Date.Before(first)) {
			first = e.Date
		}
	}
	if !first.IsValid() {
		return a, nil
	}
	var statements []PPFInterest
	for fy := date.FinancialYearOf(first); fy < date.FinancialYearOf(today); fy = fy.Next() {
		var s PPFInterest
		a, s = a.CalculateInterest(fy)
		statements = append(statements, s)
	}
	return a, statements
}

// Totals returns the invested amount and the current balance.
func (a PPFAccount) Totals() Totals {
	return NewTotals(a.Invested(), a.amount)
}

var ppfAccountFields = []string{"id", "title", "details", "amount"}

// MarshalJSON implements the json.Marshaler interface for PPFAccount.
func (a PPFAccount) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("id", a.ID)
	w.Append("title", a.Title)
	w.Append("details", nonNil(a.Details))
	w.Append("amount", a.amount)
	w.Extras(a.extra)
	return w.MarshalJSON()
}

// UnmarshalJSON implements the json.Unmarshaler interface for PPFAccount.
func (a *PPFAccount) UnmarshalJSON(data []byte) error {
	var temp struct {
		ID      ID         `json:"id"`
		Title   string     `json:"title"`
		Details []PPFEntry `json:"details"`
		Amount  Money      `json:"amount"`
	}
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}
	extra, err := decodeExtras(data, ppfAccountFields...)
	if err != nil {
		return err
	}
	*a = PPFAccount{ID: temp.ID, Title: temp.Title, Details: temp.Details, amount: temp.Amount, extra: extra}
	return nil
}
