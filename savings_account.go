package savings

import (
	"encoding/json"
	"fmt"
	"slices"

	"github.com/etnz/savings/date"
	"github.com/shopspring/decimal"
)

// DefaultSavingsRate is the annual rate, in percent, of accounts that do not set one.
const DefaultSavingsRate = 5.4

// AutoInterestRemark is the remark of the interest transactions created by Simulate.
const AutoInterestRemark = "Auto Daily Interest"

// interestTolerance absorbs rounding noise when comparing stored and computed interest.
var interestTolerance = decimal.RequireFromString("0.005")

var daysPerRateYear = decimal.NewFromInt(365 * 100)

// SavingsTxType is the kind of a savings account transaction.
type SavingsTxType string

const (
	Deposit         SavingsTxType = "deposit"
	Withdraw        SavingsTxType = "withdraw"
	Interest        SavingsTxType = "interest"
	MonniesRedeemed SavingsTxType = "monnies_redeemed"
)

// sign returns the direction of the transaction on the balance.
func (t SavingsTxType) sign() int {
	switch t {
	case Deposit, Interest, MonniesRedeemed:
		return 1
	case Withdraw:
		return -1
	default:
		return 0
	}
}

// InterestOrigin tells whether an interest transaction is owned by the simulator
// or by the user.
type InterestOrigin int

const (
	Generated InterestOrigin = iota
	ManualOverride
)

// SavingsTx is a single movement on a savings account.
type SavingsTx struct {
	ID      ID
	Date    date.Date
	Type    SavingsTxType
	Amount  Money
	Remarks string
	Manual  bool

	extra extras
}

// Origin returns who owns the amount of an interest transaction. A manual
// override is never recomputed.
func (t SavingsTx) Origin() InterestOrigin {
	if t.Manual {
		return ManualOverride
	}
	return Generated
}

// signed returns the amount with the sign of its effect on the balance.
func (t SavingsTx) signed() Money {
	switch t.Type.sign() {
	case 1:
		return t.Amount
	case -1:
		return t.Amount.Neg()
	default:
		return Money{}
	}
}

var savingsTxFields = []string{"id", "date", "type", "amount", "remarks", "isManual"}

// MarshalJSON implements the json.Marshaler interface for SavingsTx.
func (t SavingsTx) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("id", t.ID)
	w.Append("date", t.Date)
	w.Append("type", t.Type)
	w.Append("amount", t.Amount)
	w.Optional("remarks", t.Remarks)
	w.Optional("isManual", t.Manual)
	w.Extras(t.extra)
	return w.MarshalJSON()
}

// UnmarshalJSON implements the json.Unmarshaler interface for SavingsTx.
func (t *SavingsTx) UnmarshalJSON(data []byte) error {
	var temp struct {
		ID      ID            `json:"id"`
		Date    date.Date     `json:"date"`
		Type    SavingsTxType `json:"type"`
		Amount  Money         `json:"amount"`
		Remarks string        `json:"remarks"`
		Manual  bool          `json:"isManual"`
	}
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}
	extra, err := decodeExtras(data, savingsTxFields...)
	if err != nil {
		return err
	}
	*t = SavingsTx{
		ID:      temp.ID,
		Date:    temp.Date,
		Type:    temp.Type,
		Amount:  temp.Amount,
		Remarks: temp.Remarks,
		Manual:  temp.Manual,
		extra:   extra,
	}
	return nil
}

// SavingsAccount is a bank account earning daily interest.
type SavingsAccount struct {
	ID           ID
	Title        string
	InterestRate float64 // annual rate in percent, 0 for DefaultSavingsRate
	Transactions []SavingsTx

	amount Money // derived: signed sum of the transactions
	extra  extras
}

// Amount returns the balance as last computed.
func (a SavingsAccount) Amount() Money { return a.amount }

// Rate returns the annual interest rate in percent.
func (a SavingsAccount) Rate() float64 {
	if a.InterestRate == 0 {
		return DefaultSavingsRate
	}
	return a.InterestRate
}

// Balance returns the signed sum of all transactions: deposits, interest and
// redeemed monnies add up, withdrawals subtract.
func (a SavingsAccount) Balance() Money {
	var total Money
	for _, tx := range a.Transactions {
		total = total.Add(tx.signed())
	}
	return total
}

// Recalculate returns the account with its amount restored from the transactions.
func (a SavingsAccount) Recalculate() SavingsAccount {
	a.amount = a.Balance()
	return a
}

// dailyInterest returns one day of interest on balance, rounded to cents.
func dailyInterest(balance Money, annualRate decimal.Decimal) Money {
	if !balance.IsPositive() {
		return Money{}
	}
	return Money{value: balance.value.Mul(annualRate).Div(daysPerRateYear).Round(2)}
}

// Simulate replays the account day by day from its first transaction up to
// today (inclusive) and reconciles the interest transactions with the daily
// interest earned on the running balance.
//
// Manual interest transactions are kept verbatim. Generated ones are corrected
// when they drift more than 0.005 from the computed value, and missing days get
// a new "Auto Daily Interest" transaction. The returned account has its
// transactions sorted by date and its amount recomputed. The boolean reports
// whether anything needs to be saved.
//
// Running Simulate on its own output changes nothing.
func (a SavingsAccount) Simulate(today date.Date) (SavingsAccount, bool) {
	if len(a.Transactions) == 0 {
		return a, false
	}
	rate := decimal.NewFromFloat(a.Rate())

	flows := make(map[date.Date]Money)     // net non-interest movement per day
	interests := make(map[date.Date][]int) // interest transactions per day
	var start date.Date
	for i, tx := range a.Transactions {
		if !tx.Date.IsValid() {
			continue
		}
		if !start.IsValid() || tx.Date.Before(start) {
			start = tx.Date
		}
		if tx.Type == Interest {
			interests[tx.Date] = append(interests[tx.Date], i)
			continue
		}
		flows[tx.Date] = flows[tx.Date].Add(tx.signed())
	}

	txs := slices.Clone(a.Transactions)
	changed := false
	var balance Money
	for day := range (date.Range{From: start, To: today}).Days() {
		balance = balance.Add(flows[day])
		daily := dailyInterest(balance, rate)

		if existing := interests[day]; len(existing) > 0 {
			i := existing[0]
			if txs[i].Origin() == Generated && daily.IsPositive() && txs[i].Amount.Sub(daily).Abs().value.GreaterThan(interestTolerance) {
				txs[i].Amount = daily
				changed = true
			}
			for _, j := range existing {
				balance = balance.Add(txs[j].Amount)
			}
			continue
		}

		if daily.value.GreaterThan(interestTolerance) {
			txs = append(txs, SavingsTx{
				ID:      derivedID(a.ID.String(), day.String(), string(Interest)),
				Date:    day,
				Type:    Interest,
				Amount:  daily,
				Remarks: AutoInterestRemark,
			})
			balance = balance.Add(daily)
			changed = true
		}
	}

	sortSavingsTxs(txs)
	a.Transactions = txs
	before := a.amount
	a = a.Recalculate()
	if !before.Equal(a.amount) {
		changed = true
	}
	return a, changed
}

// sortSavingsTxs sorts transactions by date, keeping same-day order and moving
// undated ones to the end.
func sortSavingsTxs(txs []SavingsTx) {
	slices.SortStableFunc(txs, func(x, y SavingsTx) int { return compareDates(x.Date, y.Date) })
}

// compareDates orders valid dates chronologically, invalid ones last.
func compareDates(x, y date.Date) int {
	switch {
	case !x.IsValid() && !y.IsValid():
		return 0
	case !x.IsValid():
		return 1
	case !y.IsValid():
		return -1
	default:
		return x.Compare(y)
	}
}

// UpsertTransaction replaces the transaction with the same id, or appends it.
// Editing an interest transaction makes it a manual override. A replaced
// transaction keeps the fields this package does not model.
func (a SavingsAccount) UpsertTransaction(tx SavingsTx) SavingsAccount {
	if tx.ID == "" {
		tx.ID = NewID()
	}
	if tx.Type == Interest {
		tx.Manual = true
	}
	txs := slices.Clone(a.Transactions)
	if i := slices.IndexFunc(txs, func(t SavingsTx) bool { return t.ID == tx.ID }); i >= 0 {
		if tx.extra == nil {
			tx.extra = txs[i].extra
		}
		txs[i] = tx
	} else {
		txs = append(txs, tx)
	}
	a.Transactions = txs
	return a.Recalculate()
}

// DeleteTransaction removes a transaction. Interest transactions are soft
// deleted instead: their amount becomes 0 and they turn manual, so that Simulate
// never generates them again.
func (a SavingsAccount) DeleteTransaction(id ID) (SavingsAccount, error) {
	i := slices.IndexFunc(a.Transactions, func(t SavingsTx) bool { return t.ID == id })
	if i < 0 {
		return a, fmt.Errorf("transaction %q in account %q: %w", id, a.ID, ErrNotFound)
	}
	txs := slices.Clone(a.Transactions)
	if txs[i].Type == Interest {
		txs[i].Amount = Money{}
		txs[i].Manual = true
	} else {
		txs = slices.Delete(txs, i, i+1)
	}
	a.Transactions = txs
	return a.Recalculate(), nil
}

var savingsAccountFields = []string{"id", "title", "interestRate", "transactions", "amount"}

// MarshalJSON implements the json.Marshaler interface for SavingsAccount.
func (a SavingsAccount) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("id", a.ID)
	w.Append("title", a.Title)
	w.Optional("interestRate", a.InterestRate)
	w.Append("transactions", nonNil(a.Transactions))
	w.Append("amount", a.amount)
	w.Extras(a.extra)
	return w.MarshalJSON()
}

// UnmarshalJSON implements the json.Unmarshaler interface for SavingsAccount.
// The stored amount is read as is; Recalculate or Simulate refresh it.
func (a *SavingsAccount) UnmarshalJSON(data []byte) error {
	var temp struct {
		ID           ID          `json:"id"`
		Title        string      `json:"title"`
		InterestRate Quantity    `json:"interestRate"`
		Transactions []SavingsTx `json:"transactions"`
		Amount       Money       `json:"amount"`
	}
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}
	extra, err := decodeExtras(data, savingsAccountFields...)
	if err != nil {
		return err
	}
	*a = SavingsAccount{
		ID:           temp.ID,
		Title:        temp.Title,
		InterestRate: temp.InterestRate.value.InexactFloat64(),
		Transactions: temp.Transactions,
		amount:       temp.Amount,
		extra:        extra,
	}
	return nil
}

// nonNil makes empty lists encode as [] rather than null.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
