package savings

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strconv"

	"github.com/etnz/savings/date"
)

// ErrSynthetic reports an attempt to store a transaction that only exists for
// display.
var ErrSynthetic = errors.New("synthetic transaction")

// StockTxType is the kind of a stock transaction.
type StockTxType string

const (
	Buy      StockTxType = "buy"
	Sell     StockTxType = "sell"
	IPO      StockTxType = "ipo"
	Buyback  StockTxType = "buyback"
	Bonus    StockTxType = "bonus"
	Split    StockTxType = "split"
	Demerger StockTxType = "demerger"
	Dividend StockTxType = "dividend"
)

// StockTx is an event on a stock holding.
//
// Price is the unit price for buys and sells, the new average price for
// demergers and the amount received for dividends. A split with both SplitFrom
// and SplitTo set scales the shares by SplitTo/SplitFrom, otherwise it adds
// Quantity.
type StockTx struct {
	ID        ID
	Date      date.Date
	Type      StockTxType
	Quantity  Quantity
	Price     Money
	SplitFrom Quantity
	SplitTo   Quantity
	Remarks   string

	synthetic bool
	extra     extras
}

// IsSynthetic reports whether tx was made up by DisplayTransactions.
func (tx StockTx) IsSynthetic() bool { return tx.synthetic }

func (tx StockTx) hasSplitRatio() bool { return tx.SplitFrom.IsPositive() && tx.SplitTo.IsPositive() }

var stockTxFields = []string{"id", "date", "type", "quantity", "price", "splitFrom", "splitTo", "remarks"}

// MarshalJSON implements the json.Marshaler interface for StockTx.
func (tx StockTx) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("id", tx.ID)
	w.Append("date", tx.Date)
	w.Append("type", tx.Type)
	w.Append("quantity", tx.Quantity)
	w.Append("price", tx.Price)
	if !tx.SplitFrom.IsZero() {
		w.Append("splitFrom", tx.SplitFrom)
	}
	if !tx.SplitTo.IsZero() {
		w.Append("splitTo", tx.SplitTo)
	}
	w.Optional("remarks", tx.Remarks)
	w.Extras(tx.extra)
	return w.MarshalJSON()
}

// UnmarshalJSON implements the json.Unmarshaler interface for StockTx.
func (tx *StockTx) UnmarshalJSON(data []byte) error {
	var temp struct {
		ID        ID          `json:"id"`
		Date      date.Date   `json:"date"`
		Type      StockTxType `json:"type"`
		Quantity  Quantity    `json:"quantity"`
		Price     Money       `json:"price"`
		SplitFrom Quantity    `json:"splitFrom"`
		SplitTo   Quantity    `json:"splitTo"`
		Remarks   string      `json:"remarks"`
	}
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}
	extra, err := decodeExtras(data, stockTxFields...)
	if err != nil {
		return err
	}
	*tx = StockTx{
		ID:        temp.ID,
		Date:      temp.Date,
		Type:      temp.Type,
		Quantity:  temp.Quantity,
		Price:     temp.Price,
		SplitFrom: temp.SplitFrom,
		SplitTo:   temp.SplitTo,
		Remarks:   temp.Remarks,
		extra:     extra,
	}
	return nil
}

// Dividends maps a calendar year to the dividends received during it.
type Dividends map[int]Money

// Total returns the dividends of all years.
func (d Dividends) Total() Money {
	var total Money
	for _, v := range d {
		total = total.Add(v)
	}
	return total
}

// Years returns the years in ascending order.
func (d Dividends) Years() []int { return slices.Sorted(maps.Keys(d)) }

// MarshalJSON writes an object keyed by year.
func (d Dividends) MarshalJSON() ([]byte, error) {
	m := make(map[string]Money, len(d))
	for y, v := range d {
		m[strconv.Itoa(y)] = v
	}
	return json.Marshal(m)
}

// UnmarshalJSON reads an object keyed by year. Keys that are not years are
// dropped.
func (d *Dividends) UnmarshalJSON(data []byte) error {
	var m map[string]Money
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	*d = make(Dividends, len(m))
	for k, v := range m {
		y, err := strconv.Atoi(k)
		if err != nil {
			continue
		}
		(*d)[y] = v
	}
	return nil
}

// Position is the state of a holding after a replay.
type Position struct {
	Shares    Quantity
	TotalCost Money
	Dividends Dividends
}

// AvgCost returns the cost of one share, or 0 without shares.
func (p Position) AvgCost() Money {
	if !p.Shares.IsPositive() {
		return Money{}
	}
	return p.TotalCost.Div(p.Shares)
}

// apply returns the position after tx.
func (p Position) apply(tx StockTx) Position {
	switch tx.Type {
	case Buy, IPO:
		cost := tx.Price.Mul(tx.Quantity)
		if p.Shares.IsZero() {
			p.TotalCost = cost
		} else {
			p.TotalCost = p.TotalCost.Add(cost)
		}
		p.Shares = p.Shares.Add(tx.Quantity)
	case Sell, Buyback:
		avg := p.AvgCost()
		p.Shares = p.Shares.Sub(tx.Quantity)
		if p.Shares.IsNegative() {
			p.Shares = Quantity{}
		}
		p.TotalCost = avg.Mul(p.Shares)
	case Bonus:
		p.Shares = p.Shares.Add(tx.Quantity)
	case Split:
		if tx.hasSplitRatio() {
			p.Shares = p.Shares.Mul(tx.SplitTo).Div(tx.SplitFrom)
		} else {
			p.Shares = p.Shares.Add(tx.Quantity)
		}
	case Demerger:
		p.Shares = p.Shares.Add(tx.Quantity)
		p.TotalCost = tx.Price.Mul(p.Shares)
	case Dividend:
		y := tx.Date.Year()
		p.Dividends[y] = p.Dividends[y].Add(tx.Price)
	}
	return p
}

// Replay folds the transactions in date order into a position. Transactions
// with an invalid date or an unknown type are skipped.
func Replay(txs []StockTx) Position {
	sorted := slices.Clone(txs)
	slices.SortStableFunc(sorted, func(x, y StockTx) int { return compareDates(x.Date, y.Date) })
	p := Position{Dividends: make(Dividends)}
	for _, tx := range sorted {
		if !tx.Date.IsValid() {
			continue
		}
		p = p.apply(tx)
	}
	return p
}

// Stock is a holding of a listed share.
//
// Shares, average cost and dividends are derived from the transactions by
// Recalculate. A stock without transactions is a legacy holding: its cached
// position is the only record of it and is kept as is.
type Stock struct {
	ID           ID
	Name         string
	Ticker       string
	CurrentPrice Money
	Transactions []StockTx

	shares    Quantity
	avgCost   Money
	dividends Dividends
	extra     extras
}

func (s Stock) Shares() Quantity     { return s.shares }
func (s Stock) AvgCost() Money       { return s.avgCost }
func (s Stock) Dividends() Dividends { return s.dividends }

// Recalculate returns the stock with its position replaced by the replay of
// its transactions.
func (s Stock) Recalculate() Stock {
	if len(s.Transactions) == 0 {
		return s
	}
	p := Replay(s.Transactions)
	s.shares = p.Shares
	s.avgCost = p.AvgCost()
	s.dividends = p.Dividends
	return s
}

// DisplayTransactions returns the transactions to show. A legacy holding
// shows a single synthetic buy of its shares at their average cost.
func (s Stock) DisplayTransactions() []StockTx {
	if len(s.Transactions) > 0 || !s.shares.IsPositive() {
		return s.Transactions
	}
	return []StockTx{{
		Type:      Buy,
		Quantity:  s.shares,
		Price:     s.avgCost,
		Remarks:   "Initial holding",
		synthetic: true,
	}}
}

// AddTransaction appends tx and replays.
func (s Stock) AddTransaction(tx StockTx) (Stock, error) {
	if tx.synthetic {
		return s, fmt.Errorf("stock %q: %w", s.ID, ErrSynthetic)
	}
	if tx.ID == "" {
		tx.ID = NewID()
	}
	s.Transactions = append(slices.Clone(s.Transactions), tx)
	return s.Recalculate(), nil
}

// UpdateTransaction replaces the transaction with the same id and replays.
func (s Stock) UpdateTransaction(tx StockTx) (Stock, error) {
	if tx.synthetic {
		return s, fmt.Errorf("stock %q: %w", s.ID, ErrSynthetic)
	}
	i := slices.IndexFunc(s.Transactions, func(x StockTx) bool { return x.ID == tx.ID })
	if i < 0 {
		return s, fmt.Errorf("transaction %q in stock %q: %w", tx.ID, s.ID, ErrNotFound)
	}
	if tx.extra == nil {
		tx.extra = s.Transactions[i].extra
	}
	s.Transactions = slices.Clone(s.Transactions)
	s.Transactions[i] = tx
	return s.Recalculate(), nil
}

// DeleteTransaction removes the transaction with the given id and replays.
// Removing the last transaction leaves an empty holding.
func (s Stock) DeleteTransaction(id ID) (Stock, error) {
	i := slices.IndexFunc(s.Transactions, func(x StockTx) bool { return x.ID == id })
	if i < 0 {
		return s, fmt.Errorf("transaction %q in stock %q: %w", id, s.ID, ErrNotFound)
	}
	s.Transactions = slices.Delete(slices.Clone(s.Transactions), i, i+1)
	if len(s.Transactions) == 0 {
		s.shares, s.avgCost, s.dividends = Quantity{}, Money{}, nil
		return s, nil
	}
	return s.Recalculate(), nil
}

// Totals returns the cost of the shares held and their market value.
// Dividends count as income.
func (s Stock) Totals() Totals {
	t := NewTotals(s.avgCost.Mul(s.shares), s.CurrentPrice.Mul(s.shares))
	t.Income = s.dividends.Total()
	return t
}

var stockFields = []string{"id", "name", "ticker", "shares", "avgCost", "currentPrice", "dividends", "transactions"}

// MarshalJSON implements the json.Marshaler interface for Stock.
func (s Stock) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("id", s.ID)
	w.Append("name", s.Name)
	w.Append("ticker", s.Ticker)
	w.Append("shares", s.shares)
	w.Append("avgCost", s.avgCost.Round(4))
	w.Append("currentPrice", s.CurrentPrice)
	w.Append("dividends", s.dividends)
	w.Append("transactions", nonNil(s.Transactions))
	w.Extras(s.extra)
	return w.MarshalJSON()
}

// UnmarshalJSON implements the json.Unmarshaler interface for Stock.
func (s *Stock) UnmarshalJSON(data []byte) error {
	var temp struct {
		ID           ID        `json:"id"`
		Name         string    `json:"name"`
		Ticker       string    `json:"ticker"`
		Shares       Quantity  `json:"shares"`
		AvgCost      Money     `json:"avgCost"`
		CurrentPrice Money     `json:"currentPrice"`
		Dividends    Dividends `json:"dividends"`
		Transactions []StockTx `json:"transactions"`
	}
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}
	extra, err := decodeExtras(data, stockFields...)
	if err != nil {
		return err
	}
	*s = Stock{
		ID:           temp.ID,
		Name:         temp.Name,
		Ticker:       temp.Ticker,
		CurrentPrice: temp.CurrentPrice,
		Transactions: temp.Transactions,
		shares:       temp.Shares,
		avgCost:      temp.AvgCost,
		dividends:    temp.Dividends,
		extra:        extra,
	}
	return nil
}
