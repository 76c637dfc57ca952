package savings

import (
	"bytes"
	"math"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// DefaultCurrency is the ISO code used to display amounts when none is configured.
const DefaultCurrency = "INR"

// Money represents a monetary value in the tracker's single currency.
type Money struct {
	value decimal.Decimal // as major unit value
}

func M[T float32 | float64 | int | int32 | int64 | uint | uint32 | uint64 | decimal.Decimal](value T) Money {
	return Money{value: newDecimal(value)}
}

// Format returns the amount formatted for display in the given currency.
func (m Money) Format(currency string) string {
	if currency == "" {
		currency = DefaultCurrency
	}
	// to get a never nil currency I need to call the Money constructor
	cur := *money.New(0, currency).Currency()
	minor := m.value.Shift(int32(cur.Fraction)).Round(0)
	return cur.Formatter().Format(minor.IntPart())
}

// String returns the amount with two decimals, without currency.
func (m Money) String() string { return m.value.StringFixed(2) }

func (m Money) Decimal() decimal.Decimal           { return m.value }
func (m Money) Equal(n Money) bool                 { return m.value.Equal(n.value) }
func (m Money) IsZero() bool                       { return m.value.IsZero() }
func (m Money) IsPositive() bool                   { return m.value.IsPositive() }
func (m Money) IsNegative() bool                   { return m.value.IsNegative() }
func (m Money) LessThan(n Money) bool              { return m.value.LessThan(n.value) }
func (m Money) LessThanOrEqual(n Money) bool       { return m.value.LessThanOrEqual(n.value) }
func (m Money) GreaterThan(n Money) bool           { return m.value.GreaterThan(n.value) }
func (m Money) GreaterThanOrEqual(n Money) bool    { return m.value.GreaterThanOrEqual(n.value) }
func (m Money) Neg() Money                         { return Money{value: m.value.Neg()} }
func (m Money) Abs() Money                         { return Money{value: m.value.Abs()} }
func (m Money) Add(n Money) Money                  { return Money{value: m.value.Add(n.value)} }
func (m Money) Sub(n Money) Money                  { return Money{value: m.value.Sub(n.value)} }
func (m Money) Mul(q Quantity) Money               { return Money{value: m.value.Mul(q.value)} }
func (m Money) Div(q Quantity) Money               { return Money{value: m.value.Div(q.value)} }
func (m Money) Round(places int32) Money           { return Money{value: m.value.Round(places)} }
func (m Money) Floor() Money                       { return Money{value: m.value.Floor()} }
func (m Money) Float64() float64                   { return m.value.InexactFloat64() }
func (m Money) Cmp(n Money) int                    { return m.value.Cmp(n.value) }
func (m Money) Scale(factor decimal.Decimal) Money { return Money{value: m.value.Mul(factor)} }

// Ratio returns m/n as a float, or 0 when n is zero.
func (m Money) Ratio(n Money) float64 {
	if n.IsZero() {
		return 0
	}
	return m.value.Div(n.value).InexactFloat64()
}

// Sum adds up amounts.
func Sum(amounts ...Money) Money {
	var total Money
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}

// fromFloat converts a float result of a compounding formula back to money.
// Non-finite values, which only come from degenerate inputs, count as zero.
func fromFloat(f float64) Money {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Money{}
	}
	return Money{value: decimal.NewFromFloat(f)}
}

// MarshalJSON writes the amount as a bare JSON number.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.value.String()), nil
}

// UnmarshalJSON reads a number, a numeric string, an empty string or null.
func (m *Money) UnmarshalJSON(data []byte) error {
	d, err := unmarshalDecimal(data)
	if err != nil {
		return err
	}
	m.value = d
	return nil
}

// unmarshalDecimal is lenient with the way forms store numbers: quoted or not,
// and empty for "not filled".
func unmarshalDecimal(data []byte) (decimal.Decimal, error) {
	data = bytes.TrimSpace(data)
	if string(data) == "null" {
		return decimal.Zero, nil
	}
	trimmed := bytes.TrimSpace(bytes.Trim(data, `"`))
	if len(trimmed) == 0 {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(string(trimmed))
}
