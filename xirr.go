package savings

import (
	"math"
	"slices"

	"github.com/etnz/savings/date"
)

// CashFlow is money moving in or out of an instrument. Money put in is
// negative, money received or still held is positive.
type CashFlow struct {
	Date   date.Date
	Amount Money
}

// XIRR returns the annualised internal rate of return of the flows, in
// percent. Years count 365.25 days.
//
// It reports false, with a rate of 0, when the flows do not contain both money
// put in and money received, or when no rate can be found.
func XIRR(flows []CashFlow) (Percent, bool) {
	valid := make([]CashFlow, 0, len(flows))
	hasNeg, hasPos := false, false
	for _, f := range flows {
		if !f.Date.IsValid() || f.Amount.IsZero() {
			continue
		}
		valid = append(valid, f)
		hasNeg = hasNeg || f.Amount.IsNegative()
		hasPos = hasPos || f.Amount.IsPositive()
	}
	if !hasNeg || !hasPos {
		return 0, false
	}
	slices.SortStableFunc(valid, func(x, y CashFlow) int { return x.Date.Compare(y.Date) })

	amounts := make([]float64, len(valid))
	years := make([]float64, len(valid))
	for i, f := range valid {
		amounts[i] = f.Amount.Float64()
		years[i] = date.YearFraction(valid[0].Date, f.Date)
	}

	rate := solveXIRR(amounts, years)
	if math.IsNaN(rate) || math.IsInf(rate, 0) {
		return 0, false
	}
	return Percent(rate * 100), true
}

// solveXIRR finds the rate r for which sum(amount / (1+r)^years) is 0 using
// Newton-Raphson, falling back to bisection.
func solveXIRR(amounts, years []float64) float64 {
	const (
		maxIter = 100
		tol     = 1e-7
		minRate = -0.999
		maxRate = 100
	)

	invested, received := 0.0, 0.0
	for _, a := range amounts {
		if a < 0 {
			invested -= a
		} else {
			received += a
		}
	}
	rate := 0.1
	if simple := received/invested - 1; simple > -0.9 && simple < 10 {
		rate = simple
	}

	for range maxIter {
		npv, dnpv := 0.0, 0.0
		base := 1 + rate
		for i, a := range amounts {
			discount := math.Pow(base, years[i])
			npv += a / discount
			dnpv -= years[i] * a / (discount * base)
		}
		if math.Abs(npv) < tol {
			return rate
		}
		if dnpv == 0 {
			break
		}
		rate = min(max(rate-npv/dnpv, minRate), maxRate)
	}
	return bisectXIRR(amounts, years)
}

func bisectXIRR(amounts, years []float64) float64 {
	const (
		maxIter = 200
		tol     = 1e-6
	)
	npvAt := func(rate float64) float64 {
		sum := 0.0
		for i, a := range amounts {
			sum += a / math.Pow(1+rate, years[i])
		}
		return sum
	}

	lo, hi := -0.99, 10.0
	npvLo, npvHi := npvAt(lo), npvAt(hi)
	if npvLo*npvHi > 0 {
		return math.NaN()
	}
	for range maxIter {
		mid := (lo + hi) / 2
		npvMid := npvAt(mid)
		if math.Abs(npvMid) < tol {
			return mid
		}
		if npvMid*npvLo < 0 {
			hi = mid
		} else {
			lo, npvLo = mid, npvMid
		}
	}
	return (lo + hi) / 2
}
