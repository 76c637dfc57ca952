// Package savings derives balances, interest and position metrics of personal
// savings instruments from their transaction logs.
//
// Each instrument owns its calculator:
//   - SavingsAccount.Simulate replays an account day by day and reconciles its
//     daily interest transactions, keeping manual overrides untouched.
//   - FixedDeposit.Accrue projects quarterly compounding to maturity and to a
//     given day, and YearlyBreakdown splits interest by calendar year.
//   - PPFAccount.CalculateInterest applies the monthly minimum balance rule of
//     a financial year and records the yearly credit.
//   - Stock.Recalculate replays buys, sells, bonuses, splits, demergers and
//     dividends into shares, average cost and dividends per year.
//
// Calculators are pure: they take a snapshot by value and return a complete
// updated one. Derived fields are unexported and only set by the calculators
// or by decoding a stored snapshot, so a caller cannot patch them by hand.
//
// Book gathers every instrument of a database and summarizes it with totals,
// gains and XIRR.
//
// This package is the foundation of the `fin` command-line tool.
package savings
