package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/savings"
	"github.com/etnz/savings/date"
	"github.com/etnz/savings/renderer"
	"github.com/etnz/savings/store"
	"github.com/google/subcommands"
)

// fdAccrueCmd holds the flags for the 'fd-accrue' subcommand.
type fdAccrueCmd struct {
	id    string
	today string
}

func (*fdAccrueCmd) Name() string     { return "fd-accrue" }
func (*fdAccrueCmd) Synopsis() string { return "recompute the value of fixed deposits" }
func (*fdAccrueCmd) Usage() string {
	return `fin fd-accrue [-id <deposit>] [-today <date>]

  Recomputes the interest, maturity amount and current value of fixed
  deposits, and saves them. Deposits with invalid dates are reported and left
  unchanged.
`
}

func (c *fdAccrueCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.id, "id", "", "Deposit to process. Defaults to all deposits.")
	f.StringVar(&c.today, "today", "", "The current day, YYYY-MM-DD. Defaults to today.")
}

func (c *fdAccrueCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	today, err := parseToday(c.today)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}
	a, err := openApp()
	if err != nil {
		return fail("Error opening database: %v", err)
	}
	deposits, err := selectRecords[savings.FixedDeposit](a, store.FixedDeposits, c.id)
	if err != nil {
		return fail("Error loading deposit: %v", err)
	}

	accrued := make([]savings.FixedDeposit, 0, len(deposits))
	for _, fd := range deposits {
		fd, err := fd.Accrue(today)
		if err != nil {
			a.logger.Warn().Err(err).Str("deposit", fd.ID.String()).Msg("skipping deposit")
			continue
		}
		if err := store.Save(a.db, store.FixedDeposits, fd.ID.String(), fd); err != nil {
			return fail("Error saving deposit %q: %v", fd.ID, err)
		}
		accrued = append(accrued, fd)
	}

	printMarkdown(renderer.RenderFixedDeposits(renderer.FixedDepositReport{
		Date:      today,
		Deposits:  accrued,
		Breakdown: savings.YearlyBreakdown(accrued),
	}, a.options()))
	return subcommands.ExitSuccess
}

// fdRenewCmd holds the flags for the 'fd-renew' subcommand.
type fdRenewCmd struct {
	id    string
	newID string
	end   string
	rate  float64
	today string
}

func (*fdRenewCmd) Name() string     { return "fd-renew" }
func (*fdRenewCmd) Synopsis() string { return "renew a fixed deposit at maturity" }
func (*fdRenewCmd) Usage() string {
	return `fin fd-renew -id <deposit> -end <date> [-rate <percent>] [-new-id <id>]

  Creates the deposit that continues a matured one: it starts on its end date
  with its maturity amount as principal. The bank, account number and rate are
  carried over unless given.
`
}

func (c *fdRenewCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.id, "id", "", "Deposit to renew.")
	f.StringVar(&c.newID, "new-id", "", "Id of the new deposit. Defaults to a random id.")
	f.StringVar(&c.end, "end", "", "End date of the new deposit, YYYY-MM-DD.")
	f.Float64Var(&c.rate, "rate", 0, "Annual interest rate of the new deposit. Defaults to the current rate.")
	f.StringVar(&c.today, "today", "", "The current day, YYYY-MM-DD. Defaults to today.")
}

func (c *fdRenewCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.id == "" || c.end == "" {
		fmt.Fprintln(os.Stderr, "Error: -id and -end are required.")
		return subcommands.ExitUsageError
	}
	end, err := date.Parse(c.end)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing end date: %v\n", err)
		return subcommands.ExitUsageError
	}
	today, err := parseToday(c.today)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}
	a, err := openApp()
	if err != nil {
		return fail("Error opening database: %v", err)
	}
	old, err := store.Load[savings.FixedDeposit](a.db, store.FixedDeposits, c.id)
	if err != nil {
		return fail("Error loading deposit: %v", err)
	}
	old, err = old.Accrue(today)
	if err != nil {
		return fail("Error accruing deposit: %v", err)
	}
	if !old.IsMatured(today) {
		return fail("Error: deposit %q matures on %s", old.ID, old.EndDate)
	}

	fd := old.Renew(savings.ID(c.newID))
	fd.Bank, fd.AccountNo = old.Bank, old.AccountNo
	fd.EndDate = end
	fd.InterestRate = old.InterestRate
	if c.rate > 0 {
		fd.InterestRate = c.rate
	}
	fd, err = fd.Accrue(today)
	if err != nil {
		return fail("Error accruing renewed deposit: %v", err)
	}
	if err := store.Save(a.db, store.FixedDeposits, fd.ID.String(), fd); err != nil {
		return fail("Error saving deposit %q: %v", fd.ID, err)
	}
	a.logger.Info().Str("from", old.ID.String()).Str("to", fd.ID.String()).Msg("deposit renewed")

	deposits := []savings.FixedDeposit{old, fd}
	printMarkdown(renderer.RenderFixedDeposits(renderer.FixedDepositReport{
		Date:      today,
		Deposits:  deposits,
		Breakdown: savings.YearlyBreakdown(deposits),
	}, a.options()))
	return subcommands.ExitSuccess
}

// fdBreakdownCmd holds the flags for the 'fd-breakdown' subcommand.
type fdBreakdownCmd struct {
	today string
}

func (*fdBreakdownCmd) Name() string     { return "fd-breakdown" }
func (*fdBreakdownCmd) Synopsis() string { return "display the interest of fixed deposits per year" }
func (*fdBreakdownCmd) Usage() string {
	return `fin fd-breakdown [-today <date>]

  Displays every fixed deposit and the interest they earn per calendar year.
  The database is not modified.
`
}

func (c *fdBreakdownCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.today, "today", "", "The current day, YYYY-MM-DD. Defaults to today.")
}

func (c *fdBreakdownCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	today, err := parseToday(c.today)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}
	a, err := openApp()
	if err != nil {
		return fail("Error opening database: %v", err)
	}
	var deposits []savings.FixedDeposit
	for _, fd := range store.LoadAll[savings.FixedDeposit](a.db, store.FixedDeposits) {
		fd, err := fd.Accrue(today)
		if err != nil {
			a.logger.Warn().Err(err).Str("deposit", fd.ID.String()).Msg("skipping deposit")
			continue
		}
		deposits = append(deposits, fd)
	}
	printMarkdown(renderer.RenderFixedDeposits(renderer.FixedDepositReport{
		Date:      today,
		Deposits:  deposits,
		Breakdown: savings.YearlyBreakdown(deposits),
	}, a.options()))
	return subcommands.ExitSuccess
}
