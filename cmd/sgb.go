package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/savings"
	"github.com/etnz/savings/renderer"
	"github.com/etnz/savings/store"
	"github.com/google/subcommands"
)

// sgbCouponsCmd holds the flags for the 'sgb-coupons' subcommand.
type sgbCouponsCmd struct {
	id    string
	today string
}

func (*sgbCouponsCmd) Name() string     { return "sgb-coupons" }
func (*sgbCouponsCmd) Synopsis() string { return "compare the gold bond coupons due with those received" }
func (*sgbCouponsCmd) Usage() string {
	return `fin sgb-coupons [-id <account>] [-today <date>]

  Lists the lots of gold bond accounts with the coupons due up to today, and
  the coupons credited so far. The database is not modified.
`
}

func (c *sgbCouponsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.id, "id", "", "Account to report. Defaults to all accounts.")
	f.StringVar(&c.today, "today", "", "The current day, YYYY-MM-DD. Defaults to today.")
}

func (c *sgbCouponsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	today, err := parseToday(c.today)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}
	a, err := openApp()
	if err != nil {
		return fail("Error opening database: %v", err)
	}
	accounts, err := selectRecords[savings.SGBAccount](a, store.SGB, c.id)
	if err != nil {
		return fail("Error loading account: %v", err)
	}
	for _, account := range accounts {
		r := renderer.SGBReport{Date: today, Account: account}
		if r.Outstanding().IsPositive() {
			a.logger.Info().Str("account", account.ID.String()).Str("outstanding", r.Outstanding().String()).Msg("coupons not credited")
		}
		printMarkdown(renderer.RenderSGB(r, a.options()))
	}
	return subcommands.ExitSuccess
}
