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

// ppfInterestCmd holds the flags for the 'ppf-interest' subcommand.
type ppfInterestCmd struct {
	account string
	fy      string
	all     bool
	today   string
}

func (*ppfInterestCmd) Name() string     { return "ppf-interest" }
func (*ppfInterestCmd) Synopsis() string { return "credit the yearly interest of a PPF account" }
func (*ppfInterestCmd) Usage() string {
	return `fin ppf-interest -account <account> (-fy <YYYY-YY> | -all) [-today <date>]

  Computes the interest of a financial year, or of every completed financial
  year with -all, and records it as an interest credit on March 31st.
`
}

func (c *ppfInterestCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.account, "account", "", "PPF account.")
	f.StringVar(&c.fy, "fy", "", "Financial year, like 2023-24.")
	f.BoolVar(&c.all, "all", false, "Credit every financial year completed before today.")
	f.StringVar(&c.today, "today", "", "The current day for -all, YYYY-MM-DD. Defaults to today.")
}

func (c *ppfInterestCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.account == "" || (c.fy == "") == !c.all {
		fmt.Fprintln(os.Stderr, "Error: -account and exactly one of -fy or -all are required.")
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
	account, err := store.Load[savings.PPFAccount](a.db, store.PPF, c.account)
	if err != nil {
		return fail("Error loading account: %v", err)
	}

	var statements []savings.PPFInterest
	if c.all {
		account, statements = account.AccrueCompletedYears(today)
	} else {
		fy, err := date.ParseFinancialYear(c.fy)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing financial year: %v\n", err)
			return subcommands.ExitUsageError
		}
		var s savings.PPFInterest
		account, s = account.CalculateInterest(fy)
		statements = append(statements, s)
	}

	if err := store.Save(a.db, store.PPF, account.ID.String(), account); err != nil {
		return fail("Error saving account %q: %v", account.ID, err)
	}
	for _, s := range statements {
		a.logger.Info().Str("account", account.ID.String()).Stringer("fy", s.FinancialYear).Str("interest", s.Total.String()).Msg("interest credited")
		printMarkdown(renderer.RenderPPFInterest(renderer.PPFReport{Account: account, Statement: s}, a.options()))
	}
	return subcommands.ExitSuccess
}

// ppfDeleteCmd holds the flags for the 'ppf-delete' subcommand.
type ppfDeleteCmd struct {
	account string
	entry   string
}

func (*ppfDeleteCmd) Name() string     { return "ppf-delete" }
func (*ppfDeleteCmd) Synopsis() string { return "delete an entry of a PPF account" }
func (*ppfDeleteCmd) Usage() string {
	return `fin ppf-delete -account <account> -entry <entry>

  Deletes an investment or an interest credit and recomputes the balances.
`
}

func (c *ppfDeleteCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.account, "account", "", "PPF account.")
	f.StringVar(&c.entry, "entry", "", "Entry to delete.")
}

func (c *ppfDeleteCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.account == "" || c.entry == "" {
		fmt.Fprintln(os.Stderr, "Error: -account and -entry are required.")
		return subcommands.ExitUsageError
	}
	a, err := openApp()
	if err != nil {
		return fail("Error opening database: %v", err)
	}
	account, err := store.Load[savings.PPFAccount](a.db, store.PPF, c.account)
	if err != nil {
		return fail("Error loading account: %v", err)
	}
	account, err = account.DeleteEntry(savings.ID(c.entry))
	if err != nil {
		return fail("Error deleting entry: %v", err)
	}
	if err := store.Save(a.db, store.PPF, account.ID.String(), account); err != nil {
		return fail("Error saving account %q: %v", account.ID, err)
	}
	fmt.Fprintf(stdout, "Deleted entry %s, balance is now %s\n", c.entry, account.Amount().Format(a.cfg.Currency))
	return subcommands.ExitSuccess
}

// ppfEntryCmd holds the flags for the 'ppf-entry' subcommand.
type ppfEntryCmd struct {
	account string
	entry   string
	txType  string
	date    string
	amount  float64
	remarks string
}

func (*ppfEntryCmd) Name() string     { return "ppf-entry" }
func (*ppfEntryCmd) Synopsis() string { return "record an entry of a PPF account" }
func (*ppfEntryCmd) Usage() string {
	return `fin ppf-entry -account <account> -date <date> -amount <amount> [-type investment|interest] [-entry <entry>] [-remarks <text>]

  Adds an investment, or an interest credit read from the passbook, to a PPF
  account and recomputes the balances. With -entry the entry with that id is
  replaced, or added under that id when there is none.
`
}

func (c *ppfEntryCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.account, "account", "", "PPF account.")
	f.StringVar(&c.entry, "entry", "", "Entry to replace.")
	f.StringVar(&c.txType, "type", string(savings.PPFInvestment), "Entry type, investment or interest.")
	f.StringVar(&c.date, "date", "", "Entry date, YYYY-MM-DD.")
	f.Float64Var(&c.amount, "amount", 0, "Amount invested or interest credited.")
	f.StringVar(&c.remarks, "remarks", "", "Free text.")
}

// ppfEntry builds the entry described by the flags.
func (c *ppfEntryCmd) ppfEntry() (savings.PPFEntry, error) {
	on, err := date.Parse(c.date)
	if err != nil {
		return savings.PPFEntry{}, err
	}
	if c.amount <= 0 {
		return savings.PPFEntry{}, fmt.Errorf("amount must be positive, got %v", c.amount)
	}
	e := savings.PPFEntry{ID: savings.ID(c.entry), Date: on, Type: savings.PPFEntryType(c.txType), Remarks: c.remarks}
	switch e.Type {
	case savings.PPFInvestment:
		e.Amount = savings.M(c.amount)
	case savings.PPFInterestCredit:
		e.InterestEarned = savings.M(c.amount)
	default:
		return savings.PPFEntry{}, fmt.Errorf("unknown entry type %q", c.txType)
	}
	return e, nil
}

func (c *ppfEntryCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.account == "" {
		fmt.Fprintln(os.Stderr, "Error: -account is required.")
		return subcommands.ExitUsageError
	}
	e, err := c.ppfEntry()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	a, err := openApp()
	if err != nil {
		return fail("Error opening database: %v", err)
	}
	account, err := store.Load[savings.PPFAccount](a.db, store.PPF, c.account)
	if err != nil {
		return fail("Error loading account: %v", err)
	}
	account = account.AddEntry(e)
	if err := store.Save(a.db, store.PPF, account.ID.String(), account); err != nil {
		return fail("Error saving account %q: %v", account.ID, err)
	}
	fmt.Fprintf(stdout, "Recorded entry on %s, balance is now %s\n", e.Date, account.Amount().Format(a.cfg.Currency))
	return subcommands.ExitSuccess
}
