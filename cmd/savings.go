package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"slices"

	"github.com/etnz/savings"
	"github.com/etnz/savings/date"
	"github.com/etnz/savings/renderer"
	"github.com/etnz/savings/store"
	"github.com/google/subcommands"
)

// savingsInterestCmd holds the flags for the 'savings-interest' subcommand.
type savingsInterestCmd struct {
	id    string
	today string
}

func (*savingsInterestCmd) Name() string     { return "savings-interest" }
func (*savingsInterestCmd) Synopsis() string { return "generate the daily interest of savings accounts" }
func (*savingsInterestCmd) Usage() string {
	return `fin savings-interest [-id <account>] [-today <date>]

  Generates the missing daily interest transactions of savings accounts up to
  today (inclusive), and saves the accounts that changed.
`
}

func (c *savingsInterestCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.id, "id", "", "Account to process. Defaults to all accounts.")
	f.StringVar(&c.today, "today", "", "The current day, YYYY-MM-DD. Defaults to today.")
}

func (c *savingsInterestCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	today, err := parseToday(c.today)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}
	a, err := openApp()
	if err != nil {
		return fail("Error opening database: %v", err)
	}
	accounts, err := selectRecords[savings.SavingsAccount](a, store.Savings, c.id)
	if err != nil {
		return fail("Error loading account: %v", err)
	}

	for _, account := range accounts {
		account, changed := account.Simulate(today)
		if changed {
			if err := store.Save(a.db, store.Savings, account.ID.String(), account); err != nil {
				return fail("Error saving account %q: %v", account.ID, err)
			}
			a.logger.Info().Str("account", account.ID.String()).Str("amount", account.Amount().String()).Msg("interest updated")
		}
		printMarkdown(renderer.RenderSavings(renderer.SavingsReport{Account: account, Changed: changed}, a.options()))
	}
	return subcommands.ExitSuccess
}

// savingsDeleteCmd holds the flags for the 'savings-delete' subcommand.
type savingsDeleteCmd struct {
	account string
	tx      string
}

func (*savingsDeleteCmd) Name() string     { return "savings-delete" }
func (*savingsDeleteCmd) Synopsis() string { return "delete a savings account transaction" }
func (*savingsDeleteCmd) Usage() string {
	return `fin savings-delete -account <account> -tx <transaction>

  Deletes a transaction. Interest transactions are kept with a zero amount so
  that they are never generated again.
`
}

func (c *savingsDeleteCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.account, "account", "", "Account holding the transaction.")
	f.StringVar(&c.tx, "tx", "", "Transaction to delete.")
}

func (c *savingsDeleteCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.account == "" || c.tx == "" {
		fmt.Fprintln(os.Stderr, "Error: -account and -tx are required.")
		return subcommands.ExitUsageError
	}
	a, err := openApp()
	if err != nil {
		return fail("Error opening database: %v", err)
	}
	account, err := store.Load[savings.SavingsAccount](a.db, store.Savings, c.account)
	if err != nil {
		return fail("Error loading account: %v", err)
	}
	account, err = account.DeleteTransaction(savings.ID(c.tx))
	if err != nil {
		return fail("Error deleting transaction: %v", err)
	}
	if err := store.Save(a.db, store.Savings, account.ID.String(), account); err != nil {
		return fail("Error saving account %q: %v", account.ID, err)
	}
	printMarkdown(renderer.RenderSavings(renderer.SavingsReport{Account: account, Changed: true}, a.options()))
	return subcommands.ExitSuccess
}

var savingsTxTypes = []savings.SavingsTxType{savings.Deposit, savings.Withdraw, savings.Interest, savings.MonniesRedeemed}

// savingsTxCmd holds the flags for the 'savings-tx' subcommand.
type savingsTxCmd struct {
	account string
	tx      string
	txType  string
	date    string
	amount  float64
	remarks string
}

func (*savingsTxCmd) Name() string     { return "savings-tx" }
func (*savingsTxCmd) Synopsis() string { return "record a savings account transaction" }
func (*savingsTxCmd) Usage() string {
	return `fin savings-tx -account <account> -type <type> -date <date> -amount <amount> [-tx <transaction>] [-remarks <text>]

  Adds a transaction to a savings account. With -tx the transaction with that
  id is replaced, or added under that id when there is none. An interest
  transaction recorded this way is a manual override: savings-interest keeps
  its amount.

  Types: deposit, withdraw, interest, monnies_redeemed.
`
}

func (c *savingsTxCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.account, "account", "", "Savings account.")
	f.StringVar(&c.tx, "tx", "", "Transaction to replace.")
	f.StringVar(&c.txType, "type", "", "Transaction type.")
	f.StringVar(&c.date, "date", "", "Transaction date, YYYY-MM-DD.")
	f.Float64Var(&c.amount, "amount", 0, "Amount, always positive.")
	f.StringVar(&c.remarks, "remarks", "", "Free text.")
}

// transaction builds the transaction described by the flags.
func (c *savingsTxCmd) transaction() (savings.SavingsTx, error) {
	txType := savings.SavingsTxType(c.txType)
	if !slices.Contains(savingsTxTypes, txType) {
		return savings.SavingsTx{}, fmt.Errorf("unknown transaction type %q", c.txType)
	}
	if c.amount < 0 {
		return savings.SavingsTx{}, fmt.Errorf("negative amount %v", c.amount)
	}
	on, err := date.Parse(c.date)
	if err != nil {
		return savings.SavingsTx{}, err
	}
	return savings.SavingsTx{
		ID:      savings.ID(c.tx),
		Date:    on,
		Type:    txType,
		Amount:  savings.M(c.amount),
		Remarks: c.remarks,
	}, nil
}

func (c *savingsTxCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.account == "" {
		fmt.Fprintln(os.Stderr, "Error: -account is required.")
		return subcommands.ExitUsageError
	}
	tx, err := c.transaction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	a, err := openApp()
	if err != nil {
		return fail("Error opening database: %v", err)
	}
	account, err := store.Load[savings.SavingsAccount](a.db, store.Savings, c.account)
	if err != nil {
		return fail("Error loading account: %v", err)
	}
	account = account.UpsertTransaction(tx)
	if err := store.Save(a.db, store.Savings, account.ID.String(), account); err != nil {
		return fail("Error saving account %q: %v", account.ID, err)
	}
	printMarkdown(renderer.RenderSavings(renderer.SavingsReport{Account: account, Changed: true}, a.options()))
	return subcommands.ExitSuccess
}
