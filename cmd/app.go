// Package cmd implements the fin CLI application to keep a personal finance
// database up to date.
package cmd

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/savings"
	"github.com/etnz/savings/config"
	"github.com/etnz/savings/date"
	"github.com/etnz/savings/logging"
	"github.com/etnz/savings/renderer"
	"github.com/etnz/savings/store"
	"github.com/google/subcommands"
	"github.com/rs/zerolog"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&savingsInterestCmd{}, "savings")
	c.Register(&savingsTxCmd{}, "savings")
	c.Register(&savingsDeleteCmd{}, "savings")

	c.Register(&fdAccrueCmd{}, "fixed deposits")
	c.Register(&fdRenewCmd{}, "fixed deposits")
	c.Register(&fdBreakdownCmd{}, "fixed deposits")

	c.Register(&ppfInterestCmd{}, "ppf")
	c.Register(&ppfEntryCmd{}, "ppf")
	c.Register(&ppfDeleteCmd{}, "ppf")

	c.Register(&stockReplayCmd{}, "stocks")
	c.Register(&stockTxCmd{}, "stocks")

	c.Register(&sgbCouponsCmd{}, "gold bonds")

	c.Register(&summaryCmd{}, "reports")
	c.Register(&queryCmd{}, "reports")
	c.Register(&topicCmd{}, "help")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var configPath = flag.String("config", "fin.yaml", "Path to the configuration file (YAML, or TOML with a .toml extension)")
var dbPath = flag.String("db", "", "Path to the JSON database. Overrides the configuration.")

// stdout receives the reports.
var stdout io.Writer = os.Stdout

// app is what every subcommand works with.
type app struct {
	cfg    *config.Config
	logger zerolog.Logger
	db     *store.DB
}

// openApp loads the configuration and opens the database.
func openApp() (*app, error) {
	cfg, err := config.Load(*configPath)
	if err != nil {
		return nil, err
	}
	if *dbPath != "" {
		cfg.DB = *dbPath
	}
	logger := logging.NewConsole(cfg.LogLevel)
	db, err := store.Open(cfg.DB, logger)
	if err != nil {
		return nil, err
	}
	return &app{cfg: cfg, logger: logger, db: db}, nil
}

func (a *app) options() renderer.Options { return renderer.Options{Currency: a.cfg.Currency} }

// book loads every collection of the database.
func (a *app) book() savings.Book {
	return savings.Book{
		Savings:       store.LoadAll[savings.SavingsAccount](a.db, store.Savings),
		FixedDeposits: store.LoadAll[savings.FixedDeposit](a.db, store.FixedDeposits),
		PPF:           store.LoadAll[savings.PPFAccount](a.db, store.PPF),
		Stocks:        store.LoadAll[savings.Stock](a.db, store.Stocks),
		SGB:           store.LoadAll[savings.SGBAccount](a.db, store.SGB),
		Metals:        store.LoadAll[savings.MetalHolding](a.db, store.Metals),
	}
}

// selectRecords returns the record with the given id, or all of them when id
// is empty.
func selectRecords[T any](a *app, collection, id string) ([]T, error) {
	if id == "" {
		return store.LoadAll[T](a.db, collection), nil
	}
	v, err := store.Load[T](a.db, collection, id)
	if err != nil {
		return nil, err
	}
	return []T{v}, nil
}

// parseToday parses a -today flag. Empty means the current day.
func parseToday(s string) (date.Date, error) {
	if s == "" {
		return date.Today(), nil
	}
	return date.Parse(s)
}

// printMarkdown renders md for the terminal. The raw markdown is printed when
// it cannot be rendered.
func printMarkdown(md string) {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
	if err != nil {
		fmt.Fprint(stdout, md)
		return
	}
	out, err := r.Render(md)
	if err != nil {
		fmt.Fprint(stdout, md)
		return
	}
	fmt.Fprint(stdout, out)
}

// fail reports err on stderr and returns the failure status.
func fail(format string, args ...any) subcommands.ExitStatus {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	return subcommands.ExitFailure
}
