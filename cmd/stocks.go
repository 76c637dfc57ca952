package cmd

import (
	"context"
	"errors"
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

var stockTxTypes = []savings.StockTxType{
	savings.Buy, savings.Sell, savings.IPO, savings.Buyback, savings.Bonus,
	savings.Split, savings.Demerger, savings.Dividend,
}

// stockReplayCmd holds the flags for the 'stock-replay' subcommand.
type stockReplayCmd struct {
	id string
}

func (*stockReplayCmd) Name() string     { return "stock-replay" }
func (*stockReplayCmd) Synopsis() string { return "recompute stock positions from their transactions" }
func (*stockReplayCmd) Usage() string {
	return `fin stock-replay [-id <stock>]

  Replays the transactions of stocks to recompute their shares, average cost
  and dividends, and saves them. Stocks without transactions keep their
  recorded position.
`
}

func (c *stockReplayCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.id, "id", "", "Stock to process. Defaults to all stocks.")
}

func (c *stockReplayCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp()
	if err != nil {
		return fail("Error opening database: %v", err)
	}
	stocks, err := selectRecords[savings.Stock](a, store.Stocks, c.id)
	if err != nil {
		return fail("Error loading stock: %v", err)
	}
	for _, s := range stocks {
		s = s.Recalculate()
		if err := store.Save(a.db, store.Stocks, s.ID.String(), s); err != nil {
			return fail("Error saving stock %q: %v", s.ID, err)
		}
		printMarkdown(renderer.RenderStock(s, a.options()))
	}
	return subcommands.ExitSuccess
}

// stockTxCmd holds the flags for the 'stock-tx' subcommand.
type stockTxCmd struct {
	id      string
	tx      string
	delete  bool
	txType  string
	date    string
	qty     float64
	price   float64
	from    float64
	to      float64
	remarks string
}

func (*stockTxCmd) Name() string     { return "stock-tx" }
func (*stockTxCmd) Synopsis() string { return "record a stock transaction" }
func (*stockTxCmd) Usage() string {
	return `fin stock-tx -id <stock> -type <type> -date <date> [-qty <n>] [-price <p>] [-from <n> -to <m>] [-tx <transaction>] [-delete]

  Adds a transaction to a stock and replays its position. With -tx the
  transaction with that id is replaced, or added under that id when there is
  none, or removed with -delete.

  Types: buy, sell, ipo, buyback, bonus, split, demerger, dividend.
  A split uses -from and -to as its ratio when both are given.
`
}

func (c *stockTxCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.id, "id", "", "Stock.")
	f.StringVar(&c.tx, "tx", "", "Transaction to replace or delete.")
	f.BoolVar(&c.delete, "delete", false, "Delete the transaction given by -tx.")
	f.StringVar(&c.txType, "type", "", "Transaction type.")
	f.StringVar(&c.date, "date", "", "Transaction date, YYYY-MM-DD.")
	f.Float64Var(&c.qty, "qty", 0, "Number of shares.")
	f.Float64Var(&c.price, "price", 0, "Unit price, new average price for a demerger, or amount of a dividend.")
	f.Float64Var(&c.from, "from", 0, "Split ratio: shares before.")
	f.Float64Var(&c.to, "to", 0, "Split ratio: shares after.")
	f.StringVar(&c.remarks, "remarks", "", "Free text.")
}

// transaction builds the transaction described by the flags.
func (c *stockTxCmd) transaction() (savings.StockTx, error) {
	txType := savings.StockTxType(c.txType)
	if !slices.Contains(stockTxTypes, txType) {
		return savings.StockTx{}, fmt.Errorf("unknown transaction type %q", c.txType)
	}
	on, err := date.Parse(c.date)
	if err != nil {
		return savings.StockTx{}, err
	}
	return savings.StockTx{
		ID:        savings.ID(c.tx),
		Date:      on,
		Type:      txType,
		Quantity:  savings.Q(c.qty),
		Price:     savings.M(c.price),
		SplitFrom: savings.Q(c.from),
		SplitTo:   savings.Q(c.to),
		Remarks:   c.remarks,
	}, nil
}

func (c *stockTxCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.id == "" {
		fmt.Fprintln(os.Stderr, "Error: -id is required.")
		return subcommands.ExitUsageError
	}
	if c.delete && c.tx == "" {
		fmt.Fprintln(os.Stderr, "Error: -delete requires -tx.")
		return subcommands.ExitUsageError
	}
	var tx savings.StockTx
	if !c.delete {
		var err error
		if tx, err = c.transaction(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitUsageError
		}
	}

	a, err := openApp()
	if err != nil {
		return fail("Error opening database: %v", err)
	}
	s, err := store.Load[savings.Stock](a.db, store.Stocks, c.id)
	if err != nil {
		return fail("Error loading stock: %v", err)
	}
	switch {
	case c.delete:
		s, err = s.DeleteTransaction(savings.ID(c.tx))
	case c.tx != "":
		var updated savings.Stock
		if updated, err = s.UpdateTransaction(tx); errors.Is(err, savings.ErrNotFound) {
			updated, err = s.AddTransaction(tx)
		}
		s = updated
	default:
		s, err = s.AddTransaction(tx)
	}
	if err != nil {
		return fail("Error updating stock: %v", err)
	}
	if err := store.Save(a.db, store.Stocks, s.ID.String(), s); err != nil {
		return fail("Error saving stock %q: %v", s.ID, err)
	}
	printMarkdown(renderer.RenderStock(s, a.options()))
	return subcommands.ExitSuccess
}
