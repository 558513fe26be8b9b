package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/google/subcommands"

	"github.com/bobmcallan/pricedesk/internal/common"
	"github.com/bobmcallan/pricedesk/internal/interfaces"
	"github.com/bobmcallan/pricedesk/internal/models"
)

// symbolYear parses the SYMBOL YEAR positional arguments.
func symbolYear(f *flag.FlagSet, want int) (string, int, error) {
	if f.NArg() != want {
		return "", 0, fmt.Errorf("expected %d arguments, got %d", want, f.NArg())
	}
	symbol := models.NormalizeSymbol(f.Arg(0))
	if symbol == "" {
		return "", 0, fmt.Errorf("symbol is required")
	}
	year, err := strconv.Atoi(f.Arg(1))
	if err != nil {
		return "", 0, fmt.Errorf("invalid year %q", f.Arg(1))
	}
	return symbol, year, nil
}

type baselineSetCmd struct {
	date string
	kind string
	note string
}

func (*baselineSetCmd) Name() string     { return "baseline-set" }
func (*baselineSetCmd) Synopsis() string { return "store a reference YTD baseline" }
func (*baselineSetCmd) Usage() string {
	return `baseline-set [-date YYYY-MM-DD] [-kind price|total] [-note text] SYMBOL YEAR PRICE

  Stores PRICE as the year-start anchor of SYMBOL for YEAR, replacing any
  existing value.
`
}

func (c *baselineSetCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "date", "", "Session date the price was taken from")
	f.StringVar(&c.kind, "kind", "", "Series the price belongs to: price or total")
	f.StringVar(&c.note, "note", "", "Free text note")
}

func (c *baselineSetCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 3 {
		fmt.Fprintln(os.Stderr, "Error: SYMBOL YEAR PRICE are required")
		return subcommands.ExitUsageError
	}
	symbol := models.NormalizeSymbol(f.Arg(0))
	year, err := strconv.Atoi(f.Arg(1))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid year %q\n", f.Arg(1))
		return subcommands.ExitUsageError
	}
	price, err := parsePrice(f.Arg(2))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	b := &models.ReferenceBaseline{
		Symbol:     symbol,
		Year:       year,
		Price:      price,
		SeriesKind: c.kind,
		Note:       c.note,
	}
	if c.date != "" {
		d, err := common.ParseDate(c.date)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: invalid -date %q\n", c.date)
			return subcommands.ExitUsageError
		}
		b.RefDate = &d
	}
	if err := b.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	a, err := openApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	if err := a.Baselines.SetBaseline(ctx, b); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving baseline: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(stdout, "Saved baseline %s = %s\n", models.BaselineKey(symbol, year), f.Arg(2))
	return subcommands.ExitSuccess
}

type baselineGetCmd struct{}

func (*baselineGetCmd) Name() string             { return "baseline-get" }
func (*baselineGetCmd) Synopsis() string         { return "show the reference baseline of a symbol and year" }
func (*baselineGetCmd) Usage() string            { return "baseline-get SYMBOL YEAR\n" }
func (*baselineGetCmd) SetFlags(f *flag.FlagSet) {}

func (*baselineGetCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	symbol, year, err := symbolYear(f, 2)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	a, err := openApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	b, err := a.Baselines.GetBaseline(ctx, symbol, year)
	if errors.Is(err, interfaces.ErrBaselineNotFound) {
		fmt.Fprintf(os.Stderr, "No baseline for %s\n", models.BaselineKey(symbol, year))
		return subcommands.ExitFailure
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	if err := writeBaselines(stdout, []*models.ReferenceBaseline{b}); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

type baselineDeleteCmd struct{}

func (*baselineDeleteCmd) Name() string { return "baseline-delete" }
func (*baselineDeleteCmd) Synopsis() string {
	return "remove the reference baseline of a symbol and year"
}
func (*baselineDeleteCmd) Usage() string            { return "baseline-delete SYMBOL YEAR\n" }
func (*baselineDeleteCmd) SetFlags(f *flag.FlagSet) {}

func (*baselineDeleteCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	symbol, year, err := symbolYear(f, 2)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	a, err := openApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	if err := a.Baselines.DeleteBaseline(ctx, symbol, year); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(stdout, "Deleted baseline %s\n", models.BaselineKey(symbol, year))
	return subcommands.ExitSuccess
}

type baselineListCmd struct {
	year int
}

func (*baselineListCmd) Name() string     { return "baseline-list" }
func (*baselineListCmd) Synopsis() string { return "list reference baselines" }
func (*baselineListCmd) Usage() string    { return "baseline-list [-year YYYY]\n" }

func (c *baselineListCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.year, "year", 0, "Only this year (default every year)")
}

func (c *baselineListCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	list, err := a.Baselines.ListBaselines(ctx, c.year)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if len(list) == 0 {
		fmt.Fprintln(stdout, "No baselines stored")
		return subcommands.ExitSuccess
	}
	if err := writeBaselines(stdout, list); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
