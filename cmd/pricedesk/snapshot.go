package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"

	"github.com/bobmcallan/pricedesk/internal/common"
	"github.com/bobmcallan/pricedesk/internal/services/registry"
	"github.com/bobmcallan/pricedesk/internal/services/snapshot"
)

type snapshotCmd struct {
	date    string
	symbols string
	live    optBool
	manual  optBool
	json    bool
}

func (*snapshotCmd) Name() string     { return "snapshot" }
func (*snapshotCmd) Synopsis() string { return "compute price, 5-day change and YTD for instruments" }
func (*snapshotCmd) Usage() string {
	return `snapshot [-date YYYY-MM-DD] [-symbols AAPL,HEIA.AS] [-live] [-manual=false] [-json]

  Computes one row per instrument for the target date (default today).
  Without -symbols the whole instrument registry is used.
`
}

func (c *snapshotCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "date", "", "Target date, YYYY-MM-DD (default today)")
	f.StringVar(&c.symbols, "symbols", "", "Comma separated symbols (default: registry)")
	f.Var(&c.live, "live", "Substitute a live price when the target date is today")
	f.Var(&c.manual, "manual", "Use reference baselines for YTD")
	f.BoolVar(&c.json, "json", false, "Print the snapshot as JSON")
}

func (c *snapshotCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	var date common.Date
	if c.date != "" {
		d, err := common.ParseDate(c.date)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: invalid -date %q: %v\n", c.date, err)
			return subcommands.ExitUsageError
		}
		date = d
	}

	a, err := openApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.Close()
	if date.IsZero() {
		date = a.Snapshots.Today()
	}

	instruments := a.Registry.Instruments()
	if c.symbols != "" {
		instruments = a.Registry.Filter(registry.ParseSymbols(c.symbols))
	}
	if len(instruments) == 0 {
		fmt.Fprintln(os.Stderr, "Error: no instruments; pass -symbols or configure registry.path")
		return subcommands.ExitUsageError
	}

	snap, err := a.Snapshots.Run(ctx, snapshot.Request{
		Date:            date,
		Instruments:     instruments,
		ManualBaselines: c.manual.ptr(),
		LivePrice:       c.live.ptr(),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	if c.json {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(snap); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	}

	if err := writeSnapshot(stdout, snap); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

type seriesCmd struct {
	from string
	to   string
}

func (*seriesCmd) Name() string     { return "series" }
func (*seriesCmd) Synopsis() string { return "print the normalized session series of one symbol" }
func (*seriesCmd) Usage() string {
	return `series [-from YYYY-MM-DD] [-to YYYY-MM-DD] SYMBOL

  Fetches SYMBOL through the configured tiers and prints its sessions.
`
}

func (c *seriesCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.from, "from", "", "First date (default Dec 1 of last year)")
	f.StringVar(&c.to, "to", "", "Last date (default today plus grace days)")
}

func (c *seriesCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: exactly one SYMBOL is required")
		return subcommands.ExitUsageError
	}

	a, err := openApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	window := snapshot.FetchWindow(a.Snapshots.Today(), a.Config.Returns.GraceDays)
	for _, p := range []struct {
		value string
		dest  *common.Date
	}{{c.from, &window.From}, {c.to, &window.To}} {
		if p.value == "" {
			continue
		}
		d, err := common.ParseDate(p.value)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: invalid date %q: %v\n", p.value, err)
			return subcommands.ExitUsageError
		}
		*p.dest = d
	}

	series := a.Snapshots.Series(ctx, f.Arg(0), window)
	if series.NoData() {
		fmt.Fprintf(os.Stderr, "No sessions for %s between %s and %s\n", strings.ToUpper(f.Arg(0)), window.From, window.To)
		return subcommands.ExitFailure
	}

	fmt.Fprintf(stdout, "%s from %s (%s)\n", series.Symbol, series.Source, series.Timezone)
	for _, s := range series.Sessions {
		fmt.Fprintf(stdout, "%s  %12s  %12s\n", s.Date, formatPrice(s.PriceReturn, ""), formatPrice(s.TotalReturn, ""))
	}
	return subcommands.ExitSuccess
}
