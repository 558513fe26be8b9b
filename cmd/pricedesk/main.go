// Command pricedesk computes price snapshots and manages reference baselines
// from the command line.
package main

import (
	"context"
	"flag"
	"io"
	"os"
	"path"
	"strconv"
	_ "time/tzdata"

	"github.com/google/subcommands"

	"github.com/bobmcallan/pricedesk/internal/app"
)

var configPath = flag.String("config", "", "Path to pricedesk.toml (default: $PRICEDESK_CONFIG, then config/pricedesk.toml)")

// stdout is swapped by tests.
var stdout io.Writer = os.Stdout

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	register(commander)

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}

func register(c *subcommands.Commander) {
	c.Register(c.HelpCommand(), "")
	c.Register(c.FlagsCommand(), "")
	c.Register(c.CommandsCommand(), "")

	c.Register(&snapshotCmd{}, "prices")
	c.Register(&seriesCmd{}, "prices")

	c.Register(&baselineSetCmd{}, "baselines")
	c.Register(&baselineGetCmd{}, "baselines")
	c.Register(&baselineDeleteCmd{}, "baselines")
	c.Register(&baselineListCmd{}, "baselines")
}

// openApp builds the application from -config.
func openApp() (*app.App, error) {
	return app.NewApp(*configPath)
}

// optBool is a boolean flag that remembers whether it was set, so an unset
// flag leaves the configured default in place.
type optBool struct {
	set   bool
	value bool
}

func (b *optBool) IsBoolFlag() bool { return true }

func (b *optBool) String() string {
	if b == nil || !b.set {
		return ""
	}
	return strconv.FormatBool(b.value)
}

func (b *optBool) Set(s string) error {
	v, err := strconv.ParseBool(s)
	if err != nil {
		return err
	}
	b.set, b.value = true, v
	return nil
}

// ptr returns nil when the flag was not given.
func (b *optBool) ptr() *bool {
	if !b.set {
		return nil
	}
	v := b.value
	return &v
}
