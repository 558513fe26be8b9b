package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/Rhymond/go-money"
	"github.com/charmbracelet/lipgloss"
	"github.com/guregu/null/v6"
	"github.com/shopspring/decimal"

	"github.com/bobmcallan/pricedesk/internal/models"
)

var (
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	partialStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	noDataStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

func statusStyle(status models.ResultStatus) lipgloss.Style {
	switch status {
	case models.StatusOK:
		return okStyle
	case models.StatusPartial:
		return partialStyle
	default:
		return noDataStyle
	}
}

// formatPrice renders a price in its currency when go-money knows the
// ISO code, otherwise as a plain decimal followed by the code.
// Yahoo's minor-unit codes (GBp, ZAc, ILA) are never treated as ISO.
func formatPrice(v null.Float, currency string) string {
	if !v.Valid {
		return "-"
	}
	d := decimal.NewFromFloat(v.Float64)

	if cur := money.GetCurrency(currency); cur != nil && currency == strings.ToUpper(currency) {
		minor := d.Shift(int32(cur.Fraction)).Round(0)
		return cur.Formatter().Format(minor.IntPart())
	}

	s := d.StringFixed(2)
	if currency != "" {
		s += " " + currency
	}
	return s
}

// formatPercent renders a signed percentage with two decimals.
func formatPercent(v null.Float) string {
	if !v.Valid {
		return "-"
	}
	d := decimal.NewFromFloat(v.Float64).Round(2)
	if d.IsPositive() {
		return "+" + d.StringFixed(2) + "%"
	}
	return d.StringFixed(2) + "%"
}

// parsePrice reads a decimal price from the command line.
func parsePrice(s string) (float64, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid price %q", s)
	}
	if d.IsNegative() {
		return 0, fmt.Errorf("price %s must not be negative", d)
	}
	return d.InexactFloat64(), nil
}

func formatDate(d interface{ String() string }, ok bool) string {
	if !ok {
		return "-"
	}
	return d.String()
}

// writeSnapshot prints one row per result in snapshot order.
func writeSnapshot(w io.Writer, snap *models.Snapshot) error {
	fmt.Fprintf(w, "Snapshot %s (today %s)\n\n", snap.Date, snap.Today)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SYMBOL\tSESSION\tPRICE\t5D\tYTD\tBASELINE\tANCHOR\tSOURCE\tSTATUS")
	for _, r := range snap.Results {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.Symbol,
			formatDate(r.SessionDate, r.SessionDate != nil),
			formatPrice(r.Price, r.Currency),
			formatPercent(r.Change5D),
			formatPercent(r.YTD),
			formatPrice(r.Baseline, r.Currency),
			orDash(string(r.BaselineSource)),
			orDash(r.Source),
			statusStyle(r.Status).Render(string(r.Status)),
		)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	counts := snap.Counts()
	fmt.Fprintf(w, "\n%d ok, %d partial, %d no data\n",
		counts[models.StatusOK], counts[models.StatusPartial], counts[models.StatusNoData])
	return nil
}

// writeBaselines prints reference baselines in store order.
func writeBaselines(w io.Writer, list []*models.ReferenceBaseline) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SYMBOL\tYEAR\tPRICE\tREF DATE\tKIND\tNOTE")
	for _, b := range list {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\t%s\n",
			b.Symbol,
			b.Year,
			decimal.NewFromFloat(b.Price).String(),
			formatDate(b.RefDate, b.RefDate != nil),
			orDash(b.SeriesKind),
			b.Note,
		)
	}
	return tw.Flush()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
