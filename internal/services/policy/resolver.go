// Package policy decides per-symbol return policy from static venue tables.
package policy

import (
	"strings"

	"github.com/bobmcallan/pricedesk/internal/interfaces"
	"github.com/bobmcallan/pricedesk/internal/models"
)

// DefaultPreHolidaySuffixes are Yahoo venue suffixes of Euronext markets,
// which anchor YTD on the last session before the year-end holiday window.
var DefaultPreHolidaySuffixes = []string{"AS", "PA", "BR", "LS", "IR", "OL", "MI"}

// DefaultPreHolidayRegions match Instrument.Region case-insensitively.
var DefaultPreHolidayRegions = []string{
	"euronext",
	"netherlands", "france", "belgium", "portugal", "ireland", "norway", "italy",
	"amsterdam", "paris", "brussels", "lisbon", "dublin", "oslo", "milan",
	"xams", "xpar", "xbru", "xlis", "xdub", "xmsm", "xosl", "xmil",
}

// Resolver is a pure function of its tables.
type Resolver struct {
	suffixes       map[string]bool
	regions        map[string]bool
	usePriceReturn bool
}

var _ interfaces.PolicyResolver = (*Resolver)(nil)

// Config extends the default tables.
type Config struct {
	PriceReturn   bool
	ExtraSuffixes []string
	ExtraRegions  []string
}

// NewResolver builds the lookup tables once.
func NewResolver(cfg Config) *Resolver {
	r := &Resolver{
		suffixes:       make(map[string]bool),
		regions:        make(map[string]bool),
		usePriceReturn: cfg.PriceReturn,
	}
	for _, s := range append(append([]string(nil), DefaultPreHolidaySuffixes...), cfg.ExtraSuffixes...) {
		if s = strings.ToUpper(strings.TrimPrefix(strings.TrimSpace(s), ".")); s != "" {
			r.suffixes[s] = true
		}
	}
	for _, s := range append(append([]string(nil), DefaultPreHolidayRegions...), cfg.ExtraRegions...) {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			r.regions[s] = true
		}
	}
	return r
}

// Suffix returns the venue suffix of a symbol (text after the last "."), or "".
func Suffix(symbol string) string {
	i := strings.LastIndex(symbol, ".")
	if i < 0 || i == len(symbol)-1 {
		return ""
	}
	return strings.ToUpper(symbol[i+1:])
}

// Resolve returns the policy for a symbol listed in region (may be empty).
func (r *Resolver) Resolve(symbol, region string) models.ReturnPolicy {
	anchor := models.AnchorStandard
	if r.suffixes[Suffix(strings.TrimSpace(symbol))] || r.regions[strings.ToLower(strings.TrimSpace(region))] {
		anchor = models.AnchorPreHoliday
	}
	return models.ReturnPolicy{
		UsePriceReturn: r.usePriceReturn,
		YTDAnchor:      anchor,
	}
}

// ResolveInstrument applies the instrument's series override on top of Resolve.
func (r *Resolver) ResolveInstrument(inst models.Instrument) models.ReturnPolicy {
	p := r.Resolve(inst.Symbol, inst.Region)
	switch strings.ToLower(strings.TrimSpace(inst.Series)) {
	case "price":
		p.UsePriceReturn = true
	case "total":
		p.UsePriceReturn = false
	}
	return p
}
