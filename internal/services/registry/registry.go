// Package registry holds the read-only instrument list.
package registry

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/bobmcallan/pricedesk/internal/models"
)

// Registry is an ordered, de-duplicated instrument list.
type Registry struct {
	instruments []models.Instrument
	index       map[string]int
}

type file struct {
	Instruments []models.Instrument `yaml:"instruments"`
}

// New builds a registry. Symbols are upper-cased; blank symbols are skipped
// and duplicates collapse onto the first occurrence.
func New(instruments []models.Instrument) *Registry {
	r := &Registry{index: make(map[string]int, len(instruments))}
	for _, inst := range instruments {
		inst.Symbol = models.NormalizeSymbol(inst.Symbol)
		if inst.Symbol == "" {
			continue
		}
		if _, dup := r.index[inst.Symbol]; dup {
			continue
		}
		inst.Name = strings.TrimSpace(inst.Name)
		inst.Region = strings.TrimSpace(inst.Region)
		inst.Currency = normalizeCurrency(inst.Currency)
		inst.Series = strings.ToLower(strings.TrimSpace(inst.Series))
		r.index[inst.Symbol] = len(r.instruments)
		r.instruments = append(r.instruments, inst)
	}
	return r
}

// Load reads a YAML instrument file.
func Load(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read registry %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes YAML with a top-level "instruments" list.
func Parse(data []byte) (*Registry, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse registry: %w", err)
	}
	for i, inst := range f.Instruments {
		switch strings.ToLower(strings.TrimSpace(inst.Series)) {
		case "", "price", "total":
		default:
			return nil, fmt.Errorf("instrument %d (%s): series %q must be price or total", i, inst.Symbol, inst.Series)
		}
	}
	return New(f.Instruments), nil
}

// FromSymbols builds a registry of bare symbols.
func FromSymbols(symbols []string) *Registry {
	instruments := make([]models.Instrument, 0, len(symbols))
	for _, s := range symbols {
		instruments = append(instruments, models.Instrument{Symbol: s})
	}
	return New(instruments)
}

// ParseSymbols splits a comma or whitespace separated symbol list.
func ParseSymbols(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ';' || r == ' ' || r == '\n' || r == '\t' || r == '\r'
	})
	out := make([]string, 0, len(fields))
	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		f = models.NormalizeSymbol(f)
		if f == "" || seen[f] {
			continue
		}
		seen[f] = true
		out = append(out, f)
	}
	return out
}

// Instruments returns a copy of the list in registry order.
func (r *Registry) Instruments() []models.Instrument {
	return append([]models.Instrument(nil), r.instruments...)
}

// Symbols returns the symbols in registry order.
func (r *Registry) Symbols() []string {
	out := make([]string, len(r.instruments))
	for i, inst := range r.instruments {
		out[i] = inst.Symbol
	}
	return out
}

// Len returns the number of instruments.
func (r *Registry) Len() int { return len(r.instruments) }

// Lookup finds an instrument by symbol (case-insensitive).
func (r *Registry) Lookup(symbol string) (models.Instrument, bool) {
	i, ok := r.index[models.NormalizeSymbol(symbol)]
	if !ok {
		return models.Instrument{}, false
	}
	return r.instruments[i], true
}

// Filter returns instruments for symbols in the given order. Unknown symbols
// become bare instruments so ad-hoc tickers can still be priced.
func (r *Registry) Filter(symbols []string) []models.Instrument {
	out := make([]models.Instrument, 0, len(symbols))
	seen := make(map[string]bool, len(symbols))
	for _, s := range symbols {
		s = models.NormalizeSymbol(s)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		if inst, ok := r.Lookup(s); ok {
			out = append(out, inst)
			continue
		}
		out = append(out, models.Instrument{Symbol: s})
	}
	return out
}

// normalizeCurrency upper-cases all-lowercase codes and keeps mixed case, so
// minor-unit codes such as GBp and ZAc stay distinct from GBP and ZAR.
func normalizeCurrency(code string) string {
	code = strings.TrimSpace(code)
	if code == strings.ToLower(code) {
		return strings.ToUpper(code)
	}
	return code
}
