package models

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/bobmcallan/pricedesk/internal/common"
)

// Baseline year bounds accepted by every store.
const (
	MinBaselineYear = 1900
	MaxBaselineYear = 2200
)

// ReferenceBaseline is a manually curated YTD anchor price for (symbol, year).
type ReferenceBaseline struct {
	Symbol     string       `json:"symbol"`
	Year       int          `json:"year"`
	Price      float64      `json:"price"`
	RefDate    *common.Date `json:"ref_date,omitempty"`
	SeriesKind string       `json:"series_kind,omitempty"` // "price" or "total"
	Note       string       `json:"note,omitempty"`
	UpdatedAt  time.Time    `json:"updated_at"`
}

// BaselineKey is the storage key shared by all backends, e.g. "ASML.AS_2024".
func BaselineKey(symbol string, year int) string {
	return fmt.Sprintf("%s_%d", NormalizeSymbol(symbol), year)
}

// NormalizeSymbol trims and upper-cases a ticker.
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// Validate checks symbol, year range and price. A zero price is storable.
func (b *ReferenceBaseline) Validate() error {
	if b == nil {
		return fmt.Errorf("baseline is nil")
	}
	if NormalizeSymbol(b.Symbol) == "" {
		return fmt.Errorf("baseline symbol is required")
	}
	if b.Year < MinBaselineYear || b.Year > MaxBaselineYear {
		return fmt.Errorf("baseline year %d out of range %d..%d", b.Year, MinBaselineYear, MaxBaselineYear)
	}
	if math.IsNaN(b.Price) || math.IsInf(b.Price, 0) || b.Price < 0 {
		return fmt.Errorf("baseline price %v must be finite and non-negative", b.Price)
	}
	switch b.SeriesKind {
	case "", "price", "total":
	default:
		return fmt.Errorf("baseline series kind %q must be price or total", b.SeriesKind)
	}
	return nil
}

// SortBaselines orders by symbol, then year.
func SortBaselines(list []*ReferenceBaseline) {
	sort.Slice(list, func(i, j int) bool {
		if list[i].Symbol != list[j].Symbol {
			return list[i].Symbol < list[j].Symbol
		}
		return list[i].Year < list[j].Year
	})
}

// BaselineRecord is the flat form persisted by the database backends.
// RefDate is stored as YYYY-MM-DD, empty when unset.
type BaselineRecord struct {
	Key        string    `json:"key"`
	Symbol     string    `json:"symbol"`
	Year       int       `json:"year" badgerhold:"index"`
	Price      float64   `json:"price"`
	RefDate    string    `json:"ref_date"`
	SeriesKind string    `json:"series_kind"`
	Note       string    `json:"note"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Record flattens b. The symbol is normalized.
func (b *ReferenceBaseline) Record() BaselineRecord {
	r := BaselineRecord{
		Key:        BaselineKey(b.Symbol, b.Year),
		Symbol:     NormalizeSymbol(b.Symbol),
		Year:       b.Year,
		Price:      b.Price,
		SeriesKind: b.SeriesKind,
		Note:       b.Note,
		UpdatedAt:  b.UpdatedAt,
	}
	if b.RefDate != nil && !b.RefDate.IsZero() {
		r.RefDate = b.RefDate.String()
	}
	return r
}

// Baseline restores the model. An unparseable RefDate is dropped.
func (r BaselineRecord) Baseline() *ReferenceBaseline {
	b := &ReferenceBaseline{
		Symbol:     r.Symbol,
		Year:       r.Year,
		Price:      r.Price,
		SeriesKind: r.SeriesKind,
		Note:       r.Note,
		UpdatedAt:  r.UpdatedAt,
	}
	if d, err := common.ParseDate(r.RefDate); err == nil && !d.IsZero() {
		b.RefDate = &d
	}
	return b
}
