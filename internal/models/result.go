package models

import (
	"time"

	"github.com/guregu/null/v6"

	"github.com/bobmcallan/pricedesk/internal/common"
)

// ResultStatus classifies a per-symbol calculation.
type ResultStatus string

const (
	StatusOK      ResultStatus = "ok"
	StatusPartial ResultStatus = "partial"
	StatusNoData  ResultStatus = "no_data"
)

// PriceSource values.
const (
	PriceSourceSession = "session"
	PriceSourceLive    = "live"
)

// BaselineSource records how the YTD baseline was chosen.
type BaselineSource string

const (
	BaselineManual       BaselineSource = "manual"
	BaselineStandard     BaselineSource = "standard"
	BaselinePreHoliday   BaselineSource = "pre_holiday"
	BaselineFirstSession BaselineSource = "first_session"
)

// CalculationResult is the per-symbol output row. Absent metrics serialise as null.
type CalculationResult struct {
	Symbol         string         `json:"symbol"`
	Name           string         `json:"name,omitempty"`
	Region         string         `json:"region,omitempty"`
	Currency       string         `json:"currency,omitempty"`
	Status         ResultStatus   `json:"status"`
	Source         string         `json:"source,omitempty"`
	SessionDate    *common.Date   `json:"session_date,omitempty"`
	Price          null.Float     `json:"price"`
	PriceSource    string         `json:"price_source,omitempty"`
	Change5D       null.Float     `json:"change_5d"`
	YTD            null.Float     `json:"ytd"`
	Baseline       null.Float     `json:"baseline"`
	BaselineDate   *common.Date   `json:"baseline_date,omitempty"`
	BaselineSource BaselineSource `json:"baseline_source,omitempty"`
	Policy         ReturnPolicy   `json:"policy"`
}

// Snapshot is one full run over an instrument list, ordered like the request.
type Snapshot struct {
	Date        common.Date         `json:"date"`
	Today       common.Date         `json:"today"`
	GeneratedAt time.Time           `json:"generated_at"`
	Results     []CalculationResult `json:"results"`
}

// Counts returns the number of results per status.
func (s *Snapshot) Counts() map[ResultStatus]int {
	counts := map[ResultStatus]int{}
	for _, r := range s.Results {
		counts[r.Status]++
	}
	return counts
}
