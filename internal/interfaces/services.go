package interfaces

import (
	"context"

	"github.com/guregu/null/v6"

	"github.com/bobmcallan/pricedesk/internal/common"
	"github.com/bobmcallan/pricedesk/internal/models"
)

// SeriesFetcher resolves normalized session series through the tier chain.
// It never fails: a symbol that no tier can serve yields an empty series.
type SeriesFetcher interface {
	Fetch(ctx context.Context, symbol string, window models.Window) *models.SessionSeries
	FetchMany(ctx context.Context, symbols []string, window models.Window) map[string]*models.SessionSeries
}

// PolicyResolver decides the per-symbol return policy.
type PolicyResolver interface {
	Resolve(symbol, region string) models.ReturnPolicy
	ResolveInstrument(inst models.Instrument) models.ReturnPolicy
}

// QuoteService provides live prices for same-day calculations.
type QuoteService interface {
	GetLivePrice(ctx context.Context, symbol string) (null.Float, error)
}

// SnapshotService runs the full fetch-normalize-compute pipeline.
type SnapshotService interface {
	Run(ctx context.Context, req SnapshotRequest) (*models.Snapshot, error)
	Series(ctx context.Context, symbol string, window models.Window) *models.SessionSeries
}

// SnapshotRequest describes one snapshot run. Nil flags use the configured defaults.
type SnapshotRequest struct {
	Date            common.Date
	Instruments     []models.Instrument
	ManualBaselines *bool
	LivePrice       *bool
}
