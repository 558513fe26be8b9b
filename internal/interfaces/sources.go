// Package interfaces defines service contracts for pricedesk
package interfaces

//go:generate mockgen -destination=mocks/sources_mock.go -package=mocks github.com/bobmcallan/pricedesk/internal/interfaces BarSource,BatchBarSource,LiveQuoteSource,BaselineStore

import (
	"context"

	"github.com/bobmcallan/pricedesk/internal/models"
)

// BarSource fetches the daily history of one symbol for a window.
// Implementations return an error for transport or parse failures; an
// empty series is not an error.
type BarSource interface {
	Name() string
	FetchBars(ctx context.Context, symbol string, window models.Window) (*models.RawSeries, error)
}

// BatchBarSource fetches many symbols in as few requests as possible.
// Symbols absent from the returned map have no data from this source.
type BatchBarSource interface {
	Name() string
	FetchBarsBatch(ctx context.Context, symbols []string, window models.Window) (map[string]*models.RawSeries, error)
}

// LiveQuoteSource returns the latest traded price of a symbol.
type LiveQuoteSource interface {
	GetLiveQuote(ctx context.Context, symbol string) (*models.LiveQuote, error)
}
