package fetch

import (
	"context"
	"fmt"
	"time"

	"github.com/bobmcallan/pricedesk/internal/common"
	"github.com/bobmcallan/pricedesk/internal/interfaces"
	"github.com/bobmcallan/pricedesk/internal/models"
)

// RangeFetcher fetches a relative history range such as "2y".
type RangeFetcher interface {
	FetchRange(ctx context.Context, symbol, rng string) (*models.RawSeries, error)
}

// LookbackSource adapts a relative-range fetch into a BarSource. It serves
// windows the period-based endpoint rejects, trimming the long history
// back to the requested window.
type LookbackSource struct {
	source RangeFetcher
	rng    string
	name   string
}

var _ interfaces.BarSource = (*LookbackSource)(nil)

// NewLookbackSource wraps source with a lookback of years (default 2).
func NewLookbackSource(source RangeFetcher, name string, years int) *LookbackSource {
	if years <= 0 {
		years = 2
	}
	return &LookbackSource{source: source, rng: fmt.Sprintf("%dy", years), name: name}
}

// Name identifies the source in logs and results.
func (l *LookbackSource) Name() string { return l.name }

// FetchBars fetches the lookback range and keeps bars whose UTC date is within
// a day of the window; the normalizer applies the exact exchange-date trim.
func (l *LookbackSource) FetchBars(ctx context.Context, symbol string, window models.Window) (*models.RawSeries, error) {
	raw, err := l.source.FetchRange(ctx, symbol, l.rng)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, fmt.Errorf("%s: empty response for %s", l.name, symbol)
	}

	padded := models.Window{From: window.From.AddDays(-1), To: window.To.AddDays(1)}
	out := &models.RawSeries{
		Symbol:           symbol,
		Source:           l.name,
		ExchangeTimezone: raw.ExchangeTimezone,
		DateOnly:         raw.DateOnly,
		LivePrice:        raw.LivePrice,
	}
	for i, bar := range raw.Bars() {
		if !padded.Contains(common.DateOf(bar.Time.In(time.UTC))) {
			continue
		}
		out.Timestamps = append(out.Timestamps, raw.Timestamps[i])
		out.Close = append(out.Close, bar.Close)
		out.AdjClose = append(out.AdjClose, bar.AdjClose)
	}
	return out, nil
}
