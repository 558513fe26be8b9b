package eodhd

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"time"

	"github.com/guregu/null/v6"

	"github.com/bobmcallan/pricedesk/internal/common"
	"github.com/bobmcallan/pricedesk/internal/models"
)

// EODBar is one daily bar as returned by /eod.
type EODBar struct {
	Date     common.Date
	Open     float64
	High     float64
	Low      float64
	Close    float64
	AdjClose float64
	Volume   int64
}

// EODOption configures EOD data requests
type EODOption func(*EODParams)

// EODParams holds EOD query parameters
type EODParams struct {
	From   common.Date
	To     common.Date
	Period string // d=daily, w=weekly, m=monthly
	Order  string // a=ascending, d=descending
}

// WithDateRange sets the date range for EOD query
func WithDateRange(from, to common.Date) EODOption {
	return func(p *EODParams) {
		p.From = from
		p.To = to
	}
}

// WithOrder sets the sort order ("a" or "d")
func WithOrder(order string) EODOption {
	return func(p *EODParams) {
		p.Order = order
	}
}

// eodBarResponse represents the API response for EOD data
type eodBarResponse struct {
	Date          string      `json:"date"`
	Open          flexFloat64 `json:"open"`
	High          flexFloat64 `json:"high"`
	Low           flexFloat64 `json:"low"`
	Close         flexFloat64 `json:"close"`
	AdjustedClose flexFloat64 `json:"adjusted_close"`
	Volume        flexInt64   `json:"volume"`
}

// GetEOD retrieves end-of-day bars for an EODHD ticker (e.g. "VOD.LSE").
// Rows with unparseable dates are skipped.
func (c *Client) GetEOD(ctx context.Context, ticker string, opts ...EODOption) ([]EODBar, error) {
	params := &EODParams{
		Period: "d",
		Order:  "a",
	}

	for _, opt := range opts {
		opt(params)
	}

	urlParams := url.Values{}
	urlParams.Set("period", params.Period)
	urlParams.Set("order", params.Order)

	if !params.From.IsZero() {
		urlParams.Set("from", params.From.String())
	}
	if !params.To.IsZero() {
		urlParams.Set("to", params.To.String())
	}

	path := fmt.Sprintf("/eod/%s", url.PathEscape(ticker))

	var rows []eodBarResponse
	if err := c.get(ctx, path, urlParams, &rows); err != nil {
		return nil, err
	}

	bars := make([]EODBar, 0, len(rows))
	for _, row := range rows {
		date, err := common.ParseDate(row.Date)
		if err != nil {
			c.logger.Debug().Str("ticker", ticker).Str("date", row.Date).Msg("Skipping EOD row with bad date")
			continue
		}
		bars = append(bars, EODBar{
			Date:     date,
			Open:     float64(row.Open),
			High:     float64(row.High),
			Low:      float64(row.Low),
			Close:    float64(row.Close),
			AdjClose: float64(row.AdjustedClose),
			Volume:   int64(row.Volume),
		})
	}

	return bars, nil
}

// FetchBars implements interfaces.BarSource. The Yahoo-style symbol is
// mapped to an EODHD ticker and the bars are returned date-only, since
// EODHD dates are already exchange-local trading days.
func (c *Client) FetchBars(ctx context.Context, symbol string, window models.Window) (*models.RawSeries, error) {
	ticker := ToEODHDTicker(symbol)
	bars, err := c.GetEOD(ctx, ticker, WithDateRange(window.From, window.To))
	if err != nil {
		return nil, err
	}

	sort.SliceStable(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date) })

	raw := &models.RawSeries{
		Symbol:     symbol,
		Source:     c.Name(),
		DateOnly:   true,
		Timestamps: make([]time.Time, len(bars)),
		Close:      make([]null.Float, len(bars)),
		AdjClose:   make([]null.Float, len(bars)),
	}
	for i, bar := range bars {
		raw.Timestamps[i] = bar.Date.Time()
		raw.Close[i] = positive(bar.Close)
		raw.AdjClose[i] = positive(bar.AdjClose)
	}
	return raw, nil
}

// positive maps EODHD's zero placeholders to absent.
func positive(v float64) null.Float {
	if v > 0 {
		return null.FloatFrom(v)
	}
	return null.Float{}
}
