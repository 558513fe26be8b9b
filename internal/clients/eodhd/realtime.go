package eodhd

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/bobmcallan/pricedesk/internal/models"
)

// RealTimeQuote holds a live OHLCV snapshot from /real-time
type RealTimeQuote struct {
	Code          string
	Open          float64
	High          float64
	Low           float64
	Close         float64 // current/last price
	PreviousClose float64
	Volume        int64
	Timestamp     time.Time
}

type realTimeResponse struct {
	Code          string      `json:"code"`
	Timestamp     flexInt64   `json:"timestamp"`
	Open          flexFloat64 `json:"open"`
	High          flexFloat64 `json:"high"`
	Low           flexFloat64 `json:"low"`
	Close         flexFloat64 `json:"close"`
	PreviousClose flexFloat64 `json:"previousClose"`
	Volume        flexInt64   `json:"volume"`
}

// GetRealTimeQuote retrieves the delayed real-time quote for an EODHD ticker.
// A zero Close means the market had no trade; callers check Close > 0.
func (c *Client) GetRealTimeQuote(ctx context.Context, ticker string) (*RealTimeQuote, error) {
	path := fmt.Sprintf("/real-time/%s", url.PathEscape(ticker))

	var resp realTimeResponse
	if err := c.get(ctx, path, nil, &resp); err != nil {
		return nil, err
	}

	return &RealTimeQuote{
		Code:          resp.Code,
		Open:          float64(resp.Open),
		High:          float64(resp.High),
		Low:           float64(resp.Low),
		Close:         float64(resp.Close),
		PreviousClose: float64(resp.PreviousClose),
		Volume:        int64(resp.Volume),
		Timestamp:     time.Unix(int64(resp.Timestamp), 0),
	}, nil
}

// GetLiveQuote implements interfaces.LiveQuoteSource for a Yahoo-style symbol.
func (c *Client) GetLiveQuote(ctx context.Context, symbol string) (*models.LiveQuote, error) {
	q, err := c.GetRealTimeQuote(ctx, ToEODHDTicker(symbol))
	if err != nil {
		return nil, err
	}
	if q.Close <= 0 {
		return nil, fmt.Errorf("no live price for %s", symbol)
	}
	return &models.LiveQuote{
		Symbol:    symbol,
		Price:     q.Close,
		Timestamp: q.Timestamp,
		Source:    c.Name(),
	}, nil
}
