package yahoo

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/guregu/null/v6"

	"github.com/bobmcallan/pricedesk/internal/models"
)

// chartResponse is the v8 chart envelope.
type chartResponse struct {
	Chart struct {
		Result []chartResult `json:"result"`
		Error  *chartError   `json:"error"`
	} `json:"chart"`
}

type chartError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// chartResult is shared by the chart and spark endpoints.
type chartResult struct {
	Meta struct {
		Currency             string   `json:"currency"`
		Symbol               string   `json:"symbol"`
		ExchangeName         string   `json:"exchangeName"`
		ExchangeTimezoneName string   `json:"exchangeTimezoneName"`
		RegularMarketPrice   *float64 `json:"regularMarketPrice"`
		RegularMarketTime    int64    `json:"regularMarketTime"`
	} `json:"meta"`
	Timestamp  []int64 `json:"timestamp"`
	Indicators struct {
		Quote []struct {
			Close []*float64 `json:"close"`
		} `json:"quote"`
		AdjClose []struct {
			AdjClose []*float64 `json:"adjclose"`
		} `json:"adjclose"`
	} `json:"indicators"`
}

func toNull(v *float64) null.Float {
	return null.FloatFromPtr(v)
}

// rawSeries converts a chart result to the parallel-vector form.
func (r *chartResult) rawSeries(symbol, source string) *models.RawSeries {
	raw := &models.RawSeries{
		Symbol:           symbol,
		Source:           source,
		ExchangeTimezone: r.Meta.ExchangeTimezoneName,
		Timestamps:       make([]time.Time, len(r.Timestamp)),
		LivePrice:        toNull(r.Meta.RegularMarketPrice),
	}
	for i, ts := range r.Timestamp {
		raw.Timestamps[i] = time.Unix(ts, 0).UTC()
	}
	if len(r.Indicators.Quote) > 0 {
		for _, v := range r.Indicators.Quote[0].Close {
			raw.Close = append(raw.Close, toNull(v))
		}
	}
	if len(r.Indicators.AdjClose) > 0 {
		for _, v := range r.Indicators.AdjClose[0].AdjClose {
			raw.AdjClose = append(raw.AdjClose, toNull(v))
		}
	}
	return raw
}

func (c *Client) chart(ctx context.Context, symbol string, params url.Values) (*chartResult, error) {
	params.Set("interval", "1d")
	params.Set("includeAdjustedClose", "true")
	params.Set("events", "div,splits")

	path := "/v8/finance/chart/" + url.PathEscape(symbol)

	var resp chartResponse
	if err := c.get(ctx, path, params, &resp); err != nil {
		return nil, err
	}
	if resp.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo chart %s: %s", symbol, resp.Chart.Error.Description)
	}
	if len(resp.Chart.Result) == 0 {
		return nil, fmt.Errorf("yahoo chart %s: empty result", symbol)
	}
	return &resp.Chart.Result[0], nil
}

// FetchBars implements interfaces.BarSource with an explicit period window.
// The period is padded by a day on each side so that exchanges east or west
// of UTC keep their boundary sessions; the normalizer trims the padding.
func (c *Client) FetchBars(ctx context.Context, symbol string, window models.Window) (*models.RawSeries, error) {
	params := url.Values{}
	params.Set("period1", strconv.FormatInt(window.From.AddDays(-1).Time().Unix(), 10))
	params.Set("period2", strconv.FormatInt(window.To.AddDays(2).Time().Unix(), 10))

	res, err := c.chart(ctx, symbol, params)
	if err != nil {
		return nil, err
	}
	return res.rawSeries(symbol, c.Name()), nil
}

// FetchRange fetches a relative range such as "2y" without a window.
func (c *Client) FetchRange(ctx context.Context, symbol, rng string) (*models.RawSeries, error) {
	params := url.Values{}
	params.Set("range", rng)

	res, err := c.chart(ctx, symbol, params)
	if err != nil {
		return nil, err
	}
	return res.rawSeries(symbol, c.Name()), nil
}

// GetLiveQuote implements interfaces.LiveQuoteSource from the chart meta block.
func (c *Client) GetLiveQuote(ctx context.Context, symbol string) (*models.LiveQuote, error) {
	params := url.Values{}
	params.Set("range", "1d")

	res, err := c.chart(ctx, symbol, params)
	if err != nil {
		return nil, err
	}
	price := res.Meta.RegularMarketPrice
	if price == nil || *price <= 0 {
		return nil, fmt.Errorf("no live price for %s", symbol)
	}
	q := &models.LiveQuote{
		Symbol:   symbol,
		Price:    *price,
		Currency: strings.ToUpper(res.Meta.Currency),
		Source:   c.Name(),
	}
	if res.Meta.RegularMarketTime > 0 {
		q.Timestamp = time.Unix(res.Meta.RegularMarketTime, 0).UTC()
	}
	return q, nil
}

// RangeFor picks the smallest Yahoo range that reaches back to from.
func RangeFor(from time.Time, now time.Time) string {
	days := int(now.Sub(from).Hours()/24) + 1
	switch {
	case days <= 30:
		return "1mo"
	case days <= 90:
		return "3mo"
	case days <= 180:
		return "6mo"
	case days <= 365:
		return "1y"
	case days <= 730:
		return "2y"
	case days <= 1825:
		return "5y"
	default:
		return "max"
	}
}
