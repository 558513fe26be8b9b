package yahoo

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/bobmcallan/pricedesk/internal/interfaces"
	"github.com/bobmcallan/pricedesk/internal/models"
)

// sparkResponse is the v7 spark envelope: one chart result per symbol.
type sparkResponse struct {
	Spark struct {
		Result []struct {
			Symbol   string        `json:"symbol"`
			Response []chartResult `json:"response"`
		} `json:"result"`
		Error *chartError `json:"error"`
	} `json:"spark"`
}

// SparkSource is the multi-symbol batch tier backed by /v7/finance/spark.
type SparkSource struct {
	client *Client
}

var _ interfaces.BatchBarSource = (*SparkSource)(nil)

// Batch returns the batch source sharing this client's limiter and transport.
func (c *Client) Batch() *SparkSource {
	return &SparkSource{client: c}
}

// Name identifies the source in logs and results.
func (s *SparkSource) Name() string { return "yahoo_batch" }

// FetchBarsBatch fetches symbols in chunks of the configured batch size.
// A failing chunk is reported only if no chunk succeeded; symbols missing
// from the response are simply absent from the map. Windows starting more
// than five years back return an empty map without a request.
func (s *SparkSource) FetchBarsBatch(ctx context.Context, symbols []string, window models.Window) (map[string]*models.RawSeries, error) {
	c := s.client
	out := make(map[string]*models.RawSeries, len(symbols))
	rng := RangeFor(window.From.Time(), c.now())
	if rng == "max" {
		// Yahoo thins daily bars on range=max; leave these windows to the
		// period-based chart tier.
		c.logger.Debug().Str("from", window.From.String()).Msg("Window beyond spark range, skipping batch tier")
		return out, nil
	}

	var lastErr error
	succeeded := false
	for start := 0; start < len(symbols); start += c.batchSize {
		end := start + c.batchSize
		if end > len(symbols) {
			end = len(symbols)
		}
		chunk := symbols[start:end]

		got, err := s.fetchChunk(ctx, chunk, rng)
		if err != nil {
			lastErr = err
			c.logger.Warn().Err(err).Int("symbols", len(chunk)).Msg("Yahoo spark chunk failed")
			if ctx.Err() != nil {
				break
			}
			continue
		}
		succeeded = true
		for k, v := range got {
			out[k] = v
		}
	}

	if !succeeded && lastErr != nil {
		return nil, lastErr
	}
	return out, nil
}

func (s *SparkSource) fetchChunk(ctx context.Context, symbols []string, rng string) (map[string]*models.RawSeries, error) {
	params := url.Values{}
	params.Set("symbols", strings.Join(symbols, ","))
	params.Set("range", rng)
	params.Set("interval", "1d")

	var resp sparkResponse
	if err := s.client.get(ctx, "/v7/finance/spark", params, &resp); err != nil {
		return nil, err
	}
	if resp.Spark.Error != nil {
		return nil, fmt.Errorf("yahoo spark: %s", resp.Spark.Error.Description)
	}

	requested := make(map[string]string, len(symbols))
	for _, sym := range symbols {
		requested[strings.ToUpper(sym)] = sym
	}

	out := make(map[string]*models.RawSeries, len(resp.Spark.Result))
	for _, r := range resp.Spark.Result {
		if len(r.Response) == 0 {
			continue
		}
		sym, ok := requested[strings.ToUpper(r.Symbol)]
		if !ok {
			continue
		}
		out[sym] = r.Response[0].rawSeries(sym, s.Name())
	}
	return out, nil
}
