package fetch

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/guregu/null/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/pricedesk/internal/common"
	"github.com/bobmcallan/pricedesk/internal/models"
)

type stubRange struct {
	gotRange string
	raw      *models.RawSeries
	err      error
}

func (s *stubRange) FetchRange(_ context.Context, _ string, rng string) (*models.RawSeries, error) {
	s.gotRange = rng
	return s.raw, s.err
}

func TestLookbackSource_TrimsToWindow(t *testing.T) {
	raw := &models.RawSeries{ExchangeTimezone: "Europe/Dublin", LivePrice: null.FloatFrom(5)}
	for d := 1; d <= 31; d++ {
		raw.Timestamps = append(raw.Timestamps, time.Date(2023, 12, d, 16, 30, 0, 0, time.UTC))
		raw.Close = append(raw.Close, null.FloatFrom(float64(d)))
	}
	stub := &stubRange{raw: raw}

	src := NewLookbackSource(stub, TierYahooLookback, 0)
	window := models.Window{From: common.MustParseDate("2023-12-10"), To: common.MustParseDate("2023-12-12")}

	out, err := src.FetchBars(context.Background(), "GL9.IR", window)
	require.NoError(t, err)
	assert.Equal(t, "2y", stub.gotRange)
	assert.Equal(t, "yahoo_lookback", out.Source)
	assert.Equal(t, "Europe/Dublin", out.ExchangeTimezone)
	// One day of padding either side
	assert.Len(t, out.Timestamps, 5)
	assert.Equal(t, 9.0, out.Close[0].Float64)
	assert.Equal(t, 5.0, out.LivePrice.Float64)
}

func TestLookbackSource_Errors(t *testing.T) {
	src := NewLookbackSource(&stubRange{err: errors.New("down")}, "lb", 3)
	_, err := src.FetchBars(context.Background(), "X", testWindow)
	assert.Error(t, err)

	src = NewLookbackSource(&stubRange{}, "lb", 3)
	_, err = src.FetchBars(context.Background(), "X", testWindow)
	assert.Error(t, err)
}
