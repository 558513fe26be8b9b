package series

import (
	"math"
	"math/rand"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/guregu/null/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/pricedesk/internal/common"
	"github.com/bobmcallan/pricedesk/internal/models"
)

func f(v float64) null.Float { return null.FloatFrom(v) }

func d(s string) common.Date { return common.MustParseDate(s) }

func TestNormalize_ConvertsToExchangeDate(t *testing.T) {
	// 2024-01-02 23:30 UTC is Jan 3 in Sydney; 14:30 UTC is Jan 2 in New York
	raw := &models.RawSeries{
		Symbol:           "BHP.AX",
		Source:           "yahoo",
		ExchangeTimezone: "Australia/Sydney",
		Timestamps:       []time.Time{time.Date(2024, 1, 2, 23, 30, 0, 0, time.UTC)},
		Close:            []null.Float{f(45)},
	}
	s := Normalize(raw, nil)
	require.Len(t, s.Sessions, 1)
	assert.Equal(t, d("2024-01-03"), s.Sessions[0].Date)
	assert.Equal(t, "Australia/Sydney", s.Timezone)

	raw.ExchangeTimezone = "America/New_York"
	raw.Timestamps = []time.Time{time.Date(2024, 1, 2, 14, 30, 0, 0, time.UTC)}
	s = Normalize(raw, nil)
	require.Len(t, s.Sessions, 1)
	assert.Equal(t, d("2024-01-02"), s.Sessions[0].Date)
}

func TestNormalize_DateOnlyBarsKeepTheirDay(t *testing.T) {
	raw := &models.RawSeries{
		Symbol:           "VOD.L",
		ExchangeTimezone: "Pacific/Auckland",
		DateOnly:         true,
		Timestamps:       []time.Time{time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)},
		Close:            []null.Float{f(70)},
	}
	s := Normalize(raw, nil)
	require.Len(t, s.Sessions, 1)
	assert.Equal(t, d("2024-01-02"), s.Sessions[0].Date)
}

func TestNormalize_UnknownTimezoneFallsBackToUTC(t *testing.T) {
	raw := &models.RawSeries{
		ExchangeTimezone: "Mars/Olympus",
		Timestamps:       []time.Time{time.Date(2024, 1, 2, 23, 30, 0, 0, time.UTC)},
		Close:            []null.Float{f(1)},
	}
	s := Normalize(raw, nil)
	require.Len(t, s.Sessions, 1)
	assert.Equal(t, d("2024-01-02"), s.Sessions[0].Date)
	assert.Equal(t, "UTC", s.Timezone)

	_, known := Location("Mars/Olympus")
	assert.False(t, known)
	_, known = Location("Europe/Amsterdam")
	assert.True(t, known)
}

func TestNormalize_DropsBarsWithoutPrice(t *testing.T) {
	day := func(n int) time.Time { return time.Date(2024, 1, n, 12, 0, 0, 0, time.UTC) }
	raw := &models.RawSeries{
		Timestamps: []time.Time{day(2), day(3), day(4), day(5), day(8)},
		Close:      []null.Float{{}, f(math.NaN()), f(0), {}, f(10)},
		AdjClose:   []null.Float{{}, f(math.Inf(-1)), f(math.Inf(1)), f(2.5), {}},
	}
	s := Normalize(raw, nil)
	require.Len(t, s.Sessions, 3)

	assert.Equal(t, d("2024-01-04"), s.Sessions[0].Date)
	assert.True(t, s.Sessions[0].PriceReturn.Valid)
	assert.Zero(t, s.Sessions[0].PriceReturn.Float64)
	assert.False(t, s.Sessions[0].TotalReturn.Valid)

	assert.Equal(t, d("2024-01-05"), s.Sessions[1].Date)
	assert.False(t, s.Sessions[1].PriceReturn.Valid)
	assert.Equal(t, 2.5, s.Sessions[1].TotalReturn.Float64)

	assert.Equal(t, d("2024-01-08"), s.Sessions[2].Date)
}

func TestNormalize_ZeroCloseKeepsTrailingPositions(t *testing.T) {
	// consecutive New York sessions, 2024-01-02 .. 2024-01-10
	days := []int{2, 3, 4, 5, 8, 9, 10}
	closes := []float64{100, 0, 101, 102, 103, 104, 105}
	raw := &models.RawSeries{Symbol: "ZERO", ExchangeTimezone: "America/New_York"}
	for i, day := range days {
		raw.Timestamps = append(raw.Timestamps, time.Date(2024, 1, day, 21, 0, 0, 0, time.UTC))
		raw.Close = append(raw.Close, f(closes[i]))
	}

	s := Normalize(raw, nil)
	require.Len(t, s.Sessions, len(days))
	assert.Equal(t, d("2024-01-03"), s.Sessions[1].Date)
	assert.True(t, s.Sessions[1].PriceReturn.Valid)
	assert.Zero(t, s.Sessions[1].PriceReturn.Float64)
}

func TestNormalize_DuplicateDateLastWriteWins(t *testing.T) {
	raw := &models.RawSeries{
		Timestamps: []time.Time{
			time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC),
			time.Date(2024, 1, 2, 16, 0, 0, 0, time.UTC),
		},
		Close: []null.Float{f(10), f(11)},
	}
	s := Normalize(raw, nil)
	require.Len(t, s.Sessions, 1)
	assert.Equal(t, 11.0, s.Sessions[0].PriceReturn.Float64)
}

func TestNormalize_TrimsToWindowAndNeverFills(t *testing.T) {
	var ts []time.Time
	var closes []null.Float
	for _, day := range []int{2, 3, 8, 9, 10} {
		ts = append(ts, time.Date(2024, 1, day, 15, 0, 0, 0, time.UTC))
		closes = append(closes, f(float64(day)))
	}
	raw := &models.RawSeries{Timestamps: ts, Close: closes}
	s := Normalize(raw, &models.Window{From: d("2024-01-03"), To: d("2024-01-09")})
	require.Len(t, s.Sessions, 3)
	assert.Equal(t, d("2024-01-03"), s.Sessions[0].Date)
	assert.Equal(t, d("2024-01-08"), s.Sessions[1].Date)
	assert.Equal(t, d("2024-01-09"), s.Sessions[2].Date)
}

func TestNormalize_EmptyAndNil(t *testing.T) {
	assert.True(t, Normalize(nil, nil).NoData())
	assert.True(t, Normalize(&models.RawSeries{Symbol: "X"}, nil).NoData())
}

func TestNormalize_DropsInvalidLivePrice(t *testing.T) {
	raw := &models.RawSeries{LivePrice: f(-1)}
	assert.False(t, Normalize(raw, nil).LivePrice.Valid)
	raw.LivePrice = f(3)
	assert.Equal(t, 3.0, Normalize(raw, nil).LivePrice.Float64)
}

func TestNormalize_OutputStrictlyIncreasing(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	base := time.Date(2023, 11, 1, 0, 0, 0, 0, time.UTC)

	for iter := 0; iter < 50; iter++ {
		n := rng.Intn(200)
		raw := &models.RawSeries{ExchangeTimezone: "Europe/Dublin"}
		for i := 0; i < n; i++ {
			raw.Timestamps = append(raw.Timestamps, base.Add(time.Duration(rng.Intn(90*24))*time.Hour))
			if rng.Intn(5) == 0 {
				raw.Close = append(raw.Close, null.Float{})
			} else {
				raw.Close = append(raw.Close, f(rng.Float64()*100))
			}
		}

		s := Normalize(raw, nil)
		for i := 1; i < len(s.Sessions); i++ {
			require.True(t, s.Sessions[i-1].Date.Before(s.Sessions[i].Date),
				"iteration %d: %s not before %s", iter, s.Sessions[i-1].Date, s.Sessions[i].Date)
		}
	}
}
