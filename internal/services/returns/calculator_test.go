package returns

import (
	"math"
	"testing"
	"time"

	"github.com/guregu/null/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/pricedesk/internal/common"
	"github.com/bobmcallan/pricedesk/internal/models"
	"github.com/bobmcallan/pricedesk/internal/services/series"
)

type point struct {
	date  string
	price float64
}

func seriesOf(symbol string, points ...point) *models.SessionSeries {
	s := &models.SessionSeries{Symbol: symbol, Source: "test"}
	for _, p := range points {
		s.Sessions = append(s.Sessions, models.Session{
			Date:        common.MustParseDate(p.date),
			PriceReturn: null.FloatFrom(p.price),
			TotalReturn: null.FloatFrom(p.price - 1),
		})
	}
	return s
}

func d(s string) common.Date { return common.MustParseDate(s) }

var priceStandard = models.ReturnPolicy{UsePriceReturn: true, YTDAnchor: models.AnchorStandard}
var pricePreHoliday = models.ReturnPolicy{UsePriceReturn: true, YTDAnchor: models.AnchorPreHoliday}

var yearEnd = []point{
	{"2023-12-22", 100.0},
	{"2023-12-27", 102.0},
	{"2024-01-02", 105.0},
	{"2024-01-03", 108.0},
}

func TestCompute_PreHolidayScenario(t *testing.T) {
	c := NewCalculator(DefaultOptions())
	res := c.Compute(Input{
		Series: seriesOf("HEIA.AS", yearEnd...),
		Target: d("2024-01-03"),
		Today:  d("2024-06-01"),
		Policy: pricePreHoliday,
	})

	assert.Equal(t, 108.0, res.Price.Float64)
	assert.Equal(t, 102.0, res.Baseline.Float64)
	assert.Equal(t, models.BaselinePreHoliday, res.BaselineSource)
	assert.InDelta(t, 5.88, res.YTD.Float64, 0.005)
	assert.False(t, res.Change5D.Valid, "only 4 sessions")
	assert.Equal(t, models.StatusPartial, res.Status)
}

func TestCompute_StandardWithoutDec31(t *testing.T) {
	c := NewCalculator(DefaultOptions())
	res := c.Compute(Input{
		Series: seriesOf("X", yearEnd...),
		Target: d("2024-01-03"),
		Policy: priceStandard,
	})
	assert.Equal(t, 102.0, res.Baseline.Float64)
	assert.Equal(t, d("2023-12-27"), *res.BaselineDate)
	assert.InDelta(t, 5.88, res.YTD.Float64, 0.005)
}

func TestCompute_StandardVersusPreHolidayWithDec31(t *testing.T) {
	points := []point{
		{"2023-12-22", 100.0},
		{"2023-12-27", 102.0},
		{"2023-12-29", 103.0},
		{"2023-12-31", 104.0},
		{"2024-01-02", 105.0},
		{"2024-01-03", 108.0},
	}
	c := NewCalculator(DefaultOptions())

	std := c.Compute(Input{Series: seriesOf("X", points...), Target: d("2024-01-03"), Policy: priceStandard})
	assert.Equal(t, 104.0, std.Baseline.Float64)
	assert.Equal(t, d("2023-12-31"), *std.BaselineDate)
	assert.InDelta(t, (108.0-104.0)/104.0*100, std.YTD.Float64, 1e-9)

	pre := c.Compute(Input{Series: seriesOf("X", points...), Target: d("2024-01-03"), Policy: pricePreHoliday})
	assert.Equal(t, 102.0, pre.Baseline.Float64)
	assert.Equal(t, d("2023-12-27"), *pre.BaselineDate)
}

func TestCompute_ThreeSessionsTrailingAbsent(t *testing.T) {
	c := NewCalculator(DefaultOptions())
	res := c.Compute(Input{
		Series: seriesOf("X", point{"2024-03-01", 10}, point{"2024-03-04", 11}, point{"2024-03-05", 12}),
		Target: d("2024-03-05"),
		Policy: priceStandard,
	})
	assert.Equal(t, 12.0, res.Price.Float64)
	assert.False(t, res.Change5D.Valid)
	// no prior-year session: first session of the year
	assert.Equal(t, models.BaselineFirstSession, res.BaselineSource)
	assert.InDelta(t, 20.0, res.YTD.Float64, 1e-9)
	assert.Equal(t, models.StatusPartial, res.Status)
}

func TestCompute_TrailingUsesSessionPositions(t *testing.T) {
	points := []point{
		{"2023-12-28", 90},
		{"2024-01-02", 100}, // reference: 5 sessions before Jan 10
		{"2024-01-03", 101},
		{"2024-01-05", 102}, // Jan 4 missing from the series
		{"2024-01-08", 103},
		{"2024-01-09", 104},
		{"2024-01-10", 110},
	}
	c := NewCalculator(DefaultOptions())
	res := c.Compute(Input{Series: seriesOf("X", points...), Target: d("2024-01-10"), Policy: priceStandard})

	assert.InDelta(t, 10.0, res.Change5D.Float64, 1e-9)
	assert.Equal(t, models.StatusOK, res.Status)
	assert.Equal(t, "test", res.Source)
}

func TestCompute_ZeroTrailingReferenceIsAbsent(t *testing.T) {
	raw := &models.RawSeries{Symbol: "ZERO", Source: "test", ExchangeTimezone: "America/New_York"}
	for i, price := range []float64{100, 0, 101, 102, 103, 104, 105} {
		day := []int{2, 3, 4, 5, 8, 9, 10}[i]
		raw.Timestamps = append(raw.Timestamps, time.Date(2024, 1, day, 21, 0, 0, 0, time.UTC))
		raw.Close = append(raw.Close, null.FloatFrom(price))
	}
	s := series.Normalize(raw, nil)
	require.Len(t, s.Sessions, 7)

	res := NewCalculator(DefaultOptions()).Compute(Input{
		Series: s,
		Target: d("2024-01-10"),
		Today:  d("2024-06-01"),
		Policy: priceStandard,
	})
	assert.Equal(t, 105.0, res.Price.Float64)
	assert.False(t, res.Change5D.Valid, "reference session closed at zero")
	assert.InDelta(t, 5.0, res.YTD.Float64, 1e-9)
	assert.Equal(t, models.StatusPartial, res.Status)
}

func TestCompute_ManualBaselineOverride(t *testing.T) {
	baseline := &models.ReferenceBaseline{Symbol: "HEIA.AS", Year: 2024, Price: 96}
	input := Input{
		Series:     seriesOf("HEIA.AS", yearEnd...),
		Target:     d("2024-01-03"),
		Policy:     pricePreHoliday,
		Baseline:   baseline,
		Instrument: models.Instrument{Symbol: "HEIA.AS", Name: "Heineken"},
	}

	on := NewCalculator(Options{GraceDays: 3, ManualBaselines: true}).Compute(input)
	assert.Equal(t, 96.0, on.Baseline.Float64)
	assert.Equal(t, models.BaselineManual, on.BaselineSource)
	assert.Nil(t, on.BaselineDate)
	assert.InDelta(t, 12.5, on.YTD.Float64, 1e-9)
	assert.Equal(t, "Heineken", on.Name)

	off := NewCalculator(Options{GraceDays: 3, ManualBaselines: false}).Compute(input)
	assert.Equal(t, 102.0, off.Baseline.Float64)
	assert.Equal(t, models.BaselinePreHoliday, off.BaselineSource)

	// baseline for another year is not used
	input.Baseline = &models.ReferenceBaseline{Symbol: "HEIA.AS", Year: 2023, Price: 50}
	other := NewCalculator(Options{ManualBaselines: true}).Compute(input)
	assert.Equal(t, 102.0, other.Baseline.Float64)
}

func TestCompute_ZeroBaselineGivesAbsentYTD(t *testing.T) {
	ref := d("2023-12-29")
	res := NewCalculator(DefaultOptions()).Compute(Input{
		Series:   seriesOf("X", yearEnd...),
		Target:   d("2024-01-03"),
		Policy:   priceStandard,
		Baseline: &models.ReferenceBaseline{Symbol: "X", Year: 2024, Price: 0, RefDate: &ref},
	})
	assert.True(t, res.Baseline.Valid)
	assert.False(t, res.YTD.Valid)
	assert.False(t, math.IsInf(res.YTD.Float64, 0))
	assert.Equal(t, ref, *res.BaselineDate)
}

func TestCompute_LivePrice(t *testing.T) {
	series := seriesOf("X", yearEnd...)
	in := Input{
		Series:    series,
		Target:    d("2024-01-03"),
		Today:     d("2024-01-03"),
		Policy:    priceStandard,
		LivePrice: null.FloatFrom(112.2),
	}

	off := NewCalculator(Options{}).Compute(in)
	assert.Equal(t, 108.0, off.Price.Float64)
	assert.Equal(t, models.PriceSourceSession, off.PriceSource)

	on := NewCalculator(Options{LivePrice: true}).Compute(in)
	assert.Equal(t, 112.2, on.Price.Float64)
	assert.Equal(t, models.PriceSourceLive, on.PriceSource)
	// reference session unchanged
	assert.Equal(t, 102.0, on.Baseline.Float64)
	assert.Equal(t, d("2024-01-03"), *on.SessionDate)

	// not today
	in.Today = d("2024-01-04")
	assert.Equal(t, 108.0, NewCalculator(Options{LivePrice: true}).Compute(in).Price.Float64)

	// total-return policy never substitutes
	in.Today = in.Target
	in.Policy.UsePriceReturn = false
	assert.Equal(t, 107.0, NewCalculator(Options{LivePrice: true}).Compute(in).Price.Float64)

	// falls back to the series' own live price
	in.Policy.UsePriceReturn = true
	in.LivePrice = null.Float{}
	series.LivePrice = null.FloatFrom(109)
	assert.Equal(t, 109.0, NewCalculator(Options{LivePrice: true}).Compute(in).Price.Float64)
}

func TestCompute_TotalReturnColumn(t *testing.T) {
	res := NewCalculator(DefaultOptions()).Compute(Input{
		Series: seriesOf("X", yearEnd...),
		Target: d("2024-01-03"),
		Policy: models.ReturnPolicy{UsePriceReturn: false, YTDAnchor: models.AnchorStandard},
	})
	assert.Equal(t, 107.0, res.Price.Float64)
	assert.Equal(t, 101.0, res.Baseline.Float64)
}

func TestCompute_NoData(t *testing.T) {
	res := NewCalculator(DefaultOptions()).Compute(Input{
		Series:     models.EmptySeries("GONE"),
		Target:     d("2024-01-03"),
		Policy:     priceStandard,
		Instrument: models.Instrument{Symbol: "GONE", Currency: "USD"},
	})
	assert.Equal(t, models.StatusNoData, res.Status)
	assert.Equal(t, "GONE", res.Symbol)
	assert.Equal(t, "USD", res.Currency)
	assert.False(t, res.Price.Valid)
	assert.Nil(t, res.SessionDate)

	res = NewCalculator(DefaultOptions()).Compute(Input{Target: d("2024-01-03")})
	assert.Equal(t, models.StatusNoData, res.Status)
}

func TestResolveIndex(t *testing.T) {
	s := seriesOf("X", yearEnd...).Sessions

	tests := []struct {
		name   string
		target string
		grace  int
		want   int
	}{
		{"exact match", "2023-12-27", 3, 1},
		{"weekend before", "2023-12-30", 3, 1},
		{"after latest", "2024-02-01", 3, 3},
		{"before first within grace", "2023-12-20", 3, 0},
		{"before first beyond grace", "2023-12-10", 3, 3},
		{"before first no grace", "2023-12-21", 0, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveIndex(s, d(tt.target), tt.grace)
			assert.Equal(t, tt.want, got)
			// idempotent: resolving the resolved date selects it again
			assert.Equal(t, got, ResolveIndex(s, s[got].Date, tt.grace))
		})
	}

	assert.Equal(t, -1, ResolveIndex(nil, d("2024-01-01"), 3))
}

func TestResolveIndex_ExactMatchSelectsSession(t *testing.T) {
	var points []point
	start := d("2024-01-01")
	for i := 0; i < 60; i += 2 {
		points = append(points, point{start.AddDays(i).String(), float64(i + 1)})
	}
	s := seriesOf("X", points...).Sessions
	for i, sess := range s {
		require.Equal(t, i, ResolveIndex(s, sess.Date, DefaultGraceDays))
	}
}

func TestYTDBaselineIndex_PreHolidayIgnoresLateDecember(t *testing.T) {
	s := seriesOf("X",
		point{"2023-12-20", 1},
		point{"2023-12-28", 2},
		point{"2023-12-29", 3},
		point{"2024-01-02", 4},
	).Sessions

	idx, src := YTDBaselineIndex(s, 2024, models.AnchorPreHoliday)
	assert.Equal(t, 0, idx)
	assert.Equal(t, models.BaselinePreHoliday, src)

	idx, src = YTDBaselineIndex(s[1:], 2024, models.AnchorPreHoliday)
	assert.Equal(t, 2, idx, "falls back to the first session of the year")
	assert.Equal(t, models.BaselineFirstSession, src)

	idx, _ = YTDBaselineIndex(s[1:2], 2024, models.AnchorPreHoliday)
	assert.Equal(t, -1, idx)
}

func TestPercentChange(t *testing.T) {
	assert.False(t, PercentChange(null.FloatFrom(1), null.FloatFrom(0)).Valid)
	assert.False(t, PercentChange(null.Float{}, null.FloatFrom(1)).Valid)
	assert.False(t, PercentChange(null.FloatFrom(1), null.Float{}).Valid)
	assert.InDelta(t, -50.0, PercentChange(null.FloatFrom(1), null.FloatFrom(2)).Float64, 1e-12)
}
