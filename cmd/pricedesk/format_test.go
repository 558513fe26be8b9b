package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/guregu/null/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/pricedesk/internal/common"
	"github.com/bobmcallan/pricedesk/internal/models"
)

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		name     string
		value    null.Float
		currency string
		want     string
	}{
		{"absent", null.Float{}, "USD", "-"},
		{"usd", null.FloatFrom(112), "USD", "$112.00"},
		{"usd thousands", null.FloatFrom(1234.5), "USD", "$1,234.50"},
		{"usd rounds", null.FloatFrom(9.996), "USD", "$10.00"},
		{"pence stays plain", null.FloatFrom(1520.5), "GBp", "1520.50 GBp"},
		{"unknown code", null.FloatFrom(3.14159), "XXQ", "3.14 XXQ"},
		{"no currency", null.FloatFrom(78.5), "", "78.50"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatPrice(tt.value, tt.currency))
		})
	}
}

func TestFormatPercent(t *testing.T) {
	assert.Equal(t, "-", formatPercent(null.Float{}))
	assert.Equal(t, "+4.67%", formatPercent(null.FloatFrom(4.672897)))
	assert.Equal(t, "-1.25%", formatPercent(null.FloatFrom(-1.2499)))
	assert.Equal(t, "0.00%", formatPercent(null.FloatFrom(0.001)))
}

func TestParsePrice(t *testing.T) {
	v, err := parsePrice(" 78.50 ")
	require.NoError(t, err)
	assert.InDelta(t, 78.5, v, 1e-12)

	v, err = parsePrice("0")
	require.NoError(t, err)
	assert.Zero(t, v)

	_, err = parsePrice("-1")
	assert.Error(t, err)
	_, err = parsePrice("12,5")
	assert.Error(t, err)
}

func TestWriteSnapshot(t *testing.T) {
	session := common.MustParseDate("2024-01-03")
	snap := &models.Snapshot{
		Date:        session,
		Today:       session,
		GeneratedAt: time.Date(2024, 1, 3, 18, 0, 0, 0, time.UTC),
		Results: []models.CalculationResult{
			{
				Symbol:         "AAPL",
				Currency:       "USD",
				Status:         models.StatusOK,
				Source:         "yahoo",
				SessionDate:    &session,
				Price:          null.FloatFrom(108),
				Change5D:       null.FloatFrom(9.0909),
				YTD:            null.FloatFrom(4.85),
				Baseline:       null.FloatFrom(103),
				BaselineSource: models.BaselineStandard,
			},
			{Symbol: "GONE", Status: models.StatusNoData},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, writeSnapshot(&buf, snap))
	out := buf.String()

	assert.Contains(t, out, "Snapshot 2024-01-03")
	lines := strings.Split(out, "\n")
	var aapl, gone string
	for _, l := range lines {
		switch {
		case strings.HasPrefix(l, "AAPL"):
			aapl = l
		case strings.HasPrefix(l, "GONE"):
			gone = l
		}
	}
	assert.Equal(t, []string{"AAPL", "2024-01-03", "$108.00", "+9.09%", "+4.85%", "$103.00", "standard", "yahoo", "ok"}, strings.Fields(aapl))
	assert.Equal(t, []string{"GONE", "-", "-", "-", "-", "-", "-", "-", "no_data"}, strings.Fields(gone))
	assert.Contains(t, out, "1 ok, 0 partial, 1 no data")
}

func TestWriteBaselines(t *testing.T) {
	ref := common.MustParseDate("2023-12-27")
	var buf bytes.Buffer
	require.NoError(t, writeBaselines(&buf, []*models.ReferenceBaseline{
		{Symbol: "HEIA.AS", Year: 2024, Price: 78.5, RefDate: &ref, SeriesKind: "price", Note: "desk"},
		{Symbol: "AAPL", Year: 2024, Price: 192.53},
	}))

	out := buf.String()
	assert.Contains(t, out, "REF DATE")
	assert.Contains(t, out, "2023-12-27")
	assert.Contains(t, out, "192.53")
}

func TestOptBool(t *testing.T) {
	var b optBool
	assert.Nil(t, b.ptr())
	assert.Equal(t, "", b.String())

	require.NoError(t, b.Set("false"))
	require.NotNil(t, b.ptr())
	assert.False(t, *b.ptr())
	assert.Equal(t, "false", b.String())

	assert.Error(t, b.Set("maybe"))
}
