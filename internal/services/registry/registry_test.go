package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/pricedesk/internal/models"
)

const sample = `
instruments:
  - symbol: heia.as
    name: Heineken
    region: Euronext
    currency: eur
  - symbol: VOD.L
    name: Vodafone
    currency: GBp
  - symbol: HEIA.AS
    name: Duplicate
  - symbol: ABBV
    series: Total
  - symbol: "  "
`

func TestParse(t *testing.T) {
	r, err := Parse([]byte(sample))
	require.NoError(t, err)

	assert.Equal(t, 3, r.Len())
	assert.Equal(t, []string{"HEIA.AS", "VOD.L", "ABBV"}, r.Symbols())

	inst, ok := r.Lookup("Heia.As")
	require.True(t, ok)
	assert.Equal(t, "Heineken", inst.Name)
	assert.Equal(t, "EUR", inst.Currency)

	vod, _ := r.Lookup("vod.l")
	assert.Equal(t, "GBp", vod.Currency)

	abbv, _ := r.Lookup("ABBV")
	assert.Equal(t, "total", abbv.Series)

	_, ok = r.Lookup("MSFT")
	assert.False(t, ok)
}

func TestParse_RejectsBadSeries(t *testing.T) {
	_, err := Parse([]byte("instruments:\n  - symbol: X\n    series: adjusted\n"))
	assert.Error(t, err)

	_, err = Parse([]byte("instruments: [oops"))
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "instruments.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0644))

	r, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3, r.Len())

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestParseSymbols(t *testing.T) {
	assert.Equal(t, []string{"A", "B", "C", "D"}, ParseSymbols(" a, B,c\nd;a ,, "))
	assert.Empty(t, ParseSymbols(" , "))
}

func TestFromSymbolsAndFilter(t *testing.T) {
	r := FromSymbols([]string{"msft", "MSFT", "pep"})
	assert.Equal(t, []string{"MSFT", "PEP"}, r.Symbols())

	full, err := Parse([]byte(sample))
	require.NoError(t, err)

	got := full.Filter([]string{"vod.l", "NEW", "VOD.L"})
	require.Len(t, got, 2)
	assert.Equal(t, "Vodafone", got[0].Name)
	assert.Equal(t, models.Instrument{Symbol: "NEW"}, got[1])
}

func TestInstrumentsReturnsCopy(t *testing.T) {
	r := FromSymbols([]string{"A"})
	list := r.Instruments()
	list[0].Symbol = "CHANGED"
	assert.Equal(t, []string{"A"}, r.Symbols())
}
