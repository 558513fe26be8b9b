package quote

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/bobmcallan/pricedesk/internal/common"
	"github.com/bobmcallan/pricedesk/internal/interfaces/mocks"
	"github.com/bobmcallan/pricedesk/internal/models"
)

var fixedNow = time.Date(2024, 3, 28, 15, 0, 0, 0, time.UTC)

func newTestService(t *testing.T) (*Service, *mocks.MockLiveQuoteSource, *mocks.MockLiveQuoteSource) {
	ctrl := gomock.NewController(t)
	primary := mocks.NewMockLiveQuoteSource(ctrl)
	fallback := mocks.NewMockLiveQuoteSource(ctrl)
	svc := NewService(primary, fallback, common.NewSilentLogger())
	svc.now = func() time.Time { return fixedNow }
	return svc, primary, fallback
}

func quoteAt(source string, price float64, ts time.Time) *models.LiveQuote {
	return &models.LiveQuote{Symbol: "VOD.L", Price: price, Timestamp: ts, Source: source}
}

func TestGetLivePrice_FreshPrimary(t *testing.T) {
	svc, primary, fallback := newTestService(t)
	primary.EXPECT().GetLiveQuote(gomock.Any(), "VOD.L").
		Return(quoteAt("yahoo", 70.5, fixedNow.Add(-10*time.Minute)), nil).Times(1)
	fallback.EXPECT().GetLiveQuote(gomock.Any(), gomock.Any()).Times(0)

	price, err := svc.GetLivePrice(context.Background(), "VOD.L")
	require.NoError(t, err)
	assert.Equal(t, 70.5, price.Float64)

	// second call served from cache
	price, err = svc.GetLivePrice(context.Background(), "vod.l")
	require.NoError(t, err)
	assert.Equal(t, 70.5, price.Float64)
}

func TestGetLiveQuote_PrimaryErrorUsesFallback(t *testing.T) {
	svc, primary, fallback := newTestService(t)
	primary.EXPECT().GetLiveQuote(gomock.Any(), "VOD.L").Return(nil, errors.New("429"))
	fallback.EXPECT().GetLiveQuote(gomock.Any(), "VOD.L").
		Return(quoteAt("eodhd", 70.1, fixedNow.Add(-20*time.Minute)), nil)

	q, err := svc.GetLiveQuote(context.Background(), "VOD.L")
	require.NoError(t, err)
	assert.Equal(t, "eodhd", q.Source)
}

func TestGetLiveQuote_StalePrimaryPrefersFresherFallback(t *testing.T) {
	svc, primary, fallback := newTestService(t)
	primary.EXPECT().GetLiveQuote(gomock.Any(), "VOD.L").
		Return(quoteAt("yahoo", 69, fixedNow.Add(-26*time.Hour)), nil)
	fallback.EXPECT().GetLiveQuote(gomock.Any(), "VOD.L").
		Return(quoteAt("eodhd", 70, fixedNow.Add(-15*time.Minute)), nil)

	q, err := svc.GetLiveQuote(context.Background(), "VOD.L")
	require.NoError(t, err)
	assert.Equal(t, 70.0, q.Price)
}

func TestGetLiveQuote_StalePrimaryKeptWhenFallbackOlder(t *testing.T) {
	svc, primary, fallback := newTestService(t)
	primary.EXPECT().GetLiveQuote(gomock.Any(), "VOD.L").
		Return(quoteAt("yahoo", 69, fixedNow.Add(-26*time.Hour)), nil)
	fallback.EXPECT().GetLiveQuote(gomock.Any(), "VOD.L").
		Return(quoteAt("eodhd", 68, fixedNow.Add(-50*time.Hour)), nil)

	q, err := svc.GetLiveQuote(context.Background(), "VOD.L")
	require.NoError(t, err)
	assert.Equal(t, "yahoo", q.Source)
}

func TestGetLiveQuote_StalePrimaryFallbackFails(t *testing.T) {
	svc, primary, fallback := newTestService(t)
	primary.EXPECT().GetLiveQuote(gomock.Any(), "VOD.L").
		Return(quoteAt("yahoo", 69, fixedNow.Add(-26*time.Hour)), nil)
	fallback.EXPECT().GetLiveQuote(gomock.Any(), "VOD.L").Return(nil, errors.New("down"))

	q, err := svc.GetLiveQuote(context.Background(), "VOD.L")
	require.NoError(t, err)
	assert.Equal(t, 69.0, q.Price)
}

func TestGetLiveQuote_BothFail(t *testing.T) {
	svc, primary, fallback := newTestService(t)
	primaryErr := errors.New("primary down")
	primary.EXPECT().GetLiveQuote(gomock.Any(), "VOD.L").Return(nil, primaryErr)
	fallback.EXPECT().GetLiveQuote(gomock.Any(), "VOD.L").Return(nil, errors.New("fallback down"))

	_, err := svc.GetLivePrice(context.Background(), "VOD.L")
	assert.ErrorIs(t, err, primaryErr)
}

func TestGetLiveQuote_NoFallbackConfigured(t *testing.T) {
	ctrl := gomock.NewController(t)
	primary := mocks.NewMockLiveQuoteSource(ctrl)
	primary.EXPECT().GetLiveQuote(gomock.Any(), "AAPL").Return(nil, errors.New("down"))

	svc := NewService(primary, nil, nil)
	_, err := svc.GetLiveQuote(context.Background(), "AAPL")
	assert.Error(t, err)
}
