// Package storetest holds the behaviour every BaselineStore backend must share.
package storetest

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/pricedesk/internal/common"
	"github.com/bobmcallan/pricedesk/internal/interfaces"
	"github.com/bobmcallan/pricedesk/internal/models"
)

// RunBaselineStore exercises a store created fresh for each subtest.
func RunBaselineStore(t *testing.T, open func(t *testing.T) interfaces.BaselineStore) {
	t.Helper()
	ctx := context.Background()

	t.Run("get missing", func(t *testing.T) {
		s := open(t)
		_, err := s.GetBaseline(ctx, "AAPL", 2024)
		assert.True(t, errors.Is(err, interfaces.ErrBaselineNotFound), "got %v", err)
	})

	t.Run("set then get", func(t *testing.T) {
		s := open(t)
		ref := common.MustParseDate("2023-12-27")
		require.NoError(t, s.SetBaseline(ctx, &models.ReferenceBaseline{
			Symbol: " heia.as", Year: 2024, Price: 102, RefDate: &ref, SeriesKind: "price", Note: "Euronext close",
		}))

		got, err := s.GetBaseline(ctx, "HEIA.AS", 2024)
		require.NoError(t, err)
		assert.Equal(t, "HEIA.AS", got.Symbol)
		assert.Equal(t, 2024, got.Year)
		assert.Equal(t, 102.0, got.Price)
		require.NotNil(t, got.RefDate)
		assert.Equal(t, ref, *got.RefDate)
		assert.Equal(t, "price", got.SeriesKind)
		assert.Equal(t, "Euronext close", got.Note)
		assert.False(t, got.UpdatedAt.IsZero())

		// lookup is case-insensitive on symbol
		_, err = s.GetBaseline(ctx, "heia.as", 2024)
		assert.NoError(t, err)

		_, err = s.GetBaseline(ctx, "HEIA.AS", 2023)
		assert.True(t, errors.Is(err, interfaces.ErrBaselineNotFound))
	})

	t.Run("upsert replaces", func(t *testing.T) {
		s := open(t)
		require.NoError(t, s.SetBaseline(ctx, &models.ReferenceBaseline{Symbol: "AAPL", Year: 2024, Price: 190}))
		require.NoError(t, s.SetBaseline(ctx, &models.ReferenceBaseline{Symbol: "AAPL", Year: 2024, Price: 192.5}))

		got, err := s.GetBaseline(ctx, "AAPL", 2024)
		require.NoError(t, err)
		assert.Equal(t, 192.5, got.Price)
		assert.Nil(t, got.RefDate)

		all, err := s.ListBaselines(ctx, 0)
		require.NoError(t, err)
		assert.Len(t, all, 1)
	})

	t.Run("zero price storable", func(t *testing.T) {
		s := open(t)
		require.NoError(t, s.SetBaseline(ctx, &models.ReferenceBaseline{Symbol: "ZERO", Year: 2024, Price: 0}))
		got, err := s.GetBaseline(ctx, "ZERO", 2024)
		require.NoError(t, err)
		assert.Equal(t, 0.0, got.Price)
	})

	t.Run("rejects invalid", func(t *testing.T) {
		s := open(t)
		for _, b := range []*models.ReferenceBaseline{
			{Symbol: "", Year: 2024, Price: 1},
			{Symbol: "X", Year: 1800, Price: 1},
			{Symbol: "X", Year: 2024, Price: -1},
			{Symbol: "X", Year: 2024, Price: math.Inf(1)},
		} {
			assert.Error(t, s.SetBaseline(ctx, b), "%+v", b)
		}
		all, err := s.ListBaselines(ctx, 0)
		require.NoError(t, err)
		assert.Empty(t, all)
	})

	t.Run("delete idempotent", func(t *testing.T) {
		s := open(t)
		require.NoError(t, s.SetBaseline(ctx, &models.ReferenceBaseline{Symbol: "VOD.L", Year: 2024, Price: 70}))
		require.NoError(t, s.DeleteBaseline(ctx, "vod.l", 2024))
		require.NoError(t, s.DeleteBaseline(ctx, "VOD.L", 2024))

		_, err := s.GetBaseline(ctx, "VOD.L", 2024)
		assert.True(t, errors.Is(err, interfaces.ErrBaselineNotFound))
	})

	t.Run("list filters and sorts", func(t *testing.T) {
		s := open(t)
		for _, b := range []*models.ReferenceBaseline{
			{Symbol: "VOD.L", Year: 2024, Price: 70},
			{Symbol: "AAPL", Year: 2025, Price: 250},
			{Symbol: "AAPL", Year: 2024, Price: 192},
			{Symbol: "RYA.IR", Year: 2024, Price: 17},
		} {
			require.NoError(t, s.SetBaseline(ctx, b))
		}

		all, err := s.ListBaselines(ctx, 0)
		require.NoError(t, err)
		require.Len(t, all, 4)
		assert.Equal(t, "AAPL", all[0].Symbol)
		assert.Equal(t, 2024, all[0].Year)
		assert.Equal(t, "AAPL", all[1].Symbol)
		assert.Equal(t, 2025, all[1].Year)
		assert.Equal(t, "RYA.IR", all[2].Symbol)
		assert.Equal(t, "VOD.L", all[3].Symbol)

		y2024, err := s.ListBaselines(ctx, 2024)
		require.NoError(t, err)
		require.Len(t, y2024, 3)
		for _, b := range y2024 {
			assert.Equal(t, 2024, b.Year)
		}

		none, err := s.ListBaselines(ctx, 1999)
		require.NoError(t, err)
		assert.Empty(t, none)
	})
}
