package surrealdb

import (
	"context"
	"fmt"
	"time"

	"github.com/surrealdb/surrealdb.go"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"

	"github.com/bobmcallan/pricedesk/internal/common"
	"github.com/bobmcallan/pricedesk/internal/interfaces"
	"github.com/bobmcallan/pricedesk/internal/models"
)

const baselineTable = "baseline"

// Store implements interfaces.BaselineStore on the baseline table. Record
// ids are SYMBOL_YEAR.
type Store struct {
	db     *surrealdb.DB
	logger *common.Logger
	now    func() time.Time
	ownsDB bool
}

var _ interfaces.BaselineStore = (*Store)(nil)

// NewStore wraps an open connection and defines the baseline table.
func NewStore(ctx context.Context, db *surrealdb.DB, logger *common.Logger) (*Store, error) {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	if err := defineTables(ctx, db); err != nil {
		return nil, err
	}
	return &Store{db: db, logger: logger, now: time.Now}, nil
}

func recordID(symbol string, year int) surrealmodels.RecordID {
	return surrealmodels.NewRecordID(baselineTable, models.BaselineKey(symbol, year))
}

func (s *Store) GetBaseline(ctx context.Context, symbol string, year int) (*models.ReferenceBaseline, error) {
	rec, err := surrealdb.Select[models.BaselineRecord](ctx, s.db, recordID(symbol, year))
	if err != nil && !isNotFoundError(err) {
		return nil, fmt.Errorf("failed to select baseline: %w", err)
	}
	if rec == nil || rec.Key == "" {
		return nil, fmt.Errorf("%s %d: %w", models.NormalizeSymbol(symbol), year, interfaces.ErrBaselineNotFound)
	}
	return rec.Baseline(), nil
}

func (s *Store) SetBaseline(ctx context.Context, b *models.ReferenceBaseline) error {
	if err := b.Validate(); err != nil {
		return err
	}
	b.Symbol = models.NormalizeSymbol(b.Symbol)
	b.UpdatedAt = s.now().UTC()

	rec := b.Record()
	sql := "UPSERT $rid CONTENT $record"
	vars := map[string]any{"rid": recordID(b.Symbol, b.Year), "record": rec}

	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		_, err := surrealdb.Query[[]models.BaselineRecord](ctx, s.db, sql, vars)
		if err == nil {
			s.logger.Debug().Str("symbol", b.Symbol).Int("year", b.Year).Msg("Baseline saved")
			return nil
		}
		lastErr = err
	}
	return fmt.Errorf("failed to save baseline after retries: %w", lastErr)
}

func (s *Store) DeleteBaseline(ctx context.Context, symbol string, year int) error {
	if _, err := surrealdb.Delete[models.BaselineRecord](ctx, s.db, recordID(symbol, year)); err != nil && !isNotFoundError(err) {
		return fmt.Errorf("failed to delete baseline: %w", err)
	}
	return nil
}

func (s *Store) ListBaselines(ctx context.Context, year int) ([]*models.ReferenceBaseline, error) {
	sql := "SELECT * FROM baseline"
	vars := map[string]any{}
	if year != 0 {
		sql += " WHERE year = $year"
		vars["year"] = year
	}

	results, err := surrealdb.Query[[]models.BaselineRecord](ctx, s.db, sql, vars)
	if err != nil {
		return nil, fmt.Errorf("failed to list baselines: %w", err)
	}

	var out []*models.ReferenceBaseline
	if results != nil && len(*results) > 0 {
		for _, rec := range (*results)[0].Result {
			out = append(out, rec.Baseline())
		}
	}
	models.SortBaselines(out)
	return out, nil
}

// Close closes the connection when the store opened it.
func (s *Store) Close() error {
	if s.ownsDB && s.db != nil {
		return s.db.Close(context.Background())
	}
	return nil
}
