// Package badger provides a BadgerHold-backed reference baseline store.
package badger

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/timshannon/badgerhold/v4"

	"github.com/bobmcallan/pricedesk/internal/common"
	"github.com/bobmcallan/pricedesk/internal/interfaces"
	"github.com/bobmcallan/pricedesk/internal/models"
)

// Store wraps a BadgerHold database connection.
type Store struct {
	db     *badgerhold.Store
	logger *common.Logger
	now    func() time.Time
}

var _ interfaces.BaselineStore = (*Store)(nil)

// NewStore creates a new BadgerHold store at the given directory path.
func NewStore(logger *common.Logger, path string) (*Store, error) {
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create badger directory %s: %w", path, err)
	}
	if logger == nil {
		logger = common.NewSilentLogger()
	}

	options := badgerhold.DefaultOptions
	options.Dir = path
	options.ValueDir = path
	options.Logger = nil // Disable default badger logger

	db, err := badgerhold.Open(options)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger database: %w", err)
	}

	logger.Debug().Str("path", path).Msg("BadgerHold baseline store opened")

	return &Store{db: db, logger: logger, now: time.Now}, nil
}

// DB returns the underlying badgerhold store.
func (s *Store) DB() *badgerhold.Store {
	return s.db
}

func (s *Store) GetBaseline(_ context.Context, symbol string, year int) (*models.ReferenceBaseline, error) {
	var rec models.BaselineRecord
	if err := s.db.Get(models.BaselineKey(symbol, year), &rec); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return nil, fmt.Errorf("%s %d: %w", models.NormalizeSymbol(symbol), year, interfaces.ErrBaselineNotFound)
		}
		return nil, fmt.Errorf("failed to get baseline: %w", err)
	}
	return rec.Baseline(), nil
}

func (s *Store) SetBaseline(_ context.Context, b *models.ReferenceBaseline) error {
	if err := b.Validate(); err != nil {
		return err
	}
	b.Symbol = models.NormalizeSymbol(b.Symbol)
	b.UpdatedAt = s.now().UTC()

	rec := b.Record()
	if err := s.db.Upsert(rec.Key, rec); err != nil {
		return fmt.Errorf("failed to save baseline: %w", err)
	}
	s.logger.Debug().Str("symbol", b.Symbol).Int("year", b.Year).Msg("Baseline saved")
	return nil
}

func (s *Store) DeleteBaseline(_ context.Context, symbol string, year int) error {
	err := s.db.Delete(models.BaselineKey(symbol, year), models.BaselineRecord{})
	if err != nil && !errors.Is(err, badgerhold.ErrNotFound) {
		return fmt.Errorf("failed to delete baseline: %w", err)
	}
	return nil
}

func (s *Store) ListBaselines(_ context.Context, year int) ([]*models.ReferenceBaseline, error) {
	var query *badgerhold.Query
	if year != 0 {
		query = badgerhold.Where("Year").Eq(year)
	}

	var recs []models.BaselineRecord
	if err := s.db.Find(&recs, query); err != nil {
		return nil, fmt.Errorf("failed to list baselines: %w", err)
	}

	out := make([]*models.ReferenceBaseline, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.Baseline())
	}
	models.SortBaselines(out)
	return out, nil
}

// Close closes the BadgerHold database.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
