package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bobmcallan/pricedesk/internal/common"
	"github.com/bobmcallan/pricedesk/internal/interfaces"
	"github.com/bobmcallan/pricedesk/internal/models"
)

var baselineSchema = []string{
	`CREATE TABLE IF NOT EXISTS reference_baselines (
		symbol      TEXT    NOT NULL,
		year        INTEGER NOT NULL,
		price       REAL    NOT NULL,
		ref_date    TEXT    NOT NULL DEFAULT '',
		series_kind TEXT    NOT NULL DEFAULT '',
		note        TEXT    NOT NULL DEFAULT '',
		updated_at  INTEGER NOT NULL,
		PRIMARY KEY (symbol, year)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_baselines_year ON reference_baselines(year)`,
}

// BaselineStore implements interfaces.BaselineStore on the reference_baselines table.
type BaselineStore struct {
	db     *sql.DB
	mu     sync.Mutex
	logger *common.Logger
	now    func() time.Time
}

var _ interfaces.BaselineStore = (*BaselineStore)(nil)

// NewBaselineStore opens (or creates) the database at path and runs migrations.
func NewBaselineStore(logger *common.Logger, path string) (*BaselineStore, error) {
	db, err := openDB(path, baselineSchema)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	logger.Info().Str("path", path).Msg("SQLite baseline store opened")
	return &BaselineStore{db: db, logger: logger, now: time.Now}, nil
}

func (s *BaselineStore) GetBaseline(ctx context.Context, symbol string, year int) (*models.ReferenceBaseline, error) {
	row := s.db.QueryRowContext(ctx, `SELECT symbol, year, price, ref_date, series_kind, note, updated_at
		FROM reference_baselines WHERE symbol = ? AND year = ?`, models.NormalizeSymbol(symbol), year)

	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s %d: %w", models.NormalizeSymbol(symbol), year, interfaces.ErrBaselineNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get baseline: %w", err)
	}
	return rec.Baseline(), nil
}

func (s *BaselineStore) SetBaseline(ctx context.Context, b *models.ReferenceBaseline) error {
	if err := b.Validate(); err != nil {
		return err
	}
	b.Symbol = models.NormalizeSymbol(b.Symbol)
	b.UpdatedAt = s.now().UTC()
	rec := b.Record()

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `INSERT INTO reference_baselines
		(symbol, year, price, ref_date, series_kind, note, updated_at)
		VALUES (?,?,?,?,?,?,?)
		ON CONFLICT(symbol, year) DO UPDATE SET
			price = excluded.price,
			ref_date = excluded.ref_date,
			series_kind = excluded.series_kind,
			note = excluded.note,
			updated_at = excluded.updated_at`,
		rec.Symbol, rec.Year, rec.Price, rec.RefDate, rec.SeriesKind, rec.Note, rec.UpdatedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("failed to save baseline: %w", err)
	}
	s.logger.Debug().Str("symbol", b.Symbol).Int("year", b.Year).Msg("Baseline saved")
	return nil
}

func (s *BaselineStore) DeleteBaseline(ctx context.Context, symbol string, year int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.ExecContext(ctx, `DELETE FROM reference_baselines WHERE symbol = ? AND year = ?`,
		models.NormalizeSymbol(symbol), year); err != nil {
		return fmt.Errorf("failed to delete baseline: %w", err)
	}
	return nil
}

func (s *BaselineStore) ListBaselines(ctx context.Context, year int) ([]*models.ReferenceBaseline, error) {
	query := `SELECT symbol, year, price, ref_date, series_kind, note, updated_at FROM reference_baselines`
	var args []any
	if year != 0 {
		query += ` WHERE year = ?`
		args = append(args, year)
	}
	query += ` ORDER BY symbol, year`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list baselines: %w", err)
	}
	defer rows.Close()

	var out []*models.ReferenceBaseline
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan baseline: %w", err)
		}
		out = append(out, rec.Baseline())
	}
	return out, rows.Err()
}

func (s *BaselineStore) Close() error {
	s.logger.Debug().Msg("Closing SQLite baseline store")
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (models.BaselineRecord, error) {
	var (
		rec     models.BaselineRecord
		updated int64
	)
	if err := row.Scan(&rec.Symbol, &rec.Year, &rec.Price, &rec.RefDate, &rec.SeriesKind, &rec.Note, &updated); err != nil {
		return rec, err
	}
	rec.Key = models.BaselineKey(rec.Symbol, rec.Year)
	rec.UpdatedAt = time.Unix(0, updated).UTC()
	return rec, nil
}
