package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/guregu/null/v6"

	"github.com/bobmcallan/pricedesk/internal/common"
	"github.com/bobmcallan/pricedesk/internal/interfaces"
	"github.com/bobmcallan/pricedesk/internal/models"
)

var historySchema = []string{
	`CREATE TABLE IF NOT EXISTS snapshot_history (
		id              INTEGER PRIMARY KEY AUTOINCREMENT,
		recorded_at     INTEGER NOT NULL,
		snapshot_date   TEXT    NOT NULL,
		symbol          TEXT    NOT NULL,
		status          TEXT    NOT NULL,
		source          TEXT,
		session_date    TEXT,
		price           REAL,
		price_source    TEXT,
		change_5d       REAL,
		ytd             REAL,
		baseline        REAL,
		baseline_source TEXT
	)`,
	`CREATE INDEX IF NOT EXISTS idx_history_symbol ON snapshot_history(symbol, snapshot_date)`,
}

// Recorder appends every snapshot result row to snapshot_history.
type Recorder struct {
	db     *sql.DB
	mu     sync.Mutex
	logger *common.Logger
	now    func() time.Time
}

var _ interfaces.SnapshotRecorder = (*Recorder)(nil)

// NewRecorder opens (or creates) the history database at path.
func NewRecorder(logger *common.Logger, path string) (*Recorder, error) {
	db, err := openDB(path, historySchema)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	logger.Info().Str("path", path).Msg("SQLite snapshot recorder opened")
	return &Recorder{db: db, logger: logger, now: time.Now}, nil
}

// RecordSnapshot writes all rows of snap in one transaction.
func (r *Recorder) RecordSnapshot(ctx context.Context, snap *models.Snapshot) error {
	if snap == nil || len(snap.Results) == 0 {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO snapshot_history
		(recorded_at, snapshot_date, symbol, status, source, session_date,
		 price, price_source, change_5d, ytd, baseline, baseline_source)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	now := r.now().Unix()
	date := snap.Date.String()
	for _, res := range snap.Results {
		var sessionDate string
		if res.SessionDate != nil {
			sessionDate = res.SessionDate.String()
		}
		if _, err := stmt.ExecContext(ctx,
			now, date, res.Symbol, string(res.Status), res.Source, sessionDate,
			res.Price, res.PriceSource, res.Change5D, res.YTD, res.Baseline, string(res.BaselineSource),
		); err != nil {
			return fmt.Errorf("insert %s: %w", res.Symbol, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	r.logger.Debug().Str("date", date).Int("rows", len(snap.Results)).Msg("Snapshot recorded")
	return nil
}

// HistoryRow is one recorded result.
type HistoryRow struct {
	RecordedAt   time.Time           `json:"recorded_at"`
	SnapshotDate string              `json:"snapshot_date"`
	Symbol       string              `json:"symbol"`
	Status       models.ResultStatus `json:"status"`
	Price        null.Float          `json:"price"`
	Change5D     null.Float          `json:"change_5d"`
	YTD          null.Float          `json:"ytd"`
}

// History returns the most recent rows for symbol, newest first.
func (r *Recorder) History(ctx context.Context, symbol string, limit int) ([]HistoryRow, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.db.QueryContext(ctx, `SELECT recorded_at, snapshot_date, symbol, status, price, change_5d, ytd
		FROM snapshot_history WHERE symbol = ? ORDER BY snapshot_date DESC, id DESC LIMIT ?`,
		models.NormalizeSymbol(symbol), limit)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var out []HistoryRow
	for rows.Next() {
		var (
			h        HistoryRow
			recorded int64
			status   string
		)
		if err := rows.Scan(&recorded, &h.SnapshotDate, &h.Symbol, &status, &h.Price, &h.Change5D, &h.YTD); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		h.RecordedAt = time.Unix(recorded, 0).UTC()
		h.Status = models.ResultStatus(status)
		out = append(out, h)
	}
	return out, rows.Err()
}

func (r *Recorder) Close() error {
	r.logger.Info().Msg("Closing SQLite snapshot recorder")
	return r.db.Close()
}
