package interfaces

import (
	"context"
	"errors"

	"github.com/bobmcallan/pricedesk/internal/models"
)

// ErrBaselineNotFound is returned by GetBaseline when no baseline exists.
var ErrBaselineNotFound = errors.New("reference baseline not found")

// BaselineStore persists manually curated YTD baselines keyed by (symbol, year).
type BaselineStore interface {
	// GetBaseline returns ErrBaselineNotFound when absent.
	GetBaseline(ctx context.Context, symbol string, year int) (*models.ReferenceBaseline, error)
	// SetBaseline validates and upserts.
	SetBaseline(ctx context.Context, b *models.ReferenceBaseline) error
	// DeleteBaseline is idempotent.
	DeleteBaseline(ctx context.Context, symbol string, year int) error
	// ListBaselines returns all baselines for year (0 = every year),
	// sorted by symbol then year.
	ListBaselines(ctx context.Context, year int) ([]*models.ReferenceBaseline, error)
	Close() error
}

// SnapshotRecorder keeps a history of scheduled snapshot runs.
type SnapshotRecorder interface {
	RecordSnapshot(ctx context.Context, snap *models.Snapshot) error
	Close() error
}
