package storage

import (
	"context"

	"github.com/bobmcallan/pricedesk/internal/models"
)

// NoopRecorder discards snapshots; used when no history path is configured.
type NoopRecorder struct{}

func (NoopRecorder) RecordSnapshot(context.Context, *models.Snapshot) error { return nil }
func (NoopRecorder) Close() error                                           { return nil }
