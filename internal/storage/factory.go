// Package storage selects the reference baseline backend and the snapshot
// history recorder from configuration.
package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bobmcallan/pricedesk/internal/common"
	"github.com/bobmcallan/pricedesk/internal/interfaces"
	"github.com/bobmcallan/pricedesk/internal/storage/badger"
	"github.com/bobmcallan/pricedesk/internal/storage/baselinefs"
	"github.com/bobmcallan/pricedesk/internal/storage/sqlite"
	"github.com/bobmcallan/pricedesk/internal/storage/surrealdb"
)

// Backend names accepted by storage.backend.
const (
	BackendFile      = "file"
	BackendBadger    = "badger"
	BackendSurrealDB = "surrealdb"
	BackendSQLite    = "sqlite"
)

// NewBaselineStore opens the configured backend. "file" is the default.
func NewBaselineStore(ctx context.Context, config common.StorageConfig, logger *common.Logger) (interfaces.BaselineStore, error) {
	if logger == nil {
		logger = common.NewSilentLogger()
	}

	backend := strings.ToLower(strings.TrimSpace(config.Backend))
	if backend == "" {
		backend = BackendFile
	}

	switch backend {
	case BackendFile:
		return baselinefs.NewStore(logger, config.Path)

	case BackendBadger:
		return badger.NewStore(logger, config.Path)

	case BackendSurrealDB:
		if config.Address == "" {
			return nil, fmt.Errorf("surrealdb backend requires storage.address")
		}
		return surrealdb.Open(ctx, logger, config)

	case BackendSQLite:
		return sqlite.NewBaselineStore(logger, sqlitePath(config.Path))

	default:
		return nil, fmt.Errorf("unknown storage backend: %s (supported: file, badger, surrealdb, sqlite)", backend)
	}
}

// sqlitePath treats a path without an extension as a directory.
func sqlitePath(path string) string {
	if filepath.Ext(path) == "" {
		return filepath.Join(path, "baselines.db")
	}
	return path
}

// NewSnapshotRecorder returns a SQLite recorder at path, or a no-op
// recorder when path is empty.
func NewSnapshotRecorder(path string, logger *common.Logger) (interfaces.SnapshotRecorder, error) {
	if strings.TrimSpace(path) == "" {
		return NoopRecorder{}, nil
	}
	return sqlite.NewRecorder(logger, path)
}
