// Package baselinefs stores reference baselines as one JSON file per
// (symbol, year) under a directory.
package baselinefs

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bobmcallan/pricedesk/internal/common"
	"github.com/bobmcallan/pricedesk/internal/interfaces"
	"github.com/bobmcallan/pricedesk/internal/models"
)

// Store keeps one indented JSON document per baseline, named
// <SYMBOL>_<YEAR>.json. Writes go through a temp file and rename.
type Store struct {
	dir    string
	logger *common.Logger
	now    func() time.Time
}

var _ interfaces.BaselineStore = (*Store)(nil)

const (
	ext        = ".json"
	tempPrefix = ".tmp-"
)

var keyReplacer = strings.NewReplacer("/", "_", "\\", "_", ":", "_", "..", "_")

// NewStore creates dir if needed.
func NewStore(logger *common.Logger, dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create baseline directory %s: %w", dir, err)
	}
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	logger.Info().Str("path", dir).Msg("Baseline file store opened")
	return &Store{dir: dir, logger: logger, now: time.Now}, nil
}

func (s *Store) Dir() string { return s.dir }

func (s *Store) GetBaseline(_ context.Context, symbol string, year int) (*models.ReferenceBaseline, error) {
	b, err := s.load(s.path(models.BaselineKey(symbol, year)))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s %d: %w", models.NormalizeSymbol(symbol), year, interfaces.ErrBaselineNotFound)
	}
	return b, err
}

func (s *Store) SetBaseline(_ context.Context, b *models.ReferenceBaseline) error {
	if err := b.Validate(); err != nil {
		return err
	}
	b.Symbol = models.NormalizeSymbol(b.Symbol)
	b.UpdatedAt = s.now().UTC()

	if err := s.save(s.path(models.BaselineKey(b.Symbol, b.Year)), b); err != nil {
		return fmt.Errorf("save baseline %s %d: %w", b.Symbol, b.Year, err)
	}
	s.logger.Debug().Str("symbol", b.Symbol).Int("year", b.Year).Msg("Baseline saved")
	return nil
}

// DeleteBaseline is idempotent.
func (s *Store) DeleteBaseline(_ context.Context, symbol string, year int) error {
	err := os.Remove(s.path(models.BaselineKey(symbol, year)))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete baseline: %w", err)
	}
	return nil
}

// ListBaselines skips unreadable files with a warning rather than failing.
func (s *Store) ListBaselines(_ context.Context, year int) ([]*models.ReferenceBaseline, error) {
	entries, err := os.ReadDir(s.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", s.dir, err)
	}

	var out []*models.ReferenceBaseline
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, tempPrefix) || filepath.Ext(name) != ext {
			continue
		}
		b, err := s.load(filepath.Join(s.dir, name))
		if err != nil {
			s.logger.Warn().Err(err).Str("file", name).Msg("Skipping unreadable baseline")
			continue
		}
		if year == 0 || b.Year == year {
			out = append(out, b)
		}
	}
	models.SortBaselines(out)
	return out, nil
}

func (s *Store) Close() error { return nil }

func sanitizeKey(key string) string { return keyReplacer.Replace(key) }

func (s *Store) path(key string) string {
	return filepath.Join(s.dir, sanitizeKey(key)+ext)
}

// load returns fs.ErrNotExist (wrapped) for a missing file.
func (s *Store) load(path string) (*models.ReferenceBaseline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("%s is empty", filepath.Base(path))
	}
	var b models.ReferenceBaseline
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return &b, nil
}

func (s *Store) save(path string, b *models.ReferenceBaseline) (err error) {
	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(s.dir, tempPrefix+"*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()
	if _, err = tmp.Write(append(data, '\n')); err != nil {
		_ = tmp.Close()
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
