// Package fetch resolves per-symbol session series through an ordered
// chain of price sources, falling back tier by tier.
package fetch

import (
	"context"
	"fmt"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/bobmcallan/pricedesk/internal/common"
	"github.com/bobmcallan/pricedesk/internal/interfaces"
	"github.com/bobmcallan/pricedesk/internal/models"
	"github.com/bobmcallan/pricedesk/internal/services/series"
)

const (
	DefaultTierTimeout    = 10 * time.Second
	DefaultBatchTimeout   = 30 * time.Second
	DefaultMaxConcurrency = 24
)

// Fetcher implements SeriesFetcher. Source failures never escape it.
type Fetcher struct {
	batch          interfaces.BatchBarSource
	tiers          []interfaces.BarSource
	tierTimeout    time.Duration
	batchTimeout   time.Duration
	maxConcurrency int
	logger         *common.Logger
}

var _ interfaces.SeriesFetcher = (*Fetcher)(nil)

// Option configures the fetcher
type Option func(*Fetcher)

// WithTierTimeout bounds every per-symbol tier call
func WithTierTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		if d > 0 {
			f.tierTimeout = d
		}
	}
}

// WithBatchTimeout bounds the single batch tier call
func WithBatchTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		if d > 0 {
			f.batchTimeout = d
		}
	}
}

// WithMaxConcurrency bounds concurrent per-symbol fallbacks
func WithMaxConcurrency(n int) Option {
	return func(f *Fetcher) {
		if n > 0 {
			f.maxConcurrency = n
		}
	}
}

// NewFetcher creates a fetcher. batch may be nil; tiers run in order.
func NewFetcher(batch interfaces.BatchBarSource, tiers []interfaces.BarSource, logger *common.Logger, opts ...Option) *Fetcher {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	f := &Fetcher{
		batch:          batch,
		tiers:          tiers,
		tierTimeout:    DefaultTierTimeout,
		batchTimeout:   DefaultBatchTimeout,
		maxConcurrency: DefaultMaxConcurrency,
		logger:         logger,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// TierNames lists the configured chain, batch tier first.
func (f *Fetcher) TierNames() []string {
	var names []string
	if f.batch != nil {
		names = append(names, f.batch.Name())
	}
	for _, t := range f.tiers {
		names = append(names, t.Name())
	}
	return names
}

// Fetch walks the per-symbol tiers in order and returns the first non-empty
// normalized series. It returns an empty series when every tier fails.
func (f *Fetcher) Fetch(ctx context.Context, symbol string, window models.Window) *models.SessionSeries {
	for _, tier := range f.tiers {
		if ctx.Err() != nil {
			break
		}
		if s := f.tryTier(ctx, tier, symbol, window); s != nil {
			return s
		}
	}

	f.logger.Warn().Str("symbol", symbol).Msg("No tier returned data")
	return models.EmptySeries(symbol)
}

// tryTier returns nil when the tier errors, panics or yields no sessions.
func (f *Fetcher) tryTier(ctx context.Context, tier interfaces.BarSource, symbol string, window models.Window) (s *models.SessionSeries) {
	defer func() {
		if r := recover(); r != nil {
			f.logger.Error().
				Str("panic", fmt.Sprint(r)).
				Str("stack", string(debug.Stack())).
				Str("symbol", symbol).
				Str("tier", tier.Name()).
				Msg("Tier panicked")
			s = nil
		}
	}()

	tctx, cancel := context.WithTimeout(ctx, f.tierTimeout)
	defer cancel()

	raw, err := tier.FetchBars(tctx, symbol, window)
	if err != nil {
		f.logger.Debug().Err(err).Str("symbol", symbol).Str("tier", tier.Name()).Msg("Tier failed")
		return nil
	}

	s = f.accept(raw, symbol, tier.Name(), window)
	if s == nil {
		f.logger.Debug().Str("symbol", symbol).Str("tier", tier.Name()).Msg("Tier returned no sessions")
	}
	return s
}

// accept normalizes a tier's output; nil means the tier is rejected whole.
func (f *Fetcher) accept(raw *models.RawSeries, symbol, source string, window models.Window) *models.SessionSeries {
	if raw == nil {
		return nil
	}
	s := series.Normalize(raw, &window)
	if s.NoData() {
		return nil
	}
	s.Symbol = symbol
	if s.Source == "" {
		s.Source = source
	}
	return s
}

// FetchMany runs the batch tier once, then the per-symbol chain
// concurrently for every symbol still missing data. Every requested symbol
// is a key of the result.
func (f *Fetcher) FetchMany(ctx context.Context, symbols []string, window models.Window) map[string]*models.SessionSeries {
	out := make(map[string]*models.SessionSeries, len(symbols))
	var pending []string
	for _, sym := range symbols {
		if _, seen := out[sym]; seen || strings.TrimSpace(sym) == "" {
			continue
		}
		out[sym] = models.EmptySeries(sym)
		pending = append(pending, sym)
	}
	if len(pending) == 0 {
		return out
	}

	if f.batch != nil {
		pending = f.fetchBatch(ctx, pending, window, out)
	}

	var mu sync.Mutex
	var g errgroup.Group
	g.SetLimit(f.maxConcurrency)

	for _, sym := range pending {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			s := f.Fetch(ctx, sym, window)
			mu.Lock()
			out[sym] = s
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	f.logger.Info().
		Int("symbols", len(out)).
		Int("fallback", len(pending)).
		Msg("Series fetch complete")

	return out
}

// fetchBatch fills out from the batch tier and returns the symbols it missed.
// A panicking batch tier counts as a failed one.
func (f *Fetcher) fetchBatch(ctx context.Context, symbols []string, window models.Window, out map[string]*models.SessionSeries) []string {
	bctx, cancel := context.WithTimeout(ctx, f.batchTimeout)
	defer cancel()

	raws, err := f.callBatch(bctx, symbols, window)
	if err != nil {
		f.logger.Warn().Err(err).Str("tier", f.batch.Name()).Int("symbols", len(symbols)).Msg("Batch tier failed")
		return symbols
	}

	var missing []string
	for _, sym := range symbols {
		if s := f.accept(raws[sym], sym, f.batch.Name(), window); s != nil {
			out[sym] = s
			continue
		}
		missing = append(missing, sym)
	}

	f.logger.Debug().
		Int("hit", len(symbols)-len(missing)).
		Int("missing", len(missing)).
		Str("tier", f.batch.Name()).
		Msg("Batch tier complete")

	return missing
}

func (f *Fetcher) callBatch(ctx context.Context, symbols []string, window models.Window) (raws map[string]*models.RawSeries, err error) {
	defer func() {
		if r := recover(); r != nil {
			f.logger.Error().Str("stack", string(debug.Stack())).Msg("Batch tier panicked")
			raws, err = nil, fmt.Errorf("batch tier panic: %v", r)
		}
	}()
	return f.batch.FetchBarsBatch(ctx, symbols, window)
}
