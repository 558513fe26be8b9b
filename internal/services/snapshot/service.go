// Package snapshot runs the fetch, normalize, policy and compute pipeline
// over an instrument list.
package snapshot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/guregu/null/v6"
	"golang.org/x/sync/errgroup"

	"github.com/bobmcallan/pricedesk/internal/common"
	"github.com/bobmcallan/pricedesk/internal/interfaces"
	"github.com/bobmcallan/pricedesk/internal/models"
	"github.com/bobmcallan/pricedesk/internal/services/returns"
)

// Request describes one snapshot run.
type Request = interfaces.SnapshotRequest

// lookbackDays is the minimum history fetched before the target date.
const lookbackDays = 30

// computeConcurrency bounds per-symbol baseline and live price lookups.
const computeConcurrency = 8

// Service implements SnapshotService.
type Service struct {
	fetcher   interfaces.SeriesFetcher
	resolver  interfaces.PolicyResolver
	baselines interfaces.BaselineStore // may be nil
	quotes    interfaces.QuoteService  // may be nil
	options   returns.Options
	logger    *common.Logger
	now       func() time.Time
	loc       *time.Location
}

type Option func(*Service)

// WithLocation sets the zone whose calendar day counts as today. Default UTC.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.loc = loc
		}
	}
}

var _ interfaces.SnapshotService = (*Service)(nil)

// NewService creates a snapshot service. baselines and quotes may be nil.
func NewService(
	fetcher interfaces.SeriesFetcher,
	resolver interfaces.PolicyResolver,
	baselines interfaces.BaselineStore,
	quotes interfaces.QuoteService,
	options returns.Options,
	logger *common.Logger,
	opts ...Option,
) *Service {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	s := &Service{
		fetcher:   fetcher,
		resolver:  resolver,
		baselines: baselines,
		quotes:    quotes,
		options:   options,
		logger:    logger,
		now:       time.Now,
		loc:       time.UTC,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Today is the current date in the service's zone.
func (s *Service) Today() common.Date { return common.DateIn(s.now(), s.loc) }

// FetchWindow returns the history needed for date: from the earlier of
// Dec 1 of the prior year and 30 days back, through the grace days after.
func FetchWindow(date common.Date, graceDays int) models.Window {
	from := common.NewDate(date.Year()-1, time.December, 1)
	if back := date.AddDays(-lookbackDays); back.Before(from) {
		from = back
	}
	if graceDays < 0 {
		graceDays = 0
	}
	return models.Window{From: from, To: date.AddDays(graceDays)}
}

// Run computes one result per instrument, in request order. It fails only
// for invalid requests; per-symbol problems become no_data or partial rows.
func (s *Service) Run(ctx context.Context, req Request) (*models.Snapshot, error) {
	if req.Date.IsZero() {
		return nil, errors.New("snapshot date is required")
	}
	if len(req.Instruments) == 0 {
		return nil, errors.New("at least one instrument is required")
	}

	opts := s.options
	if req.ManualBaselines != nil {
		opts.ManualBaselines = *req.ManualBaselines
	}
	if req.LivePrice != nil {
		opts.LivePrice = *req.LivePrice
	}
	calc := returns.NewCalculator(opts)

	now := s.now()
	today := common.DateIn(now, s.loc)
	window := FetchWindow(req.Date, opts.GraceDays)

	symbols := make([]string, len(req.Instruments))
	for i, inst := range req.Instruments {
		symbols[i] = models.NormalizeSymbol(inst.Symbol)
	}

	start := time.Now()
	seriesBySymbol := s.fetcher.FetchMany(ctx, symbols, window)

	results := make([]models.CalculationResult, len(req.Instruments))
	var g errgroup.Group
	g.SetLimit(computeConcurrency)
	for i, inst := range req.Instruments {
		inst.Symbol = symbols[i]
		g.Go(func() error {
			results[i] = s.computeOne(ctx, calc, inst, seriesBySymbol[inst.Symbol], req.Date, today)
			return nil
		})
	}
	_ = g.Wait()

	snap := &models.Snapshot{
		Date:        req.Date,
		Today:       today,
		GeneratedAt: now.UTC(),
		Results:     results,
	}

	counts := snap.Counts()
	s.logger.Info().
		Str("date", req.Date.String()).
		Int("instruments", len(results)).
		Int("ok", counts[models.StatusOK]).
		Int("partial", counts[models.StatusPartial]).
		Int("no_data", counts[models.StatusNoData]).
		Dur("elapsed", time.Since(start)).
		Msg("Snapshot complete")

	return snap, nil
}

// computeOne isolates a single symbol: a panic becomes a no_data row.
func (s *Service) computeOne(ctx context.Context, calc *returns.Calculator, inst models.Instrument, series *models.SessionSeries, date, today common.Date) (res models.CalculationResult) {
	policy := s.resolver.ResolveInstrument(inst)

	defer func() {
		if r := recover(); r != nil {
			s.logger.Error().Str("symbol", inst.Symbol).Str("panic", fmt.Sprint(r)).Msg("Calculation panicked")
			res = models.CalculationResult{
				Symbol:   inst.Symbol,
				Name:     inst.Name,
				Region:   inst.Region,
				Currency: inst.Currency,
				Status:   models.StatusNoData,
				Policy:   policy,
			}
		}
	}()

	if series == nil {
		series = models.EmptySeries(inst.Symbol)
	}

	in := returns.Input{
		Series:     series,
		Target:     date,
		Today:      today,
		Policy:     policy,
		Instrument: inst,
	}

	opts := calc.Options()
	if opts.ManualBaselines && !series.NoData() {
		in.Baseline = s.loadBaseline(ctx, inst.Symbol, date.Year())
	}
	if opts.LivePrice && date == today && policy.UsePriceReturn && !series.NoData() {
		in.LivePrice = s.livePrice(ctx, inst.Symbol)
	}

	return calc.Compute(in)
}

func (s *Service) loadBaseline(ctx context.Context, symbol string, year int) *models.ReferenceBaseline {
	if s.baselines == nil {
		return nil
	}
	b, err := s.baselines.GetBaseline(ctx, symbol, year)
	if err != nil {
		if !errors.Is(err, interfaces.ErrBaselineNotFound) {
			s.logger.Warn().Err(err).Str("symbol", symbol).Int("year", year).Msg("Baseline lookup failed")
		}
		return nil
	}
	return b
}

func (s *Service) livePrice(ctx context.Context, symbol string) null.Float {
	if s.quotes == nil {
		return null.Float{}
	}
	price, err := s.quotes.GetLivePrice(ctx, symbol)
	if err != nil {
		s.logger.Debug().Err(err).Str("symbol", symbol).Msg("Live price unavailable")
		return null.Float{}
	}
	return price
}

// Series returns one normalized series for diagnostics.
func (s *Service) Series(ctx context.Context, symbol string, window models.Window) *models.SessionSeries {
	return s.fetcher.Fetch(ctx, models.NormalizeSymbol(symbol), window)
}
