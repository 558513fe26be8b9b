// Package quote provides a live price service with automatic fallback
package quote

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/guregu/null/v6"

	"github.com/bobmcallan/pricedesk/internal/common"
	"github.com/bobmcallan/pricedesk/internal/interfaces"
	"github.com/bobmcallan/pricedesk/internal/models"
)

// StalenessThreshold is the age beyond which a primary quote is considered
// stale enough to try the fallback source. Exchange feeds are delayed by
// up to ~20 minutes; anything older than this means the feed is stuck.
var StalenessThreshold = 2 * time.Hour

type cachedQuote struct {
	quote   *models.LiveQuote
	fetched time.Time
}

// Service implements QuoteService with a primary and an optional fallback source.
type Service struct {
	primary  interfaces.LiveQuoteSource
	fallback interfaces.LiveQuoteSource
	logger   *common.Logger
	now      func() time.Time // injectable clock for testing

	mu    sync.Mutex
	cache map[string]cachedQuote
}

// NewService creates a new quote service.
// fallback may be nil; fallback is then skipped.
func NewService(primary, fallback interfaces.LiveQuoteSource, logger *common.Logger) *Service {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &Service{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
		now:      time.Now,
		cache:    make(map[string]cachedQuote),
	}
}

// GetLivePrice returns the latest price for symbol, or an error when no
// source can provide one.
func (s *Service) GetLivePrice(ctx context.Context, symbol string) (null.Float, error) {
	q, err := s.GetLiveQuote(ctx, symbol)
	if err != nil {
		return null.Float{}, err
	}
	return null.FloatFrom(q.Price), nil
}

// GetLiveQuote retrieves a live quote, falling back when the primary fails
// or returns a stale quote. Results are cached briefly per symbol.
func (s *Service) GetLiveQuote(ctx context.Context, symbol string) (*models.LiveQuote, error) {
	key := strings.ToUpper(strings.TrimSpace(symbol))
	if q := s.cached(key); q != nil {
		return q, nil
	}

	q, err := s.fetch(ctx, symbol)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.cache[key] = cachedQuote{quote: q, fetched: s.now()}
	s.mu.Unlock()
	return q, nil
}

func (s *Service) cached(key string) *models.LiveQuote {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.cache[key]
	if !ok || !common.IsFresh(c.fetched, s.now(), common.LiveQuoteTTL) {
		return nil
	}
	return c.quote
}

func (s *Service) fetch(ctx context.Context, symbol string) (*models.LiveQuote, error) {
	var quote *models.LiveQuote
	var primaryErr error
	if s.primary != nil {
		quote, primaryErr = s.primary.GetLiveQuote(ctx, symbol)
	} else {
		primaryErr = fmt.Errorf("no primary quote source")
	}

	if primaryErr == nil && quote != nil && !s.isStale(quote.Timestamp) {
		return quote, nil
	}
	if s.fallback == nil {
		if primaryErr != nil {
			return nil, primaryErr
		}
		return quote, nil
	}

	s.logger.Info().
		Str("symbol", symbol).
		Bool("primary_failed", primaryErr != nil).
		Msg("Attempting fallback for live quote")

	fbQuote, fbErr := s.fallback.GetLiveQuote(ctx, symbol)
	if fbErr != nil {
		s.logger.Warn().Err(fbErr).Str("symbol", symbol).Msg("Live quote fallback failed")
		// Return the stale primary quote if we have one, otherwise propagate the original error
		if primaryErr != nil {
			return nil, primaryErr
		}
		return quote, nil
	}

	// Prefer whichever quote is more recent
	if quote != nil && primaryErr == nil && !fbQuote.Timestamp.IsZero() && fbQuote.Timestamp.Before(quote.Timestamp) {
		return quote, nil
	}

	s.logger.Info().
		Str("symbol", symbol).
		Str("source", fbQuote.Source).
		Float64("price", fbQuote.Price).
		Msg("Live quote fallback succeeded")

	return fbQuote, nil
}

// isStale returns true when the quote timestamp is older than StalenessThreshold.
func (s *Service) isStale(ts time.Time) bool {
	if ts.IsZero() {
		return true
	}
	return s.now().Sub(ts) > StalenessThreshold
}

// Ensure Service implements QuoteService
var _ interfaces.QuoteService = (*Service)(nil)
