// Package models defines data structures for pricedesk
package models

import (
	"math"
	"time"

	"github.com/guregu/null/v6"

	"github.com/bobmcallan/pricedesk/internal/common"
)

// Bar is one source-native daily observation.
type Bar struct {
	Time     time.Time  `json:"time"`
	DateOnly bool       `json:"date_only,omitempty"` // Time already carries the local trading date
	Close    null.Float `json:"close"`
	AdjClose null.Float `json:"adj_close"`
}

// HasPrice reports whether either column holds a finite value. A zero
// close is a real session; percentage math suppresses it as a reference.
func (b Bar) HasPrice() bool {
	return FinitePrice(b.Close) || FinitePrice(b.AdjClose)
}

// FinitePrice reports whether v is present and neither NaN nor infinite.
func FinitePrice(v null.Float) bool {
	return v.Valid && !math.IsNaN(v.Float64) && !math.IsInf(v.Float64, 0)
}

// ValidPrice reports whether v is present, finite and positive. Live
// quotes must pass it before replacing a session price.
func ValidPrice(v null.Float) bool {
	if !v.Valid {
		return false
	}
	f := v.Float64
	return !math.IsNaN(f) && !math.IsInf(f, 0) && f > 0
}

// RawSeries is the parallel-vector form emitted by chart-style sources.
// The vectors may have different lengths; Bars zips them up to the
// shortest of Timestamps and the longer price vector.
type RawSeries struct {
	Symbol           string       `json:"symbol"`
	Source           string       `json:"source"`
	ExchangeTimezone string       `json:"exchange_timezone"`
	Timestamps       []time.Time  `json:"timestamps"`
	Close            []null.Float `json:"close"`
	AdjClose         []null.Float `json:"adj_close"`
	DateOnly         bool         `json:"date_only,omitempty"`
	LivePrice        null.Float   `json:"live_price"`
}

// Bars zips the parallel vectors. Missing trailing prices are absent.
func (r *RawSeries) Bars() []Bar {
	if r == nil {
		return nil
	}
	bars := make([]Bar, 0, len(r.Timestamps))
	for i, ts := range r.Timestamps {
		bar := Bar{Time: ts, DateOnly: r.DateOnly}
		if i < len(r.Close) {
			bar.Close = r.Close[i]
		}
		if i < len(r.AdjClose) {
			bar.AdjClose = r.AdjClose[i]
		}
		bars = append(bars, bar)
	}
	return bars
}

// Session is one trading day of a normalized series.
type Session struct {
	Date        common.Date `json:"date"`
	PriceReturn null.Float  `json:"price_return"` // raw close
	TotalReturn null.Float  `json:"total_return"` // dividend-adjusted close
}

// Value returns the requested column, falling back to the other one.
func (s Session) Value(usePriceReturn bool) null.Float {
	primary, secondary := s.TotalReturn, s.PriceReturn
	if usePriceReturn {
		primary, secondary = s.PriceReturn, s.TotalReturn
	}
	if primary.Valid {
		return primary
	}
	return secondary
}

// SessionSeries is the canonical per-symbol daily series: one session per
// local trading date, strictly increasing.
type SessionSeries struct {
	Symbol    string     `json:"symbol"`
	Timezone  string     `json:"timezone"`
	Source    string     `json:"source"`
	Sessions  []Session  `json:"sessions"`
	LivePrice null.Float `json:"live_price"`
}

// NoData reports whether the series has no sessions.
func (s *SessionSeries) NoData() bool {
	return s == nil || len(s.Sessions) == 0
}

// Latest returns the last session, or false when empty.
func (s *SessionSeries) Latest() (Session, bool) {
	if s.NoData() {
		return Session{}, false
	}
	return s.Sessions[len(s.Sessions)-1], true
}

// EmptySeries returns a no-data series for symbol.
func EmptySeries(symbol string) *SessionSeries {
	return &SessionSeries{Symbol: symbol, Sessions: []Session{}}
}

// Window is a closed date interval [From, To].
type Window struct {
	From common.Date `json:"from"`
	To   common.Date `json:"to"`
}

// Contains reports whether d falls inside the window.
func (w Window) Contains(d common.Date) bool {
	return !d.Before(w.From) && !d.After(w.To)
}
