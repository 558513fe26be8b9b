// Package series canonicalizes raw source bars into session series.
package series

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/guregu/null/v6"

	"github.com/bobmcallan/pricedesk/internal/common"
	"github.com/bobmcallan/pricedesk/internal/models"
)

type cachedLocation struct {
	loc   *time.Location
	known bool
}

var locations sync.Map // name -> cachedLocation

// Location resolves an IANA timezone name. Empty or unknown names resolve to
// UTC and ok=false.
func Location(name string) (loc *time.Location, ok bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return time.UTC, false
	}
	if cached, hit := locations.Load(name); hit {
		c := cached.(cachedLocation)
		return c.loc, c.known
	}
	c := cachedLocation{loc: time.UTC}
	if l, err := time.LoadLocation(name); err == nil {
		c = cachedLocation{loc: l, known: true}
	}
	locations.Store(name, c)
	return c.loc, c.known
}

// Normalize turns raw bars into one session per local trading date,
// strictly increasing by date. Bars without a finite price are dropped,
// the later bar wins on duplicate dates, and gaps are never filled.
// A non-nil window trims the output to [From, To].
func Normalize(raw *models.RawSeries, window *models.Window) *models.SessionSeries {
	if raw == nil {
		return models.EmptySeries("")
	}
	loc, _ := Location(raw.ExchangeTimezone)
	return NormalizeBars(raw.Symbol, raw.Source, loc, raw.Bars(), raw.LivePrice, window)
}

// NormalizeBars is Normalize over already-zipped bars.
func NormalizeBars(symbol, source string, loc *time.Location, bars []models.Bar, live null.Float, window *models.Window) *models.SessionSeries {
	if loc == nil {
		loc = time.UTC
	}

	byDate := make(map[common.Date]models.Session, len(bars))
	for _, bar := range bars {
		if !bar.HasPrice() {
			continue
		}
		var d common.Date
		if bar.DateOnly {
			d = common.DateOf(bar.Time)
		} else {
			d = common.DateIn(bar.Time, loc)
		}
		if window != nil && !window.Contains(d) {
			continue
		}
		s := models.Session{Date: d}
		if models.FinitePrice(bar.Close) {
			s.PriceReturn = bar.Close
		}
		if models.FinitePrice(bar.AdjClose) {
			s.TotalReturn = bar.AdjClose
		}
		byDate[d] = s
	}

	sessions := make([]models.Session, 0, len(byDate))
	for _, s := range byDate {
		sessions = append(sessions, s)
	}
	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].Date.Before(sessions[j].Date)
	})

	out := &models.SessionSeries{
		Symbol:    symbol,
		Timezone:  loc.String(),
		Source:    source,
		Sessions:  sessions,
		LivePrice: live,
	}
	if !models.ValidPrice(out.LivePrice) {
		out.LivePrice = null.Float{}
	}
	return out
}
