// Package returns computes session price, trailing change and year-to-date
// change from a normalized session series.
package returns

import (
	"sort"
	"strings"

	"github.com/guregu/null/v6"

	"github.com/bobmcallan/pricedesk/internal/common"
	"github.com/bobmcallan/pricedesk/internal/models"
)

// TrailingSessions is the lookback of the trailing change, in trading sessions.
const TrailingSessions = 5

// DefaultGraceDays absorbs sessions stamped a day or two after their trading date.
const DefaultGraceDays = 3

// preHolidayCutoffDay is the last December day eligible as a pre-holiday anchor.
const preHolidayCutoffDay = 27

// Options are the calculator switches.
type Options struct {
	GraceDays       int
	ManualBaselines bool // reference baselines override computed YTD baselines
	LivePrice       bool // substitute a live price when the target is today
}

// DefaultOptions returns the standard switches.
func DefaultOptions() Options {
	return Options{GraceDays: DefaultGraceDays, ManualBaselines: true}
}

// Calculator is pure and safe for concurrent use.
type Calculator struct {
	opts Options
}

// NewCalculator creates a calculator. A negative grace is treated as zero.
func NewCalculator(opts Options) *Calculator {
	if opts.GraceDays < 0 {
		opts.GraceDays = 0
	}
	return &Calculator{opts: opts}
}

// Options returns the calculator's switches.
func (c *Calculator) Options() Options { return c.opts }

// Input is one symbol's calculation request.
type Input struct {
	Series     *models.SessionSeries
	Target     common.Date
	Today      common.Date
	Policy     models.ReturnPolicy
	LivePrice  null.Float                // overrides Series.LivePrice when present
	Baseline   *models.ReferenceBaseline // consulted only with ManualBaselines
	Instrument models.Instrument
}

// Compute produces the result row. It never fails; missing inputs yield
// absent metrics and a no_data or partial status.
func (c *Calculator) Compute(in Input) models.CalculationResult {
	symbol := in.Instrument.Symbol
	if symbol == "" && in.Series != nil {
		symbol = in.Series.Symbol
	}

	res := models.CalculationResult{
		Symbol:   symbol,
		Name:     in.Instrument.Name,
		Region:   in.Instrument.Region,
		Currency: in.Instrument.Currency,
		Policy:   in.Policy,
		Status:   models.StatusNoData,
	}
	if in.Series.NoData() {
		return res
	}
	res.Source = in.Series.Source

	sessions := in.Series.Sessions
	idx := ResolveIndex(sessions, in.Target, c.opts.GraceDays)
	resolved := sessions[idx]
	sessionDate := resolved.Date
	res.SessionDate = &sessionDate

	usePrice := in.Policy.UsePriceReturn
	res.Price = resolved.Value(usePrice)
	res.PriceSource = models.PriceSourceSession

	if live := c.livePrice(in); live.Valid {
		res.Price = live
		res.PriceSource = models.PriceSourceLive
	}

	if idx >= TrailingSessions {
		res.Change5D = PercentChange(res.Price, sessions[idx-TrailingSessions].Value(usePrice))
	}

	c.applyYTD(&res, in, sessions, usePrice)

	switch {
	case !res.Price.Valid:
		res.Status = models.StatusNoData
	case !res.Change5D.Valid || !res.YTD.Valid:
		res.Status = models.StatusPartial
	default:
		res.Status = models.StatusOK
	}
	return res
}

// livePrice returns the substitute numerator, or an absent value when
// substitution does not apply.
func (c *Calculator) livePrice(in Input) null.Float {
	if !c.opts.LivePrice || !in.Policy.UsePriceReturn || in.Target != in.Today {
		return null.Float{}
	}
	if models.ValidPrice(in.LivePrice) {
		return in.LivePrice
	}
	if models.ValidPrice(in.Series.LivePrice) {
		return in.Series.LivePrice
	}
	return null.Float{}
}

func (c *Calculator) applyYTD(res *models.CalculationResult, in Input, sessions []models.Session, usePrice bool) {
	year := in.Target.Year()

	if c.opts.ManualBaselines && in.Baseline != nil && in.Baseline.Year == year &&
		strings.EqualFold(strings.TrimSpace(in.Baseline.Symbol), strings.TrimSpace(res.Symbol)) {
		res.Baseline = null.FloatFrom(in.Baseline.Price)
		res.BaselineSource = models.BaselineManual
		if in.Baseline.RefDate != nil && !in.Baseline.RefDate.IsZero() {
			d := *in.Baseline.RefDate
			res.BaselineDate = &d
		}
		res.YTD = PercentChange(res.Price, res.Baseline)
		return
	}

	bidx, source := YTDBaselineIndex(sessions, year, in.Policy.YTDAnchor)
	if bidx < 0 {
		return
	}
	d := sessions[bidx].Date
	res.Baseline = sessions[bidx].Value(usePrice)
	res.BaselineDate = &d
	res.BaselineSource = source
	res.YTD = PercentChange(res.Price, res.Baseline)
}

// ResolveIndex selects the session for target: the latest on or before it,
// else the earliest within (target, target+grace], else the latest overall.
// It returns -1 only for an empty slice.
func ResolveIndex(sessions []models.Session, target common.Date, graceDays int) int {
	n := len(sessions)
	if n == 0 {
		return -1
	}

	// first index with Date > target
	after := sort.Search(n, func(i int) bool { return sessions[i].Date.After(target) })
	if after > 0 {
		return after - 1
	}
	if graceDays > 0 && !sessions[0].Date.After(target.AddDays(graceDays)) {
		return 0
	}
	return n - 1
}

// YTDBaselineIndex picks the baseline session for year under anchor,
// falling back to the first session of the year. It returns -1 when
// nothing qualifies.
func YTDBaselineIndex(sessions []models.Session, year int, anchor models.YTDAnchor) (int, models.BaselineSource) {
	jan1 := common.NewDate(year, 1, 1)

	cutoff, source := jan1.AddDays(-1), models.BaselineStandard
	if anchor == models.AnchorPreHoliday {
		cutoff, source = common.NewDate(year-1, 12, preHolidayCutoffDay), models.BaselinePreHoliday
	}

	// first index with Date > cutoff
	after := sort.Search(len(sessions), func(i int) bool { return sessions[i].Date.After(cutoff) })
	if after > 0 {
		return after - 1, source
	}

	first := sort.Search(len(sessions), func(i int) bool { return !sessions[i].Date.Before(jan1) })
	if first < len(sessions) {
		return first, models.BaselineFirstSession
	}
	return -1, ""
}

// PercentChange returns (num-ref)/ref*100, absent when either side is
// absent or ref is zero.
func PercentChange(num, ref null.Float) null.Float {
	if !num.Valid || !ref.Valid || ref.Float64 == 0 {
		return null.Float{}
	}
	return null.FloatFrom((num.Float64 - ref.Float64) / ref.Float64 * 100)
}
