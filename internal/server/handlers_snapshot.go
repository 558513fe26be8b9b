package server

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/bobmcallan/pricedesk/internal/common"
	"github.com/bobmcallan/pricedesk/internal/services/registry"
	"github.com/bobmcallan/pricedesk/internal/services/snapshot"
)

// handleSnapshot handles GET /api/snapshot?date=&symbols=&manual_baselines=&live=
func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	q := r.URL.Query()

	date, err := dateParam(q, "date", s.today())
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	instruments := s.app.Registry.Instruments()
	if v := q.Get("symbols"); v != "" {
		instruments = s.app.Registry.Filter(registry.ParseSymbols(v))
	}
	if len(instruments) == 0 {
		WriteError(w, http.StatusBadRequest, "No instruments: pass symbols or configure a registry")
		return
	}

	manual, err := boolParam(q, "manual_baselines")
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	live, err := boolParam(q, "live")
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	snap, err := s.app.Snapshots.Run(r.Context(), snapshot.Request{
		Date:            date,
		Instruments:     instruments,
		ManualBaselines: manual,
		LivePrice:       live,
	})
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, snap)
}

// handleSeries handles GET /api/series/{symbol}?from=&to=
func (s *Server) handleSeries(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	symbol := PathParam(r, "/api/series/")
	if symbol == "" {
		WriteError(w, http.StatusBadRequest, "Symbol is required")
		return
	}

	q := r.URL.Query()
	window := snapshot.FetchWindow(s.today(), s.app.Config.Returns.GraceDays)

	var err error
	if window.From, err = dateParam(q, "from", window.From); err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if window.To, err = dateParam(q, "to", window.To); err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if window.From.After(window.To) {
		WriteError(w, http.StatusBadRequest, "from must not be after to")
		return
	}

	series := s.app.Snapshots.Series(r.Context(), symbol, window)
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"window": window,
		"series": series,
	})
}

// handleInstruments handles GET /api/instruments.
func (s *Server) handleInstruments(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"instruments": s.app.Registry.Instruments(),
		"count":       s.app.Registry.Len(),
	})
}

func dateParam(q url.Values, name string, fallback common.Date) (common.Date, error) {
	v := q.Get(name)
	if v == "" {
		return fallback, nil
	}
	d, err := common.ParseDate(v)
	if err != nil {
		return common.Date{}, &paramError{name: name, value: v, want: "a YYYY-MM-DD date"}
	}
	return d, nil
}

// boolParam returns nil when the parameter is absent so the configured
// default applies.
func boolParam(q url.Values, name string) (*bool, error) {
	v := q.Get(name)
	if v == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return nil, &paramError{name: name, value: v, want: "true or false"}
	}
	return &b, nil
}

type paramError struct {
	name, value, want string
}

func (e *paramError) Error() string {
	return "invalid " + e.name + " " + strconv.Quote(e.value) + ": expected " + e.want
}

// today is the default date for requests, in the configured returns zone.
func (s *Server) today() common.Date {
	return common.DateIn(s.now(), s.app.Config.Returns.Location())
}
