package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/bobmcallan/pricedesk/internal/common"
	"github.com/bobmcallan/pricedesk/internal/interfaces"
	"github.com/bobmcallan/pricedesk/internal/models"
)

// baselineRequest is the POST /api/baselines body.
type baselineRequest struct {
	Symbol     string   `json:"symbol"`
	Year       int      `json:"year"`
	Price      *float64 `json:"price"`
	RefDate    string   `json:"ref_date"`
	SeriesKind string   `json:"series_kind"`
	Note       string   `json:"note"`
}

// handleBaselines handles GET /api/baselines?year= and POST /api/baselines.
func (s *Server) handleBaselines(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleBaselineList(w, r)
	case http.MethodPost:
		s.handleBaselineSet(w, r)
	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPost)
	}
}

func (s *Server) handleBaselineList(w http.ResponseWriter, r *http.Request) {
	year := 0
	if v := r.URL.Query().Get("year"); v != "" {
		y, err := strconv.Atoi(v)
		if err != nil {
			WriteError(w, http.StatusBadRequest, "Invalid year: "+v)
			return
		}
		year = y
	}

	list, err := s.app.Baselines.ListBaselines(r.Context(), year)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Failed to list baselines: "+err.Error())
		return
	}
	if list == nil {
		list = []*models.ReferenceBaseline{}
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"baselines": list,
		"count":     len(list),
	})
}

func (s *Server) handleBaselineSet(w http.ResponseWriter, r *http.Request) {
	var req baselineRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if req.Price == nil {
		WriteError(w, http.StatusBadRequest, "price is required")
		return
	}

	b := &models.ReferenceBaseline{
		Symbol:     req.Symbol,
		Year:       req.Year,
		Price:      *req.Price,
		SeriesKind: req.SeriesKind,
		Note:       req.Note,
	}
	if req.RefDate != "" {
		d, err := common.ParseDate(req.RefDate)
		if err != nil {
			WriteError(w, http.StatusBadRequest, "Invalid ref_date: "+req.RefDate)
			return
		}
		b.RefDate = &d
	}
	if err := b.Validate(); err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx := r.Context()
	if err := s.app.Baselines.SetBaseline(ctx, b); err != nil {
		WriteError(w, http.StatusInternalServerError, "Failed to save baseline: "+err.Error())
		return
	}

	saved, err := s.app.Baselines.GetBaseline(ctx, b.Symbol, b.Year)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Failed to read back baseline: "+err.Error())
		return
	}

	s.logger.Info().
		Str("symbol", saved.Symbol).
		Int("year", saved.Year).
		Float64("price", saved.Price).
		Msg("Reference baseline saved")
	WriteJSON(w, http.StatusOK, saved)
}

func (s *Server) handleBaselineGet(w http.ResponseWriter, r *http.Request, symbol string, year int) {
	b, err := s.app.Baselines.GetBaseline(r.Context(), symbol, year)
	if errors.Is(err, interfaces.ErrBaselineNotFound) {
		WriteError(w, http.StatusNotFound, "No baseline for "+models.BaselineKey(symbol, year))
		return
	}
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Failed to load baseline: "+err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, b)
}

func (s *Server) handleBaselineDelete(w http.ResponseWriter, r *http.Request, symbol string, year int) {
	if err := s.app.Baselines.DeleteBaseline(r.Context(), symbol, year); err != nil {
		WriteError(w, http.StatusInternalServerError, "Failed to delete baseline: "+err.Error())
		return
	}
	s.logger.Info().Str("symbol", models.NormalizeSymbol(symbol)).Int("year", year).Msg("Reference baseline deleted")
	w.WriteHeader(http.StatusNoContent)
}
