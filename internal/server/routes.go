package server

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/bobmcallan/pricedesk/internal/common"
	"github.com/bobmcallan/pricedesk/internal/storage/sqlite"
)

// registerRoutes sets up all REST API routes on the mux.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	// System
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/version", s.handleVersion)
	mux.HandleFunc("/api/config", s.handleConfig)
	mux.HandleFunc("/api/shutdown", s.handleShutdown)

	// Prices
	mux.HandleFunc("/api/snapshot", s.handleSnapshot)
	mux.HandleFunc("/api/series/", s.handleSeries)
	mux.HandleFunc("/api/instruments", s.handleInstruments)
	mux.HandleFunc("/api/history/", s.handleHistory)

	// Reference baselines
	mux.HandleFunc("/api/baselines/", s.routeBaselines)
	mux.HandleFunc("/api/baselines", s.handleBaselines)
}

// routeBaselines dispatches /api/baselines/{symbol}/{year}.
func (s *Server) routeBaselines(w http.ResponseWriter, r *http.Request) {
	parts := PathSegments(r, "/api/baselines/")
	if len(parts) == 0 {
		s.handleBaselines(w, r)
		return
	}
	if len(parts) != 2 {
		WriteError(w, http.StatusNotFound, "Expected /api/baselines/{symbol}/{year}")
		return
	}
	year, err := strconv.Atoi(parts[1])
	if err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid year: "+parts[1])
		return
	}

	switch r.Method {
	case http.MethodGet:
		s.handleBaselineGet(w, r, parts[0], year)
	case http.MethodDelete:
		s.handleBaselineDelete(w, r, parts[0], year)
	default:
		RequireMethod(w, r, http.MethodGet, http.MethodDelete)
	}
}

// handleShutdown handles POST /api/shutdown (dev mode only).
func (s *Server) handleShutdown(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	if s.app.Config.IsProduction() {
		WriteError(w, http.StatusForbidden, "Shutdown endpoint disabled in production")
		return
	}

	s.logger.Info().Msg("Shutdown requested via HTTP endpoint")

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Shutting down gracefully...\n"))

	if flusher, ok := w.(http.Flusher); ok {
		flusher.Flush()
	}

	if s.shutdownChan != nil {
		go func() {
			time.Sleep(100 * time.Millisecond)
			s.shutdownChan <- struct{}{}
		}()
	}
}

// --- System handlers ---

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, common.CurrentBuild())
}

func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	cfg := s.app.Config

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"environment":      cfg.Environment,
		"uptime":           time.Since(s.app.StartupTime).Round(time.Second).String(),
		"storage_backend":  cfg.Storage.Backend,
		"storage_path":     cfg.Storage.Path,
		"storage_address":  cfg.Storage.Address,
		"fetch_tiers":      cfg.Fetch.Tiers,
		"grace_days":       cfg.Returns.GraceDays,
		"price_return":     cfg.Returns.PriceReturn,
		"manual_baselines": cfg.Returns.ManualBaselines,
		"live_price":       cfg.Returns.LivePrice,
		"registry_path":    cfg.Registry.Path,
		"instruments":      s.app.Registry.Len(),
		"scheduler":        cfg.Scheduler.Enabled,
		"scheduler_cron":   cfg.Scheduler.Cron,
		"logging_level":    cfg.Logging.Level,
		"eodhd_configured": s.app.EODHD != nil,
		"eodhd_api_key":    maskSecret(cfg.Clients.EODHD.APIKey),
	})
}

// historyReader is implemented by recorders that can read back their rows.
type historyReader interface {
	History(ctx context.Context, symbol string, limit int) ([]sqlite.HistoryRow, error)
}

// handleHistory handles GET /api/history/{symbol}?limit=
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	symbol := PathParam(r, "/api/history/")
	if symbol == "" {
		WriteError(w, http.StatusBadRequest, "Symbol is required")
		return
	}

	reader, ok := s.app.Recorder.(historyReader)
	if !ok {
		WriteError(w, http.StatusNotFound, "Snapshot history is not recorded")
		return
	}

	limit := 50
	if l := r.URL.Query().Get("limit"); l != "" {
		v, err := strconv.Atoi(l)
		if err != nil || v <= 0 || v > 1000 {
			WriteError(w, http.StatusBadRequest, "limit must be between 1 and 1000")
			return
		}
		limit = v
	}

	rows, err := reader.History(r.Context(), symbol, limit)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "History lookup failed: "+err.Error())
		return
	}
	if rows == nil {
		rows = []sqlite.HistoryRow{}
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"symbol":  strings.ToUpper(symbol),
		"history": rows,
	})
}

func maskSecret(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 4 {
		return "****"
	}
	return s[:4] + "****"
}
