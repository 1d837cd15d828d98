package http

import (
	"fmt"
	"net/http"

	"cassa/internal/analytics"
	"cassa/internal/core"
	applog "cassa/internal/log"
	"cassa/internal/report"
)

// Cache keys start with the owner id and a NUL, which sanitizeInput keeps
// out of owner ids, so one prefix drops everything derived for an owner.
func ownerPrefix(ownerID string) string { return ownerID + "\x00" }

func dashboardKey(ownerID string, today core.Date) string {
	return ownerPrefix(ownerID) + "dashboard\x00" + today.ISO()
}

func monthKey(ownerID string, year, month int) string {
	return fmt.Sprintf("%smonth\x00%04d-%02d", ownerPrefix(ownerID), year, month)
}

// invalidate drops every cached view of ownerID and bumps its generation so
// that reads which loaded data before the mutation do not cache their view.
func (s *Server) invalidate(ownerID string) {
	n := 0
	s.generations.Bump(ownerID, func() {
		n = s.dashboards.DeletePrefix(ownerPrefix(ownerID)) + s.months.DeletePrefix(ownerPrefix(ownerID))
	})
	if n > 0 {
		s.logger.Debug("Invalidated cached views", applog.FieldUserID, ownerID, applog.FieldCount, n)
	}
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request, _ report.Owner, ownerID string) {
	now := s.now()
	key := dashboardKey(ownerID, core.DateOf(now))
	view, ok := s.dashboards.Get(key)
	s.metrics.CacheLookup("dashboard", ok)
	if ok {
		writeJSON(w, http.StatusOK, view)
		return
	}
	gen := s.generations.Current(ownerID)
	txs, err := s.store.GetByOwner(r.Context(), ownerID)
	if err != nil {
		writeStoreError(w, r, applog.OpRead, err)
		return
	}
	view = analytics.Dashboard(txs, now)
	s.generations.StoreIf(ownerID, gen, func() { s.dashboards.Set(key, view) })
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request, _ report.Owner, ownerID string) {
	year, month, err := s.parseYearMonth(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	key := monthKey(ownerID, year, month)
	view, ok := s.months.Get(key)
	s.metrics.CacheLookup("analytics", ok)
	if ok {
		writeJSON(w, http.StatusOK, view)
		return
	}
	gen := s.generations.Current(ownerID)
	txs, err := s.store.GetByOwner(r.Context(), ownerID)
	if err != nil {
		writeStoreError(w, r, applog.OpRead, err)
		return
	}
	view = analytics.MonthAnalysis(txs, year, month)
	s.generations.StoreIf(ownerID, gen, func() { s.months.Set(key, view) })
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleCategories(w http.ResponseWriter, _ *http.Request, _ report.Owner, _ string) {
	writeJSON(w, http.StatusOK, map[string]any{
		"categories": core.Catalog(),
		"methods":    core.Methods(),
	})
}
