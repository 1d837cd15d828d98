package http

import (
	"bytes"
	"fmt"
	"net/http"

	"cassa/internal/analytics"
	"cassa/internal/core"
	applog "cassa/internal/log"
	"cassa/internal/middleware/security"
	"cassa/internal/report"
)

// reportSlice returns the caller's transactions inside the requested
// window, newest first. It writes the error response itself.
func (s *Server) reportSlice(w http.ResponseWriter, r *http.Request, ownerID string) (from, to core.Date, txs []core.Transaction, ok bool) {
	from, to, err := s.parseRange(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return from, to, nil, false
	}
	all, err := s.store.GetByOwner(r.Context(), ownerID)
	if err != nil {
		writeStoreError(w, r, applog.OpExport, err)
		return from, to, nil, false
	}
	return from, to, analytics.FilterRange(all, from, to), true
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request, _ report.Owner, ownerID string) {
	from, to, txs, ok := s.reportSlice(w, r, ownerID)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"from":         from,
		"to":           to,
		"summary":      report.Summarize(txs),
		"transactions": txs,
	})
}

func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request, owner report.Owner, ownerID string) {
	_, _, txs, ok := s.reportSlice(w, r, ownerID)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := report.WriteCSV(&buf, txs); err != nil {
		writeStoreError(w, r, applog.OpExport, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", report.Filename(owner, s.now())))
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(buf.Bytes())
	applog.FromContext(r.Context()).Info("CSV report exported", applog.FieldCount, len(txs))
}

func (s *Server) handlePrint(w http.ResponseWriter, r *http.Request, owner report.Owner, ownerID string) {
	_, _, txs, ok := s.reportSlice(w, r, ownerID)
	if !ok {
		return
	}
	nonce := security.NewNonce()
	var buf bytes.Buffer
	if err := report.WriteHTML(&buf, owner, txs, s.now(), report.WithPrintDialog(nonce)); err != nil {
		writeStoreError(w, r, applog.OpExport, err)
		return
	}
	security.AllowScriptNonce(w, nonce)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(buf.Bytes())
}
