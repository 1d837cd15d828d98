package http

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"cassa/internal/analytics"
	"cassa/internal/core"
	"cassa/internal/ledger"
	applog "cassa/internal/log"
	"cassa/internal/report"
	"cassa/internal/seed"
)

// handleListTransactions returns the caller's ledger, newest first,
// optionally narrowed by q= and limit=.
func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request, _ report.Owner, ownerID string) {
	txs, err := s.store.GetByOwner(r.Context(), ownerID)
	if err != nil {
		writeStoreError(w, r, applog.OpList, err)
		return
	}
	q := r.URL.Query()
	limit := 0
	if v := strings.TrimSpace(q.Get("limit")); v != "" {
		if limit, err = strconv.Atoi(v); err != nil || limit < 0 {
			writeError(w, http.StatusBadRequest, fmt.Errorf("invalid limit %q", v))
			return
		}
	}
	if term := q.Get("q"); term != "" || limit > 0 {
		txs = analytics.Search(txs, sanitizeInput(term), limit)
	}
	writeJSON(w, http.StatusOK, map[string]any{"transactions": txs, "count": len(txs)})
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request, _ report.Owner, ownerID string) {
	var d core.Draft
	if status, err := decodeJSON(w, r, &d); err != nil {
		writeError(w, status, err)
		return
	}
	d.Description = sanitizeInput(d.Description)

	tx, err := s.store.Add(r.Context(), ownerID, d)
	if err != nil {
		writeStoreError(w, r, applog.OpCreate, err)
		return
	}
	s.invalidate(ownerID)
	writeJSON(w, http.StatusCreated, tx)
}

func (s *Server) handleGetTransaction(w http.ResponseWriter, r *http.Request, _ report.Owner, ownerID string) {
	tx, err := s.ownedTransaction(r.Context(), ownerID, r.PathValue("id"))
	if err != nil {
		writeStoreError(w, r, applog.OpRead, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"transaction": tx,
		"editable":    core.CanEdit(tx, s.now()),
	})
}

// handleUpdateTransaction applies a partial update to a transaction that is
// still inside its edit window.
func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request, _ report.Owner, ownerID string) {
	ctx := r.Context()
	id := r.PathValue("id")
	current, err := s.ownedTransaction(ctx, ownerID, id)
	if err != nil {
		writeStoreError(w, r, applog.OpUpdate, err)
		return
	}
	if !core.CanEdit(current, s.now()) {
		writeStoreError(w, r, applog.OpUpdate, errForbiddenEdit)
		return
	}

	var p core.Patch
	if status, err := decodeJSON(w, r, &p); err != nil {
		writeError(w, status, err)
		return
	}
	if p.Description != nil {
		d := sanitizeInput(*p.Description)
		p.Description = &d
	}
	if p.IsEmpty() {
		writeJSON(w, http.StatusOK, current)
		return
	}

	updated, err := s.store.Update(ctx, id, p)
	if err != nil {
		writeStoreError(w, r, applog.OpUpdate, err)
		return
	}
	s.invalidate(ownerID)
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request, _ report.Owner, ownerID string) {
	ctx := r.Context()
	id := r.PathValue("id")
	if _, err := s.ownedTransaction(ctx, ownerID, id); err != nil {
		writeStoreError(w, r, applog.OpDelete, err)
		return
	}
	removed, err := s.store.Delete(ctx, id)
	if err != nil {
		writeStoreError(w, r, applog.OpDelete, err)
		return
	}
	if !removed {
		writeStoreError(w, r, applog.OpDelete, ledger.ErrNotFound)
		return
	}
	s.invalidate(ownerID)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handlePurgeTransactions(w http.ResponseWriter, r *http.Request, _ report.Owner, ownerID string) {
	n, err := s.store.DeleteAllForOwner(r.Context(), ownerID)
	if err != nil {
		writeStoreError(w, r, applog.OpPurge, err)
		return
	}
	s.invalidate(ownerID)
	writeJSON(w, http.StatusOK, map[string]int{"deleted": n})
}

// handleSampleData loads the demo ledger into the caller's account.
func (s *Server) handleSampleData(w http.ResponseWriter, r *http.Request, _ report.Owner, ownerID string) {
	added, err := seed.Load(r.Context(), s.store, ownerID, s.now())
	if len(added) > 0 {
		s.invalidate(ownerID)
	}
	if err != nil {
		writeStoreError(w, r, applog.OpSeed, err)
		return
	}
	applog.FromContext(r.Context()).Info("Sample ledger loaded", applog.FieldCount, len(added))
	writeJSON(w, http.StatusCreated, map[string]any{"transactions": added, "count": len(added)})
}
