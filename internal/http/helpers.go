package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"cassa/internal/analytics"
	"cassa/internal/core"
	"cassa/internal/ledger"
	applog "cassa/internal/log"
	"cassa/internal/report"
)

// Identity headers set by the authenticating proxy.
const (
	HeaderUserID    = "X-User-ID"
	HeaderUserName  = "X-User-Name"
	HeaderUserEmail = "X-User-Email"
)

// errForbiddenEdit is returned when a transaction is outside its edit window.
var errForbiddenEdit = errors.New("only transactions dated in the current month can be edited")

type ownerHandler func(w http.ResponseWriter, r *http.Request, owner report.Owner, ownerID string)

// withOwner rejects requests without an identity and tags the request
// logger with the caller.
func (s *Server) withOwner(next ownerHandler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := sanitizeInput(r.Header.Get(HeaderUserID))
		if id == "" {
			writeError(w, http.StatusUnauthorized, errors.New("missing user identity"))
			return
		}
		l := applog.FromContext(r.Context()).With(applog.FieldUserID, id)
		ctx := applog.IntoContext(r.Context(), l)
		owner := report.Owner{
			Name:  sanitizeInput(r.Header.Get(HeaderUserName)),
			Email: sanitizeInput(r.Header.Get(HeaderUserEmail)),
		}
		next(w, r.WithContext(ctx), owner, id)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// writeStoreError maps store and domain errors onto status codes. Internal
// failures are logged and reported without detail.
func writeStoreError(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, core.ErrValidation):
		writeError(w, http.StatusUnprocessableEntity, err)
	case errors.Is(err, ledger.ErrNotFound):
		writeError(w, http.StatusNotFound, ledger.ErrNotFound)
	case errors.Is(err, errForbiddenEdit):
		writeError(w, http.StatusForbidden, err)
	default:
		applog.FromContext(r.Context()).Error("Ledger operation failed",
			applog.NewFields().WithOperation(op).WithError(err).Args()...)
		writeError(w, http.StatusInternalServerError, errors.New("internal error"))
	}
}

// decodeJSON reads a bounded JSON body into dst. Domain validation errors
// raised while decoding fields are passed through unchanged.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) (int, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.Is(err, core.ErrValidation):
			return http.StatusUnprocessableEntity, err
		case errors.As(err, &maxErr):
			return http.StatusRequestEntityTooLarge, errors.New("request body too large")
		case errors.Is(err, io.EOF):
			return http.StatusBadRequest, errors.New("request body is empty")
		default:
			return http.StatusBadRequest, fmt.Errorf("malformed JSON body: %w", err)
		}
	}
	if dec.More() {
		return http.StatusBadRequest, errors.New("request body must be a single JSON object")
	}
	return 0, nil
}

// ownedTransaction loads id and hides transactions of other owners behind
// ErrNotFound.
func (s *Server) ownedTransaction(ctx context.Context, ownerID, id string) (core.Transaction, error) {
	tx, err := s.store.Get(ctx, id)
	if err != nil {
		return core.Transaction{}, err
	}
	if tx.UserID != ownerID {
		return core.Transaction{}, ledger.ErrNotFound
	}
	return tx, nil
}

// parseYearMonth reads year and month, defaulting to the current month.
func (s *Server) parseYearMonth(r *http.Request) (year, month int, err error) {
	now := s.now()
	year, month = now.Year(), int(now.Month())
	q := r.URL.Query()
	if v := strings.TrimSpace(q.Get("year")); v != "" {
		if year, err = strconv.Atoi(v); err != nil || year < 1 || year > 9999 {
			return 0, 0, fmt.Errorf("invalid year %q", v)
		}
	}
	if v := strings.TrimSpace(q.Get("month")); v != "" {
		if month, err = strconv.Atoi(v); err != nil || month < 1 || month > 12 {
			return 0, 0, fmt.Errorf("invalid month %q: must be between 1 and 12", v)
		}
	}
	return year, month, nil
}

// parseRange reads either days= or from=/to= into an inclusive window.
// No parameters means the whole ledger.
func (s *Server) parseRange(r *http.Request) (from, to core.Date, err error) {
	q := r.URL.Query()
	if v := strings.TrimSpace(q.Get("days")); v != "" {
		days, err := strconv.Atoi(v)
		if err != nil || days < 0 {
			return core.Date{}, core.Date{}, fmt.Errorf("invalid days %q", v)
		}
		from, to = analytics.QuickRange(days, s.now())
		return from, to, nil
	}
	if v := strings.TrimSpace(q.Get("from")); v != "" {
		if from, err = core.ParseDate(v); err != nil {
			return core.Date{}, core.Date{}, fmt.Errorf("invalid from date %q", v)
		}
	}
	if v := strings.TrimSpace(q.Get("to")); v != "" {
		if to, err = core.ParseDate(v); err != nil {
			return core.Date{}, core.Date{}, fmt.Errorf("invalid to date %q", v)
		}
	}
	if !from.IsZero() && !to.IsZero() && to.Before(from.Time) {
		return core.Date{}, core.Date{}, errors.New("to date is before from date")
	}
	return from, to, nil
}

func sanitizeInput(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 32 && r != '\t' {
			return -1
		}
		return r
	}, strings.TrimSpace(s))
}
