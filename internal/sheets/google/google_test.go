package google

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"cassa/internal/core"
)

// fakeSheets records the calls the client makes against the REST surface.
type fakeSheets struct {
	mu      sync.Mutex
	tabs    []string
	calls   []string
	written [][]any
}

func (f *fakeSheets) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	path := r.URL.Path
	w.Header().Set("Content-Type", "application/json")
	switch {
	case r.Method == http.MethodGet && strings.HasSuffix(path, "/spreadsheets/sheet-1"):
		f.calls = append(f.calls, "get")
		ss := gsheet.Spreadsheet{}
		for _, t := range f.tabs {
			ss.Sheets = append(ss.Sheets, &gsheet.Sheet{Properties: &gsheet.SheetProperties{Title: t}})
		}
		_ = json.NewEncoder(w).Encode(ss)
	case strings.HasSuffix(path, ":batchUpdate"):
		f.calls = append(f.calls, "add")
		var req gsheet.BatchUpdateSpreadsheetRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		f.tabs = append(f.tabs, req.Requests[0].AddSheet.Properties.Title)
		_, _ = w.Write([]byte(`{}`))
	case strings.HasSuffix(path, ":clear"):
		f.calls = append(f.calls, "clear")
		_, _ = w.Write([]byte(`{}`))
	case r.Method == http.MethodPut:
		f.calls = append(f.calls, "update")
		var vr gsheet.ValueRange
		_ = json.NewDecoder(r.Body).Decode(&vr)
		f.written = make([][]any, len(vr.Values))
		for i, row := range vr.Values {
			f.written[i] = row
		}
		_, _ = w.Write([]byte(`{}`))
	default:
		http.Error(w, "unexpected "+r.Method+" "+path, http.StatusNotFound)
	}
}

func newTestClient(t *testing.T, fake *fakeSheets) *Client {
	t.Helper()
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)
	c, err := New(context.Background(), "sheet-1", "", slog.New(slog.NewTextHandler(io.Discard, nil)),
		option.WithEndpoint(srv.URL+"/"),
		option.WithoutAuthentication(),
		option.WithHTTPClient(srv.Client()))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return c
}

func TestNewRequiresSpreadsheetID(t *testing.T) {
	if _, err := New(context.Background(), "  ", "", nil); err == nil {
		t.Fatal("expected error for missing spreadsheet id")
	}
}

func TestReplaceOwnerCreatesTabAndWrites(t *testing.T) {
	fake := &fakeSheets{tabs: []string{"Sheet1"}}
	c := newTestClient(t, fake)

	txs := []core.Transaction{{
		ID: "tx-1", Description: "Rent", Amount: core.NewMoney(15000),
		Type: core.Debit, Method: core.MethodNetBanking, Category: core.CategoryRent,
		Date: core.NewDate(2024, 6, 1),
	}}
	if err := c.ReplaceOwner(context.Background(), "user-1", txs); err != nil {
		t.Fatalf("replace: %v", err)
	}

	fake.mu.Lock()
	defer fake.mu.Unlock()
	if got := strings.Join(fake.calls, ","); got != "get,add,clear,update" {
		t.Fatalf("unexpected call sequence %s", got)
	}
	if len(fake.written) != 2 || fake.written[1][1] != "Rent" {
		t.Fatalf("unexpected written rows %v", fake.written)
	}
}

func TestReplaceOwnerReusesExistingTab(t *testing.T) {
	fake := &fakeSheets{tabs: []string{"user-1"}}
	c := newTestClient(t, fake)

	if err := c.ReplaceOwner(context.Background(), "user-1", nil); err != nil {
		t.Fatalf("replace: %v", err)
	}
	fake.mu.Lock()
	defer fake.mu.Unlock()
	if got := strings.Join(fake.calls, ","); got != "get,clear,update" {
		t.Fatalf("unexpected call sequence %s", got)
	}
	if len(fake.written) != 1 {
		t.Fatalf("empty ledger should write only the header, got %v", fake.written)
	}
}

func TestQuoteTab(t *testing.T) {
	if got := quoteTab("it's"); got != "'it''s'" {
		t.Fatalf("quoteTab = %s", got)
	}
}
