package report

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"cassa/internal/core"
	"cassa/web"
)

var printable = template.Must(template.New("report.html").
	Funcs(template.FuncMap{"inr": FormatINR}).
	ParseFS(web.TemplatesFS, "templates/report.html"))

type htmlData struct {
	User      Owner
	Generated core.Date
	Summary   Summary
	Rows      []core.Transaction

	AutoPrint bool
	Nonce     string
}

// HTMLOption tunes WriteHTML.
type HTMLOption func(*htmlData)

// WithPrintDialog makes the page open the browser's print dialog once it
// has loaded. nonce, when set, tags the inline script for a CSP
// script-src 'nonce-...' source.
func WithPrintDialog(nonce string) HTMLOption {
	return func(d *htmlData) {
		d.AutoPrint = true
		d.Nonce = nonce
	}
}

// WriteHTML renders the printable report for txs generated at now.
func WriteHTML(w io.Writer, o Owner, txs []core.Transaction, now time.Time, opts ...HTMLOption) error {
	data := htmlData{
		User:      o,
		Generated: core.DateOf(now),
		Summary:   Summarize(txs),
		Rows:      txs,
	}
	for _, opt := range opts {
		opt(&data)
	}
	if err := printable.Execute(w, data); err != nil {
		return fmt.Errorf("render report: %w", err)
	}
	return nil
}
