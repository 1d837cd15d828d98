// Package sheets mirrors each owner's ledger into a spreadsheet tab.
package sheets

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/cespare/xxhash/v2"

	"cassa/internal/core"
)

// Mirror replaces the mirrored copy of one owner's ledger.
type Mirror interface {
	ReplaceOwner(ctx context.Context, ownerID string, txs []core.Transaction) error
}

// Header is the first row of every mirrored tab.
var Header = []any{"Date", "Description", "Category", "Type", "Method", "Amount", "ID", "Updated"}

// Rows renders txs as sheet values, header first, in the order given.
func Rows(txs []core.Transaction) [][]any {
	rows := make([][]any, 0, len(txs)+1)
	rows = append(rows, Header)
	for _, tx := range txs {
		amount, _ := tx.Amount.Decimal().Float64()
		rows = append(rows, []any{
			tx.Date.DDMMYYYY(),
			tx.Description,
			tx.Category.Label(),
			string(tx.Type),
			string(tx.Method),
			amount,
			tx.ID,
			tx.UpdatedAt.UTC().Format("2006-01-02 15:04:05"),
		})
	}
	return rows
}

const maxTabName = 100

// hashedTab matches titles carrying the disambiguation suffix. Raw ids of
// that shape are hashed too, so a plain id never equals a hashed title.
var hashedTab = regexp.MustCompile(`-[0-9a-f]{8}$`)

// TabName derives a valid sheet title from an owner id. Characters the
// Sheets API rejects in titles are replaced with '_'. When the id had to be
// altered or truncated, a hash of the raw id is appended so that distinct
// owners never share a tab.
func TabName(ownerID string) string {
	name := strings.Map(func(r rune) rune {
		switch r {
		case '[', ']', ':', '*', '?', '/', '\\', '\'':
			return '_'
		}
		return r
	}, strings.TrimSpace(ownerID))
	if name == ownerID && name != "" && utf8.RuneCountInString(name) <= maxTabName && !hashedTab.MatchString(name) {
		return name
	}
	suffix := fmt.Sprintf("-%08x", uint32(xxhash.Sum64String(ownerID)))
	for utf8.RuneCountInString(name) > maxTabName-len(suffix) {
		_, size := utf8.DecodeLastRuneInString(name)
		name = name[:len(name)-size]
	}
	if name == "" {
		name = "_"
	}
	return name + suffix
}
