package report

import (
	"bufio"
	"io"
	"strings"

	"cassa/internal/core"
)

// WriteCSV writes the header and one row per transaction, in order. Text
// columns are always quoted, which encoding/csv cannot be told to do.
func WriteCSV(w io.Writer, txs []core.Transaction) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(Header); err != nil {
		return err
	}
	for _, tx := range txs {
		row := []string{
			tx.Date.DDMMYYYY(),
			quote(tx.Description),
			quote(tx.Category.Label()),
			string(tx.Type),
			string(tx.Method),
			tx.Amount.String(),
		}
		if _, err := bw.WriteString("\n" + strings.Join(row, ",")); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
