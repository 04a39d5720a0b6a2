// Package export serializes ledger rows into downloadable documents.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"bizkash/internal/ledger"
)

var csvHeader = []string{"Date", "Type", "Amount", "Description", "Category", "Source"}

// WriteCSV renders the rows as a CSV document with a fixed header. Fields
// containing the delimiter or quotes come out quoted, so free-text
// descriptions round-trip safely.
func WriteCSV(w io.Writer, rows []ledger.ExportRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, r := range rows {
		record := []string{
			r.Date,
			r.Type,
			strconv.FormatInt(r.Amount, 10),
			r.Description,
			r.Category,
			r.Source,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
