// Package sheets defines the outbound port for the spreadsheet the owner
// shares with their accountant.
package sheets

import (
	"context"

	"bizkash/internal/ledger"
)

// RowAppender appends one exported transaction row to the sheet.
type RowAppender interface {
	AppendRow(ctx context.Context, row ledger.ExportRow) (rowRef string, err error)
}
