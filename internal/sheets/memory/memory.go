// Package memory is an in-process sheet used by tests and local runs
// without Google credentials.
package memory

import (
	"context"
	"fmt"
	"sync"

	"bizkash/internal/ledger"
	"bizkash/internal/sheets"
)

type Sheet struct {
	mu   sync.Mutex
	rows []ledger.ExportRow
}

var _ sheets.RowAppender = (*Sheet)(nil)

func New() *Sheet {
	return &Sheet{}
}

func (s *Sheet) AppendRow(ctx context.Context, row ledger.ExportRow) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = append(s.rows, row)
	return fmt.Sprintf("row-%d", len(s.rows)), nil
}

// Rows returns a copy of everything appended so far.
func (s *Sheet) Rows() []ledger.ExportRow {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]ledger.ExportRow, len(s.rows))
	copy(out, s.rows)
	return out
}
