// Package capture turns raw user input from the three entry surfaces
// (voice transcript, receipt text, manual form) into transaction candidates.
// A candidate never reaches the ledger from here; the caller confirms it
// and records it itself.
package capture

import (
	"context"
	"errors"
	"time"

	"bizkash/internal/core"
)

// ErrUnreadable marks input no parser could make a transaction out of.
// Callers fall back to the manual entry form.
var ErrUnreadable = errors.New("capture: input not readable")

// Source interprets one raw payload into a transaction candidate.
type Source interface {
	// Interpret parses raw input. It blocks for the surface's processing
	// delay and respects ctx cancellation while waiting.
	Interpret(ctx context.Context, raw string) (core.TransactionInput, error)
	// Kind names the surface, matching core.Source values.
	Kind() core.Source
}

// wait blocks for d or until ctx is done. Parsers call it before answering
// to model the latency of the transcription or OCR step they stand in for.
func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
