package capture

import (
	"context"
	"strings"

	"bizkash/internal/core"
)

// ManualForm is the raw manual entry form as submitted.
type ManualForm struct {
	Kind        string
	Amount      string
	Description string
	Category    string
}

// ManualParser turns a submitted form into a candidate. No delay here; the
// form is already structured and only needs parsing and trimming.
type ManualParser struct{}

func NewManualParser() *ManualParser { return &ManualParser{} }

func (p *ManualParser) Kind() core.Source { return core.SourceManual }

func (p *ManualParser) Parse(form ManualForm) (core.TransactionInput, error) {
	kind := core.Kind(strings.TrimSpace(form.Kind))
	if err := kind.Validate(); err != nil {
		return core.TransactionInput{}, err
	}
	amount, err := core.ParseAmount(form.Amount)
	if err != nil {
		return core.TransactionInput{}, err
	}
	return core.TransactionInput{
		Kind:        kind,
		Amount:      amount,
		Description: strings.TrimSpace(form.Description),
		Category:    strings.TrimSpace(form.Category),
		Source:      core.SourceManual,
	}, nil
}

// Interpret satisfies Source for callers that only have free text: the text
// is treated as "<amount> <description>" with kind defaulting to expense.
func (p *ManualParser) Interpret(ctx context.Context, raw string) (core.TransactionInput, error) {
	if err := ctx.Err(); err != nil {
		return core.TransactionInput{}, err
	}
	fields := strings.Fields(raw)
	if len(fields) == 0 {
		return core.TransactionInput{}, core.ErrEmptyDescription
	}
	amount, err := core.ParseAmount(fields[0])
	if err != nil {
		return core.TransactionInput{}, err
	}
	return core.TransactionInput{
		Kind:        core.Expense,
		Amount:      amount,
		Description: strings.Join(fields[1:], " "),
		Source:      core.SourceManual,
	}, nil
}
