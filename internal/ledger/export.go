package ledger

import (
	"bizkash/internal/core"
	"bizkash/internal/i18n"
)

// ExportRow is one flat record of the export format. The ledger produces
// plain values; turning rows into a CSV document (and quoting fields that
// contain the delimiter) is the serializer collaborator's contract.
type ExportRow struct {
	Date        string
	Type        string
	Amount      int64
	Description string
	Category    string
	Source      string
}

// ExportRows flattens the ledger into one row per transaction in the current
// transaction order (newest first, no forced re-sort). Dates and kind labels
// are rendered for the given locale. The transform is pure: exporting twice
// from an unchanged ledger yields identical output.
func (l *Ledger) ExportRows(loc i18n.Locale) []ExportRow {
	items := l.snapshot()
	rows := make([]ExportRow, 0, len(items))
	for _, t := range items {
		rows = append(rows, ExportRow{
			Date:        t.CreatedAt.Format(loc.DateLayout()),
			Type:        loc.KindLabel(t.Kind),
			Amount:      t.Amount.Shillings,
			Description: t.Description,
			Category:    loc.CategoryLabel(t.Category),
			Source:      string(t.Source),
		})
	}
	return rows
}

// Report is the payload behind the reports view: totals, per-kind category
// breakdowns and simple counts for one period.
type Report struct {
	Period             core.Period
	Totals             core.Totals
	IncomeByCategory   []core.CategoryAmount
	ExpensesByCategory []core.CategoryAmount
	TransactionCount   int
	IncomeCount        int
	ExpenseCount       int
	AverageAmount      core.Money
}

// ReportForPeriod assembles the full report the dashboard's reports modal
// shows: headline totals, both category breakdowns and counts, all over the
// same time window.
func (l *Ledger) ReportForPeriod(p core.Period) Report {
	now := l.now()
	in := InPeriod(p, now)

	r := Report{
		Period:             p,
		Totals:             l.Totals(in),
		IncomeByCategory:   l.ByCategory(core.Income, in),
		ExpensesByCategory: l.ByCategory(core.Expense, in),
		IncomeCount:        l.Count(core.Income, in),
		ExpenseCount:       l.Count(core.Expense, in),
	}
	r.TransactionCount = r.IncomeCount + r.ExpenseCount
	if r.TransactionCount > 0 {
		// Average over absolute amounts regardless of kind
		sum := r.Totals.Income.Add(r.Totals.Expenses)
		r.AverageAmount = core.Money{Shillings: sum.Shillings / int64(r.TransactionCount)}
	}
	return r
}
