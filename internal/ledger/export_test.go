package ledger

import (
	"reflect"
	"testing"

	"bizkash/internal/core"
	"bizkash/internal/i18n"
)

func TestExportRowsScenario(t *testing.T) {
	c := newFakeClock()
	l := New(WithClock(c.now))

	record(t, l, core.Income, 200, "vegetable sale", "Sales")
	record(t, l, core.Expense, 50, "lunch", "Food")

	rows := l.ExportRows(i18n.English)
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	// Newest first: the expense was recorded second.
	if rows[0].Type != "Expense" || rows[0].Description != "lunch" || rows[0].Amount != 50 {
		t.Fatalf("row 0 = %+v, want the expense", rows[0])
	}
	if rows[1].Type != "Income" || rows[1].Description != "vegetable sale" || rows[1].Amount != 200 {
		t.Fatalf("row 1 = %+v, want the income", rows[1])
	}
	if rows[0].Category != "Food" || rows[1].Category != "Sales" {
		t.Fatalf("categories wrong: %+v", rows)
	}
	if rows[0].Date != "Jun 1, 2025" {
		t.Fatalf("date rendered as %q, want %q", rows[0].Date, "Jun 1, 2025")
	}
}

func TestExportRowsIdempotent(t *testing.T) {
	c := newFakeClock()
	l := New(WithClock(c.now))

	record(t, l, core.Income, 500, "sale, with comma", "Sales")
	record(t, l, core.Expense, 120, "stock", "Inventory")

	first := l.ExportRows(i18n.English)
	second := l.ExportRows(i18n.English)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("export of unchanged ledger differs:\n%v\n%v", first, second)
	}
}

func TestExportRowsSwahiliLabels(t *testing.T) {
	c := newFakeClock()
	l := New(WithClock(c.now))

	record(t, l, core.Income, 300, "mauzo", "")

	rows := l.ExportRows(i18n.Swahili)
	if rows[0].Type != "Mapato" {
		t.Fatalf("type = %q, want Mapato", rows[0].Type)
	}
	if rows[0].Category != "Mingine" {
		t.Fatalf("fallback category = %q, want Mingine", rows[0].Category)
	}
	if rows[0].Date != "01/06/2025" {
		t.Fatalf("date = %q, want 01/06/2025", rows[0].Date)
	}
}

func TestExportRowsEmptyLedger(t *testing.T) {
	l := New()
	if rows := l.ExportRows(i18n.English); len(rows) != 0 {
		t.Fatalf("empty ledger export = %v, want no rows", rows)
	}
}

func TestReportForPeriod(t *testing.T) {
	c := newFakeClock()
	l := New(WithClock(c.now))

	record(t, l, core.Income, 200, "sale", "Sales")
	record(t, l, core.Income, 100, "repair", "Services")
	record(t, l, core.Expense, 60, "lunch", "Food")

	r := l.ReportForPeriod(core.PeriodAll)
	if r.Totals.Income.Shillings != 300 || r.Totals.Expenses.Shillings != 60 || r.Totals.Profit.Shillings != 240 {
		t.Fatalf("report totals = %+v", r.Totals)
	}
	if r.TransactionCount != 3 || r.IncomeCount != 2 || r.ExpenseCount != 1 {
		t.Fatalf("counts = %d/%d/%d", r.TransactionCount, r.IncomeCount, r.ExpenseCount)
	}
	if r.AverageAmount.Shillings != 120 {
		t.Fatalf("average = %d, want 120", r.AverageAmount.Shillings)
	}
	if len(r.IncomeByCategory) != 2 || r.IncomeByCategory[0].Name != "Sales" {
		t.Fatalf("income breakdown = %v", r.IncomeByCategory)
	}
	if len(r.ExpensesByCategory) != 1 || r.ExpensesByCategory[0].Name != "Food" {
		t.Fatalf("expense breakdown = %v", r.ExpensesByCategory)
	}
}

func TestReportForPeriodEmpty(t *testing.T) {
	l := New()
	r := l.ReportForPeriod(core.Period30Days)
	if r.TransactionCount != 0 || r.AverageAmount.Shillings != 0 {
		t.Fatalf("empty report = %+v", r)
	}
}
