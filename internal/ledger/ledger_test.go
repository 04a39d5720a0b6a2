package ledger

import (
	"testing"
	"time"

	"bizkash/internal/core"
)

// fakeClock hands out strictly increasing timestamps starting at base,
// advancing one minute per call.
type fakeClock struct {
	t time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) now() time.Time {
	c.t = c.t.Add(time.Minute)
	return c.t
}

func record(t *testing.T, l *Ledger, kind core.Kind, amount int64, desc, category string) core.Transaction {
	t.Helper()
	tx, err := l.Record(core.TransactionInput{
		Kind:        kind,
		Amount:      core.Money{Shillings: amount},
		Description: desc,
		Category:    category,
	})
	if err != nil {
		t.Fatalf("record %s %d: %v", kind, amount, err)
	}
	return tx
}

func TestEmptyLedger(t *testing.T) {
	l := New()

	tot := l.Totals()
	if tot.Income.Shillings != 0 || tot.Expenses.Shillings != 0 || tot.Profit.Shillings != 0 {
		t.Fatalf("empty ledger totals = %+v, want zeros", tot)
	}
	if got := l.ByCategory(core.Income); len(got) != 0 {
		t.Fatalf("empty ledger ByCategory = %v, want empty", got)
	}
	if got := l.Recent(10); len(got) != 0 {
		t.Fatalf("empty ledger Recent(10) = %v, want empty", got)
	}
}

func TestRecordScenario(t *testing.T) {
	c := newFakeClock()
	l := New(WithClock(c.now))

	record(t, l, core.Income, 200, "vegetable sale", "Sales")
	record(t, l, core.Expense, 50, "lunch", "Food")

	tot := l.Totals()
	if tot.Income.Shillings != 200 || tot.Expenses.Shillings != 50 || tot.Profit.Shillings != 150 {
		t.Fatalf("totals = %+v, want income 200, expenses 50, profit 150", tot)
	}

	byCat := l.ByCategory(core.Income)
	if len(byCat) != 1 || byCat[0].Name != "Sales" || byCat[0].Amount.Shillings != 200 {
		t.Fatalf("ByCategory(Income) = %v, want [{Sales 200}]", byCat)
	}
}

func TestProfitIdentity(t *testing.T) {
	c := newFakeClock()
	l := New(WithClock(c.now))

	amounts := []struct {
		kind core.Kind
		amt  int64
	}{
		{core.Income, 100}, {core.Expense, 250}, {core.Income, 75},
		{core.Expense, 30}, {core.Expense, 400},
	}
	for _, a := range amounts {
		record(t, l, a.kind, a.amt, "entry", "Misc")
	}

	tot := l.Totals()
	if tot.Profit.Shillings != tot.Income.Shillings-tot.Expenses.Shillings {
		t.Fatalf("profit identity broken: %+v", tot)
	}
	// A loss is a valid state, not an error.
	if !tot.Profit.IsNegative() {
		t.Fatalf("expected a loss, got %+v", tot)
	}
}

func TestByCategorySumsMatchTotals(t *testing.T) {
	c := newFakeClock()
	l := New(WithClock(c.now))

	record(t, l, core.Income, 200, "sale", "Sales")
	record(t, l, core.Income, 120, "repair job", "Services")
	record(t, l, core.Income, 80, "another sale", "Sales")
	record(t, l, core.Expense, 40, "matatu", "Usafiri")
	record(t, l, core.Expense, 60, "airtime", "Simu")

	for _, kind := range []core.Kind{core.Income, core.Expense} {
		var sum int64
		for _, c := range l.ByCategory(kind) {
			sum += c.Amount.Shillings
		}
		tot := l.Totals()
		want := tot.Income.Shillings
		if kind == core.Expense {
			want = tot.Expenses.Shillings
		}
		if sum != want {
			t.Fatalf("%s category sums %d != total %d", kind, sum, want)
		}
	}
}

func TestByCategoryOrdering(t *testing.T) {
	c := newFakeClock()
	l := New(WithClock(c.now))

	record(t, l, core.Expense, 50, "a", "Chakula")
	record(t, l, core.Expense, 200, "b", "Nyumba")
	record(t, l, core.Expense, 50, "c", "Simu")
	record(t, l, core.Expense, 100, "d", "Chakula")

	got := l.ByCategory(core.Expense)
	// Nyumba 200, Chakula 150, Simu 50.
	want := []string{"Nyumba", "Chakula", "Simu"}
	if len(got) != len(want) {
		t.Fatalf("got %d categories, want %d", len(got), len(want))
	}
	for i, name := range want {
		if got[i].Name != name {
			t.Fatalf("position %d = %s, want %s (full: %v)", i, got[i].Name, name, got)
		}
	}
}

func TestByCategoryTieKeepsFirstSeenOrder(t *testing.T) {
	c := newFakeClock()
	l := New(WithClock(c.now))

	record(t, l, core.Expense, 50, "a", "Simu")
	record(t, l, core.Expense, 50, "b", "Chakula")

	got := l.ByCategory(core.Expense)
	if got[0].Name != "Simu" || got[1].Name != "Chakula" {
		t.Fatalf("tie should keep first-seen order, got %v", got)
	}
}

func TestByCategoryCaseSensitive(t *testing.T) {
	c := newFakeClock()
	l := New(WithClock(c.now))

	record(t, l, core.Expense, 10, "a", "food")
	record(t, l, core.Expense, 20, "b", "Food")

	if got := l.ByCategory(core.Expense); len(got) != 2 {
		t.Fatalf("grouping must be case-sensitive, got %v", got)
	}
}

func TestRecordValidationLeavesSetUnchanged(t *testing.T) {
	l := New()

	bads := []core.TransactionInput{
		{Kind: core.Income, Amount: core.Money{Shillings: 0}, Description: "zero"},
		{Kind: core.Income, Amount: core.Money{Shillings: -5}, Description: "negative"},
		{Kind: core.Expense, Amount: core.Money{Shillings: 10}, Description: "   "},
	}
	for i, in := range bads {
		_, err := l.Record(in)
		if err == nil {
			t.Fatalf("case %d: expected validation error", i)
		}
		if !core.IsValidation(err) {
			t.Fatalf("case %d: expected validation error, got %v", i, err)
		}
	}
	if l.Len() != 0 {
		t.Fatalf("invalid records must not append, len = %d", l.Len())
	}
}

func TestCategoryFallback(t *testing.T) {
	l := New()
	tx := record(t, l, core.Expense, 10, "misc", "")
	if tx.Category != core.FallbackCategory {
		t.Fatalf("empty category should fall back to %q, got %q", core.FallbackCategory, tx.Category)
	}
}

func TestFilterByPeriod(t *testing.T) {
	base := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	cur := base.AddDate(0, 0, -40)
	l := New(WithClock(func() time.Time { return cur }))

	record(t, l, core.Expense, 10, "forty days ago", "Old")
	cur = base.AddDate(0, 0, -7) // exactly on the 7-day boundary
	record(t, l, core.Income, 20, "boundary", "Edge")
	cur = base.AddDate(0, 0, -1)
	record(t, l, core.Income, 30, "yesterday", "Fresh")
	cur = base

	if got := l.FilterByPeriod(core.PeriodAll); len(got) != l.Len() {
		t.Fatalf("all returned %d of %d", len(got), l.Len())
	}

	got := l.FilterByPeriod(core.Period7Days)
	if len(got) != 2 {
		t.Fatalf("7days returned %d transactions, want 2 (boundary inclusive)", len(got))
	}
	if got[0].Description != "yesterday" || got[1].Description != "boundary" {
		t.Fatalf("7days order wrong: %v", got)
	}

	if got := l.FilterByPeriod(core.Period90Days); len(got) != 3 {
		t.Fatalf("90days returned %d, want 3", len(got))
	}

	// Restartable: same state, same result.
	again := l.FilterByPeriod(core.Period7Days)
	if len(again) != len(got) {
		t.Fatalf("second call differs: %d vs %d", len(again), len(got))
	}
}

func TestRecentOrderAndLimit(t *testing.T) {
	c := newFakeClock()
	l := New(WithClock(c.now))

	record(t, l, core.Income, 1, "first", "A")
	record(t, l, core.Income, 2, "second", "A")
	record(t, l, core.Income, 3, "third", "A")

	got := l.Recent(5)
	if len(got) != 3 {
		t.Fatalf("Recent(5) on 3 transactions returned %d", len(got))
	}
	for i, want := range []string{"third", "second", "first"} {
		if got[i].Description != want {
			t.Fatalf("Recent order: position %d = %q, want %q", i, got[i].Description, want)
		}
	}

	if got := l.Recent(2); len(got) != 2 || got[0].Description != "third" {
		t.Fatalf("Recent(2) wrong: %v", got)
	}
}

func TestRecencyTieBrokenByInsertionOrder(t *testing.T) {
	ts := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	l := New(WithClock(func() time.Time { return ts }))

	record(t, l, core.Income, 1, "earlier insert", "A")
	record(t, l, core.Income, 2, "later insert", "A")

	got := l.Recent(2)
	if got[0].Description != "later insert" {
		t.Fatalf("equal timestamps: later insertion must sort first, got %v", got)
	}
}
