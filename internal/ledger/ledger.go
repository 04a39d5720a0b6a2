// Package ledger owns the append-only transaction set for a session and
// derives every reported figure from it. Aggregates are always recomputed
// from the full set on read; with session-scale volumes the O(n) walk per
// report is the intended baseline, and it keeps totals impossible to drift
// out of sync with the data.
package ledger

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"bizkash/internal/core"
)

// Filter restricts which transactions an aggregate read considers.
type Filter func(core.Transaction) bool

// InPeriod keeps transactions inside the reporting window ending at now.
func InPeriod(p core.Period, now time.Time) Filter {
	return func(t core.Transaction) bool {
		return p.Contains(t.CreatedAt, now)
	}
}

// Option configures a Ledger at construction.
type Option func(*Ledger)

// WithClock substitutes the time source. Tests use it; production code
// sticks with time.Now.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

// Ledger is the in-memory transaction set. Single-writer in practice (one
// session, one pending capture at a time) but handlers share it, so reads
// and writes are guarded anyway.
type Ledger struct {
	mu    sync.RWMutex
	items []core.Transaction
	seq   uint64
	now   func() time.Time
}

func New(opts ...Option) *Ledger {
	l := &Ledger{now: time.Now}
	for _, o := range opts {
		o(l)
	}
	return l
}

// Record validates the candidate and appends it as a new transaction with a
// generated ID and the current timestamp. An invalid input never appends:
// validation failure leaves the set untouched and the caller re-prompts.
func (l *Ledger) Record(in core.TransactionInput) (core.Transaction, error) {
	if err := in.Validate(); err != nil {
		return core.Transaction{}, err
	}

	category := strings.TrimSpace(in.Category)
	if category == "" {
		category = core.FallbackCategory
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.seq++
	t := core.Transaction{
		ID:          uuid.NewString(),
		Kind:        in.Kind,
		Amount:      in.Amount,
		Description: strings.TrimSpace(in.Description),
		Category:    category,
		CreatedAt:   l.now(),
		Source:      in.Source,
		Seq:         l.seq,
	}
	l.items = append(l.items, t)
	return t, nil
}

// Restore re-inserts a previously persisted transaction, keeping its
// original ID and timestamp. Used only when rehydrating from storage at
// startup; it bypasses the clock but not validation of ordering state.
func (l *Ledger) Restore(t core.Transaction) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.seq++
	t.Seq = l.seq
	l.items = append(l.items, t)
}

// Len returns the number of recorded transactions.
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.items)
}

// Totals recomputes income, expenses and profit over the (optionally
// filtered) set. An empty set yields zeros; profit = income - expenses and
// may be negative.
func (l *Ledger) Totals(filters ...Filter) core.Totals {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var tot core.Totals
	for _, t := range l.items {
		if !matches(t, filters) {
			continue
		}
		switch t.Kind {
		case core.Income:
			tot.Income = tot.Income.Add(t.Amount)
		case core.Expense:
			tot.Expenses = tot.Expenses.Add(t.Amount)
		}
	}
	tot.Profit = tot.Income.Sub(tot.Expenses)
	return tot
}

// ByCategory sums amounts of the given kind grouped by the literal category
// string (case-sensitive, no normalization). Result is ordered by summed
// amount descending; ties keep first-seen category order.
func (l *Ledger) ByCategory(kind core.Kind, filters ...Filter) []core.CategoryAmount {
	l.mu.RLock()
	defer l.mu.RUnlock()

	sums := make(map[string]int64)
	var order []string
	for _, t := range l.items {
		if t.Kind != kind || !matches(t, filters) {
			continue
		}
		if _, seen := sums[t.Category]; !seen {
			order = append(order, t.Category)
		}
		sums[t.Category] += t.Amount.Shillings
	}

	out := make([]core.CategoryAmount, 0, len(order))
	for _, name := range order {
		out = append(out, core.CategoryAmount{Name: name, Amount: core.Money{Shillings: sums[name]}})
	}
	// Stable sort preserves first-seen order between equal sums.
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Amount.Shillings > out[j].Amount.Shillings
	})
	return out
}

// FilterByPeriod returns the transactions inside the window, newest first.
// Pure function of current state and the clock: calling it again on an
// unchanged ledger yields the same sequence.
func (l *Ledger) FilterByPeriod(p core.Period) []core.Transaction {
	return l.snapshot(InPeriod(p, l.now()))
}

// Recent returns up to limit transactions, most recent first. A limit beyond
// the set size just returns everything; a non-positive limit returns nil.
func (l *Ledger) Recent(limit int) []core.Transaction {
	if limit <= 0 {
		return nil
	}
	items := l.snapshot()
	if len(items) > limit {
		items = items[:limit]
	}
	return items
}

// All returns every transaction, newest first.
func (l *Ledger) All() []core.Transaction {
	return l.snapshot()
}

// Count returns how many transactions of the given kind pass the filters.
func (l *Ledger) Count(kind core.Kind, filters ...Filter) int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	n := 0
	for _, t := range l.items {
		if t.Kind == kind && matches(t, filters) {
			n++
		}
	}
	return n
}

// snapshot copies the matching transactions and orders them by the recency
// rule: CreatedAt descending, ties broken by later insertion first. Callers
// get their own slice; returned values must never be mutated by display
// surfaces, and handing out copies enforces that for the ledger's own state.
func (l *Ledger) snapshot(filters ...Filter) []core.Transaction {
	l.mu.RLock()
	out := make([]core.Transaction, 0, len(l.items))
	for _, t := range l.items {
		if matches(t, filters) {
			out = append(out, t)
		}
	}
	l.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].Seq > out[j].Seq
	})
	return out
}

func matches(t core.Transaction, filters []Filter) bool {
	for _, f := range filters {
		if !f(t) {
			return false
		}
	}
	return true
}
