package core

// Totals is the headline income/expense/profit figure set. Profit may be
// negative; a loss is expected business reality, not an error.
type Totals struct {
	Income   Money
	Expenses Money
	Profit   Money
}

// CategoryAmount is an amount aggregated under one category label.
// Grouping is by the literal string, case-sensitive, no normalization.
type CategoryAmount struct {
	Name   string
	Amount Money
}

// Share returns this category's fraction of total as a percentage in
// [0,100]. Defined as 0 when total is zero to avoid division by zero.
func (c CategoryAmount) Share(total Money) float64 {
	if total.Shillings == 0 {
		return 0
	}
	return float64(c.Amount.Shillings) / float64(total.Shillings) * 100
}
