// Package assistant answers chat messages with scripted business insights
// computed from live ledger figures. Routing is plain keyword matching; the
// replies are canned text with the numbers filled in.
package assistant

import (
	"fmt"
	"strings"
	"sync/atomic"

	"bizkash/internal/core"
	"bizkash/internal/ledger"
)

const Greeting = "Hello! I'm your business assistant. I can help you analyze your transactions, answer questions about your finances, or provide business insights. How can I help you today?"

var tips = []string{
	"Track every transaction, no matter how small - it all adds up!",
	"Review your expenses weekly to identify unnecessary costs.",
	"Set aside 20% of your income for emergencies and growth.",
	"Consider separate accounts for business and personal expenses.",
	"Use categories to better understand where your money goes.",
}

// Responder produces one reply per user message over the shared ledger.
type Responder struct {
	ledger  *ledger.Ledger
	tipNext uint64
}

func New(l *ledger.Ledger) *Responder {
	return &Responder{ledger: l}
}

// Reply routes the message to the first matching topic. Figures are computed
// at reply time, so the answer always reflects the current ledger.
func (r *Responder) Reply(msg string) string {
	lower := strings.ToLower(msg)

	switch {
	case strings.Contains(lower, "profit") || strings.Contains(lower, "revenue"):
		return r.profitReply()
	case strings.Contains(lower, "expense") || strings.Contains(lower, "spending"):
		return r.expenseReply()
	case strings.Contains(lower, "advice") || strings.Contains(lower, "tip"):
		return r.nextTip()
	case strings.Contains(lower, "hello") || strings.Contains(lower, "hi"):
		return "Hello! I'm here to help you with your business finances. You can ask me about your profit, expenses, income, or request business advice."
	default:
		return "I can help you analyze your transactions and provide business insights. Try asking me about your profit, expenses, or request some business advice!"
	}
}

func (r *Responder) profitReply() string {
	tot := r.ledger.Totals()
	verdict := "Consider reviewing your expenses to improve profitability."
	if tot.Profit.Shillings > 0 {
		verdict = "Great job! Your business is profitable."
	}
	return fmt.Sprintf(
		"Based on your current transactions, you have:\n• Total Income: %s\n• Total Expenses: %s\n• Net Profit: %s\n\n%s",
		tot.Income.FormatKES(), tot.Expenses.FormatKES(), tot.Profit.FormatKES(), verdict)
}

func (r *Responder) expenseReply() string {
	tot := r.ledger.Totals()
	reply := fmt.Sprintf("Your total expenses are %s.", tot.Expenses.FormatKES())
	if byCat := r.ledger.ByCategory(core.Expense); len(byCat) > 0 {
		top := byCat[0]
		reply += fmt.Sprintf(" Your highest expense category is %q with %s.", top.Name, top.Amount.FormatKES())
	}
	return reply + " Consider tracking categories to identify cost-saving opportunities."
}

// nextTip rotates through the tip list so repeated asks get fresh advice.
func (r *Responder) nextTip() string {
	n := atomic.AddUint64(&r.tipNext, 1) - 1
	return tips[n%uint64(len(tips))]
}
