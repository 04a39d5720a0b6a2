package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"bizkash/internal/auth"
	"bizkash/internal/capture"
	"bizkash/internal/core"
	"bizkash/internal/export"
	"bizkash/internal/i18n"
	"bizkash/internal/invoice"
)

// amountField accepts the amount as either a JSON number or a string like
// "1,200", matching what the capture surfaces hand back.
type amountField string

func (a *amountField) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if len(s) >= 2 && s[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*a = amountField(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*a = amountField(n.String())
	return nil
}

type transactionJSON struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	Amount      int64  `json:"amount"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Source      string `json:"source,omitempty"`
	CreatedAt   string `json:"created_at"`
}

func toTransactionJSON(t core.Transaction) transactionJSON {
	return transactionJSON{
		ID:          t.ID,
		Type:        string(t.Kind),
		Amount:      t.Amount.Shillings,
		Description: t.Description,
		Category:    t.Category,
		Source:      string(t.Source),
		CreatedAt:   t.CreatedAt.Format(time.RFC3339),
	}
}

type candidateJSON struct {
	Type        string `json:"type"`
	Amount      int64  `json:"amount"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Source      string `json:"source"`
}

func toCandidateJSON(in core.TransactionInput) candidateJSON {
	return candidateJSON{
		Type:        string(in.Kind),
		Amount:      in.Amount.Shillings,
		Description: in.Description,
		Category:    in.Category,
		Source:      string(in.Source),
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Failed to encode response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}

// writeDomainError maps validation failures to 422 and everything else to
// 500. Validation is local and non-fatal; the client fixes the input and
// tries again.
func (s *Server) writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case core.IsValidation(err):
		s.writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, capture.ErrUnreadable):
		s.writeJSON(w, http.StatusUnprocessableEntity, map[string]string{
			"error": err.Error(),
			"hint":  "could not read the input, please use the manual entry form",
		})
	default:
		s.logger.Error("Request failed", "url", r.URL.Path, "error", err)
		s.writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func methodNotAllowed(w http.ResponseWriter, allow string) {
	w.Header().Set("Allow", allow)
	w.WriteHeader(http.StatusMethodNotAllowed)
}

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}

	var req struct {
		Type        string      `json:"type"`
		Amount      amountField `json:"amount"`
		Description string      `json:"description"`
		Category    string      `json:"category"`
		Source      string      `json:"source"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	in, err := s.deps.Manual.Parse(capture.ManualForm{
		Kind:        req.Type,
		Amount:      string(req.Amount),
		Description: req.Description,
		Category:    req.Category,
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	if src := core.Source(strings.TrimSpace(req.Source)); src != "" {
		if err := src.Validate(); err != nil {
			s.writeDomainError(w, r, err)
			return
		}
		in.Source = src
	}

	t, err := s.deps.Recorder.Record(in)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	s.recordedTotal.Add(1)
	s.reportCache.Purge()
	s.writeJSON(w, http.StatusCreated, toTransactionJSON(t))
}

func (s *Server) handleCaptureVoice(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}
	var req struct {
		Transcript string `json:"transcript"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	in, err := s.deps.Voice.Interpret(r.Context(), req.Transcript)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	s.captureTotal.Add(1)
	s.writeJSON(w, http.StatusOK, toCandidateJSON(in))
}

func (s *Server) handleCapturePhoto(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}
	var req struct {
		ReceiptText string `json:"receipt_text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	in, err := s.deps.Photo.Interpret(r.Context(), req.ReceiptText)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	s.captureTotal.Add(1)
	s.writeJSON(w, http.StatusOK, toCandidateJSON(in))
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	tot := s.deps.Ledger.Totals()
	s.writeJSON(w, http.StatusOK, map[string]any{
		"income":             tot.Income.Shillings,
		"expenses":           tot.Expenses.Shillings,
		"profit":             tot.Profit.Shillings,
		"income_formatted":   tot.Income.FormatKES(),
		"expenses_formatted": tot.Expenses.FormatKES(),
		"profit_formatted":   tot.Profit.FormatKES(),
	})
}

type categoryJSON struct {
	Name    string  `json:"name"`
	Amount  int64   `json:"amount"`
	Percent float64 `json:"percent"`
}

func toCategoryJSON(items []core.CategoryAmount, total core.Money) []categoryJSON {
	out := make([]categoryJSON, 0, len(items))
	for _, c := range items {
		out = append(out, categoryJSON{
			Name:    c.Name,
			Amount:  c.Amount.Shillings,
			Percent: c.Share(total),
		})
	}
	return out
}

func (s *Server) handleReports(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	period, err := core.ParsePeriod(r.URL.Query().Get("period"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	report, found := s.reportCache.Get(string(period))
	if !found {
		report = s.deps.Ledger.ReportForPeriod(period)
		s.reportCache.Set(string(period), report)
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"period": string(report.Period),
		"totals": map[string]int64{
			"income":   report.Totals.Income.Shillings,
			"expenses": report.Totals.Expenses.Shillings,
			"profit":   report.Totals.Profit.Shillings,
		},
		"income_by_category":   toCategoryJSON(report.IncomeByCategory, report.Totals.Income),
		"expenses_by_category": toCategoryJSON(report.ExpensesByCategory, report.Totals.Expenses),
		"transaction_count":    report.TransactionCount,
		"income_count":         report.IncomeCount,
		"expense_count":        report.ExpenseCount,
		"average_amount":       report.AverageAmount.Shillings,
	})
}

func (s *Server) handleRecent(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	limit := 5
	if v := strings.TrimSpace(r.URL.Query().Get("limit")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			s.writeError(w, http.StatusBadRequest, "limit must be a positive number")
			return
		}
		limit = n
	}

	items := s.deps.Ledger.Recent(limit)
	out := make([]transactionJSON, 0, len(items))
	for _, t := range items {
		out = append(out, toTransactionJSON(t))
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"transactions": out})
}

func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	locale := s.deps.Locale
	if v := r.URL.Query().Get("locale"); v != "" {
		locale = i18n.Parse(v)
	}

	rows := s.deps.Ledger.ExportRows(locale)
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=bizkash-transactions-%s.csv", time.Now().Format("2006-01-02")))
	if err := export.WriteCSV(w, rows); err != nil {
		s.logger.Error("CSV export failed", "error", err)
	}
}

func (s *Server) handleInvoices(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		invoices := s.deps.Invoices.List()
		out := make([]invoiceJSON, 0, len(invoices))
		for _, inv := range invoices {
			out = append(out, toInvoiceJSON(inv))
		}
		summary := s.deps.Invoices.Summary()
		s.writeJSON(w, http.StatusOK, map[string]any{
			"invoices": out,
			"summary": map[string]any{
				"total_invoiced": summary.TotalInvoiced.Shillings,
				"total_paid":     summary.TotalPaid.Shillings,
				"outstanding":    summary.Outstanding.Shillings,
				"count":          summary.Count,
			},
		})

	case http.MethodPost:
		var req struct {
			Client  string      `json:"client"`
			Amount  amountField `json:"amount"`
			DueDate string      `json:"due_date"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		amount, err := core.ParseAmount(string(req.Amount))
		if err != nil {
			s.writeDomainError(w, r, err)
			return
		}
		due, err := time.Parse("2006-01-02", req.DueDate)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, "due_date must be YYYY-MM-DD")
			return
		}
		inv, err := s.deps.Invoices.Create(req.Client, amount, due)
		if err != nil {
			if errors.Is(err, invoice.ErrEmptyClient) {
				s.writeError(w, http.StatusUnprocessableEntity, err.Error())
				return
			}
			s.writeDomainError(w, r, err)
			return
		}
		s.writeJSON(w, http.StatusCreated, toInvoiceJSON(inv))

	default:
		methodNotAllowed(w, "GET, POST")
	}
}

func (s *Server) handleInvoiceStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}
	var req struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	status, err := invoice.ParseStatus(req.Status)
	if err != nil {
		s.writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	inv, err := s.deps.Invoices.SetStatus(req.ID, status)
	if err != nil {
		if errors.Is(err, invoice.ErrNotFound) {
			s.writeError(w, http.StatusNotFound, err.Error())
			return
		}
		s.writeDomainError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toInvoiceJSON(inv))
}

type invoiceJSON struct {
	ID        string `json:"id"`
	Number    string `json:"number"`
	Client    string `json:"client"`
	Amount    int64  `json:"amount"`
	Status    string `json:"status"`
	DueDate   string `json:"due_date"`
	CreatedAt string `json:"created_at"`
}

func toInvoiceJSON(inv invoice.Invoice) invoiceJSON {
	return invoiceJSON{
		ID:        inv.ID,
		Number:    inv.Number,
		Client:    inv.Client,
		Amount:    inv.Amount.Shillings,
		Status:    string(inv.Status),
		DueDate:   inv.DueDate.Format("2006-01-02"),
		CreatedAt: inv.CreatedAt.Format(time.RFC3339),
	}
}

func (s *Server) handleSignIn(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	u, err := s.deps.Auth.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrEmptyEmail) {
			s.writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		s.writeDomainError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, u)
}

func (s *Server) handleSignUp(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}
	var req struct {
		Email        string `json:"email"`
		Password     string `json:"password"`
		FirstName    string `json:"first_name"`
		LastName     string `json:"last_name"`
		BusinessName string `json:"business_name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	u, err := s.deps.Auth.SignUp(r.Context(), req.Email, req.Password, auth.Metadata{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		BusinessName: req.BusinessName,
	})
	if err != nil {
		if errors.Is(err, auth.ErrEmptyEmail) {
			s.writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		s.writeDomainError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, u)
}

func (s *Server) handleSignOut(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}
	if err := s.deps.Auth.SignOut(); err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	u := s.deps.Auth.CurrentUser()
	if u == nil {
		s.writeError(w, http.StatusUnauthorized, "not signed in")
		return
	}
	s.writeJSON(w, http.StatusOK, u)
}
