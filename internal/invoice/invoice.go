// Package invoice keeps the session's invoice book: sequential numbers,
// simple status lifecycle, headline totals.
package invoice

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"bizkash/internal/core"
)

type Status string

const (
	StatusDraft   Status = "draft"
	StatusSent    Status = "sent"
	StatusPaid    Status = "paid"
	StatusOverdue Status = "overdue"
)

var (
	ErrEmptyClient   = errors.New("invoice: client is required")
	ErrNotFound      = errors.New("invoice: not found")
	ErrUnknownStatus = errors.New("invoice: unknown status")
)

func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusDraft, StatusSent, StatusPaid, StatusOverdue:
		return Status(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStatus, s)
}

type Invoice struct {
	ID        string
	Number    string
	Client    string
	Amount    core.Money
	Status    Status
	DueDate   time.Time
	CreatedAt time.Time
}

// Summary is the headline card over the whole book.
type Summary struct {
	TotalInvoiced core.Money
	TotalPaid     core.Money
	Outstanding   core.Money
	Count         int
}

// Book holds the invoices for one session. New invoices start as drafts and
// get the next number in the INV-001 sequence.
type Book struct {
	mu    sync.RWMutex
	items []Invoice
	now   func() time.Time
}

type Option func(*Book)

func WithClock(now func() time.Time) Option {
	return func(b *Book) { b.now = now }
}

func New(opts ...Option) *Book {
	b := &Book{now: time.Now}
	for _, o := range opts {
		o(b)
	}
	return b
}

func (b *Book) Create(client string, amount core.Money, dueDate time.Time) (Invoice, error) {
	client = strings.TrimSpace(client)
	if client == "" {
		return Invoice{}, ErrEmptyClient
	}
	if err := amount.Validate(); err != nil {
		return Invoice{}, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	inv := Invoice{
		ID:        uuid.NewString(),
		Number:    fmt.Sprintf("INV-%03d", len(b.items)+1),
		Client:    client,
		Amount:    amount,
		Status:    StatusDraft,
		DueDate:   dueDate,
		CreatedAt: b.now(),
	}
	b.items = append(b.items, inv)
	return inv, nil
}

// SetStatus moves an invoice to the given status. The lifecycle is advisory;
// any transition is allowed, matching how owners actually use the book.
func (b *Book) SetStatus(id string, status Status) (Invoice, error) {
	if _, err := ParseStatus(string(status)); err != nil {
		return Invoice{}, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.items {
		if b.items[i].ID == id {
			b.items[i].Status = status
			return b.items[i], nil
		}
	}
	return Invoice{}, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// List returns all invoices, newest first.
func (b *Book) List() []Invoice {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]Invoice, len(b.items))
	for i, inv := range b.items {
		out[len(b.items)-1-i] = inv
	}
	return out
}

func (b *Book) Summary() Summary {
	b.mu.RLock()
	defer b.mu.RUnlock()
	s := Summary{Count: len(b.items)}
	for _, inv := range b.items {
		s.TotalInvoiced = s.TotalInvoiced.Add(inv.Amount)
		if inv.Status == StatusPaid {
			s.TotalPaid = s.TotalPaid.Add(inv.Amount)
		}
	}
	s.Outstanding = s.TotalInvoiced.Sub(s.TotalPaid)
	return s
}
