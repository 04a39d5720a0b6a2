package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Income  Kind = "income"
	Expense Kind = "expense"
)

const (
	SourceVoice  Source = "voice"
	SourcePhoto  Source = "photo"
	SourceManual Source = "manual"
)

// FallbackCategory is assigned when the input carries no category.
// Displayed as "Mingine" in the Swahili locale.
const FallbackCategory = "Other"

type (
	// Kind distinguishes money coming in from money going out.
	Kind string

	// Source records which capture surface produced a transaction.
	// Informational only; aggregation ignores it.
	Source string

	// Money is an amount in whole Kenyan Shillings. KES is rendered with
	// zero decimal places, so there is no minor unit to carry around.
	Money struct {
		Shillings int64
	}

	// TransactionInput is the candidate record a capture surface hands to
	// the ledger on user confirmation.
	TransactionInput struct {
		Kind        Kind
		Amount      Money
		Description string
		Category    string
		Source      Source
	}

	// Transaction is a recorded income or expense event. Immutable once
	// created; the ledger is append-only for the session.
	Transaction struct {
		ID          string
		Kind        Kind
		Amount      Money
		Description string
		Category    string
		CreatedAt   time.Time
		Source      Source

		// Seq is the insertion sequence number. It breaks CreatedAt ties
		// in recency views: later insertion sorts first.
		Seq uint64
	}
)

var (
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrEmptyDescription = errors.New("empty description")
	ErrInvalidKind      = errors.New("invalid transaction kind")
	ErrInvalidSource    = errors.New("invalid capture source")
	ErrLongDescription  = errors.New("description too long (max 200 characters)")
)

// IsValidation reports whether err belongs to the input-validation family.
// Validation failures are local and recoverable: the caller re-prompts.
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidAmount) ||
		errors.Is(err, ErrEmptyDescription) ||
		errors.Is(err, ErrInvalidKind) ||
		errors.Is(err, ErrInvalidSource) ||
		errors.Is(err, ErrLongDescription)
}

func (k Kind) Validate() error {
	switch k {
	case Income, Expense:
		return nil
	default:
		return ErrInvalidKind
	}
}

func (s Source) Validate() error {
	switch s {
	case SourceVoice, SourcePhoto, SourceManual, "":
		return nil
	default:
		return ErrInvalidSource
	}
}

func (m Money) Validate() error {
	if m.Shillings <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// Validate checks the input the way the ledger re-validates it regardless of
// what the capture surface already did: positive amount, non-blank
// description, known kind and source. Category is free text and may be empty;
// the ledger substitutes FallbackCategory.
func (in TransactionInput) Validate() error {
	if err := in.Kind.Validate(); err != nil {
		return err
	}
	if err := in.Amount.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(in.Description) == "" {
		return ErrEmptyDescription
	}
	if len(in.Description) > 200 {
		return ErrLongDescription
	}
	return in.Source.Validate()
}
