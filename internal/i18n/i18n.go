// Package i18n carries the two display locales the product ships with:
// English and Swahili. Only the labels the service itself emits live here
// (export rows, assistant text); full UI translation is the client's job.
package i18n

import "bizkash/internal/core"

const (
	English Locale = "en"
	Swahili Locale = "sw"
)

// Locale selects the label set used for exported documents.
type Locale string

// Parse falls back to English for anything it does not recognize.
func Parse(s string) Locale {
	if Locale(s) == Swahili {
		return Swahili
	}
	return English
}

// KindLabel returns the localized transaction type label used in exports.
func (l Locale) KindLabel(k core.Kind) string {
	if l == Swahili {
		if k == core.Income {
			return "Mapato"
		}
		return "Matumizi"
	}
	if k == core.Income {
		return "Income"
	}
	return "Expense"
}

// CategoryLabel maps the fallback category to its Swahili display name.
// Every other category is free text and passes through untouched.
func (l Locale) CategoryLabel(category string) string {
	if l == Swahili && category == core.FallbackCategory {
		return "Mingine"
	}
	return category
}

// DateLayout is the time layout used when rendering export dates.
func (l Locale) DateLayout() string {
	if l == Swahili {
		return "02/01/2006"
	}
	return "Jan 2, 2006"
}
