package capture

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"bizkash/internal/core"
)

var receiptAmountRe = regexp.MustCompile(`(?i)(?:ksh\.?|kes)?\s*(\d+(?:,\d{3})*(?:\.\d{1,2})?)`)

// PhotoParser interprets text lifted from a receipt photo. It stands in for
// the OCR step: the largest money-looking number on the receipt is the
// amount (receipts list line items before the total), the first line with
// letters that is not a total line becomes the description. Receipts are
// always expenses.
type PhotoParser struct {
	delay time.Duration
}

func NewPhotoParser(delay time.Duration) *PhotoParser {
	return &PhotoParser{delay: delay}
}

func (p *PhotoParser) Kind() core.Source { return core.SourcePhoto }

func (p *PhotoParser) Interpret(ctx context.Context, receiptText string) (core.TransactionInput, error) {
	if err := wait(ctx, p.delay); err != nil {
		return core.TransactionInput{}, err
	}

	if strings.TrimSpace(receiptText) == "" {
		return core.TransactionInput{}, fmt.Errorf("%w: empty receipt text", ErrUnreadable)
	}

	amount, ok := largestAmount(receiptText)
	if !ok {
		return core.TransactionInput{}, fmt.Errorf("%w: no amount on receipt", ErrUnreadable)
	}

	description := guessDescription(receiptText)
	if description == "" {
		description = "Bidhaa za duka"
	}

	return core.TransactionInput{
		Kind:        core.Expense,
		Amount:      amount,
		Description: description,
		Category:    matchCategory(strings.ToLower(receiptText)),
		Source:      core.SourcePhoto,
	}, nil
}

func largestAmount(text string) (core.Money, bool) {
	var best core.Money
	found := false
	for _, m := range receiptAmountRe.FindAllStringSubmatch(text, -1) {
		v, err := core.ParseAmount(m[1])
		if err != nil {
			continue
		}
		if !found || v.Shillings > best.Shillings {
			best = v
			found = true
		}
	}
	return best, found
}

// guessDescription picks the first line that reads like a merchant or item
// name: it has letters and is not a total or amount line.
func guessDescription(text string) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || !hasLetters(line) {
			continue
		}
		lower := strings.ToLower(line)
		if strings.Contains(lower, "total") || strings.Contains(lower, "jumla") {
			continue
		}
		if len(line) > 64 {
			line = line[:64]
		}
		return line
	}
	return ""
}

func hasLetters(s string) bool {
	for _, r := range s {
		if ('A' <= r && r <= 'Z') || ('a' <= r && r <= 'z') {
			return true
		}
	}
	return false
}
