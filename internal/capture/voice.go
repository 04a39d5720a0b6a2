package capture

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"bizkash/internal/core"
)

var (
	incomeKeywords  = []string{"nilipata", "nimepokea", "mapato", "uuzaji", "received", "earned", "income", "sale"}
	expenseKeywords = []string{"nilitumia", "niliuza", "matumizi", "nililipa", "spent", "bought", "paid", "expense"}

	// Ordered: the first matching group wins.
	categoryRules = []struct {
		name     string
		keywords []string
	}{
		{"Chakula", []string{"chakula", "nyama", "mboga", "food", "vegetables", "meat"}},
		{"Usafiri", []string{"matatu", "basi", "pikipiki", "transport", "bus", "taxi"}},
		{"Biashara", []string{"biashara", "duka", "uuzaji", "business", "shop", "stock"}},
		{"Nyumba", []string{"kodi", "nyumba", "rent", "house", "home"}},
		{"Simu", []string{"airtime", "mabundles", "simu", "phone", "data"}},
	}

	amountRe = regexp.MustCompile(`\d+(?:,\d{3})*(?:\.\d{2})?`)
)

// VoiceParser interprets a Swahili or English voice transcript. It stands in
// for the speech pipeline: keyword rules pick the kind and category, the
// first number in the transcript is the amount.
type VoiceParser struct {
	delay time.Duration
}

func NewVoiceParser(delay time.Duration) *VoiceParser {
	return &VoiceParser{delay: delay}
}

func (p *VoiceParser) Kind() core.Source { return core.SourceVoice }

func (p *VoiceParser) Interpret(ctx context.Context, transcript string) (core.TransactionInput, error) {
	if err := wait(ctx, p.delay); err != nil {
		return core.TransactionInput{}, err
	}

	transcript = strings.TrimSpace(transcript)
	if transcript == "" {
		return core.TransactionInput{}, fmt.Errorf("%w: empty transcript", ErrUnreadable)
	}
	lower := strings.ToLower(transcript)

	kind := core.Expense
	if containsAny(lower, incomeKeywords) {
		kind = core.Income
	}

	raw := amountRe.FindString(transcript)
	if raw == "" {
		return core.TransactionInput{}, fmt.Errorf("%w: no amount in transcript", ErrUnreadable)
	}
	amount, err := core.ParseAmount(raw)
	if err != nil {
		return core.TransactionInput{}, err
	}

	description := strings.TrimSpace(strings.Replace(transcript, raw, "", 1))
	description = strings.Join(strings.Fields(description), " ")
	if description == "" {
		label := "Matumizi"
		if kind == core.Income {
			label = "Mapato"
		}
		description = fmt.Sprintf("%s ya %d", label, amount.Shillings)
	}

	return core.TransactionInput{
		Kind:        kind,
		Amount:      amount,
		Description: description,
		Category:    matchCategory(lower),
		Source:      core.SourceVoice,
	}, nil
}

// matchCategory returns the first rule group with a keyword hit, or empty so
// the ledger's fallback applies.
func matchCategory(lower string) string {
	for _, rule := range categoryRules {
		if containsAny(lower, rule.keywords) {
			return rule.name
		}
	}
	return ""
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}
