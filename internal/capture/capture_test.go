package capture

import (
	"context"
	"errors"
	"testing"
	"time"

	"bizkash/internal/core"
)

func TestVoiceParserSwahili(t *testing.T) {
	p := NewVoiceParser(0)

	tests := []struct {
		name       string
		transcript string
		kind       core.Kind
		amount     int64
		category   string
	}{
		{"income sale", "Nilipata shilingi 200 kutoka uuzaji wa mboga", core.Income, 200, "Chakula"},
		{"expense food", "Nilitumia 50 kwa chakula", core.Expense, 50, "Chakula"},
		{"transport", "Nililipa 80 kwa matatu", core.Expense, 80, "Usafiri"},
		{"rent", "Nililipa kodi 5,000", core.Expense, 5000, "Nyumba"},
		{"airtime english", "bought airtime for 100", core.Expense, 100, "Simu"},
		{"english income", "received 1,500 from the shop", core.Income, 1500, "Biashara"},
		{"no keywords defaults expense", "shilingi 40 kitu fulani", core.Expense, 40, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := p.Interpret(context.Background(), tt.transcript)
			if err != nil {
				t.Fatalf("Interpret: %v", err)
			}
			if got.Kind != tt.kind {
				t.Errorf("kind = %s, want %s", got.Kind, tt.kind)
			}
			if got.Amount.Shillings != tt.amount {
				t.Errorf("amount = %d, want %d", got.Amount.Shillings, tt.amount)
			}
			if got.Category != tt.category {
				t.Errorf("category = %q, want %q", got.Category, tt.category)
			}
			if got.Source != core.SourceVoice {
				t.Errorf("source = %q", got.Source)
			}
		})
	}
}

func TestVoiceParserDescription(t *testing.T) {
	p := NewVoiceParser(0)

	got, err := p.Interpret(context.Background(), "Nilipata 200 kutoka uuzaji")
	if err != nil {
		t.Fatal(err)
	}
	if got.Description != "Nilipata kutoka uuzaji" {
		t.Fatalf("description = %q", got.Description)
	}

	// Transcript that is only an amount falls back to a generated label.
	got, err = p.Interpret(context.Background(), "250")
	if err != nil {
		t.Fatal(err)
	}
	if got.Description != "Matumizi ya 250" {
		t.Fatalf("fallback description = %q", got.Description)
	}
}

func TestVoiceParserUnreadable(t *testing.T) {
	p := NewVoiceParser(0)

	for _, transcript := range []string{"", "   ", "hakuna nambari hapa"} {
		_, err := p.Interpret(context.Background(), transcript)
		if !errors.Is(err, ErrUnreadable) {
			t.Fatalf("transcript %q: err = %v, want ErrUnreadable", transcript, err)
		}
	}
}

func TestVoiceParserHonorsContext(t *testing.T) {
	p := NewVoiceParser(time.Minute)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Interpret(ctx, "Nilitumia 50 kwa chakula")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestPhotoParser(t *testing.T) {
	p := NewPhotoParser(0)

	receipt := "Duka la Mama Njeri\nmboga 120\nnyama 430\nJUMLA KSh 550"
	got, err := p.Interpret(context.Background(), receipt)
	if err != nil {
		t.Fatal(err)
	}
	if got.Kind != core.Expense {
		t.Errorf("kind = %s, want expense", got.Kind)
	}
	if got.Amount.Shillings != 550 {
		t.Errorf("amount = %d, want the receipt total 550", got.Amount.Shillings)
	}
	if got.Description != "Duka la Mama Njeri" {
		t.Errorf("description = %q", got.Description)
	}
	if got.Category != "Chakula" {
		t.Errorf("category = %q, want Chakula", got.Category)
	}
	if got.Source != core.SourcePhoto {
		t.Errorf("source = %q", got.Source)
	}
}

func TestPhotoParserSkipsTotalLineForDescription(t *testing.T) {
	p := NewPhotoParser(0)

	got, err := p.Interpret(context.Background(), "TOTAL 900\nHardware supplies\n900")
	if err != nil {
		t.Fatal(err)
	}
	if got.Description != "Hardware supplies" {
		t.Fatalf("description = %q", got.Description)
	}
}

func TestPhotoParserUnreadable(t *testing.T) {
	p := NewPhotoParser(0)

	for _, text := range []string{"", "\n  \n", "no numbers here"} {
		_, err := p.Interpret(context.Background(), text)
		if !errors.Is(err, ErrUnreadable) {
			t.Fatalf("text %q: err = %v, want ErrUnreadable", text, err)
		}
	}
}

func TestManualParserForm(t *testing.T) {
	p := NewManualParser()

	got, err := p.Parse(ManualForm{
		Kind:        "income",
		Amount:      "1,200",
		Description: "  vegetable sale ",
		Category:    "Sales",
	})
	if err != nil {
		t.Fatal(err)
	}
	if got.Kind != core.Income || got.Amount.Shillings != 1200 {
		t.Fatalf("parsed = %+v", got)
	}
	if got.Description != "vegetable sale" {
		t.Fatalf("description not trimmed: %q", got.Description)
	}

	if _, err := p.Parse(ManualForm{Kind: "transfer", Amount: "10", Description: "x"}); !core.IsValidation(err) {
		t.Fatalf("bad kind: err = %v, want validation error", err)
	}
	if _, err := p.Parse(ManualForm{Kind: "expense", Amount: "0", Description: "x"}); !core.IsValidation(err) {
		t.Fatalf("zero amount: err = %v, want validation error", err)
	}
}
