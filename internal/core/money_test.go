package core

import "testing"

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in   string
		want int64
		ok   bool
	}{
		{"200", 200, true},
		{"1,200", 1200, true},
		{"1,234,567", 1234567, true},
		{"199.49", 199, true},
		{"199.50", 200, true},
		{"199.5", 200, true},
		{" 50 ", 50, true},
		{"0", 0, false},
		{"0.4", 0, false},
		{"-5", 0, false},
		{"+5", 0, false},
		{"", 0, false},
		{"abc", 0, false},
		{"1.2.3", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if tc.ok && err != nil {
			t.Fatalf("ParseAmount(%q): unexpected error %v", tc.in, err)
		}
		if !tc.ok {
			if err == nil {
				t.Fatalf("ParseAmount(%q): expected error", tc.in)
			}
			continue
		}
		if got.Shillings != tc.want {
			t.Fatalf("ParseAmount(%q) = %d, want %d", tc.in, got.Shillings, tc.want)
		}
	}
}

func TestFormatKES(t *testing.T) {
	cases := []struct {
		in   int64
		want string
	}{
		{0, "KES 0"},
		{200, "KES 200"},
		{1200, "KES 1,200"},
		{1234567, "KES 1,234,567"},
		{-350, "-KES 350"},
	}
	for _, tc := range cases {
		if got := (Money{Shillings: tc.in}).FormatKES(); got != tc.want {
			t.Fatalf("FormatKES(%d) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestMoneyArithmetic(t *testing.T) {
	in := Money{Shillings: 200}
	out := Money{Shillings: 350}
	profit := in.Sub(out)
	if profit.Shillings != -150 || !profit.IsNegative() {
		t.Fatalf("expected loss of 150, got %d", profit.Shillings)
	}
	if in.Add(out).Shillings != 550 {
		t.Fatalf("unexpected sum")
	}
}
