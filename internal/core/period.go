package core

import (
	"fmt"
	"time"
)

const (
	Period7Days  Period = "7days"
	Period30Days Period = "30days"
	Period90Days Period = "90days"
	PeriodAll    Period = "all"
)

// Period is a reporting time window anchored at "now".
type Period string

// ParsePeriod validates a period string from a request. Empty defaults to all.
func ParsePeriod(s string) (Period, error) {
	switch Period(s) {
	case Period7Days, Period30Days, Period90Days, PeriodAll:
		return Period(s), nil
	case "":
		return PeriodAll, nil
	default:
		return "", fmt.Errorf("unknown period %q", s)
	}
}

// Days returns the window length in calendar days, or 0 for all-time.
func (p Period) Days() int {
	switch p {
	case Period7Days:
		return 7
	case Period30Days:
		return 30
	case Period90Days:
		return 90
	default:
		return 0
	}
}

// Cutoff returns the inclusive lower bound for the window: transactions with
// CreatedAt >= cutoff are in. Calendar-day arithmetic, not business days.
// For all-time the zero time is returned, which includes everything.
func (p Period) Cutoff(now time.Time) time.Time {
	d := p.Days()
	if d == 0 {
		return time.Time{}
	}
	return now.AddDate(0, 0, -d)
}

// Contains reports whether t falls inside the window ending at now.
// The boundary is inclusive: a transaction exactly N days old stays in.
func (p Period) Contains(t, now time.Time) bool {
	if p == PeriodAll {
		return true
	}
	return !t.Before(p.Cutoff(now))
}
