package currency

import (
	"math"
	"testing"
)

func TestRound(t *testing.T) {
	usd := LookupOrDefault("USD")
	jpy := LookupOrDefault("JPY")

	tests := []struct {
		name     string
		cfg      Config
		in       float64
		expected float64
	}{
		{"two places down", usd, 3.333333, 3.33},
		{"two places up", usd, 3.336, 3.34},
		{"already exact", usd, 50.00, 50.00},
		{"float drift", usd, 0.1 + 0.2, 0.30},
		{"negative", usd, -3.336, -3.34},
		{"zero places", jpy, 100.4, 100},
		{"zero places up", jpy, 100.5, 101},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.cfg.Round(tt.in)
			if math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("Round(%v) = %v, want %v", tt.in, got, tt.expected)
			}
		})
	}
}

func TestSmallestIncrement(t *testing.T) {
	if got := LookupOrDefault("USD").SmallestIncrement(); got != 0.01 {
		t.Errorf("USD increment = %v, want 0.01", got)
	}
	if got := LookupOrDefault("JPY").SmallestIncrement(); got != 1 {
		t.Errorf("JPY increment = %v, want 1", got)
	}
}

func TestMinorUnits(t *testing.T) {
	usd := LookupOrDefault("USD")
	tests := []struct {
		in       float64
		expected int64
	}{
		{10.00, 1000},
		{3.34, 334},
		{-0.01, -1},
		{0.1 + 0.2, 30},
	}
	for _, tt := range tests {
		if got := usd.MinorUnits(tt.in); got != tt.expected {
			t.Errorf("MinorUnits(%v) = %d, want %d", tt.in, got, tt.expected)
		}
	}
}

func TestLookup(t *testing.T) {
	if _, ok := Lookup("eur"); !ok {
		t.Error("expected case-insensitive lookup to succeed")
	}
	if _, ok := Lookup("XXX"); ok {
		t.Error("expected unknown code to fail")
	}
	if got := LookupOrDefault(""); got.Code != "USD" {
		t.Errorf("fallback currency = %s, want USD", got.Code)
	}
}
