package types

import "testing"

func TestTaxRateConstructors(t *testing.T) {
	if Percent(10).BasisPoints() != 1000 {
		t.Errorf("Percent(10): got %d bps, want 1000", Percent(10).BasisPoints())
	}
	if BasisPoints(825).BasisPoints() != 825 {
		t.Errorf("BasisPoints(825): got %d", BasisPoints(825).BasisPoints())
	}
}

func TestTaxRateValid(t *testing.T) {
	tests := []struct {
		rate  TaxRate
		valid bool
	}{
		{Percent(0), true},
		{Percent(10), true},
		{Percent(100), true},
		{Percent(101), false},
		{BasisPoints(-1), false},
	}

	for _, tt := range tests {
		if got := tt.rate.Valid(); got != tt.valid {
			t.Errorf("Valid(%s): got %v, want %v", tt.rate, got, tt.valid)
		}
	}
}

func TestTaxRateApply(t *testing.T) {
	tests := []struct {
		name     string
		rate     TaxRate
		amount   Money
		expected Money
	}{
		{"10% of $200", Percent(10), USD(20000), USD(2000)},
		{"5% of $200", Percent(5), USD(20000), USD(1000)},
		{"8% of $450", Percent(8), USD(45000), USD(3600)},
		{"0% of anything", Percent(0), USD(12345), USD(0)},
		{"rounds half up", BasisPoints(825), USD(103), USD(8)}, // 8.4975 cents
		{"rounds down below half", Percent(3), USD(110), USD(3)}, // 3.3 cents
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.rate.Apply(tt.amount)
			if !got.Equal(tt.expected) {
				t.Errorf("got %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestTaxRateString(t *testing.T) {
	tests := []struct {
		rate     TaxRate
		expected string
	}{
		{Percent(10), "10%"},
		{Percent(0), "0%"},
		{BasisPoints(825), "8.25%"},
		{BasisPoints(550), "5.5%"},
	}

	for _, tt := range tests {
		if got := tt.rate.String(); got != tt.expected {
			t.Errorf("String(%d): got %q, want %q", tt.rate.BasisPoints(), got, tt.expected)
		}
	}
}
