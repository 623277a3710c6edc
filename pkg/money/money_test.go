package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

func TestFormatUGX_Grouping(t *testing.T) {
	got := FormatUGX(decimal.NewFromInt(1500000))
	want := "UGX 1,500,000"
	if got != want {
		t.Errorf("FormatUGX = %q, want %q", got, want)
	}
}

func TestFormatUGX_RoundsFractions(t *testing.T) {
	got := FormatUGX(decimal.RequireFromString("2500.75"))
	want := "UGX 2,501"
	if got != want {
		t.Errorf("FormatUGX = %q, want %q", got, want)
	}
}

func TestFormatUGX_Zero(t *testing.T) {
	if got := FormatUGX(decimal.Zero); got != "UGX 0" {
		t.Errorf("FormatUGX(0) = %q", got)
	}
}

func TestFormat_FractionalCurrency(t *testing.T) {
	got := Format(currency.USD, decimal.RequireFromString("1234.5"))
	want := "USD 1,234.50"
	if got != want {
		t.Errorf("Format = %q, want %q", got, want)
	}
}

func TestFormatPercent(t *testing.T) {
	got := FormatPercent(decimal.NewFromInt(1), decimal.NewFromInt(8))
	if got != "12.5%" {
		t.Errorf("FormatPercent = %q, want 12.5%%", got)
	}
}

func TestFormatPercent_ZeroDenominator(t *testing.T) {
	if got := FormatPercent(decimal.NewFromInt(5), decimal.Zero); got != Dash {
		t.Errorf("expected placeholder for zero denominator, got %q", got)
	}
}
