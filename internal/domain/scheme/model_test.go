package scheme

import (
	"testing"
	"time"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestNormalizeCardCode(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{"ABC", "ABC", false},
		{"abc", "ABC", false},
		{" xyz ", "XYZ", false},
		{"ab", "", true},
		{"abcd", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := NormalizeCardCode(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("NormalizeCardCode(%q): expected error", tt.input)
			}
			continue
		}
		if err != nil {
			t.Errorf("NormalizeCardCode(%q): unexpected error: %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("NormalizeCardCode(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestDeriveEndDate_LeapYear(t *testing.T) {
	got := DeriveEndDate(day("2024-01-01"))
	if !got.Equal(day("2025-01-01")) {
		t.Errorf("DeriveEndDate(2024-01-01) = %s, want 2025-01-01", got.Format("2006-01-02"))
	}
}

func TestDeriveStartDate_Symmetric(t *testing.T) {
	got := DeriveStartDate(day("2025-01-01"))
	if !got.Equal(day("2024-01-01")) {
		t.Errorf("DeriveStartDate(2025-01-01) = %s, want 2024-01-01", got.Format("2006-01-02"))
	}
}

func TestDeriveTerminationDate(t *testing.T) {
	got := DeriveTerminationDate(day("2025-01-01"))
	if !got.Equal(day("2025-01-02")) {
		t.Errorf("DeriveTerminationDate(2025-01-01) = %s, want 2025-01-02", got.Format("2006-01-02"))
	}
}

func TestClassifyExpiry(t *testing.T) {
	now := day("2025-06-01")
	tests := []struct {
		name string
		end  time.Time
		want ExpiryStatus
	}{
		{"fifteen days left", now.AddDate(0, 0, 15), ExpiryExpiringSoon},
		{"thirty days left", now.AddDate(0, 0, 30), ExpiryExpiringSoon},
		{"thirtyone days left", now.AddDate(0, 0, 31), ExpiryApproaching},
		{"ninety days left", now.AddDate(0, 0, 90), ExpiryApproaching},
		{"far out", now.AddDate(0, 0, 91), ExpiryHealthy},
		{"ended yesterday", now.AddDate(0, 0, -1), ExpiryExpired},
		{"ends today", now, ExpiryExpiringSoon},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &SchemePeriod{EndDate: tt.end}
			if got := ClassifyExpiry(p, now); got != tt.want {
				t.Errorf("ClassifyExpiry = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestClassifyExpiry_NoPeriod(t *testing.T) {
	got := ClassifyExpiry(nil, time.Now())
	if got != ExpiryUnknown {
		t.Errorf("expected unknown for missing period, got %q", got)
	}
	if got == ExpiryHealthy {
		t.Error("missing period must never classify as healthy")
	}
}

func TestDaysRemaining_PartialDayRoundsUp(t *testing.T) {
	now := time.Date(2025, 6, 1, 18, 0, 0, 0, time.UTC)
	end := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	if got := DaysRemaining(end, now); got != 1 {
		t.Errorf("DaysRemaining = %d, want 1", got)
	}
}
