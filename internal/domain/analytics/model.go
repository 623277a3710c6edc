package analytics

import (
	"time"

	"github.com/shopspring/decimal"
)

// SchemeCounts groups the roster by lifecycle status.
type SchemeCounts struct {
	Total     int `json:"total"`
	Active    int `json:"active"`
	Inactive  int `json:"inactive"`
	Suspended int `json:"suspended"`
}

// TrendPoint is one month of the enrollment trend, keyed YYYY-MM.
type TrendPoint struct {
	Month string `json:"month"`
	Count int    `json:"count"`
}

// ClaimTypeTotal aggregates claims by their type.
type ClaimTypeTotal struct {
	ClaimType     string          `json:"claim_type"`
	Count         int             `json:"count"`
	Amount        decimal.Decimal `json:"amount"`
	AmountDisplay string          `json:"amount_display"`
}

// Statistics is the dashboard payload. Monetary fields carry both the raw
// decimal and an en-UG display string; rates that cannot be computed render
// as a placeholder instead of a division artifact.
type Statistics struct {
	Schemes SchemeCounts `json:"schemes"`

	TotalCoverage          decimal.Decimal `json:"total_coverage"`
	TotalCoverageDisplay   string          `json:"total_coverage_display"`
	AverageCoverage        decimal.Decimal `json:"average_coverage"`
	AverageCoverageDisplay string          `json:"average_coverage_display"`

	TotalClaimAmount        decimal.Decimal `json:"total_claim_amount"`
	TotalClaimAmountDisplay string          `json:"total_claim_amount_display"`

	ActiveRate  string `json:"active_rate"`
	Utilization string `json:"utilization"`

	EnrollmentTrend []TrendPoint     `json:"enrollment_trend"`
	ClaimBreakdown  []ClaimTypeTotal `json:"claim_breakdown"`

	GeneratedAt time.Time `json:"generated_at"`
}
