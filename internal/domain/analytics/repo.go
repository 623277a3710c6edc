package analytics

import (
	"context"

	"github.com/shopspring/decimal"
)

type StatsRepository interface {
	SchemeCounts(ctx context.Context) (SchemeCounts, error)
	// CoverageTotals sums the limit amounts of all current periods and
	// reports how many schemes carry one.
	CoverageTotals(ctx context.Context) (total decimal.Decimal, covered int, err error)
	TotalClaimAmount(ctx context.Context) (decimal.Decimal, error)
	EnrollmentTrend(ctx context.Context, months int) ([]TrendPoint, error)
	ClaimBreakdown(ctx context.Context) ([]ClaimTypeTotal, error)
}
