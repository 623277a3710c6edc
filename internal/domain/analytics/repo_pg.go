package analytics

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type statsRepoPG struct{ pool *pgxpool.Pool }

func NewStatsRepoPG(pool *pgxpool.Pool) StatsRepository {
	return &statsRepoPG{pool: pool}
}

func (r *statsRepoPG) SchemeCounts(ctx context.Context) (SchemeCounts, error) {
	var c SchemeCounts
	err := r.pool.QueryRow(ctx, `
		SELECT count(*),
		       count(*) FILTER (WHERE status = 'ACTIVE'),
		       count(*) FILTER (WHERE status = 'INACTIVE'),
		       count(*) FILTER (WHERE status = 'SUSPENDED')
		FROM scheme
		WHERE deleted_at IS NULL`).
		Scan(&c.Total, &c.Active, &c.Inactive, &c.Suspended)
	if err != nil {
		return SchemeCounts{}, fmt.Errorf("scheme counts: %w", err)
	}
	return c, nil
}

func (r *statsRepoPG) CoverageTotals(ctx context.Context) (decimal.Decimal, int, error) {
	var total decimal.Decimal
	var covered int
	err := r.pool.QueryRow(ctx, `
		SELECT COALESCE(sum(p.limit_amount), 0), count(p.id)
		FROM scheme_period p
		JOIN scheme s ON s.id = p.scheme_id AND s.deleted_at IS NULL
		WHERE p.is_current`).
		Scan(&total, &covered)
	if err != nil {
		return decimal.Zero, 0, fmt.Errorf("coverage totals: %w", err)
	}
	return total, covered, nil
}

func (r *statsRepoPG) TotalClaimAmount(ctx context.Context) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.pool.QueryRow(ctx,
		`SELECT COALESCE(sum(amount), 0) FROM claim`).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("total claim amount: %w", err)
	}
	return total, nil
}

func (r *statsRepoPG) EnrollmentTrend(ctx context.Context, months int) ([]TrendPoint, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT to_char(date_trunc('month', enrolled_at), 'YYYY-MM') AS month,
		       count(*)
		FROM member
		WHERE enrolled_at >= date_trunc('month', now()) - ($1 - 1) * interval '1 month'
		GROUP BY 1
		ORDER BY 1`, months)
	if err != nil {
		return nil, fmt.Errorf("enrollment trend: %w", err)
	}
	defer rows.Close()

	points := make([]TrendPoint, 0, months)
	for rows.Next() {
		var p TrendPoint
		if err := rows.Scan(&p.Month, &p.Count); err != nil {
			return nil, fmt.Errorf("scan trend point: %w", err)
		}
		points = append(points, p)
	}
	return points, rows.Err()
}

func (r *statsRepoPG) ClaimBreakdown(ctx context.Context) ([]ClaimTypeTotal, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT claim_type, count(*), COALESCE(sum(amount), 0)
		FROM claim
		GROUP BY claim_type
		ORDER BY sum(amount) DESC`)
	if err != nil {
		return nil, fmt.Errorf("claim breakdown: %w", err)
	}
	defer rows.Close()

	totals := make([]ClaimTypeTotal, 0)
	for rows.Next() {
		var t ClaimTypeTotal
		if err := rows.Scan(&t.ClaimType, &t.Count, &t.Amount); err != nil {
			return nil, fmt.Errorf("scan claim total: %w", err)
		}
		totals = append(totals, t)
	}
	return totals, rows.Err()
}
