package scheme

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/medscheme/medscheme/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type schemeRepoPG struct{ pool *pgxpool.Pool }

func NewSchemeRepoPG(pool *pgxpool.Pool) SchemeRepository {
	return &schemeRepoPG{pool: pool}
}

func (r *schemeRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const schemeCols = `s.id, s.name, s.card_code, s.company_id, s.is_renewable, s.family_applicable,
	s.description, s.remark, s.status, s.suspension_reason, s.deleted_at, s.created_at, s.updated_at`

func scanScheme(row pgx.Row) (*Scheme, error) {
	var s Scheme
	err := row.Scan(&s.ID, &s.Name, &s.CardCode, &s.CompanyID, &s.IsRenewable, &s.FamilyApplicable,
		&s.Description, &s.Remark, &s.Status, &s.SuspensionReason, &s.DeletedAt, &s.CreatedAt, &s.UpdatedAt)
	return &s, err
}

const periodCols = `id, scheme_id, period_number, start_date, end_date, limit_amount,
	termination_date, is_current, renewal_date, created_at, updated_at`

func scanPeriod(row pgx.Row) (*SchemePeriod, error) {
	var p SchemePeriod
	err := row.Scan(&p.ID, &p.SchemeID, &p.PeriodNumber, &p.StartDate, &p.EndDate, &p.LimitAmount,
		&p.TerminationDate, &p.IsCurrent, &p.RenewalDate, &p.CreatedAt, &p.UpdatedAt)
	return &p, err
}

func (r *schemeRepoPG) Create(ctx context.Context, s *Scheme) error {
	s.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO scheme (id, name, card_code, company_id, is_renewable, family_applicable,
			description, remark, status)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		s.ID, s.Name, s.CardCode, s.CompanyID, s.IsRenewable, s.FamilyApplicable,
		s.Description, s.Remark, s.Status)
	return err
}

func (r *schemeRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Scheme, error) {
	s, err := scanScheme(r.conn(ctx).QueryRow(ctx,
		`SELECT `+schemeCols+` FROM scheme s WHERE s.id = $1 AND s.deleted_at IS NULL`, id))
	if err != nil {
		return nil, err
	}
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT c.name, (SELECT COUNT(*) FROM scheme_period p WHERE p.scheme_id = s.id)
		 FROM scheme s JOIN company c ON c.id = s.company_id WHERE s.id = $1`, id).
		Scan(&s.CompanyName, &s.TotalPeriods); err != nil {
		return nil, err
	}
	if cur, err := r.GetCurrentPeriod(ctx, id); err == nil {
		s.CurrentPeriod = cur
	} else if err != pgx.ErrNoRows {
		return nil, err
	}
	return s, nil
}

func (r *schemeRepoPG) Update(ctx context.Context, s *Scheme) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE scheme SET name=$2, card_code=$3, company_id=$4, is_renewable=$5,
			family_applicable=$6, description=$7, remark=$8, updated_at=NOW()
		WHERE id = $1 AND deleted_at IS NULL`,
		s.ID, s.Name, s.CardCode, s.CompanyID, s.IsRenewable,
		s.FamilyApplicable, s.Description, s.Remark)
	return err
}

func (r *schemeRepoPG) UpdateStatus(ctx context.Context, id uuid.UUID, status string, suspensionReason *string) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE scheme SET status=$2, suspension_reason=$3, updated_at=NOW()
		WHERE id = $1 AND deleted_at IS NULL`,
		id, status, suspensionReason)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *schemeRepoPG) SoftDelete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx,
		`UPDATE scheme SET deleted_at=NOW(), updated_at=NOW() WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *schemeRepoPG) HardDelete(ctx context.Context, id uuid.UUID) error {
	// Periods, assignments and members cascade via FK.
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM scheme WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *schemeRepoPG) ListAll(ctx context.Context) ([]*Scheme, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+schemeCols+`, c.name,
			(SELECT COUNT(*) FROM scheme_period p WHERE p.scheme_id = s.id)
		FROM scheme s
		JOIN company c ON c.id = s.company_id
		WHERE s.deleted_at IS NULL
		ORDER BY s.created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*Scheme
	index := make(map[uuid.UUID]*Scheme)
	for rows.Next() {
		var s Scheme
		if err := rows.Scan(&s.ID, &s.Name, &s.CardCode, &s.CompanyID, &s.IsRenewable, &s.FamilyApplicable,
			&s.Description, &s.Remark, &s.Status, &s.SuspensionReason, &s.DeletedAt, &s.CreatedAt, &s.UpdatedAt,
			&s.CompanyName, &s.TotalPeriods); err != nil {
			return nil, err
		}
		items = append(items, &s)
		index[s.ID] = &s
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	prows, err := r.conn(ctx).Query(ctx, `
		SELECT `+periodCols+` FROM scheme_period
		WHERE is_current AND scheme_id IN (SELECT id FROM scheme WHERE deleted_at IS NULL)`)
	if err != nil {
		return nil, err
	}
	defer prows.Close()
	for prows.Next() {
		p, err := scanPeriod(prows)
		if err != nil {
			return nil, err
		}
		if s, ok := index[p.SchemeID]; ok {
			s.CurrentPeriod = p
		}
	}
	return items, prows.Err()
}

func (r *schemeRepoPG) CardCodeExists(ctx context.Context, companyID uuid.UUID, cardCode string, excludeID uuid.UUID) (bool, error) {
	var count int
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT COUNT(*) FROM scheme
		WHERE company_id = $1 AND card_code = $2 AND id <> $3 AND deleted_at IS NULL`,
		companyID, cardCode, excludeID).Scan(&count)
	return count > 0, err
}

func (r *schemeRepoPG) CreatePeriod(ctx context.Context, p *SchemePeriod) error {
	p.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO scheme_period (id, scheme_id, period_number, start_date, end_date,
			limit_amount, termination_date, is_current, renewal_date)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		p.ID, p.SchemeID, p.PeriodNumber, p.StartDate, p.EndDate,
		p.LimitAmount, p.TerminationDate, p.IsCurrent, p.RenewalDate)
	return err
}

func (r *schemeRepoPG) GetCurrentPeriod(ctx context.Context, schemeID uuid.UUID) (*SchemePeriod, error) {
	return scanPeriod(r.conn(ctx).QueryRow(ctx,
		`SELECT `+periodCols+` FROM scheme_period WHERE scheme_id = $1 AND is_current`, schemeID))
}

func (r *schemeRepoPG) ListPeriods(ctx context.Context, schemeID uuid.UUID) ([]*SchemePeriod, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+periodCols+` FROM scheme_period WHERE scheme_id = $1 ORDER BY period_number ASC`, schemeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*SchemePeriod
	for rows.Next() {
		p, err := scanPeriod(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	return items, rows.Err()
}

func (r *schemeRepoPG) CloseCurrentPeriod(ctx context.Context, schemeID uuid.UUID, termination time.Time, renewal time.Time) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE scheme_period
		SET is_current = FALSE,
			termination_date = COALESCE(termination_date, $2),
			renewal_date = $3,
			updated_at = NOW()
		WHERE scheme_id = $1 AND is_current`,
		schemeID, termination, renewal)
	return err
}
