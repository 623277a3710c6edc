package member

import (
	"context"
	"fmt"
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

type memberRepoPG struct{ pool *pgxpool.Pool }

func NewMemberRepoPG(pool *pgxpool.Pool) MemberRepository {
	return &memberRepoPG{pool: pool}
}

func (r *memberRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const memberCols = `id, scheme_id, member_number, given_name, family_name,
	is_principal, principal_id, status, enrolled_at, terminated_at,
	created_at, updated_at`

func scanMember(row pgx.Row) (*Member, error) {
	var m Member
	err := row.Scan(&m.ID, &m.SchemeID, &m.MemberNumber, &m.GivenName,
		&m.FamilyName, &m.IsPrincipal, &m.PrincipalID, &m.Status,
		&m.EnrolledAt, &m.TerminatedAt, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *memberRepoPG) Create(ctx context.Context, m *Member) error {
	row := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO member (scheme_id, member_number, given_name, family_name,
			is_principal, principal_id, status, enrolled_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+memberCols,
		m.SchemeID, m.MemberNumber, m.GivenName, m.FamilyName,
		m.IsPrincipal, m.PrincipalID, m.Status, m.EnrolledAt)

	created, err := scanMember(row)
	if err != nil {
		return fmt.Errorf("create member: %w", err)
	}
	*m = *created
	return nil
}

func (r *memberRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Member, error) {
	row := r.conn(ctx).QueryRow(ctx,
		`SELECT `+memberCols+` FROM member WHERE id = $1`, id)
	m, err := scanMember(row)
	if err != nil {
		return nil, fmt.Errorf("get member: %w", err)
	}
	return m, nil
}

func (r *memberRepoPG) GetByNumber(ctx context.Context, schemeID uuid.UUID, number string) (*Member, error) {
	row := r.conn(ctx).QueryRow(ctx,
		`SELECT `+memberCols+` FROM member WHERE scheme_id = $1 AND member_number = $2`,
		schemeID, number)
	m, err := scanMember(row)
	if err != nil {
		return nil, fmt.Errorf("get member by number: %w", err)
	}
	return m, nil
}

func (r *memberRepoPG) ListByScheme(ctx context.Context, schemeID uuid.UUID, status string) ([]*Member, error) {
	sql := `SELECT ` + memberCols + ` FROM member WHERE scheme_id = $1`
	args := []any{schemeID}
	if status != "" {
		sql += ` AND status = $2`
		args = append(args, status)
	}
	sql += ` ORDER BY is_principal DESC, member_number ASC`

	rows, err := r.conn(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	defer rows.Close()
	return collectMembers(rows)
}

func (r *memberRepoPG) ListDependants(ctx context.Context, principalID uuid.UUID) ([]*Member, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+memberCols+` FROM member WHERE principal_id = $1 ORDER BY member_number ASC`,
		principalID)
	if err != nil {
		return nil, fmt.Errorf("list dependants: %w", err)
	}
	defer rows.Close()
	return collectMembers(rows)
}

func collectMembers(rows pgx.Rows) ([]*Member, error) {
	members := make([]*Member, 0)
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

func (r *memberRepoPG) UpdateStatus(ctx context.Context, id uuid.UUID, status string, terminatedAt *time.Time) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE member SET status = $2, terminated_at = $3, updated_at = now()
		WHERE id = $1`,
		id, status, terminatedAt)
	if err != nil {
		return fmt.Errorf("update member status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *memberRepoPG) CountByScheme(ctx context.Context, schemeID uuid.UUID, status string) (int, error) {
	sql := `SELECT count(*) FROM member WHERE scheme_id = $1`
	args := []any{schemeID}
	if status != "" {
		sql += ` AND status = $2`
		args = append(args, status)
	}
	var n int
	if err := r.conn(ctx).QueryRow(ctx, sql, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count members: %w", err)
	}
	return n, nil
}
