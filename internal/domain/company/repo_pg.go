package company

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/medscheme/medscheme/internal/platform/db"
	"github.com/medscheme/medscheme/internal/platform/search"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type companyRepoPG struct{ pool *pgxpool.Pool }

func NewCompanyRepoPG(pool *pgxpool.Pool) CompanyRepository {
	return &companyRepoPG{pool: pool}
}

func (r *companyRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const companyCols = `id, name, status, contact_email, contact_phone, created_at, updated_at`

func (r *companyRepoPG) scanCompany(row pgx.Row) (*Company, error) {
	var co Company
	err := row.Scan(&co.ID, &co.Name, &co.Status, &co.ContactEmail, &co.ContactPhone, &co.CreatedAt, &co.UpdatedAt)
	return &co, err
}

func (r *companyRepoPG) Create(ctx context.Context, co *Company) error {
	co.ID = uuid.New()
	if co.Status == "" {
		co.Status = StatusActive
	}
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO company (id, name, status, contact_email, contact_phone)
		VALUES ($1,$2,$3,$4,$5)`,
		co.ID, co.Name, co.Status, co.ContactEmail, co.ContactPhone)
	return err
}

func (r *companyRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Company, error) {
	return r.scanCompany(r.conn(ctx).QueryRow(ctx, `SELECT `+companyCols+` FROM company WHERE id = $1`, id))
}

func (r *companyRepoPG) Update(ctx context.Context, co *Company) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE company SET name=$2, status=$3, contact_email=$4, contact_phone=$5, updated_at=NOW()
		WHERE id = $1`,
		co.ID, co.Name, co.Status, co.ContactEmail, co.ContactPhone)
	return err
}

func (r *companyRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM company WHERE id = $1`, id)
	return err
}

func (r *companyRepoPG) List(ctx context.Context, status string) ([]*Company, error) {
	q := search.NewQuery("company", companyCols)
	q.ApplyParams(map[string]string{"status": status}, map[string]search.ParamConfig{
		"status": {Type: search.ParamToken, Column: "status"},
	})
	q.OrderBy("name ASC")

	rows, err := r.conn(ctx).Query(ctx, q.SQL(), q.Args()...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Company
	for rows.Next() {
		co, err := r.scanCompany(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, co)
	}
	return items, rows.Err()
}
