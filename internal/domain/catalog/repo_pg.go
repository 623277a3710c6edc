package catalog

import (
	"context"
	"fmt"

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

// itemTables whitelists the table behind each simple lookup model. Model
// names never reach SQL directly.
var itemTables = map[string]string{
	ModelHospital: "hospital",
	ModelService:  "clinical_service",
	ModelLabTest:  "lab_test",
	ModelMedicine: "medicine",
}

type catalogRepoPG struct{ pool *pgxpool.Pool }

func NewCatalogRepoPG(pool *pgxpool.Pool) CatalogRepository {
	return &catalogRepoPG{pool: pool}
}

func (r *catalogRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

func (r *catalogRepoPG) ListContentTypes(ctx context.Context) ([]*ContentType, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT id, app_label, model FROM content_type ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*ContentType
	for rows.Next() {
		var ct ContentType
		if err := rows.Scan(&ct.ID, &ct.AppLabel, &ct.Model); err != nil {
			return nil, err
		}
		items = append(items, &ct)
	}
	return items, rows.Err()
}

// -- Benefits --

const benefitCols = `id, name, status, in_or_out_patient, plan_id, limit_amount, created_at, updated_at`

func scanBenefit(row pgx.Row) (*Benefit, error) {
	var b Benefit
	err := row.Scan(&b.ID, &b.Name, &b.Status, &b.InOrOutPatient, &b.PlanID, &b.LimitAmount, &b.CreatedAt, &b.UpdatedAt)
	return &b, err
}

func (r *catalogRepoPG) ListBenefits(ctx context.Context, status string) ([]*Benefit, error) {
	query := `SELECT ` + benefitCols + ` FROM benefit`
	var args []interface{}
	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, status)
	}
	query += ` ORDER BY name ASC`

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Benefit
	for rows.Next() {
		b, err := scanBenefit(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, b)
	}
	return items, rows.Err()
}

func (r *catalogRepoPG) GetBenefit(ctx context.Context, id uuid.UUID) (*Benefit, error) {
	return scanBenefit(r.conn(ctx).QueryRow(ctx, `SELECT `+benefitCols+` FROM benefit WHERE id = $1`, id))
}

func (r *catalogRepoPG) CreateBenefit(ctx context.Context, b *Benefit) error {
	b.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO benefit (id, name, status, in_or_out_patient, plan_id, limit_amount)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		b.ID, b.Name, b.Status, b.InOrOutPatient, b.PlanID, b.LimitAmount)
	return err
}

func (r *catalogRepoPG) UpdateBenefit(ctx context.Context, b *Benefit) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE benefit SET name=$2, status=$3, in_or_out_patient=$4, plan_id=$5, limit_amount=$6, updated_at=NOW()
		WHERE id = $1`,
		b.ID, b.Name, b.Status, b.InOrOutPatient, b.PlanID, b.LimitAmount)
	return err
}

func (r *catalogRepoPG) DeleteBenefit(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM benefit WHERE id = $1`, id)
	return err
}

// -- Plans --

const planCols = `id, name, status, limit_amount, created_at, updated_at`

func scanPlan(row pgx.Row) (*Plan, error) {
	var p Plan
	err := row.Scan(&p.ID, &p.Name, &p.Status, &p.LimitAmount, &p.CreatedAt, &p.UpdatedAt)
	return &p, err
}

func (r *catalogRepoPG) ListPlans(ctx context.Context, status string) ([]*Plan, error) {
	query := `SELECT ` + planCols + ` FROM plan`
	var args []interface{}
	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, status)
	}
	query += ` ORDER BY name ASC`

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Plan
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	return items, rows.Err()
}

func (r *catalogRepoPG) GetPlan(ctx context.Context, id uuid.UUID) (*Plan, error) {
	return scanPlan(r.conn(ctx).QueryRow(ctx, `SELECT `+planCols+` FROM plan WHERE id = $1`, id))
}

func (r *catalogRepoPG) CreatePlan(ctx context.Context, p *Plan) error {
	p.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO plan (id, name, status, limit_amount) VALUES ($1,$2,$3,$4)`,
		p.ID, p.Name, p.Status, p.LimitAmount)
	return err
}

func (r *catalogRepoPG) UpdatePlan(ctx context.Context, p *Plan) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE plan SET name=$2, status=$3, limit_amount=$4, updated_at=NOW() WHERE id = $1`,
		p.ID, p.Name, p.Status, p.LimitAmount)
	return err
}

func (r *catalogRepoPG) DeletePlan(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM plan WHERE id = $1`, id)
	return err
}

// -- Simple lookup entities --

func itemTable(model string) (string, error) {
	table, ok := itemTables[model]
	if !ok {
		return "", fmt.Errorf("unknown catalog model %q", model)
	}
	return table, nil
}

func (r *catalogRepoPG) ListItems(ctx context.Context, model, status string) ([]*Item, error) {
	table, err := itemTable(model)
	if err != nil {
		return nil, err
	}
	q := search.NewQuery(table, `id, name, code, status, created_at, updated_at`)
	q.ApplyParams(map[string]string{"status": status}, map[string]search.ParamConfig{
		"status": {Type: search.ParamToken, Column: "status"},
	})
	q.OrderBy("name ASC")

	rows, err := r.conn(ctx).Query(ctx, q.SQL(), q.Args()...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Item
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ID, &it.Name, &it.Code, &it.Status, &it.CreatedAt, &it.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, &it)
	}
	return items, rows.Err()
}

func (r *catalogRepoPG) CreateItem(ctx context.Context, model string, it *Item) error {
	table, err := itemTable(model)
	if err != nil {
		return err
	}
	it.ID = uuid.New()
	_, err = r.conn(ctx).Exec(ctx,
		`INSERT INTO `+table+` (id, name, code, status) VALUES ($1,$2,$3,$4)`,
		it.ID, it.Name, it.Code, it.Status)
	return err
}

func (r *catalogRepoPG) UpdateItem(ctx context.Context, model string, it *Item) error {
	table, err := itemTable(model)
	if err != nil {
		return err
	}
	_, err = r.conn(ctx).Exec(ctx,
		`UPDATE `+table+` SET name=$2, code=$3, status=$4, updated_at=NOW() WHERE id = $1`,
		it.ID, it.Name, it.Code, it.Status)
	return err
}

func (r *catalogRepoPG) DeleteItem(ctx context.Context, model string, id uuid.UUID) error {
	table, err := itemTable(model)
	if err != nil {
		return err
	}
	_, err = r.conn(ctx).Exec(ctx, `DELETE FROM `+table+` WHERE id = $1`, id)
	return err
}
