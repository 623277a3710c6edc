package schemeitem

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/medscheme/medscheme/internal/domain/catalog"
	"github.com/medscheme/medscheme/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

// catalogTables whitelists the table behind each assignable model.
var catalogTables = map[string]string{
	catalog.ModelBenefit:  "benefit",
	catalog.ModelPlan:     "plan",
	catalog.ModelHospital: "hospital",
	catalog.ModelService:  "clinical_service",
	catalog.ModelLabTest:  "lab_test",
	catalog.ModelMedicine: "medicine",
}

type schemeItemRepoPG struct{ pool *pgxpool.Pool }

func NewSchemeItemRepoPG(pool *pgxpool.Pool) SchemeItemRepository {
	return &schemeItemRepoPG{pool: pool}
}

func (r *schemeItemRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

func catalogTable(model string) (string, error) {
	table, ok := catalogTables[model]
	if !ok {
		return "", fmt.Errorf("unknown catalog model %q", model)
	}
	return table, nil
}

const itemCols = `si.id, si.scheme_id, si.content_type_id, si.object_id,
	si.limit_amount, si.copayment_percent, si.status, si.created_at, si.updated_at`

func (r *schemeItemRepoPG) ListAssigned(ctx context.Context, schemeID uuid.UUID, contentTypeID int, model string) ([]*SchemeItem, error) {
	table, err := catalogTable(model)
	if err != nil {
		return nil, err
	}
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+itemCols+`, o.name
		FROM scheme_item si
		JOIN `+table+` o ON o.id = si.object_id
		WHERE si.scheme_id = $1 AND si.content_type_id = $2
		ORDER BY o.name ASC`,
		schemeID, contentTypeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*SchemeItem
	for rows.Next() {
		var it SchemeItem
		if err := rows.Scan(&it.ID, &it.SchemeID, &it.ContentTypeID, &it.ObjectID,
			&it.LimitAmount, &it.CopaymentPercent, &it.Status, &it.CreatedAt, &it.UpdatedAt,
			&it.ObjectName); err != nil {
			return nil, err
		}
		items = append(items, &it)
	}
	return items, rows.Err()
}

func (r *schemeItemRepoPG) ListAvailable(ctx context.Context, schemeID uuid.UUID, contentTypeID int, model string) ([]*AvailableItem, error) {
	table, err := catalogTable(model)
	if err != nil {
		return nil, err
	}
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT o.id, o.name, o.status
		FROM `+table+` o
		WHERE o.status = 'ACTIVE'
		  AND NOT EXISTS (
			SELECT 1 FROM scheme_item si
			WHERE si.scheme_id = $1 AND si.content_type_id = $2 AND si.object_id = o.id)
		ORDER BY o.name ASC`,
		schemeID, contentTypeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*AvailableItem
	for rows.Next() {
		var it AvailableItem
		if err := rows.Scan(&it.ID, &it.Name, &it.Status); err != nil {
			return nil, err
		}
		items = append(items, &it)
	}
	return items, rows.Err()
}

func (r *schemeItemRepoPG) BulkInsert(ctx context.Context, items []*SchemeItem) error {
	for _, it := range items {
		it.ID = uuid.New()
		_, err := r.conn(ctx).Exec(ctx, `
			INSERT INTO scheme_item (id, scheme_id, content_type_id, object_id,
				limit_amount, copayment_percent, status)
			VALUES ($1,$2,$3,$4,$5,$6,$7)
			ON CONFLICT (scheme_id, content_type_id, object_id) DO NOTHING`,
			it.ID, it.SchemeID, it.ContentTypeID, it.ObjectID,
			it.LimitAmount, it.CopaymentPercent, it.Status)
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *schemeItemRepoPG) BulkDelete(ctx context.Context, schemeID uuid.UUID, contentTypeID int, objectIDs []uuid.UUID) (int64, error) {
	tag, err := r.conn(ctx).Exec(ctx, `
		DELETE FROM scheme_item
		WHERE scheme_id = $1 AND content_type_id = $2 AND object_id = ANY($3)`,
		schemeID, contentTypeID, objectIDs)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *schemeItemRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*SchemeItem, error) {
	var it SchemeItem
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT `+itemCols+` FROM scheme_item si WHERE si.id = $1`, id).
		Scan(&it.ID, &it.SchemeID, &it.ContentTypeID, &it.ObjectID,
			&it.LimitAmount, &it.CopaymentPercent, &it.Status, &it.CreatedAt, &it.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &it, nil
}

func (r *schemeItemRepoPG) UpdateOverrides(ctx context.Context, id uuid.UUID, limit, copayment *decimal.Decimal) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE scheme_item SET limit_amount=$2, copayment_percent=$3, updated_at=NOW()
		WHERE id = $1`,
		id, limit, copayment)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *schemeItemRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM scheme_item WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *schemeItemRepoPG) CountByType(ctx context.Context, schemeID uuid.UUID, contentTypeID int) (int, error) {
	var count int
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM scheme_item WHERE scheme_id = $1 AND content_type_id = $2`,
		schemeID, contentTypeID).Scan(&count)
	return count, err
}
