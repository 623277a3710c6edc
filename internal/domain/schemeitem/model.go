package schemeitem

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	StatusActive   = "ACTIVE"
	StatusInactive = "INACTIVE"
)

// SchemeItem maps to the scheme_item table: one row per catalog entity
// assigned to a scheme, identified polymorphically by content type and
// object id. Limit and copayment are per-assignment overrides on top of
// whatever the catalog entity carries.
type SchemeItem struct {
	ID               uuid.UUID        `db:"id" json:"id"`
	SchemeID         uuid.UUID        `db:"scheme_id" json:"scheme_id"`
	ContentTypeID    int              `db:"content_type_id" json:"content_type_id"`
	ObjectID         uuid.UUID        `db:"object_id" json:"object_id"`
	LimitAmount      *decimal.Decimal `db:"limit_amount" json:"limit_amount,omitempty"`
	CopaymentPercent *decimal.Decimal `db:"copayment_percent" json:"copayment_percent,omitempty"`
	Status           string           `db:"status" json:"status"`
	CreatedAt        time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time        `db:"updated_at" json:"updated_at"`

	ObjectName string `db:"-" json:"object_name,omitempty"`
}

// AvailableItem is a catalog entity of a given type not yet assigned to
// the scheme.
type AvailableItem struct {
	ID     uuid.UUID `db:"id" json:"id"`
	Name   string    `db:"name" json:"name"`
	Status string    `db:"status" json:"status"`
}
