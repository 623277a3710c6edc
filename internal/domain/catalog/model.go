package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	StatusActive   = "ACTIVE"
	StatusInactive = "INACTIVE"
)

// Semantic model names for assignable catalog entities. These are the keys
// the assignment workspace maps to numeric content-type identifiers.
const (
	ModelBenefit  = "benefit"
	ModelPlan     = "plan"
	ModelHospital = "hospital"
	ModelService  = "service"
	ModelLabTest  = "labtest"
	ModelMedicine = "medicine"
)

// Benefit inpatient/outpatient applicability.
const (
	PatientTypeIn   = "INPATIENT"
	PatientTypeOut  = "OUTPATIENT"
	PatientTypeBoth = "BOTH"
)

// ContentType maps a semantic model name to the numeric identifier used in
// polymorphic assignment rows.
type ContentType struct {
	ID       int    `db:"id" json:"id"`
	AppLabel string `db:"app_label" json:"app_label"`
	Model    string `db:"model" json:"model"`
}

// Benefit maps to the benefit table. A benefit may belong to a plan and may
// carry its own coverage ceiling.
type Benefit struct {
	ID             uuid.UUID        `db:"id" json:"id"`
	Name           string           `db:"name" json:"name"`
	Status         string           `db:"status" json:"status"`
	InOrOutPatient string           `db:"in_or_out_patient" json:"in_or_out_patient"`
	PlanID         *uuid.UUID       `db:"plan_id" json:"plan_id,omitempty"`
	LimitAmount    *decimal.Decimal `db:"limit_amount" json:"limit_amount,omitempty"`
	CreatedAt      time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time        `db:"updated_at" json:"updated_at"`
}

// Plan maps to the plan table.
type Plan struct {
	ID          uuid.UUID        `db:"id" json:"id"`
	Name        string           `db:"name" json:"name"`
	Status      string           `db:"status" json:"status"`
	LimitAmount *decimal.Decimal `db:"limit_amount" json:"limit_amount,omitempty"`
	CreatedAt   time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time        `db:"updated_at" json:"updated_at"`
}

// Item is the shared shape of the simple lookup entities (hospital, service,
// labtest, medicine). Each model is stored in its own table.
type Item struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Code      *string   `db:"code" json:"code,omitempty"`
	Status    string    `db:"status" json:"status"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// itemModels lists the lookup entities served by the shared Item shape.
var itemModels = map[string]bool{
	ModelHospital: true,
	ModelService:  true,
	ModelLabTest:  true,
	ModelMedicine: true,
}

// IsItemModel reports whether model is one of the simple lookup entities.
func IsItemModel(model string) bool { return itemModels[model] }

// AssignableModels returns every semantic model name that can appear in an
// assignment row.
func AssignableModels() []string {
	return []string{ModelBenefit, ModelPlan, ModelHospital, ModelService, ModelLabTest, ModelMedicine}
}
