package catalog

import (
	"context"

	"github.com/google/uuid"
)

// CatalogRepository defines storage operations for the content-type registry
// and the assignable catalog entities.
type CatalogRepository interface {
	ListContentTypes(ctx context.Context) ([]*ContentType, error)

	ListBenefits(ctx context.Context, status string) ([]*Benefit, error)
	GetBenefit(ctx context.Context, id uuid.UUID) (*Benefit, error)
	CreateBenefit(ctx context.Context, b *Benefit) error
	UpdateBenefit(ctx context.Context, b *Benefit) error
	DeleteBenefit(ctx context.Context, id uuid.UUID) error

	ListPlans(ctx context.Context, status string) ([]*Plan, error)
	GetPlan(ctx context.Context, id uuid.UUID) (*Plan, error)
	CreatePlan(ctx context.Context, p *Plan) error
	UpdatePlan(ctx context.Context, p *Plan) error
	DeletePlan(ctx context.Context, id uuid.UUID) error

	// Simple lookup entities, keyed by semantic model name.
	ListItems(ctx context.Context, model, status string) ([]*Item, error)
	CreateItem(ctx context.Context, model string, it *Item) error
	UpdateItem(ctx context.Context, model string, it *Item) error
	DeleteItem(ctx context.Context, model string, id uuid.UUID) error
}
