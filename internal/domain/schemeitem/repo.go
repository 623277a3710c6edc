package schemeitem

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SchemeItemRepository defines storage operations for assignments. Methods
// taking a model name use it to join the owning catalog table for display
// names; the content type id is what the rows store.
type SchemeItemRepository interface {
	ListAssigned(ctx context.Context, schemeID uuid.UUID, contentTypeID int, model string) ([]*SchemeItem, error)
	ListAvailable(ctx context.Context, schemeID uuid.UUID, contentTypeID int, model string) ([]*AvailableItem, error)
	BulkInsert(ctx context.Context, items []*SchemeItem) error
	BulkDelete(ctx context.Context, schemeID uuid.UUID, contentTypeID int, objectIDs []uuid.UUID) (int64, error)
	GetByID(ctx context.Context, id uuid.UUID) (*SchemeItem, error)
	UpdateOverrides(ctx context.Context, id uuid.UUID, limit, copayment *decimal.Decimal) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountByType(ctx context.Context, schemeID uuid.UUID, contentTypeID int) (int, error)
}
