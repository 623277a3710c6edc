package scheme

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// SchemeRepository defines storage operations for schemes and their
// coverage periods.
type SchemeRepository interface {
	Create(ctx context.Context, s *Scheme) error
	GetByID(ctx context.Context, id uuid.UUID) (*Scheme, error)
	Update(ctx context.Context, s *Scheme) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status string, suspensionReason *string) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
	HardDelete(ctx context.Context, id uuid.UUID) error
	// ListAll returns every non-deleted scheme with company name, current
	// period and period count attached. Directory refinement happens in
	// memory on top of this set.
	ListAll(ctx context.Context) ([]*Scheme, error)
	CardCodeExists(ctx context.Context, companyID uuid.UUID, cardCode string, excludeID uuid.UUID) (bool, error)

	CreatePeriod(ctx context.Context, p *SchemePeriod) error
	GetCurrentPeriod(ctx context.Context, schemeID uuid.UUID) (*SchemePeriod, error)
	ListPeriods(ctx context.Context, schemeID uuid.UUID) ([]*SchemePeriod, error)
	// CloseCurrentPeriod clears is_current and stamps termination when the
	// period has none.
	CloseCurrentPeriod(ctx context.Context, schemeID uuid.UUID, termination time.Time, renewal time.Time) error
}
