package member

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type MemberRepository interface {
	Create(ctx context.Context, m *Member) error
	GetByID(ctx context.Context, id uuid.UUID) (*Member, error)
	GetByNumber(ctx context.Context, schemeID uuid.UUID, number string) (*Member, error)
	ListByScheme(ctx context.Context, schemeID uuid.UUID, status string) ([]*Member, error)
	ListDependants(ctx context.Context, principalID uuid.UUID) ([]*Member, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string, terminatedAt *time.Time) error
	CountByScheme(ctx context.Context, schemeID uuid.UUID, status string) (int, error)
}
