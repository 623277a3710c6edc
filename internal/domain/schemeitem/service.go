package schemeitem

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/medscheme/medscheme/internal/domain/catalog"
	"github.com/medscheme/medscheme/internal/domain/scheme"
	"github.com/medscheme/medscheme/internal/platform/events"
)

// ErrPlanRequired is returned when benefits are assigned to a scheme that
// has no plans yet. The check runs before any write; handlers map it to a
// 422.
var ErrPlanRequired = errors.New("cannot assign benefits before the scheme has at least one plan")

// TxRunner runs fn atomically.
type TxRunner func(ctx context.Context, fn func(ctx context.Context) error) error

// SchemeGetter is the slice of the scheme repository this service needs.
type SchemeGetter interface {
	GetByID(ctx context.Context, id uuid.UUID) (*scheme.Scheme, error)
}

// Service provides business logic for the assignment workspace.
type Service struct {
	items    SchemeItemRepository
	schemes  SchemeGetter
	resolver *ContentTypeResolver
	bus      *events.Bus
	runTx    TxRunner
}

// NewService creates a new schemeitem domain service.
func NewService(items SchemeItemRepository, schemes SchemeGetter, resolver *ContentTypeResolver, bus *events.Bus, runTx TxRunner) *Service {
	return &Service{items: items, schemes: schemes, resolver: resolver, bus: bus, runTx: runTx}
}

// resolveType accepts either a semantic model name or a numeric identifier
// and returns both.
func (s *Service) resolveType(ctx context.Context, contentType string) (int, string, error) {
	if contentType == "" {
		return 0, "", fmt.Errorf("content_type is required")
	}
	var id int
	if _, err := fmt.Sscanf(contentType, "%d", &id); err == nil {
		model, err := s.resolver.ModelForID(ctx, id)
		if err != nil {
			return 0, "", err
		}
		return id, model, nil
	}
	id, err := s.resolver.IDForModel(ctx, contentType)
	if err != nil {
		return 0, "", err
	}
	return id, contentType, nil
}

func (s *Service) ListAssigned(ctx context.Context, schemeID uuid.UUID, contentType string) ([]*SchemeItem, error) {
	ctID, model, err := s.resolveType(ctx, contentType)
	if err != nil {
		return nil, err
	}
	return s.items.ListAssigned(ctx, schemeID, ctID, model)
}

func (s *Service) ListAvailable(ctx context.Context, schemeID uuid.UUID, contentType string) ([]*AvailableItem, error) {
	ctID, model, err := s.resolveType(ctx, contentType)
	if err != nil {
		return nil, err
	}
	return s.items.ListAvailable(ctx, schemeID, ctID, model)
}

func validateOverrides(limit, copayment *decimal.Decimal) error {
	if limit != nil && limit.LessThan(decimal.Zero) {
		return fmt.Errorf("limit_amount must not be negative")
	}
	if copayment != nil {
		if copayment.LessThan(decimal.Zero) || copayment.GreaterThan(decimal.NewFromInt(100)) {
			return fmt.Errorf("copayment_percent must be between 0 and 100")
		}
	}
	return nil
}

// BulkAssignInput assigns many catalog entities of one type in a single
// call. Overrides apply to every assigned row.
type BulkAssignInput struct {
	SchemeID         uuid.UUID        `json:"scheme_id"`
	ContentType      string           `json:"content_type"`
	ObjectIDs        []uuid.UUID      `json:"object_ids"`
	LimitAmount      *decimal.Decimal `json:"limit_amount"`
	CopaymentPercent *decimal.Decimal `json:"copayment_percent"`
}

// BulkAssign validates the whole batch, enforces the plans-before-benefits
// precedence, then inserts every row in one transaction.
func (s *Service) BulkAssign(ctx context.Context, in *BulkAssignInput) ([]*SchemeItem, error) {
	if len(in.ObjectIDs) == 0 {
		return nil, fmt.Errorf("object_ids is required")
	}
	ctID, model, err := s.resolveType(ctx, in.ContentType)
	if err != nil {
		return nil, err
	}
	if _, err := s.schemes.GetByID(ctx, in.SchemeID); err != nil {
		return nil, fmt.Errorf("scheme %s not found", in.SchemeID)
	}
	if err := validateOverrides(in.LimitAmount, in.CopaymentPercent); err != nil {
		return nil, err
	}

	if model == catalog.ModelBenefit {
		planTypeID, err := s.resolver.IDForModel(ctx, catalog.ModelPlan)
		if err != nil {
			return nil, err
		}
		plans, err := s.items.CountByType(ctx, in.SchemeID, planTypeID)
		if err != nil {
			return nil, err
		}
		if plans == 0 {
			return nil, ErrPlanRequired
		}
	}

	items := make([]*SchemeItem, 0, len(in.ObjectIDs))
	for _, objID := range in.ObjectIDs {
		items = append(items, &SchemeItem{
			SchemeID:         in.SchemeID,
			ContentTypeID:    ctID,
			ObjectID:         objID,
			LimitAmount:      in.LimitAmount,
			CopaymentPercent: in.CopaymentPercent,
			Status:           StatusActive,
		})
	}
	err = s.runTx(ctx, func(ctx context.Context) error {
		return s.items.BulkInsert(ctx, items)
	})
	if err != nil {
		return nil, err
	}
	s.bus.Publish(events.TopicSchemeItem, "assigned", in.SchemeID)
	return items, nil
}

// BulkRemoveInput removes many assignments of one type in a single call.
type BulkRemoveInput struct {
	SchemeID    uuid.UUID   `json:"scheme_id"`
	ContentType string      `json:"content_type"`
	ObjectIDs   []uuid.UUID `json:"object_ids"`
}

func (s *Service) BulkRemove(ctx context.Context, in *BulkRemoveInput) (int64, error) {
	if len(in.ObjectIDs) == 0 {
		return 0, fmt.Errorf("object_ids is required")
	}
	ctID, _, err := s.resolveType(ctx, in.ContentType)
	if err != nil {
		return 0, err
	}
	removed, err := s.items.BulkDelete(ctx, in.SchemeID, ctID, in.ObjectIDs)
	if err != nil {
		return 0, err
	}
	s.bus.Publish(events.TopicSchemeItem, "removed", in.SchemeID)
	return removed, nil
}

// UpdateOverrides changes only the per-assignment limit and copayment.
func (s *Service) UpdateOverrides(ctx context.Context, id uuid.UUID, limit, copayment *decimal.Decimal) (*SchemeItem, error) {
	if err := validateOverrides(limit, copayment); err != nil {
		return nil, err
	}
	if err := s.items.UpdateOverrides(ctx, id, limit, copayment); err != nil {
		return nil, err
	}
	it, err := s.items.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.bus.Publish(events.TopicSchemeItem, "updated", it.SchemeID)
	return it, nil
}

func (s *Service) Remove(ctx context.Context, id uuid.UUID) error {
	it, err := s.items.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.items.Delete(ctx, id); err != nil {
		return err
	}
	s.bus.Publish(events.TopicSchemeItem, "removed", it.SchemeID)
	return nil
}
