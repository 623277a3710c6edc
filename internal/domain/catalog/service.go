package catalog

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/medscheme/medscheme/internal/platform/events"
)

// Service provides business logic for the catalog domain.
type Service struct {
	catalog CatalogRepository
	bus     *events.Bus
}

// NewService creates a new catalog domain service.
func NewService(catalog CatalogRepository, bus *events.Bus) *Service {
	return &Service{catalog: catalog, bus: bus}
}

func (s *Service) publish(action string, id uuid.UUID) {
	s.bus.Publish(events.TopicCatalog, action, id)
}

func (s *Service) ListContentTypes(ctx context.Context) ([]*ContentType, error) {
	return s.catalog.ListContentTypes(ctx)
}

func validStatus(status string) bool {
	return status == StatusActive || status == StatusInactive
}

func validPatientType(pt string) bool {
	return pt == PatientTypeIn || pt == PatientTypeOut || pt == PatientTypeBoth
}

// -- Benefits --

func (s *Service) validateBenefit(b *Benefit) error {
	if b.Name == "" {
		return fmt.Errorf("name is required")
	}
	if b.Status == "" {
		b.Status = StatusActive
	}
	if !validStatus(b.Status) {
		return fmt.Errorf("invalid status %q", b.Status)
	}
	if b.InOrOutPatient == "" {
		b.InOrOutPatient = PatientTypeBoth
	}
	if !validPatientType(b.InOrOutPatient) {
		return fmt.Errorf("invalid in_or_out_patient %q", b.InOrOutPatient)
	}
	if b.LimitAmount != nil && b.LimitAmount.LessThan(decimal.Zero) {
		return fmt.Errorf("limit_amount must not be negative")
	}
	return nil
}

func (s *Service) ListBenefits(ctx context.Context, status string) ([]*Benefit, error) {
	return s.catalog.ListBenefits(ctx, status)
}

func (s *Service) CreateBenefit(ctx context.Context, b *Benefit) error {
	if err := s.validateBenefit(b); err != nil {
		return err
	}
	if b.PlanID != nil {
		if _, err := s.catalog.GetPlan(ctx, *b.PlanID); err != nil {
			return fmt.Errorf("plan %s not found", b.PlanID)
		}
	}
	if err := s.catalog.CreateBenefit(ctx, b); err != nil {
		return err
	}
	s.publish("created", b.ID)
	return nil
}

func (s *Service) UpdateBenefit(ctx context.Context, b *Benefit) error {
	if err := s.validateBenefit(b); err != nil {
		return err
	}
	if err := s.catalog.UpdateBenefit(ctx, b); err != nil {
		return err
	}
	s.publish("updated", b.ID)
	return nil
}

func (s *Service) DeleteBenefit(ctx context.Context, id uuid.UUID) error {
	if err := s.catalog.DeleteBenefit(ctx, id); err != nil {
		return err
	}
	s.publish("deleted", id)
	return nil
}

// -- Plans --

func (s *Service) validatePlan(p *Plan) error {
	if p.Name == "" {
		return fmt.Errorf("name is required")
	}
	if p.Status == "" {
		p.Status = StatusActive
	}
	if !validStatus(p.Status) {
		return fmt.Errorf("invalid status %q", p.Status)
	}
	if p.LimitAmount != nil && p.LimitAmount.LessThan(decimal.Zero) {
		return fmt.Errorf("limit_amount must not be negative")
	}
	return nil
}

func (s *Service) ListPlans(ctx context.Context, status string) ([]*Plan, error) {
	return s.catalog.ListPlans(ctx, status)
}

func (s *Service) CreatePlan(ctx context.Context, p *Plan) error {
	if err := s.validatePlan(p); err != nil {
		return err
	}
	if err := s.catalog.CreatePlan(ctx, p); err != nil {
		return err
	}
	s.publish("created", p.ID)
	return nil
}

func (s *Service) UpdatePlan(ctx context.Context, p *Plan) error {
	if err := s.validatePlan(p); err != nil {
		return err
	}
	if err := s.catalog.UpdatePlan(ctx, p); err != nil {
		return err
	}
	s.publish("updated", p.ID)
	return nil
}

func (s *Service) DeletePlan(ctx context.Context, id uuid.UUID) error {
	if err := s.catalog.DeletePlan(ctx, id); err != nil {
		return err
	}
	s.publish("deleted", id)
	return nil
}

// -- Simple lookup entities --

func (s *Service) ListItems(ctx context.Context, model, status string) ([]*Item, error) {
	if !IsItemModel(model) {
		return nil, fmt.Errorf("unknown catalog model %q", model)
	}
	return s.catalog.ListItems(ctx, model, status)
}

func (s *Service) CreateItem(ctx context.Context, model string, it *Item) error {
	if !IsItemModel(model) {
		return fmt.Errorf("unknown catalog model %q", model)
	}
	if it.Name == "" {
		return fmt.Errorf("name is required")
	}
	if it.Status == "" {
		it.Status = StatusActive
	}
	if !validStatus(it.Status) {
		return fmt.Errorf("invalid status %q", it.Status)
	}
	if err := s.catalog.CreateItem(ctx, model, it); err != nil {
		return err
	}
	s.publish("created", it.ID)
	return nil
}

func (s *Service) UpdateItem(ctx context.Context, model string, it *Item) error {
	if !IsItemModel(model) {
		return fmt.Errorf("unknown catalog model %q", model)
	}
	if it.Name == "" {
		return fmt.Errorf("name is required")
	}
	if !validStatus(it.Status) {
		return fmt.Errorf("invalid status %q", it.Status)
	}
	if err := s.catalog.UpdateItem(ctx, model, it); err != nil {
		return err
	}
	s.publish("updated", it.ID)
	return nil
}

func (s *Service) DeleteItem(ctx context.Context, model string, id uuid.UUID) error {
	if !IsItemModel(model) {
		return fmt.Errorf("unknown catalog model %q", model)
	}
	if err := s.catalog.DeleteItem(ctx, model, id); err != nil {
		return err
	}
	s.publish("deleted", id)
	return nil
}
