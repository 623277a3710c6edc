package scheme

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/medscheme/medscheme/internal/domain/company"
	"github.com/medscheme/medscheme/internal/platform/events"
	"github.com/medscheme/medscheme/pkg/listview"
)

// TxRunner runs fn atomically. Production wiring passes a closure over
// db.WithTx; tests pass the identity runner.
type TxRunner func(ctx context.Context, fn func(ctx context.Context) error) error

// Service provides business logic for the scheme domain.
type Service struct {
	schemes   SchemeRepository
	companies company.CompanyRepository
	bus       *events.Bus
	runTx     TxRunner
	now       func() time.Time
}

// NewService creates a new scheme domain service.
func NewService(schemes SchemeRepository, companies company.CompanyRepository, bus *events.Bus, runTx TxRunner) *Service {
	return &Service{schemes: schemes, companies: companies, bus: bus, runTx: runTx, now: time.Now}
}

// CreateSchemeInput carries a new scheme plus its initial coverage period.
// The scheme is never created without one.
type CreateSchemeInput struct {
	Name             string           `json:"name"`
	CardCode         string           `json:"card_code"`
	CompanyID        uuid.UUID        `json:"company_id"`
	IsRenewable      bool             `json:"is_renewable"`
	FamilyApplicable bool             `json:"family_applicable"`
	Description      *string          `json:"description"`
	Remark           *string          `json:"remark"`
	StartDate        *time.Time       `json:"start_date"`
	EndDate          *time.Time       `json:"end_date"`
	LimitAmount      *decimal.Decimal `json:"limit_amount"`
}

func (s *Service) validateMetadata(ctx context.Context, name string, companyID uuid.UUID, cardCode string, excludeID uuid.UUID) (string, error) {
	if len(strings.TrimSpace(name)) < 2 {
		return "", fmt.Errorf("name must be at least 2 characters")
	}
	if companyID == uuid.Nil {
		return "", fmt.Errorf("company_id is required")
	}
	if _, err := s.companies.GetByID(ctx, companyID); err != nil {
		return "", fmt.Errorf("company %s not found", companyID)
	}
	code, err := NormalizeCardCode(cardCode)
	if err != nil {
		return "", err
	}
	exists, err := s.schemes.CardCodeExists(ctx, companyID, code, excludeID)
	if err != nil {
		return "", err
	}
	if exists {
		return "", fmt.Errorf("card_code %s already used within company", code)
	}
	return code, nil
}

// resolvePeriodDates fills in whichever bound is missing using the one-year
// derivation and checks ordering.
func resolvePeriodDates(start, end *time.Time) (time.Time, time.Time, error) {
	switch {
	case start == nil && end == nil:
		return time.Time{}, time.Time{}, fmt.Errorf("start_date or end_date is required")
	case end == nil:
		return *start, DeriveEndDate(*start), nil
	case start == nil:
		return DeriveStartDate(*end), *end, nil
	}
	if !start.Before(*end) {
		return time.Time{}, time.Time{}, fmt.Errorf("end_date must be after start_date")
	}
	return *start, *end, nil
}

// CreateScheme validates everything up front and then writes the scheme and
// its first period in one transaction. Nothing is persisted on validation
// failure.
func (s *Service) CreateScheme(ctx context.Context, in *CreateSchemeInput) (*Scheme, error) {
	code, err := s.validateMetadata(ctx, in.Name, in.CompanyID, in.CardCode, uuid.Nil)
	if err != nil {
		return nil, err
	}
	start, end, err := resolvePeriodDates(in.StartDate, in.EndDate)
	if err != nil {
		return nil, err
	}
	if in.LimitAmount == nil || in.LimitAmount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("limit_amount must be greater than zero")
	}

	sch := &Scheme{
		Name:             strings.TrimSpace(in.Name),
		CardCode:         code,
		CompanyID:        in.CompanyID,
		IsRenewable:      in.IsRenewable,
		FamilyApplicable: in.FamilyApplicable,
		Description:      in.Description,
		Remark:           in.Remark,
		Status:           StatusActive,
	}
	err = s.runTx(ctx, func(ctx context.Context) error {
		if err := s.schemes.Create(ctx, sch); err != nil {
			return err
		}
		period := &SchemePeriod{
			SchemeID:     sch.ID,
			PeriodNumber: 1,
			StartDate:    start,
			EndDate:      end,
			LimitAmount:  *in.LimitAmount,
			IsCurrent:    true,
		}
		if err := s.schemes.CreatePeriod(ctx, period); err != nil {
			return err
		}
		sch.CurrentPeriod = period
		sch.TotalPeriods = 1
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.bus.Publish(events.TopicScheme, "created", sch.ID)
	sch.Expiry = ClassifyExpiry(sch.CurrentPeriod, s.now())
	return sch, nil
}

// UpdateSchemeInput mutates metadata only. Periods and status never change
// through this path.
type UpdateSchemeInput struct {
	Name             string    `json:"name"`
	CardCode         string    `json:"card_code"`
	CompanyID        uuid.UUID `json:"company_id"`
	IsRenewable      bool      `json:"is_renewable"`
	FamilyApplicable bool      `json:"family_applicable"`
	Description      *string   `json:"description"`
	Remark           *string   `json:"remark"`
}

func (s *Service) UpdateScheme(ctx context.Context, id uuid.UUID, in *UpdateSchemeInput) (*Scheme, error) {
	existing, err := s.schemes.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	code, err := s.validateMetadata(ctx, in.Name, in.CompanyID, in.CardCode, id)
	if err != nil {
		return nil, err
	}
	existing.Name = strings.TrimSpace(in.Name)
	existing.CardCode = code
	existing.CompanyID = in.CompanyID
	existing.IsRenewable = in.IsRenewable
	existing.FamilyApplicable = in.FamilyApplicable
	existing.Description = in.Description
	existing.Remark = in.Remark
	if err := s.schemes.Update(ctx, existing); err != nil {
		return nil, err
	}
	s.bus.Publish(events.TopicScheme, "updated", id)
	existing.Expiry = ClassifyExpiry(existing.CurrentPeriod, s.now())
	return existing, nil
}

func (s *Service) GetScheme(ctx context.Context, id uuid.UUID) (*Scheme, error) {
	sch, err := s.schemes.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	sch.Expiry = ClassifyExpiry(sch.CurrentPeriod, s.now())
	return sch, nil
}

func (s *Service) ListPeriods(ctx context.Context, schemeID uuid.UUID) ([]*SchemePeriod, error) {
	if _, err := s.schemes.GetByID(ctx, schemeID); err != nil {
		return nil, err
	}
	return s.schemes.ListPeriods(ctx, schemeID)
}

// -- Lifecycle --

func (s *Service) Activate(ctx context.Context, id uuid.UUID) error {
	if err := s.schemes.UpdateStatus(ctx, id, StatusActive, nil); err != nil {
		return err
	}
	s.bus.Publish(events.TopicScheme, "updated", id)
	return nil
}

func (s *Service) Deactivate(ctx context.Context, id uuid.UUID) error {
	if err := s.schemes.UpdateStatus(ctx, id, StatusInactive, nil); err != nil {
		return err
	}
	s.bus.Publish(events.TopicScheme, "updated", id)
	return nil
}

func (s *Service) Suspend(ctx context.Context, id uuid.UUID, reason string) error {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return fmt.Errorf("reason is required")
	}
	if err := s.schemes.UpdateStatus(ctx, id, StatusSuspended, &reason); err != nil {
		return err
	}
	s.bus.Publish(events.TopicScheme, "updated", id)
	return nil
}

func (s *Service) DeleteScheme(ctx context.Context, id uuid.UUID, hard bool) error {
	var err error
	if hard {
		err = s.schemes.HardDelete(ctx, id)
	} else {
		err = s.schemes.SoftDelete(ctx, id)
	}
	if err != nil {
		return err
	}
	s.bus.Publish(events.TopicScheme, "deleted", id)
	return nil
}

// RenewInput optionally overrides the next period's bounds and ceiling;
// omitted fields roll forward from the closing period.
type RenewInput struct {
	StartDate   *time.Time       `json:"start_date"`
	EndDate     *time.Time       `json:"end_date"`
	LimitAmount *decimal.Decimal `json:"limit_amount"`
}

// Renew closes the current period and opens the next one. The closing
// period keeps its termination date if already stamped, otherwise it gets
// the auto-derived marker.
func (s *Service) Renew(ctx context.Context, id uuid.UUID, in *RenewInput) (*SchemePeriod, error) {
	sch, err := s.schemes.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !sch.IsRenewable {
		return nil, fmt.Errorf("scheme is not renewable")
	}
	current, err := s.schemes.GetCurrentPeriod(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("scheme has no current period")
	}

	start := current.EndDate
	if in != nil && in.StartDate != nil {
		start = *in.StartDate
	}
	end := DeriveEndDate(start)
	if in != nil && in.EndDate != nil {
		end = *in.EndDate
	}
	if !start.Before(end) {
		return nil, fmt.Errorf("end_date must be after start_date")
	}
	limit := current.LimitAmount
	if in != nil && in.LimitAmount != nil {
		limit = *in.LimitAmount
	}
	if limit.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("limit_amount must be greater than zero")
	}

	now := s.now()
	next := &SchemePeriod{
		SchemeID:     id,
		PeriodNumber: current.PeriodNumber + 1,
		StartDate:    start,
		EndDate:      end,
		LimitAmount:  limit,
		IsCurrent:    true,
	}
	err = s.runTx(ctx, func(ctx context.Context) error {
		if err := s.schemes.CloseCurrentPeriod(ctx, id, DeriveTerminationDate(current.EndDate), now); err != nil {
			return err
		}
		return s.schemes.CreatePeriod(ctx, next)
	})
	if err != nil {
		return nil, err
	}
	s.bus.Publish(events.TopicScheme, "updated", id)
	return next, nil
}

// -- Directory --

// ListParams are the directory refinements: free-text search, status and
// company filters, field ordering and paging.
type ListParams struct {
	Search   string
	Status   string
	Company  string
	Ordering string
	Page     int
	PageSize int
}

// orderings whitelists sortable fields.
var orderings = map[string]func(a, b *Scheme) bool{
	"name":         func(a, b *Scheme) bool { return strings.ToLower(a.Name) < strings.ToLower(b.Name) },
	"card_code":    func(a, b *Scheme) bool { return a.CardCode < b.CardCode },
	"company_name": func(a, b *Scheme) bool { return strings.ToLower(a.CompanyName) < strings.ToLower(b.CompanyName) },
	"status":       func(a, b *Scheme) bool { return a.Status < b.Status },
	"created_at":   func(a, b *Scheme) bool { return a.CreatedAt.Before(b.CreatedAt) },
	"end_date": func(a, b *Scheme) bool {
		if a.CurrentPeriod == nil {
			return b.CurrentPeriod != nil
		}
		if b.CurrentPeriod == nil {
			return false
		}
		return a.CurrentPeriod.EndDate.Before(b.CurrentPeriod.EndDate)
	},
}

// ListSchemes fetches the full working set and refines it in memory:
// substring search over name, company, card code and description, stable
// sort, then page slice. Returns the page items, the filtered total and
// the page actually served.
func (s *Service) ListSchemes(ctx context.Context, p ListParams) ([]*Scheme, int, int, error) {
	all, err := s.schemes.ListAll(ctx)
	if err != nil {
		return nil, 0, 0, err
	}
	now := s.now()
	for _, sch := range all {
		sch.Expiry = ClassifyExpiry(sch.CurrentPeriod, now)
	}

	filtered := all
	if p.Status != "" {
		kept := filtered[:0:0]
		for _, sch := range filtered {
			if sch.Status == p.Status {
				kept = append(kept, sch)
			}
		}
		filtered = kept
	}
	if p.Company != "" {
		kept := filtered[:0:0]
		for _, sch := range filtered {
			if sch.CompanyID.String() == p.Company {
				kept = append(kept, sch)
			}
		}
		filtered = kept
	}
	filtered = listview.Filter(filtered, p.Search, func(sch *Scheme) []string {
		fields := []string{sch.Name, sch.CompanyName, sch.CardCode}
		if sch.Description != nil {
			fields = append(fields, *sch.Description)
		}
		return fields
	})

	if p.Ordering != "" {
		field := strings.TrimPrefix(p.Ordering, "-")
		if less, ok := orderings[field]; ok {
			if strings.HasPrefix(p.Ordering, "-") {
				listview.SortStable(filtered, func(a, b *Scheme) bool { return less(b, a) })
			} else {
				listview.SortStable(filtered, less)
			}
		}
	}

	pageItems, page := listview.Page(filtered, p.Page, p.PageSize)
	return pageItems, len(filtered), page, nil
}
