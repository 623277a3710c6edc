package company

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Service provides business logic for the company domain.
type Service struct {
	companies CompanyRepository
}

// NewService creates a new company domain service.
func NewService(companies CompanyRepository) *Service {
	return &Service{companies: companies}
}

func (s *Service) CreateCompany(ctx context.Context, co *Company) error {
	if co.Name == "" {
		return fmt.Errorf("name is required")
	}
	if co.Status != "" && co.Status != StatusActive && co.Status != StatusInactive {
		return fmt.Errorf("invalid status %q", co.Status)
	}
	return s.companies.Create(ctx, co)
}

func (s *Service) GetCompany(ctx context.Context, id uuid.UUID) (*Company, error) {
	return s.companies.GetByID(ctx, id)
}

func (s *Service) UpdateCompany(ctx context.Context, co *Company) error {
	if co.Name == "" {
		return fmt.Errorf("name is required")
	}
	if co.Status != StatusActive && co.Status != StatusInactive {
		return fmt.Errorf("invalid status %q", co.Status)
	}
	return s.companies.Update(ctx, co)
}

func (s *Service) DeleteCompany(ctx context.Context, id uuid.UUID) error {
	return s.companies.Delete(ctx, id)
}

func (s *Service) ListCompanies(ctx context.Context, status string) ([]*Company, error) {
	return s.companies.List(ctx, status)
}
