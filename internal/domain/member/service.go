package member

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/medscheme/medscheme/internal/domain/scheme"
	"github.com/medscheme/medscheme/internal/platform/events"
)

// ErrFamilyNotApplicable is returned when a dependant is enrolled under a
// scheme that does not cover families.
var ErrFamilyNotApplicable = errors.New("scheme does not cover dependants")

// SchemeGetter is the slice of the scheme service the roster needs.
type SchemeGetter interface {
	GetScheme(ctx context.Context, id uuid.UUID) (*scheme.Scheme, error)
}

type TxRunner func(ctx context.Context, fn func(ctx context.Context) error) error

type Service struct {
	members MemberRepository
	schemes SchemeGetter
	bus     *events.Bus
	runTx   TxRunner
	now     func() time.Time
}

func NewService(members MemberRepository, schemes SchemeGetter, bus *events.Bus, runTx TxRunner) *Service {
	return &Service{
		members: members,
		schemes: schemes,
		bus:     bus,
		runTx:   runTx,
		now:     time.Now,
	}
}

type EnrollInput struct {
	MemberNumber string     `json:"member_number"`
	GivenName    string     `json:"given_name"`
	FamilyName   string     `json:"family_name"`
	PrincipalID  *uuid.UUID `json:"principal_id"`
}

// Enroll adds a member to a scheme. A member with a principal reference is a
// dependant; the principal must belong to the same scheme and the scheme must
// cover families.
func (s *Service) Enroll(ctx context.Context, schemeID uuid.UUID, in EnrollInput) (*Member, error) {
	sch, err := s.schemes.GetScheme(ctx, schemeID)
	if err != nil {
		return nil, fmt.Errorf("scheme not found: %w", err)
	}
	if sch.Status != scheme.StatusActive {
		return nil, fmt.Errorf("scheme %s is not active", sch.CardCode)
	}

	in.MemberNumber = strings.TrimSpace(strings.ToUpper(in.MemberNumber))
	if in.MemberNumber == "" {
		return nil, errors.New("member_number is required")
	}
	if strings.TrimSpace(in.GivenName) == "" || strings.TrimSpace(in.FamilyName) == "" {
		return nil, errors.New("given_name and family_name are required")
	}

	if existing, err := s.members.GetByNumber(ctx, schemeID, in.MemberNumber); err == nil && existing != nil {
		return nil, fmt.Errorf("member number %q already enrolled", in.MemberNumber)
	}

	m := &Member{
		SchemeID:     schemeID,
		MemberNumber: in.MemberNumber,
		GivenName:    strings.TrimSpace(in.GivenName),
		FamilyName:   strings.TrimSpace(in.FamilyName),
		IsPrincipal:  in.PrincipalID == nil,
		PrincipalID:  in.PrincipalID,
		Status:       StatusActive,
		EnrolledAt:   s.now().UTC(),
	}

	if in.PrincipalID != nil {
		if !sch.FamilyApplicable {
			return nil, ErrFamilyNotApplicable
		}
		principal, err := s.members.GetByID(ctx, *in.PrincipalID)
		if err != nil {
			return nil, fmt.Errorf("principal not found: %w", err)
		}
		if principal.SchemeID != schemeID {
			return nil, errors.New("principal belongs to a different scheme")
		}
		if !principal.IsPrincipal {
			return nil, errors.New("dependants cannot have their own dependants")
		}
		if principal.Status != StatusActive {
			return nil, errors.New("principal is not active")
		}
	}

	if err := s.members.Create(ctx, m); err != nil {
		return nil, err
	}
	s.bus.Publish(events.TopicMember, "enrolled", m.ID)
	return m, nil
}

func (s *Service) ListMembers(ctx context.Context, schemeID uuid.UUID, status string) ([]*Member, error) {
	if status != "" && status != StatusActive && status != StatusTerminated {
		return nil, fmt.Errorf("invalid status filter %q", status)
	}
	return s.members.ListByScheme(ctx, schemeID, status)
}

func (s *Service) GetMember(ctx context.Context, id uuid.UUID) (*Member, error) {
	return s.members.GetByID(ctx, id)
}

// Terminate ends a membership. Terminating a principal terminates all of
// their active dependants in the same transaction.
func (s *Service) Terminate(ctx context.Context, id uuid.UUID) (*Member, error) {
	m, err := s.members.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("member not found: %w", err)
	}
	if m.Status == StatusTerminated {
		return nil, errors.New("member is already terminated")
	}

	at := s.now().UTC()
	err = s.runTx(ctx, func(ctx context.Context) error {
		if err := s.members.UpdateStatus(ctx, m.ID, StatusTerminated, &at); err != nil {
			return err
		}
		if !m.IsPrincipal {
			return nil
		}
		deps, err := s.members.ListDependants(ctx, m.ID)
		if err != nil {
			return err
		}
		for _, d := range deps {
			if d.Status != StatusActive {
				continue
			}
			if err := s.members.UpdateStatus(ctx, d.ID, StatusTerminated, &at); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("member not found: %w", err)
		}
		return nil, err
	}

	s.bus.Publish(events.TopicMember, "terminated", m.ID)
	return s.members.GetByID(ctx, m.ID)
}
