package member

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/medscheme/medscheme/internal/domain/scheme"
	"github.com/medscheme/medscheme/internal/platform/events"
)

type mockMemberRepo struct {
	store map[uuid.UUID]*Member
}

func newMockMemberRepo() *mockMemberRepo {
	return &mockMemberRepo{store: make(map[uuid.UUID]*Member)}
}

func (m *mockMemberRepo) Create(ctx context.Context, mem *Member) error {
	mem.ID = uuid.New()
	mem.CreatedAt = time.Now()
	mem.UpdatedAt = mem.CreatedAt
	cp := *mem
	m.store[mem.ID] = &cp
	return nil
}

func (m *mockMemberRepo) GetByID(ctx context.Context, id uuid.UUID) (*Member, error) {
	mem, ok := m.store[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *mem
	return &cp, nil
}

func (m *mockMemberRepo) GetByNumber(ctx context.Context, schemeID uuid.UUID, number string) (*Member, error) {
	for _, mem := range m.store {
		if mem.SchemeID == schemeID && mem.MemberNumber == number {
			cp := *mem
			return &cp, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (m *mockMemberRepo) ListByScheme(ctx context.Context, schemeID uuid.UUID, status string) ([]*Member, error) {
	var out []*Member
	for _, mem := range m.store {
		if mem.SchemeID != schemeID {
			continue
		}
		if status != "" && mem.Status != status {
			continue
		}
		cp := *mem
		out = append(out, &cp)
	}
	return out, nil
}

func (m *mockMemberRepo) ListDependants(ctx context.Context, principalID uuid.UUID) ([]*Member, error) {
	var out []*Member
	for _, mem := range m.store {
		if mem.PrincipalID != nil && *mem.PrincipalID == principalID {
			cp := *mem
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *mockMemberRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string, terminatedAt *time.Time) error {
	mem, ok := m.store[id]
	if !ok {
		return pgx.ErrNoRows
	}
	mem.Status = status
	mem.TerminatedAt = terminatedAt
	return nil
}

func (m *mockMemberRepo) CountByScheme(ctx context.Context, schemeID uuid.UUID, status string) (int, error) {
	list, _ := m.ListByScheme(ctx, schemeID, status)
	return len(list), nil
}

type mockSchemeGetter struct {
	schemes map[uuid.UUID]*scheme.Scheme
}

func (m *mockSchemeGetter) GetScheme(ctx context.Context, id uuid.UUID) (*scheme.Scheme, error) {
	s, ok := m.schemes[id]
	if !ok {
		return nil, fmt.Errorf("scheme %s: %w", id, pgx.ErrNoRows)
	}
	return s, nil
}

func noTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fixture struct {
	svc      *Service
	repo     *mockMemberRepo
	schemes  *mockSchemeGetter
	schemeID uuid.UUID
}

func newFixture(t *testing.T, familyApplicable bool) *fixture {
	t.Helper()
	repo := newMockMemberRepo()
	schemeID := uuid.New()
	getter := &mockSchemeGetter{schemes: map[uuid.UUID]*scheme.Scheme{
		schemeID: {
			ID:               schemeID,
			Name:             "Gold Cover",
			CardCode:         "GLD",
			Status:           scheme.StatusActive,
			FamilyApplicable: familyApplicable,
		},
	}}
	svc := NewService(repo, getter, events.NewBus(), noTx)
	return &fixture{svc: svc, repo: repo, schemes: getter, schemeID: schemeID}
}

func (f *fixture) enroll(t *testing.T, number string, principal *uuid.UUID) *Member {
	t.Helper()
	m, err := f.svc.Enroll(context.Background(), f.schemeID, EnrollInput{
		MemberNumber: number,
		GivenName:    "Akello",
		FamilyName:   "Okello",
		PrincipalID:  principal,
	})
	if err != nil {
		t.Fatalf("enroll %s: %v", number, err)
	}
	return m
}

func TestEnroll_Principal(t *testing.T) {
	f := newFixture(t, false)

	m := f.enroll(t, "m-001", nil)
	if !m.IsPrincipal {
		t.Error("member without a principal reference should be a principal")
	}
	if m.MemberNumber != "M-001" {
		t.Errorf("member number not normalized: %q", m.MemberNumber)
	}
	if m.Status != StatusActive {
		t.Errorf("status = %q, want %q", m.Status, StatusActive)
	}
	if m.EnrolledAt.IsZero() {
		t.Error("enrolled_at not set")
	}
}

func TestEnroll_DuplicateNumber(t *testing.T) {
	f := newFixture(t, false)
	f.enroll(t, "M-001", nil)

	_, err := f.svc.Enroll(context.Background(), f.schemeID, EnrollInput{
		MemberNumber: "m-001", GivenName: "A", FamilyName: "B",
	})
	if err == nil {
		t.Fatal("expected duplicate member number to be rejected")
	}
}

func TestEnroll_DependantRequiresFamilyCover(t *testing.T) {
	f := newFixture(t, false)
	p := f.enroll(t, "M-001", nil)

	_, err := f.svc.Enroll(context.Background(), f.schemeID, EnrollInput{
		MemberNumber: "M-002", GivenName: "A", FamilyName: "B", PrincipalID: &p.ID,
	})
	if err != ErrFamilyNotApplicable {
		t.Fatalf("err = %v, want ErrFamilyNotApplicable", err)
	}
}

func TestEnroll_Dependant(t *testing.T) {
	f := newFixture(t, true)
	p := f.enroll(t, "M-001", nil)

	d := f.enroll(t, "M-002", &p.ID)
	if d.IsPrincipal {
		t.Error("dependant flagged as principal")
	}
	if d.PrincipalID == nil || *d.PrincipalID != p.ID {
		t.Error("dependant not linked to principal")
	}
}

func TestEnroll_DependantOfDependant(t *testing.T) {
	f := newFixture(t, true)
	p := f.enroll(t, "M-001", nil)
	d := f.enroll(t, "M-002", &p.ID)

	_, err := f.svc.Enroll(context.Background(), f.schemeID, EnrollInput{
		MemberNumber: "M-003", GivenName: "A", FamilyName: "B", PrincipalID: &d.ID,
	})
	if err == nil {
		t.Fatal("expected nested dependant to be rejected")
	}
}

func TestEnroll_InactiveScheme(t *testing.T) {
	f := newFixture(t, false)
	f.schemes.schemes[f.schemeID].Status = scheme.StatusSuspended

	_, err := f.svc.Enroll(context.Background(), f.schemeID, EnrollInput{
		MemberNumber: "M-001", GivenName: "A", FamilyName: "B",
	})
	if err == nil {
		t.Fatal("expected enrollment under a suspended scheme to fail")
	}
	if len(f.repo.store) != 0 {
		t.Error("member written despite rejected enrollment")
	}
}

func TestEnroll_MissingNames(t *testing.T) {
	f := newFixture(t, false)

	_, err := f.svc.Enroll(context.Background(), f.schemeID, EnrollInput{
		MemberNumber: "M-001", GivenName: "  ", FamilyName: "B",
	})
	if err == nil {
		t.Fatal("expected blank given_name to be rejected")
	}
}

func TestTerminate_Principal_CascadesToDependants(t *testing.T) {
	f := newFixture(t, true)
	p := f.enroll(t, "M-001", nil)
	d1 := f.enroll(t, "M-002", &p.ID)
	d2 := f.enroll(t, "M-003", &p.ID)

	got, err := f.svc.Terminate(context.Background(), p.ID)
	if err != nil {
		t.Fatalf("terminate: %v", err)
	}
	if got.Status != StatusTerminated || got.TerminatedAt == nil {
		t.Errorf("principal not terminated: %+v", got)
	}
	for _, id := range []uuid.UUID{d1.ID, d2.ID} {
		dep := f.repo.store[id]
		if dep.Status != StatusTerminated {
			t.Errorf("dependant %s still %s after principal termination", dep.MemberNumber, dep.Status)
		}
	}
}

func TestTerminate_Dependant_LeavesPrincipal(t *testing.T) {
	f := newFixture(t, true)
	p := f.enroll(t, "M-001", nil)
	d := f.enroll(t, "M-002", &p.ID)

	if _, err := f.svc.Terminate(context.Background(), d.ID); err != nil {
		t.Fatalf("terminate: %v", err)
	}
	if f.repo.store[p.ID].Status != StatusActive {
		t.Error("principal terminated by dependant termination")
	}
}

func TestTerminate_AlreadyTerminated(t *testing.T) {
	f := newFixture(t, false)
	p := f.enroll(t, "M-001", nil)

	if _, err := f.svc.Terminate(context.Background(), p.ID); err != nil {
		t.Fatalf("first terminate: %v", err)
	}
	if _, err := f.svc.Terminate(context.Background(), p.ID); err == nil {
		t.Fatal("expected second termination to fail")
	}
}

func TestEnroll_PublishesEvent(t *testing.T) {
	f := newFixture(t, false)

	var got []string
	f.svc.bus.Subscribe(events.SubscriberFunc(func(e events.Event) {
		got = append(got, e.Action)
	}), events.TopicMember)

	f.enroll(t, "M-001", nil)
	if len(got) != 1 || got[0] != "enrolled" {
		t.Errorf("events = %v, want [enrolled]", got)
	}
}

func TestListMembers_StatusFilter(t *testing.T) {
	f := newFixture(t, true)
	p := f.enroll(t, "M-001", nil)
	f.enroll(t, "M-002", &p.ID)

	d := f.repo.storeByNumber("M-002")
	now := time.Now()
	f.repo.UpdateStatus(context.Background(), d.ID, StatusTerminated, &now)

	active, err := f.svc.ListMembers(context.Background(), f.schemeID, StatusActive)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(active) != 1 || active[0].MemberNumber != "M-001" {
		t.Errorf("active roster = %v", active)
	}

	if _, err := f.svc.ListMembers(context.Background(), f.schemeID, "BOGUS"); err == nil {
		t.Error("expected invalid status filter to be rejected")
	}
}

func (m *mockMemberRepo) storeByNumber(number string) *Member {
	for _, mem := range m.store {
		if mem.MemberNumber == number {
			return mem
		}
	}
	return nil
}
