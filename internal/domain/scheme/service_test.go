package scheme

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/medscheme/medscheme/internal/domain/company"
	"github.com/medscheme/medscheme/internal/platform/events"
)

// =========== Mock Repositories ===========

type mockSchemeRepo struct {
	schemes map[uuid.UUID]*Scheme
	periods map[uuid.UUID][]*SchemePeriod
	names   map[uuid.UUID]string // company names
}

func newMockSchemeRepo() *mockSchemeRepo {
	return &mockSchemeRepo{
		schemes: make(map[uuid.UUID]*Scheme),
		periods: make(map[uuid.UUID][]*SchemePeriod),
		names:   make(map[uuid.UUID]string),
	}
}

func (m *mockSchemeRepo) Create(_ context.Context, s *Scheme) error {
	s.ID = uuid.New()
	s.CreatedAt = time.Now()
	m.schemes[s.ID] = s
	return nil
}

func (m *mockSchemeRepo) GetByID(_ context.Context, id uuid.UUID) (*Scheme, error) {
	s, ok := m.schemes[id]
	if !ok || s.DeletedAt != nil {
		return nil, fmt.Errorf("not found")
	}
	cp := m.current(id)
	s.CurrentPeriod = cp
	s.TotalPeriods = len(m.periods[id])
	s.CompanyName = m.names[s.CompanyID]
	return s, nil
}

func (m *mockSchemeRepo) current(id uuid.UUID) *SchemePeriod {
	for _, p := range m.periods[id] {
		if p.IsCurrent {
			return p
		}
	}
	return nil
}

func (m *mockSchemeRepo) Update(_ context.Context, s *Scheme) error {
	if _, ok := m.schemes[s.ID]; !ok {
		return fmt.Errorf("not found")
	}
	m.schemes[s.ID] = s
	return nil
}

func (m *mockSchemeRepo) UpdateStatus(_ context.Context, id uuid.UUID, status string, reason *string) error {
	s, ok := m.schemes[id]
	if !ok || s.DeletedAt != nil {
		return fmt.Errorf("not found")
	}
	s.Status = status
	s.SuspensionReason = reason
	return nil
}

func (m *mockSchemeRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	s, ok := m.schemes[id]
	if !ok || s.DeletedAt != nil {
		return fmt.Errorf("not found")
	}
	now := time.Now()
	s.DeletedAt = &now
	return nil
}

func (m *mockSchemeRepo) HardDelete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.schemes[id]; !ok {
		return fmt.Errorf("not found")
	}
	delete(m.schemes, id)
	delete(m.periods, id)
	return nil
}

func (m *mockSchemeRepo) ListAll(_ context.Context) ([]*Scheme, error) {
	var result []*Scheme
	for id, s := range m.schemes {
		if s.DeletedAt != nil {
			continue
		}
		s.CurrentPeriod = m.current(id)
		s.TotalPeriods = len(m.periods[id])
		s.CompanyName = m.names[s.CompanyID]
		result = append(result, s)
	}
	return result, nil
}

func (m *mockSchemeRepo) CardCodeExists(_ context.Context, companyID uuid.UUID, code string, excludeID uuid.UUID) (bool, error) {
	for _, s := range m.schemes {
		if s.DeletedAt == nil && s.CompanyID == companyID && s.CardCode == code && s.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockSchemeRepo) CreatePeriod(_ context.Context, p *SchemePeriod) error {
	p.ID = uuid.New()
	m.periods[p.SchemeID] = append(m.periods[p.SchemeID], p)
	return nil
}

func (m *mockSchemeRepo) GetCurrentPeriod(_ context.Context, schemeID uuid.UUID) (*SchemePeriod, error) {
	if p := m.current(schemeID); p != nil {
		return p, nil
	}
	return nil, fmt.Errorf("no current period")
}

func (m *mockSchemeRepo) ListPeriods(_ context.Context, schemeID uuid.UUID) ([]*SchemePeriod, error) {
	return m.periods[schemeID], nil
}

func (m *mockSchemeRepo) CloseCurrentPeriod(_ context.Context, schemeID uuid.UUID, termination, renewal time.Time) error {
	for _, p := range m.periods[schemeID] {
		if p.IsCurrent {
			p.IsCurrent = false
			if p.TerminationDate == nil {
				t := termination
				p.TerminationDate = &t
			}
			r := renewal
			p.RenewalDate = &r
		}
	}
	return nil
}

type mockCompanyRepo struct {
	store map[uuid.UUID]*company.Company
}

func (m *mockCompanyRepo) Create(_ context.Context, co *company.Company) error {
	co.ID = uuid.New()
	m.store[co.ID] = co
	return nil
}

func (m *mockCompanyRepo) GetByID(_ context.Context, id uuid.UUID) (*company.Company, error) {
	co, ok := m.store[id]
	if !ok {
		return nil, fmt.Errorf("not found")
	}
	return co, nil
}

func (m *mockCompanyRepo) Update(_ context.Context, co *company.Company) error { return nil }
func (m *mockCompanyRepo) Delete(_ context.Context, id uuid.UUID) error       { return nil }
func (m *mockCompanyRepo) List(_ context.Context, status string) ([]*company.Company, error) {
	return nil, nil
}

// =========== Helpers ===========

func noTx(ctx context.Context, fn func(ctx context.Context) error) error { return fn(ctx) }

type fixture struct {
	svc       *Service
	repo      *mockSchemeRepo
	bus       *events.Bus
	companyID uuid.UUID
}

func newFixture() *fixture {
	repo := newMockSchemeRepo()
	companies := &mockCompanyRepo{store: make(map[uuid.UUID]*company.Company)}
	co := &company.Company{Name: "Umeme Ltd", Status: company.StatusActive}
	_ = companies.Create(context.Background(), co)
	repo.names[co.ID] = co.Name
	bus := events.NewBus()
	return &fixture{svc: NewService(repo, companies, bus, noTx), repo: repo, bus: bus, companyID: co.ID}
}

func limitOf(n int64) *decimal.Decimal {
	d := decimal.NewFromInt(n)
	return &d
}

func (f *fixture) create(t *testing.T, name, code string) *Scheme {
	t.Helper()
	start := day("2024-01-01")
	sch, err := f.svc.CreateScheme(context.Background(), &CreateSchemeInput{
		Name: name, CardCode: code, CompanyID: f.companyID, IsRenewable: true,
		StartDate: &start, LimitAmount: limitOf(5000000),
	})
	if err != nil {
		t.Fatalf("create scheme: %v", err)
	}
	return sch
}

// =========== Create ===========

func TestCreateScheme_DerivesEndDate(t *testing.T) {
	f := newFixture()
	sch := f.create(t, "Corporate Gold", "ABC")

	if sch.CurrentPeriod == nil {
		t.Fatal("expected initial period")
	}
	if !sch.CurrentPeriod.EndDate.Equal(day("2025-01-01")) {
		t.Errorf("derived end = %s, want 2025-01-01", sch.CurrentPeriod.EndDate.Format("2006-01-02"))
	}
	if sch.CurrentPeriod.PeriodNumber != 1 {
		t.Errorf("first period number = %d, want 1", sch.CurrentPeriod.PeriodNumber)
	}
	if !sch.CurrentPeriod.IsCurrent {
		t.Error("initial period must be current")
	}
	if sch.Status != StatusActive {
		t.Errorf("new scheme status = %q, want ACTIVE", sch.Status)
	}
}

func TestCreateScheme_NormalizesCardCode(t *testing.T) {
	f := newFixture()
	sch := f.create(t, "Corporate Gold", "abc")
	if sch.CardCode != "ABC" {
		t.Errorf("card code = %q, want ABC", sch.CardCode)
	}
}

func TestCreateScheme_RejectsShortCardCode(t *testing.T) {
	f := newFixture()
	start := day("2024-01-01")
	_, err := f.svc.CreateScheme(context.Background(), &CreateSchemeInput{
		Name: "Corporate Gold", CardCode: "ab", CompanyID: f.companyID,
		StartDate: &start, LimitAmount: limitOf(1000),
	})
	if err == nil {
		t.Fatal("expected error for 2-char card code")
	}
	if len(f.repo.schemes) != 0 {
		t.Error("validation failure must not write to the repository")
	}
}

func TestCreateScheme_RejectsShortName(t *testing.T) {
	f := newFixture()
	start := day("2024-01-01")
	_, err := f.svc.CreateScheme(context.Background(), &CreateSchemeInput{
		Name: "X", CardCode: "ABC", CompanyID: f.companyID,
		StartDate: &start, LimitAmount: limitOf(1000),
	})
	if err == nil {
		t.Fatal("expected error for 1-char name")
	}
}

func TestCreateScheme_RejectsUnknownCompany(t *testing.T) {
	f := newFixture()
	start := day("2024-01-01")
	_, err := f.svc.CreateScheme(context.Background(), &CreateSchemeInput{
		Name: "Corporate Gold", CardCode: "ABC", CompanyID: uuid.New(),
		StartDate: &start, LimitAmount: limitOf(1000),
	})
	if err == nil {
		t.Fatal("expected error for unknown company")
	}
}

func TestCreateScheme_RejectsZeroLimit(t *testing.T) {
	f := newFixture()
	start := day("2024-01-01")
	_, err := f.svc.CreateScheme(context.Background(), &CreateSchemeInput{
		Name: "Corporate Gold", CardCode: "ABC", CompanyID: f.companyID,
		StartDate: &start, LimitAmount: limitOf(0),
	})
	if err == nil {
		t.Fatal("expected error for zero limit")
	}
}

func TestCreateScheme_RejectsInvertedDates(t *testing.T) {
	f := newFixture()
	start := day("2024-06-01")
	end := day("2024-01-01")
	_, err := f.svc.CreateScheme(context.Background(), &CreateSchemeInput{
		Name: "Corporate Gold", CardCode: "ABC", CompanyID: f.companyID,
		StartDate: &start, EndDate: &end, LimitAmount: limitOf(1000),
	})
	if err == nil {
		t.Fatal("expected error for end before start")
	}
}

func TestCreateScheme_DerivesStartFromEnd(t *testing.T) {
	f := newFixture()
	end := day("2025-01-01")
	sch, err := f.svc.CreateScheme(context.Background(), &CreateSchemeInput{
		Name: "Corporate Gold", CardCode: "ABC", CompanyID: f.companyID,
		EndDate: &end, LimitAmount: limitOf(1000),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !sch.CurrentPeriod.StartDate.Equal(day("2024-01-01")) {
		t.Errorf("derived start = %s, want 2024-01-01", sch.CurrentPeriod.StartDate.Format("2006-01-02"))
	}
}

func TestCreateScheme_DuplicateCardCodeInCompany(t *testing.T) {
	f := newFixture()
	f.create(t, "First Scheme", "ABC")
	start := day("2024-01-01")
	_, err := f.svc.CreateScheme(context.Background(), &CreateSchemeInput{
		Name: "Second Scheme", CardCode: "abc", CompanyID: f.companyID,
		StartDate: &start, LimitAmount: limitOf(1000),
	})
	if err == nil {
		t.Fatal("expected error for duplicate card code within company")
	}
}

func TestCreateScheme_PublishesEvent(t *testing.T) {
	f := newFixture()
	var got []events.Event
	f.bus.Subscribe(events.SubscriberFunc(func(e events.Event) { got = append(got, e) }), events.TopicScheme)
	f.create(t, "Corporate Gold", "ABC")
	if len(got) != 1 || got[0].Action != "created" {
		t.Fatalf("expected one created event, got %+v", got)
	}
}

// =========== Update ===========

func TestUpdateScheme_MetadataOnly(t *testing.T) {
	f := newFixture()
	sch := f.create(t, "Corporate Gold", "ABC")
	before := *sch.CurrentPeriod

	updated, err := f.svc.UpdateScheme(context.Background(), sch.ID, &UpdateSchemeInput{
		Name: "Corporate Platinum", CardCode: "XYZ", CompanyID: f.companyID, IsRenewable: true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Name != "Corporate Platinum" || updated.CardCode != "XYZ" {
		t.Errorf("metadata not updated: %+v", updated)
	}
	after, _ := f.repo.GetCurrentPeriod(context.Background(), sch.ID)
	if !after.StartDate.Equal(before.StartDate) || !after.EndDate.Equal(before.EndDate) {
		t.Error("update must not touch periods")
	}
}

// =========== Lifecycle ===========

func TestSuspend_RequiresReason(t *testing.T) {
	f := newFixture()
	sch := f.create(t, "Corporate Gold", "ABC")
	if err := f.svc.Suspend(context.Background(), sch.ID, "  "); err == nil {
		t.Fatal("expected error for blank reason")
	}
	if err := f.svc.Suspend(context.Background(), sch.ID, "nonpayment of premiums"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, _ := f.svc.GetScheme(context.Background(), sch.ID)
	if got.Status != StatusSuspended {
		t.Errorf("status = %q, want SUSPENDED", got.Status)
	}
	if got.SuspensionReason == nil || *got.SuspensionReason != "nonpayment of premiums" {
		t.Error("suspension reason not stored")
	}
}

func TestActivate_ClearsSuspensionReason(t *testing.T) {
	f := newFixture()
	sch := f.create(t, "Corporate Gold", "ABC")
	_ = f.svc.Suspend(context.Background(), sch.ID, "audit pending")
	if err := f.svc.Activate(context.Background(), sch.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, _ := f.svc.GetScheme(context.Background(), sch.ID)
	if got.Status != StatusActive || got.SuspensionReason != nil {
		t.Errorf("expected ACTIVE with no reason, got %q / %v", got.Status, got.SuspensionReason)
	}
}

func TestDeleteScheme_SoftThenGone(t *testing.T) {
	f := newFixture()
	sch := f.create(t, "Corporate Gold", "ABC")
	if err := f.svc.DeleteScheme(context.Background(), sch.ID, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := f.svc.GetScheme(context.Background(), sch.ID); err == nil {
		t.Error("soft-deleted scheme must not be readable")
	}
	// row still present for hard delete
	if _, ok := f.repo.schemes[sch.ID]; !ok {
		t.Error("soft delete must keep the row")
	}
}

func TestDeleteScheme_Hard(t *testing.T) {
	f := newFixture()
	sch := f.create(t, "Corporate Gold", "ABC")
	if err := f.svc.DeleteScheme(context.Background(), sch.ID, true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := f.repo.schemes[sch.ID]; ok {
		t.Error("hard delete must remove the row")
	}
}

// =========== Renew ===========

func TestRenew_OpensNextPeriod(t *testing.T) {
	f := newFixture()
	sch := f.create(t, "Corporate Gold", "ABC")

	next, err := f.svc.Renew(context.Background(), sch.ID, &RenewInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if next.PeriodNumber != 2 {
		t.Errorf("next period number = %d, want 2", next.PeriodNumber)
	}
	if !next.StartDate.Equal(day("2025-01-01")) || !next.EndDate.Equal(day("2026-01-01")) {
		t.Errorf("rolled dates wrong: %s .. %s",
			next.StartDate.Format("2006-01-02"), next.EndDate.Format("2006-01-02"))
	}
	if !next.IsCurrent {
		t.Error("new period must be current")
	}

	periods, _ := f.repo.ListPeriods(context.Background(), sch.ID)
	currents := 0
	for _, p := range periods {
		if p.IsCurrent {
			currents++
		}
	}
	if currents != 1 {
		t.Errorf("expected exactly one current period, got %d", currents)
	}
	if periods[0].TerminationDate == nil || !periods[0].TerminationDate.Equal(day("2025-01-02")) {
		t.Error("closed period must carry the derived termination date")
	}
}

func TestRenew_NotRenewable(t *testing.T) {
	f := newFixture()
	start := day("2024-01-01")
	sch, err := f.svc.CreateScheme(context.Background(), &CreateSchemeInput{
		Name: "One Shot", CardCode: "ONE", CompanyID: f.companyID, IsRenewable: false,
		StartDate: &start, LimitAmount: limitOf(1000),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := f.svc.Renew(context.Background(), sch.ID, nil); err == nil {
		t.Fatal("expected error for non-renewable scheme")
	}
}

func TestRenew_KeepsExistingTermination(t *testing.T) {
	f := newFixture()
	sch := f.create(t, "Corporate Gold", "ABC")
	early := day("2024-09-30")
	cur, _ := f.repo.GetCurrentPeriod(context.Background(), sch.ID)
	cur.TerminationDate = &early

	if _, err := f.svc.Renew(context.Background(), sch.ID, &RenewInput{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	periods, _ := f.repo.ListPeriods(context.Background(), sch.ID)
	if !periods[0].TerminationDate.Equal(early) {
		t.Error("pre-existing termination date must be preserved")
	}
}

// =========== Directory ===========

func TestListSchemes_SearchMatchesSubstring(t *testing.T) {
	f := newFixture()
	f.create(t, "ABCDE", "AAA")
	f.create(t, "Other", "BBB")

	items, total, page, err := f.svc.ListSchemes(context.Background(), ListParams{Search: "abc", Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 1 || len(items) != 1 || items[0].Name != "ABCDE" {
		t.Fatalf("unexpected search result: total=%d items=%+v", total, items)
	}
	if page != 1 {
		t.Errorf("page = %d, want 1", page)
	}
}

func TestListSchemes_ClearingSearchRestoresAll(t *testing.T) {
	f := newFixture()
	f.create(t, "ABCDE", "AAA")
	f.create(t, "Other", "BBB")

	_, total, _, _ := f.svc.ListSchemes(context.Background(), ListParams{Search: "abc", Page: 1, PageSize: 10})
	if total != 1 {
		t.Fatalf("filtered total = %d, want 1", total)
	}
	_, total, page, _ := f.svc.ListSchemes(context.Background(), ListParams{Search: "", Page: 5, PageSize: 10})
	if total != 2 {
		t.Fatalf("unfiltered total = %d, want 2", total)
	}
	if page != 1 {
		t.Errorf("out-of-range page must reset to 1, got %d", page)
	}
}

func TestListSchemes_OrderingByName(t *testing.T) {
	f := newFixture()
	f.create(t, "Zebra Plan", "ZZZ")
	f.create(t, "Alpha Plan", "AAA")

	items, _, _, err := f.svc.ListSchemes(context.Background(), ListParams{Ordering: "name", Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if items[0].Name != "Alpha Plan" || items[1].Name != "Zebra Plan" {
		t.Errorf("ascending name order wrong: %s, %s", items[0].Name, items[1].Name)
	}

	items, _, _, _ = f.svc.ListSchemes(context.Background(), ListParams{Ordering: "-name", Page: 1, PageSize: 10})
	if items[0].Name != "Zebra Plan" {
		t.Errorf("descending name order wrong: %s", items[0].Name)
	}
}

func TestListSchemes_StatusFilter(t *testing.T) {
	f := newFixture()
	a := f.create(t, "Active Plan", "AAA")
	b := f.create(t, "Dormant Plan", "BBB")
	_ = f.svc.Deactivate(context.Background(), b.ID)

	items, total, _, err := f.svc.ListSchemes(context.Background(), ListParams{Status: StatusActive, Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 1 || items[0].ID != a.ID {
		t.Fatalf("unexpected filter result: total=%d", total)
	}
}

func TestListSchemes_AttachesExpiry(t *testing.T) {
	f := newFixture()
	f.create(t, "Corporate Gold", "ABC")
	items, _, _, err := f.svc.ListSchemes(context.Background(), ListParams{Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if items[0].Expiry == "" || items[0].Expiry == ExpiryUnknown {
		t.Errorf("expected concrete expiry classification, got %q", items[0].Expiry)
	}
}
