package scheme

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

func newTestHandler() (*Handler, *fixture, *echo.Echo) {
	f := newFixture()
	return NewHandler(f.svc), f, echo.New()
}

func TestHandler_CreateScheme(t *testing.T) {
	h, f, e := newTestHandler()
	body := `{"name":"Corporate Gold","card_code":"abc","company_id":"` + f.companyID.String() + `",` +
		`"is_renewable":true,"start_date":"2024-01-01T00:00:00Z","limit_amount":"5000000"}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if err := h.CreateScheme(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	var got Scheme
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if got.CardCode != "ABC" {
		t.Errorf("card code = %q, want ABC", got.CardCode)
	}
	if got.CurrentPeriod == nil || got.CurrentPeriod.PeriodNumber != 1 {
		t.Error("expected initial period in response")
	}
}

func TestHandler_CreateScheme_ValidationError(t *testing.T) {
	h, f, e := newTestHandler()
	body := `{"name":"Corporate Gold","card_code":"ab","company_id":"` + f.companyID.String() + `",` +
		`"start_date":"2024-01-01T00:00:00Z","limit_amount":"5000000"}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	err := h.CreateScheme(c)
	if err == nil {
		t.Fatal("expected error for short card code")
	}
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %v", err)
	}
}

func TestHandler_GetScheme_NotFound(t *testing.T) {
	h, _, e := newTestHandler()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(uuid.New().String())
	if err := h.GetScheme(c); err == nil {
		t.Error("expected error for unknown scheme")
	}
}

func TestHandler_ListSchemes_Envelope(t *testing.T) {
	h, f, e := newTestHandler()
	f.create(t, "Corporate Gold", "ABC")

	req := httptest.NewRequest(http.MethodGet, "/?search=gold&page=1&page_size=10", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if err := h.ListSchemes(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var resp struct {
		Results []Scheme `json:"results"`
		Total   int      `json:"total"`
		Page    int      `json:"page"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Total != 1 || len(resp.Results) != 1 {
		t.Fatalf("unexpected envelope: %+v", resp)
	}
	if resp.Page != 1 {
		t.Errorf("page = %d, want 1", resp.Page)
	}
}

func TestHandler_Suspend_RequiresReason(t *testing.T) {
	h, f, e := newTestHandler()
	sch := f.create(t, "Corporate Gold", "ABC")

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(sch.ID.String())
	if err := h.Suspend(c); err == nil {
		t.Error("expected error for missing reason")
	}
}

func TestHandler_Suspend(t *testing.T) {
	h, f, e := newTestHandler()
	sch := f.create(t, "Corporate Gold", "ABC")

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"reason":"fraud investigation"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(sch.ID.String())
	if err := h.Suspend(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, _ := f.svc.GetScheme(context.Background(), sch.ID)
	if got.Status != StatusSuspended {
		t.Errorf("status = %q, want SUSPENDED", got.Status)
	}
}

func TestHandler_DeleteScheme_HardFlag(t *testing.T) {
	h, f, e := newTestHandler()
	sch := f.create(t, "Corporate Gold", "ABC")

	req := httptest.NewRequest(http.MethodDelete, "/?hard=true", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(sch.ID.String())
	if err := h.DeleteScheme(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", rec.Code)
	}
	if _, ok := f.repo.schemes[sch.ID]; ok {
		t.Error("hard delete must remove the row")
	}
}

func TestHandler_Renew(t *testing.T) {
	h, f, e := newTestHandler()
	sch := f.create(t, "Corporate Gold", "ABC")

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(sch.ID.String())
	if err := h.Renew(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", rec.Code)
	}
	var p SchemePeriod
	if err := json.Unmarshal(rec.Body.Bytes(), &p); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if p.PeriodNumber != 2 {
		t.Errorf("period number = %d, want 2", p.PeriodNumber)
	}
}
