package http

import (
	"context"
	stdhttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"

	farmerDomain "kahawa-backend/internal/domain/farmer"
	orgDomain "kahawa-backend/internal/domain/organization"
	"kahawa-backend/internal/testutil/farmermock"
	"kahawa-backend/internal/testutil/orgmock"
	"kahawa-backend/internal/testutil/outboxmock"
	"kahawa-backend/internal/usecase/membership"

	"github.com/labstack/echo/v4"
)

const orgID = "11111111111111111111111111111111"

func membershipUC(farmers *farmermock.Repo, orgs *orgmock.Repo) *membership.Usecase {
	return membership.NewUsecase(farmers, orgs, &outboxmock.Repo{})
}

func TestAddFarmers_SingleSuccess(t *testing.T) {
	e := newEchoWithValidator()

	incremented := 0
	farmers := &farmermock.Repo{
		GetFn: func(ctx context.Context, id string) (*farmerDomain.Farmer, error) {
			return &farmerDomain.Farmer{ID: id}, nil
		},
	}
	orgs := &orgmock.Repo{
		GetFn: func(ctx context.Context, typ orgDomain.Type, id string) (*orgDomain.Organization, error) {
			return &orgDomain.Organization{ID: id, Type: typ, Name: "Nyeri Hills"}, nil
		},
		IncrementFarmerCountFn: func(ctx context.Context, typ orgDomain.Type, id string, delta int) error {
			incremented += delta
			return nil
		},
	}
	h := NewMembershipHandler(membershipUC(farmers, orgs))

	body := map[string]any{"farmer_ids": []string{strings.Repeat("f", 32)}}
	req := httptest.NewRequest(stdhttp.MethodPost, "/organizations/cooperative/"+orgID+"/farmers", mustJSON(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("type", "org_id")
	c.SetParamValues("cooperative", orgID)

	if err := h.AddFarmers(c); err != nil {
		t.Fatalf("AddFarmers error: %v", err)
	}
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("status = %d, want 200 (body=%s)", rec.Code, rec.Body.String())
	}
	if incremented != 1 {
		t.Fatalf("counter delta = %d, want 1", incremented)
	}
}

func TestAddFarmers_BadOrgType(t *testing.T) {
	e := newEchoWithValidator()
	h := NewMembershipHandler(membershipUC(&farmermock.Repo{}, &orgmock.Repo{}))

	req := httptest.NewRequest(stdhttp.MethodPost, "/organizations/bank/"+orgID+"/farmers", mustJSON(map[string]any{"farmer_ids": []string{strings.Repeat("f", 32)}}))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("type", "org_id")
	c.SetParamValues("bank", orgID)

	if err := h.AddFarmers(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != stdhttp.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestReconcile_ReturnsCount(t *testing.T) {
	e := newEchoWithValidator()

	farmers := &farmermock.Repo{
		CountByOrganizationFn: func(ctx context.Context, id string) (int, error) { return 17, nil },
	}
	set := -1
	orgs := &orgmock.Repo{
		GetFn: func(ctx context.Context, typ orgDomain.Type, id string) (*orgDomain.Organization, error) {
			return &orgDomain.Organization{ID: id, Type: typ}, nil
		},
		SetFarmerCountFn: func(ctx context.Context, typ orgDomain.Type, id string, count int) error {
			set = count
			return nil
		},
	}
	h := NewMembershipHandler(membershipUC(farmers, orgs))

	req := httptest.NewRequest(stdhttp.MethodPost, "/organizations/sacco/"+orgID+"/reconcile", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("type", "org_id")
	c.SetParamValues("sacco", orgID)

	if err := h.Reconcile(c); err != nil {
		t.Fatalf("Reconcile error: %v", err)
	}
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if set != 17 {
		t.Fatalf("stored count = %d, want 17", set)
	}
	if !strings.Contains(rec.Body.String(), "17") {
		t.Fatalf("body missing count: %s", rec.Body.String())
	}
}

func TestListMembers_ReturnsFarmers(t *testing.T) {
	e := newEchoWithValidator()

	farmers := &farmermock.Repo{
		ListByOrganizationFn: func(ctx context.Context, id string) ([]farmerDomain.Farmer, error) {
			return []farmerDomain.Farmer{
				{ID: strings.Repeat("1", 32), Name: "Wanjiku Kamau"},
				{ID: strings.Repeat("2", 32), Name: "Otieno Odhiambo"},
			}, nil
		},
	}
	orgs := &orgmock.Repo{
		GetFn: func(ctx context.Context, typ orgDomain.Type, id string) (*orgDomain.Organization, error) {
			return &orgDomain.Organization{ID: id, Type: typ, Name: "Nyeri Hills"}, nil
		},
	}
	h := NewMembershipHandler(membershipUC(farmers, orgs))

	req := httptest.NewRequest(stdhttp.MethodGet, "/organizations/cooperative/"+orgID+"/farmers", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("type", "org_id")
	c.SetParamValues("cooperative", orgID)

	if err := h.ListMembers(c); err != nil {
		t.Fatalf("ListMembers error: %v", err)
	}
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `"count":2`) || !strings.Contains(body, "Otieno Odhiambo") {
		t.Fatalf("body missing members: %s", body)
	}
}

func TestListMembers_UnknownOrg(t *testing.T) {
	e := newEchoWithValidator()
	h := NewMembershipHandler(membershipUC(&farmermock.Repo{}, &orgmock.Repo{}))

	req := httptest.NewRequest(stdhttp.MethodGet, "/organizations/sacco/"+orgID+"/farmers", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("type", "org_id")
	c.SetParamValues("sacco", orgID)

	if err := h.ListMembers(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != stdhttp.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestResolveOrganization_OrphanFallback(t *testing.T) {
	e := newEchoWithValidator()

	farmers := &farmermock.Repo{
		GetFn: func(ctx context.Context, id string) (*farmerDomain.Farmer, error) {
			return &farmerDomain.Farmer{
				ID:           id,
				Organization: farmerDomain.Membership{Type: orgDomain.TypeCooperative, ID: "gone", Name: "C1"},
			}, nil
		},
	}
	h := NewMembershipHandler(membershipUC(farmers, &orgmock.Repo{}))

	req := httptest.NewRequest(stdhttp.MethodGet, "/farmers/"+strings.Repeat("f", 32)+"/organization", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("farmer_id")
	c.SetParamValues(strings.Repeat("f", 32))

	if err := h.ResolveOrganization(c); err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `"independent"`) || !strings.Contains(body, `"orphaned":true`) {
		t.Fatalf("expected independent orphaned fallback, got %s", body)
	}
}

func TestRemoveFarmer_NoContent(t *testing.T) {
	e := newEchoWithValidator()

	farmers := &farmermock.Repo{
		GetFn: func(ctx context.Context, id string) (*farmerDomain.Farmer, error) {
			return &farmerDomain.Farmer{ID: id, Organization: farmerDomain.Independent()}, nil
		},
	}
	h := NewMembershipHandler(membershipUC(farmers, &orgmock.Repo{}))

	req := httptest.NewRequest(stdhttp.MethodDelete, "/farmers/"+strings.Repeat("f", 32)+"/organization", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("farmer_id")
	c.SetParamValues(strings.Repeat("f", 32))

	if err := h.RemoveFarmer(c); err != nil {
		t.Fatalf("RemoveFarmer error: %v", err)
	}
	if rec.Code != stdhttp.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}
}
