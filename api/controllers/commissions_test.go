package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mercaditoapp/mercadito-backend/internal/commissions"
	"github.com/mercaditoapp/mercadito-backend/pkg/db/models"
	"github.com/mercaditoapp/mercadito-backend/pkg/enums"
)

type fakeCommissionsService struct {
	createFn    func(ctx context.Context, params commissions.CreateParams) (*models.CommissionOverride, error)
	bulkApplyFn func(ctx context.Context, params commissions.BulkApplyParams) (*commissions.BulkApplyResult, error)
	resolveFn   func(ctx context.Context, sellerID uuid.UUID) (*commissions.EffectiveCommission, error)
	deleteFn    func(ctx context.Context, overrideID uuid.UUID) error
}

func (f *fakeCommissionsService) Create(ctx context.Context, params commissions.CreateParams) (*models.CommissionOverride, error) {
	return f.createFn(ctx, params)
}

func (f *fakeCommissionsService) Update(_ context.Context, _ uuid.UUID, _ commissions.UpdateParams) (*models.CommissionOverride, error) {
	return nil, nil
}

func (f *fakeCommissionsService) Delete(ctx context.Context, overrideID uuid.UUID) error {
	return f.deleteFn(ctx, overrideID)
}

func (f *fakeCommissionsService) Get(_ context.Context, _ uuid.UUID) (*models.CommissionOverride, error) {
	return nil, nil
}

func (f *fakeCommissionsService) List(_ context.Context, _ commissions.ListParams) (*commissions.ListResult, error) {
	return &commissions.ListResult{}, nil
}

func (f *fakeCommissionsService) ResolveEffective(ctx context.Context, sellerID uuid.UUID) (*commissions.EffectiveCommission, error) {
	return f.resolveFn(ctx, sellerID)
}

func (f *fakeCommissionsService) BulkApply(ctx context.Context, params commissions.BulkApplyParams) (*commissions.BulkApplyResult, error) {
	return f.bulkApplyFn(ctx, params)
}

func (f *fakeCommissionsService) QuoteForSeller(ctx context.Context, sellerID uuid.UUID, saleAmountCents int64) (*commissions.Quote, error) {
	effective, err := f.resolveFn(ctx, sellerID)
	if err != nil {
		return nil, err
	}
	quote := commissions.QuoteForSale(effective, saleAmountCents)
	return &quote, nil
}

func (f *fakeCommissionsService) Reconcile(_ context.Context) (int64, error) {
	return 0, nil
}

func TestCreateCommissionOverrideHandler(t *testing.T) {
	sellerID := uuid.New()
	var gotParams commissions.CreateParams
	svc := &fakeCommissionsService{
		createFn: func(_ context.Context, params commissions.CreateParams) (*models.CommissionOverride, error) {
			gotParams = params
			pct := decimal.RequireFromString("12.50")
			return &models.CommissionOverride{ID: uuid.New(), SellerID: params.SellerID, Percentage: &pct, Active: true}, nil
		},
	}

	body := `{"seller_id":"` + sellerID.String() + `","percentage":"12.50","reason":"  Promoción verano  "}`
	req := authedRequest(http.MethodPost, "/api/admin/v1/commissions", enums.UserRoleAdmin, strings.NewReader(body))
	resp := httptest.NewRecorder()
	CreateCommissionOverride(svc, testLogger())(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", resp.Code, resp.Body.String())
	}
	if gotParams.SellerID != sellerID {
		t.Fatalf("seller id = %s, want %s", gotParams.SellerID, sellerID)
	}
	if gotParams.Reason != "Promoción verano" {
		t.Fatalf("reason = %q, want trimmed", gotParams.Reason)
	}
	if gotParams.CreatedBy == nil {
		t.Fatalf("expected created_by from the authenticated user")
	}
	if gotParams.Percentage == nil || !gotParams.Percentage.Equal(decimal.RequireFromString("12.50")) {
		t.Fatalf("percentage = %v", gotParams.Percentage)
	}
}

func TestBulkApplyCommissionHandler(t *testing.T) {
	sellerA, sellerB := uuid.New(), uuid.New()
	svc := &fakeCommissionsService{
		bulkApplyFn: func(_ context.Context, params commissions.BulkApplyParams) (*commissions.BulkApplyResult, error) {
			if len(params.SellerIDs) != 2 {
				t.Fatalf("seller ids = %d, want 2", len(params.SellerIDs))
			}
			return &commissions.BulkApplyResult{
				AttemptedCount: 2,
				SuccessCount:   1,
				Failures: []commissions.BulkApplyFailure{
					{SellerID: sellerB, Message: "seller not found"},
				},
			}, nil
		},
	}

	body := `{"seller_ids":["` + sellerA.String() + `","` + sellerB.String() + `"],"percentage":"8.00"}`
	req := authedRequest(http.MethodPost, "/api/admin/v1/commissions/bulk-apply", enums.UserRoleAdmin, strings.NewReader(body))
	resp := httptest.NewRecorder()
	BulkApplyCommission(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", resp.Code, resp.Body.String())
	}
	var payload struct {
		Data commissions.BulkApplyResult `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.Data.SuccessCount != 1 || len(payload.Data.Failures) != 1 {
		t.Fatalf("unexpected result: %+v", payload.Data)
	}
}

func TestResolveEffectiveCommissionHandler(t *testing.T) {
	sellerID := uuid.New()
	svc := &fakeCommissionsService{
		resolveFn: func(_ context.Context, got uuid.UUID) (*commissions.EffectiveCommission, error) {
			if got != sellerID {
				t.Fatalf("seller id = %s, want %s", got, sellerID)
			}
			return &commissions.EffectiveCommission{
				SellerID:   sellerID,
				Percentage: decimal.RequireFromString("10.00"),
				Sources: map[string]enums.CommissionSource{
					"percentage": enums.CommissionSourceGlobal,
				},
			}, nil
		},
	}

	req := authedRequest(http.MethodGet, "/api/admin/v1/sellers/"+sellerID.String()+"/commission", enums.UserRoleAdmin, nil)
	req = withURLParam(req, "sellerId", sellerID.String())
	resp := httptest.NewRecorder()
	ResolveEffectiveCommission(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", resp.Code, resp.Body.String())
	}
}

func TestDeleteCommissionOverrideHandlerRejectsBadID(t *testing.T) {
	req := authedRequest(http.MethodDelete, "/api/admin/v1/commissions/nope", enums.UserRoleAdmin, nil)
	req = withURLParam(req, "overrideId", "nope")
	resp := httptest.NewRecorder()
	DeleteCommissionOverride(&fakeCommissionsService{}, testLogger())(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.Code)
	}
}
