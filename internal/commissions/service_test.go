package commissions

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/mercaditoapp/mercadito-backend/internal/sellers"
	"github.com/mercaditoapp/mercadito-backend/internal/settings"
	"github.com/mercaditoapp/mercadito-backend/pkg/db/models"
	pkgerrors "github.com/mercaditoapp/mercadito-backend/pkg/errors"
	"github.com/mercaditoapp/mercadito-backend/pkg/logger"
	paginationpkg "github.com/mercaditoapp/mercadito-backend/pkg/pagination"
)

type fakeRepository struct {
	created         []*models.CommissionOverride
	deactivated     []uuid.UUID
	createFn        func(ctx context.Context, override *models.CommissionOverride) error
	getFn           func(ctx context.Context, overrideID uuid.UUID) (*models.CommissionOverride, error)
	getActiveFn     func(ctx context.Context, sellerID uuid.UUID) (*models.CommissionOverride, error)
	listFn          func(ctx context.Context, params listOverridesParams) ([]models.CommissionOverride, *paginationpkg.Cursor, error)
	updateFn        func(ctx context.Context, override *models.CommissionOverride) error
	deleteFn        func(ctx context.Context, overrideID uuid.UUID) (bool, error)
	deactivateFn    func(ctx context.Context, sellerID uuid.UUID) (int64, error)
	duplicatesFn    func(ctx context.Context) ([]uuid.UUID, error)
	keepNewestFn    func(ctx context.Context, sellerID uuid.UUID) (int64, error)
}

func (f *fakeRepository) WithTx(tx *gorm.DB) Repository { return f }

func (f *fakeRepository) Create(ctx context.Context, override *models.CommissionOverride) error {
	if f.createFn != nil {
		return f.createFn(ctx, override)
	}
	override.ID = uuid.New()
	f.created = append(f.created, override)
	return nil
}

func (f *fakeRepository) GetByID(ctx context.Context, overrideID uuid.UUID) (*models.CommissionOverride, error) {
	if f.getFn != nil {
		return f.getFn(ctx, overrideID)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepository) GetActiveBySeller(ctx context.Context, sellerID uuid.UUID) (*models.CommissionOverride, error) {
	if f.getActiveFn != nil {
		return f.getActiveFn(ctx, sellerID)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepository) List(ctx context.Context, params listOverridesParams) ([]models.CommissionOverride, *paginationpkg.Cursor, error) {
	if f.listFn != nil {
		return f.listFn(ctx, params)
	}
	return nil, nil, nil
}

func (f *fakeRepository) Update(ctx context.Context, override *models.CommissionOverride) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, override)
	}
	return nil
}

func (f *fakeRepository) Delete(ctx context.Context, overrideID uuid.UUID) (bool, error) {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, overrideID)
	}
	return false, nil
}

func (f *fakeRepository) DeactivateBySeller(ctx context.Context, sellerID uuid.UUID) (int64, error) {
	if f.deactivateFn != nil {
		return f.deactivateFn(ctx, sellerID)
	}
	f.deactivated = append(f.deactivated, sellerID)
	return 0, nil
}

func (f *fakeRepository) ListSellersWithDuplicateActive(ctx context.Context) ([]uuid.UUID, error) {
	if f.duplicatesFn != nil {
		return f.duplicatesFn(ctx)
	}
	return nil, nil
}

func (f *fakeRepository) DeactivateAllButNewest(ctx context.Context, sellerID uuid.UUID) (int64, error) {
	if f.keepNewestFn != nil {
		return f.keepNewestFn(ctx, sellerID)
	}
	return 0, nil
}

type fakeSellers struct {
	getFn     func(ctx context.Context, sellerID uuid.UUID) (*models.Seller, error)
	listIDsFn func(ctx context.Context) ([]uuid.UUID, error)
}

func (f *fakeSellers) Get(ctx context.Context, sellerID uuid.UUID) (*models.Seller, error) {
	if f.getFn != nil {
		return f.getFn(ctx, sellerID)
	}
	return &models.Seller{ID: sellerID, Active: true}, nil
}

func (f *fakeSellers) List(ctx context.Context, params sellers.ListParams) (*sellers.ListResult, error) {
	return &sellers.ListResult{}, nil
}

func (f *fakeSellers) ListActiveIDs(ctx context.Context) ([]uuid.UUID, error) {
	if f.listIDsFn != nil {
		return f.listIDsFn(ctx)
	}
	return nil, nil
}

type fakeSettings struct {
	defaults settings.CommissionDefaults
	getErr   error
}

func (f *fakeSettings) GetCommissionDefaults(ctx context.Context) (*settings.CommissionDefaults, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	d := f.defaults
	return &d, nil
}

func (f *fakeSettings) UpdateCommissionDefaults(ctx context.Context, defaults settings.CommissionDefaults) error {
	return nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func dec(value string) *decimal.Decimal {
	d := decimal.RequireFromString(value)
	return &d
}

func newTestService(repo Repository, sellerSvc sellers.Service, settingSvc settings.Service) Service {
	if sellerSvc == nil {
		sellerSvc = &fakeSellers{}
	}
	if settingSvc == nil {
		settingSvc = &fakeSettings{}
	}
	svc, _ := NewService(repo, sellerSvc, settingSvc, testLogger())
	return svc
}

func TestService_CreateDeactivatesPreviousOverride(t *testing.T) {
	repo := &fakeRepository{}
	svc := newTestService(repo, nil, nil)
	sellerID := uuid.New()

	override, err := svc.Create(context.Background(), CreateParams{
		SellerID:   sellerID,
		Percentage: dec("15.00"),
		Reason:     "campaña de lanzamiento",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(repo.deactivated) != 1 || repo.deactivated[0] != sellerID {
		t.Fatalf("expected previous override deactivation for %s", sellerID)
	}
	if len(repo.created) != 1 {
		t.Fatalf("expected 1 created override, got %d", len(repo.created))
	}
	if !override.Active {
		t.Fatal("created override must be active")
	}
	if override.Percentage == nil || !override.Percentage.Equal(decimal.RequireFromString("15.00")) {
		t.Fatalf("unexpected percentage %v", override.Percentage)
	}
}

func TestService_CreateRequiresPercentageOrFixed(t *testing.T) {
	svc := newTestService(&fakeRepository{}, nil, nil)

	_, err := svc.Create(context.Background(), CreateParams{SellerID: uuid.New()})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if typed.Message() != "percentage or fixed amount required" {
		t.Fatalf("unexpected message %q", typed.Message())
	}
}

func TestService_CreateValidatesRanges(t *testing.T) {
	svc := newTestService(&fakeRepository{}, nil, nil)

	cases := []CreateParams{
		{SellerID: uuid.New(), Percentage: dec("101")},
		{SellerID: uuid.New(), Percentage: dec("-1")},
		{SellerID: uuid.New(), FixedAmount: dec("-0.01")},
		{SellerID: uuid.New(), Percentage: dec("10"), TaxPercentage: dec("200")},
	}
	for _, tc := range cases {
		_, err := svc.Create(context.Background(), tc)
		typed := pkgerrors.As(err)
		if typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("expected validation error for %+v, got %v", tc, err)
		}
	}
}

func TestService_CreateRejectsUnknownSeller(t *testing.T) {
	sellerSvc := &fakeSellers{
		getFn: func(ctx context.Context, sellerID uuid.UUID) (*models.Seller, error) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "seller not found")
		},
	}
	svc := newTestService(&fakeRepository{}, sellerSvc, nil)

	_, err := svc.Create(context.Background(), CreateParams{SellerID: uuid.New(), Percentage: dec("5")})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestService_UpdateKeepsUntouchedFields(t *testing.T) {
	existing := &models.CommissionOverride{
		ID:         uuid.New(),
		SellerID:   uuid.New(),
		Percentage: dec("10.00"),
		Active:     true,
	}
	var saved *models.CommissionOverride
	repo := &fakeRepository{
		getFn: func(ctx context.Context, overrideID uuid.UUID) (*models.CommissionOverride, error) {
			copied := *existing
			return &copied, nil
		},
		updateFn: func(ctx context.Context, override *models.CommissionOverride) error {
			saved = override
			return nil
		},
	}
	svc := newTestService(repo, nil, nil)

	updated, err := svc.Update(context.Background(), existing.ID, UpdateParams{FixedAmount: dec("3.50")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Percentage == nil || !updated.Percentage.Equal(decimal.RequireFromString("10.00")) {
		t.Fatalf("percentage should survive update, got %v", updated.Percentage)
	}
	if saved == nil || saved.FixedAmount == nil || !saved.FixedAmount.Equal(decimal.RequireFromString("3.50")) {
		t.Fatalf("fixed amount not persisted: %+v", saved)
	}
}

func TestService_DeleteNotFound(t *testing.T) {
	svc := newTestService(&fakeRepository{
		deleteFn: func(ctx context.Context, overrideID uuid.UUID) (bool, error) {
			return false, nil
		},
	}, nil, nil)

	err := svc.Delete(context.Background(), uuid.New())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestService_ResolveEffectiveFallsBackPerField(t *testing.T) {
	sellerID := uuid.New()
	overrideID := uuid.New()
	repo := &fakeRepository{
		getActiveFn: func(ctx context.Context, id uuid.UUID) (*models.CommissionOverride, error) {
			return &models.CommissionOverride{
				ID:         overrideID,
				SellerID:   sellerID,
				Percentage: dec("4.00"),
				Active:     true,
			}, nil
		},
	}
	settingSvc := &fakeSettings{defaults: settings.CommissionDefaults{
		Percentage:    decimal.RequireFromString("10.00"),
		FixedAmount:   decimal.RequireFromString("2.00"),
		TaxPercentage: decimal.RequireFromString("16.00"),
	}}
	svc := newTestService(repo, nil, settingSvc)

	effective, err := svc.ResolveEffective(context.Background(), sellerID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !effective.Percentage.Equal(decimal.RequireFromString("4.00")) {
		t.Fatalf("expected override percentage, got %s", effective.Percentage)
	}
	if !effective.FixedAmount.Equal(decimal.RequireFromString("2.00")) {
		t.Fatalf("expected global fixed amount, got %s", effective.FixedAmount)
	}
	if !effective.TaxPercentage.Equal(decimal.RequireFromString("16.00")) {
		t.Fatalf("expected global tax, got %s", effective.TaxPercentage)
	}
	if effective.Sources["percentage"] != "override" || effective.Sources["fixed_amount"] != "global" {
		t.Fatalf("unexpected sources %+v", effective.Sources)
	}
	if effective.OverrideID == nil || *effective.OverrideID != overrideID {
		t.Fatal("expected override id to surface")
	}
}

func TestService_ResolveEffectiveWithoutOverride(t *testing.T) {
	settingSvc := &fakeSettings{defaults: settings.CommissionDefaults{
		Percentage: decimal.RequireFromString("10.00"),
	}}
	svc := newTestService(&fakeRepository{}, nil, settingSvc)

	effective, err := svc.ResolveEffective(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if effective.OverrideID != nil {
		t.Fatal("expected no override id")
	}
	for field, source := range effective.Sources {
		if source != "global" {
			t.Fatalf("expected global source for %s, got %s", field, source)
		}
	}
}

func TestService_QuoteForSellerPricesSale(t *testing.T) {
	settingSvc := &fakeSettings{defaults: settings.CommissionDefaults{
		Percentage:    decimal.RequireFromString("10.00"),
		FixedAmount:   decimal.RequireFromString("500"),
		TaxPercentage: decimal.RequireFromString("16.00"),
	}}
	svc := newTestService(&fakeRepository{}, nil, settingSvc)

	quote, err := svc.QuoteForSeller(context.Background(), uuid.New(), 10000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if quote.CommissionCents != 1500 {
		t.Fatalf("expected commission 1500, got %d", quote.CommissionCents)
	}
	if quote.TaxCents != 240 {
		t.Fatalf("expected tax 240, got %d", quote.TaxCents)
	}
	if quote.TotalCents != 1740 {
		t.Fatalf("expected total 1740, got %d", quote.TotalCents)
	}

	if _, err := svc.QuoteForSeller(context.Background(), uuid.New(), -1); err == nil {
		t.Fatal("expected negative amounts to be rejected")
	}
}

func TestService_BulkApplyCountsSuccessesAndFailures(t *testing.T) {
	good := uuid.New()
	bad := uuid.New()
	sellerSvc := &fakeSellers{
		getFn: func(ctx context.Context, sellerID uuid.UUID) (*models.Seller, error) {
			if sellerID == bad {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, "seller not found")
			}
			return &models.Seller{ID: sellerID, Active: true}, nil
		},
	}
	repo := &fakeRepository{}
	svc := newTestService(repo, sellerSvc, nil)

	result, err := svc.BulkApply(context.Background(), BulkApplyParams{
		SellerIDs:  []uuid.UUID{good, bad},
		Percentage: dec("7.50"),
		Reason:     "ajuste trimestral",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.AttemptedCount != 2 {
		t.Fatalf("expected attempted=2, got %d", result.AttemptedCount)
	}
	if result.SuccessCount != 1 {
		t.Fatalf("expected success=1, got %d", result.SuccessCount)
	}
	if len(result.Failures) != 1 || result.Failures[0].SellerID != bad {
		t.Fatalf("unexpected failures %+v", result.Failures)
	}
}

func TestService_BulkApplyAllSellers(t *testing.T) {
	ids := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
	sellerSvc := &fakeSellers{
		listIDsFn: func(ctx context.Context) ([]uuid.UUID, error) {
			return ids, nil
		},
	}
	repo := &fakeRepository{}
	svc := newTestService(repo, sellerSvc, nil)

	result, err := svc.BulkApply(context.Background(), BulkApplyParams{
		AllSellers: true,
		FixedAmount: dec("1.00"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.SuccessCount != len(ids) {
		t.Fatalf("expected success=%d, got %d", len(ids), result.SuccessCount)
	}
	if len(repo.created) != len(ids) {
		t.Fatalf("expected %d overrides, got %d", len(ids), len(repo.created))
	}
}

func TestService_BulkApplyRejectsZeroCharge(t *testing.T) {
	repo := &fakeRepository{}
	svc := newTestService(repo, &fakeSellers{}, nil)

	cases := []BulkApplyParams{
		{SellerIDs: []uuid.UUID{uuid.New()}},
		{SellerIDs: []uuid.UUID{uuid.New(), uuid.New()}, Percentage: dec("0"), FixedAmount: dec("0.00")},
	}
	for _, params := range cases {
		_, err := svc.BulkApply(context.Background(), params)
		typed := pkgerrors.As(err)
		if typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("expected validation error for %+v, got %v", params, err)
		}
	}
	if len(repo.created) != 0 {
		t.Fatalf("no overrides may be written on a zero-charge run, got %d", len(repo.created))
	}
}

func TestService_BulkApplyRequiresSellers(t *testing.T) {
	svc := newTestService(&fakeRepository{}, nil, nil)
	_, err := svc.BulkApply(context.Background(), BulkApplyParams{Percentage: dec("5")})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestService_ReconcileHealsDuplicates(t *testing.T) {
	dupA := uuid.New()
	dupB := uuid.New()
	var healedSellers []uuid.UUID
	repo := &fakeRepository{
		duplicatesFn: func(ctx context.Context) ([]uuid.UUID, error) {
			return []uuid.UUID{dupA, dupB}, nil
		},
		keepNewestFn: func(ctx context.Context, sellerID uuid.UUID) (int64, error) {
			healedSellers = append(healedSellers, sellerID)
			return 1, nil
		},
	}
	svc := newTestService(repo, nil, nil)

	healed, err := svc.Reconcile(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if healed != 2 {
		t.Fatalf("expected 2 healed rows, got %d", healed)
	}
	if len(healedSellers) != 2 {
		t.Fatalf("expected both sellers healed, got %v", healedSellers)
	}
}

func TestService_ReconcilePartialFailureStillCounts(t *testing.T) {
	ok := uuid.New()
	broken := uuid.New()
	repo := &fakeRepository{
		duplicatesFn: func(ctx context.Context) ([]uuid.UUID, error) {
			return []uuid.UUID{ok, broken}, nil
		},
		keepNewestFn: func(ctx context.Context, sellerID uuid.UUID) (int64, error) {
			if sellerID == broken {
				return 0, errors.New("db down")
			}
			return 1, nil
		},
	}
	svc := newTestService(repo, nil, nil)

	healed, err := svc.Reconcile(context.Background())
	if err != nil {
		t.Fatalf("partial failure should not fail the run: %v", err)
	}
	if healed != 1 {
		t.Fatalf("expected 1 healed row, got %d", healed)
	}
}
