package commissions

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/mercaditoapp/mercadito-backend/internal/sellers"
	"github.com/mercaditoapp/mercadito-backend/internal/settings"
	"github.com/mercaditoapp/mercadito-backend/pkg/db/models"
	pkgerrors "github.com/mercaditoapp/mercadito-backend/pkg/errors"
	"github.com/mercaditoapp/mercadito-backend/pkg/logger"
	"github.com/mercaditoapp/mercadito-backend/pkg/pagination"
)

// Service manages per-seller commission overrides and their resolution
// against the platform defaults.
type Service interface {
	Create(ctx context.Context, params CreateParams) (*models.CommissionOverride, error)
	Update(ctx context.Context, overrideID uuid.UUID, params UpdateParams) (*models.CommissionOverride, error)
	Delete(ctx context.Context, overrideID uuid.UUID) error
	Get(ctx context.Context, overrideID uuid.UUID) (*models.CommissionOverride, error)
	List(ctx context.Context, params ListParams) (*ListResult, error)
	ResolveEffective(ctx context.Context, sellerID uuid.UUID) (*EffectiveCommission, error)
	QuoteForSeller(ctx context.Context, sellerID uuid.UUID, saleAmountCents int64) (*Quote, error)
	BulkApply(ctx context.Context, params BulkApplyParams) (*BulkApplyResult, error)
	Reconciler
}

type service struct {
	repo     Repository
	sellers  sellers.Service
	settings settings.Service
	logg     *logger.Logger
}

// NewService wires commission dependencies.
func NewService(repo Repository, sellerSvc sellers.Service, settingSvc settings.Service, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "commissions repository required")
	}
	if sellerSvc == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "sellers service required")
	}
	if settingSvc == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "settings service required")
	}
	if logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "logger required")
	}
	return &service{repo: repo, sellers: sellerSvc, settings: settingSvc, logg: logg}, nil
}

// CreateParams holds the override fields accepted on create.
type CreateParams struct {
	SellerID      uuid.UUID
	Percentage    *decimal.Decimal
	FixedAmount   *decimal.Decimal
	TaxPercentage *decimal.Decimal
	Reason        string
	CreatedBy     *uuid.UUID
}

// UpdateParams holds the override fields accepted on update. Nil leaves the
// stored value untouched.
type UpdateParams struct {
	Percentage    *decimal.Decimal
	FixedAmount   *decimal.Decimal
	TaxPercentage *decimal.Decimal
	Reason        *string
}

// ListParams configures override pagination and filters.
type ListParams struct {
	SellerID   *uuid.UUID
	ActiveOnly bool
	Search     string
	Limit      int
	Cursor     string
}

// ListResult wraps returned overrides and the cursor for the next page.
type ListResult struct {
	Items  []models.CommissionOverride `json:"items"`
	Cursor string                      `json:"cursor"`
}

func (s *service) Create(ctx context.Context, params CreateParams) (*models.CommissionOverride, error) {
	if params.SellerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "seller id required")
	}
	if params.Percentage == nil && params.FixedAmount == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "percentage or fixed amount required")
	}
	if err := validateFields(params.Percentage, params.FixedAmount, params.TaxPercentage); err != nil {
		return nil, err
	}
	if _, err := s.sellers.Get(ctx, params.SellerID); err != nil {
		return nil, err
	}

	// Replacing is deactivate-then-create. The two writes are not atomic; the
	// partial unique index rejects double actives and the reconcile job heals
	// anything that slips through.
	if _, err := s.repo.DeactivateBySeller(ctx, params.SellerID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deactivate previous override")
	}

	override := &models.CommissionOverride{
		SellerID:      params.SellerID,
		Percentage:    params.Percentage,
		FixedAmount:   params.FixedAmount,
		TaxPercentage: params.TaxPercentage,
		Reason:        params.Reason,
		Active:        true,
		CreatedBy:     params.CreatedBy,
	}
	if err := s.repo.Create(ctx, override); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create commission override")
	}
	return override, nil
}

func (s *service) Update(ctx context.Context, overrideID uuid.UUID, params UpdateParams) (*models.CommissionOverride, error) {
	override, err := s.Get(ctx, overrideID)
	if err != nil {
		return nil, err
	}

	if params.Percentage != nil {
		override.Percentage = params.Percentage
	}
	if params.FixedAmount != nil {
		override.FixedAmount = params.FixedAmount
	}
	if params.TaxPercentage != nil {
		override.TaxPercentage = params.TaxPercentage
	}
	if params.Reason != nil {
		override.Reason = *params.Reason
	}

	if override.Percentage == nil && override.FixedAmount == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "percentage or fixed amount required")
	}
	if err := validateFields(override.Percentage, override.FixedAmount, override.TaxPercentage); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, override); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update commission override")
	}
	return override, nil
}

func (s *service) Delete(ctx context.Context, overrideID uuid.UUID) error {
	if overrideID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "override id required")
	}
	deleted, err := s.repo.Delete(ctx, overrideID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete commission override")
	}
	if !deleted {
		return pkgerrors.New(pkgerrors.CodeNotFound, "commission override not found")
	}
	return nil
}

func (s *service) Get(ctx context.Context, overrideID uuid.UUID) (*models.CommissionOverride, error) {
	if overrideID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "override id required")
	}
	override, err := s.repo.GetByID(ctx, overrideID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "commission override not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "get commission override")
	}
	return override, nil
}

func (s *service) List(ctx context.Context, params ListParams) (*ListResult, error) {
	query := listOverridesParams{
		SellerID:   params.SellerID,
		ActiveOnly: params.ActiveOnly,
		Search:     strings.TrimSpace(params.Search),
		Limit:      params.Limit,
	}
	if params.Cursor != "" {
		cursor, err := pagination.ParseCursor(params.Cursor)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		query.Cursor = cursor
	}

	rows, next, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list commission overrides")
	}

	cursor := ""
	if next != nil {
		cursor = pagination.EncodeCursor(*next)
	}
	return &ListResult{Items: rows, Cursor: cursor}, nil
}

// BulkApplyParams applies the same override to many sellers at once.
type BulkApplyParams struct {
	SellerIDs     []uuid.UUID
	AllSellers    bool
	Percentage    *decimal.Decimal
	FixedAmount   *decimal.Decimal
	TaxPercentage *decimal.Decimal
	Reason        string
	CreatedBy     *uuid.UUID
}

// BulkApplyFailure reports one seller the bulk apply could not cover.
type BulkApplyFailure struct {
	SellerID uuid.UUID `json:"seller_id"`
	Message  string    `json:"message"`
}

// BulkApplyResult summarizes a bulk apply run.
type BulkApplyResult struct {
	AttemptedCount int                `json:"attempted_count"`
	SuccessCount   int                `json:"success_count"`
	Failures       []BulkApplyFailure `json:"failures,omitempty"`
}

func (s *service) BulkApply(ctx context.Context, params BulkApplyParams) (*BulkApplyResult, error) {
	// A run that would stamp every seller with a 0% + $0 override is a no-op
	// and fails fast before any override is written.
	if !suppliesCharge(params.Percentage) && !suppliesCharge(params.FixedAmount) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "percentage or fixed amount must be set and non-zero")
	}
	if err := validateFields(params.Percentage, params.FixedAmount, params.TaxPercentage); err != nil {
		return nil, err
	}

	sellerIDs := params.SellerIDs
	if params.AllSellers {
		ids, err := s.sellers.ListActiveIDs(ctx)
		if err != nil {
			return nil, err
		}
		sellerIDs = ids
	}
	if len(sellerIDs) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one seller required")
	}

	result := &BulkApplyResult{AttemptedCount: len(sellerIDs)}
	var applyErrs error
	for _, sellerID := range sellerIDs {
		_, err := s.Create(ctx, CreateParams{
			SellerID:      sellerID,
			Percentage:    params.Percentage,
			FixedAmount:   params.FixedAmount,
			TaxPercentage: params.TaxPercentage,
			Reason:        params.Reason,
			CreatedBy:     params.CreatedBy,
		})
		if err != nil {
			result.Failures = append(result.Failures, BulkApplyFailure{
				SellerID: sellerID,
				Message:  failureMessage(err),
			})
			applyErrs = multierr.Append(applyErrs, fmt.Errorf("seller %s: %w", sellerID, err))
			continue
		}
		result.SuccessCount++
	}

	if applyErrs != nil {
		s.logg.Error(ctx, "bulk apply completed with failures", applyErrs)
	}
	return result, nil
}

func suppliesCharge(value *decimal.Decimal) bool {
	return value != nil && !value.IsZero()
}

func failureMessage(err error) string {
	if typed := pkgerrors.As(err); typed != nil {
		return typed.Message()
	}
	return "internal error"
}

var oneHundred = decimal.NewFromInt(100)

func validateFields(percentage, fixedAmount, taxPercentage *decimal.Decimal) error {
	if percentage != nil && (percentage.IsNegative() || percentage.GreaterThan(oneHundred)) {
		return pkgerrors.New(pkgerrors.CodeValidation, "percentage must be between 0 and 100")
	}
	if fixedAmount != nil && fixedAmount.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "fixed amount must not be negative")
	}
	if taxPercentage != nil && (taxPercentage.IsNegative() || taxPercentage.GreaterThan(oneHundred)) {
		return pkgerrors.New(pkgerrors.CodeValidation, "tax percentage must be between 0 and 100")
	}
	return nil
}
