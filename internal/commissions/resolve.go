package commissions

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/mercaditoapp/mercadito-backend/pkg/enums"
	pkgerrors "github.com/mercaditoapp/mercadito-backend/pkg/errors"
)

// EffectiveCommission is the commission actually charged to a seller. Each
// field falls back to the platform default independently, so a percentage-only
// override still inherits the global fixed amount.
type EffectiveCommission struct {
	SellerID      uuid.UUID                         `json:"seller_id"`
	Percentage    decimal.Decimal                   `json:"percentage"`
	FixedAmount   decimal.Decimal                   `json:"fixed_amount"`
	TaxPercentage decimal.Decimal                   `json:"tax_percentage"`
	Sources       map[string]enums.CommissionSource `json:"sources"`
	OverrideID    *uuid.UUID                        `json:"override_id,omitempty"`
}

func (s *service) ResolveEffective(ctx context.Context, sellerID uuid.UUID) (*EffectiveCommission, error) {
	if sellerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "seller id required")
	}

	defaults, err := s.settings.GetCommissionDefaults(ctx)
	if err != nil {
		return nil, err
	}

	effective := &EffectiveCommission{
		SellerID:      sellerID,
		Percentage:    defaults.Percentage,
		FixedAmount:   defaults.FixedAmount,
		TaxPercentage: defaults.TaxPercentage,
		Sources: map[string]enums.CommissionSource{
			"percentage":     enums.CommissionSourceGlobal,
			"fixed_amount":   enums.CommissionSourceGlobal,
			"tax_percentage": enums.CommissionSourceGlobal,
		},
	}

	override, err := s.repo.GetActiveBySeller(ctx, sellerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return effective, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve active override")
	}

	effective.OverrideID = &override.ID
	if override.Percentage != nil {
		effective.Percentage = *override.Percentage
		effective.Sources["percentage"] = enums.CommissionSourceOverride
	}
	if override.FixedAmount != nil {
		effective.FixedAmount = *override.FixedAmount
		effective.Sources["fixed_amount"] = enums.CommissionSourceOverride
	}
	if override.TaxPercentage != nil {
		effective.TaxPercentage = *override.TaxPercentage
		effective.Sources["tax_percentage"] = enums.CommissionSourceOverride
	}
	return effective, nil
}

// Quote is the commission charged on a single sale, in cents.
type Quote struct {
	SaleAmountCents int64           `json:"sale_amount_cents"`
	CommissionCents int64           `json:"commission_cents"`
	TaxCents        int64           `json:"tax_cents"`
	TotalCents      int64           `json:"total_cents"`
	Percentage      decimal.Decimal `json:"percentage"`
	FixedAmount     decimal.Decimal `json:"fixed_amount"`
}

// QuoteForSale prices a sale amount against an effective commission:
// percentage of the amount plus the fixed fee, with tax applied on top of the
// commission. Amounts round half-up to whole cents.
func QuoteForSale(effective *EffectiveCommission, saleAmountCents int64) Quote {
	amount := decimal.NewFromInt(saleAmountCents)
	commission := amount.Mul(effective.Percentage).Div(oneHundred).Add(effective.FixedAmount)
	tax := commission.Mul(effective.TaxPercentage).Div(oneHundred)

	commissionCents := commission.Round(0).IntPart()
	taxCents := tax.Round(0).IntPart()
	return Quote{
		SaleAmountCents: saleAmountCents,
		CommissionCents: commissionCents,
		TaxCents:        taxCents,
		TotalCents:      commissionCents + taxCents,
		Percentage:      effective.Percentage,
		FixedAmount:     effective.FixedAmount,
	}
}

// QuoteForSeller resolves the seller's effective commission and prices the
// given sale amount with it.
func (s *service) QuoteForSeller(ctx context.Context, sellerID uuid.UUID, saleAmountCents int64) (*Quote, error) {
	if saleAmountCents < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "sale amount must not be negative")
	}
	effective, err := s.ResolveEffective(ctx, sellerID)
	if err != nil {
		return nil, err
	}
	quote := QuoteForSale(effective, saleAmountCents)
	return &quote, nil
}
