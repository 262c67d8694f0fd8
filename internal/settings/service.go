package settings

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	pkgerrors "github.com/mercaditoapp/mercadito-backend/pkg/errors"
)

// CommissionDefaultsKey is the platform_settings document holding the
// marketplace-wide commission configuration.
const CommissionDefaultsKey = "commission_defaults"

// CommissionDefaults is the platform-wide commission applied to sellers
// without an active override.
type CommissionDefaults struct {
	Percentage    decimal.Decimal `json:"percentage"`
	FixedAmount   decimal.Decimal `json:"fixed_amount"`
	TaxPercentage decimal.Decimal `json:"tax_percentage"`
}

// Service exposes platform setting reads and writes.
type Service interface {
	GetCommissionDefaults(ctx context.Context) (*CommissionDefaults, error)
	UpdateCommissionDefaults(ctx context.Context, defaults CommissionDefaults) error
}

type service struct {
	repo Repository
}

// NewService wires settings dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "settings repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) GetCommissionDefaults(ctx context.Context) (*CommissionDefaults, error) {
	setting, err := s.repo.Get(ctx, CommissionDefaultsKey)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Seeded by migration; an empty row means a fresh database.
			return &CommissionDefaults{}, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "get commission defaults")
	}

	var defaults CommissionDefaults
	if err := json.Unmarshal(setting.Value, &defaults); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decode commission defaults")
	}
	return &defaults, nil
}

func (s *service) UpdateCommissionDefaults(ctx context.Context, defaults CommissionDefaults) error {
	if err := validateDefaults(defaults); err != nil {
		return err
	}

	payload, err := json.Marshal(defaults)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode commission defaults")
	}
	if err := s.repo.Upsert(ctx, CommissionDefaultsKey, payload); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update commission defaults")
	}
	return nil
}

var oneHundred = decimal.NewFromInt(100)

func validateDefaults(defaults CommissionDefaults) error {
	if defaults.Percentage.IsNegative() || defaults.Percentage.GreaterThan(oneHundred) {
		return pkgerrors.New(pkgerrors.CodeValidation, "percentage must be between 0 and 100")
	}
	if defaults.FixedAmount.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "fixed amount must not be negative")
	}
	if defaults.TaxPercentage.IsNegative() || defaults.TaxPercentage.GreaterThan(oneHundred) {
		return pkgerrors.New(pkgerrors.CodeValidation, "tax percentage must be between 0 and 100")
	}
	return nil
}
