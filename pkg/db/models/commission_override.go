package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CommissionOverride is a per-seller commission that wins over the platform
// defaults while active. At most one override per seller can be active.
type CommissionOverride struct {
	ID            uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SellerID      uuid.UUID        `gorm:"column:seller_id;type:uuid;not null;index"`
	Percentage    *decimal.Decimal `gorm:"column:percentage;type:numeric(5,2)"`
	FixedAmount   *decimal.Decimal `gorm:"column:fixed_amount;type:numeric(12,2)"`
	TaxPercentage *decimal.Decimal `gorm:"column:tax_percentage;type:numeric(5,2)"`
	Reason        string           `gorm:"column:reason;type:text;not null;default:''"`
	Active        bool             `gorm:"column:active;not null"`
	CreatedBy     *uuid.UUID       `gorm:"column:created_by;type:uuid"`
	CreatedAt     time.Time        `gorm:"column:created_at;type:timestamptz;autoCreateTime"`
	UpdatedAt     time.Time        `gorm:"column:updated_at;type:timestamptz;autoUpdateTime"`
}
