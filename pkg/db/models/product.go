package models

import (
	"time"

	"github.com/google/uuid"
)

// Product is a marketplace listing with separate retail and wholesale pricing.
// Monetary amounts are integer cents.
type Product struct {
	ID            uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SellerID      uuid.UUID `gorm:"column:seller_id;type:uuid;not null;index"`
	SKU           string    `gorm:"column:sku;type:text;not null;uniqueIndex"`
	Name          string    `gorm:"column:name;type:text;not null"`
	Description   string    `gorm:"column:description;type:text;not null;default:''"`
	ImageURL      string    `gorm:"column:image_url;type:text;not null;default:''"`
	PriceB2CCents int64     `gorm:"column:price_b2c_cents;not null;default:0"`
	PVPCents      int64     `gorm:"column:pvp_cents;not null;default:0"`
	PriceB2BCents int64     `gorm:"column:price_b2b_cents;not null;default:0"`
	CostB2BCents  int64     `gorm:"column:cost_b2b_cents;not null;default:0"`
	Stock         int       `gorm:"column:stock;not null;default:0"`
	MOQ           int       `gorm:"column:moq;not null;default:1"`
	Active        bool      `gorm:"column:active;not null"`
	CreatedAt     time.Time `gorm:"column:created_at;type:timestamptz;autoCreateTime"`
	UpdatedAt     time.Time `gorm:"column:updated_at;type:timestamptz;autoUpdateTime"`
}
