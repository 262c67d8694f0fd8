package models

import (
	"time"

	"github.com/google/uuid"
)

// Seller is a merchant account that lists products on the marketplace.
type Seller struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID       uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex"`
	BusinessName string    `gorm:"column:business_name;type:text;not null"`
	ContactEmail string    `gorm:"column:contact_email;type:text;not null"`
	Whatsapp     string    `gorm:"column:whatsapp;type:text;not null;default:''"`
	Active       bool      `gorm:"column:active;not null"`
	CreatedAt    time.Time `gorm:"column:created_at;type:timestamptz;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;type:timestamptz;autoUpdateTime"`
}
