package models

import (
	"time"

	"github.com/google/uuid"
)

// Address is a buyer delivery address. One address per user may be the default.
type Address struct {
	ID            uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID        uuid.UUID `gorm:"column:user_id;type:uuid;not null;index"`
	Label         string    `gorm:"column:label;type:text;not null;default:''"`
	FullName      string    `gorm:"column:full_name;type:text;not null"`
	Phone         *string   `gorm:"column:phone;type:text"`
	StreetAddress string    `gorm:"column:street_address;type:text;not null"`
	City          string    `gorm:"column:city;type:text;not null"`
	State         *string   `gorm:"column:state;type:text"`
	PostalCode    *string   `gorm:"column:postal_code;type:text"`
	Country       string    `gorm:"column:country;type:text;not null;default:'MX'"`
	Notes         *string   `gorm:"column:notes;type:text"`
	IsDefault     bool      `gorm:"column:is_default;not null;default:false"`
	CreatedAt     time.Time `gorm:"column:created_at;type:timestamptz;autoCreateTime"`
	UpdatedAt     time.Time `gorm:"column:updated_at;type:timestamptz;autoUpdateTime"`
}
