package models

import (
	"time"

	"github.com/google/uuid"
)

// PickupPoint is a physical location where B2C orders can be collected.
type PickupPoint struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string    `gorm:"column:name;type:text;not null"`
	Address   string    `gorm:"column:address;type:text;not null"`
	City      string    `gorm:"column:city;type:text;not null"`
	Country   string    `gorm:"column:country;type:text;not null;default:'MX'"`
	Phone     string    `gorm:"column:phone;type:text;not null;default:''"`
	Active    bool      `gorm:"column:active;not null"`
	CreatedAt time.Time `gorm:"column:created_at;type:timestamptz;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;type:timestamptz;autoUpdateTime"`
}
