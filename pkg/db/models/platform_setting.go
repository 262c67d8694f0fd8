package models

import (
	"encoding/json"
	"time"
)

// PlatformSetting is a keyed configuration document, stored as JSONB.
type PlatformSetting struct {
	Key       string          `gorm:"column:key;type:text;primaryKey"`
	Value     json.RawMessage `gorm:"column:value;type:jsonb;not null"`
	UpdatedAt time.Time       `gorm:"column:updated_at;type:timestamptz;autoUpdateTime"`
}
