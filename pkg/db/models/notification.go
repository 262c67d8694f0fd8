package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/mercaditoapp/mercadito-backend/pkg/enums"
)

// Notification stores in-app toast payloads scoped to users.
type Notification struct {
	ID        uuid.UUID               `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID               `gorm:"column:user_id;type:uuid;not null;index"`
	Level     enums.NotificationLevel `gorm:"column:level;type:notification_level;not null"`
	Message   string                  `gorm:"column:message;type:text;not null"`
	Detail    string                  `gorm:"column:detail;type:text;not null"`
	Read      bool                    `gorm:"column:read;not null;default:false"`
	CreatedAt time.Time               `gorm:"column:created_at;type:timestamptz;autoCreateTime"`
}
