package models

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/datatypes"
)

type Notification struct {
	BaseModel

	RecipientID      uint              `gorm:"not null;index;<-:create" json:"recipientId"`
	Type             string            `gorm:"not null" json:"type"`
	Title            string            `gorm:"not null" json:"title"`
	Message          string            `gorm:"not null" json:"message"`
	EntityType       string            `json:"entityType,omitempty"`
	EntityID         *uint             `json:"entityId,omitempty"`
	Data             datatypes.JSONMap `json:"data"`
	IsRead           bool              `gorm:"not null;default:false;index" json:"isRead"`
	ReadAt           *time.Time        `json:"readAt,omitempty"`
	DeliveryChannels pq.StringArray    `gorm:"type:text[]" json:"deliveryChannels"`
	Sent             bool              `gorm:"not null;default:false" json:"sent"`
	SentAt           *time.Time        `json:"sentAt,omitempty"`
}
