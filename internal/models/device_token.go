package models

import "time"

type DeviceToken struct {
	BaseModel

	UserID   uint      `gorm:"not null;index:idx_user_enabled" json:"userId"`
	Role     string    `gorm:"not null;index" json:"role"`
	FCMToken string    `gorm:"column:fcm_token;not null;uniqueIndex" json:"-"`
	Platform string    `gorm:"not null" json:"platform"`
	DeviceID string    `gorm:"index" json:"deviceId,omitempty"`
	Enabled  bool      `gorm:"not null;default:true;index:idx_user_enabled" json:"enabled"`
	LastUsed time.Time `json:"lastUsed"`
}
