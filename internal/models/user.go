package models

import "time"

type User struct {
	BaseModel

	Name                 string     `gorm:"not null" json:"name"`
	Email                string     `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash         string     `gorm:"not null" json:"-"`
	Role                 string     `gorm:"not null;index;default:candidate" json:"role"`
	Status               string     `gorm:"not null;index;default:active" json:"status"`
	AvatarURL            string     `json:"avatarUrl,omitempty"`
	Phone                string     `json:"phone,omitempty"`
	LastLogin            *time.Time `json:"lastLogin,omitempty"`
	PasswordResetToken   string     `gorm:"index" json:"-"`
	PasswordResetExpires *time.Time `json:"-"`

	// Relationships
	Company          *Company          `gorm:"foreignKey:OwnerID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	CandidateProfile *CandidateProfile `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Notifications    []Notification    `gorm:"foreignKey:RecipientID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	DeviceTokens     []DeviceToken     `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}
