package models

import "time"

type Message struct {
	BaseModel

	ConversationID string     `gorm:"not null;index" json:"conversationId"`
	SenderID       uint       `gorm:"not null" json:"senderId"`
	ReceiverID     uint       `gorm:"not null;index" json:"receiverId"`
	Content        string     `gorm:"not null;size:2000" json:"content"`
	ReadAt         *time.Time `json:"readAt,omitempty"`
}
