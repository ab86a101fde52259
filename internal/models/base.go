package models

import "time"

// BaseModel carries the identity and timestamp columns shared by every table.
// There is no DeletedAt column: deletes are hard deletes.
type BaseModel struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
