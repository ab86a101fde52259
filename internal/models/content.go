package models

type Content struct {
	BaseModel

	Key           string `gorm:"not null;uniqueIndex" json:"key"`
	Value         string `gorm:"type:text;not null" json:"value"`
	LastUpdatedBy *uint  `json:"lastUpdatedBy,omitempty"`
}
