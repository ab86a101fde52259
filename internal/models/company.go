package models

type Company struct {
	BaseModel

	OwnerID        uint   `gorm:"not null;uniqueIndex" json:"ownerId"`
	Name           string `gorm:"not null;uniqueIndex;size:100" json:"name"`
	Description    string `gorm:"type:text;not null" json:"description"`
	LogoURL        string `gorm:"default:no-photo.jpg" json:"logoUrl"`
	Website        string `json:"website,omitempty"`
	Location       string `gorm:"not null;index" json:"location"`
	EmployeesCount string `gorm:"not null;default:1-10" json:"employeesCount"`
}
