package models

import (
	"time"

	"github.com/lib/pq"
)

type Job struct {
	BaseModel

	EmployerID          uint           `gorm:"not null;index;<-:create" json:"employerId"`
	CompanyID           uint           `gorm:"not null;index" json:"companyId"`
	Title               string         `gorm:"not null;size:100" json:"title"`
	Description         string         `gorm:"type:text;not null" json:"description"`
	Location            string         `gorm:"not null;index" json:"location"`
	Type                string         `gorm:"not null;index" json:"type"`
	ExperienceLevel     string         `gorm:"not null;index" json:"experienceLevel"`
	SalaryRange         string         `gorm:"not null" json:"salaryRange"`
	MinSalary           int64          `gorm:"index" json:"minSalary"`
	MaxSalary           int64          `gorm:"index" json:"maxSalary"`
	SkillsRequired      pq.StringArray `gorm:"type:text[]" json:"skillsRequired"`
	Status              string         `gorm:"not null;index;default:Open" json:"status"`
	ApplicationDeadline time.Time      `gorm:"not null;index" json:"applicationDeadline"`
	PostedAt            time.Time      `gorm:"index" json:"postedAt"`

	// Relationships
	Employer     User          `gorm:"foreignKey:EmployerID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Company      *Company      `gorm:"foreignKey:CompanyID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"company,omitempty"`
	Applications []Application `gorm:"foreignKey:JobID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

// Expired reports whether the application deadline has passed at now.
func (j Job) Expired(now time.Time) bool {
	return !j.ApplicationDeadline.After(now)
}
