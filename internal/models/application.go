package models

type Application struct {
	BaseModel

	JobID       uint   `gorm:"not null;uniqueIndex:idx_job_candidate" json:"jobId"`
	CandidateID uint   `gorm:"not null;uniqueIndex:idx_job_candidate;index" json:"candidateId"`
	EmployerID  uint   `gorm:"not null;index" json:"employerId"`
	ResumeURL   string `gorm:"not null" json:"resumeUrl"`
	CoverLetter string `gorm:"type:text" json:"coverLetter,omitempty"`
	Status      string `gorm:"not null;index;default:Applied" json:"status"`

	// Relationships
	Job       *Job  `gorm:"foreignKey:JobID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"job,omitempty"`
	Candidate *User `gorm:"foreignKey:CandidateID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"candidate,omitempty"`
}
