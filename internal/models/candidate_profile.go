package models

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/datatypes"
)

type Resume struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	URL        string    `json:"url"`
	UploadedAt time.Time `json:"uploadedAt"`
}

type CandidateProfile struct {
	BaseModel

	UserID           uint                        `gorm:"not null;uniqueIndex" json:"userId"`
	Title            string                      `gorm:"size:100" json:"title"`
	Location         string                      `gorm:"index" json:"location"`
	About            string                      `gorm:"size:1000" json:"about"`
	Skills           pq.StringArray              `gorm:"type:text[]" json:"skills"`
	Phone            string                      `json:"phone,omitempty"`
	AvatarURL        string                      `json:"avatarUrl,omitempty"`
	Resumes          datatypes.JSONSlice[Resume] `json:"resumes"`
	DefaultResumeURL string                      `json:"defaultResumeUrl,omitempty"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

type SavedJob struct {
	UserID    uint      `gorm:"primaryKey" json:"userId"`
	JobID     uint      `gorm:"primaryKey" json:"jobId"`
	CreatedAt time.Time `json:"createdAt"`

	Job *Job `gorm:"foreignKey:JobID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"job,omitempty"`
}
