package types

import (
	"strings"
)

const ContextUserKey = "user"

// Roles
const (
	RoleCandidate = "candidate"
	RoleEmployer  = "employer"
	RoleAdmin     = "admin"
)

// User statuses
const (
	UserStatusActive  = "active"
	UserStatusBlocked = "blocked"
)

// Job statuses
const (
	JobStatusDraft    = "Draft"
	JobStatusOpen     = "Open"
	JobStatusClosed   = "Closed"
	JobStatusArchived = "Archived"
)

// Application statuses
const (
	ApplicationStatusApplied      = "Applied"
	ApplicationStatusReviewing    = "Reviewing"
	ApplicationStatusInterviewing = "Interviewing"
	ApplicationStatusSelected     = "Selected"
	ApplicationStatusRejected     = "Rejected"
)

// Notification types
const (
	NotificationJobApplied              = "JOB_APPLIED"
	NotificationApplicationReceived     = "APPLICATION_RECEIVED"
	NotificationApplicationStatusUpdate = "APPLICATION_STATUS_UPDATE"
	NotificationJobPosted               = "JOB_POSTED"
	NotificationProfileViewed           = "PROFILE_VIEWED"
	NotificationWelcome                 = "WELCOME"
	NotificationGeneral                 = "GENERAL"
)

// Entity types a notification can link to
const (
	EntityJob         = "job"
	EntityApplication = "application"
	EntityUser        = "user"
	EntityCompany     = "company"
)

var (
	Roles            = []string{RoleCandidate, RoleEmployer, RoleAdmin}
	UserStatuses     = []string{UserStatusActive, UserStatusBlocked}
	JobStatuses      = []string{JobStatusDraft, JobStatusOpen, JobStatusClosed, JobStatusArchived}
	JobTypes         = []string{"Full-Time", "Part-Time", "Contract", "Internship", "Freelance"}
	ExperienceLevels = []string{"Entry Level", "Intermediate", "Expert"}
	EmployeesCounts  = []string{"1-10", "11-50", "51-200", "201-500", "500+"}
	DevicePlatforms  = []string{"android", "ios", "web"}
	ContentKeys      = []string{"about", "terms", "privacy"}
)

var ApplicationStatuses = []string{
	ApplicationStatusApplied,
	ApplicationStatusReviewing,
	ApplicationStatusInterviewing,
	ApplicationStatusSelected,
	ApplicationStatusRejected,
}

// OneOf reports whether value is in allowed. Comparison is exact.
func OneOf(value string, allowed []string) bool {
	for _, a := range allowed {
		if a == value {
			return true
		}
	}
	return false
}

// Canonical returns the allowed spelling of value, matched case-insensitively.
func Canonical(value string, allowed []string) (string, bool) {
	value = strings.TrimSpace(value)
	for _, a := range allowed {
		if strings.EqualFold(a, value) {
			return a, true
		}
	}
	return "", false
}

// DefaultOrigins are allowed in development in addition to the configured client URL.
var DefaultOrigins = []string{
	"http://localhost:3000",
	"http://localhost:5173",
	"http://localhost:5174",
}
